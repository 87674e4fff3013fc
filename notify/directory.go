package notify

// Directory maps recognized department names to their inbox addresses.
type Directory struct {
	emails map[string]string
}

// RecognizedDepartments are the routable assignment targets.
var RecognizedDepartments = []string{
	"Water Supply Department",
	"Sanitation & Waste",
	"Roads & Traffic",
	"Electricity Board",
	"General Administration",
	"Health Department",
}

// NewDirectory routes every department to the fallback inbox unless an
// explicit address is given. The original deployment pointed all
// departments at one operations inbox.
func NewDirectory(fallback string, overrides map[string]string) *Directory {
	emails := make(map[string]string, len(RecognizedDepartments))
	for _, name := range RecognizedDepartments {
		emails[name] = fallback
	}
	for name, addr := range overrides {
		emails[name] = addr
	}
	return &Directory{emails: emails}
}

func (d *Directory) Recognized(name string) bool {
	_, ok := d.emails[name]
	return ok
}

func (d *Directory) EmailFor(name string) string {
	return d.emails[name]
}
