package notify

import (
	"fmt"
	"strings"

	"civicvoice-be/models"
)

// DepartmentAssignmentEmail is sent to a department when a complaint is
// forwarded to it, including evidence links.
func DepartmentAssignmentEmail(c *models.Complaint, department, baseURL string) (subject, body string) {
	var mediaLinks []string
	for i, m := range c.Media {
		url := m.URL
		if strings.HasPrefix(url, "/") {
			url = baseURL + url
		}
		mediaLinks = append(mediaLinks, fmt.Sprintf(`<a href="%s">Evidence %d (%s)</a>`, url, i+1, m.Type))
	}
	evidence := strings.Join(mediaLinks, "<br>")
	if evidence == "" {
		evidence = "No media attached."
	}

	coords := ""
	if len(c.LocationGeo.Coordinates) == 2 {
		coords = fmt.Sprintf("%v, %v", c.LocationGeo.Coordinates[0], c.LocationGeo.Coordinates[1])
	}

	subject = fmt.Sprintf("URGENT: New Complaint Assigned - %s", c.ComplaintID)
	body = fmt.Sprintf(`<h2>New Complaint Assigned</h2>
<p><strong>Department:</strong> %s</p>
<p><strong>Complaint ID:</strong> %s</p>
<p><strong>Issue Type:</strong> %s</p>
<hr />
<h3>Description</h3>
<p>%s</p>
<hr />
<h3>Location</h3>
<p>%s</p>
<p><strong>Coordinates:</strong> %s</p>
<hr />
<h3>Evidence</h3>
<p>%s</p>
<br />
<p>Please take action immediately.</p>`,
		department, c.ComplaintID, strings.ToUpper(string(c.IssueType)),
		c.Description, c.LocationText, coords, evidence)
	return subject, body
}

// ResolutionEmail is sent to the reporter when their complaint is resolved.
func ResolutionEmail(c *models.Complaint) (subject, body string) {
	subject = fmt.Sprintf("Complaint Resolved: %s", c.ComplaintID)
	body = fmt.Sprintf("<p>Good news! Your complaint regarding %s has been resolved. Thank you for reporting!</p>", c.IssueType)
	return subject, body
}

// ResolutionSMS is the reporter's text-message counterpart.
func ResolutionSMS(c *models.Complaint) string {
	return fmt.Sprintf(`CivicVoice Update: Your complaint %s regarding "%s" has been RESOLVED. Thank you for helping improve your city!`,
		c.ComplaintID, c.IssueType)
}

// EscalationEmail is sent to the reporter when the sweep escalates a stale
// complaint.
func EscalationEmail(c *models.Complaint) (subject, body string) {
	subject = fmt.Sprintf("Your complaint %s has been escalated", c.ComplaintID)
	body = fmt.Sprintf("<p>Your %s complaint at %s is still unresolved and has been escalated to higher authorities for urgent attention.</p>",
		c.IssueType, c.LocationText)
	return subject, body
}

// EscalationSMS is the reporter's text-message counterpart.
func EscalationSMS(c *models.Complaint) string {
	return fmt.Sprintf("CivicVoice Update: Your complaint %s has been escalated to %s for urgent attention.",
		c.ComplaintID, models.EscalationDepartment)
}

// OTPSMS carries the citizen login code.
func OTPSMS(otp string) string {
	return fmt.Sprintf("Your CivicVoice Verification Code is: %s", otp)
}
