package scheduler

import (
	"context"
	"testing"
	"time"

	"civicvoice-be/apperr"
	"civicvoice-be/lifecycle"
	"civicvoice-be/models"
	"civicvoice-be/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sweepStore backs a real lifecycle engine and the sweep's stale query.
type sweepStore struct {
	complaints map[primitive.ObjectID]*models.Complaint
	// ids listed here fail MarkEscalated, to exercise per-record isolation.
	failing map[primitive.ObjectID]bool
}

func newSweepStore(complaints ...*models.Complaint) *sweepStore {
	s := &sweepStore{
		complaints: map[primitive.ObjectID]*models.Complaint{},
		failing:    map[primitive.ObjectID]bool{},
	}
	for _, c := range complaints {
		s.complaints[c.ID] = c
	}
	return s
}

func (s *sweepStore) FindStale(_ context.Context, before time.Time) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range s.complaints {
		if c.Status != models.StatusForwarded && c.Status != models.StatusInProgress {
			continue
		}
		if c.UpdatedAt.After(before) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *sweepStore) Get(_ context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	c, ok := s.complaints[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Complaint not found")
	}
	copied := *c
	return &copied, nil
}

func (s *sweepStore) SetStatus(_ context.Context, id primitive.ObjectID, status models.ComplaintStatus) error {
	s.complaints[id].Status = status
	s.complaints[id].UpdatedAt = time.Now()
	return nil
}

func (s *sweepStore) Assign(_ context.Context, id primitive.ObjectID, department string) error {
	c := s.complaints[id]
	c.Status = models.StatusForwarded
	c.AssignedDepartment = department
	c.UpdatedAt = time.Now()
	return nil
}

func (s *sweepStore) MarkEscalated(_ context.Context, id primitive.ObjectID, at time.Time) error {
	if s.failing[id] {
		return apperr.New(apperr.Internal, "write failed")
	}
	c := s.complaints[id]
	c.Status = models.StatusEscalated
	c.AssignedDepartment = models.EscalationDepartment
	c.LastEscalatedAt = &at
	c.UpdatedAt = time.Now()
	return nil
}

func (s *sweepStore) AddUpvote(_ context.Context, _, _ primitive.ObjectID) (int, error) {
	return 0, apperr.New(apperr.Internal, "not used by the sweep")
}

func (s *sweepStore) UpsertRating(_ context.Context, _, _ primitive.ObjectID, _ int) error {
	return apperr.New(apperr.Internal, "not used by the sweep")
}

type noopNotifier struct {
	sms int
}

func (n *noopNotifier) SendEmail(context.Context, string, string, string) error { return nil }
func (n *noopNotifier) SendSMS(context.Context, string, string) error {
	n.sms++
	return nil
}

type sweepUsers struct {
	users map[primitive.ObjectID]*models.User
}

func (u *sweepUsers) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := u.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	return user, nil
}

func staleComplaint(status models.ComplaintStatus, reporter primitive.ObjectID, age time.Duration) *models.Complaint {
	return &models.Complaint{
		ID:                 primitive.NewObjectID(),
		ComplaintID:        "CV-" + primitive.NewObjectID().Hex()[:6],
		Reporter:           reporter,
		IssueType:          models.IssueRoads,
		Description:        "Pothole cluster",
		LocationText:       "MG Road",
		Status:             status,
		Severity:           models.SeverityHigh,
		AssignedDepartment: "Roads & Traffic",
		UpdatedAt:          time.Now().Add(-age),
	}
}

func newSweep(store *sweepStore, notifier *noopNotifier, users *sweepUsers) *Escalator {
	engine := lifecycle.New(store, users, notifier, notify.NewDirectory("ops@example.com", nil), "http://localhost:5001")
	return NewEscalator(store, engine)
}

func TestRunEscalatesOnlyStaleComplaints(t *testing.T) {
	reporter := primitive.NewObjectID()
	users := &sweepUsers{users: map[primitive.ObjectID]*models.User{
		reporter: {ID: reporter, Mobile: "9876543210"},
	}}

	old := staleComplaint(models.StatusForwarded, reporter, 8*24*time.Hour)
	fresh := staleComplaint(models.StatusForwarded, reporter, 24*time.Hour)
	store := newSweepStore(old, fresh)
	notifier := &noopNotifier{}

	n := newSweep(store, notifier, users).Run(context.Background())

	assert.Equal(t, 1, n)
	assert.Equal(t, models.StatusEscalated, store.complaints[old.ID].Status)
	assert.Equal(t, models.EscalationDepartment, store.complaints[old.ID].AssignedDepartment)
	require.NotNil(t, store.complaints[old.ID].LastEscalatedAt)
	assert.Equal(t, models.StatusForwarded, store.complaints[fresh.ID].Status)
	assert.Equal(t, 1, notifier.sms)
}

func TestRunSkipsTerminalStatuses(t *testing.T) {
	reporter := primitive.NewObjectID()
	users := &sweepUsers{users: map[primitive.ObjectID]*models.User{
		reporter: {ID: reporter, Mobile: "9876543210"},
	}}

	resolved := staleComplaint(models.StatusResolved, reporter, 30*24*time.Hour)
	pending := staleComplaint(models.StatusPending, reporter, 30*24*time.Hour)
	inProgress := staleComplaint(models.StatusInProgress, reporter, 9*24*time.Hour)
	store := newSweepStore(resolved, pending, inProgress)

	n := newSweep(store, &noopNotifier{}, users).Run(context.Background())

	assert.Equal(t, 1, n)
	assert.Equal(t, models.StatusResolved, store.complaints[resolved.ID].Status)
	assert.Equal(t, models.StatusPending, store.complaints[pending.ID].Status)
	assert.Equal(t, models.StatusEscalated, store.complaints[inProgress.ID].Status)
}

func TestRunContinuesPastFailures(t *testing.T) {
	reporter := primitive.NewObjectID()
	users := &sweepUsers{users: map[primitive.ObjectID]*models.User{
		reporter: {ID: reporter, Mobile: "9876543210"},
	}}

	broken := staleComplaint(models.StatusForwarded, reporter, 10*24*time.Hour)
	healthy := staleComplaint(models.StatusInProgress, reporter, 10*24*time.Hour)
	store := newSweepStore(broken, healthy)
	store.failing[broken.ID] = true

	n := newSweep(store, &noopNotifier{}, users).Run(context.Background())

	assert.Equal(t, 1, n)
	assert.Equal(t, models.StatusForwarded, store.complaints[broken.ID].Status)
	assert.Equal(t, models.StatusEscalated, store.complaints[healthy.ID].Status)
}

func TestRunWithNothingStale(t *testing.T) {
	store := newSweepStore()
	n := newSweep(store, &noopNotifier{}, &sweepUsers{users: map[primitive.ObjectID]*models.User{}}).Run(context.Background())
	assert.Equal(t, 0, n)
}
