// Package lifecycle is the single entry point for complaint status
// mutations. Handlers never set status directly; every transition goes
// through the engine, which enforces the transition table and fires
// best-effort notifications through the injected port.
package lifecycle

import (
	"context"
	"log"
	"time"

	"civicvoice-be/apperr"
	"civicvoice-be/models"
	"civicvoice-be/notify"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the persistence surface the engine mutates through. Every
// mutation is a single atomic update on the storage side.
type Store interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.ComplaintStatus) error
	Assign(ctx context.Context, id primitive.ObjectID, department string) error
	MarkEscalated(ctx context.Context, id primitive.ObjectID, at time.Time) error
	AddUpvote(ctx context.Context, id, citizen primitive.ObjectID) (int, error)
	UpsertRating(ctx context.Context, id, citizen primitive.ObjectID, value int) error
}

// Users resolves reporters for notification delivery.
type Users interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Engine struct {
	store     Store
	users     Users
	notifier  notify.Notifier
	directory *notify.Directory
	baseURL   string
}

func New(store Store, users Users, notifier notify.Notifier, directory *notify.Directory, baseURL string) *Engine {
	return &Engine{
		store:     store,
		users:     users,
		notifier:  notifier,
		directory: directory,
		baseURL:   baseURL,
	}
}

// Verify moves a pending complaint to verified. Re-verifying a verified
// complaint is a no-op success; any later status is a Conflict.
func (e *Engine) Verify(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	c, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch c.Status {
	case models.StatusVerified:
		return c, nil
	case models.StatusPending:
		if err := e.store.SetStatus(ctx, id, models.StatusVerified); err != nil {
			return nil, err
		}
		c.Status = models.StatusVerified
		return c, nil
	default:
		return nil, apperr.Newf(apperr.Conflict, "Cannot verify a %s complaint", c.Status)
	}
}

// Assign forwards a verified complaint to a recognized department and
// notifies it by email. The notification is fire-and-forget: its failure is
// logged and never rolls back the persisted status change.
func (e *Engine) Assign(ctx context.Context, id primitive.ObjectID, department string) (*models.Complaint, error) {
	if !e.directory.Recognized(department) {
		return nil, apperr.Newf(apperr.Validation, "Unknown department: %s", department)
	}

	c, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch c.Status {
	case models.StatusVerified, models.StatusForwarded, models.StatusInProgress, models.StatusEscalated:
	default:
		return nil, apperr.Newf(apperr.Conflict, "Cannot assign a %s complaint", c.Status)
	}

	if err := e.store.Assign(ctx, id, department); err != nil {
		return nil, err
	}
	c.Status = models.StatusForwarded
	c.AssignedDepartment = department

	subject, body := notify.DepartmentAssignmentEmail(c, department, e.baseURL)
	if err := e.notifier.SendEmail(ctx, e.directory.EmailFor(department), subject, body); err != nil {
		log.Printf("failed to notify department %s for %s: %v", department, c.ComplaintID, err)
	}

	return c, nil
}

// Escalate is the manual admin shortcut: the complaint is re-flagged as
// forwarded and forced onto General Administration. Allowed from any
// non-resolved status.
func (e *Engine) Escalate(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	c, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.StatusResolved {
		return nil, apperr.New(apperr.Conflict, "Cannot escalate a resolved complaint")
	}

	if err := e.store.Assign(ctx, id, models.EscalationDepartment); err != nil {
		return nil, err
	}
	c.Status = models.StatusForwarded
	c.AssignedDepartment = models.EscalationDepartment
	return c, nil
}

// Resolve closes a forwarded or in-progress complaint and notifies the
// reporter over email and SMS independently; a missing contact channel is
// simply skipped, and a provider failure never fails the resolution.
func (e *Engine) Resolve(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	c, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch c.Status {
	case models.StatusForwarded, models.StatusInProgress:
	default:
		return nil, apperr.Newf(apperr.Conflict, "Cannot resolve a %s complaint", c.Status)
	}

	if err := e.store.SetStatus(ctx, id, models.StatusResolved); err != nil {
		return nil, err
	}
	c.Status = models.StatusResolved

	e.notifyReporter(ctx, c, notify.ResolutionEmail, notify.ResolutionSMS)
	return c, nil
}

// UpdateStatus is the department-side transition: in_progress or resolved,
// from forwarded/in_progress only. Resolving this way carries the same
// reporter notifications as Resolve.
func (e *Engine) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ComplaintStatus) (*models.Complaint, error) {
	switch status {
	case models.StatusInProgress:
	case models.StatusResolved:
		return e.Resolve(ctx, id)
	default:
		return nil, apperr.Newf(apperr.Validation, "Departments may only set in_progress or resolved, not %s", status)
	}

	c, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case models.StatusForwarded, models.StatusInProgress:
	default:
		return nil, apperr.Newf(apperr.Conflict, "Cannot start work on a %s complaint", c.Status)
	}

	if err := e.store.SetStatus(ctx, id, models.StatusInProgress); err != nil {
		return nil, err
	}
	c.Status = models.StatusInProgress
	return c, nil
}

// AutoEscalate is the sweep transition for one stale complaint: escalated
// status, General Administration, reporter notified.
func (e *Engine) AutoEscalate(ctx context.Context, c *models.Complaint) error {
	switch c.Status {
	case models.StatusForwarded, models.StatusInProgress:
	default:
		return apperr.Newf(apperr.Conflict, "Cannot auto-escalate a %s complaint", c.Status)
	}

	now := time.Now()
	if err := e.store.MarkEscalated(ctx, c.ID, now); err != nil {
		return err
	}
	c.Status = models.StatusEscalated
	c.AssignedDepartment = models.EscalationDepartment
	c.LastEscalatedAt = &now

	e.notifyReporter(ctx, c, notify.EscalationEmail, notify.EscalationSMS)
	return nil
}

// Upvote records a one-time interest signal; a second attempt by the same
// citizen is a Conflict. Returns the updated count.
func (e *Engine) Upvote(ctx context.Context, id, citizen primitive.ObjectID) (int, error) {
	return e.store.AddUpvote(ctx, id, citizen)
}

// Rate upserts the citizen's 1-5 resolution rating.
func (e *Engine) Rate(ctx context.Context, id, citizen primitive.ObjectID, value int) error {
	if value < 1 || value > 5 {
		return apperr.New(apperr.Validation, "Rating must be between 1 and 5")
	}
	return e.store.UpsertRating(ctx, id, citizen, value)
}

func (e *Engine) notifyReporter(ctx context.Context, c *models.Complaint,
	email func(*models.Complaint) (string, string), sms func(*models.Complaint) string) {

	reporter, err := e.users.Get(ctx, c.Reporter)
	if err != nil {
		log.Printf("cannot resolve reporter for %s: %v", c.ComplaintID, err)
		return
	}

	if reporter.Email != "" {
		subject, body := email(c)
		if err := e.notifier.SendEmail(ctx, reporter.Email, subject, body); err != nil {
			log.Printf("failed to email reporter for %s: %v", c.ComplaintID, err)
		}
	}
	if reporter.Mobile != "" {
		if err := e.notifier.SendSMS(ctx, reporter.Mobile, sms(c)); err != nil {
			log.Printf("failed to text reporter for %s: %v", c.ComplaintID, err)
		}
	}
}
