// Package scheduler runs the daily escalation sweep over stale complaints.
package scheduler

import (
	"context"
	"log"
	"time"

	"civicvoice-be/lifecycle"
	"civicvoice-be/models"

	"github.com/robfig/cron/v3"
)

// StaleThreshold is how long a forwarded/in_progress complaint may sit
// unmodified before the sweep escalates it.
const StaleThreshold = 7 * 24 * time.Hour

// cronSpec runs the sweep daily at midnight.
const cronSpec = "0 0 * * *"

// StaleFinder lists complaints eligible for escalation.
type StaleFinder interface {
	FindStale(ctx context.Context, before time.Time) ([]models.Complaint, error)
}

type Escalator struct {
	store  StaleFinder
	engine *lifecycle.Engine
	cron   *cron.Cron
}

func NewEscalator(store StaleFinder, engine *lifecycle.Engine) *Escalator {
	return &Escalator{store: store, engine: engine}
}

// Start registers the daily job and launches the cron runner.
func (e *Escalator) Start() error {
	e.cron = cron.New()
	_, err := e.cron.AddFunc(cronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		e.Run(ctx)
	})
	if err != nil {
		return err
	}
	e.cron.Start()
	log.Println("Escalation sweep scheduled: daily at midnight")
	return nil
}

func (e *Escalator) Stop() {
	if e.cron != nil {
		e.cron.Stop()
	}
}

// Run performs one sweep: every complaint stuck in forwarded/in_progress
// beyond the threshold is forced into escalated. Records are processed
// independently; a failure on one is logged and never aborts the rest.
// Returns the number escalated.
func (e *Escalator) Run(ctx context.Context) int {
	log.Println("Running escalation sweep...")

	cutoff := time.Now().Add(-StaleThreshold)
	stale, err := e.store.FindStale(ctx, cutoff)
	if err != nil {
		log.Printf("escalation sweep query failed: %v", err)
		return 0
	}
	if len(stale) == 0 {
		log.Println("No complaints eligible for escalation")
		return 0
	}

	escalated := 0
	for i := range stale {
		c := &stale[i]
		if err := e.engine.AutoEscalate(ctx, c); err != nil {
			log.Printf("failed to escalate %s: %v", c.ComplaintID, err)
			continue
		}
		log.Printf("Escalated %s - %s (%s)", c.ComplaintID, c.IssueType, c.LocationText)
		escalated++
	}

	log.Printf("Escalation sweep complete - %d updated", escalated)
	return escalated
}
