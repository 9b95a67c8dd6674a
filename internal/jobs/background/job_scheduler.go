package background

import (
	"context"
	"log"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic invitation expiry sweep. Singleton mode
// keeps overlapping runs from stacking up; the sweep itself is a conditional
// write, so a concurrent run from another instance is harmless.
type JobScheduler struct {
	scheduler         gocron.Scheduler
	invitationService services.InvitationService
	sweepInterval     time.Duration
}

// NewJobScheduler creates a scheduler with the expiry sweep registered.
func NewJobScheduler(invitationService services.InvitationService, sweepInterval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:         scheduler,
		invitationService: invitationService,
		sweepInterval:     sweepInterval,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(js.sweepExpiredInvitations),
		gocron.WithName("invitation-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler (sweep every %s)", js.sweepInterval)
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) sweepExpiredInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := js.invitationService.MarkExpired(ctx, time.Now())
	if err != nil {
		log.Printf("Invitation expiry sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Invitation expiry sweep transitioned %d invitations", count)
	}
}
