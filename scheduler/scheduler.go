package scheduler

import (
	"context"
	"fmt"
	"time"

	"arenasrv/service"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// ReviewSweeper periodically flags COMPLETED matches that have sat
// unverified past the review window.
type ReviewSweeper struct {
	scheduler gocron.Scheduler
}

// Start begins the sweep loop
func Start(results service.ResultService, window, interval time.Duration) (*ReviewSweeper, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			count, err := results.FlagStaleCompletions(ctx, window)
			if err != nil {
				log.WithError(err).Error("Review sweep failed")
				return
			}
			if count > 0 {
				log.WithField("flagged", count).Info("Review sweep complete")
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule review sweep: %w", err)
	}

	sched.Start()
	log.WithFields(log.Fields{
		"window":   window,
		"interval": interval,
	}).Info("Review sweeper started")

	return &ReviewSweeper{scheduler: sched}, nil
}

// Stop shuts the sweep loop down
func (s *ReviewSweeper) Stop() error {
	return s.scheduler.Shutdown()
}
