// Package scheduler wires the job runner into cron.
package scheduler

import (
	"fmt"
	"time"

	"recruit-backend/internal/config"
	"recruit-backend/internal/jobs"
	"recruit-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron instance and its registered jobs.
type Scheduler struct {
	cron   *cron.Cron
	runner *jobs.JobRunner
}

func New(runner *jobs.JobRunner) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
		),
		runner: runner,
	}
}

// Register adds the configured jobs to the cron table.
func (s *Scheduler) Register(cfg config.SchedulerConfig) error {
	if _, err := s.cron.AddFunc(cfg.DeliverOutbox, s.runner.RunDeliverOutbox); err != nil {
		return fmt.Errorf("failed to schedule outbox delivery: %w", err)
	}
	logger.Info("Job scheduled", "job", "deliver_outbox", "schedule", cfg.DeliverOutbox)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
