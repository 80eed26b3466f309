// Package jobs contains the background work executed outside the request
// path, currently outbox delivery.
package jobs

import (
	"context"
	"time"

	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository"
	"recruit-backend/internal/service"
)

// JobRunner executes scheduled jobs against the store.
type JobRunner struct {
	outboxRepo repository.OutboxRepository
	email      service.EmailService
}

func NewJobRunner(outboxRepo repository.OutboxRepository, email service.EmailService) *JobRunner {
	return &JobRunner{
		outboxRepo: outboxRepo,
		email:      email,
	}
}

// runWithRecovery wraps a job so a panic in one run cannot take down the
// scheduler.
func (r *JobRunner) runWithRecovery(ctx context.Context, jobName string, fn func(context.Context) error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Job panicked", "job", jobName, "panic", rec)
		}
	}()

	start := time.Now()
	logger.Info("Job started", "job", jobName)

	if err := fn(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "duration", time.Since(start), "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}

// RunDeliverOutbox is the scheduler entry point for outbox delivery.
func (r *JobRunner) RunDeliverOutbox() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	r.runWithRecovery(ctx, "deliver_outbox", r.DeliverPendingOutbox)
}
