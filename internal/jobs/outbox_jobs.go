package jobs

import (
	"context"
	"fmt"

	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
)

const deliveryBatchSize = 50

// DeliverPendingOutbox drains one batch of pending outbox messages. Each
// message is marked sent or failed individually so one bad recipient cannot
// stall the batch.
func (r *JobRunner) DeliverPendingOutbox(ctx context.Context) error {
	messages, err := r.outboxRepo.ListPending(ctx, deliveryBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	sent, failed := 0, 0
	for i := range messages {
		msg := &messages[i]
		subject, body := renderMessage(msg)

		if err := r.email.Send(ctx, msg.To, subject, body); err != nil {
			failed++
			logger.ErrorContext(ctx, "Outbox delivery failed", "message_id", msg.ID, "type", msg.Type, "error", err)
			if markErr := r.outboxRepo.MarkFailed(ctx, msg.ID, err.Error()); markErr != nil {
				logger.ErrorContext(ctx, "Failed to record delivery failure", "message_id", msg.ID, "error", markErr)
			}
			continue
		}

		sent++
		if err := r.outboxRepo.MarkSent(ctx, msg.ID); err != nil {
			logger.ErrorContext(ctx, "Failed to mark message sent", "message_id", msg.ID, "error", err)
		}
	}

	logger.InfoContext(ctx, "Outbox batch processed", "sent", sent, "failed", failed)
	return nil
}

// renderMessage produces the subject and plain-text body for each
// notification type.
func renderMessage(msg *domain.OutboxMessage) (subject, body string) {
	name := msg.Payload["name"]

	switch msg.Type {
	case domain.OutboxTypeApplicationReceived:
		subject = "We received your application"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour application has been received and is under review.\nYou can log in at any time to check or update it while the recruiting window is open.\n",
			name)
	case domain.OutboxTypeTempPassword:
		subject = "Your temporary password"
		body = fmt.Sprintf(
			"Hi %s,\n\nA temporary password was issued for your application account:\n\n    %s\n\nUse it to log in, then change it from your profile.\n",
			name, msg.Payload["tempPassword"])
	case domain.OutboxTypeDecision:
		subject = "Your application decision"
		body = fmt.Sprintf(
			"Hi %s,\n\nA decision has been made on your application (status: %s).\nPlease log in for details.\n",
			name, msg.Payload["status"])
	default:
		subject = "Notification"
		body = fmt.Sprintf("Hi %s,\n\nYou have a new notification.\n", name)
	}
	return subject, body
}
