package service

import (
	"context"

	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository"
)

type outboxPublisher struct {
	outboxRepo repository.OutboxRepository
}

func NewOutboxPublisher(outboxRepo repository.OutboxRepository) OutboxPublisher {
	return &outboxPublisher{outboxRepo: outboxRepo}
}

// Enqueue records the notification intent as a pending outbox message. The
// delivery worker picks it up later; request latency never waits on the mail
// provider.
func (p *outboxPublisher) Enqueue(ctx context.Context, typ domain.OutboxType, to string, payload map[string]string) error {
	msg := &domain.OutboxMessage{
		Type:    typ,
		To:      to,
		Payload: payload,
	}
	if err := p.outboxRepo.Create(ctx, msg); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Notification enqueued", "type", typ, "message_id", msg.ID)
	return nil
}
