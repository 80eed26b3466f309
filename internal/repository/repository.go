package repository

import (
	"context"
	"time"

	"recruit-backend/internal/domain"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	Update(ctx context.Context, app *domain.Application) error
	ListByStatus(ctx context.Context, status string, page, pageSize int) ([]domain.Application, int, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Touch(ctx context.Context, token string) error
	Delete(ctx context.Context, token string) error
}

type WindowRepository interface {
	Get(ctx context.Context) (*domain.RecruitWindow, error)
	Put(ctx context.Context, window *domain.RecruitWindow) error
}

type OutboxRepository interface {
	Create(ctx context.Context, msg *domain.OutboxMessage) error
	ListPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, lastError string) error
}

// AdmissionRepository performs the acceptance transaction: the member insert
// and the application status flip either both commit or neither does.
type AdmissionRepository interface {
	// AcceptApplication re-reads the application inside the transaction and
	// short-circuits with the existing member ID (created=false) when it
	// already carries an accepted member.
	AcceptApplication(ctx context.Context, appID string, member *domain.Member, updatedBy string) (memberID string, created bool, err error)
}

// RateLimitRepository is the shared-store binding for fixed-window counters.
// Counters must be visible to every request-handling process.
type RateLimitRepository interface {
	Consume(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}
