package service

import (
	"context"

	"recruit-backend/internal/domain"
)

// RecruitService covers the applicant-facing pipeline: submission, login
// with lockout, profile reads/edits, and password reset.
type RecruitService interface {
	Apply(ctx context.Context, fields map[string]any) error
	Login(ctx context.Context, email, password string) (string, error)
	GetProfile(ctx context.Context, email string) (*domain.Application, error)
	UpdateProfile(ctx context.Context, email string, fields map[string]any) error
	ResetPassword(ctx context.Context, email string) error
}

// SessionService issues and resolves the opaque recruit session tokens.
type SessionService interface {
	Issue(ctx context.Context, email string) (string, error)
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// WindowService is the gate every submission/edit endpoint consults.
type WindowService interface {
	Get(ctx context.Context) (*domain.RecruitWindow, error)
	RequireOpen(ctx context.Context) error
	Update(ctx context.Context, window *domain.RecruitWindow) error
}

// OutboxPublisher durably records notification intents; it never performs
// delivery I/O.
type OutboxPublisher interface {
	Enqueue(ctx context.Context, typ domain.OutboxType, to string, payload map[string]string) error
}

// StatusUpdateResult is the admin-facing outcome of a status change. LinkCode
// is non-nil exactly once, on the accept call that minted the member.
type StatusUpdateResult struct {
	MemberID string
	LinkCode *string
}

// AdmissionService owns admin review: listing applications and the governed
// status transitions, including the acceptance transaction.
type AdmissionService interface {
	ListApplications(ctx context.Context, status string, page, pageSize int) ([]domain.Application, int, error)
	UpdateApplicationStatus(ctx context.Context, adminID, applicationID, status string, generation int) (*StatusUpdateResult, error)
}

// EmailService is the transport the delivery worker hands outbox messages to.
type EmailService interface {
	Send(ctx context.Context, to, subject, plainText string) error
}
