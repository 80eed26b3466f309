package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository"
	"recruit-backend/internal/security"

	"github.com/google/uuid"
)

const linkCodeTTL = 7 * 24 * time.Hour

// governedStatuses is the admin-side status vocabulary. It disagrees with
// domain.ApplicationStatus on two of five values (pending vs submitted,
// waitlist vs hold).
// TODO: raise the taxonomy mismatch with the system owner before unifying.
var governedStatuses = map[string]bool{
	"pending":   true,
	"reviewing": true,
	"accepted":  true,
	"rejected":  true,
	"waitlist":  true,
}

type admissionService struct {
	appRepo       repository.ApplicationRepository
	admissionRepo repository.AdmissionRepository
	outbox        OutboxPublisher
	linkSecret    string
	now           func() time.Time
}

func NewAdmissionService(
	appRepo repository.ApplicationRepository,
	admissionRepo repository.AdmissionRepository,
	outbox OutboxPublisher,
	linkSecret string,
) AdmissionService {
	return &admissionService{
		appRepo:       appRepo,
		admissionRepo: admissionRepo,
		outbox:        outbox,
		linkSecret:    linkSecret,
		now:           time.Now,
	}
}

func (s *admissionService) ListApplications(ctx context.Context, status string, page, pageSize int) ([]domain.Application, int, error) {
	return s.appRepo.ListByStatus(ctx, status, page, pageSize)
}

func (s *admissionService) UpdateApplicationStatus(ctx context.Context, adminID, applicationID, status string, generation int) (*StatusUpdateResult, error) {
	if !governedStatuses[status] {
		return nil, apperr.Validation("invalid status: %s", status)
	}

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("application not found")
	}
	if err != nil {
		return nil, err
	}

	if status != "accepted" {
		app.Status = domain.ApplicationStatus(status)
		app.StatusUpdatedBy = adminID
		if err := s.appRepo.Update(ctx, app); err != nil {
			return nil, err
		}
		return &StatusUpdateResult{}, nil
	}

	return s.accept(ctx, adminID, app, generation)
}

// accept converts the application into a member record inside a single
// transaction and mints the link code disclosed exactly once.
func (s *admissionService) accept(ctx context.Context, adminID string, app *domain.Application, generation int) (*StatusUpdateResult, error) {
	if generation <= 0 {
		return nil, apperr.Validation("generation is required for acceptance")
	}

	linkCode, err := security.GenerateLinkCode()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(linkCodeTTL)

	member := &domain.Member{
		ID:                uuid.NewString(),
		Name:              app.Name,
		Email:             app.Email,
		Phone:             app.Phone,
		Department:        app.Department,
		StudentID:         app.StudentID,
		Role:              "member",
		Generation:        generation,
		SourceApplication: app.ID,
		LinkCodeHash:      security.HashLinkCode(linkCode, s.linkSecret),
		LinkCodeExpiresAt: &expiresAt,
	}

	memberID, created, err := s.admissionRepo.AcceptApplication(ctx, app.ID, member, adminID)
	if err != nil {
		return nil, err
	}
	if !created {
		// Already accepted: idempotent, but the original plaintext code
		// cannot be re-disclosed.
		return &StatusUpdateResult{MemberID: memberID}, nil
	}
	logger.InfoContext(ctx, "Application accepted", "application", app.ID, "member", memberID)

	if err := s.sendDecisionNotification(ctx, app.ID); err != nil {
		logger.ErrorContext(ctx, "Failed to enqueue decision notification", "application", app.ID, "error", err)
	}

	return &StatusUpdateResult{MemberID: memberID, LinkCode: &linkCode}, nil
}

func (s *admissionService) sendDecisionNotification(ctx context.Context, applicationID string) error {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.outbox.Enqueue(ctx, domain.OutboxTypeDecision, app.NotifyEmail(), map[string]string{
		"name":   app.Name,
		"status": string(app.Status),
	}); err != nil {
		return err
	}
	now := s.now()
	app.DecisionEmailSentAt = &now
	return s.appRepo.Update(ctx, app)
}
