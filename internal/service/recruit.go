package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository"
	"recruit-backend/internal/security"
)

const (
	maxFailedAttempts = 10
	lockoutDuration   = 15 * time.Minute
)

var errInvalidCredentials = apperr.Unauthorized("invalid credentials")

// requiredApplyFields in the order they are validated.
var requiredApplyFields = []string{
	"name", "email", "contactEmail", "phone", "department", "studentId",
	"essay1", "essay2", "essay3", "password",
}

// editableFields is the whitelist for self-service profile updates. The
// institutional email is the record key and never editable.
var editableFields = []string{
	"name", "contactEmail", "phone", "department", "studentId",
	"essay1", "essay2", "essay3", "github", "portfolio",
}

type recruitService struct {
	appRepo  repository.ApplicationRepository
	sessions SessionService
	window   WindowService
	outbox   OutboxPublisher
	now      func() time.Time
}

func NewRecruitService(
	appRepo repository.ApplicationRepository,
	sessions SessionService,
	window WindowService,
	outbox OutboxPublisher,
) RecruitService {
	return &recruitService{
		appRepo:  appRepo,
		sessions: sessions,
		window:   window,
		outbox:   outbox,
		now:      time.Now,
	}
}

func stringField(fields map[string]any, name string) (string, bool) {
	v, ok := fields[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func (s *recruitService) Apply(ctx context.Context, fields map[string]any) error {
	if err := s.window.RequireOpen(ctx); err != nil {
		return err
	}

	values := make(map[string]string, len(requiredApplyFields))
	for _, name := range requiredApplyFields {
		v, ok := stringField(fields, name)
		if !ok {
			return apperr.Validation("MISSING_FIELD:%s", name)
		}
		values[name] = v
	}

	id := domain.NormalizeEmail(values["email"])
	if existing, err := s.appRepo.GetByID(ctx, id); err == nil && existing != nil {
		return apperr.Conflict("DUPLICATE")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(values["password"])
	if err != nil {
		return err
	}

	app := &domain.Application{
		ID:             id,
		Name:           values["name"],
		Email:          id,
		ContactEmail:   values["contactEmail"],
		Phone:          values["phone"],
		Department:     values["department"],
		StudentID:      values["studentId"],
		Essay1:         values["essay1"],
		Essay2:         values["essay2"],
		Essay3:         values["essay3"],
		PasswordHash:   hash,
		FailedAttempts: 0,
		LockedUntil:    nil,
		Status:         domain.ApplicationStatusSubmitted,
	}
	if github, ok := stringField(fields, "github"); ok {
		app.Github = github
	}
	if portfolio, ok := stringField(fields, "portfolio"); ok {
		app.Portfolio = portfolio
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Application submitted", "id", app.ID)

	// Not transactional with the create: a crash here drops the
	// confirmation, which is an accepted non-critical-path gap.
	if err := s.outbox.Enqueue(ctx, domain.OutboxTypeApplicationReceived, app.NotifyEmail(), map[string]string{
		"name": app.Name,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to enqueue confirmation", "id", app.ID, "error", err)
	}
	return nil
}

// Login runs the lockout state machine. Responses never reveal whether the
// email is registered.
func (s *recruitService) Login(ctx context.Context, email, password string) (string, error) {
	app, err := s.appRepo.GetByID(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return "", errInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	now := s.now()
	if app.LockedUntil != nil && app.LockedUntil.After(now) {
		// Attempts against a locked account are not counted.
		return "", apperr.Locked("account locked")
	}

	if security.VerifyPassword(password, app.PasswordHash) {
		if app.FailedAttempts != 0 || app.LockedUntil != nil {
			app.FailedAttempts = 0
			app.LockedUntil = nil
			if err := s.appRepo.Update(ctx, app); err != nil {
				return "", err
			}
		}
		return s.sessions.Issue(ctx, app.ID)
	}

	app.FailedAttempts++
	if app.FailedAttempts < maxFailedAttempts {
		if err := s.appRepo.Update(ctx, app); err != nil {
			return "", err
		}
		return "", errInvalidCredentials
	}

	// Threshold reached: replace the credential with a temporary password
	// and lock. The only way out of the lock is the system-issued password.
	tempPassword, err := security.GenerateTempPassword()
	if err != nil {
		return "", err
	}
	tempHash, err := security.HashPassword(tempPassword)
	if err != nil {
		return "", err
	}

	lockedUntil := now.Add(lockoutDuration)
	app.PasswordHash = tempHash
	app.FailedAttempts = 0
	app.LockedUntil = &lockedUntil
	if err := s.appRepo.Update(ctx, app); err != nil {
		return "", err
	}
	logger.WarnContext(ctx, "Application locked after repeated failures", "id", app.ID)

	if err := s.outbox.Enqueue(ctx, domain.OutboxTypeTempPassword, app.NotifyEmail(), map[string]string{
		"name":         app.Name,
		"tempPassword": tempPassword,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to enqueue temp password notification", "id", app.ID, "error", err)
	}
	return "", apperr.Locked("account locked")
}

func (s *recruitService) GetProfile(ctx context.Context, email string) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Unauthorized("INVALID_SESSION")
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *recruitService) UpdateProfile(ctx context.Context, email string, fields map[string]any) error {
	if err := s.window.RequireOpen(ctx); err != nil {
		return err
	}

	app, err := s.GetProfile(ctx, email)
	if err != nil {
		return err
	}

	applied := 0
	for _, name := range editableFields {
		v, ok := fields[name]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			continue
		}
		switch name {
		case "name":
			app.Name = str
		case "contactEmail":
			app.ContactEmail = str
		case "phone":
			app.Phone = str
		case "department":
			app.Department = str
		case "studentId":
			app.StudentID = str
		case "essay1":
			app.Essay1 = str
		case "essay2":
			app.Essay2 = str
		case "essay3":
			app.Essay3 = str
		case "github":
			app.Github = str
		case "portfolio":
			app.Portfolio = str
		}
		applied++
	}
	if applied == 0 {
		return apperr.Validation("no editable fields provided")
	}

	return s.appRepo.Update(ctx, app)
}

// ResetPassword always reports success so the endpoint cannot be used to
// probe which emails hold applications.
func (s *recruitService) ResetPassword(ctx context.Context, email string) error {
	app, err := s.appRepo.GetByID(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	tempPassword, err := security.GenerateTempPassword()
	if err != nil {
		return err
	}
	hash, err := security.HashPassword(tempPassword)
	if err != nil {
		return err
	}

	app.PasswordHash = hash
	app.FailedAttempts = 0
	app.LockedUntil = nil
	if err := s.appRepo.Update(ctx, app); err != nil {
		return err
	}

	if err := s.outbox.Enqueue(ctx, domain.OutboxTypeTempPassword, app.NotifyEmail(), map[string]string{
		"name":         app.Name,
		"tempPassword": tempPassword,
	}); err != nil {
		logger.ErrorContext(ctx, "Failed to enqueue reset notification", "id", app.ID, "error", err)
	}
	return nil
}
