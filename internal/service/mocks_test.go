package service

import (
	"context"
	"time"

	"recruit-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type mockApplicationRepo struct {
	mock.Mock
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *mockApplicationRepo) Update(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockApplicationRepo) ListByStatus(ctx context.Context, status string, page, pageSize int) ([]domain.Application, int, error) {
	args := m.Called(ctx, status, page, pageSize)
	var apps []domain.Application
	if args.Get(0) != nil {
		apps = args.Get(0).([]domain.Application)
	}
	return apps, args.Int(1), args.Error(2)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionRepo) Touch(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type mockWindowRepo struct {
	mock.Mock
}

func (m *mockWindowRepo) Get(ctx context.Context) (*domain.RecruitWindow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecruitWindow), args.Error(1)
}

func (m *mockWindowRepo) Put(ctx context.Context, window *domain.RecruitWindow) error {
	args := m.Called(ctx, window)
	return args.Error(0)
}

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Create(ctx context.Context, msg *domain.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) ListPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	var msgs []domain.OutboxMessage
	if args.Get(0) != nil {
		msgs = args.Get(0).([]domain.OutboxMessage)
	}
	return msgs, args.Error(1)
}

func (m *mockOutboxRepo) MarkSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id string, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

type mockAdmissionRepo struct {
	mock.Mock
}

func (m *mockAdmissionRepo) AcceptApplication(ctx context.Context, appID string, member *domain.Member, updatedBy string) (string, bool, error) {
	args := m.Called(ctx, appID, member, updatedBy)
	return args.String(0), args.Bool(1), args.Error(2)
}

// openWindow returns a window that is effectively open around now.
func openWindow() *domain.RecruitWindow {
	return &domain.RecruitWindow{
		IsOpen:  true,
		OpenAt:  time.Now().Add(-24 * time.Hour),
		CloseAt: time.Now().Add(24 * time.Hour),
	}
}

// closedWindow returns a window whose flag is off.
func closedWindow(message string) *domain.RecruitWindow {
	return &domain.RecruitWindow{
		IsOpen:            false,
		OpenAt:            time.Now().Add(-24 * time.Hour),
		CloseAt:           time.Now().Add(24 * time.Hour),
		MessageWhenClosed: message,
	}
}
