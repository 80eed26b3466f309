package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/domain"
	"recruit-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validApplyFields() map[string]any {
	return map[string]any{
		"name":         "Alice",
		"email":        "Alice@School.EDU",
		"contactEmail": "alice@gmail.com",
		"phone":        "010-1234-5678",
		"department":   "CS",
		"studentId":    "20261234",
		"essay1":       "first essay",
		"essay2":       "second essay",
		"essay3":       "third essay",
		"password":     "hunter2hunter2",
	}
}

func newRecruitFixture(t *testing.T) (*mockApplicationRepo, *mockSessionRepo, *mockWindowRepo, *mockOutboxRepo, RecruitService) {
	t.Helper()
	appRepo := new(mockApplicationRepo)
	sessionRepo := new(mockSessionRepo)
	windowRepo := new(mockWindowRepo)
	outboxRepo := new(mockOutboxRepo)

	svc := NewRecruitService(
		appRepo,
		NewSessionService(sessionRepo),
		NewWindowService(windowRepo),
		NewOutboxPublisher(outboxRepo),
	)
	return appRepo, sessionRepo, windowRepo, outboxRepo, svc
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("closed window rejected with configured message", func(t *testing.T) {
		_, _, windowRepo, _, svc := newRecruitFixture(t)
		windowRepo.On("Get", mock.Anything).Return(closedWindow("see you next semester"), nil)

		err := svc.Apply(ctx, validApplyFields())
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, apperr.StatusOf(err))
		assert.Equal(t, "see you next semester", apperr.MessageOf(err))
	})

	t.Run("missing required field", func(t *testing.T) {
		_, _, windowRepo, _, svc := newRecruitFixture(t)
		windowRepo.On("Get", mock.Anything).Return(openWindow(), nil)

		fields := validApplyFields()
		delete(fields, "phone")
		err := svc.Apply(ctx, fields)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
		assert.Equal(t, "MISSING_FIELD:phone", apperr.MessageOf(err))
	})

	t.Run("blank and non-string fields count as missing", func(t *testing.T) {
		_, _, windowRepo, _, svc := newRecruitFixture(t)
		windowRepo.On("Get", mock.Anything).Return(openWindow(), nil)

		fields := validApplyFields()
		fields["essay2"] = "   "
		err := svc.Apply(ctx, fields)
		assert.Equal(t, "MISSING_FIELD:essay2", apperr.MessageOf(err))

		fields = validApplyFields()
		fields["studentId"] = 20261234
		err = svc.Apply(ctx, fields)
		assert.Equal(t, "MISSING_FIELD:studentId", apperr.MessageOf(err))
	})

	t.Run("duplicate under any casing", func(t *testing.T) {
		appRepo, _, windowRepo, _, svc := newRecruitFixture(t)
		windowRepo.On("Get", mock.Anything).Return(openWindow(), nil)
		appRepo.On("GetByID", mock.Anything, "alice@school.edu").
			Return(&domain.Application{ID: "alice@school.edu"}, nil)

		err := svc.Apply(ctx, validApplyFields())
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperr.StatusOf(err))
		assert.Equal(t, "DUPLICATE", apperr.MessageOf(err))
	})

	t.Run("successful submission persists and enqueues confirmation", func(t *testing.T) {
		appRepo, _, windowRepo, outboxRepo, svc := newRecruitFixture(t)
		windowRepo.On("Get", mock.Anything).Return(openWindow(), nil)
		appRepo.On("GetByID", mock.Anything, "alice@school.edu").Return(nil, sql.ErrNoRows)

		var created *domain.Application
		appRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Application) }).
			Return(nil)
		outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.OutboxMessage) bool {
			return m.Type == domain.OutboxTypeApplicationReceived && m.To == "alice@gmail.com"
		})).Return(nil)

		require.NoError(t, svc.Apply(ctx, validApplyFields()))
		require.NotNil(t, created)
		assert.Equal(t, "alice@school.edu", created.ID)
		assert.Equal(t, domain.ApplicationStatusSubmitted, created.Status)
		assert.Equal(t, 0, created.FailedAttempts)
		assert.Nil(t, created.LockedUntil)
		assert.NotEmpty(t, created.PasswordHash)
		assert.True(t, security.VerifyPassword("hunter2hunter2", created.PasswordHash))
		outboxRepo.AssertNumberOfCalls(t, "Create", 1)
	})
}

func TestLoginLockout(t *testing.T) {
	ctx := context.Background()

	hash, err := security.HashPassword("right-password")
	require.NoError(t, err)

	appRepo, _, _, outboxRepo, svc := newRecruitFixture(t)
	app := &domain.Application{
		ID:           "alice@school.edu",
		Name:         "Alice",
		Email:        "alice@school.edu",
		ContactEmail: "alice@gmail.com",
		PasswordHash: hash,
	}
	appRepo.On("GetByID", mock.Anything, "alice@school.edu").Return(app, nil)
	appRepo.On("Update", mock.Anything, app).Return(nil)
	outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.OutboxMessage) bool {
		return m.Type == domain.OutboxTypeTempPassword && m.To == "alice@gmail.com"
	})).Return(nil)

	// nine wrong attempts are generic 401s
	for i := 1; i <= 9; i++ {
		_, err := svc.Login(ctx, "alice@school.edu", "wrong-password")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err), "attempt %d", i)
		assert.Equal(t, "invalid credentials", apperr.MessageOf(err))
		assert.Equal(t, i, app.FailedAttempts)
	}

	// the tenth locks, swaps the credential, enqueues one notification
	_, err = svc.Login(ctx, "alice@school.edu", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, http.StatusLocked, apperr.StatusOf(err))
	assert.Equal(t, 0, app.FailedAttempts)
	require.NotNil(t, app.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *app.LockedUntil, 5*time.Second)
	assert.NotEqual(t, hash, app.PasswordHash)
	assert.False(t, security.VerifyPassword("right-password", app.PasswordHash))
	outboxRepo.AssertNumberOfCalls(t, "Create", 1)

	// while locked even the old password yields 423 and is not counted
	_, err = svc.Login(ctx, "alice@school.edu", "right-password")
	require.Error(t, err)
	assert.Equal(t, http.StatusLocked, apperr.StatusOf(err))
	assert.Equal(t, 0, app.FailedAttempts)
	outboxRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := security.HashPassword("right-password")
	require.NoError(t, err)

	t.Run("unknown email is indistinguishable from bad password", func(t *testing.T) {
		appRepo, _, _, _, svc := newRecruitFixture(t)
		appRepo.On("GetByID", mock.Anything, "ghost@school.edu").Return(nil, sql.ErrNoRows)

		_, err := svc.Login(ctx, "ghost@school.edu", "anything")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))
		assert.Equal(t, "invalid credentials", apperr.MessageOf(err))
	})

	t.Run("successful login resets counters and issues a session", func(t *testing.T) {
		appRepo, sessionRepo, _, _, svc := newRecruitFixture(t)
		app := &domain.Application{
			ID:             "alice@school.edu",
			Email:          "alice@school.edu",
			PasswordHash:   hash,
			FailedAttempts: 3,
		}
		appRepo.On("GetByID", mock.Anything, "alice@school.edu").Return(app, nil)
		appRepo.On("Update", mock.Anything, app).Return(nil)

		var session *domain.Session
		sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Session")).
			Run(func(args mock.Arguments) { session = args.Get(1).(*domain.Session) }).
			Return(nil)

		token, err := svc.Login(ctx, " Alice@School.EDU ", "right-password")
		require.NoError(t, err)
		assert.Len(t, token, 64) // 32 bytes hex-encoded
		assert.Equal(t, 0, app.FailedAttempts)
		assert.Nil(t, app.LockedUntil)

		require.NotNil(t, session)
		assert.Equal(t, token, session.Token)
		assert.Equal(t, "alice@school.edu", session.Email)
		require.NotNil(t, session.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), *session.ExpiresAt, 5*time.Second)
	})

	t.Run("expired lock is observed lazily", func(t *testing.T) {
		appRepo, sessionRepo, _, _, svc := newRecruitFixture(t)
		past := time.Now().Add(-time.Minute)
		app := &domain.Application{
			ID:           "alice@school.edu",
			Email:        "alice@school.edu",
			PasswordHash: hash,
			LockedUntil:  &past,
		}
		appRepo.On("GetByID", mock.Anything, "alice@school.edu").Return(app, nil)
		appRepo.On("Update", mock.Anything, app).Return(nil)
		sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

		token, err := svc.Login(ctx, "alice@school.edu", "right-password")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Nil(t, app.LockedUntil)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("closed window rejected", func(t *testing.T) {
		_, _, windowRepo, _, svc := newRecruitFixture(t)
		windowRepo.On("Get", mock.Anything).Return(closedWindow(""), nil)

		err := svc.UpdateProfile(ctx, "alice@school.edu", map[string]any{"name": "New Name"})
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, apperr.StatusOf(err))
		assert.Equal(t, "recruiting is currently closed", apperr.MessageOf(err))
	})

	t.Run("no editable fields", func(t *testing.T) {
		appRepo, _, windowRepo, _, svc := newRecruitFixture(t)
		windowRepo.On("Get", mock.Anything).Return(openWindow(), nil)
		appRepo.On("GetByID", mock.Anything, "alice@school.edu").
			Return(&domain.Application{ID: "alice@school.edu"}, nil)

		err := svc.UpdateProfile(ctx, "alice@school.edu", map[string]any{
			"email":    "other@school.edu", // key, not editable
			"password": "sneaky",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	})

	t.Run("whitelisted fields applied", func(t *testing.T) {
		appRepo, _, windowRepo, _, svc := newRecruitFixture(t)
		windowRepo.On("Get", mock.Anything).Return(openWindow(), nil)
		app := &domain.Application{ID: "alice@school.edu", Email: "alice@school.edu", Name: "Alice"}
		appRepo.On("GetByID", mock.Anything, "alice@school.edu").Return(app, nil)
		appRepo.On("Update", mock.Anything, app).Return(nil)

		err := svc.UpdateProfile(ctx, "alice@school.edu", map[string]any{
			"name":   "Alice Kim",
			"github": "https://github.com/alice",
			"email":  "other@school.edu",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Kim", app.Name)
		assert.Equal(t, "https://github.com/alice", app.Github)
		assert.Equal(t, "alice@school.edu", app.Email)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email silently succeeds", func(t *testing.T) {
		appRepo, _, _, outboxRepo, svc := newRecruitFixture(t)
		appRepo.On("GetByID", mock.Anything, "ghost@school.edu").Return(nil, sql.ErrNoRows)

		require.NoError(t, svc.ResetPassword(ctx, "ghost@school.edu"))
		appRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("known email gets a fresh credential and a notification", func(t *testing.T) {
		appRepo, _, _, outboxRepo, svc := newRecruitFixture(t)
		hash, err := security.HashPassword("old-password")
		require.NoError(t, err)
		app := &domain.Application{
			ID:             "alice@school.edu",
			Email:          "alice@school.edu",
			ContactEmail:   "alice@gmail.com",
			PasswordHash:   hash,
			FailedAttempts: 4,
		}
		appRepo.On("GetByID", mock.Anything, "alice@school.edu").Return(app, nil)
		appRepo.On("Update", mock.Anything, app).Return(nil)

		var msg *domain.OutboxMessage
		outboxRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.OutboxMessage")).
			Run(func(args mock.Arguments) { msg = args.Get(1).(*domain.OutboxMessage) }).
			Return(nil)

		require.NoError(t, svc.ResetPassword(ctx, "alice@school.edu"))
		assert.NotEqual(t, hash, app.PasswordHash)
		assert.Equal(t, 0, app.FailedAttempts)
		assert.Nil(t, app.LockedUntil)

		require.NotNil(t, msg)
		assert.Equal(t, domain.OutboxTypeTempPassword, msg.Type)
		assert.Equal(t, "alice@gmail.com", msg.To)
		assert.True(t, security.VerifyPassword(msg.Payload["tempPassword"], app.PasswordHash))
	})
}
