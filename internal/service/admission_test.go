package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/domain"
	"recruit-backend/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testLinkSecret = "link-code-test-secret"

func newAdmissionFixture(t *testing.T) (*mockApplicationRepo, *mockAdmissionRepo, *mockOutboxRepo, AdmissionService) {
	t.Helper()
	appRepo := new(mockApplicationRepo)
	admissionRepo := new(mockAdmissionRepo)
	outboxRepo := new(mockOutboxRepo)
	svc := NewAdmissionService(appRepo, admissionRepo, NewOutboxPublisher(outboxRepo), testLinkSecret)
	return appRepo, admissionRepo, outboxRepo, svc
}

func reviewableApp() *domain.Application {
	return &domain.Application{
		ID:           "alice@school.edu",
		Name:         "Alice",
		Email:        "alice@school.edu",
		ContactEmail: "alice@gmail.com",
		Phone:        "010-1234-5678",
		Department:   "CS",
		StudentID:    "20261234",
		Status:       domain.ApplicationStatusSubmitted,
	}
}

func TestUpdateApplicationStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown status rejected", func(t *testing.T) {
		_, _, _, svc := newAdmissionFixture(t)
		_, err := svc.UpdateApplicationStatus(ctx, "admin-1", "alice@school.edu", "shortlisted", 0)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	})

	t.Run("unknown application", func(t *testing.T) {
		appRepo, _, _, svc := newAdmissionFixture(t)
		appRepo.On("GetByID", mock.Anything, "ghost@school.edu").Return(nil, sql.ErrNoRows)

		_, err := svc.UpdateApplicationStatus(ctx, "admin-1", "ghost@school.edu", "reviewing", 0)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
	})

	t.Run("non-accept transition records reviewer", func(t *testing.T) {
		appRepo, admissionRepo, _, svc := newAdmissionFixture(t)
		app := reviewableApp()
		appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		appRepo.On("Update", mock.Anything, app).Return(nil)

		result, err := svc.UpdateApplicationStatus(ctx, "admin-1", app.ID, "rejected", 0)
		require.NoError(t, err)
		assert.Empty(t, result.MemberID)
		assert.Nil(t, result.LinkCode)
		assert.Equal(t, domain.ApplicationStatus("rejected"), app.Status)
		assert.Equal(t, "admin-1", app.StatusUpdatedBy)
		admissionRepo.AssertNotCalled(t, "AcceptApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("accept requires generation", func(t *testing.T) {
		appRepo, _, _, svc := newAdmissionFixture(t)
		app := reviewableApp()
		appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)

		_, err := svc.UpdateApplicationStatus(ctx, "admin-1", app.ID, "accepted", 0)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	})

	t.Run("accept mints a member and discloses the code once", func(t *testing.T) {
		appRepo, admissionRepo, outboxRepo, svc := newAdmissionFixture(t)
		app := reviewableApp()
		appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		appRepo.On("Update", mock.Anything, app).Return(nil)

		var minted *domain.Member
		admissionRepo.On("AcceptApplication", mock.Anything, app.ID, mock.AnythingOfType("*domain.Member"), "admin-1").
			Run(func(args mock.Arguments) { minted = args.Get(2).(*domain.Member) }).
			Return("member-uuid", true, nil)
		outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.OutboxMessage) bool {
			return m.Type == domain.OutboxTypeDecision && m.To == "alice@gmail.com"
		})).Return(nil)

		result, err := svc.UpdateApplicationStatus(ctx, "admin-1", app.ID, "accepted", 12)
		require.NoError(t, err)
		require.NotNil(t, result.LinkCode)
		assert.Regexp(t, `^[0-9a-f]{4}-[0-9a-f]{4}$`, *result.LinkCode)

		assert.Equal(t, "member-uuid", result.MemberID)
		require.NotNil(t, minted)
		assert.NotEmpty(t, minted.ID)
		assert.Equal(t, 12, minted.Generation)
		assert.Equal(t, "member", minted.Role)
		assert.Equal(t, app.ID, minted.SourceApplication)
		require.NotNil(t, minted.LinkCodeExpiresAt)
		assert.Nil(t, minted.LinkCodeUsedAt)
		assert.True(t, security.VerifyLinkCode(*result.LinkCode, minted.LinkCodeHash, testLinkSecret))

		outboxRepo.AssertNumberOfCalls(t, "Create", 1)
		require.NotNil(t, app.DecisionEmailSentAt)
	})

	t.Run("repeat accept returns same member and no code", func(t *testing.T) {
		appRepo, admissionRepo, outboxRepo, svc := newAdmissionFixture(t)
		app := reviewableApp()
		app.Status = domain.ApplicationStatusAccepted
		app.AcceptedMemberID = "member-uuid"
		appRepo.On("GetByID", mock.Anything, app.ID).Return(app, nil)
		admissionRepo.On("AcceptApplication", mock.Anything, app.ID, mock.AnythingOfType("*domain.Member"), "admin-1").
			Return("member-uuid", false, nil)

		result, err := svc.UpdateApplicationStatus(ctx, "admin-1", app.ID, "accepted", 12)
		require.NoError(t, err)
		assert.Equal(t, "member-uuid", result.MemberID)
		assert.Nil(t, result.LinkCode)
		outboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestListApplications(t *testing.T) {
	appRepo, _, _, svc := newAdmissionFixture(t)
	appRepo.On("ListByStatus", mock.Anything, "submitted", 2, 10).
		Return([]domain.Application{*reviewableApp()}, 41, nil)

	apps, total, err := svc.ListApplications(context.Background(), "submitted", 2, 10)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Equal(t, 41, total)
}
