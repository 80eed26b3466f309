package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"recruit-backend/internal/apperr"
	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository"
)

const sessionTTL = 14 * 24 * time.Hour

var errInvalidSession = apperr.Unauthorized("INVALID_SESSION")

type sessionService struct {
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

func NewSessionService(sessionRepo repository.SessionRepository) SessionService {
	return &sessionService{sessionRepo: sessionRepo, now: time.Now}
}

// Issue persists a fresh session with a fixed absolute lifetime and returns
// its token: 32 random bytes, hex-encoded.
func (s *sessionService) Issue(ctx context.Context, email string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	expiresAt := s.now().Add(sessionTTL)
	session := &domain.Session{
		Token:     token,
		Email:     email,
		ExpiresAt: &expiresAt,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve validates a bearer token. Expired sessions are purged on first
// observation; sessions without an expiry are legacy and resolve forever.
// A resolved session is touched but its expiry is never extended.
func (s *sessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, apperr.Unauthorized("MISSING_TOKEN")
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errInvalidSession
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now()) {
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			logger.WarnContext(ctx, "Failed to purge expired session", "error", err)
		}
		return nil, errInvalidSession
	}

	if err := s.sessionRepo.Touch(ctx, token); err != nil {
		logger.WarnContext(ctx, "Failed to touch session", "error", err)
	}
	return session, nil
}
