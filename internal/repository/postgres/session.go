package postgres

import (
	"context"
	"database/sql"
	"time"

	"recruit-backend/internal/domain"
	"recruit-backend/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO recruit_sessions (token, email, created_at, updated_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5)`
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, s.Token, s.Email, s.CreatedAt, s.UpdatedAt, s.ExpiresAt)
	return err
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	s := &domain.Session{}
	query := `SELECT token, email, created_at, updated_at, expires_at FROM recruit_sessions WHERE token = $1`
	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, token).Scan(&s.Token, &s.Email, &s.CreatedAt, &s.UpdatedAt, &expiresAt)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		s.ExpiresAt = &t
	}
	return s, nil
}

// Touch bumps updated_at only; the absolute expiry set at issuance is never
// extended.
func (r *sessionRepository) Touch(ctx context.Context, token string) error {
	query := `UPDATE recruit_sessions SET updated_at = $1 WHERE token = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), token)
	return err
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM recruit_sessions WHERE token = $1`
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}
