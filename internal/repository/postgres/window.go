package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"recruit-backend/internal/domain"
	"recruit-backend/internal/repository"
)

type windowRepository struct {
	db *sql.DB
}

func NewWindowRepository(db *sql.DB) repository.WindowRepository {
	return &windowRepository{db: db}
}

// Get reads the singleton recruiting-window row. A missing row is served as
// a closed window rather than an error so gated endpoints fail closed.
func (r *windowRepository) Get(ctx context.Context) (*domain.RecruitWindow, error) {
	w := &domain.RecruitWindow{}
	query := `SELECT is_open, open_at, close_at, COALESCE(message_when_closed, ''), COALESCE(semester, ''), updated_at
	          FROM recruit_window WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&w.IsOpen, &w.OpenAt, &w.CloseAt, &w.MessageWhenClosed, &w.Semester, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.RecruitWindow{IsOpen: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *windowRepository) Put(ctx context.Context, w *domain.RecruitWindow) error {
	query := `INSERT INTO recruit_window (id, is_open, open_at, close_at, message_when_closed, semester, updated_at)
	          VALUES (1, $1, $2, $3, $4, $5, $6)
	          ON CONFLICT (id) DO UPDATE SET
	            is_open = EXCLUDED.is_open,
	            open_at = EXCLUDED.open_at,
	            close_at = EXCLUDED.close_at,
	            message_when_closed = EXCLUDED.message_when_closed,
	            semester = EXCLUDED.semester,
	            updated_at = EXCLUDED.updated_at`
	w.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, w.IsOpen, w.OpenAt, w.CloseAt, w.MessageWhenClosed, w.Semester, w.UpdatedAt)
	return err
}
