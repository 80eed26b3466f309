package postgres

import (
	"context"
	"database/sql"
	"time"

	"recruit-backend/internal/repository"
)

type rateLimitRepository struct {
	db *sql.DB
}

func NewRateLimitRepository(db *sql.DB) repository.RateLimitRepository {
	return &rateLimitRepository{db: db}
}

// Consume increments the fixed-window counter for key, starting a fresh
// window when the previous one has elapsed. The whole read-modify-write is a
// single upsert so counters stay correct across processes.
func (r *rateLimitRepository) Consume(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := time.Now().UTC()
	freshReset := now.Add(window)

	query := `INSERT INTO rate_limit_counters (key, count, reset_at)
	          VALUES ($1, 1, $2)
	          ON CONFLICT (key) DO UPDATE SET
	            count = CASE WHEN rate_limit_counters.reset_at <= $3 THEN 1 ELSE rate_limit_counters.count + 1 END,
	            reset_at = CASE WHEN rate_limit_counters.reset_at <= $3 THEN $2 ELSE rate_limit_counters.reset_at END
	          RETURNING count, reset_at`

	var count int
	var resetAt time.Time
	if err := r.db.QueryRowContext(ctx, query, key, freshReset, now).Scan(&count, &resetAt); err != nil {
		return 0, time.Time{}, err
	}
	return count, resetAt, nil
}
