package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository"

	"github.com/google/uuid"
)

type outboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Create(ctx context.Context, m *domain.OutboxMessage) error {
	payload, err := json.Marshal(m.Payload)
	if err != nil {
		return err
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.Status = domain.OutboxStatusPending
	m.Attempts = 0
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `INSERT INTO outbox_messages (id, type, recipient, payload, status, attempts, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	logger.DatabaseCall("INSERT", "outbox_messages", "id", m.ID, "type", m.Type)
	_, err = r.db.ExecContext(ctx, query, m.ID, m.Type, m.To, payload, m.Status, m.Attempts, m.CreatedAt, m.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "id", m.ID)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	query := `SELECT id, type, recipient, payload, status, attempts, COALESCE(last_error, ''), created_at, updated_at
	          FROM outbox_messages WHERE status = $1 ORDER BY created_at ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, domain.OutboxStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.OutboxMessage
	for rows.Next() {
		var m domain.OutboxMessage
		var payload []byte
		if err := rows.Scan(&m.ID, &m.Type, &m.To, &payload, &m.Status, &m.Attempts, &m.LastError, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &m.Payload); err != nil {
				return nil, err
			}
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	query := `UPDATE outbox_messages SET status = $1, attempts = attempts + 1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, domain.OutboxStatusSent, time.Now().UTC(), id)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, lastError string) error {
	query := `UPDATE outbox_messages SET status = $1, attempts = attempts + 1, last_error = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, domain.OutboxStatusFailed, lastError, time.Now().UTC(), id)
	return err
}
