package postgres

import (
	"database/sql"

	"recruit-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ApplicationRepository
	repository.SessionRepository
	repository.WindowRepository
	repository.OutboxRepository
	repository.AdmissionRepository
	repository.RateLimitRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ApplicationRepository: NewApplicationRepository(db),
		SessionRepository:     NewSessionRepository(db),
		WindowRepository:      NewWindowRepository(db),
		OutboxRepository:      NewOutboxRepository(db),
		AdmissionRepository:   NewAdmissionRepository(db),
		RateLimitRepository:   NewRateLimitRepository(db),
	}
}
