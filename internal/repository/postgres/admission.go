package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository"
)

type admissionRepository struct {
	db *sql.DB
}

func NewAdmissionRepository(db *sql.DB) repository.AdmissionRepository {
	return &admissionRepository{db: db}
}

// AcceptApplication runs the admission transaction. The application row is
// locked for the duration so concurrent or retried accepts cannot mint two
// member records or leave an accepted application without a member.
func (r *admissionRepository) AcceptApplication(ctx context.Context, appID string, member *domain.Member, updatedBy string) (string, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to begin acceptance transaction: %w", err)
	}
	defer tx.Rollback()

	var existingMemberID sql.NullString
	lockQuery := `SELECT accepted_member_id FROM applications WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("SELECT", "applications FOR UPDATE", "id", appID)
	if err := tx.QueryRowContext(ctx, lockQuery, appID).Scan(&existingMemberID); err != nil {
		return "", false, err
	}

	// Idempotent retry: the member exists, the plaintext code is gone.
	if existingMemberID.Valid && existingMemberID.String != "" {
		return existingMemberID.String, false, nil
	}

	now := time.Now().UTC()
	member.CreatedAt = now
	insertQuery := `INSERT INTO members (id, name, email, phone, department, student_id, role, generation,
	                source_application, link_code_hash, link_code_expires_at, link_code_used_at, created_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULL, $12)`
	if _, err := tx.ExecContext(ctx, insertQuery,
		member.ID, member.Name, member.Email, member.Phone, member.Department, member.StudentID,
		member.Role, member.Generation, member.SourceApplication,
		member.LinkCodeHash, member.LinkCodeExpiresAt, member.CreatedAt); err != nil {
		return "", false, fmt.Errorf("failed to create member record: %w", err)
	}

	updateQuery := `UPDATE applications SET status = $1, status_updated_by = $2, accepted_member_id = $3, updated_at = $4 WHERE id = $5`
	if _, err := tx.ExecContext(ctx, updateQuery,
		domain.ApplicationStatusAccepted, updatedBy, member.ID, now, appID); err != nil {
		return "", false, fmt.Errorf("failed to mark application accepted: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("failed to commit acceptance transaction: %w", err)
	}
	return member.ID, true, nil
}
