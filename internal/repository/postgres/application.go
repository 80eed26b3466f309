package postgres

import (
	"context"
	"database/sql"
	"time"

	"recruit-backend/internal/domain"
	"recruit-backend/internal/logger"
	"recruit-backend/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, name, email, contact_email, phone, department, student_id,
	essay1, essay2, essay3, COALESCE(github, ''), COALESCE(portfolio, ''),
	password_hash, failed_attempts, locked_until, status,
	COALESCE(status_updated_by, ''), COALESCE(accepted_member_id, ''),
	decision_email_sent_at, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application) error {
	query := `INSERT INTO applications (id, name, email, contact_email, phone, department, student_id,
	          essay1, essay2, essay3, github, portfolio, password_hash, failed_attempts, locked_until,
	          status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	logger.DatabaseCall("INSERT", "applications", "id", a.ID)
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Email, a.ContactEmail, a.Phone, a.Department, a.StudentID,
		a.Essay1, a.Essay2, a.Essay3, a.Github, a.Portfolio, a.PasswordHash,
		a.FailedAttempts, a.LockedUntil, a.Status, a.CreatedAt, a.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "id", a.ID)
	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	a := &domain.Application{}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	var lockedUntil, decisionSentAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Email, &a.ContactEmail, &a.Phone, &a.Department, &a.StudentID,
		&a.Essay1, &a.Essay2, &a.Essay3, &a.Github, &a.Portfolio,
		&a.PasswordHash, &a.FailedAttempts, &lockedUntil, &a.Status,
		&a.StatusUpdatedBy, &a.AcceptedMemberID, &decisionSentAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		a.LockedUntil = &t
	}
	if decisionSentAt.Valid {
		t := decisionSentAt.Time
		a.DecisionEmailSentAt = &t
	}
	return a, nil
}

func (r *applicationRepository) Update(ctx context.Context, a *domain.Application) error {
	query := `UPDATE applications SET name=$1, contact_email=$2, phone=$3, department=$4, student_id=$5,
	          essay1=$6, essay2=$7, essay3=$8, github=$9, portfolio=$10, password_hash=$11,
	          failed_attempts=$12, locked_until=$13, status=$14, status_updated_by=$15,
	          accepted_member_id=$16, decision_email_sent_at=$17, updated_at=$18
	          WHERE id=$19`
	a.UpdatedAt = time.Now().UTC()
	logger.DatabaseCall("UPDATE", "applications", "id", a.ID)
	_, err := r.db.ExecContext(ctx, query,
		a.Name, a.ContactEmail, a.Phone, a.Department, a.StudentID,
		a.Essay1, a.Essay2, a.Essay3, a.Github, a.Portfolio, a.PasswordHash,
		a.FailedAttempts, a.LockedUntil, a.Status, a.StatusUpdatedBy,
		nullIfEmpty(a.AcceptedMemberID), a.DecisionEmailSentAt, a.UpdatedAt, a.ID)
	logger.DatabaseResult("UPDATE", 1, err, "id", a.ID)
	return err
}

func (r *applicationRepository) ListByStatus(ctx context.Context, status string, page, pageSize int) ([]domain.Application, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var count int
	if status != "" {
		countQuery := `SELECT count(*) FROM applications WHERE status = $1`
		if err := r.db.QueryRowContext(ctx, countQuery, status).Scan(&count); err != nil {
			return nil, 0, err
		}
	} else {
		countQuery := `SELECT count(*) FROM applications`
		if err := r.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	var rows *sql.Rows
	var err error
	if status != "" {
		query := `SELECT ` + applicationColumns + ` FROM applications WHERE status = $1
		          ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		rows, err = r.db.QueryContext(ctx, query, status, pageSize, offset)
	} else {
		query := `SELECT ` + applicationColumns + ` FROM applications
		          ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		rows, err = r.db.QueryContext(ctx, query, pageSize, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		var lockedUntil, decisionSentAt sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Email, &a.ContactEmail, &a.Phone, &a.Department, &a.StudentID,
			&a.Essay1, &a.Essay2, &a.Essay3, &a.Github, &a.Portfolio,
			&a.PasswordHash, &a.FailedAttempts, &lockedUntil, &a.Status,
			&a.StatusUpdatedBy, &a.AcceptedMemberID, &decisionSentAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		if lockedUntil.Valid {
			t := lockedUntil.Time
			a.LockedUntil = &t
		}
		if decisionSentAt.Valid {
			t := decisionSentAt.Time
			a.DecisionEmailSentAt = &t
		}
		apps = append(apps, a)
	}
	return apps, count, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
