package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/job-board/internal/domain"
)

// applicationRepo implements domain.ApplicationRepository using SQLite.
type applicationRepo struct {
	db *sql.DB
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = ? AND applicant_id = ?)",
		app.JobID, app.ApplicantID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check existing application: %w", err)
	}
	if exists {
		return domain.ErrAlreadyApplied
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO applications (job_id, applicant_id, status, applied_at)
		 VALUES (?, ?, ?, ?)`,
		app.JobID, app.ApplicantID, domain.ApplicationStatusPending, now,
	)
	if err != nil {
		// The UNIQUE (job_id, applicant_id) constraint catches a concurrent
		// insert that slipped past the check above.
		if isUniqueConstraintError(err) {
			return domain.ErrAlreadyApplied
		}
		return fmt.Errorf("insert application: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get application id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	app.ID = id
	app.Status = domain.ApplicationStatusPending
	app.AppliedAt = now
	return nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, applicantID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = ? AND applicant_id = ?)",
		jobID, applicantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check application exists: %w", err)
	}
	return exists, nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	return r.list(ctx, "a.job_id = ?", jobID)
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID int64) ([]domain.Application, error) {
	return r.list(ctx, "a.applicant_id = ?", applicantID)
}

func (r *applicationRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "applications")
}

func (r *applicationRepo) list(ctx context.Context, where string, arg any) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.job_id, a.applicant_id, a.status, a.applied_at,
		        j.title, j.company_name, u.username, u.full_name, u.email
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN users u ON u.id = a.applicant_id
		 WHERE `+where+`
		 ORDER BY a.applied_at DESC, a.id DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.AppliedAt,
			&a.JobTitle, &a.CompanyName, &a.ApplicantUsername, &a.ApplicantName, &a.ApplicantEmail); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
