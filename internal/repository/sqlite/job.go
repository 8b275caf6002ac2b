package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/msomdec/job-board/internal/domain"
)

// jobRepo implements domain.JobRepository using SQLite.
type jobRepo struct {
	db *sql.DB
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query, args, err := sq.Insert("jobs").
		Columns("title", "company_name", "description", "salary_min", "salary_max",
			"location", "status", "employer_id", "created_at").
		Values(job.Title, job.CompanyName, job.Description, job.SalaryMin, job.SalaryMax,
			job.Location, job.Status, job.EmployerID, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert job: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get job id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	job.ID = id
	job.CreatedAt = now
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	jobs, err := r.query(ctx, selectJobs().Where(sq.Eq{"j.id": id}))
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &jobs[0], nil
}

// ListOpen matches with instr() rather than LIKE: the search is a
// case-sensitive substring match and must not treat % or _ as wildcards.
func (r *jobRepo) ListOpen(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	b := selectJobs().Where(sq.Eq{"j.status": domain.JobStatusOpen})
	if filter.Search != "" {
		b = b.Where(sq.Or{
			sq.Expr("instr(j.title, ?) > 0", filter.Search),
			sq.Expr("instr(j.description, ?) > 0", filter.Search),
		})
	}
	if filter.Location != "" {
		b = b.Where(sq.Expr("instr(j.location, ?) > 0", filter.Location))
	}
	return r.query(ctx, b)
}

func (r *jobRepo) ListByEmployer(ctx context.Context, employerID int64) ([]domain.Job, error) {
	return r.query(ctx, selectJobs().Where(sq.Eq{"j.employer_id": employerID}))
}

func (r *jobRepo) ListAll(ctx context.Context) ([]domain.Job, error) {
	return r.query(ctx, selectJobs())
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Update("jobs").
		Set("title", job.Title).
		Set("company_name", job.CompanyName).
		Set("description", job.Description).
		Set("salary_min", job.SalaryMin).
		Set("salary_max", job.SalaryMax).
		Set("location", job.Location).
		Set("status", job.Status).
		Where(sq.Eq{"id": job.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update job: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Applications cascade via the job_id foreign key.
	result, err := tx.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *jobRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "jobs")
}

func selectJobs() sq.SelectBuilder {
	return sq.Select(
		"j.id", "j.title", "j.company_name", "j.description", "j.salary_min", "j.salary_max",
		"j.location", "j.status", "j.employer_id", "j.created_at", "u.full_name",
		"(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id)",
	).
		From("jobs j").
		Join("users u ON u.id = j.employer_id").
		OrderBy("j.created_at DESC", "j.id DESC")
}

func (r *jobRepo) query(ctx context.Context, b sq.SelectBuilder) ([]domain.Job, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var j domain.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.CompanyName, &j.Description, &j.SalaryMin, &j.SalaryMax,
			&j.Location, &j.Status, &j.EmployerID, &j.CreatedAt, &j.EmployerName, &j.ApplicationCount); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
