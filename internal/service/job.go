package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/shopspring/decimal"
)

// JobInput carries the fields of the post/edit job form as submitted. Salary
// fields are raw text; empty means unset.
type JobInput struct {
	Title       string `validate:"required,max=200"`
	CompanyName string `validate:"required,max=200"`
	Description string `validate:"required,max=10000"`
	Location    string `validate:"required,max=200"`
	SalaryMin   string
	SalaryMax   string
	// Status is optional on create (defaults to open).
	Status domain.JobStatus `validate:"omitempty,oneof=open closed"`
}

// JobService handles job postings and the ownership rules around them.
type JobService struct {
	jobs domain.JobRepository
	apps domain.ApplicationRepository
}

// NewJobService creates a new JobService.
func NewJobService(jobs domain.JobRepository, apps domain.ApplicationRepository) *JobService {
	return &JobService{jobs: jobs, apps: apps}
}

// ListOpen returns open jobs matching the filter. Filter text is matched as
// typed; a filter of only whitespace counts as no filter.
func (s *JobService) ListOpen(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	if strings.TrimSpace(filter.Search) == "" {
		filter.Search = ""
	}
	if strings.TrimSpace(filter.Location) == "" {
		filter.Location = ""
	}
	return s.jobs.ListOpen(ctx, filter)
}

// Get returns a job by ID.
func (s *JobService) Get(ctx context.Context, id int64) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// ListByEmployer returns the employer's postings with per-job application counts.
func (s *JobService) ListByEmployer(ctx context.Context, employerID int64) ([]domain.Job, error) {
	return s.jobs.ListByEmployer(ctx, employerID)
}

// ListAll returns every job regardless of status or owner.
func (s *JobService) ListAll(ctx context.Context) ([]domain.Job, error) {
	return s.jobs.ListAll(ctx)
}

// Post creates a job owned by the employer. Status defaults to open.
func (s *JobService) Post(ctx context.Context, employerID int64, in JobInput) (*domain.Job, error) {
	job := &domain.Job{EmployerID: employerID}
	if err := applyJobInput(job, in); err != nil {
		return nil, err
	}
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// Edit overwrites every field of the job, status included. Only the owning
// employer may edit; anyone else gets ErrForbidden and the job is untouched.
func (s *JobService) Edit(ctx context.Context, jobID, employerID int64, in JobInput) (*domain.Job, error) {
	job, err := s.owned(ctx, jobID, employerID)
	if err != nil {
		return nil, err
	}

	updated := *job
	if err := applyJobInput(&updated, in); err != nil {
		return nil, err
	}
	if updated.Status == "" {
		updated.Status = job.Status
	}

	if err := s.jobs.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return &updated, nil
}

// Delete removes the job and its applications. Owner only.
func (s *JobService) Delete(ctx context.Context, jobID, employerID int64) error {
	if _, err := s.owned(ctx, jobID, employerID); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// Applications returns the job with everyone who applied to it. Owner only.
func (s *JobService) Applications(ctx context.Context, jobID, employerID int64) (*domain.Job, []domain.Application, error) {
	job, err := s.owned(ctx, jobID, employerID)
	if err != nil {
		return nil, nil, err
	}
	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("list applications: %w", err)
	}
	return job, apps, nil
}

// owned loads the job and checks the caller posted it.
func (s *JobService) owned(ctx context.Context, jobID, employerID int64) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwnedBy(employerID) {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

func applyJobInput(job *domain.Job, in JobInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)

	if err := validateStruct(in); err != nil {
		return err
	}

	salaryMin, err := parseSalary("minimum salary", in.SalaryMin)
	if err != nil {
		return err
	}
	salaryMax, err := parseSalary("maximum salary", in.SalaryMax)
	if err != nil {
		return err
	}
	if salaryMin.Valid && salaryMax.Valid && salaryMax.Decimal.LessThan(salaryMin.Decimal) {
		return fmt.Errorf("%w: maximum salary must not be less than minimum salary", domain.ErrInvalidInput)
	}

	job.Title = in.Title
	job.CompanyName = in.CompanyName
	job.Description = in.Description
	job.Location = in.Location
	job.SalaryMin = salaryMin
	job.SalaryMax = salaryMax
	job.Status = in.Status
	return nil
}

// Limits on salary input. Amounts may carry at most two decimal places.
const (
	maxSalaryText   = 20
	maxSalaryPlaces = 2
)

var maxSalary = decimal.New(1, 9)

// parseSalary turns form text into an optional amount. Empty text is unset;
// anything else must be a plain non-negative number no larger than maxSalary.
func parseSalary(label, raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	if len(raw) > maxSalaryText || strings.ContainsAny(raw, "eE") {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, label)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, label)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, label)
	}
	if d.Exponent() < -maxSalaryPlaces && !d.Equal(d.Round(maxSalaryPlaces)) {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s must have at most %d decimal places", domain.ErrInvalidInput, label, maxSalaryPlaces)
	}
	if d.GreaterThan(maxSalary) {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %s must not exceed %s", domain.ErrInvalidInput, label, maxSalary.String())
	}
	return decimal.NewNullDecimal(d), nil
}
