package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	return s == JobStatusOpen || s == JobStatusClosed
}

// Job is a posting owned by an employer.
type Job struct {
	ID          int64
	Title       string
	CompanyName string
	Description string
	SalaryMin   decimal.NullDecimal
	SalaryMax   decimal.NullDecimal
	Location    string
	Status      JobStatus
	EmployerID  int64
	CreatedAt   time.Time

	// Read-model fields, filled by list queries that join them in.
	EmployerName     string
	ApplicationCount int
}

// IsOwnedBy reports whether the given user posted the job.
func (j *Job) IsOwnedBy(userID int64) bool {
	return j.EmployerID == userID
}

// JobFilter narrows a search over open jobs. Empty fields match everything.
type JobFilter struct {
	Search   string // substring of title or description
	Location string // substring of location
}

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	ListOpen(ctx context.Context, filter JobFilter) ([]Job, error)
	ListByEmployer(ctx context.Context, employerID int64) ([]Job, error)
	ListAll(ctx context.Context) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	// Delete removes the job and all of its applications.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
