package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application links a job seeker to a job they applied to.
type Application struct {
	ID          int64
	JobID       int64
	ApplicantID int64
	Status      ApplicationStatus
	AppliedAt   time.Time

	// Read-model fields populated by the list queries.
	JobTitle          string
	CompanyName       string
	ApplicantUsername string
	ApplicantName     string
	ApplicantEmail    string
}

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	// Create inserts a pending application. It returns ErrAlreadyApplied when
	// the applicant already has one for the job.
	Create(ctx context.Context, app *Application) error
	Exists(ctx context.Context, jobID, applicantID int64) (bool, error)
	ListByJob(ctx context.Context, jobID int64) ([]Application, error)
	ListByApplicant(ctx context.Context, applicantID int64) ([]Application, error)
	Count(ctx context.Context) (int, error)
}
