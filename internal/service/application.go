package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/job-board/internal/domain"
)

// ApplicationService handles job seekers applying to jobs.
type ApplicationService struct {
	apps domain.ApplicationRepository
	jobs domain.JobRepository
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(apps domain.ApplicationRepository, jobs domain.JobRepository) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs}
}

// Apply records a pending application from the applicant. A repeat
// application returns ErrAlreadyApplied and leaves the existing one alone.
func (s *ApplicationService) Apply(ctx context.Context, jobID, applicantID int64) (*domain.Application, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return nil, err
	}

	app := &domain.Application{JobID: jobID, ApplicantID: applicantID}
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) {
			return nil, err
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// HasApplied reports whether the applicant already applied to the job.
func (s *ApplicationService) HasApplied(ctx context.Context, jobID, applicantID int64) (bool, error) {
	return s.apps.Exists(ctx, jobID, applicantID)
}

// ListForApplicant returns the applicant's applications, newest first.
func (s *ApplicationService) ListForApplicant(ctx context.Context, applicantID int64) ([]domain.Application, error) {
	return s.apps.ListByApplicant(ctx, applicantID)
}
