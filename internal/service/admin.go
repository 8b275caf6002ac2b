package service

import (
	"context"
	"fmt"

	"github.com/msomdec/job-board/internal/domain"
)

// Stats are the aggregate counts shown on the admin dashboard.
type Stats struct {
	TotalUsers        int
	TotalJobs         int
	TotalApplications int
}

// AdminService handles user management and site-wide counts.
type AdminService struct {
	users    domain.UserRepository
	jobs     domain.JobRepository
	apps     domain.ApplicationRepository
	sessions domain.SessionStore
}

// NewAdminService creates a new AdminService.
func NewAdminService(users domain.UserRepository, jobs domain.JobRepository, apps domain.ApplicationRepository, sessions domain.SessionStore) *AdminService {
	return &AdminService{users: users, jobs: jobs, apps: apps, sessions: sessions}
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes the target account with everything it owns and logs it
// out everywhere. An admin cannot delete their own account.
func (s *AdminService) DeleteUser(ctx context.Context, targetID, adminID int64) error {
	if targetID == adminID {
		return domain.ErrSelfDeletion
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}
	// The session store may live outside the database, so no FK reaches it.
	// Sessions go first: if the purge fails the account is still intact and
	// the delete can be retried.
	if err := s.sessions.DeleteByUser(ctx, targetID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	return nil
}

// Stats counts users, jobs and applications.
func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalJobs, err = s.jobs.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalApplications, err = s.apps.Count(ctx); err != nil {
		return Stats{}, err
	}
	return st, nil
}
