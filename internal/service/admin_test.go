package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/service"
)

func TestAdminService_DeleteUser_Cascades(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	jobs := service.NewJobService(db.Jobs(), db.Applications())
	apps := service.NewApplicationService(db.Applications(), db.Jobs())
	admin := service.NewAdminService(db.Users(), db.Jobs(), db.Applications(), db.Sessions())

	root := mustRegister(t, auth, "root", domain.RoleAdmin)
	bob := mustRegister(t, auth, "bob", domain.RoleEmployer)
	alice := mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	job, err := jobs.Post(ctx, bob.ID, jobInput("Go Dev"))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if _, err := apps.Apply(ctx, job.ID, alice.ID); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	_, bobToken, err := auth.Login(ctx, "bob", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := admin.DeleteUser(ctx, bob.ID, root.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := auth.GetUserByID(ctx, bob.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected deleted user to be gone, got %v", err)
	}
	if _, err := jobs.Get(ctx, job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected employer's jobs to be gone, got %v", err)
	}
	if _, err := auth.Authenticate(ctx, bobToken); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected deleted user's session to be revoked, got %v", err)
	}

	st, err := admin.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st != (service.Stats{TotalUsers: 2, TotalJobs: 0, TotalApplications: 0}) {
		t.Fatalf("unexpected stats after delete: %+v", st)
	}
}

func TestAdminService_DeleteUser_Self(t *testing.T) {
	auth, db := newTestAuthService(t)
	admin := service.NewAdminService(db.Users(), db.Jobs(), db.Applications(), db.Sessions())
	root := mustRegister(t, auth, "root", domain.RoleAdmin)

	if err := admin.DeleteUser(context.Background(), root.ID, root.ID); !errors.Is(err, domain.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
	if _, err := auth.GetUserByID(context.Background(), root.ID); err != nil {
		t.Fatalf("admin should still exist: %v", err)
	}
}

func TestAdminService_DeleteUser_NotFound(t *testing.T) {
	auth, db := newTestAuthService(t)
	admin := service.NewAdminService(db.Users(), db.Jobs(), db.Applications(), db.Sessions())
	root := mustRegister(t, auth, "root", domain.RoleAdmin)

	if err := admin.DeleteUser(context.Background(), 9999, root.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdminService_ListUsersAndStats(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	admin := service.NewAdminService(db.Users(), db.Jobs(), db.Applications(), db.Sessions())
	jobs := service.NewJobService(db.Jobs(), db.Applications())

	mustRegister(t, auth, "root", domain.RoleAdmin)
	bob := mustRegister(t, auth, "bob", domain.RoleEmployer)
	mustRegister(t, auth, "alice", domain.RoleJobSeeker)
	if _, err := jobs.Post(ctx, bob.ID, jobInput("Go Dev")); err != nil {
		t.Fatalf("Post: %v", err)
	}

	users, err := admin.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}

	st, err := admin.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalUsers != 3 || st.TotalJobs != 1 || st.TotalApplications != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

// failingSessionStore wraps a real store but cannot purge by user.
type failingSessionStore struct {
	domain.SessionStore
}

func (failingSessionStore) DeleteByUser(context.Context, int64) error {
	return errors.New("session store unavailable")
}

func TestAdminService_DeleteUser_SessionPurgeFails(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	admin := service.NewAdminService(db.Users(), db.Jobs(), db.Applications(), failingSessionStore{db.Sessions()})

	root := mustRegister(t, auth, "root", domain.RoleAdmin)
	bob := mustRegister(t, auth, "bob", domain.RoleEmployer)

	if err := admin.DeleteUser(ctx, bob.ID, root.ID); err == nil {
		t.Fatal("expected an error when sessions cannot be revoked")
	}
	if _, err := auth.GetUserByID(ctx, bob.ID); err != nil {
		t.Fatalf("account should survive a failed delete: %v", err)
	}
}
