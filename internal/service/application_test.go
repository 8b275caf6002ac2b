package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/job-board/internal/domain"
)

func TestApplicationService_Apply(t *testing.T) {
	auth, jobs, apps := newTestJobService(t)
	ctx := context.Background()
	bob := mustRegister(t, auth, "bob", domain.RoleEmployer)
	alice := mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	job, err := jobs.Post(ctx, bob.ID, jobInput("Go Dev"))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}

	applied, err := apps.HasApplied(ctx, job.ID, alice.ID)
	if err != nil {
		t.Fatalf("HasApplied: %v", err)
	}
	if applied {
		t.Fatal("expected no application yet")
	}

	app, err := apps.Apply(ctx, job.ID, alice.ID)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Status != domain.ApplicationStatusPending {
		t.Fatalf("expected pending status, got %s", app.Status)
	}

	applied, err = apps.HasApplied(ctx, job.ID, alice.ID)
	if err != nil {
		t.Fatalf("HasApplied: %v", err)
	}
	if !applied {
		t.Fatal("expected HasApplied to be true after applying")
	}
}

func TestApplicationService_Apply_AtMostOncePerJob(t *testing.T) {
	auth, jobs, apps := newTestJobService(t)
	ctx := context.Background()
	bob := mustRegister(t, auth, "bob", domain.RoleEmployer)
	alice := mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	job, err := jobs.Post(ctx, bob.ID, jobInput("Go Dev"))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if _, err := apps.Apply(ctx, job.ID, alice.ID); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if _, err := apps.Apply(ctx, job.ID, alice.ID); !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}

	mine, err := apps.ListForApplicant(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListForApplicant: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected exactly 1 application, got %d", len(mine))
	}
	if mine[0].JobTitle != "Go Dev" || mine[0].CompanyName != "Acme" {
		t.Fatalf("expected job details joined in, got %+v", mine[0])
	}
}

func TestApplicationService_Apply_UnknownJob(t *testing.T) {
	auth, _, apps := newTestJobService(t)
	alice := mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	if _, err := apps.Apply(context.Background(), 4242, alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationService_ListForApplicant_NewestFirst(t *testing.T) {
	auth, jobs, apps := newTestJobService(t)
	ctx := context.Background()
	bob := mustRegister(t, auth, "bob", domain.RoleEmployer)
	alice := mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	for _, title := range []string{"First", "Second", "Third"} {
		job, err := jobs.Post(ctx, bob.ID, jobInput(title))
		if err != nil {
			t.Fatalf("Post %s: %v", title, err)
		}
		if _, err := apps.Apply(ctx, job.ID, alice.ID); err != nil {
			t.Fatalf("Apply %s: %v", title, err)
		}
	}

	mine, err := apps.ListForApplicant(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListForApplicant: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("expected 3 applications, got %d", len(mine))
	}
	if mine[0].JobTitle != "Third" || mine[2].JobTitle != "First" {
		t.Fatalf("expected newest first, got %s..%s", mine[0].JobTitle, mine[2].JobTitle)
	}
}
