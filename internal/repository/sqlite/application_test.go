package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/job-board/internal/domain"
)

func TestApplicationRepository_CreateOncePerPair(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	bob := seedUser(t, db, "bob", domain.RoleEmployer)
	alice := seedUser(t, db, "alice", domain.RoleJobSeeker)
	job := seedJob(t, db, bob.ID, "Backend Engineer", "Remote")

	app := &domain.Application{JobID: job.ID, ApplicantID: alice.ID}
	if err := db.Applications().Create(ctx, app); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if app.ID == 0 || app.Status != domain.ApplicationStatusPending {
		t.Fatalf("expected pending application with id, got %+v", app)
	}

	err := db.Applications().Create(ctx, &domain.Application{JobID: job.ID, ApplicantID: alice.ID})
	if !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}

	exists, err := db.Applications().Exists(ctx, job.ID, alice.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatal("expected application to exist")
	}

	n, err := db.Applications().Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 application, got %d", n)
	}
}

func TestApplicationRepository_UniqueConstraint(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	bob := seedUser(t, db, "bob", domain.RoleEmployer)
	alice := seedUser(t, db, "alice", domain.RoleJobSeeker)
	job := seedJob(t, db, bob.ID, "Backend Engineer", "Remote")

	insert := "INSERT INTO applications (job_id, applicant_id) VALUES (?, ?)"
	if _, err := db.SqlDB.ExecContext(ctx, insert, job.ID, alice.ID); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.SqlDB.ExecContext(ctx, insert, job.ID, alice.ID); err == nil {
		t.Fatal("expected storage to reject a duplicate (job_id, applicant_id)")
	}
}

func TestApplicationRepository_Lists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	bob := seedUser(t, db, "bob", domain.RoleEmployer)
	alice := seedUser(t, db, "alice", domain.RoleJobSeeker)
	dave := seedUser(t, db, "dave", domain.RoleJobSeeker)
	job1 := seedJob(t, db, bob.ID, "Backend Engineer", "Remote")
	job2 := seedJob(t, db, bob.ID, "SRE", "Remote")

	for _, a := range []domain.Application{
		{JobID: job1.ID, ApplicantID: alice.ID},
		{JobID: job2.ID, ApplicantID: alice.ID},
		{JobID: job1.ID, ApplicantID: dave.ID},
	} {
		if err := db.Applications().Create(ctx, &a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	byJob, err := db.Applications().ListByJob(ctx, job1.ID)
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(byJob) != 2 {
		t.Fatalf("expected 2 applications for job1, got %d", len(byJob))
	}
	for _, a := range byJob {
		if a.ApplicantEmail == "" || a.ApplicantName == "" {
			t.Fatalf("expected applicant details to be joined in, got %+v", a)
		}
	}

	byApplicant, err := db.Applications().ListByApplicant(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByApplicant: %v", err)
	}
	if len(byApplicant) != 2 {
		t.Fatalf("expected 2 applications for alice, got %d", len(byApplicant))
	}
	for _, a := range byApplicant {
		if a.JobTitle == "" || a.CompanyName != "Acme" {
			t.Fatalf("expected job details to be joined in, got %+v", a)
		}
	}
}
