package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/repository/sqlite"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hashedpw",
		Role:         domain.RoleJobSeeker,
		FullName:     "Alice Smith",
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_Duplicates(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, "alice", domain.RoleJobSeeker)

	err := repo.Create(ctx, &domain.User{
		Username: "alice", Email: "other@example.com", PasswordHash: "h",
		Role: domain.RoleJobSeeker, FullName: "Other",
	})
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	err = repo.Create(ctx, &domain.User{
		Username: "alice2", Email: "alice@example.com", PasswordHash: "h",
		Role: domain.RoleJobSeeker, FullName: "Other",
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}
}

func TestUserRepository_Create_InvalidRole(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	err := repo.Create(context.Background(), &domain.User{
		Username: "eve", Email: "eve@example.com", PasswordHash: "h",
		Role: domain.Role("superuser"), FullName: "Eve",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "bob", domain.RoleEmployer)

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Username != "bob" || byID.Role != domain.RoleEmployer {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byName, err := repo.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != user.ID {
		t.Fatalf("expected id %d, got %d", user.ID, byName.ID)
	}

	byEmail, err := repo.GetByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected id %d, got %d", user.ID, byEmail.ID)
	}

	if _, err := repo.GetByID(ctx, 99999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)

	seedUser(t, db, "u1", domain.RoleJobSeeker)
	seedUser(t, db, "u2", domain.RoleEmployer)
	seedUser(t, db, "u3", domain.RoleAdmin)

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}

func TestUserRepository_Delete_Cascades(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	employer := seedUser(t, db, "bob", domain.RoleEmployer)
	seeker := seedUser(t, db, "alice", domain.RoleJobSeeker)
	job := seedJob(t, db, employer.ID, "Backend Engineer", "Remote")
	other := seedJob(t, db, seedUser(t, db, "carol", domain.RoleEmployer).ID, "Designer", "NYC")

	if err := db.Applications().Create(ctx, &domain.Application{JobID: job.ID, ApplicantID: seeker.ID}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := db.Applications().Create(ctx, &domain.Application{JobID: other.ID, ApplicantID: seeker.ID}); err != nil {
		t.Fatalf("apply other: %v", err)
	}

	if err := repo.Delete(ctx, employer.ID); err != nil {
		t.Fatalf("Delete employer: %v", err)
	}
	if _, err := db.Jobs().GetByID(ctx, job.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected employer's job to be gone, got %v", err)
	}
	apps, err := db.Applications().ListByApplicant(ctx, seeker.ID)
	if err != nil {
		t.Fatalf("ListByApplicant: %v", err)
	}
	if len(apps) != 1 || apps[0].JobID != other.ID {
		t.Fatalf("expected only the application to the surviving job, got %+v", apps)
	}

	if err := repo.Delete(ctx, seeker.ID); err != nil {
		t.Fatalf("Delete seeker: %v", err)
	}
	n, err := db.Applications().Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 applications after deleting applicant, got %d", n)
	}

	if err := repo.Delete(ctx, seeker.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}
