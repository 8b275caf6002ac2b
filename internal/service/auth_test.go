package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/repository/sqlite"
	"github.com/msomdec/job-board/internal/service"
)

const testSessionSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), db.Sessions(), testSessionSecret, 4, time.Hour)
	return auth, db
}

func registerInput(username string, role domain.Role) service.RegisterInput {
	return service.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		FullName: username + " Example",
		Role:     role,
	}
}

func mustRegister(t *testing.T, auth *service.AuthService, username string, role domain.Role) *domain.User {
	t.Helper()
	user, err := auth.Register(context.Background(), registerInput(username, role))
	if err != nil {
		t.Fatalf("Register %s: %v", username, err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)

	user := mustRegister(t, auth, "alice", domain.RoleJobSeeker)
	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.PasswordHash == "" || user.PasswordHash == "password123" {
		t.Fatal("expected password to be stored as a hash")
	}
	if user.Role != domain.RoleJobSeeker {
		t.Fatalf("expected role job_seeker, got %s", user.Role)
	}
}

func TestAuthService_Register_DuplicatesDoNotMutate(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	dupName := registerInput("alice", domain.RoleEmployer)
	dupName.Email = "fresh@example.com"
	if _, err := auth.Register(ctx, dupName); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	dupEmail := registerInput("alice2", domain.RoleEmployer)
	dupEmail.Email = "alice@example.com"
	if _, err := auth.Register(ctx, dupEmail); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	n, err := db.Users().Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected store to hold 1 user, got %d", n)
	}
}

func TestAuthService_Register_Invalid(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(in *service.RegisterInput)
	}{
		{"empty username", func(in *service.RegisterInput) { in.Username = "  " }},
		{"empty full name", func(in *service.RegisterInput) { in.FullName = "" }},
		{"bad email", func(in *service.RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *service.RegisterInput) { in.Password = "short" }},
		{"unknown role", func(in *service.RegisterInput) { in.Role = "superuser" }},
		{"missing role", func(in *service.RegisterInput) { in.Role = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := registerInput("valid", domain.RoleJobSeeker)
			tc.modify(&in)
			if _, err := auth.Register(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()
	registered := mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	user, token, err := auth.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, user.ID)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	session, err := auth.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if session.UserID != user.ID || session.Username != "alice" || session.Role != domain.RoleJobSeeker {
		t.Fatalf("session does not bind the user: %+v", session)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()
	mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	if _, _, err := auth.Login(ctx, "alice", "wrongpassword"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := auth.Login(ctx, "nobody", "password123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()
	mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	_, token, err := auth.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := auth.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.Authenticate(ctx, token); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated after logout, got %v", err)
	}

	// Idempotent, including for garbage tokens.
	if err := auth.Logout(ctx, token); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
	if err := auth.Logout(ctx, "garbage"); err != nil {
		t.Fatalf("Logout garbage: %v", err)
	}
}

func TestAuthService_Authenticate_RejectsBadTokens(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()
	mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	_, token, err := auth.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other := service.NewAuthService(db.Users(), db.Sessions(), "a-completely-different-secret-value-xyz", 4, time.Hour)

	tests := []struct {
		name  string
		auth  *service.AuthService
		token string
	}{
		{"not a jwt", auth, "not-a-valid-jwt"},
		{"tampered signature", auth, token[:len(token)-5] + "XXXXX"},
		{"wrong secret", other, token},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.auth.Authenticate(ctx, tc.token); !errors.Is(err, domain.ErrNotAuthenticated) {
				t.Fatalf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	}
}

func TestAuthService_Authenticate_ExpiredSession(t *testing.T) {
	db := newTestDB(t)
	auth := service.NewAuthService(db.Users(), db.Sessions(), testSessionSecret, 4, time.Millisecond)
	ctx := context.Background()
	mustRegister(t, auth, "alice", domain.RoleJobSeeker)

	_, token, err := auth.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := auth.Authenticate(ctx, token); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for expired session, got %v", err)
	}
}

func TestAuthService_SeedAdmin_Idempotent(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := auth.SeedAdmin(ctx, "root", "root@example.com", "supersecret"); err != nil {
			t.Fatalf("SeedAdmin run %d: %v", i+1, err)
		}
	}

	admin, err := db.Users().GetByUsername(ctx, "root")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
	n, err := db.Users().Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}
}
