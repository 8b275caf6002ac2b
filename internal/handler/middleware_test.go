package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/handler"
	"github.com/msomdec/job-board/internal/repository/sqlite"
	"github.com/msomdec/job-board/internal/service"
)

const testSessionSecret = "test-secret-for-handler-tests-0123456789"

type testServices struct {
	auth  *service.AuthService
	jobs  *service.JobService
	apps  *service.ApplicationService
	admin *service.AdminService
}

func newTestServices(t *testing.T) testServices {
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

	return testServices{
		auth:  service.NewAuthService(db.Users(), db.Sessions(), testSessionSecret, 4, time.Hour),
		jobs:  service.NewJobService(db.Jobs(), db.Applications()),
		apps:  service.NewApplicationService(db.Applications(), db.Jobs()),
		admin: service.NewAdminService(db.Users(), db.Jobs(), db.Applications(), db.Sessions()),
	}
}

func newTestMux(t *testing.T, svc testServices, limiter *service.TokenBucket) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, svc.auth, svc.jobs, svc.apps, svc.admin, limiter, false)
	return mux
}

// loginToken registers a user with the role and returns a session token.
func loginToken(t *testing.T, auth *service.AuthService, username string, role domain.Role) string {
	t.Helper()
	ctx := context.Background()
	_, err := auth.Register(ctx, service.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		FullName: username + " Example",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := auth.Login(ctx, username, "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return token
}

func serveWithSession(auth *service.AuthService, h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}
	w := httptest.NewRecorder()
	handler.LoadSession(auth, h).ServeHTTP(w, req)
	return w
}

func TestLoadSession_ValidToken(t *testing.T) {
	svc := newTestServices(t)
	token := loginToken(t, svc.auth, "alice", domain.RoleJobSeeker)

	var got *domain.Session
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = handler.CallerFromContext(r.Context())
	})

	serveWithSession(svc.auth, inner, token)
	if got == nil || got.Username != "alice" || got.Role != domain.RoleJobSeeker {
		t.Fatalf("expected alice's session in context, got %+v", got)
	}
}

func TestLoadSession_InvalidTokenIsAnonymous(t *testing.T) {
	svc := newTestServices(t)

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if handler.CallerFromContext(r.Context()) != nil {
			t.Fatal("expected no caller for an invalid token")
		}
	})

	serveWithSession(svc.auth, inner, "not-a-valid-jwt")
	if !called {
		t.Fatal("LoadSession must never block the request")
	}
}

func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	svc := newTestServices(t)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	w := serveWithSession(svc.auth, handler.Guarded(inner), "")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
	if !hasCookie(w.Result().Cookies(), "flash") {
		t.Fatal("expected a flash notice to be set")
	}
}

func TestRequireRole(t *testing.T) {
	svc := newTestServices(t)
	seekerToken := loginToken(t, svc.auth, "alice", domain.RoleJobSeeker)
	employerToken := loginToken(t, svc.auth, "bob", domain.RoleEmployer)

	reached := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	h := handler.Guarded(inner, handler.RequireRole(domain.RoleEmployer))

	w := serveWithSession(svc.auth, h, seekerToken)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected 303 to /dashboard for wrong role, got %d %s", w.Code, w.Header().Get("Location"))
	}
	if reached {
		t.Fatal("inner handler reached with wrong role")
	}

	w = serveWithSession(svc.auth, h, employerToken)
	if w.Code != http.StatusOK || !reached {
		t.Fatalf("expected employer to reach handler, got %d", w.Code)
	}
}

func TestRequireRole_AnonymousGoesToLogin(t *testing.T) {
	svc := newTestServices(t)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	// Authentication is checked before the role even when the role guard
	// is the only one listed.
	w := serveWithSession(svc.auth, handler.Guarded(inner, handler.RequireRole(domain.RoleAdmin)), "")
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	limiter := service.NewTokenBucket(ctx, 0.001, 2)

	h := handler.RateLimit(limiter, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i+1, want, w.Code)
		}
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := handler.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := w.Header().Get(header); got != want {
			t.Fatalf("%s: expected %q, got %q", header, want, got)
		}
	}
}

func TestLogRequests_PassesThrough(t *testing.T) {
	h := handler.LogRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", w.Code)
	}
}

func hasCookie(cookies []*http.Cookie, name string) bool {
	for _, c := range cookies {
		if c.Name == name && c.MaxAge >= 0 {
			return true
		}
	}
	return false
}
