package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/msomdec/job-board/internal/domain"
	"github.com/msomdec/job-board/internal/repository/redis"
)

// Verify that *redis.SessionStore implements domain.SessionStore at compile time.
var _ domain.SessionStore = (*redis.SessionStore)(nil)

func newTestStore(t *testing.T) (*redis.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(context.Background(), mr.Addr(), "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return redis.NewSessionStore(rdb), mr
}

func testSession(id string, userID int64, ttl time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:        id,
		UserID:    userID,
		Username:  "alice",
		Role:      domain.RoleJobSeeker,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testSession("sid-1", 7, time.Hour)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != 7 || got.Username != "alice" || got.Role != domain.RoleJobSeeker {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := store.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "sid-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionStore_ExpiresWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, testSession("sid-ttl", 7, time.Minute)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "sid-ttl"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestSessionStore_RejectsExpired(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Create(context.Background(), testSession("stale", 7, -time.Second))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSessionStore_DeleteByUser(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	for _, s := range []*domain.Session{
		testSession("a1", 1, time.Hour),
		testSession("a2", 1, time.Hour),
		testSession("b1", 2, time.Hour),
	} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := store.DeleteByUser(ctx, 1); err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	for _, id := range []string{"a1", "a2"} {
		if _, err := store.Get(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected %s removed, got %v", id, err)
		}
	}
	if mr.Exists("user_sessions:1") {
		t.Fatal("expected user session index to be removed")
	}
	if _, err := store.Get(ctx, "b1"); err != nil {
		t.Fatalf("expected other user's session to survive, got %v", err)
	}
}
