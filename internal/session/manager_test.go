package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/cache"
	"github.com/harentsoaR/healthchain-api/internal/models"
	"github.com/harentsoaR/healthchain-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type mapCache struct {
	items map[string]models.Session
	sets  int
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]models.Session)}
}

func (c *mapCache) Get(ctx context.Context, id string) (*models.Session, error) {
	s, ok := c.items[id]
	if !ok {
		return nil, cache.ErrMiss
	}
	return &s, nil
}

func (c *mapCache) Set(ctx context.Context, s *models.Session, ttl time.Duration) error {
	c.sets++
	c.items[s.ID] = *s
	return nil
}

func (c *mapCache) Delete(ctx context.Context, id string) error {
	delete(c.items, id)
	return nil
}

func newTestManager(c cache.SessionCache) (*Manager, *store.Memory) {
	st := store.NewMemory()
	m := NewManager(st, c, Options{Secret: []byte("secret"), TTL: time.Hour, CacheTTL: time.Minute}, zap.NewNop())
	return m, st
}

func TestIssueAndResolve(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(nil)
	principal := primitive.NewObjectID()

	token, expires, err := m.Issue(ctx, models.KindPatient, principal)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expiry should be in the future: %v", expires)
	}

	s, err := m.Resolve(ctx, models.KindPatient, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.PrincipalID != principal {
		t.Fatalf("unexpected principal %s", s.PrincipalID.Hex())
	}

	if _, err := m.Resolve(ctx, models.KindDoctor, token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("patient cookie must not resolve as doctor, got %v", err)
	}
	if _, err := m.Resolve(ctx, models.KindPatient, "garbage"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for garbage token, got %v", err)
	}
	if _, err := m.Resolve(ctx, models.KindPatient, ""); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for empty token, got %v", err)
	}
}

func TestIssueEndsPreviousSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(nil)
	principal := primitive.NewObjectID()

	first, _, _ := m.Issue(ctx, models.KindDoctor, principal)
	second, _, _ := m.Issue(ctx, models.KindDoctor, principal)

	if _, err := m.Resolve(ctx, models.KindDoctor, first); !errors.Is(err, ErrNoSession) {
		t.Fatalf("first session should be gone, got %v", err)
	}
	if _, err := m.Resolve(ctx, models.KindDoctor, second); err != nil {
		t.Fatalf("second session should resolve: %v", err)
	}
}

func TestResolveRejectsExpiredSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(nil)
	token, _, _ := m.Issue(ctx, models.KindPatient, primitive.NewObjectID())

	if _, err := m.Resolve(ctx, models.KindPatient, token); err != nil {
		t.Fatalf("session should be live: %v", err)
	}
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := m.Resolve(ctx, models.KindPatient, token); err == nil {
		t.Fatal("expected expired session to be rejected")
	}
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	m, _ := newTestManager(c)
	token, _, _ := m.Issue(ctx, models.KindPatient, primitive.NewObjectID())

	if _, err := m.Resolve(ctx, models.KindPatient, token); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if c.sets != 1 || len(c.items) != 1 {
		t.Fatalf("expected resolved session to be cached, sets=%d items=%d", c.sets, len(c.items))
	}
	if _, err := m.Resolve(ctx, models.KindPatient, token); err != nil {
		t.Fatalf("cached resolve: %v", err)
	}
	if c.sets != 1 {
		t.Fatalf("second resolve should hit the cache, sets=%d", c.sets)
	}

	if err := m.Revoke(ctx, models.KindPatient, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(c.items) != 0 {
		t.Fatal("revoke should drop the cache entry")
	}
	if _, err := m.Resolve(ctx, models.KindPatient, token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after revoke, got %v", err)
	}
	if err := m.Revoke(ctx, models.KindPatient, "not-a-token"); err != nil {
		t.Fatalf("revoking garbage should be a no-op, got %v", err)
	}
}

func TestIssueEvictsCachedSessions(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	m, _ := newTestManager(c)
	principal := primitive.NewObjectID()

	first, _, _ := m.Issue(ctx, models.KindPatient, principal)
	if _, err := m.Resolve(ctx, models.KindPatient, first); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(c.items) != 1 {
		t.Fatalf("expected the first session to be cached, items=%d", len(c.items))
	}

	second, _, _ := m.Issue(ctx, models.KindPatient, principal)
	if len(c.items) != 0 {
		t.Fatalf("re-login should evict the cached session, items=%d", len(c.items))
	}
	if _, err := m.Resolve(ctx, models.KindPatient, first); !errors.Is(err, ErrNoSession) {
		t.Fatalf("first session must not resolve after re-login, got %v", err)
	}
	if _, err := m.Resolve(ctx, models.KindPatient, second); err != nil {
		t.Fatalf("second session should resolve: %v", err)
	}
}

func TestResolveServesFromCache(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	m, st := newTestManager(c)
	token, _, _ := m.Issue(ctx, models.KindDoctor, primitive.NewObjectID())

	if _, err := m.Resolve(ctx, models.KindDoctor, token); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// Drop the stored copy; the cached one must still answer.
	for id := range c.items {
		if err := st.DeleteSession(ctx, id); err != nil {
			t.Fatalf("delete session: %v", err)
		}
	}
	if _, err := m.Resolve(ctx, models.KindDoctor, token); err != nil {
		t.Fatalf("expected a cache hit, got %v", err)
	}
}

func TestCookies(t *testing.T) {
	m, _ := newTestManager(nil)
	w := httptest.NewRecorder()
	m.SetCookie(w, models.KindDoctor, "tok", time.Now().Add(time.Hour))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != DoctorCookie || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}

	w = httptest.NewRecorder()
	m.ClearCookie(w, models.KindPatient)
	cookies = w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != PatientCookie || cookies[0].MaxAge >= 0 {
		t.Fatalf("unexpected clear cookie: %+v", cookies)
	}
}
