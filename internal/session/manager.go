// Package session issues, resolves and revokes patient and doctor sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/cache"
	"github.com/harentsoaR/healthchain-api/internal/models"
	"github.com/harentsoaR/healthchain-api/internal/store"
	"github.com/harentsoaR/healthchain-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrNoSession means the cookie does not map to a live session.
var ErrNoSession = errors.New("no valid session")

const (
	PatientCookie = "session_id"
	DoctorCookie  = "doctor_session_id"
)

// CookieName returns the cookie that carries sessions of kind.
func CookieName(kind models.PrincipalKind) string {
	if kind == models.KindDoctor {
		return DoctorCookie
	}
	return PatientCookie
}

type Options struct {
	Secret   []byte
	TTL      time.Duration
	CacheTTL time.Duration
	Secure   bool
}

type Manager struct {
	store  store.Sessions
	cache  cache.SessionCache
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewManager builds a Manager. sessionCache may be nil.
func NewManager(st store.Sessions, sessionCache cache.SessionCache, opts Options, logger *zap.Logger) *Manager {
	return &Manager{store: st, cache: sessionCache, opts: opts, logger: logger, now: time.Now}
}

// Issue starts a new session for the principal, ending any earlier session
// of the same kind, and returns the signed cookie value.
func (m *Manager) Issue(ctx context.Context, kind models.PrincipalKind, principalID primitive.ObjectID) (string, time.Time, error) {
	id, err := utils.NewSessionID()
	if err != nil {
		return "", time.Time{}, err
	}
	now := m.now()
	s := &models.Session{
		ID:          id,
		Kind:        kind,
		PrincipalID: principalID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.opts.TTL),
	}

	token, err := utils.SignSessionToken(m.opts.Secret, s.ID, string(kind), s.ExpiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	ended, err := m.store.DeleteSessionsFor(ctx, kind, principalID)
	if err != nil {
		return "", time.Time{}, err
	}
	for _, id := range ended {
		m.forget(ctx, id)
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return "", time.Time{}, err
	}
	return token, s.ExpiresAt, nil
}

// Resolve returns the live session behind a cookie value of the given kind.
func (m *Manager) Resolve(ctx context.Context, kind models.PrincipalKind, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := utils.ParseSessionToken(m.opts.Secret, token)
	if err != nil || claims.Kind != string(kind) {
		return nil, ErrNoSession
	}

	s := m.cached(ctx, claims.SessionID)
	if s == nil {
		s, err = m.store.FindSession(ctx, claims.SessionID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoSession
		}
		if err != nil {
			return nil, err
		}
		m.remember(ctx, s)
	}

	if s.Kind != kind || s.Expired(m.now()) {
		return nil, ErrNoSession
	}
	return s, nil
}

// Revoke ends the session behind a cookie value. Unknown or invalid values
// are ignored.
func (m *Manager) Revoke(ctx context.Context, kind models.PrincipalKind, token string) error {
	claims, err := utils.ParseSessionToken(m.opts.Secret, token)
	if err != nil || claims.Kind != string(kind) {
		return nil
	}
	m.forget(ctx, claims.SessionID)
	return m.store.DeleteSession(ctx, claims.SessionID)
}

// SetCookie writes the session cookie for kind.
func (m *Manager) SetCookie(w http.ResponseWriter, kind models.PrincipalKind, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie for kind.
func (m *Manager) ClearCookie(w http.ResponseWriter, kind models.PrincipalKind) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) cached(ctx context.Context, id string) *models.Session {
	if m.cache == nil {
		return nil
	}
	s, err := m.cache.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			m.logger.Warn("session cache read failed", zap.Error(err))
		}
		return nil
	}
	return s
}

func (m *Manager) remember(ctx context.Context, s *models.Session) {
	if m.cache == nil || m.opts.CacheTTL <= 0 {
		return
	}
	ttl := m.opts.CacheTTL
	if remaining := s.ExpiresAt.Sub(m.now()); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return
	}
	if err := m.cache.Set(ctx, s, ttl); err != nil {
		m.logger.Warn("session cache write failed", zap.Error(err))
	}
}

func (m *Manager) forget(ctx context.Context, id string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Delete(ctx, id); err != nil {
		m.logger.Warn("session cache delete failed", zap.Error(err))
	}
}
