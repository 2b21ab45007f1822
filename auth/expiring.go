package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/kbukum/sessionauth/session"
	"github.com/kbukum/sessionauth/users"
)

// ExpiringSessionAuth wraps a SessionAuth and rejects sessions older than
// the configured duration. Expired records are left in the registry.
type ExpiringSessionAuth struct {
	base     *SessionAuth
	duration time.Duration
	now      func() time.Time
}

var _ SessionStrategy = (*ExpiringSessionAuth)(nil)

// NewExpiringSessionAuth wraps base. A duration <= 0 never expires.
func NewExpiringSessionAuth(base *SessionAuth, duration time.Duration) *ExpiringSessionAuth {
	return &ExpiringSessionAuth{base: base, duration: duration, now: time.Now}
}

func (a *ExpiringSessionAuth) Name() string { return string(TypeSessionExp) }

// Duration returns the session lifetime.
func (a *ExpiringSessionAuth) Duration() time.Duration { return a.duration }

// Base returns the wrapped SessionAuth.
func (a *ExpiringSessionAuth) Base() *SessionAuth { return a.base }

func (a *ExpiringSessionAuth) AuthorizationHeader(r *http.Request) (string, bool) {
	return a.base.AuthorizationHeader(r)
}

func (a *ExpiringSessionAuth) SessionCookie(r *http.Request) (string, bool) {
	return a.base.SessionCookie(r)
}

func (a *ExpiringSessionAuth) CreateSession(ctx context.Context, userID string) (string, error) {
	return a.base.CreateSession(ctx, userID)
}

// Expired reports whether rec is past its lifetime. Without a creation
// time a record cannot be trusted and counts as expired.
func (a *ExpiringSessionAuth) Expired(rec session.Record) bool {
	if a.duration <= 0 {
		return false
	}
	if rec.CreatedAt.IsZero() {
		return true
	}
	return !a.now().Before(rec.CreatedAt.Add(a.duration))
}

func (a *ExpiringSessionAuth) UserIDForSession(ctx context.Context, sessionID string) (string, bool) {
	rec := a.base.record(ctx, sessionID)
	if rec == nil || rec.UserID == "" {
		return "", false
	}
	if a.Expired(*rec) {
		return "", false
	}
	return rec.UserID, true
}

func (a *ExpiringSessionAuth) CurrentUser(r *http.Request) *users.User {
	return userForSession(r, a, a.base.store)
}

func (a *ExpiringSessionAuth) DestroySession(r *http.Request) bool {
	return destroyFromCookie(r, a)
}

func (a *ExpiringSessionAuth) DestroySessionByID(ctx context.Context, sessionID string) error {
	return a.base.DestroySessionByID(ctx, sessionID)
}
