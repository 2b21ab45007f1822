package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/session"
	"github.com/kbukum/sessionauth/users"
)

// SessionAuth authenticates a session cookie against a session.Registry.
type SessionAuth struct {
	cookieName string
	sessions   session.Registry
	store      users.Store
	log        *logger.Logger

	now   func() time.Time
	newID func() string
}

var _ SessionStrategy = (*SessionAuth)(nil)

// NewSessionAuth creates a SessionAuth reading the cookie cookieName.
func NewSessionAuth(cookieName string, sessions session.Registry, store users.Store, log *logger.Logger) *SessionAuth {
	if cookieName == "" {
		cookieName = DefaultSessionName
	}
	return &SessionAuth{
		cookieName: cookieName,
		sessions:   sessions,
		store:      store,
		log:        log.WithComponent("auth.session"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (a *SessionAuth) Name() string { return string(TypeSession) }

// CookieName returns the session cookie name.
func (a *SessionAuth) CookieName() string { return a.cookieName }

// Sessions returns the backing registry.
func (a *SessionAuth) Sessions() session.Registry { return a.sessions }

func (a *SessionAuth) AuthorizationHeader(r *http.Request) (string, bool) {
	return authorizationHeader(r)
}

func (a *SessionAuth) SessionCookie(r *http.Request) (string, bool) {
	return sessionCookie(r, a.cookieName)
}

func (a *SessionAuth) CreateSession(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}
	if _, err := a.store.FindUserBy(ctx, users.Criteria{users.FieldID: userID}); err != nil {
		return "", err
	}
	sid := a.newID()
	if err := a.sessions.Put(ctx, sid, session.Record{UserID: userID, CreatedAt: a.now()}); err != nil {
		return "", err
	}
	a.log.Debug("session created", map[string]interface{}{logger.FieldUserID: userID})
	return sid, nil
}

func (a *SessionAuth) UserIDForSession(ctx context.Context, sessionID string) (string, bool) {
	rec := a.record(ctx, sessionID)
	if rec == nil || rec.UserID == "" {
		return "", false
	}
	return rec.UserID, true
}

// record loads a session, logging and hiding registry failures.
func (a *SessionAuth) record(ctx context.Context, sessionID string) *session.Record {
	if sessionID == "" {
		return nil
	}
	rec, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		a.log.Warn("session lookup failed", logger.ErrorFields("get_session", err))
		return nil
	}
	return rec
}

func (a *SessionAuth) CurrentUser(r *http.Request) *users.User {
	return userForSession(r, a, a.store)
}

func (a *SessionAuth) DestroySession(r *http.Request) bool {
	return destroyFromCookie(r, a)
}

func (a *SessionAuth) DestroySessionByID(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return a.sessions.Delete(ctx, sessionID)
}

// destroyFromCookie ends the live session named by the cookie through s.
func destroyFromCookie(r *http.Request, s SessionStrategy) bool {
	sid, ok := s.SessionCookie(r)
	if !ok {
		return false
	}
	if _, ok := s.UserIDForSession(r.Context(), sid); !ok {
		return false
	}
	return s.DestroySessionByID(r.Context(), sid) == nil
}
