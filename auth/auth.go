package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/kbukum/sessionauth/users"
)

// ErrInvalidUserID is returned by CreateSession for an empty user id.
var ErrInvalidUserID = errors.New("auth: invalid user id")

// Strategy resolves the user behind a request.
type Strategy interface {
	// Name returns the configured type name of the strategy.
	Name() string

	// AuthorizationHeader returns the raw Authorization header.
	AuthorizationHeader(r *http.Request) (string, bool)

	// CurrentUser returns the authenticated user, or nil.
	CurrentUser(r *http.Request) *users.User
}

// SessionStrategy is a Strategy backed by server-side sessions.
type SessionStrategy interface {
	Strategy

	// SessionCookie returns the value of the session cookie.
	SessionCookie(r *http.Request) (string, bool)

	// CreateSession opens a session for userID and returns its id.
	CreateSession(ctx context.Context, userID string) (string, error)

	// UserIDForSession returns the owner of a live session.
	UserIDForSession(ctx context.Context, sessionID string) (string, bool)

	// DestroySession ends the session named by the request cookie.
	// It reports false when there was no live session to end.
	DestroySession(r *http.Request) bool

	// DestroySessionByID ends a session. Unknown ids are not an error.
	DestroySessionByID(ctx context.Context, sessionID string) error
}

// authorizationHeader is shared by every strategy.
func authorizationHeader(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.Header[http.CanonicalHeaderKey("Authorization")]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// sessionCookie reads the named cookie. An empty value counts as absent.
func sessionCookie(r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// userForSession turns the session cookie into a user through s, so each
// session variant applies its own lookup rules.
func userForSession(r *http.Request, s SessionStrategy, store users.Store) *users.User {
	sid, ok := s.SessionCookie(r)
	if !ok {
		return nil
	}
	userID, ok := s.UserIDForSession(r.Context(), sid)
	if !ok {
		return nil
	}
	u, err := store.FindUserBy(r.Context(), users.Criteria{users.FieldID: userID})
	if err != nil {
		return nil
	}
	return u
}

// NullAuth resolves nobody. It is installed when no strategy is configured.
type NullAuth struct{}

var _ Strategy = NullAuth{}

func (NullAuth) Name() string { return string(TypeNone) }

func (NullAuth) AuthorizationHeader(r *http.Request) (string, bool) {
	return authorizationHeader(r)
}

func (NullAuth) CurrentUser(*http.Request) *users.User { return nil }
