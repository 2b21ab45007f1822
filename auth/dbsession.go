package auth

import (
	"context"
	"net/http"

	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/session"
	"github.com/kbukum/sessionauth/users"
)

// DBSessionAuth keeps expiring sessions in the user_sessions table and
// deletes a session as soon as a lookup finds it expired.
type DBSessionAuth struct {
	exp *ExpiringSessionAuth
}

var _ SessionStrategy = (*DBSessionAuth)(nil)

// NewDBSessionAuth wraps exp, whose registry should be a session.DBRegistry.
func NewDBSessionAuth(exp *ExpiringSessionAuth) *DBSessionAuth {
	return &DBSessionAuth{exp: exp}
}

func (a *DBSessionAuth) Name() string { return string(TypeSessionDB) }

func (a *DBSessionAuth) AuthorizationHeader(r *http.Request) (string, bool) {
	return a.exp.AuthorizationHeader(r)
}

func (a *DBSessionAuth) SessionCookie(r *http.Request) (string, bool) {
	return a.exp.SessionCookie(r)
}

func (a *DBSessionAuth) CreateSession(ctx context.Context, userID string) (string, error) {
	return a.exp.CreateSession(ctx, userID)
}

func (a *DBSessionAuth) UserIDForSession(ctx context.Context, sessionID string) (string, bool) {
	recs := a.find(ctx, sessionID)
	if len(recs) == 0 {
		return "", false
	}
	rec := recs[0]
	if a.exp.Expired(rec) {
		if err := a.sessions().Delete(ctx, rec.SessionID); err != nil {
			a.log().Warn("expired session delete failed", logger.ErrorFields("delete_session", err))
		}
		return "", false
	}
	if rec.UserID == "" {
		return "", false
	}
	return rec.UserID, true
}

func (a *DBSessionAuth) CurrentUser(r *http.Request) *users.User {
	return userForSession(r, a, a.exp.base.store)
}

func (a *DBSessionAuth) DestroySession(r *http.Request) bool {
	return destroyFromCookie(r, a)
}

// DestroySessionByID removes every stored row for sessionID.
func (a *DBSessionAuth) DestroySessionByID(ctx context.Context, sessionID string) error {
	for _, rec := range a.find(ctx, sessionID) {
		if err := a.sessions().Delete(ctx, rec.SessionID); err != nil {
			return err
		}
	}
	return nil
}

func (a *DBSessionAuth) find(ctx context.Context, sessionID string) []session.Record {
	if sessionID == "" {
		return nil
	}
	recs, err := a.sessions().FindByField(ctx, session.FieldSessionID, sessionID)
	if err != nil {
		a.log().Warn("session lookup failed", logger.ErrorFields("find_session", err))
		return nil
	}
	return recs
}

func (a *DBSessionAuth) sessions() session.Registry { return a.exp.base.sessions }

func (a *DBSessionAuth) log() *logger.Logger { return a.exp.base.log }
