package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/sessionauth/auth/password"
	apperrors "github.com/kbukum/sessionauth/errors"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/users"
)

const basicPrefix = "Basic "

// BasicAuth authenticates "Authorization: Basic base64(email:password)".
type BasicAuth struct {
	store  users.Store
	hasher password.Hasher
	log    *logger.Logger
}

var _ Strategy = (*BasicAuth)(nil)

// NewBasicAuth creates a BasicAuth checking credentials against store.
func NewBasicAuth(store users.Store, hasher password.Hasher, log *logger.Logger) *BasicAuth {
	return &BasicAuth{store: store, hasher: hasher, log: log.WithComponent("auth.basic")}
}

func (a *BasicAuth) Name() string { return string(TypeBasic) }

func (a *BasicAuth) AuthorizationHeader(r *http.Request) (string, bool) {
	return authorizationHeader(r)
}

// ExtractBase64AuthorizationHeader returns the part after "Basic ".
// The prefix is case-sensitive.
func (a *BasicAuth) ExtractBase64AuthorizationHeader(header string) (string, bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", false
	}
	return header[len(basicPrefix):], true
}

// DecodeBase64AuthorizationHeader decodes standard base64 into UTF-8 text.
func (a *BasicAuth) DecodeBase64AuthorizationHeader(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", apperrors.MalformedHeader("invalid base64").WithCause(err)
	}
	if !utf8.Valid(raw) {
		return "", apperrors.MalformedHeader("invalid utf-8")
	}
	return string(raw), nil
}

// ExtractUserCredentials splits "email:password" on the first colon.
func (a *BasicAuth) ExtractUserCredentials(decoded string) (email, pw string, ok bool) {
	email, pw, ok = strings.Cut(decoded, ":")
	return email, pw, ok
}

// UserFromCredentials returns the first user with email whose password
// verifies, or nil.
func (a *BasicAuth) UserFromCredentials(ctx context.Context, email, pw string) *users.User {
	if email == "" || pw == "" {
		return nil
	}
	found, err := a.store.Search(ctx, users.Criteria{users.FieldEmail: email})
	if err != nil {
		a.log.Warn("user search failed", logger.ErrorFields("search", err))
		return nil
	}
	for i := range found {
		if password.Matches(a.hasher, pw, found[i].HashedPassword) {
			return &found[i]
		}
	}
	return nil
}

func (a *BasicAuth) CurrentUser(r *http.Request) *users.User {
	header, ok := a.AuthorizationHeader(r)
	if !ok {
		return nil
	}
	encoded, ok := a.ExtractBase64AuthorizationHeader(header)
	if !ok {
		return nil
	}
	decoded, err := a.DecodeBase64AuthorizationHeader(encoded)
	if err != nil {
		a.log.Debug("rejected basic credential", map[string]interface{}{logger.FieldError: err.Error()})
		return nil
	}
	email, pw, ok := a.ExtractUserCredentials(decoded)
	if !ok {
		return nil
	}
	return a.UserFromCredentials(r.Context(), email, pw)
}
