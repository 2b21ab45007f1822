package auth

import (
	"net/http"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/sessionauth/auth/jwt"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/users"
)

const bearerPrefix = "Bearer "

// UserClaims are the claims of an access token. Subject holds the user id.
type UserClaims struct {
	gojwt.RegisteredClaims
	Email string `json:"email"`
}

func (c *UserClaims) Registered() *gojwt.RegisteredClaims { return &c.RegisteredClaims }

// NewTokenService creates the signer for access tokens.
func NewTokenService(cfg *jwt.Config) (*jwt.Signer[*UserClaims], error) {
	return jwt.NewSigner(*cfg, func() *UserClaims { return new(UserClaims) })
}

// BearerAuth authenticates "Authorization: Bearer <jwt>".
type BearerAuth struct {
	tokens *jwt.Signer[*UserClaims]
	store  users.Store
	log    *logger.Logger
}

var _ Strategy = (*BearerAuth)(nil)

// NewBearerAuth creates a BearerAuth verifying tokens with tokens.
func NewBearerAuth(tokens *jwt.Signer[*UserClaims], store users.Store, log *logger.Logger) *BearerAuth {
	return &BearerAuth{tokens: tokens, store: store, log: log.WithComponent("auth.bearer")}
}

func (a *BearerAuth) Name() string { return string(TypeBearer) }

func (a *BearerAuth) AuthorizationHeader(r *http.Request) (string, bool) {
	return authorizationHeader(r)
}

// IssueToken signs an access token for u.
func (a *BearerAuth) IssueToken(u *users.User) (string, error) {
	return a.tokens.Sign(&UserClaims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: u.ID},
		Email:            u.Email,
	})
}

// TTL returns the access token lifetime.
func (a *BearerAuth) TTL() time.Duration { return a.tokens.TTL() }

func (a *BearerAuth) CurrentUser(r *http.Request) *users.User {
	header, ok := a.AuthorizationHeader(r)
	if !ok || !strings.HasPrefix(header, bearerPrefix) {
		return nil
	}
	claims, err := a.tokens.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
	if err != nil {
		a.log.Debug("rejected bearer token", map[string]interface{}{logger.FieldError: err.Error()})
		return nil
	}
	if claims.Subject == "" {
		return nil
	}
	u, err := a.store.FindUserBy(r.Context(), users.Criteria{users.FieldID: claims.Subject})
	if err != nil {
		return nil
	}
	return u
}
