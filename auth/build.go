package auth

import (
	"github.com/kbukum/sessionauth/auth/jwt"
	"github.com/kbukum/sessionauth/auth/password"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/session"
	"github.com/kbukum/sessionauth/users"
)

// Deps are the stores strategies are built on. Nil registries or token
// services leave the strategies that need them unregistered.
type Deps struct {
	Users  users.Store
	Hasher password.Hasher

	// Sessions backs session_auth and session_exp_auth.
	Sessions session.Registry
	// DBSessions backs session_db_auth.
	DBSessions session.Registry
	// Tokens backs bearer_auth.
	Tokens *jwt.Signer[*UserClaims]

	Logger *logger.Logger
}

// Build registers every strategy deps can support and installs the one
// named by cfg.Type. An unknown or unavailable type installs "none".
func Build(cfg Config, deps Deps) *Registry {
	log := deps.Logger.WithComponent("auth")
	reg := NewRegistry()

	if deps.Hasher == nil {
		deps.Hasher = password.NewHasher(*cfg.Password)
	}
	reg.Register(NewBasicAuth(deps.Users, deps.Hasher, deps.Logger))

	if deps.Sessions != nil {
		base := NewSessionAuth(cfg.SessionName, deps.Sessions, deps.Users, deps.Logger)
		reg.Register(base)
		reg.Register(NewExpiringSessionAuth(base, cfg.SessionTTL()))
	}
	if deps.DBSessions != nil {
		base := NewSessionAuth(cfg.SessionName, deps.DBSessions, deps.Users, deps.Logger)
		reg.Register(NewDBSessionAuth(NewExpiringSessionAuth(base, cfg.SessionTTL())))
	}
	if deps.Tokens != nil {
		reg.Register(NewBearerAuth(deps.Tokens, deps.Users, deps.Logger))
	}

	if err := reg.Install(string(cfg.Type)); err != nil {
		log.Warn("auth type unavailable, installing none", map[string]interface{}{
			logger.FieldStrategy: string(cfg.Type),
			"available":          reg.Names(),
		})
	}
	log.Info("auth strategy installed", map[string]interface{}{
		logger.FieldStrategy: reg.Default().Name(),
	})
	return reg
}
