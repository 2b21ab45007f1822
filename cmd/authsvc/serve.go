package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/sessionauth/api"
	"github.com/kbukum/sessionauth/auth"
	"github.com/kbukum/sessionauth/auth/password"
	"github.com/kbukum/sessionauth/authz"
	"github.com/kbukum/sessionauth/bootstrap"
	"github.com/kbukum/sessionauth/database"
	"github.com/kbukum/sessionauth/logger"
	"github.com/kbukum/sessionauth/observability"
	"github.com/kbukum/sessionauth/redis"
	"github.com/kbukum/sessionauth/server"
	"github.com/kbukum/sessionauth/server/endpoint"
	"github.com/kbukum/sessionauth/session"
	"github.com/kbukum/sessionauth/users"
	"github.com/kbukum/sessionauth/util"
	"github.com/kbukum/sessionauth/version"
)

func serveCmd() *cobra.Command {
	var configFile, envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile, envFile)
			if err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to config.yml")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file")
	return cmd
}

// newApp registers the infrastructure components and wires the HTTP
// surface once they are up.
func newApp(cfg *Config) (*bootstrap.App[*Config], error) {
	if cfg.Version == "" {
		cfg.Version = version.Short()
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, err
	}
	log := app.Logger

	var dbComp *database.Component
	if cfg.Database.Enabled {
		dbComp = database.NewComponent(cfg.Database, log).WithAutoMigrate(&users.User{}, &session.UserSession{})
		if err := app.RegisterComponent(dbComp); err != nil {
			return nil, err
		}
	}
	var redisComp *redis.Component
	if cfg.Redis.Enabled {
		redisComp = redis.NewComponent(cfg.Redis, log)
		if err := app.RegisterComponent(redisComp); err != nil {
			return nil, err
		}
	}

	shutdownTelemetry := observability.ShutdownFunc(func(context.Context) error { return nil })
	app.OnStart(func(ctx context.Context) error {
		var err error
		shutdownTelemetry, err = observability.Setup(ctx, cfg.Observability, observability.Service{
			Name: cfg.Name, Version: cfg.Version, Environment: cfg.Environment,
		})
		return err
	})
	app.OnStop(func(ctx context.Context) error {
		return shutdownTelemetry(ctx)
	})

	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
		var infra infrastructure
		if dbComp != nil {
			infra.db = dbComp.DB()
		}
		if redisComp != nil {
			infra.redis = redisComp.Client()
		}
		srv, err := newServer(ctx, a.Cfg, infra, a.Components.HealthAll, log)
		if err != nil {
			return err
		}
		return a.RegisterComponent(server.NewComponent(srv))
	})

	log.Info("Configuration loaded", map[string]interface{}{
		"auth":     cfg.Auth.Describe(),
		"database": cfg.Database.Driver + " " + util.MaskSecret(cfg.Database.DSN, 8),
	})
	return app, nil
}

// infrastructure holds the started backends; nil fields are disabled.
type infrastructure struct {
	db    *database.DB
	redis *redis.Client
}

// newServer builds the stores, the strategy registry and the routes.
func newServer(ctx context.Context, cfg *Config, infra infrastructure, checker endpoint.HealthChecker, log *logger.Logger) (*server.Server, error) {
	var store users.Store = users.NewMemoryStore()
	if infra.db != nil {
		store = users.NewGormStore(infra.db)
	}
	hasher := password.NewHasher(*cfg.Auth.Password)
	svc := users.NewService(store, hasher, log)

	deps := auth.Deps{Users: store, Hasher: hasher, Logger: log}
	switch cfg.Auth.SessionStore {
	case auth.SessionStoreRedis:
		if infra.redis == nil {
			return nil, fmt.Errorf("redis session store requested but redis is not running")
		}
		deps.Sessions = session.NewRedisRegistry(infra.redis, cfg.Redis.KeyPrefix,
			session.WithTTL(cfg.Auth.StoreTTL()), session.WithLogger(log))
	default:
		deps.Sessions = session.NewMemoryRegistry()
	}
	if infra.db != nil {
		deps.DBSessions = session.NewDBRegistry(infra.db)
	}
	if cfg.Auth.JWT != nil {
		tokens, err := auth.NewTokenService(cfg.Auth.JWT)
		if err != nil {
			return nil, fmt.Errorf("token service: %w", err)
		}
		deps.Tokens = tokens
	}
	strategies := auth.Build(cfg.Auth, deps)

	metrics, err := observability.NewAuthMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(cfg.Name, checker)
	api.New(api.Config{
		Users:          svc,
		Strategies:     strategies,
		Checker:        authz.NewPathMatcher(cfg.Auth.ExcludedPaths),
		SessionName:    cfg.Auth.SessionName,
		LoginRateLimit: cfg.Server.LoginRateLimit,
		Metrics:        metrics,
		Logger:         log,
	}).Register(ctx, srv.Engine())
	srv.LogRoutes()
	return srv, nil
}
