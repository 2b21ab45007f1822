package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/sessionauth/logger"
)

// DB is a gorm connection whose queries are logged through logger.
type DB struct {
	gorm      *gorm.DB
	log       *logger.Logger
	closeOnce sync.Once
	closeErr  error
}

// Dialector picks the gorm driver for cfg.Driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Open connects with the driver named by cfg, retrying up to
// cfg.MaxRetries times with a linear backoff until ctx is done.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	d, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	slow, _ := time.ParseDuration(cfg.SlowQueryThreshold)
	gormCfg := &gorm.Config{
		Logger:         newGormLogger(log, slow, parseLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	for attempt := 1; ; attempt++ {
		var g *gorm.DB
		if g, err = gorm.Open(d, gormCfg); err == nil {
			if err = configurePool(ctx, g, cfg); err == nil {
				log.Info("Database connected", logger.Fields("driver", cfg.Driver, "attempt", attempt))
				return &DB{gorm: g, log: log}, nil
			}
		}
		if attempt >= cfg.MaxRetries {
			return nil, fmt.Errorf("connect to %s after %d attempts: %w", cfg.Driver, attempt, err)
		}

		backoff := time.Duration(attempt) * time.Second
		log.Warn("Database connect failed, retrying", map[string]interface{}{
			"attempt": attempt,
			"backoff": backoff.String(),
			"error":   err.Error(),
		})
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, ctx.Err())
		case <-timer.C:
		}
	}
}

func configurePool(ctx context.Context, g *gorm.DB, cfg Config) error {
	sqlDB, err := g.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	}
	return sqlDB.PingContext(ctx)
}

// WithContext starts a gorm session bound to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.gorm.WithContext(ctx)
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates or alters the tables of models.
func (d *DB) AutoMigrate(models ...interface{}) error {
	if err := d.gorm.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	d.log.Debug("Auto-migration completed", logger.Fields("models", len(models)))
	return nil
}

// Close closes the pool. Later calls return the first result.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		sqlDB, err := d.gorm.DB()
		if err != nil {
			d.closeErr = err
			return
		}
		d.log.Info("Closing database connection")
		d.closeErr = sqlDB.Close()
	})
	return d.closeErr
}
