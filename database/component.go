package database

import (
	"context"
	"fmt"

	"github.com/kbukum/sessionauth/component"
	"github.com/kbukum/sessionauth/logger"
)

// Component opens the database on Start and migrates the registered
// models when cfg.AutoMigrate is set.
type Component struct {
	cfg    Config
	log    *logger.Logger
	models []interface{}
	db     *DB
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("database")}
}

// WithAutoMigrate adds models to migrate on Start.
func (c *Component) WithAutoMigrate(models ...interface{}) *Component {
	c.models = append(c.models, models...)
	return c
}

// DB is nil until Start succeeds.
func (c *Component) DB() *DB { return c.db }

func (c *Component) Name() string { return "database" }

func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	if c.cfg.AutoMigrate && len(c.models) > 0 {
		if err := db.AutoMigrate(c.models...); err != nil {
			_ = db.Close()
			return fmt.Errorf("database start: %w", err)
		}
	}
	c.db = db
	return nil
}

func (c *Component) Stop(context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusUnhealthy}
	switch {
	case c.db == nil:
		h.Message = "not started"
	case c.db.Ping(ctx) != nil:
		h.Message = "ping failed"
	default:
		h.Status = component.StatusHealthy
	}
	return h
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("%s pool=%d/%d", c.cfg.Driver, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.AutoMigrate {
		details += fmt.Sprintf(" migrate=%d", len(c.models))
	}
	return component.Description{Name: "Database", Type: "database", Details: details}
}
