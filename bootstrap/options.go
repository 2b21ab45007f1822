package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/sessionauth/config"
	"github.com/kbukum/sessionauth/logger"
)

// Config is satisfied by any struct embedding config.ServiceConfig.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

// Option tunes NewApp.
type Option func(*settings)

type settings struct {
	log   *logger.Logger
	drain time.Duration
}

// WithLogger replaces the logger built from the logging section.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds Shutdown. The default is 15s.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.drain = d }
}

// Hook is a lifecycle callback.
type Hook func(ctx context.Context) error

// OnStart hooks run once every component has started.
func (a *App[C]) OnStart(hooks ...Hook) { a.onStart = append(a.onStart, hooks...) }

// OnReady hooks run after the ready check passes.
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }

// OnStop hooks run on shutdown before components are stopped.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

func runHooks(ctx context.Context, stage string, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("%s hook #%d: %w", stage, i+1, err)
		}
	}
	return nil
}
