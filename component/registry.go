package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/sessionauth/logger"
)

// StopTimeout bounds each component's Stop call.
const StopTimeout = 10 * time.Second

type entry struct {
	c       Component
	started bool
}

// Registry starts components in registration order and stops them in
// reverse. Components registered after StartAll are picked up by the next
// StartAll call.
type Registry struct {
	mu      sync.RWMutex
	entries []*entry
	log     *logger.Logger
}

// NewRegistry creates a registry logging through log (nil uses the global
// logger).
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{log: log.WithComponent("components")}
}

// Register adds c. Names must be unique; register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.c.Name() == c.Name() {
			return fmt.Errorf("component %s already registered", c.Name())
		}
	}
	r.entries = append(r.entries, &entry{c: c})
	r.log.Debug("Component registered", logger.Fields("name", c.Name()))
	return nil
}

// StartAll starts every component not yet started. On failure the
// components started so far are stopped before the error is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.entries {
		if e.started {
			continue
		}
		if err := e.c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.ErrorFields(e.c.Name(), err))
			_ = r.stopStarted(ctx)
			return fmt.Errorf("start %s: %w", e.c.Name(), err)
		}
		e.started = true
		n++
	}
	if n > 0 {
		r.log.Info("Components started", logger.Fields("count", n))
	}
	return nil
}

// StopAll stops every started component in reverse order and joins the
// errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopStarted(ctx)
}

func (r *Registry) stopStarted(ctx context.Context) error {
	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if !e.started {
			continue
		}
		stopCtx, cancel := context.WithTimeout(ctx, StopTimeout)
		err := e.c.Stop(stopCtx)
		cancel()
		e.started = false
		if err != nil {
			r.log.Error("Component stop failed", logger.ErrorFields(e.c.Name(), err))
			errs = append(errs, fmt.Errorf("stop %s: %w", e.c.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// HealthAll reports every component in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.c.Health(ctx))
	}
	return out
}

// Unhealthy returns the reports whose status is not healthy.
func (r *Registry) Unhealthy(ctx context.Context) []Health {
	var out []Health
	for _, h := range r.HealthAll(ctx) {
		if h.Status != StatusHealthy {
			out = append(out, h)
		}
	}
	return out
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Component, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.c
	}
	return out
}
