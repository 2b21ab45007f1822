package component

import "context"

// HealthStatus is a component's health state.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's report for GET /health.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// String renders h as "name=status(message)".
func (h Health) String() string {
	s := h.Name + "=" + string(h.Status)
	if h.Message != "" {
		s += "(" + h.Message + ")"
	}
	return s
}

// Component is a piece of infrastructure with a lifecycle: the database,
// the redis client, the HTTP server.
type Component interface {
	// Name must be unique within a Registry.
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is the startup summary line of a component.
type Description struct {
	// Name is the display name; Name() is used when empty.
	Name    string
	Type    string
	Details string
	// Port is 0 when the component does not listen.
	Port int
}

// Describable components contribute a line to the startup summary.
type Describable interface {
	Describe() Description
}
