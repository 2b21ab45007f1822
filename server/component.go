package server

import (
	"context"

	"github.com/kbukum/sessionauth/component"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component runs a Server under the component registry.
type Component struct {
	srv *Server
}

func NewComponent(s *Server) *Component {
	return &Component{srv: s}
}

func (c *Component) Name() string { return "http-server" }

func (c *Component) Start(ctx context.Context) error { return c.srv.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.srv.Stop(ctx) }

func (c *Component) Health(context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.srv.running() {
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	}
	return h
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: c.srv.Addr(),
		Port:    c.srv.cfg.Port,
	}
}
