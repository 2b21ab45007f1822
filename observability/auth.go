package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Span names.
const (
	SpanAuthenticate = "auth.authenticate"
	SpanLogin        = "auth.login"
)

// Span attribute keys.
const (
	AttrStrategy = "auth.strategy"
	AttrOutcome  = "auth.outcome"
	AttrPath     = "http.route"
	AttrUserID   = "user.id"
)

// Outcomes of the auth middleware.
const (
	OutcomeExempt        = "exempt"
	OutcomeAuthenticated = "authenticated"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeForbidden     = "forbidden"
)

// AuthMetrics counts authentication decisions and login attempts.
// All methods are no-ops on a nil receiver.
type AuthMetrics struct {
	decisions metric.Int64Counter
	latency   metric.Float64Histogram
	logins    metric.Int64Counter
}

func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	var (
		m   AuthMetrics
		err error
	)
	if m.decisions, err = meter.Int64Counter("auth.decisions",
		metric.WithDescription("Authentication decisions by strategy and outcome")); err != nil {
		return nil, fmt.Errorf("auth.decisions: %w", err)
	}
	if m.latency, err = meter.Float64Histogram("auth.duration",
		metric.WithDescription("Time spent resolving the request identity"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("auth.duration: %w", err)
	}
	if m.logins, err = meter.Int64Counter("auth.logins",
		metric.WithDescription("Login attempts by route and result")); err != nil {
		return nil, fmt.Errorf("auth.logins: %w", err)
	}
	return &m, nil
}

func (m *AuthMetrics) RecordDecision(ctx context.Context, strategy, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	s := attribute.String("strategy", strategy)
	m.decisions.Add(ctx, 1, metric.WithAttributes(s, attribute.String("outcome", outcome)))
	m.latency.Record(ctx, took.Seconds(), metric.WithAttributes(s))
}

func (m *AuthMetrics) RecordLogin(ctx context.Context, route string, ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route), attribute.String("result", result)))
}
