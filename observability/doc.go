// Package observability wires OpenTelemetry tracing and metrics.
//
// Exporters speak OTLP over HTTP. Without Setup the global no-op providers
// stay installed, so instrumented code works unchanged in tests.
//
//	shutdown, err := observability.Setup(ctx, cfg, observability.Service{Name: "authsvc"})
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanAuthenticate)
//	defer span.End()
//
//	metrics, err := observability.NewAuthMetrics(observability.Meter())
//	metrics.RecordDecision(ctx, "session_auth", observability.OutcomeAuthenticated, d)
package observability
