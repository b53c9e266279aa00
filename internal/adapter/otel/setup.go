// Package otel provides OpenTelemetry instrumentation for NexBoard:
// HTTP middleware, metric instruments, and span helpers. Instruments
// are created against the global providers, so wiring an SDK exporter
// later requires no changes here.
package otel

import (
	"context"
	"log/slog"
)

// ShutdownFunc flushes and shuts down the telemetry provider.
type ShutdownFunc func(ctx context.Context) error

// InitTracer prepares tracing for the service. Without an exporter
// configured the global no-op provider stays in place; spans and
// metrics become real once an SDK provider is installed by the
// deployment environment.
func InitTracer(serviceName string) ShutdownFunc {
	slog.Info("otel instrumentation ready", "service", serviceName)
	return func(_ context.Context) error {
		return nil
	}
}
