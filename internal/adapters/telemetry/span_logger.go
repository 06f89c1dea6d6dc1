package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/bam/internal/core/ports"
)

// SpanLogger is an sdktrace.SpanProcessor that reports every finished span through
// the logger, one line per span.
type SpanLogger struct {
	logger ports.Logger
}

// NewSpanLogger returns a new SpanLogger.
func NewSpanLogger(logger ports.Logger) *SpanLogger {
	return &SpanLogger{logger: logger}
}

// OnStart is called when a span starts.
func (p *SpanLogger) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration and attributes.
func (p *SpanLogger) OnEnd(s sdktrace.ReadOnlySpan) {
	msg := fmt.Sprintf("trace %s %s", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Microsecond))
	for _, kv := range s.Attributes() {
		msg += fmt.Sprintf(" %s=%s", kv.Key, kv.Value.Emit())
	}
	if s.Status().Code == codes.Error {
		msg += " error=" + s.Status().Description
	}
	p.logger.Info(msg)
}

// Shutdown does nothing.
func (p *SpanLogger) Shutdown(context.Context) error { return nil }

// ForceFlush does nothing.
func (p *SpanLogger) ForceFlush(context.Context) error { return nil }

// Enable installs a global tracer provider that logs spans through logger. The
// returned function shuts the provider down.
func Enable(logger ports.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewSpanLogger(logger)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
