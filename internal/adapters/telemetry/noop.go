package telemetry

import (
	"context"

	"go.refold.dev/refold/internal/core/ports"
)

// Noop returns a tracer that records nothing. Used in tests and wherever a
// ports.Tracer is required but tracing is not wanted.
func Noop() ports.Tracer {
	return noopTracer{}
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End()                    {}
func (noopSpan) RecordError(error)       {}
func (noopSpan) SetAttribute(string, any) {}
