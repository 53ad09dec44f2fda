package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with pipeline-stage span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartStage starts a new span for a named pipeline stage.
	StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline."+stage,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// NopTracer returns a tracer that records nothing.
func NopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func (t *noopTracer) StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.noop.Start(ctx, "pipeline."+stage)
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}

var (
	_ Tracer = (*tracerImpl)(nil)
	_ Tracer = (*noopTracer)(nil)
)
