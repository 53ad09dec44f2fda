package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracer(t *testing.T) (Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracer(tp.Tracer("test")), recorder
}

// TestTracer_StageSpan tests span naming, kind, and attributes.
func TestTracer_StageSpan(t *testing.T) {
	tr, recorder := newTestTracer(t)

	_, span := tr.StartStage(context.Background(), "fetch",
		attribute.String("source", "global"))
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "pipeline.fetch" {
		t.Errorf("name = %q, want pipeline.fetch", s.Name())
	}
	if s.SpanKind() != trace.SpanKindInternal {
		t.Errorf("kind = %v, want internal", s.SpanKind())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}

	var source string
	for _, a := range s.Attributes() {
		if string(a.Key) == "source" {
			source = a.Value.AsString()
		}
	}
	if source != "global" {
		t.Errorf("source attribute = %q, want global", source)
	}
}

// TestTracer_ErrorStatus tests that EndSpan records the failure.
func TestTracer_ErrorStatus(t *testing.T) {
	tr, recorder := newTestTracer(t)

	_, span := tr.StartStage(context.Background(), "store")
	tr.EndSpan(span, errors.New("disk full"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if s.Status().Description != "disk full" {
		t.Errorf("description = %q, want the error text", s.Status().Description)
	}
	if len(s.Events()) == 0 {
		t.Error("no recorded error event on failed span")
	}
}

// TestTracer_NestedStages tests parent propagation through the stage
// context.
func TestTracer_NestedStages(t *testing.T) {
	tr, recorder := newTestTracer(t)

	ctx, outer := tr.StartStage(context.Background(), "refresh")
	_, inner := tr.StartStage(ctx, "process")
	tr.EndSpan(inner, nil)
	tr.EndSpan(outer, nil)

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}

	var child sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == "pipeline.process" {
			child = s
		}
	}
	if child == nil {
		t.Fatal("pipeline.process span not found")
	}
	if child.Parent().TraceID() != outer.SpanContext().TraceID() {
		t.Error("process span not in the refresh trace")
	}
	if !child.Parent().SpanID().IsValid() {
		t.Error("process span has no parent span ID")
	}
}

// TestNopTracer tests that the noop twin yields inert spans.
func TestNopTracer(t *testing.T) {
	tr := NopTracer()
	_, span := tr.StartStage(context.Background(), "refresh")
	tr.EndSpan(span, errors.New("ignored"))
	if span.SpanContext().IsValid() {
		t.Error("noop span carries a valid span context")
	}
}
