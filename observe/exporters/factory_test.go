package exporters

import (
	"context"
	"strings"
	"testing"
)

// TestNewTracingExporter_UnknownName tests rejection of unknown backends.
func TestNewTracingExporter_UnknownName(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "carrier-pigeon")
	if err == nil {
		t.Fatal("expected error for unknown exporter name")
	}
	if !strings.Contains(err.Error(), "unknown exporter") {
		t.Errorf("err = %v, want mention of unknown exporter", err)
	}
}

// TestNewTracingExporter_Stdout tests the stdout backend.
func TestNewTracingExporter_Stdout(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "stdout")
	if err != nil {
		t.Fatalf("NewTracingExporter: %v", err)
	}
	if exp == nil {
		t.Fatal("exporter = nil, want non-nil")
	}
}

// TestNewTracingExporter_NoneDiscards tests that none still yields a
// working exporter.
func TestNewTracingExporter_NoneDiscards(t *testing.T) {
	for _, name := range []string{"none", ""} {
		exp, err := NewTracingExporter(context.Background(), name)
		if err != nil {
			t.Fatalf("NewTracingExporter(%q): %v", name, err)
		}
		if exp == nil {
			t.Errorf("NewTracingExporter(%q) = nil, want discarding exporter", name)
		}
	}
}

// TestNewTracingExporter_OtlpEndpoint tests endpoint resolution for the
// OTLP backend.
func TestNewTracingExporter_OtlpEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	if _, err := NewTracingExporter(context.Background(), "otlp"); err == nil {
		t.Error("expected error with no OTLP endpoint configured")
	}

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://localhost:4317")
	exp, err := NewTracingExporter(context.Background(), "otlp")
	if err != nil {
		t.Fatalf("NewTracingExporter with endpoint: %v", err)
	}
	if exp == nil {
		t.Fatal("exporter = nil, want non-nil")
	}
}

// TestNewMetricsReader tests reader construction per backend.
func TestNewMetricsReader(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"stdout", false},
		{"prometheus", false},
		{"none", false},
		{"", false},
		{"otlp", true}, // no endpoint configured
		{"graphite", true},
	}
	for _, tt := range tests {
		reader, err := NewMetricsReader(context.Background(), tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewMetricsReader(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewMetricsReader(%q): %v", tt.name, err)
			continue
		}
		if reader == nil {
			t.Errorf("NewMetricsReader(%q) = nil, want non-nil reader", tt.name)
		}
	}
}
