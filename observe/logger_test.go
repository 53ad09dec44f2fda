package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// TestLogger_JSONOutput tests entry shape and field stamping.
func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter("debug", &buf).WithComponent("pipeline")

	log.Info(context.Background(), "refresh complete", F("locations", 42))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry does not decode: %v", err)
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["msg"] != "refresh complete" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["component"] != "pipeline" {
		t.Errorf("component = %v, want pipeline", entry["component"])
	}
	if entry["locations"] != float64(42) {
		t.Errorf("locations = %v, want 42", entry["locations"])
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp missing")
	}
}

// TestLogger_LevelFilter tests threshold suppression.
func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter("warn", &buf)

	ctx := context.Background()
	log.Debug(ctx, "dropped")
	log.Info(ctx, "dropped too")
	log.Warn(ctx, "kept")
	log.Error(ctx, "kept too")

	lines := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1
	if buf.Len() == 0 {
		t.Fatal("no output at warn level")
	}
	if lines != 2 {
		t.Errorf("lines = %d, want 2", lines)
	}
}

// TestParseLogLevel tests string mapping with the info fallback.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestLogger_NestedComponents tests that component scoping accumulates
// without mutating the parent.
func TestLogger_NestedComponents(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLoggerWithWriter("debug", &buf)
	child := parent.WithComponent("cache")

	parent.Info(context.Background(), "from parent")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry does not decode: %v", err)
	}
	if _, ok := entry["component"]; ok {
		t.Error("parent entry carries the child's component")
	}

	buf.Reset()
	child.Error(context.Background(), "from child")
	if !strings.Contains(buf.String(), `"component":"cache"`) {
		t.Errorf("child entry missing component: %s", buf.String())
	}
}
