package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewAttachesBaseFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Service: "synced-sports", Env: "dev", Output: &buf}).Named("assignment")
	logger.Info("assignment created", "assignment_id", "asg-1", "error", errors.New("boom"))

	entry := decodeLine(t, &buf)
	if entry["service"] != "synced-sports" || entry["env"] != "dev" {
		t.Fatalf("missing base fields: %v", entry)
	}
	if entry["logger"] != "assignment" {
		t.Fatalf("missing logger name: %v", entry)
	}
	if entry["assignment_id"] != "asg-1" || entry["error"] != "boom" {
		t.Fatalf("unexpected fields: %v", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level: %s", buf.String())
	}
}

func TestContextTraceFields(t *testing.T) {
	t.Parallel()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(t.Context(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	var buf bytes.Buffer
	New(Options{Level: LevelDebug, Output: &buf}).InfoContext(ctx, "schedule generated")

	entry := decodeLine(t, &buf)
	if entry["trace_id"] != traceID.String() || entry["span_id"] != spanID.String() {
		t.Fatalf("missing trace fields: %v", entry)
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("With on nil logger must return a usable logger")
	}
}
