package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewToJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewTo(&buf, true, false)
	if err != nil {
		t.Fatalf("building logger: %v", err)
	}

	l.Debug("hidden")
	WithMatchFields(l, "stage-1", "en").Info("vendors ranked")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line without debug, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}

	want := map[string]string{"step": "vendors ranked", "level": "info", FieldAsset: "stage-1", FieldLocale: "en"}
	for key, value := range want {
		if entry[key] != value {
			t.Fatalf("field %s: expected %q, got %v", key, value, entry[key])
		}
	}
	if _, ok := entry["caller"]; !ok {
		t.Fatalf("expected caller in %v", entry)
	}
}

func TestNewToConsoleDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewTo(&buf, false, true)
	if err != nil {
		t.Fatalf("building logger: %v", err)
	}

	l.Debug("session ready")

	out := buf.String()
	if !strings.Contains(out, "debug") || !strings.Contains(out, "session ready") {
		t.Fatalf("expected a console debug line, got %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console encoding, got %q", out)
	}
}

func TestNew(t *testing.T) {
	l, err := New(false, false)
	if err != nil || l == nil {
		t.Fatalf("expected a logger, got %v, %v", l, err)
	}
}
