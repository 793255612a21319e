package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestZerologAdapterInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "order")
	logger.Info("order created", Int("order_id", 3), String("status", "Initiated"))

	entry := decodeLine(t, &buf)
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["component"] != "order" {
		t.Errorf("component = %v, want order", entry["component"])
	}
	if entry["message"] != "order created" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["order_id"] != float64(3) {
		t.Errorf("order_id = %v, want 3", entry["order_id"])
	}
	if entry["status"] != "Initiated" {
		t.Errorf("status = %v, want Initiated", entry["status"])
	}
}

func TestZerologAdapterError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "store")
	logger.Error("append failed", errors.New("disk full"))

	entry := decodeLine(t, &buf)
	if entry["level"] != "error" {
		t.Errorf("level = %v, want error", entry["level"])
	}
	if entry["error"] != "disk full" {
		t.Errorf("error = %v, want disk full", entry["error"])
	}
}

func TestErrFieldHelper(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")
	logger.Info("with error field", Err(errors.New("boom")))

	entry := decodeLine(t, &buf)
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
}

func TestPrintfCompatibility(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "server")
	logger.Printf("listening on %s", ":8080")

	entry := decodeLine(t, &buf)
	if entry["message"] != "listening on :8080" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewStdLoggerAdapter(stdlog.New(&buf, "", 0))
	logger.Info("plain message", String("key", "value"))

	out := buf.String()
	if !strings.Contains(out, "plain message") || !strings.Contains(out, "key") {
		t.Errorf("unexpected std logger output: %q", out)
	}
}
