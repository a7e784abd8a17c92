package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func capturedLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}, &buf
}

func TestWithContextAttachesIdentifiers(t *testing.T) {
	log, buf := capturedLogger()

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithFlowID(ctx, "flow-1")
	ctx = WithSessionID(ctx, "sess-1")

	log.WithContext(ctx).Info("hello")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"flow_id":"flow-1"`, `"session_id":"sess-1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log line to contain %s, got %s", want, out)
		}
	}
}

func TestWithContextSkipsAbsentIdentifiers(t *testing.T) {
	log, buf := capturedLogger()

	log.WithContext(context.Background()).Info("hello")

	out := buf.String()
	for _, unwanted := range []string{"request_id", "flow_id", "session_id"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("expected no %s on a bare context, got %s", unwanted, out)
		}
	}
}

func TestLogError(t *testing.T) {
	log, buf := capturedLogger()

	ctx := WithFlowID(context.Background(), "flow-1")
	log.LogError(ctx, errors.New("it broke"), "operation failed")

	out := buf.String()
	if !strings.Contains(out, "it broke") {
		t.Errorf("expected error message in log line, got %s", out)
	}
	if !strings.Contains(out, "operation failed") {
		t.Errorf("expected message in log line, got %s", out)
	}
	if !strings.Contains(out, `"flow_id":"flow-1"`) {
		t.Errorf("expected flow id in log line, got %s", out)
	}
}
