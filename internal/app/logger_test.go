package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	"github.com/heartmarshall/polyglot-dictionary/pkg/ctxutil"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info", Format: "JSON"})
	logger.Info("entry updated", slog.String("entry_id", "e1"))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if m["msg"] != "entry updated" || m["entry_id"] != "e1" || m["app"] != appName {
		t.Errorf("unexpected record: %v", m)
	}
	if _, ok := m["source"]; ok {
		t.Error("json format must not include source")
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "debug", Format: "text"})
	logger.Debug("normalizing")

	out := buf.String()
	if !strings.Contains(out, "msg=normalizing") {
		t.Errorf("expected text record, got %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Errorf("text format must include source, got %q", out)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level    string
		enabled  slog.Level
		disabled slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"WARN", slog.LevelWarn, slog.LevelInfo},
		{"warning", slog.LevelWarn, slog.LevelInfo},
		{" error ", slog.LevelError, slog.LevelWarn},
		{"", slog.LevelInfo, slog.LevelDebug},
		{"verbose", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := newLogger(&buf, config.LogConfig{Level: tt.level, Format: "json"})

			if !logger.Handler().Enabled(t.Context(), tt.enabled) {
				t.Errorf("level %q: %v should be enabled", tt.level, tt.enabled)
			}
			if logger.Handler().Enabled(t.Context(), tt.disabled) {
				t.Errorf("level %q: %v should be disabled", tt.level, tt.disabled)
			}
		})
	}
}

func TestNewLogger_ContextAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info", Format: "json"})

	ctx := ctxutil.WithRequestID(context.Background(), "req-9")
	ctx = ctxutil.WithEditor(ctx, ctxutil.Editor{Subject: "alice", Role: "admin"})
	logger.InfoContext(ctx, "entry deleted", slog.String("request_id", "explicit"))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if m["editor"] != "alice" {
		t.Errorf("editor = %v, want alice", m["editor"])
	}
	if m["request_id"] != "explicit" {
		t.Errorf("request_id = %v, want the explicit value", m["request_id"])
	}
	if n := strings.Count(buf.String(), `"request_id"`); n != 1 {
		t.Errorf("request_id written %d times", n)
	}
}

func TestNewLogger_SetsDefault(t *testing.T) {
	logger := NewLogger(config.LogConfig{Level: "error", Format: "json"})
	if slog.Default().Handler() != logger.Handler() {
		t.Error("NewLogger must install the logger as default")
	}
}
