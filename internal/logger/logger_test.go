//go:build unit

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go-blog-app/internal/config"
)

func TestLogger(t *testing.T) {
	t.Run("console format", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LogConfig{Level: "info", Format: "console"}, &buf)

		log.Info("server listening")

		output := buf.String()
		if !strings.Contains(output, "server listening") {
			t.Errorf("expected output to contain the message, got %q", output)
		}
		if strings.Contains(output, "{") {
			t.Errorf("expected console format, got json-like output: %s", output)
		}
	})

	t.Run("json format carries the error", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LogConfig{Level: "error", Format: "json"}, &buf)

		log.Error(errors.New("connection refused"), "database unreachable")

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to unmarshal log output as json: %v\noutput: %s", err, buf.String())
		}
		if entry["level"] != "error" {
			t.Errorf("expected level 'error', got %v", entry["level"])
		}
		if entry["message"] != "database unreachable" {
			t.Errorf("expected the message field, got %v", entry["message"])
		}
		if entry["error"] != "connection refused" {
			t.Errorf("expected the error field, got %v", entry["error"])
		}
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LogConfig{Level: "warn", Format: "console"}, &buf)

		log.Info("seeding fixtures")
		log.Warn("slow query")

		output := buf.String()
		if strings.Contains(output, "seeding fixtures") {
			t.Error("info entry should have been filtered out")
		}
		if !strings.Contains(output, "slow query") {
			t.Error("warn entry should have appeared")
		}
	})

	t.Run("with fields", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

		log.With(map[string]interface{}{"slug": "bonjour-le-monde"}).Info("article rendered")

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("failed to unmarshal log output as json: %v\noutput: %s", err, buf.String())
		}
		if entry["slug"] != "bonjour-le-monde" {
			t.Errorf("expected the bound field to appear, got %v", entry["slug"])
		}
	})
}
