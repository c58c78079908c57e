package telemetry

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_WritesRedactedJSON(t *testing.T) {
	home := t.TempDir()
	logger, closer, err := NewLogger(home, "info", true)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info("credential resolved",
		"provider", "perplexity",
		"api_key", "pplx-abcdef1234567890abcd",
		"source", "provider_env",
	)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, "logs", "system.jsonl"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "pplx-abcdef") {
		t.Fatal("API key leaked into log output")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Fatal("expected redaction placeholder in log output")
	}
	if !strings.Contains(out, "provider_env") {
		t.Fatal("source label should survive redaction")
	}
}

func TestShouldRedactKey(t *testing.T) {
	for _, key := range []string{"api_key", "X-Subscription-Token", "Authorization", "password"} {
		if !shouldRedactKey(key) {
			t.Errorf("expected %q to be redacted", key)
		}
	}
	for _, key := range []string{"provider", "query", "source", ""} {
		if shouldRedactKey(key) {
			t.Errorf("expected %q to pass through", key)
		}
	}
}

func TestRedactStringValue_BearerHeader(t *testing.T) {
	got, ok := redactStringValue("Bearer pplx-abcdef1234567890abcd")
	if !ok || got != "[REDACTED]" {
		t.Fatalf("expected full redaction, got %q (%v)", got, ok)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
