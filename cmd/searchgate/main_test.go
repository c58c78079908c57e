package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nBRAVE_API_KEY=from-dotenv\n\nPRESET_VAR=dotenv-value\nBROKENLINE\n=novalue\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BRAVE_API_KEY", "")
	os.Unsetenv("BRAVE_API_KEY")
	t.Setenv("PRESET_VAR", "already-set")

	loadDotEnv(path)

	if got := os.Getenv("BRAVE_API_KEY"); got != "from-dotenv" {
		t.Errorf("BRAVE_API_KEY = %q", got)
	}
	// Existing environment always wins over .env.
	if got := os.Getenv("PRESET_VAR"); got != "already-set" {
		t.Errorf("PRESET_VAR = %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	// Must be a silent no-op.
	loadDotEnv(filepath.Join(t.TempDir(), "nonexistent"))
}

func TestRunSetKeyCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SEARCHGATE_HOME", home)

	if code := runSetKeyCommand([]string{"brave"}); code != 2 {
		t.Errorf("missing key arg exit = %d, want 2", code)
	}
	if code := runSetKeyCommand([]string{"altavista", "k"}); code != 2 {
		t.Errorf("unknown provider exit = %d, want 2", code)
	}
	if code := runSetKeyCommand([]string{"brave", "BSAtestkey"}); code != 0 {
		t.Errorf("set-key exit = %d, want 0", code)
	}

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if got := string(data); !strings.Contains(got, "brave: BSAtestkey") {
		t.Errorf("config.yaml = %q", got)
	}
}
