package settings

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()

	if s.Engine.Safe || s.Engine.MaxLevels != 0 {
		t.Fatalf("unexpected engine defaults %+v", s.Engine)
	}

	if s.Level() != slog.LevelInfo {
		t.Fatalf("level %v", s.Level())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.toml")

	text := `
[engine]
max_levels = 200
max_result_length = 4096
safe = true
log_level = "debug"

[async]
workers = 3

[history]
file = "$EMBER_TEST_DIR/history"

[policy]
file = "policy.yaml"
`

	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("EMBER_TEST_DIR", "/tmp/ember")

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if s.Engine.MaxLevels != 200 || s.Engine.MaxResultLength != 4096 || !s.Engine.Safe {
		t.Fatalf("engine %+v", s.Engine)
	}

	if s.Async.Workers != 3 {
		t.Fatalf("workers %d", s.Async.Workers)
	}

	if s.History.File != "/tmp/ember/history" {
		t.Fatalf("history file %q", s.History.File)
	}

	if s.Policy.File != "policy.yaml" {
		t.Fatalf("policy file %q", s.Policy.File)
	}

	if s.Level() != slog.LevelDebug {
		t.Fatalf("level %v", s.Level())
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse("[engine\nmax_levels = 1"); err == nil {
		t.Fatal("expected an error")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
