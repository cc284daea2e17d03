package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
run:
  agents: 16
  workers: 2
  seed: 42
  duration: 30s
store:
  backend: sqlite
  sqlite_path: /tmp/test.db
telemetry:
  enabled: true
  listen: ":9000"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Run.Agents != 16 || cfg.Run.Workers != 2 || cfg.Run.Seed != 42 {
		t.Fatalf("overrides not applied: %+v", cfg.Run)
	}
	if cfg.Run.Duration != 30*time.Second {
		t.Fatalf("duration = %v, want 30s", cfg.Run.Duration)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.SQLitePath != "/tmp/test.db" {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Listen != ":9000" {
		t.Fatalf("telemetry = %+v", cfg.Telemetry)
	}
}

func TestParseFillsUnsetFields(t *testing.T) {
	cfg, err := Parse([]byte("run:\n  agents: 8\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	def := Default()
	if cfg.Run.Agents != 8 {
		t.Fatalf("agents = %d, want override 8", cfg.Run.Agents)
	}
	if cfg.Run.Console != def.Run.Console {
		t.Fatalf("console = %q, want default %q", cfg.Run.Console, def.Run.Console)
	}
	if cfg.Run.TickRate != def.Run.TickRate {
		t.Fatalf("tick rate = %f, want default %f", cfg.Run.TickRate, def.Run.TickRate)
	}
	if cfg.Run.Personality != def.Run.Personality {
		t.Fatalf("personality = %+v, want defaults", cfg.Run.Personality)
	}
	if cfg.Store.Backend != "memory" {
		t.Fatalf("backend = %q, want memory", cfg.Store.Backend)
	}
}

func TestParsePartialPersonalityOverride(t *testing.T) {
	cfg, err := Parse([]byte("run:\n  personality:\n    patience:\n      min: 2\n      max: 4\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Run.Personality.Patience.Min != 2 || cfg.Run.Personality.Patience.Max != 4 {
		t.Fatalf("patience range = %+v", cfg.Run.Personality.Patience)
	}
	def := Default()
	if cfg.Run.Personality.Horizon != def.Run.Personality.Horizon {
		t.Fatalf("horizon range = %+v, want default %+v", cfg.Run.Personality.Horizon, def.Run.Personality.Horizon)
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"bad backend":     "store:\n  backend: dynamo\n",
		"bad rewind":      "run:\n  rewind:\n    short: 500\n    long: 100\n",
		"bad personality": "run:\n  personality:\n    patience:\n      min: 8\n      max: 2\n",
		"not yaml":        "run: [unclosed\n",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestValidateRejectsBadCounts(t *testing.T) {
	cfg := Default()
	cfg.Run.Agents = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero agents")
	}

	cfg = Default()
	cfg.Run.Workers = -2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative workers")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("run:\n  agents: 4\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.Agents != 4 {
		t.Fatalf("agents = %d, want 4", cfg.Run.Agents)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
