package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/railbot/pkg/railbot/internalerr"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
engine:
  cycle_multiplier: 4
stations:
  threshold: 70
server:
  port: 8080
  allow_all_origins: true
clock:
  date_order: MDY
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Engine.CycleMultiplier != 4 {
		t.Errorf("cycle multiplier = %d, want 4", cfg.Engine.CycleMultiplier)
	}
	if cfg.Stations.Threshold != 70 {
		t.Errorf("threshold = %v, want 70", cfg.Stations.Threshold)
	}
	if cfg.Stations.MaxAlternatives != 3 {
		t.Errorf("max alternatives should keep default 3, got %d", cfg.Stations.MaxAlternatives)
	}
	if !cfg.Server.AllowAllOrigins || cfg.Server.Port != 8080 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Clock.Location != "Europe/London" {
		t.Errorf("location should keep default, got %q", cfg.Clock.Location)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	cases := map[string]string{
		"multiplier": "engine:\n  cycle_multiplier: 0\n",
		"port":       "server:\n  port: 70000\n",
		"order":      "clock:\n  date_order: YMD\n",
		"url":        "fares:\n  base_url: not a url\n",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		if !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestParseBadYAML(t *testing.T) {
	if _, err := Parse([]byte("engine: [")); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "railbot.yaml")
	if err := os.WriteFile(path, []byte("lexicon_path: lex.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LexiconPath != "lex.yaml" {
		t.Errorf("lexicon path = %q", cfg.LexiconPath)
	}
}
