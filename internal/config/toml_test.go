package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Practice.Theme != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[practice]
theme = "dracula"
word-size = 6
target-wpm = 55
keep-comments = true
instant-death = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Theme == nil || *cfg.Practice.Theme != "dracula" {
		t.Fatalf("unexpected theme: %v", cfg.Practice.Theme)
	}
	if cfg.Practice.WordSize == nil || *cfg.Practice.WordSize != 6 {
		t.Fatalf("unexpected word size: %v", cfg.Practice.WordSize)
	}
	if cfg.Practice.TargetWPM == nil || *cfg.Practice.TargetWPM != 55 {
		t.Fatalf("unexpected target wpm: %v", cfg.Practice.TargetWPM)
	}
	if cfg.Practice.KeepComments == nil || !*cfg.Practice.KeepComments {
		t.Fatalf("unexpected keep-comments: %v", cfg.Practice.KeepComments)
	}
	if cfg.Practice.InstantDeath == nil || !*cfg.Practice.InstantDeath {
		t.Fatalf("unexpected instant-death: %v", cfg.Practice.InstantDeath)
	}
	if cfg.Practice.ForcePerfect != nil {
		t.Fatalf("unset key must stay nil, got %v", cfg.Practice.ForcePerfect)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
