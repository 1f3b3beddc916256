package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseValidConfig(t *testing.T) {
	input := `
# volkeys configuration
device = bigbox.local
silent = true

bind = Control+Mod1+plus:output.level+   # raise
bind = XF86AudioMute:output.mute!
`
	cfg, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Device != "bigbox.local" {
		t.Fatalf("unexpected device: %s", cfg.Device)
	}
	if !cfg.Silent {
		t.Fatal("expected silent = true")
	}
	if len(cfg.Binds) != 2 {
		t.Fatalf("expected 2 binds, got %d", len(cfg.Binds))
	}
	if cfg.Binds[1] != "XF86AudioMute:output.mute!" {
		t.Fatalf("unexpected bind: %s", cfg.Binds[1])
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	bad := []string{
		"device bigbox",       // missing '='
		"silent = maybe",      // not a boolean
		"device =",            // empty value
		"volume = 11",         // unknown key
	}
	for _, input := range bad {
		if _, err := Parse(input); err == nil {
			t.Fatalf("Parse(%q) unexpectedly succeeded", input)
		}
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Exists {
		t.Fatal("expected Exists = false")
	}
	if loaded.Path == "" {
		t.Fatal("expected resolved path")
	}
}

func TestLoadReadsXDGPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "volkeys", "config.conf")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("bind = 0:cycle_dev\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Exists {
		t.Fatal("expected Exists = true")
	}
	if len(loaded.Config.Binds) != 1 || loaded.Config.Binds[0] != "0:cycle_dev" {
		t.Fatalf("unexpected binds: %v", loaded.Config.Binds)
	}
}
