package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("missing file should yield zero config, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `scale = 0.5
grid = true
dpi = 600
radius = 0.25
elongation = [0.6, 0.1]
no_cache = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	if cfg.Scale != 0.5 {
		t.Errorf("Scale = %v, want 0.5", cfg.Scale)
	}
	if !cfg.Grid {
		t.Error("Grid = false, want true")
	}
	if cfg.DPI != 600 {
		t.Errorf("DPI = %d, want 600", cfg.DPI)
	}
	if cfg.Radius != 0.25 {
		t.Errorf("Radius = %v, want 0.25", cfg.Radius)
	}
	if cfg.Elongation != [2]float64{0.6, 0.1} {
		t.Errorf("Elongation = %v, want [0.6 0.1]", cfg.Elongation)
	}
	if !cfg.NoCache {
		t.Error("NoCache = false, want true")
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("scale = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("invalid TOML should return an error")
	}
}

func TestPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := Path()
	if err != nil {
		t.Fatalf("Path error: %v", err)
	}
	want := filepath.Join("/tmp/xdg", "drawtree", "config.toml")
	if path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
}
