package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Game)
	}{
		{"Zero width", func(g *Game) { g.FieldWidth = 0 }},
		{"Negative height", func(g *Game) { g.FieldHeight = -10 }},
		{"Zero player", func(g *Game) { g.PlayerWidth = 0 }},
		{"Negative speed", func(g *Game) { g.PlayerSpeed = -1 }},
		{"No sizes", func(g *Game) { g.AsteroidSizes = nil }},
		{"Bad size", func(g *Game) { g.AsteroidSizes = []float64{60, 0} }},
		{"Negative asteroid speed", func(g *Game) { g.AsteroidMaxSpeed = -3 }},
		{"Negative initial", func(g *Game) { g.InitialAsteroids = -1 }},
		{"Zero interval", func(g *Game) { g.SpawnIntervalMs = 0 }},
		{"Zero fps", func(g *Game) { g.TargetFPS = 0 }},
		{"Huge fps", func(g *Game) { g.TargetFPS = 2_000_000_000 }},
		{"NaN width", func(g *Game) { g.FieldWidth = math.NaN() }},
		{"Inf height", func(g *Game) { g.FieldHeight = math.Inf(1) }},
		{"NaN player height", func(g *Game) { g.PlayerHeight = math.NaN() }},
		{"Inf player speed", func(g *Game) { g.PlayerSpeed = math.Inf(1) }},
		{"NaN size", func(g *Game) { g.AsteroidSizes = []float64{60, math.NaN()} }},
		{"NaN asteroid speed", func(g *Game) { g.AsteroidMaxSpeed = math.NaN() }},
		{"NaN interval", func(g *Game) { g.SpawnIntervalMs = math.NaN() }},
		{"Inf interval", func(g *Game) { g.SpawnIntervalMs = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsBounds(t *testing.T) {
	cfg := Default()
	cfg.PlayerSpeed = 0
	cfg.AsteroidMaxSpeed = 0
	cfg.TargetFPS = MaxTargetFPS
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if cfg.FrameTime() <= 0 {
		t.Errorf("FrameTime = %v, want positive", cfg.FrameTime())
	}
}

func TestLoadRejectsNonFiniteField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dodge.toml")
	if err := os.WriteFile(path, []byte("field_width = nan\nfield_height = inf\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.FieldWidth != FieldWidth || cfg.InitialAsteroids != InitialAsteroids {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dodge.toml")
	data := []byte(`
field_width = 640.0
field_height = 480.0
asteroid_sizes = [20.0, 30.0]
spawn_interval_ms = 500.0
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FieldWidth != 640 || cfg.FieldHeight != 480 {
		t.Errorf("field not overridden: %gx%g", cfg.FieldWidth, cfg.FieldHeight)
	}
	if len(cfg.AsteroidSizes) != 2 || cfg.AsteroidSizes[0] != 20 {
		t.Errorf("sizes not overridden: %v", cfg.AsteroidSizes)
	}
	if cfg.SpawnIntervalMs != 500 {
		t.Errorf("interval not overridden: %v", cfg.SpawnIntervalMs)
	}
	if cfg.PlayerWidth != 120 {
		t.Errorf("unset keys should keep defaults, player width = %v", cfg.PlayerWidth)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dodge.toml")
	if err := os.WriteFile(path, []byte("field_width = -1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dodge.toml")
	if err := os.WriteFile(path, []byte("field_width = = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
