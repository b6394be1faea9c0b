// Package config centralizes all tunable game parameters.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tomz197/dodge/internal/object"
)

// ErrInvalidConfig is returned when a Game config cannot describe a playable session.
var ErrInvalidConfig = errors.New("invalid game config")

// Field dimensions used when nothing else is configured.
const (
	FieldWidth  = 1280
	FieldHeight = 720
)

// Timing
const (
	InitialAsteroids = 15
	SpawnIntervalMs  = 250.0
	TargetFPS        = 60
)

// Visual keys handed to renderers.
const (
	PlayerImage   = "player"
	AsteroidImage = "asteroid"
)

// Terminal rendering limits. Larger terminals are letterboxed.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Game holds the per-session tunables. Zero values are not meaningful;
// start from Default and override.
type Game struct {
	FieldWidth       float64   `toml:"field_width"`
	FieldHeight      float64   `toml:"field_height"`
	PlayerWidth      float64   `toml:"player_width"`
	PlayerHeight     float64   `toml:"player_height"`
	PlayerSpeed      float64   `toml:"player_speed"`
	AsteroidSizes    []float64 `toml:"asteroid_sizes"`
	AsteroidMaxSpeed float64   `toml:"asteroid_max_speed"`
	InitialAsteroids int       `toml:"initial_asteroids"`
	SpawnIntervalMs  float64   `toml:"spawn_interval_ms"`
	PlayerImage      string    `toml:"player_image"`
	AsteroidImage    string    `toml:"asteroid_image"`
	TargetFPS        int       `toml:"target_fps"`
}

// Default returns the stock configuration.
func Default() Game {
	return Game{
		FieldWidth:       FieldWidth,
		FieldHeight:      FieldHeight,
		PlayerWidth:      object.PlayerWidth,
		PlayerHeight:     object.PlayerHeight,
		PlayerSpeed:      object.PlayerSpeed,
		AsteroidSizes:    append([]float64(nil), object.AsteroidSizes...),
		AsteroidMaxSpeed: object.AsteroidMaxSpeed,
		InitialAsteroids: InitialAsteroids,
		SpawnIntervalMs:  SpawnIntervalMs,
		PlayerImage:      PlayerImage,
		AsteroidImage:    AsteroidImage,
		TargetFPS:        TargetFPS,
	}
}

// Load reads a TOML file on top of the defaults. A missing file is not an
// error; the defaults are returned as-is.
func Load(path string) (Game, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Game{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Game{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// MaxTargetFPS bounds TargetFPS so that FrameTime stays positive.
const MaxTargetFPS = 1000

// Validate rejects configurations that would break the simulation mid-tick.
// Every float must be finite.
func (g Game) Validate() error {
	if !positive(g.FieldWidth) || !positive(g.FieldHeight) {
		return fmt.Errorf("%w: field must be positive, got %gx%g", ErrInvalidConfig, g.FieldWidth, g.FieldHeight)
	}
	if !positive(g.PlayerWidth) || !positive(g.PlayerHeight) {
		return fmt.Errorf("%w: player size must be positive, got %gx%g", ErrInvalidConfig, g.PlayerWidth, g.PlayerHeight)
	}
	if !nonNegative(g.PlayerSpeed) {
		return fmt.Errorf("%w: player speed must not be negative, got %g", ErrInvalidConfig, g.PlayerSpeed)
	}
	if len(g.AsteroidSizes) == 0 {
		return fmt.Errorf("%w: at least one asteroid size is required", ErrInvalidConfig)
	}
	for _, s := range g.AsteroidSizes {
		if !positive(s) {
			return fmt.Errorf("%w: asteroid size must be positive, got %g", ErrInvalidConfig, s)
		}
	}
	if !nonNegative(g.AsteroidMaxSpeed) {
		return fmt.Errorf("%w: asteroid speed must not be negative, got %g", ErrInvalidConfig, g.AsteroidMaxSpeed)
	}
	if g.InitialAsteroids < 0 {
		return fmt.Errorf("%w: initial asteroids must not be negative, got %d", ErrInvalidConfig, g.InitialAsteroids)
	}
	if !positive(g.SpawnIntervalMs) {
		return fmt.Errorf("%w: spawn interval must be positive, got %g", ErrInvalidConfig, g.SpawnIntervalMs)
	}
	if g.TargetFPS <= 0 || g.TargetFPS > MaxTargetFPS {
		return fmt.Errorf("%w: target fps must be in 1..%d, got %d", ErrInvalidConfig, MaxTargetFPS, g.TargetFPS)
	}
	return nil
}

// positive reports whether v is finite and greater than zero. NaN fails.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// nonNegative reports whether v is finite and at least zero. NaN fails.
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// Field returns the configured play field.
func (g Game) Field() object.Field {
	return object.Field{Width: g.FieldWidth, Height: g.FieldHeight}
}

// AsteroidParams returns the asteroid generation settings.
func (g Game) AsteroidParams() object.AsteroidParams {
	return object.AsteroidParams{Sizes: g.AsteroidSizes, MaxSpeed: g.AsteroidMaxSpeed}
}

// FrameTime returns the wall-clock duration of one frame at TargetFPS.
func (g Game) FrameTime() time.Duration {
	return time.Second / time.Duration(g.TargetFPS)
}
