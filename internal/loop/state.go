// Package loop provides the asteroid-dodging simulation and its tick logic.
package loop

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/physics"
	"github.com/tomz197/dodge/internal/store"
)

// GameState is the phase of a session.
type GameState int

const (
	GameStateRunning  GameState = iota // Player is alive
	GameStateGameOver                  // Player hit an asteroid; terminal
)

func (s GameState) String() string {
	switch s {
	case GameStateRunning:
		return "running"
	case GameStateGameOver:
		return "game over"
	default:
		return fmt.Sprintf("GameState(%d)", int(s))
	}
}

// Sprite is the read-only view of an entity handed to renderers.
type Sprite struct {
	Bounds physics.Rect
	Image  string
}

// Game is one play session. It is not safe for concurrent use; the frame
// driver that owns it must serialize every call.
type Game struct {
	cfg       config.Game
	field     object.Field
	params    object.AsteroidParams
	player    *object.Player
	asteroids []*object.Asteroid
	keys      object.Keys

	spawnTimer float64 // ms since last spawn
	elapsed    float64 // ms since session start
	lastFrame  float64 // timestamp of the previous Frame call
	state      GameState
	recorded   bool // best time already evaluated for this session

	best    float64
	hasBest bool

	store  store.Store
	rng    *rand.Rand
	logger *log.Logger
}

// Option customizes a Game.
type Option func(*Game)

// WithStore sets the persistence backend for the best time.
func WithStore(s store.Store) Option {
	return func(g *Game) {
		g.store = s
	}
}

// WithRand sets the random source used for spawning.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// New validates cfg and starts a session with the initial asteroid population.
func New(cfg config.Game, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	g := &Game{
		cfg:    cfg,
		field:  cfg.Field(),
		params: cfg.AsteroidParams(),
		state:  GameStateRunning,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.store == nil {
		g.store = store.NewMemory()
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}

	g.best, g.hasBest = g.readBest()
	g.player = object.NewPlayer(g.field, cfg.PlayerWidth, cfg.PlayerHeight, cfg.PlayerSpeed)
	g.asteroids = make([]*object.Asteroid, 0, cfg.InitialAsteroids)
	for i := 0; i < cfg.InitialAsteroids; i++ {
		g.spawnAsteroid()
	}
	return g, nil
}

// State returns the current phase.
func (g *Game) State() GameState {
	return g.state
}

// Over reports whether the session has reached its terminal state.
func (g *Game) Over() bool {
	return g.state == GameStateGameOver
}

// Elapsed returns the accumulated session time in milliseconds.
func (g *Game) Elapsed() float64 {
	return g.elapsed
}

// BestTime returns the best time in milliseconds and whether one exists.
func (g *Game) BestTime() (float64, bool) {
	return g.best, g.hasBest
}

// Field returns the current play field.
func (g *Game) Field() object.Field {
	return g.field
}

// Keys returns the held direction set.
func (g *Game) Keys() object.Keys {
	return g.keys
}

// Player returns the player's box and image key.
func (g *Game) Player() Sprite {
	return Sprite{Bounds: g.player.Bounds(), Image: g.cfg.PlayerImage}
}

// AsteroidCount returns the number of live asteroids.
func (g *Game) AsteroidCount() int {
	return len(g.asteroids)
}

// AppendAsteroids appends a sprite for every live asteroid to buf.
// Passing a reused buffer avoids a per-frame allocation.
func (g *Game) AppendAsteroids(buf []Sprite) []Sprite {
	for _, a := range g.asteroids {
		buf = append(buf, Sprite{Bounds: a.Bounds(), Image: g.cfg.AsteroidImage})
	}
	return buf
}

// Asteroids returns a sprite for every live asteroid.
func (g *Game) Asteroids() []Sprite {
	return g.AppendAsteroids(make([]Sprite, 0, len(g.asteroids)))
}

// readBest loads the stored best time. Read failures count as no record.
func (g *Game) readBest() (float64, bool) {
	v, ok, err := g.store.Get(store.BestTimeKey)
	if err != nil {
		g.logger.Warn("failed to read best time", "err", err)
		return 0, false
	}
	return v, ok
}
