package loop

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

func newTestGame(t *testing.T, cfg config.Game, opts ...Option) *Game {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 11)))}, opts...)
	g, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

// stillConfig spawns motionless asteroids so spawn counts are not disturbed
// by culling.
func stillConfig() config.Game {
	cfg := config.Default()
	cfg.AsteroidMaxSpeed = 0
	return cfg
}

// collideNow parks an asteroid on top of the player.
func collideNow(g *Game) {
	g.asteroids = append(g.asteroids, &object.Asteroid{X: g.player.X - 10, Y: g.player.Y - 10, Size: 60})
}

type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Get(string) (float64, bool, error) { return 0, false, errStoreDown }
func (failingStore) Set(string, float64) error         { return errStoreDown }

func TestNewGame(t *testing.T) {
	g := newTestGame(t, config.Default())

	if g.AsteroidCount() != 15 {
		t.Errorf("expected 15 initial asteroids, got %d", g.AsteroidCount())
	}
	if g.Over() || g.State() != GameStateRunning {
		t.Errorf("expected running state, got %v", g.State())
	}
	if g.Elapsed() != 0 {
		t.Errorf("expected zero elapsed time, got %v", g.Elapsed())
	}
	if _, ok := g.BestTime(); ok {
		t.Error("expected no best time with an empty store")
	}

	p := g.Player()
	if p.Image != config.PlayerImage {
		t.Errorf("expected player image %q, got %q", config.PlayerImage, p.Image)
	}
	if p.Bounds.X != 580 || p.Bounds.Y != 340 || p.Bounds.W != 120 || p.Bounds.H != 40 {
		t.Errorf("player not centered: %+v", p.Bounds)
	}
	for _, s := range g.Asteroids() {
		if s.Image != config.AsteroidImage {
			t.Fatalf("unexpected asteroid image %q", s.Image)
		}
	}
}

func TestNewGameRejectsInvalidField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Game)
	}{
		{"Zero width", func(c *config.Game) { c.FieldWidth = 0 }},
		{"Negative height", func(c *config.Game) { c.FieldHeight = -1 }},
		{"NaN width", func(c *config.Game) { c.FieldWidth = math.NaN() }},
		{"Inf height", func(c *config.Game) { c.FieldHeight = math.Inf(1) }},
		{"NaN interval", func(c *config.Game) { c.SpawnIntervalMs = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if _, err := New(cfg); !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewGameLoadsBestTime(t *testing.T) {
	s := store.NewMemory()
	if err := s.Set(store.BestTimeKey, 9000); err != nil {
		t.Fatal(err)
	}

	g := newTestGame(t, config.Default(), WithStore(s))
	if best, ok := g.BestTime(); !ok || best != 9000 {
		t.Errorf("BestTime = %v, %v; want 9000, true", best, ok)
	}
}

func TestSpawnTimer(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)

	g.Advance(100)
	g.Advance(100)
	if g.AsteroidCount() != 0 {
		t.Fatalf("expected no spawn before 250ms, got %d asteroids", g.AsteroidCount())
	}

	g.Advance(50)
	if g.AsteroidCount() != 1 {
		t.Fatalf("expected one spawn at 250ms, got %d asteroids", g.AsteroidCount())
	}
	if g.spawnTimer != 0 {
		t.Errorf("expected timer reset to 0, got %v", g.spawnTimer)
	}
}

func TestSpawnTimerLargeDelta(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)

	g.Advance(1000)
	if g.AsteroidCount() != 1 {
		t.Fatalf("expected exactly one spawn for a 1000ms jump, got %d", g.AsteroidCount())
	}
	if g.spawnTimer != 0 {
		t.Errorf("expected timer reset to 0, got %v", g.spawnTimer)
	}

	g.Advance(249)
	if g.AsteroidCount() != 1 {
		t.Fatalf("expected no spawn before the next interval, got %d", g.AsteroidCount())
	}
	g.Advance(1)
	if g.AsteroidCount() != 2 {
		t.Errorf("expected second spawn, got %d", g.AsteroidCount())
	}
}

func TestNoSpawnAfterGameOver(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)
	collideNow(g)

	g.Tick(16)
	if !g.Over() {
		t.Fatal("expected game over")
	}

	count := g.AsteroidCount()
	for i := 0; i < 100; i++ {
		g.Advance(250)
	}
	if g.AsteroidCount() != count {
		t.Errorf("expected no spawns after game over, count went %d -> %d", count, g.AsteroidCount())
	}
}

func TestGameOverLatch(t *testing.T) {
	g := newTestGame(t, config.Default())
	if g.AsteroidCount() != 15 || g.Over() {
		t.Fatalf("unexpected start: %d asteroids, over=%v", g.AsteroidCount(), g.Over())
	}

	a := g.asteroids[0]
	g.player.X = a.X + a.Size/2
	g.player.Y = a.Y + a.Size/2

	g.Tick(16)
	if !g.Over() {
		t.Fatal("expected game over after overlapping an asteroid")
	}

	for i := 0; i < 200; i++ {
		g.Tick(16)
		if !g.Over() {
			t.Fatalf("terminal state cleared on tick %d", i)
		}
	}
}

func TestPlayerFrozenAfterGameOver(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)
	collideNow(g)
	g.Press(object.Right)

	g.Tick(16)
	if !g.Over() {
		t.Fatal("expected game over")
	}
	// The colliding tick still moves the player.
	x := g.player.X
	if x != cfg.FieldWidth/2+cfg.PlayerSpeed {
		t.Errorf("expected move on colliding tick, X = %v", x)
	}

	g.Tick(16)
	g.Tick(16)
	if g.player.X != x {
		t.Errorf("player moved after game over: %v -> %v", x, g.player.X)
	}
}

func TestElapsedKeepsCountingAfterGameOver(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)
	collideNow(g)

	g.Tick(10)
	g.Tick(10)
	if g.Elapsed() != 20 {
		t.Errorf("expected elapsed 20, got %v", g.Elapsed())
	}
}

func TestBestTimeRecorded(t *testing.T) {
	s := store.NewMemory()
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg, WithStore(s))

	g.elapsed = 5214
	collideNow(g)
	g.Tick(16)

	v, ok, _ := s.Get(store.BestTimeKey)
	if !ok || v != 5230 {
		t.Fatalf("stored best = %v, %v; want 5230, true", v, ok)
	}
	if best, ok := g.BestTime(); !ok || best != 5230 {
		t.Errorf("BestTime = %v, %v; want 5230, true", best, ok)
	}

	// Later ticks must not overwrite the record with the still-growing time.
	g.Tick(1000)
	if v, _, _ := s.Get(store.BestTimeKey); v != 5230 {
		t.Errorf("record rewritten after game over: %v", v)
	}
}

func TestBestTimeKeptWhenNotBeaten(t *testing.T) {
	s := store.NewMemory()
	if err := s.Set(store.BestTimeKey, 9000); err != nil {
		t.Fatal(err)
	}
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg, WithStore(s))

	g.elapsed = 3984
	collideNow(g)
	g.Tick(16)

	if v, _, _ := s.Get(store.BestTimeKey); v != 9000 {
		t.Errorf("stored best = %v, want 9000", v)
	}
	if best, _ := g.BestTime(); best != 9000 {
		t.Errorf("BestTime = %v, want 9000", best)
	}
}

func TestBestTimeStoreFailure(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg, WithStore(failingStore{}))
	if _, ok := g.BestTime(); ok {
		t.Fatal("unreadable store should count as no record")
	}

	collideNow(g)
	g.Tick(16)
	if !g.Over() {
		t.Fatal("expected game over")
	}
	if best, ok := g.BestTime(); !ok || best != 16 {
		t.Errorf("BestTime = %v, %v; want 16, true", best, ok)
	}
}

func TestAdvanceMovesAsteroids(t *testing.T) {
	cfg := config.Default()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)

	a := &object.Asteroid{X: 100, Y: 100, VX: 2.5, VY: -1.5, Size: 60}
	g.asteroids = []*object.Asteroid{a}
	g.Advance(16)

	if a.X != 102.5 || a.Y != 98.5 {
		t.Errorf("expected (102.5, 98.5), got (%v, %v)", a.X, a.Y)
	}
}

func TestAdvanceRemovesAllExitedAsteroids(t *testing.T) {
	cfg := config.Default()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)
	w, h := cfg.FieldWidth, cfg.FieldHeight

	keep1 := &object.Asteroid{X: 100, Y: 100, VX: 1, Size: 60}
	keep2 := &object.Asteroid{X: -59, Y: 100, VX: 0, Size: 60}
	g.asteroids = []*object.Asteroid{
		{X: w, Y: 10, VX: 1, Size: 60},
		{X: -60, Y: 10, VX: -1, Size: 60},
		keep1,
		{X: 10, Y: h, VY: 0.5, Size: 80},
		{X: 10, Y: -90, VY: -0.5, Size: 90},
		keep2,
	}

	g.Advance(0)

	if g.AsteroidCount() != 2 {
		t.Fatalf("expected 2 asteroids left, got %d", g.AsteroidCount())
	}
	if g.asteroids[0] != keep1 || g.asteroids[1] != keep2 {
		t.Error("surviving asteroids lost their order")
	}
}

func TestAdvanceBadDelta(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"Negative", -100},
		{"NaN", math.NaN()},
		{"Inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := stillConfig()
			cfg.InitialAsteroids = 0
			g := newTestGame(t, cfg)

			g.Advance(tt.dt)
			if g.Elapsed() != 0 || g.spawnTimer != 0 {
				t.Errorf("bad delta changed timers: elapsed=%v spawn=%v", g.Elapsed(), g.spawnTimer)
			}
		})
	}
}

func TestFrameDelta(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)

	g.Frame(1000)
	if g.Elapsed() != 1000 {
		t.Fatalf("first frame should measure from zero, elapsed = %v", g.Elapsed())
	}
	g.Frame(1016)
	if g.Elapsed() != 1016 {
		t.Fatalf("expected elapsed 1016, got %v", g.Elapsed())
	}
	g.Frame(500)
	if g.Elapsed() != 1016 {
		t.Errorf("timestamp going backwards must be a no-op tick, elapsed = %v", g.Elapsed())
	}
}

func TestInputSet(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)
	startX, startY := g.player.X, g.player.Y

	g.Press(object.Down)
	g.Press(object.Left)
	g.Press(object.Left)
	g.Tick(16)
	if g.player.X != startX-cfg.PlayerSpeed || g.player.Y != startY {
		t.Fatalf("expected left move only, got (%v, %v)", g.player.X, g.player.Y)
	}

	g.Release(object.Left)
	g.Tick(16)
	if g.player.Y != startY+cfg.PlayerSpeed {
		t.Fatalf("expected down move after releasing left, Y = %v", g.player.Y)
	}

	g.ReleaseAll()
	if !g.Keys().Empty() {
		t.Error("expected no held keys")
	}
}

func TestResize(t *testing.T) {
	cfg := stillConfig()
	cfg.InitialAsteroids = 0
	g := newTestGame(t, cfg)

	g.Resize(0, 100)
	if g.Field() != cfg.Field() {
		t.Fatalf("invalid resize should be ignored, field = %+v", g.Field())
	}

	g.asteroids = []*object.Asteroid{{X: 500, Y: 100, Size: 60}}
	px := g.player.X
	g.Resize(400, 300)
	if g.Field().Width != 400 || g.Field().Height != 300 {
		t.Fatalf("field not resized: %+v", g.Field())
	}
	if g.player.X != px {
		t.Error("resize must not reposition the player")
	}

	g.Advance(0)
	if g.AsteroidCount() != 0 {
		t.Error("asteroid beyond the new field should be culled")
	}
}
