package loop

import (
	"math"

	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

// Press marks a direction as held.
func (g *Game) Press(d object.Direction) {
	g.keys = g.keys.Press(d)
}

// Release marks a direction as no longer held.
func (g *Game) Release(d object.Direction) {
	g.keys = g.keys.Release(d)
}

// ReleaseAll clears every held direction.
func (g *Game) ReleaseAll() {
	g.keys = 0
}

// Frame advances the game for a driver that reports absolute timestamps in
// milliseconds. The first call measures from timestamp zero.
func (g *Game) Frame(timestamp float64) {
	dt := timestamp - g.lastFrame
	g.lastFrame = timestamp
	g.Tick(dt)
}

// Tick runs one frame: input resolution against the current asteroids, then
// the time step. dt is in milliseconds.
func (g *Game) Tick(dt float64) {
	g.Update()
	g.Advance(dt)
}

// Update applies the held directions to the player and checks for a hit.
// Once the game is over the player is frozen and no longer tested.
func (g *Game) Update() {
	if g.state == GameStateGameOver {
		return
	}
	if g.player.Update(g.keys, g.asteroids) {
		g.gameOver()
	}
}

// Advance moves time forward by dt milliseconds: asteroids drift and leave
// the field, and a new asteroid spawns every SpawnIntervalMs while the game
// is running. Negative or non-finite deltas are treated as zero.
func (g *Game) Advance(dt float64) {
	dt = sanitizeDelta(dt)
	g.elapsed += dt

	g.updateAsteroids()

	if g.state == GameStateRunning {
		g.spawnTimer += dt
		if g.spawnTimer >= g.cfg.SpawnIntervalMs {
			g.spawnTimer = 0
			g.spawnAsteroid()
		}
	}

	if g.state == GameStateGameOver && !g.recorded {
		g.recordBest()
	}
}

// Resize changes the field used for spawning and culling. Entities already on
// the field keep their positions. Non-positive or infinite sizes are ignored.
func (g *Game) Resize(width, height float64) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		g.logger.Warn("ignoring invalid field size", "width", width, "height", height)
		return
	}
	g.field = object.Field{Width: width, Height: height}
}

// updateAsteroids moves every asteroid and drops the ones that left the field.
func (g *Game) updateAsteroids() {
	kept := g.asteroids[:0] // reuse backing array
	for _, a := range g.asteroids {
		a.Update()
		if !a.OffField(g.field) {
			kept = append(kept, a)
		}
	}
	clear(g.asteroids[len(kept):])
	g.asteroids = kept
}

func (g *Game) spawnAsteroid() {
	g.asteroids = append(g.asteroids, object.NewAsteroid(g.field, g.params, g.rng))
}

// gameOver latches the terminal state.
func (g *Game) gameOver() {
	if g.state == GameStateGameOver {
		return
	}
	g.state = GameStateGameOver
	g.logger.Info("game over", "time", FormatTime(g.elapsed), "asteroids", len(g.asteroids))
}

// recordBest stores the session time if it beats the stored record. The store
// is re-read so that concurrent sessions sharing it do not clobber a better time.
func (g *Game) recordBest() {
	g.recorded = true

	best, ok := g.best, g.hasBest
	if v, found, err := g.store.Get(store.BestTimeKey); err == nil {
		best, ok = v, found
	} else {
		g.logger.Warn("failed to read best time", "err", err)
	}

	if ok && g.elapsed <= best {
		g.best, g.hasBest = best, true
		return
	}

	g.best, g.hasBest = g.elapsed, true
	if err := g.store.Set(store.BestTimeKey, g.elapsed); err != nil {
		g.logger.Error("failed to save best time", "err", err)
		return
	}
	g.logger.Info("new best time", "time", FormatTime(g.elapsed))
}

func sanitizeDelta(dt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	return dt
}
