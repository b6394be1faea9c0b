package object

import (
	"math/rand/v2"

	"github.com/tomz197/dodge/internal/physics"
)

// AsteroidSizes are the side lengths an asteroid can be created with.
var AsteroidSizes = []float64{60, 70, 80, 90, 100}

// AsteroidMaxSpeed bounds each velocity component to [-max, max).
const AsteroidMaxSpeed = 3.0

// AsteroidParams controls how new asteroids are generated.
type AsteroidParams struct {
	Sizes    []float64 // Candidate side lengths, picked uniformly
	MaxSpeed float64   // Per-axis speed bound in units per tick
}

// DefaultAsteroidParams returns the stock size set and speed bound.
func DefaultAsteroidParams() AsteroidParams {
	return AsteroidParams{
		Sizes:    AsteroidSizes,
		MaxSpeed: AsteroidMaxSpeed,
	}
}

// Asteroid is a square obstacle drifting in a straight line.
// Size and velocity never change after creation.
type Asteroid struct {
	X, Y   float64 // Position (top-left corner)
	VX, VY float64 // Velocity in units per tick
	Size   float64 // Side length
}

// NewAsteroid creates an asteroid on a random edge of the field.
// Half of the asteroids start on the top or bottom edge, the rest on the
// left or right edge.
func NewAsteroid(field Field, params AsteroidParams, rng *rand.Rand) *Asteroid {
	sizes := params.Sizes
	if len(sizes) == 0 {
		sizes = AsteroidSizes
	}
	a := &Asteroid{
		Size: sizes[rng.IntN(len(sizes))],
	}

	if rng.Float64() < 0.5 {
		a.X = rng.Float64() * field.Width
		a.Y = pickEdge(rng, field.Height)
	} else {
		a.X = pickEdge(rng, field.Width)
		a.Y = rng.Float64() * field.Height
	}

	a.VX = rng.Float64()*2*params.MaxSpeed - params.MaxSpeed
	a.VY = rng.Float64()*2*params.MaxSpeed - params.MaxSpeed
	return a
}

// pickEdge returns 0 or far with equal probability.
func pickEdge(rng *rand.Rand, far float64) float64 {
	if rng.Float64() < 0.5 {
		return 0
	}
	return far
}

// Update moves the asteroid by one tick of velocity.
func (a *Asteroid) Update() {
	a.X += a.VX
	a.Y += a.VY
}

// Bounds returns the asteroid's collision box.
func (a *Asteroid) Bounds() physics.Rect {
	return physics.Rect{X: a.X, Y: a.Y, W: a.Size, H: a.Size}
}

// OffField reports whether the asteroid has fully left the field.
func (a *Asteroid) OffField(field Field) bool {
	return physics.OutsideField(a.Bounds(), field.Width, field.Height)
}
