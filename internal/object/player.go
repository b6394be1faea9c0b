package object

import "github.com/tomz197/dodge/internal/physics"

// Default player dimensions and speed.
const (
	PlayerWidth  = 120.0
	PlayerHeight = 40.0
	PlayerSpeed  = 3.0
)

// Player is the controlled rectangle. Its position is the center of the box.
type Player struct {
	X, Y          float64 // Position (center)
	Width, Height float64 // Fixed box size
	Speed         float64 // Distance moved per tick while a direction is held
}

// NewPlayer creates a player in the middle of the field.
func NewPlayer(field Field, width, height, speed float64) *Player {
	x, y := field.Center()
	return &Player{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Speed:  speed,
	}
}

// Bounds returns the player's collision box.
func (p *Player) Bounds() physics.Rect {
	return physics.Rect{
		X: p.X - p.Width*0.5,
		Y: p.Y - p.Height*0.5,
		W: p.Width,
		H: p.Height,
	}
}

// Collides reports whether the player overlaps any of the asteroids.
func (p *Player) Collides(asteroids []*Asteroid) bool {
	bounds := p.Bounds()
	hit := false
	for _, a := range asteroids {
		if physics.Overlaps(bounds, a.Bounds()) {
			hit = true
		}
	}
	return hit
}

// Move applies at most one held direction.
// Only one axis moves per tick: Right wins over Left, Left over Up, Up over Down.
func (p *Player) Move(keys Keys) {
	switch {
	case keys.Has(Right):
		p.X += p.Speed
	case keys.Has(Left):
		p.X -= p.Speed
	case keys.Has(Up):
		p.Y -= p.Speed
	case keys.Has(Down):
		p.Y += p.Speed
	}
}

// Update checks for collisions against the current asteroids and then moves.
// The move happens even when a collision is reported.
func (p *Player) Update(keys Keys, asteroids []*Asteroid) (collided bool) {
	collided = p.Collides(asteroids)
	p.Move(keys)
	return collided
}
