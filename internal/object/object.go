// Package object defines the entities that live on the play field.
package object

// Field is the play area in logical units. The origin is the top-left corner.
type Field struct {
	Width  float64
	Height float64
}

// Center returns the midpoint of the field.
func (f Field) Center() (float64, float64) {
	return f.Width * 0.5, f.Height * 0.5
}

// Direction is one of the four movement inputs.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = [...]Direction{Up, Down, Left, Right}

// String returns the lower-case name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection maps a key name to a direction. Both DOM key names
// ("ArrowUp") and plain names ("up") are accepted.
func ParseDirection(name string) (Direction, bool) {
	switch name {
	case "ArrowUp", "up", "Up":
		return Up, true
	case "ArrowDown", "down", "Down":
		return Down, true
	case "ArrowLeft", "left", "Left":
		return Left, true
	case "ArrowRight", "right", "Right":
		return Right, true
	}
	return 0, false
}

// Keys is the set of currently held directions. The zero value is empty.
type Keys uint8

// Press returns the set with d added. Adding a held direction is a no-op.
func (k Keys) Press(d Direction) Keys {
	return k | 1<<d
}

// Release returns the set with d removed.
func (k Keys) Release(d Direction) Keys {
	return k &^ (1 << d)
}

// Has reports whether d is held.
func (k Keys) Has(d Direction) bool {
	return k&(1<<d) != 0
}

// Empty reports whether no direction is held.
func (k Keys) Empty() bool {
	return k == 0
}
