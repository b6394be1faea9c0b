// Package physics provides axis-aligned bounding box geometry.
package physics

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// Left returns the x coordinate of the left edge.
func (r Rect) Left() float64 { return r.X }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps reports whether two rectangles intersect.
// Rectangles that only touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return a.Left() < b.Right() &&
		a.Right() > b.Left() &&
		a.Top() < b.Bottom() &&
		a.Bottom() > b.Top()
}

// OutsideField reports whether r lies entirely beyond one of the edges of a
// width x height field whose top-left corner is the origin.
func OutsideField(r Rect, width, height float64) bool {
	return r.X < -r.W || r.X > width ||
		r.Y < -r.H || r.Y > height
}
