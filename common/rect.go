package common

import "math"

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersects reports a strict overlap; touching edges do not count.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// ContainsPoint is inclusive on the top-left edges and exclusive on the
// bottom-right ones.
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// RectPointDistance is the distance from p to the closest point of r, zero
// when p lies inside.
func RectPointDistance(r Rect, p Vec2) float64 {
	dx := 0.0
	if p.X < r.Left() {
		dx = r.Left() - p.X
	} else if p.X > r.Right() {
		dx = p.X - r.Right()
	}
	dy := 0.0
	if p.Y < r.Top() {
		dy = r.Top() - p.Y
	} else if p.Y > r.Bottom() {
		dy = p.Y - r.Bottom()
	}
	return math.Hypot(dx, dy)
}

// FacingRect builds a w×h rect whose near edge sits offset pixels in front of
// anchorX in the given facing direction, with its top at y.
func FacingRect(anchorX, y, offset, w, h float64, facing int) Rect {
	if facing >= 0 {
		return Rect{X: anchorX + offset, Y: y, Width: w, Height: h}
	}
	return Rect{X: anchorX - offset - w, Y: y, Width: w, Height: h}
}
