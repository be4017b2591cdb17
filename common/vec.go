package common

import "math"

// Vec2 is a 2D vector in screen space (y grows downward).
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle returns a vector of the given length pointing at deg degrees.
func FromAngle(deg, length float64) Vec2 {
	rad := Radians(deg)
	return Vec2{X: math.Cos(rad) * length, Y: math.Sin(rad) * length}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Normalize returns the unit vector of v. The zero vector stays zero and ok
// is false.
func (v Vec2) Normalize() (Vec2, bool) {
	l := v.Len()
	if l == 0 {
		return Vec2{}, false
	}
	return Vec2{X: v.X / l, Y: v.Y / l}, true
}

func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(v.X, o.X, t), Y: Lerp(v.Y, o.Y, t)}
}
