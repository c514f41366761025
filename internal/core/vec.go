package core

import "math"

// Vec2 is a 2D vector in board pixel space.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the vector magnitude.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// LenSq returns the squared magnitude.
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Dist returns the euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// DistSq returns the squared distance between two points.
func (v Vec2) DistSq(o Vec2) float64 {
	return v.Sub(o).LenSq()
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Rotate returns v rotated by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Angle returns the heading of v in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle builds a vector of the given length and heading.
func FromAngle(angle, length float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{X: cos * length, Y: sin * length}
}

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// RectF is an axis-aligned rectangle in board pixel space.
type RectF struct {
	Min, Max Vec2
}

// NewRectF creates a rectangle from its top-left corner and size.
func NewRectF(x, y, w, h float64) RectF {
	return RectF{Min: Vec2{X: x, Y: y}, Max: Vec2{X: x + w, Y: y + h}}
}

// Width returns the rectangle width.
func (r RectF) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the rectangle height.
func (r RectF) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the rectangle center.
func (r RectF) Center() Vec2 {
	return Vec2{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Inset shrinks the rectangle by d on every side.
func (r RectF) Inset(d float64) RectF {
	return RectF{
		Min: Vec2{X: r.Min.X + d, Y: r.Min.Y + d},
		Max: Vec2{X: r.Max.X - d, Y: r.Max.Y - d},
	}
}

// Expand grows the rectangle by d on every side.
func (r RectF) Expand(d float64) RectF {
	return r.Inset(-d)
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r RectF) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ClosestPoint returns the point of the rectangle nearest to p.
func (r RectF) ClosestPoint(p Vec2) Vec2 {
	return Vec2{
		X: ClampF(p.X, r.Min.X, r.Max.X),
		Y: ClampF(p.Y, r.Min.Y, r.Max.Y),
	}
}

// DistanceTo returns the distance from p to the nearest edge point.
// Points inside the rectangle have distance 0.
func (r RectF) DistanceTo(p Vec2) float64 {
	return p.Dist(r.ClosestPoint(p))
}
