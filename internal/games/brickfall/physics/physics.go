// Package physics resolves moving circular bodies against the brick grid
// and the board walls using fixed substeps.
package physics

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/core"
)

// DefaultSubstepFactor caps substep travel at 80% of the body radius.
const DefaultSubstepFactor = 0.8

// CollisionSide indicates which face of a rectangle was hit.
type CollisionSide int

const (
	CollisionNone CollisionSide = iota
	CollisionTop
	CollisionBottom
	CollisionLeft
	CollisionRight
)

func (s CollisionSide) String() string {
	switch s {
	case CollisionTop:
		return "top"
	case CollisionBottom:
		return "bottom"
	case CollisionLeft:
		return "left"
	case CollisionRight:
		return "right"
	default:
		return "none"
	}
}

// Horizontal reports whether the side is a left or right face.
func (s CollisionSide) Horizontal() bool {
	return s == CollisionLeft || s == CollisionRight
}

// Substeps returns how many substeps a body moving speed px/frame needs so
// that no substep travels more than factor*radius.
func Substeps(speed, radius, factor float64) int {
	if factor <= 0 {
		factor = DefaultSubstepFactor
	}
	if speed <= 0 || radius <= 0 || !core.IsFinite(speed) || !core.IsFinite(radius) {
		return 1
	}
	return max(1, int(math.Ceil(speed/(radius*factor))))
}

// CircleRect reports whether a circle overlaps a rectangle using the
// closest point on the rectangle to the circle center.
func CircleRect(center core.Vec2, radius float64, r core.RectF) bool {
	return r.ClosestPoint(center).DistSq(center) < radius*radius
}

// CircleCircle reports whether two circles overlap.
func CircleCircle(a core.Vec2, ra float64, b core.Vec2, rb float64) bool {
	rs := ra + rb
	return a.DistSq(b) < rs*rs
}

// Reflect mirrors v about the unit normal n.
func Reflect(v, n core.Vec2) core.Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Bounce reflects velocity off a rectangle face.
func Bounce(vel core.Vec2, side CollisionSide) core.Vec2 {
	switch side {
	case CollisionLeft, CollisionRight:
		vel.X = -vel.X
	case CollisionTop, CollisionBottom:
		vel.Y = -vel.Y
	}
	return vel
}

// WallHit reports which walls a body touched in WallCollide.
type WallHit struct {
	X, Y bool
}

// Any reports whether any wall was hit.
func (w WallHit) Any() bool { return w.X || w.Y }

// WallCollide tests each axis independently against the inset playfield.
// On violation the position is clamped to the boundary and the velocity
// component moving into the wall is negated. A corner hit reflects both.
func WallCollide(pos, vel core.Vec2, radius float64, walls core.RectF) (core.Vec2, core.Vec2, WallHit) {
	var hit WallHit
	minX, maxX := walls.Min.X+radius, walls.Max.X-radius
	minY, maxY := walls.Min.Y+radius, walls.Max.Y-radius

	if pos.X < minX {
		pos.X = minX
		if vel.X < 0 {
			vel.X = -vel.X
		}
		hit.X = true
	} else if pos.X > maxX {
		pos.X = maxX
		if vel.X > 0 {
			vel.X = -vel.X
		}
		hit.X = true
	}

	if pos.Y < minY {
		pos.Y = minY
		if vel.Y < 0 {
			vel.Y = -vel.Y
		}
		hit.Y = true
	} else if pos.Y > maxY {
		pos.Y = maxY
		if vel.Y > 0 {
			vel.Y = -vel.Y
		}
		hit.Y = true
	}
	return pos, vel, hit
}

// DetectCollisionSide intersects the segment from→to with r using the
// parametric slab method. It returns the face crossed first and the
// segment parameter t in [0, 1]. A segment starting inside r reports
// CollisionNone.
func DetectCollisionSide(from, to core.Vec2, r core.RectF) (CollisionSide, float64) {
	d := to.Sub(from)
	tEnter, tExit := math.Inf(-1), math.Inf(1)
	side := CollisionNone

	slab := func(p, dp, lo, hi float64, loSide, hiSide CollisionSide) bool {
		if dp == 0 {
			return p >= lo && p <= hi
		}
		t1, t2 := (lo-p)/dp, (hi-p)/dp
		s := loSide
		if t1 > t2 {
			t1, t2 = t2, t1
			s = hiSide
		}
		if t1 > tEnter {
			tEnter = t1
			side = s
		}
		tExit = math.Min(tExit, t2)
		return tEnter <= tExit
	}

	if !slab(from.X, d.X, r.Min.X, r.Max.X, CollisionLeft, CollisionRight) {
		return CollisionNone, 0
	}
	if !slab(from.Y, d.Y, r.Min.Y, r.Max.Y, CollisionTop, CollisionBottom) {
		return CollisionNone, 0
	}
	if tEnter < 0 || tEnter > 1 {
		return CollisionNone, 0
	}
	return side, tEnter
}

// SweptCircleRect runs DetectCollisionSide against r expanded by radius
// (the Minkowski sum, approximated by its bounding box).
func SweptCircleRect(from, to core.Vec2, radius float64, r core.RectF) (CollisionSide, float64) {
	return DetectCollisionSide(from, to, r.Expand(radius))
}

// PenetrationSide returns the face with the smallest overlap between a
// circle and a rectangle. It is used when a body is already embedded and
// no swept entry exists.
func PenetrationSide(center core.Vec2, radius float64, r core.RectF) CollisionSide {
	left := center.X + radius - r.Min.X
	right := r.Max.X - (center.X - radius)
	top := center.Y + radius - r.Min.Y
	bottom := r.Max.Y - (center.Y - radius)

	side, best := CollisionLeft, left
	if right < best {
		side, best = CollisionRight, right
	}
	if top < best {
		side, best = CollisionTop, top
	}
	if bottom < best {
		side = CollisionBottom
	}
	return side
}
