package physics

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// Body is a moving circle.
type Body struct {
	Pos    core.Vec2
	Vel    core.Vec2
	Radius float64
}

// Speed returns the body's speed in px/frame.
func (b *Body) Speed() float64 { return b.Vel.Len() }

// ContactKind classifies the first collision of a frame.
type ContactKind int

const (
	ContactNone ContactKind = iota
	ContactWall
	ContactBrick
)

// Contact is the single collision a body registers in one frame.
type Contact struct {
	Kind  ContactKind
	Brick world.BrickID
	Side  CollisionSide // Brick face that was hit
	Wall  WallHit
	Pos   core.Vec2 // Body position at the contact
}

// MoveOptions tunes one Move call.
type MoveOptions struct {
	IgnoreBricks bool                     // Ghost bodies pass through bricks
	PassThrough  bool                     // Register brick contacts without bouncing
	NoBounce     bool                     // Register wall or brick contacts without reflecting
	Skip         func(world.BrickID) bool // Bricks to ignore this frame
}

// Resolver moves bodies against one board and brick matrix.
type Resolver struct {
	Board  world.Board
	Matrix *world.Matrix
	Factor float64 // Substep factor, DefaultSubstepFactor when zero
}

// NewResolver creates a resolver.
func NewResolver(board world.Board, m *world.Matrix, factor float64) *Resolver {
	return &Resolver{Board: board, Matrix: m, Factor: factor}
}

// Move advances a small body by one frame of velocity in substeps. Bricks
// are tested in the grid cells covered by the body's bounding box at each
// new position. The first wall or brick contact ends the frame.
func (r *Resolver) Move(b *Body, opts MoveOptions) Contact {
	n := Substeps(b.Speed(), b.Radius, r.Factor)
	step := b.Vel.Scale(1 / float64(n))
	walls := r.Board.Walls()

	for range n {
		prev := b.Pos
		b.Pos = b.Pos.Add(step)

		if !opts.IgnoreBricks {
			if id, side := r.brickContact(prev, b.Pos, b.Radius, opts.Skip); id != 0 {
				c := Contact{Kind: ContactBrick, Brick: id, Side: side, Pos: b.Pos}
				if !opts.PassThrough && !opts.NoBounce {
					b.Pos = prev
					b.Vel = Bounce(b.Vel, side)
				}
				return c
			}
		}

		pos, vel, hit := WallCollide(b.Pos, b.Vel, b.Radius, walls)
		if hit.Any() {
			b.Pos = pos
			if !opts.NoBounce {
				b.Vel = vel
			}
			return Contact{Kind: ContactWall, Wall: hit, Pos: b.Pos}
		}
	}
	return Contact{}
}

// brickContact finds the nearest overlapping brick among the cells under
// the circle's bounding box and the face it entered through.
func (r *Resolver) brickContact(prev, pos core.Vec2, radius float64, skip func(world.BrickID) bool) (world.BrickID, CollisionSide) {
	best := world.BrickID(0)
	bestDist := math.Inf(1)
	var bestRect core.RectF

	r.scanCells(pos, radius, func(br *world.Brick) {
		if skip != nil && skip(br.ID) {
			return
		}
		rect := br.Rect(r.Board)
		if !CircleRect(pos, radius, rect) {
			return
		}
		if d := rect.ClosestPoint(pos).DistSq(pos); d < bestDist {
			best, bestDist, bestRect = br.ID, d, rect
		}
	})
	if best == 0 {
		return 0, CollisionNone
	}
	side, _ := SweptCircleRect(prev, pos, radius, bestRect)
	if side == CollisionNone {
		side = PenetrationSide(pos, radius, bestRect)
	}
	return best, side
}

// scanCells calls fn once per distinct brick in the cells covered by a
// circle's bounding box.
func (r *Resolver) scanCells(pos core.Vec2, radius float64, fn func(*world.Brick)) {
	x0, y0 := r.Board.PixelToGrid(pos.Sub(core.V(radius, radius)))
	x1, y1 := r.Board.PixelToGrid(pos.Add(core.V(radius, radius)))
	var seen [8]world.BrickID
	nseen := 0
	for gy := y0; gy <= y1; gy++ {
		for gx := x0; gx <= x1; gx++ {
			br := r.Matrix.At(gx, gy)
			if br == nil {
				continue
			}
			dup := false
			for _, id := range seen[:nseen] {
				if id == br.ID {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			if nseen < len(seen) {
				seen[nseen] = br.ID
				nseen++
			}
			fn(br)
		}
	}
}

// CellRange returns the grid cells covered by a circle's bounding box.
func (r *Resolver) CellRange(pos core.Vec2, radius float64) (x0, y0, x1, y1 int) {
	x0, y0 = r.Board.PixelToGrid(pos.Sub(core.V(radius, radius)))
	x1, y1 = r.Board.PixelToGrid(pos.Add(core.V(radius, radius)))
	return x0, y0, x1, y1
}

// MoveSwept advances a large body by one frame. Each substep scans the
// cell range the body spans and picks the brick whose expanded rectangle
// the path enters first, so the bounce uses the true impact face.
func (r *Resolver) MoveSwept(b *Body, opts MoveOptions) Contact {
	n := Substeps(b.Speed(), b.Radius, r.Factor)
	step := b.Vel.Scale(1 / float64(n))
	walls := r.Board.Walls()

	for range n {
		prev := b.Pos
		next := prev.Add(step)

		if !opts.IgnoreBricks {
			var (
				hitID   world.BrickID
				hitSide CollisionSide
				hitT    = math.Inf(1)
			)
			reach := b.Radius + step.Len()
			x0, y0, x1, y1 := r.CellRange(prev, reach)
			seen := make(map[world.BrickID]bool)
			for gy := y0; gy <= y1; gy++ {
				for gx := x0; gx <= x1; gx++ {
					br := r.Matrix.At(gx, gy)
					if br == nil || seen[br.ID] || (opts.Skip != nil && opts.Skip(br.ID)) {
						continue
					}
					seen[br.ID] = true
					rect := br.Rect(r.Board)
					side, t := SweptCircleRect(prev, next, b.Radius, rect)
					if side == CollisionNone && CircleRect(next, b.Radius, rect) {
						side, t = PenetrationSide(next, b.Radius, rect), 0
					}
					if side != CollisionNone && t < hitT {
						hitID, hitSide, hitT = br.ID, side, t
					}
				}
			}
			if hitID != 0 {
				b.Pos = prev.Add(step.Scale(hitT))
				if !opts.PassThrough && !opts.NoBounce {
					b.Vel = Bounce(b.Vel, hitSide)
				} else {
					b.Pos = next
				}
				return Contact{Kind: ContactBrick, Brick: hitID, Side: hitSide, Pos: b.Pos}
			}
		}

		b.Pos = next
		pos, vel, hit := WallCollide(b.Pos, b.Vel, b.Radius, walls)
		if hit.Any() {
			b.Pos = pos
			if !opts.NoBounce {
				b.Vel = vel
			}
			return Contact{Kind: ContactWall, Wall: hit, Pos: b.Pos}
		}
	}
	return Contact{}
}
