package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

func newTestResolver(lines ...string) *Resolver {
	board := world.NewBoard(config.DefaultConfig().Board)
	m := world.ParseMatrix(board.Cols, board.Rows, lines, 100)
	return NewResolver(board, m, DefaultSubstepFactor)
}

func TestSubstepsBoundStepDistance(t *testing.T) {
	rng := core.NewRNG(7)
	for range 2000 {
		speed := rng.FloatRange(0.01, 200)
		radius := rng.FloatRange(0.5, 30)
		n := Substeps(speed, radius, DefaultSubstepFactor)
		require.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, speed/float64(n), radius*DefaultSubstepFactor+1e-9,
			"speed=%v radius=%v n=%d", speed, radius, n)
	}
}

func TestSubstepsDegenerateInputs(t *testing.T) {
	assert.Equal(t, 1, Substeps(0, 5, 0.8))
	assert.Equal(t, 1, Substeps(10, 0, 0.8))
	assert.Equal(t, 1, Substeps(math.NaN(), 5, 0.8))
	assert.Equal(t, 3, Substeps(9, 4, 0.8)) // ceil(9/3.2)
}

func TestFastBallNeverTunnelsThroughOneCellBrick(t *testing.T) {
	rng := core.NewRNG(42)
	for range 300 {
		r := newTestResolver(
			".......",
			".......",
			".......",
			".......",
			".......",
			".......",
			".......",
			".....#.", // row 0, column 0
		)
		brick := r.Matrix.At(0, 0)
		require.NotNil(t, brick)
		rect := brick.Rect(r.Board)

		radius := r.Board.Radius(rng.FloatRange(0.18, 0.6))
		speed := rng.FloatRange(1, 3*r.Board.CellSize)
		b := &Body{
			Pos:    r.Board.GridToPixel(-4, 0),
			Vel:    core.V(speed, 0),
			Radius: radius,
		}

		hit := false
		for range 200 {
			c := r.Move(b, MoveOptions{})
			if c.Kind == ContactBrick {
				hit = true
				assert.Equal(t, brick.ID, c.Brick)
				assert.Equal(t, CollisionLeft, c.Side)
				break
			}
			require.LessOrEqual(t, b.Pos.X, rect.Max.X, "ball crossed the brick without a hit (speed=%v r=%v)", speed, radius)
		}
		assert.True(t, hit, "speed=%v radius=%v", speed, radius)
	}
}

func TestBrickBounceReflectsVelocity(t *testing.T) {
	r := newTestResolver()
	r.Matrix.Place(world.NewBrick(world.BrickNormal, 0, -2, 10))
	b := &Body{Pos: r.Board.GridToPixel(0, 0), Vel: core.V(0, -9), Radius: 7}

	var c Contact
	for range 20 {
		if c = r.Move(b, MoveOptions{}); c.Kind != ContactNone {
			break
		}
	}
	require.Equal(t, ContactBrick, c.Kind)
	assert.Equal(t, CollisionBottom, c.Side)
	assert.Equal(t, 9.0, b.Vel.Y)
}

func TestGhostIgnoresBricks(t *testing.T) {
	r := newTestResolver()
	r.Matrix.Place(world.NewBrick(world.BrickNormal, 0, -1, 10))
	b := &Body{Pos: r.Board.GridToPixel(0, 0), Vel: core.V(0, -9), Radius: 7}
	for range 5 {
		c := r.Move(b, MoveOptions{IgnoreBricks: true})
		assert.NotEqual(t, ContactBrick, c.Kind)
	}
}

func TestWallReflectionProperty(t *testing.T) {
	walls := core.NewRectF(2, 2, 260, 356)
	rng := core.NewRNG(99)
	for range 5000 {
		radius := rng.FloatRange(1, 15)
		pos := core.V(rng.FloatRange(-50, 320), rng.FloatRange(-50, 420))
		vel := core.V(rng.FloatRange(-20, 20), rng.FloatRange(-20, 20))

		np, nv, hit := WallCollide(pos, vel, radius, walls)

		assert.GreaterOrEqual(t, np.X, walls.Min.X+radius-1e-9)
		assert.LessOrEqual(t, np.X, walls.Max.X-radius+1e-9)
		assert.GreaterOrEqual(t, np.Y, walls.Min.Y+radius-1e-9)
		assert.LessOrEqual(t, np.Y, walls.Max.Y-radius+1e-9)

		intoLeft := pos.X < walls.Min.X+radius && vel.X < 0
		intoRight := pos.X > walls.Max.X-radius && vel.X > 0
		if intoLeft || intoRight {
			assert.True(t, hit.X)
			assert.Equal(t, -vel.X, nv.X)
		}
		if !hit.X {
			assert.Equal(t, vel.X, nv.X)
		}
		intoTop := pos.Y < walls.Min.Y+radius && vel.Y < 0
		intoBottom := pos.Y > walls.Max.Y-radius && vel.Y > 0
		if intoTop || intoBottom {
			assert.True(t, hit.Y)
			assert.Equal(t, -vel.Y, nv.Y)
		}
		if !hit.Y {
			assert.Equal(t, vel.Y, nv.Y)
		}
	}
}

func TestCornerHitReflectsBothAxes(t *testing.T) {
	walls := core.NewRectF(0, 0, 100, 100)
	pos, vel, hit := WallCollide(core.V(-1, -1), core.V(-3, -4), 2, walls)
	assert.True(t, hit.X)
	assert.True(t, hit.Y)
	assert.Equal(t, core.V(2, 2), pos)
	assert.Equal(t, core.V(3, 4), vel)
}

func TestDetectCollisionSide(t *testing.T) {
	rect := core.NewRectF(10, 10, 10, 10)
	tests := []struct {
		name     string
		from, to core.Vec2
		want     CollisionSide
		wantT    float64
	}{
		{"from left", core.V(0, 15), core.V(20, 15), CollisionLeft, 0.5},
		{"from right", core.V(30, 15), core.V(10, 15), CollisionRight, 0.5},
		{"from above", core.V(15, 0), core.V(15, 20), CollisionTop, 0.5},
		{"from below", core.V(15, 30), core.V(15, 15), CollisionBottom, 2.0 / 3.0},
		{"diagonal top face", core.V(12, 0), core.V(18, 20), CollisionTop, 0.5},
		{"miss", core.V(0, 0), core.V(5, 30), CollisionNone, 0},
		{"too short", core.V(0, 15), core.V(5, 15), CollisionNone, 0},
		{"starts inside", core.V(15, 15), core.V(40, 15), CollisionNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, tt2 := DetectCollisionSide(tt.from, tt.to, rect)
			assert.Equal(t, tt.want, side)
			assert.InDelta(t, tt.wantT, tt2, 1e-9)
		})
	}
}

func TestMoveSweptPicksTrueFace(t *testing.T) {
	r := newTestResolver()
	r.Matrix.Place(world.NewBrick(world.BrickNormal, 0, 0, 10))
	rect := r.Matrix.At(0, 0).Rect(r.Board)
	// Approach the left face at a shallow downward angle.
	b := &Body{Pos: core.V(rect.Min.X-30, rect.Center().Y-4), Vel: core.V(6, 0.5), Radius: 10}

	var c Contact
	for range 20 {
		if c = r.MoveSwept(b, MoveOptions{}); c.Kind != ContactNone {
			break
		}
	}
	require.Equal(t, ContactBrick, c.Kind)
	assert.Equal(t, CollisionLeft, c.Side)
	assert.Less(t, b.Vel.X, 0.0)
	assert.Greater(t, b.Vel.Y, 0.0)
}

func TestCircleHelpers(t *testing.T) {
	rect := core.NewRectF(0, 0, 10, 10)
	assert.True(t, CircleRect(core.V(12, 5), 3, rect))
	assert.False(t, CircleRect(core.V(14, 5), 3, rect))
	assert.False(t, CircleRect(core.V(13, 13), 4, rect)) // corner distance ~4.24
	assert.True(t, CircleCircle(core.V(0, 0), 2, core.V(3, 0), 2))
	assert.False(t, CircleCircle(core.V(0, 0), 1, core.V(3, 0), 1))
	assert.Equal(t, core.V(1, 1), Reflect(core.V(1, -1), core.V(0, 1)))
	assert.Equal(t, CollisionTop, PenetrationSide(core.V(5, 1), 2, rect))
}
