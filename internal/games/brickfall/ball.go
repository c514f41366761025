package brickfall

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/physics"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// Ball is a main ball. Combat stats and enchantment bonuses are baked in
// at construction; hp and power-up uses are tracked per instance but the
// turn is governed by SharedBallStats.
type Ball struct {
	physics.Body
	Type world.BallType

	Damage          float64
	HP, MaxHP       float64
	PowerUpUses     int
	PowerUpMaxUses  int
	ChainDamage     float64
	ExplosionRadius float64 // Cells
	WallReduction   int

	IsPiercing     bool
	PiercingFrames int
	IsDying        bool
	IsGhost        bool
	GhostFrames    int
	Dead           bool

	// BonusNextHit is added to the next brick hit (brick ball power-up).
	BonusNextHit float64

	lastPierced world.BrickID
}

// NewBall creates a ball of type t at pos moving along vel.
func NewBall(ctx *RunContext, t world.BallType, pos, vel core.Vec2) *Ball {
	stats := ctx.ballStats(t)
	ench := ctx.enchantment(t)
	return &Ball{
		Body: physics.Body{
			Pos:    pos,
			Vel:    vel,
			Radius: ctx.Board.Radius(stats.RadiusMultiplier),
		},
		Type:            t,
		Damage:          stats.Damage + ench.BonusDamage,
		HP:              float64(stats.HP + ench.BonusHP),
		MaxHP:           float64(stats.HP + ench.BonusHP),
		PowerUpUses:     stats.PowerUpUses + ench.BonusPowerUpUses,
		PowerUpMaxUses:  stats.PowerUpUses + ench.BonusPowerUpUses,
		ChainDamage:     ench.BonusChainDamage,
		ExplosionRadius: ctx.Cfg.Upgrades.PowerExplosionRadius + ench.BonusExplosionRadius,
		WallReduction:   ench.WallDamageReduction,
	}
}

// State names the ball's lifecycle state.
func (b *Ball) State() string {
	switch {
	case b.Dead:
		return "dead"
	case b.IsDying:
		return "dying"
	case b.Vel.LenSq() == 0:
		return "idle"
	default:
		return "moving"
	}
}

// UsePowerUp consumes one use unless skip is set (previews). It returns
// false when no uses are left.
func (b *Ball) UsePowerUp(skip bool) bool {
	if b.PowerUpUses <= 0 {
		return false
	}
	if !skip {
		b.PowerUpUses--
	}
	return true
}

// tickTimers advances per-frame flags.
func (b *Ball) tickTimers() {
	if b.GhostFrames > 0 {
		b.GhostFrames--
		if b.GhostFrames == 0 {
			b.IsGhost = false
		}
	}
	if b.PiercingFrames > 0 {
		b.PiercingFrames--
		if b.PiercingFrames == 0 {
			b.IsPiercing = false
			b.lastPierced = 0
		}
	}
}

// MiniBall is a power-up spawned ball with no power-ups of its own.
type MiniBall struct {
	physics.Body
	Damage   float64
	Dead     bool
	Detached bool // Main balls are dying; expires once they are gone
	HitsMax  int  // Wall bounces before it expires
	Hits     int
}

// NewMiniBall creates a mini-ball.
func NewMiniBall(ctx *RunContext, pos, vel core.Vec2) *MiniBall {
	stats := ctx.ballStats(world.BallMini)
	return &MiniBall{
		Body: physics.Body{
			Pos:    pos,
			Vel:    vel,
			Radius: ctx.Board.Radius(stats.RadiusMultiplier),
		},
		Damage:  stats.Damage,
		HitsMax: 6,
	}
}

// ProjectileKind distinguishes projectile behaviors.
type ProjectileKind int

const (
	ProjectileBullet ProjectileKind = iota // Straight, damages the brick it hits
	ProjectileHoming                       // Steers to a target brick, explodes on impact
	ProjectileSniper                       // Fired by sniper overlays at balls
	ProjectileNPC                          // Fired by shooting NPCs at bricks
)

// Projectile is a small independent body.
type Projectile struct {
	physics.Body
	Kind   ProjectileKind
	Damage float64
	Target world.BrickID // Homing target
	Dead   bool
	Life   int // Frames left
}

// homingTurnRate limits how far a homing projectile can rotate per frame.
const homingTurnRate = 0.12

// steer rotates the velocity toward target, keeping speed.
func (p *Projectile) steer(target core.Vec2) {
	want := target.Sub(p.Pos)
	if want.LenSq() == 0 {
		return
	}
	cur := p.Vel.Angle()
	diff := want.Angle() - cur
	for diff > math.Pi {
		diff -= 2 * math.Pi
	}
	for diff < -math.Pi {
		diff += 2 * math.Pi
	}
	diff = core.ClampF(diff, -homingTurnRate, homingTurnRate)
	p.Vel = core.FromAngle(cur+diff, p.Vel.Len())
}
