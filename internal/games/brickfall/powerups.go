package brickfall

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

const degree = math.Pi / 180

// activePowerBall returns the first main ball that can act.
func (g *Game) activePowerBall() *Ball {
	for _, b := range g.balls {
		if !b.Dead && !b.IsDying {
			return b
		}
	}
	return nil
}

// usePowerUp spends one shared use and runs the ball type's ability.
func (g *Game) usePowerUp() bool {
	b := g.activePowerBall()
	if b == nil || g.shared.PowerUpUses <= 0 {
		return false
	}
	g.shared.PowerUpUses--
	b.UsePowerUp(false)
	g.queue(sound{Name: "power_up"})
	g.ctx.Bus.Dispatch(events.PowerUpUsed{BallType: b.Type, Remaining: g.shared.PowerUpUses, Pos: b.Pos})

	switch b.Type {
	case world.BallClassic:
		g.spawnMinis(b, -15*degree, 15*degree)
	case world.BallExplosive:
		g.queue(explode{
			Pos:      b.Pos,
			Radius:   g.ctx.cells(b.ExplosionRadius),
			FromBall: true,
			Source:   events.SourceExplosion,
			BallType: b.Type,
		})
	case world.BallPiercing:
		for _, other := range g.balls {
			if !other.Dead {
				other.IsPiercing = true
				other.PiercingFrames = g.ctx.Cfg.Physics.PiercingFrames
			}
		}
	case world.BallSplit:
		g.spawnMinis(b, -20*degree, 0, 20*degree)
	case world.BallBrick:
		b.BonusNextHit = g.shared.HP / 4
		g.floatText(b.Pos, "charged")
	case world.BallBullet:
		g.queue(spawnProjectiles{
			Pos: b.Pos, Dir: b.Vel, Count: 3, Spread: 8 * degree,
			Kind: ProjectileBullet, Damage: g.ctx.Cfg.Upgrades.ProjectileDamage,
		})
	case world.BallHoming:
		g.queue(spawnProjectiles{
			Pos: b.Pos, Dir: b.Vel, Count: 3, Spread: 30 * degree,
			Kind: ProjectileHoming,
		})
	case world.BallGiant, world.BallMini:
	}
	return true
}

// spawnMinis launches mini-balls from b rotated by each angle.
func (g *Game) spawnMinis(b *Ball, angles ...float64) {
	speed := max(b.Vel.Len(), g.ctx.Cfg.Level.BallSpeed)
	dir := b.Vel.Normalize()
	if dir.LenSq() == 0 {
		dir = core.V(0, -1)
	}
	for _, a := range angles {
		g.minis = append(g.minis, NewMiniBall(g.ctx, b.Pos, dir.Rotate(a).Scale(speed)))
	}
}

// spawnMiniAt adds a mini-ball heading up from pos.
func (g *Game) spawnMiniAt(pos core.Vec2) {
	angle := -math.Pi/2 + g.ctx.RNG.FloatRange(-0.6, 0.6)
	g.minis = append(g.minis, NewMiniBall(g.ctx, pos, core.FromAngle(angle, g.ctx.Cfg.Level.BallSpeed)))
}

// spawnCagedBall releases a ghost copy of the current main ball.
func (g *Game) spawnCagedBall(pos core.Vec2) {
	if !g.shared.Alive() || g.sm.Phase() != PhasePlaying {
		return
	}
	src := g.activePowerBall()
	if src == nil {
		return
	}
	vel := src.Vel.Rotate(math.Pi / 2)
	if vel.Y > 0 {
		vel.Y = -vel.Y
	}
	nb := NewBall(g.ctx, src.Type, pos, vel)
	nb.HP, nb.MaxHP = g.shared.HP, g.shared.MaxHP
	nb.PowerUpUses = g.shared.PowerUpUses
	nb.IsGhost = true
	nb.GhostFrames = g.ctx.Cfg.Physics.GhostFrames
	g.balls = append(g.balls, nb)
	g.floatText(pos, "+ball")
}

// rollEquipment grants a random pool item to the current ball type.
func (g *Game) rollEquipment(pos core.Vec2) {
	item, ok := RollEquipment(g.ctx)
	if !ok {
		return
	}
	if acq, ok := g.ctx.Equipment.(interface {
		Add(world.BallType, EquipmentItem)
	}); ok {
		acq.Add(g.shared.Type, item)
	}
	g.floatText(pos, item.Kind.String())
	g.ctx.Bus.Dispatch(events.EquipmentGained{BallType: g.shared.Type, Kind: item.Kind.String()})
}

func (g *Game) currentBallType() world.BallType { return g.shared.Type }

// healShared restores shared hp up to its max.
func (g *Game) healShared(amount float64) {
	if amount <= 0 {
		return
	}
	g.shared.HP = math.Min(g.shared.MaxHP, g.shared.HP+amount)
	for _, b := range g.balls {
		b.HP = g.shared.HP
	}
}

func (g *Game) addBonusCoins(n int) {
	g.ctx.Stats.Coins += n
}

func (g *Game) addBonusDamage(v float64) {
	g.turnBonusDamage += v
}
