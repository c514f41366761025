package brickfall

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/physics"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// fires reports whether an overlay with the given interval acts this
// frame. Bricks are staggered by id so they do not all fire together.
func (g *Game) fires(id world.BrickID, interval int) bool {
	if interval <= 0 {
		return false
	}
	return (g.playFrames+int(id)*7)%interval == 0
}

// updateOverlays runs the active overlays while balls are in play.
func (g *Game) updateOverlays() {
	if len(g.balls) == 0 {
		return
	}
	g.playFrames++
	ov := g.ctx.Cfg.Overlays
	batteries := g.matrix.CountOverlay(world.OverlayZapBattery)

	for _, br := range g.matrix.Bricks() {
		switch br.Overlay {
		case world.OverlaySniper:
			if g.fires(br.ID, ov.SniperInterval) {
				g.fireSniper(br)
			}
		case world.OverlayLaser:
			if g.fires(br.ID, ov.LaserInterval) {
				g.fireLaser(br)
			}
		case world.OverlayZapper:
			if batteries > 0 && g.fires(br.ID, ov.ZapInterval) {
				g.fireZapper(br)
			}
		}
	}
}

func (g *Game) nearestMainBall(pos core.Vec2) *Ball {
	var best *Ball
	bestD := math.Inf(1)
	for _, b := range g.balls {
		if b.Dead || b.IsDying {
			continue
		}
		if d := b.Pos.DistSq(pos); d < bestD {
			best, bestD = b, d
		}
	}
	return best
}

func (g *Game) fireSniper(br *world.Brick) {
	from := br.Center(g.ctx.Board)
	target := g.nearestMainBall(from)
	if target == nil {
		return
	}
	ov := g.ctx.Cfg.Overlays
	vel := target.Pos.Sub(from).Normalize().Scale(ov.SniperSpeed)
	g.projectiles = append(g.projectiles, &Projectile{
		Body:   physics.Body{Pos: from, Vel: vel, Radius: g.ctx.Board.Radius(0.1)},
		Kind:   ProjectileSniper,
		Damage: float64(ov.SniperDamage),
		Life:   600,
	})
	g.queue(sound{Name: "sniper"})
}

func (g *Game) fireLaser(br *world.Brick) {
	rect := br.Rect(g.ctx.Board)
	center := rect.Center()
	walls := g.ctx.Board.Walls()
	g.addVFX(VFX{Kind: VFXLaser, Pos: core.V(walls.Min.X, center.Y), To: core.V(walls.Max.X, center.Y), MaxFrames: 8})
	half := g.ctx.Board.CellSize / 2
	for _, b := range g.balls {
		if b.Dead || b.IsDying {
			continue
		}
		if math.Abs(b.Pos.Y-center.Y) <= half {
			g.queue(damageTaken{Amount: float64(g.ctx.Cfg.Overlays.LaserDamage), Pos: b.Pos})
		}
	}
	g.queue(sound{Name: "laser"})
}

func (g *Game) fireZapper(br *world.Brick) {
	from := br.Center(g.ctx.Board)
	ov := g.ctx.Cfg.Overlays
	radius := g.ctx.cells(ov.ZapRadius)
	for _, b := range g.balls {
		if b.Dead || b.IsDying || b.Pos.Dist(from) > radius {
			continue
		}
		g.addVFX(VFX{Kind: VFXLightning, Pos: from, To: b.Pos, MaxFrames: 8})
		g.queue(damageTaken{Amount: float64(ov.ZapDamage), Pos: b.Pos})
	}
}
