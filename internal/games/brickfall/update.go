package brickfall

import (
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/physics"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// updateBalls advances every main ball one frame.
func (g *Game) updateBalls() {
	for _, b := range g.balls {
		if b.Dead {
			continue
		}
		b.tickTimers()

		opts := physics.MoveOptions{IgnoreBricks: b.IsGhost, PassThrough: b.IsPiercing}
		if b.IsPiercing && b.lastPierced != 0 {
			last := b.lastPierced
			opts.Skip = func(id world.BrickID) bool { return id == last }
		}
		c := g.resolver.Move(&b.Body, opts)
		switch c.Kind {
		case physics.ContactBrick:
			g.ballHitBrick(b, c)
		case physics.ContactWall:
			g.ballHitWall(b, c)
		}
		if g.mode == ModeInvasion {
			g.ballHitNPCs(&b.Body, b.Damage)
		}
	}
	g.balls = compact(g.balls, func(b *Ball) bool { return b.Dead })
}

func (g *Game) ballHitBrick(b *Ball, c physics.Contact) {
	br := g.matrix.Get(c.Brick)
	if br == nil {
		return
	}
	if b.IsPiercing {
		b.lastPierced = c.Brick
	}
	dmg := b.Damage + b.BonusNextHit
	b.BonusNextHit = 0
	g.queue(sound{Name: "brick"})
	g.queue(brickHit{Brick: c.Brick, Damage: dmg, Source: events.SourceBall, BallType: b.Type, Pos: c.Pos})
	if br.Overlay == world.OverlaySpike && !b.IsDying {
		g.queue(damageTaken{Amount: float64(g.ctx.Cfg.Overlays.SpikeDamage), Pos: c.Pos})
	}
}

func (g *Game) ballHitWall(b *Ball, c physics.Contact) {
	g.queue(sound{Name: "wall"})
	g.ctx.Bus.Dispatch(events.BallHitWall{BallType: b.Type, Pos: c.Pos})
	if b.IsDying {
		b.Dead = true
		g.queue(dyingBallDeath{BallType: b.Type, Pos: c.Pos})
		return
	}
	if b.IsPiercing {
		if g.combo > 0 && !g.giantTurn {
			g.setCombo(0)
		}
		return
	}
	dmg := max(g.ctx.Cfg.Physics.WallHitDamage-b.WallReduction, 1)
	g.queue(damageTaken{Amount: float64(dmg), Wall: true, Pos: c.Pos})
}

// mainBallIsDead reports whether no main ball is still in play.
func (g *Game) mainBallIsDead() bool {
	for _, b := range g.balls {
		if !b.Dead {
			return false
		}
	}
	return true
}

func (g *Game) updateMinis() {
	for _, m := range g.minis {
		if m.Dead {
			continue
		}
		if m.Detached && g.mainBallIsDead() {
			m.Dead = true
			continue
		}
		c := g.resolver.Move(&m.Body, physics.MoveOptions{})
		switch c.Kind {
		case physics.ContactBrick:
			g.queue(brickHit{Brick: c.Brick, Damage: m.Damage, Source: events.SourceMiniBall, BallType: g.shared.Type, Pos: c.Pos})
		case physics.ContactWall:
			m.Hits++
			g.ctx.Bus.Dispatch(events.BallHitWall{BallType: g.shared.Type, Mini: true, Pos: c.Pos})
			if m.Hits >= m.HitsMax {
				m.Dead = true
			}
		}
		if g.mode == ModeInvasion {
			g.ballHitNPCs(&m.Body, m.Damage)
		}
	}
	if g.mainBallIsDead() {
		// Orphaned minis expire with the last main ball.
		for _, m := range g.minis {
			m.Dead = true
		}
	}
	g.minis = compact(g.minis, func(m *MiniBall) bool { return m.Dead })
}

func (g *Game) updateProjectiles() {
	for _, p := range g.projectiles {
		if p.Dead {
			continue
		}
		p.Life--
		if p.Life <= 0 {
			p.Dead = true
			continue
		}
		switch p.Kind {
		case ProjectileSniper:
			g.updateSniperShot(p)
		case ProjectileHoming:
			g.updateHoming(p)
		case ProjectileBullet, ProjectileNPC:
			g.updateBullet(p)
		}
	}
	g.projectiles = compact(g.projectiles, func(p *Projectile) bool { return p.Dead })
}

func (g *Game) updateBullet(p *Projectile) {
	c := g.resolver.Move(&p.Body, physics.MoveOptions{NoBounce: true})
	switch c.Kind {
	case physics.ContactBrick:
		src := events.SourceProjectile
		if p.Kind == ProjectileNPC {
			src = events.SourceNPC
		}
		g.queue(brickHit{Brick: c.Brick, Damage: p.Damage, Source: src, BallType: g.shared.Type, Pos: c.Pos})
		p.Dead = true
	case physics.ContactWall:
		p.Dead = true
	}
}

func (g *Game) updateHoming(p *Projectile) {
	target := g.matrix.Get(p.Target)
	if target == nil {
		if t := g.nearestBrick(p.Pos, 0); t != nil {
			p.Target, target = t.ID, t
		}
	}
	if target != nil {
		p.steer(target.Center(g.ctx.Board))
	}
	c := g.resolver.Move(&p.Body, physics.MoveOptions{NoBounce: true})
	switch c.Kind {
	case physics.ContactBrick:
		g.queue(homingExplode{Pos: c.Pos, BallType: g.shared.Type})
		p.Dead = true
	case physics.ContactWall:
		p.Dead = true
	}
}

// updateSniperShot flies through bricks and damages the first main ball
// it touches.
func (g *Game) updateSniperShot(p *Projectile) {
	c := g.resolver.Move(&p.Body, physics.MoveOptions{IgnoreBricks: true, NoBounce: true})
	for _, b := range g.balls {
		if b.Dead || b.IsDying {
			continue
		}
		if physics.CircleCircle(p.Pos, p.Radius, b.Pos, b.Radius) {
			g.queue(damageTaken{Amount: p.Damage, Pos: p.Pos})
			p.Dead = true
			return
		}
	}
	if c.Kind == physics.ContactWall {
		p.Dead = true
	}
}

// nearestBrick returns the live brick nearest to pos other than exclude.
func (g *Game) nearestBrick(pos core.Vec2, exclude world.BrickID) *world.Brick {
	if t := g.nearestBricks(pos, exclude, 1); len(t) > 0 {
		return t[0]
	}
	return nil
}

// compact removes entries matching dead, keeping order.
func compact[T any](s []T, dead func(T) bool) []T {
	kept := s[:0]
	for _, v := range s {
		if !dead(v) {
			kept = append(kept, v)
		}
	}
	clear(s[len(kept):])
	return kept
}
