package brickfall

import (
	"math"
	"slices"

	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/physics"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// buildSpawnQueue spends a wave's hp pool on NPCs. Types are drawn
// uniformly among those still affordable until nothing fits.
func (g *Game) buildSpawnQueue(pool int) []NPCType {
	var queue []NPCType
	for {
		var affordable []NPCType
		for _, t := range NPCTypes() {
			st, ok := g.ctx.Cfg.Invasion.NPCs[t.String()]
			if ok && st.Cost > 0 && st.Cost <= pool {
				affordable = append(affordable, t)
			}
		}
		if len(affordable) == 0 {
			return queue
		}
		t := affordable[g.ctx.RNG.Intn(len(affordable))]
		queue = append(queue, t)
		pool -= g.ctx.Cfg.Invasion.NPCs[t.String()].Cost
	}
}

// startWave builds the spawn queue for the current wave.
func (g *Game) startWave() {
	g.spawnQueue = g.buildSpawnQueue(g.hpPool)
	g.spawnTimer = 0
	g.waveActive = true
	g.ctx.Logger.Debug("wave started", "wave", g.wave, "hp_pool", g.hpPool, "npcs", len(g.spawnQueue))
	g.ctx.Bus.Dispatch(events.WaveStarted{Wave: g.wave, HpPool: g.hpPool})
}

// updateInvasion spawns and moves NPCs.
func (g *Game) updateInvasion() {
	if !g.waveActive {
		return
	}
	g.spawnTimer--
	if g.spawnTimer <= 0 && len(g.spawnQueue) > 0 {
		g.spawnNPC(g.spawnQueue[0])
		g.spawnQueue = g.spawnQueue[1:]
		g.spawnTimer = max(g.ctx.Cfg.Invasion.SpawnInterval, 1)
	}
	for _, n := range g.npcs {
		if !n.Dead {
			g.updateNPC(n)
		}
	}
	g.npcs = compact(g.npcs, func(n *NPCBall) bool { return n.Dead })
}

// checkWaveOver closes the wave once the spawn queue is empty, no NPC is
// alive and the board is idle.
func (g *Game) checkWaveOver() {
	if g.waveActive && len(g.spawnQueue) == 0 && g.liveNPCs() == 0 && g.boardIdle() && g.sm.Phase() == PhasePlaying {
		g.finishWave()
	}
}

func (g *Game) finishWave() {
	inv := g.ctx.Cfg.Invasion
	g.waveActive = false
	g.ctx.Bus.Dispatch(events.TurnEnded{Turn: g.wave})
	g.wave++
	g.hpPool += inv.HpPoolIncrementPerWave
	g.stock[world.BallClassic] += inv.BallsPerWave
	if g.transition(PhaseAiming) {
		g.enterAiming()
	}
}

// spawnNPC places an NPC on the top edge heading for a goal brick.
func (g *Game) spawnNPC(t NPCType) {
	walls := g.ctx.Board.Walls()
	cell := g.ctx.Board.CellSize
	x := g.ctx.RNG.FloatRange(walls.Min.X+cell, walls.Max.X-cell)
	pos := core.V(x, walls.Min.Y+cell/2)

	target := core.V(x, walls.Max.Y)
	var goals []*world.Brick
	for _, b := range g.matrix.Bricks() {
		if b.Type == world.BrickGoal {
			goals = append(goals, b)
		}
	}
	if len(goals) > 0 {
		target = goals[g.ctx.RNG.Intn(len(goals))].Center(g.ctx.Board)
	}
	n := NewNPC(g.ctx, t, pos, target.Sub(pos))
	g.npcs = append(g.npcs, n)
}

func (g *Game) liveNPCs() int {
	n := 0
	for _, npc := range g.npcs {
		if !npc.Dead {
			n++
		}
	}
	return n
}

// updateNPC moves an NPC with the swept resolver and applies contact
// damage to the brick it touches.
func (g *Game) updateNPC(n *NPCBall) {
	opts := physics.MoveOptions{PassThrough: n.Type == NPCPiercing && n.PierceLeft > 0}
	n.pierced = slices.DeleteFunc(n.pierced, func(id world.BrickID) bool {
		pb := g.matrix.Get(id)
		return pb == nil || !physics.CircleRect(n.Pos, n.Radius, pb.Rect(g.resolver.Board))
	})
	if len(n.pierced) > 0 {
		inside := n.pierced
		opts.Skip = func(id world.BrickID) bool { return slices.Contains(inside, id) }
	}
	c := g.resolver.MoveSwept(&n.Body, opts)
	if c.Kind != physics.ContactBrick {
		return
	}
	br := g.matrix.Get(c.Brick)
	if br == nil {
		return
	}
	if n.Armed {
		g.queue(explode{
			Pos:    n.Pos,
			Radius: g.ctx.cells(n.Stats.ExplodeRadius),
			Damage: n.Stats.ExplodeDamage,
			Source: events.SourceNPC,
		})
		n.Dead = true
		return
	}
	g.queue(brickHit{Brick: br.ID, Damage: n.Stats.ContactDamage, Source: events.SourceNPC, Pos: c.Pos})
	if opts.PassThrough {
		n.PierceLeft--
		n.pierced = append(n.pierced, br.ID)
	}
}

// ballHitNPCs damages and reflects off the first NPC the body overlaps.
func (g *Game) ballHitNPCs(b *physics.Body, dmg float64) {
	for _, n := range g.npcs {
		if n.Dead || !physics.CircleCircle(b.Pos, b.Radius, n.Pos, n.Radius) {
			continue
		}
		normal := b.Pos.Sub(n.Pos).Normalize()
		if normal.LenSq() == 0 {
			normal = core.V(0, 1)
		}
		if b.Vel.Dot(normal) < 0 {
			b.Vel = physics.Reflect(b.Vel, normal)
		}
		b.Pos = n.Pos.Add(normal.Scale(b.Radius + n.Radius))
		g.queue(sound{Name: "npc_hit"})
		g.damageNPC(n, dmg)
		return
	}
}

// damageNPC applies damage and fires staged abilities.
func (g *Game) damageNPC(n *NPCBall, dmg float64) {
	abilities := n.TakeDamage(dmg)
	if n.Dead {
		xp := int(math.Ceil(n.MaxHP * g.ctx.Cfg.Combat.XPPerHP))
		g.ctx.Stats.XP += xp
		g.ctx.Stats.Score += g.ctx.Cfg.Economy.ScorePerBrick
		g.addVFX(VFX{Kind: VFXShockwave, Pos: n.Pos, Radius: n.Radius * 2})
		g.ctx.Bus.Dispatch(events.XpCollected{Amount: xp, Total: g.ctx.Stats.XP})
		return
	}
	for _, a := range abilities {
		switch a {
		case abilityBurst:
			for i := range 4 {
				dir := core.FromAngle(float64(i)*math.Pi/2, 1)
				g.queue(spawnProjectiles{
					Pos: n.Pos, Dir: dir, Count: 1,
					Kind: ProjectileNPC, Damage: n.Stats.ProjectileDamage,
				})
			}
		case abilityArm:
			g.floatText(n.Pos, "armed")
		}
	}
}
