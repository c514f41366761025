package brickfall

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/physics"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// combatEvent is the closed set of events consumed by the pipeline.
type combatEvent interface {
	kind() string
}

// damageTaken reduces the shared ball hp.
type damageTaken struct {
	Amount float64
	Wall   bool // Direct wall hit by a main ball
	Pos    core.Vec2
}

// brickHit damages one brick.
type brickHit struct {
	Brick    world.BrickID
	Damage   float64
	Source   events.HitSource
	BallType world.BallType
	Pos      core.Vec2
}

// explode damages bricks around a point with a distance-delayed ripple.
type explode struct {
	Pos      core.Vec2
	Radius   float64 // Pixels
	Damage   float64
	FromBall bool // Use the current power explosion upgrade damage
	Source   events.HitSource
	BallType world.BallType
}

// explodeMine is a mine overlay detonation.
type explodeMine struct {
	Pos core.Vec2
}

// homingExplode is a homing projectile impact.
type homingExplode struct {
	Pos      core.Vec2
	BallType world.BallType
}

// spawnProjectiles fires a burst of projectiles.
type spawnProjectiles struct {
	Pos    core.Vec2
	Dir    core.Vec2
	Count  int
	Spread float64 // Radians between neighbors
	Kind   ProjectileKind
	Damage float64
}

// dyingBallDeath marks a dying ball's final wall bounce.
type dyingBallDeath struct {
	BallType world.BallType
	Pos      core.Vec2
}

// sound asks the presentation layer to play a named sound.
type sound struct {
	Name string
}

func (damageTaken) kind() string      { return "damage_taken" }
func (brickHit) kind() string         { return "brick_hit" }
func (explode) kind() string          { return "explode" }
func (explodeMine) kind() string      { return "explode_mine" }
func (homingExplode) kind() string    { return "homing_explode" }
func (spawnProjectiles) kind() string { return "spawn_projectiles" }
func (dyingBallDeath) kind() string   { return "dying_ball_death" }
func (sound) kind() string            { return "sound" }

// maxEventsPerDrain bounds one drain of the worklist.
const maxEventsPerDrain = 100000

// queue appends an event to the worklist.
func (g *Game) queue(e combatEvent) {
	g.pending = append(g.pending, e)
}

// processEvents drains the worklist FIFO. Handlers may queue more events.
func (g *Game) processEvents() {
	for n := 0; len(g.pending) > 0; n++ {
		if n >= maxEventsPerDrain {
			g.ctx.Logger.Error("event worklist did not drain", "pending", len(g.pending))
			g.pending = g.pending[:0]
			return
		}
		e := g.pending[0]
		g.pending = g.pending[1:]

		switch ev := e.(type) {
		case damageTaken:
			g.handleDamageTaken(ev)
		case brickHit:
			g.handleBrickHit(ev)
		case explode:
			g.handleExplode(ev)
		case explodeMine:
			cb := g.ctx.Cfg.Combat
			g.explodeAt(ev.Pos, g.ctx.cells(cb.MineRadius), cb.MineDamage, events.SourceExplosion, g.shared.Type)
		case homingExplode:
			up := g.ctx.Cfg.Upgrades
			g.explodeAt(ev.Pos, g.ctx.cells(up.HomingRadius), up.HomingDamage, events.SourceExplosion, ev.BallType)
		case spawnProjectiles:
			g.handleSpawnProjectiles(ev)
		case dyingBallDeath:
			g.sounds = append(g.sounds, "ball_death")
			g.addVFX(VFX{Kind: VFXShockwave, Pos: ev.Pos, Radius: g.ctx.cells(0.5)})
		case sound:
			g.sounds = append(g.sounds, ev.Name)
		default:
			g.ctx.Logger.Warn("unhandled combat event", "kind", e.kind())
		}
	}
}

func (g *Game) handleDamageTaken(e damageTaken) {
	if e.Wall && g.combo > 0 && !g.giantTurn {
		g.setCombo(0)
	}
	if g.ctx.Invulnerable > 0 || !g.shared.Alive() {
		return
	}
	g.ctx.Bus.Dispatch(events.BallHpLost{BallType: g.shared.Type, Amount: e.Amount, Remaining: g.shared.HP})

	amount := e.Amount
	if e.Wall {
		amount = g.equipment.ModifyWallDamage(g.shared.Type, amount)
	}
	amount, bad := world.SanitizeDamage(amount)
	if bad {
		g.ctx.Logger.Warn("non-finite ball damage clamped", "amount", e.Amount)
	}
	g.shared.HP = math.Max(0, g.shared.HP-amount)
	for _, b := range g.balls {
		b.HP = g.shared.HP
	}
	if !g.shared.Alive() {
		g.sharedDepleted()
	}
}

// sharedDepleted moves every main ball to dying unless equipment cancels.
func (g *Game) sharedDepleted() {
	cancel := false
	g.ctx.Bus.Dispatch(events.BallDying{BallType: g.shared.Type, Cancel: &cancel})
	if cancel {
		return
	}
	for _, b := range g.balls {
		if !b.Dead {
			b.IsDying = true
		}
	}
	for _, m := range g.minis {
		m.Detached = true
	}
}

func (g *Game) handleBrickHit(e brickHit) {
	b := g.matrix.Get(e.Brick)
	if b == nil || b.IsBroken() {
		return
	}
	if g.mode == ModeInvasion && b.Type == world.BrickGoal && e.Source != events.SourceNPC {
		return
	}

	dmg := e.Damage
	if e.Source.IsDirect() {
		dmg += g.turnBonusDamage
	}
	if g.shielded(b) {
		dmg *= g.ctx.Cfg.Combat.ShieldFactor
	}
	res := b.Hit(dmg)
	if res.Sanitized {
		g.ctx.Logger.Warn("non-finite brick damage clamped", "brick", b.ID, "damage", e.Damage)
	}
	g.ctx.Stats.DamageDealt += res.Dealt

	if e.Source.IsDirect() {
		g.setCombo(g.combo + 1)
	}
	if coins := b.TakeCoins(res.Dealt); coins > 0 {
		g.addCoins(coins, e.Pos)
	}
	g.ctx.Bus.Dispatch(events.BrickHit{
		Brick:    b.ID,
		BallType: e.BallType,
		Source:   e.Source,
		Damage:   res.Dealt,
		Pos:      e.Pos,
	})

	if res.Broken {
		g.processBrokenBricks(e.BallType)
	}
	if e.Source == events.SourceBall && e.BallType == world.BallClassic {
		g.handleChainDamage(b, e)
	}
}

// handleChainDamage re-hits the nearest other bricks by center distance.
// Line of sight is not checked.
func (g *Game) handleChainDamage(hit *world.Brick, e brickHit) {
	dmg := g.ctx.enchantment(world.BallClassic).BonusChainDamage
	if dmg <= 0 {
		return
	}
	origin := hit.Center(g.ctx.Board)
	targets := g.nearestBricks(origin, hit.ID, g.ctx.Cfg.Combat.ChainTargets)
	for _, t := range targets {
		to := t.Center(g.ctx.Board)
		g.addVFX(VFX{Kind: VFXLightning, Pos: origin, To: to})
		g.queue(brickHit{Brick: t.ID, Damage: dmg, Source: events.SourceChain, BallType: e.BallType, Pos: to})
	}
}

// nearestBricks returns up to n live bricks other than exclude, nearest
// center first, ties broken by id.
func (g *Game) nearestBricks(pos core.Vec2, exclude world.BrickID, n int) []*world.Brick {
	type cand struct {
		b *world.Brick
		d float64
	}
	var cands []cand
	for _, b := range g.matrix.Bricks() {
		if b.ID == exclude || b.IsBroken() {
			continue
		}
		cands = append(cands, cand{b, b.Center(g.ctx.Board).DistSq(pos)})
	}
	slices.SortStableFunc(cands, func(a, c cand) int {
		if r := cmp.Compare(a.d, c.d); r != 0 {
			return r
		}
		return cmp.Compare(a.b.ID, c.b.ID)
	})
	out := make([]*world.Brick, 0, n)
	for _, c := range cands[:min(n, len(cands))] {
		out = append(out, c.b)
	}
	return out
}

func (g *Game) handleExplode(e explode) {
	dmg := e.Damage
	if e.FromBall {
		dmg = g.ctx.Cfg.Upgrades.ExplosionDamage()
	}
	g.explodeAt(e.Pos, e.Radius, dmg, e.Source, e.BallType)
}

// explodeAt schedules damage to every brick whose closest edge lies within
// radius of pos. Delays grow with distance so the blast ripples outward:
// a strictly farther brick always gets a strictly later hit.
func (g *Game) explodeAt(pos core.Vec2, radius, dmg float64, source events.HitSource, bt world.BallType) {
	g.sounds = append(g.sounds, "explosion")
	g.addVFX(VFX{Kind: VFXShockwave, Pos: pos, Radius: radius})

	type target struct {
		id world.BrickID
		d  float64
		at core.Vec2
	}
	var targets []target
	for _, b := range g.matrix.Bricks() {
		r := b.Rect(g.ctx.Board)
		if d := r.DistanceTo(pos); d <= radius {
			targets = append(targets, target{b.ID, d, r.Center()})
		}
	}
	slices.SortStableFunc(targets, func(a, b target) int {
		if c := cmp.Compare(a.d, b.d); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	perCell := g.ctx.Cfg.Combat.RippleFramesPerCell
	prevDelay, prevDist := 0, -1.0
	for _, t := range targets {
		delay := 1 + int(math.Ceil(t.d/g.ctx.Board.CellSize*perCell))
		if t.d > prevDist && delay <= prevDelay {
			delay = prevDelay + 1
		} else if t.d == prevDist {
			delay = prevDelay
		}
		prevDelay, prevDist = delay, t.d

		g.schedule(delay, func(g *Game) {
			b := g.matrix.Get(t.id)
			if b == nil {
				return
			}
			d := dmg
			if b.Type == world.BrickWool {
				d /= 2
			}
			g.queue(brickHit{Brick: t.id, Damage: d, Source: source, BallType: bt, Pos: t.at})
		})
	}

	if g.mode == ModeInvasion && source != events.SourceNPC {
		for _, n := range g.npcs {
			if !n.Dead && n.Pos.Dist(pos) <= radius+n.Radius {
				g.damageNPC(n, dmg)
			}
		}
	}
}

func (g *Game) handleSpawnProjectiles(e spawnProjectiles) {
	dir := e.Dir.Normalize()
	if dir.LenSq() == 0 {
		dir = core.V(0, -1)
	}
	speed := g.ctx.Cfg.Level.BallSpeed
	radius := g.ctx.Board.Radius(0.12)
	start := -e.Spread * float64(e.Count-1) / 2
	for i := range e.Count {
		v := dir.Rotate(start + e.Spread*float64(i)).Scale(speed)
		p := &Projectile{
			Body:   physics.Body{Pos: e.Pos, Vel: v, Radius: radius},
			Kind:   e.Kind,
			Damage: e.Damage,
			Life:   600,
		}
		if e.Kind == ProjectileHoming {
			if t := g.nearestBricks(e.Pos, 0, i+1); len(t) > i {
				p.Target = t[i].ID
			}
		}
		g.projectiles = append(g.projectiles, p)
	}
	g.sounds = append(g.sounds, "shoot")
}

// processBrokenBricks sweeps the grid until a full pass finds no newly
// broken brick. Breaking one brick can break others in the same pass, so
// the sweep repeats to a fixed point; each brick is destroyed once.
func (g *Game) processBrokenBricks(bt world.BallType) {
	destroyed := make(map[world.BrickID]bool)
	for {
		found := false
		for _, b := range g.matrix.Bricks() {
			if !b.IsBroken() || destroyed[b.ID] {
				continue
			}
			found = true
			destroyed[b.ID] = true
			g.matrix.Remove(b.ID)
			g.onBrickBroken(b, bt)
		}
		if !found {
			break
		}
	}

	goals := g.matrix.Count(world.BrickGoal)
	switch {
	case g.mode == ModeInvasion && goals == 0:
		g.endRun("goal bricks destroyed")
	case g.mode != ModeInvasion && goals == 0 && g.sm.Phase() == PhasePlaying:
		g.transition(PhaseLevelClearing)
	}
}

// onBrickBroken awards rewards and runs type and overlay behavior.
func (g *Game) onBrickBroken(b *world.Brick, bt world.BallType) {
	cfg := g.ctx.Cfg
	pos := b.Center(g.ctx.Board)
	g.ctx.Bus.Dispatch(events.BrickDestroyed{
		Brick:     b.ID,
		Type:      b.Type,
		Overlay:   b.Overlay,
		MaxHealth: b.MaxHealth,
		Pos:       pos,
		BallType:  bt,
	})
	g.ctx.Stats.BricksBroken++
	g.ctx.Stats.Score += cfg.Economy.ScorePerBrick * (1 + g.combo/10)

	for i := range cfg.Combat.DebrisPerBrick {
		angle := float64(i) * 2 * math.Pi / float64(cfg.Combat.DebrisPerBrick)
		g.addVFX(VFX{Kind: VFXDebris, Pos: pos, To: pos.Add(core.FromAngle(angle, g.ctx.Board.CellSize/2))})
	}

	xp := int(math.Ceil(b.MaxHealth * cfg.Combat.XPPerHP))
	if g.golden {
		xp *= max(cfg.Economy.GoldenMultiplier, 1)
	}
	if xp > 0 {
		g.ctx.Stats.XP += xp
		g.addVFX(VFX{Kind: VFXXPOrb, Pos: pos, Text: strconv.Itoa(xp)})
		g.ctx.Bus.Dispatch(events.XpCollected{Amount: xp, Total: g.ctx.Stats.XP})
	}

	coins, food, gems := b.TakeRemaining()
	if coins > 0 {
		g.addCoins(coins, pos)
	}
	g.addFood(food, pos)
	g.addGems(gems, pos)

	switch b.Type {
	case world.BrickExtraBall:
		g.stock[world.BallClassic]++
		g.floatText(pos, "+1 ball")
	case world.BrickExplosive:
		g.queue(explode{
			Pos:      pos,
			Radius:   g.ctx.cells(cfg.Combat.ExplosiveBrickRadius),
			Damage:   cfg.Combat.ExplosiveBrickDamage,
			Source:   events.SourceExplosion,
			BallType: bt,
		})
	case world.BrickStripeH, world.BrickStripeV:
		g.clearStripe(b, bt)
	case world.BrickBallCage:
		g.spawnCagedBall(pos)
	case world.BrickEquipment:
		g.rollEquipment(pos)
	case world.BrickLog:
		g.ctx.Stats.Wood += max(1, int(b.MaxHealth/10))
		g.floatText(pos, "+wood")
	case world.BrickFood:
		g.addFood(max(1, int(b.MaxHealth/10)), pos)
	}

	switch b.Overlay {
	case world.OverlayMine:
		g.queue(explodeMine{Pos: pos})
	case world.OverlayZapBattery:
		g.queue(explode{
			Pos:      pos,
			Radius:   g.ctx.cells(cfg.Combat.CapacitorRadius),
			Damage:   cfg.Combat.CapacitorDamage,
			Source:   events.SourceExplosion,
			BallType: bt,
		})
	}
}

// clearStripe damages every brick in the stripe's row or column directly.
// Bricks broken here are picked up by the next sweep pass.
func (g *Game) clearStripe(stripe *world.Brick, bt world.BallType) {
	dmg := g.ctx.Cfg.Combat.StripeDamage
	from := stripe.Center(g.ctx.Board)
	for _, b := range g.matrix.Bricks() {
		inLine := false
		if stripe.Type == world.BrickStripeH {
			inLine = b.Y <= stripe.Y && stripe.Y < b.Y+b.H
		} else {
			inLine = b.X <= stripe.X && stripe.X < b.X+b.W
		}
		if !inLine || b.IsBroken() {
			continue
		}
		if g.mode == ModeInvasion && b.Type == world.BrickGoal {
			continue
		}
		res := b.Hit(dmg)
		g.ctx.Stats.DamageDealt += res.Dealt
		g.ctx.Bus.Dispatch(events.BrickHit{Brick: b.ID, BallType: bt, Source: events.SourceStripe, Damage: res.Dealt, Pos: b.Center(g.ctx.Board)})
	}
	to := from
	if stripe.Type == world.BrickStripeH {
		to.X = g.ctx.Board.Walls().Max.X
		from.X = g.ctx.Board.Walls().Min.X
	} else {
		to.Y = g.ctx.Board.Walls().Max.Y
		from.Y = g.ctx.Board.Walls().Min.Y
	}
	g.addVFX(VFX{Kind: VFXLaser, Pos: from, To: to})
}

// shielded reports whether a live shield generator covers b.
func (g *Game) shielded(b *world.Brick) bool {
	if g.ctx.Cfg.Combat.ShieldRadius <= 0 {
		return false
	}
	radius := g.ctx.cells(g.ctx.Cfg.Combat.ShieldRadius)
	center := b.Center(g.ctx.Board)
	for _, s := range g.matrix.Bricks() {
		if s.Type == world.BrickShieldGen && s.ID != b.ID && !s.IsBroken() &&
			s.Center(g.ctx.Board).Dist(center) <= radius {
			return true
		}
	}
	return false
}

// setCombo updates the combo counter and notifies listeners on change.
func (g *Game) setCombo(n int) {
	if n == g.combo {
		return
	}
	g.combo = n
	g.ctx.Stats.BestCombo = max(g.ctx.Stats.BestCombo, n)
	g.ctx.Bus.Dispatch(events.ComboChanged{Combo: n, Best: g.ctx.Stats.BestCombo})
}

// addCoins awards coins, applying the golden turn multiplier.
func (g *Game) addCoins(n int, pos core.Vec2) {
	if n <= 0 {
		return
	}
	if g.golden {
		n *= max(g.ctx.Cfg.Economy.GoldenMultiplier, 1)
	}
	g.ctx.Stats.Coins += n
	g.floatText(pos, "+"+strconv.Itoa(n))
	g.ctx.Bus.Dispatch(events.CoinCollected{Amount: n, Total: g.ctx.Stats.Coins, Pos: pos})
}

func (g *Game) addFood(n int, pos core.Vec2) {
	eco := g.ctx.Cfg.Economy
	if coins := addResource(&g.ctx.Stats.Food, n, eco.FoodCap, eco.FoodToCoinRate); coins > 0 {
		g.addCoins(coins, pos)
	}
}

func (g *Game) addGems(n int, pos core.Vec2) {
	eco := g.ctx.Cfg.Economy
	if coins := addResource(&g.ctx.Stats.Gems, n, eco.GemCap, eco.GemToCoinRate); coins > 0 {
		g.addCoins(coins, pos)
	}
}
