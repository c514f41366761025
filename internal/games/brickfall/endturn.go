package brickfall

import (
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/levelgen"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// endTurnAction is one queued overlay action of the end-turn sequence.
type endTurnAction struct {
	brick   world.BrickID
	overlay world.Overlay
}

// boardIdle reports whether nothing is left that could still act this turn.
func (g *Game) boardIdle() bool {
	return len(g.balls) == 0 && len(g.minis) == 0 &&
		len(g.projectiles) == 0 && len(g.delayed) == 0 && len(g.pending) == 0
}

// checkTurnOver starts the end-turn sequence once the board is idle.
func (g *Game) checkTurnOver() {
	if g.mode == ModeInvasion {
		return
	}
	switch g.sm.Phase() {
	case PhasePlaying, PhaseLevelClearing:
	default:
		return
	}
	if !g.boardIdle() {
		return
	}
	g.endTurn = g.endTurnActions()
	g.endTurnTimer = 0
	g.transition(PhaseEndTurn)
}

// endTurnActions queues every healer before every builder, each by id.
func (g *Game) endTurnActions() []endTurnAction {
	var healers, builders []endTurnAction
	for _, b := range g.matrix.Bricks() {
		switch b.Overlay {
		case world.OverlayHealer:
			healers = append(healers, endTurnAction{brick: b.ID, overlay: b.Overlay})
		case world.OverlayBuilder:
			builders = append(builders, endTurnAction{brick: b.ID, overlay: b.Overlay})
		}
	}
	return append(healers, builders...)
}

// tickEndTurn performs one action every ActionFrames frames.
func (g *Game) tickEndTurn() {
	g.endTurnTimer++
	if g.endTurnTimer < max(g.ctx.Cfg.Physics.ActionFrames, 1) {
		return
	}
	g.endTurnTimer = 0
	if len(g.endTurn) == 0 {
		g.finishTurn()
		return
	}
	a := g.endTurn[0]
	g.endTurn = g.endTurn[1:]
	b := g.matrix.Get(a.brick)
	if b == nil {
		return
	}
	switch a.overlay {
	case world.OverlayHealer:
		g.healAround(b)
	case world.OverlayBuilder:
		g.buildAround(b)
	}
}

// healAround heals adjacent damaged bricks.
func (g *Game) healAround(healer *world.Brick) {
	amount := float64(g.ctx.Cfg.Overlays.HealAmount)
	for _, n := range g.matrix.Neighbors(healer) {
		if !n.NeedsHealing() {
			continue
		}
		if restored := n.Heal(amount); restored > 0 {
			g.addVFX(VFX{Kind: VFXLightning, Pos: healer.Center(g.ctx.Board), To: n.Center(g.ctx.Board), MaxFrames: 10})
		}
	}
}

var buildDirs = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// buildAround walks outward in four directions up to BuilderRange cells.
// The first empty cell gets a new brick; the first plain brick is
// upgraded; anything else blocks that direction.
func (g *Game) buildAround(builder *world.Brick) {
	ov := g.ctx.Cfg.Overlays
	maxY := g.ctx.Board.HalfRows() - levelgen.LaunchLaneRows
	for _, d := range buildDirs {
		for step := 1; step <= ov.BuilderRange; step++ {
			x, y := g.edgeCell(builder, d, step)
			if !g.matrix.InBounds(x, y) || y > maxY {
				break
			}
			target := g.matrix.At(x, y)
			if target == nil {
				nb := world.NewBrick(world.BrickNormal, x, y, float64(ov.BuilderSpawnHP))
				if g.matrix.Place(nb) {
					g.floatText(nb.Center(g.ctx.Board), "+")
				}
				break
			}
			if target.Type == world.BrickNormal && target.Overlay == world.OverlayNone {
				target.Buff(float64(ov.BuilderUpgrade))
				target.Level++
			}
			break
		}
	}
}

// edgeCell returns the cell step cells beyond the brick's edge along d.
func (g *Game) edgeCell(b *world.Brick, d [2]int, step int) (int, int) {
	x, y := b.X, b.Y
	switch {
	case d[0] > 0:
		x = b.X + b.W - 1
	case d[1] > 0:
		y = b.Y + b.H - 1
	}
	return x + d[0]*step, y + d[1]*step
}

// finishTurn closes the turn and picks the next phase.
func (g *Game) finishTurn() {
	g.ctx.Bus.Dispatch(events.TurnEnded{Turn: g.turn})
	g.golden = g.ctx.RNG.Chance(g.ctx.Cfg.Economy.GoldenTurnChance)
	g.setCombo(0)
	g.turnBonusDamage = 0

	if g.matrix.Count(world.BrickGoal) == 0 {
		if g.transition(PhaseLevelComplete) {
			g.completeTimer = levelCompleteFrames
			g.ctx.Bus.Dispatch(events.LevelCompleted{Level: g.level})
		}
		return
	}
	if g.transition(PhaseAiming) {
		g.enterAiming()
	}
}

// enterAiming auto-buys a ball when possible and checks for game over.
func (g *Game) enterAiming() {
	switch g.mode {
	case ModeAdventure:
		cost := g.ctx.Cfg.Economy.BallCost
		if g.totalStock() == 0 && cost > 0 && g.ctx.Stats.Coins >= cost {
			g.ctx.Stats.Coins -= cost
			g.stock[world.BallClassic]++
			g.ctx.Logger.Debug("ball auto-bought", "coins", g.ctx.Stats.Coins)
		}
		if g.totalStock() == 0 {
			g.endRun("out of balls")
			return
		}
	case ModeTrial:
		if g.totalStock() == 0 {
			g.endRun("stock exhausted")
			return
		}
	case ModeInvasion:
		// A wave can only start with a launch.
		if g.totalStock() == 0 {
			g.endRun("no balls to start the wave")
			return
		}
	}
	if g.stock[g.selected] == 0 {
		g.cycleBall()
	}
}

// totalStock counts every ball left, giant balls included.
func (g *Game) totalStock() int {
	n := 0
	for _, c := range g.stock {
		n += c
	}
	return n
}

// cycleBall selects the next ball type with stock.
func (g *Game) cycleBall() {
	types := world.MainBallTypes()
	start := 0
	for i, t := range types {
		if t == g.selected {
			start = i
		}
	}
	for i := 1; i <= len(types); i++ {
		t := types[(start+i)%len(types)]
		if g.stock[t] > 0 {
			g.selected = t
			return
		}
	}
}
