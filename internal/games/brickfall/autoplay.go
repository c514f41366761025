package brickfall

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// TurnReport summarizes one autoplayed turn or wave.
type TurnReport struct {
	Turn     int
	Level    int
	Wave     int
	BallType string
	Phase    string
	Bricks   int
	Score    int
	Coins    int
	XP       int
	Frames   int
}

// maxTurnFrames stops a turn that never settles.
const maxTurnFrames = 20000

// Autoplay drives g without input devices for up to turns launches. Aim
// is chosen by a bot RNG seeded from seed so runs are reproducible. It
// stops early on game over.
func Autoplay(g *Game, turns int, seed uint64) []TurnReport {
	bot := core.NewRNG(seed ^ 0xA5A5A5A5)
	var out []TurnReport
	for len(out) < turns && g.Phase() != PhaseGameOver {
		switch g.Phase() {
		case PhaseLevelComplete:
			var in core.InputFrame
			in.Set(core.ActionConfirm)
			g.Step(in)
			continue
		case PhaseAiming, PhasePlaying:
		default:
			g.Step(core.InputFrame{})
			continue
		}
		if !g.Launch(g.botAim(bot)) {
			g.Step(core.InputFrame{})
			if g.Phase() == PhaseAiming && g.totalStock() == 0 {
				break
			}
			continue
		}
		turn := g.turn
		bt := g.selected.String()
		frames := 0
		for frames < maxTurnFrames && g.turn == turn && g.turnInFlight() {
			if frames == 45 {
				g.UsePowerUp()
			}
			g.Step(core.InputFrame{})
			frames++
		}
		st := g.Stats()
		out = append(out, TurnReport{
			Turn:     turn,
			Level:    g.level,
			Wave:     g.wave,
			BallType: bt,
			Phase:    g.Phase().String(),
			Bricks:   g.matrix.Len(),
			Score:    st.Score,
			Coins:    st.Coins,
			XP:       st.XP,
			Frames:   frames,
		})
	}
	return out
}

// turnInFlight reports whether the current launch is still resolving.
func (g *Game) turnInFlight() bool {
	switch g.Phase() {
	case PhasePlaying, PhaseLevelClearing, PhaseEndTurn:
		if g.mode == ModeInvasion && g.Phase() == PhasePlaying {
			return len(g.balls) > 0 || len(g.minis) > 0 || (g.totalStock() == 0 && g.waveActive)
		}
		return true
	}
	return false
}

// botAim aims at a random goal brick with a little jitter, or straight
// up when there is none.
func (g *Game) botAim(rng *core.RNG) float64 {
	origin := g.ctx.Board.LaunchOrigin()
	var goals []*world.Brick
	for _, b := range g.matrix.Bricks() {
		if b.Type == world.BrickGoal {
			goals = append(goals, b)
		}
	}
	angle := -math.Pi / 2
	if len(goals) > 0 && g.mode != ModeInvasion {
		t := goals[rng.Intn(len(goals))].Center(g.ctx.Board)
		angle = t.Sub(origin).Angle()
	}
	return g.clampAim(angle + rng.FloatRange(-0.3, 0.3))
}
