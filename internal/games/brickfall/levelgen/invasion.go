package levelgen

import (
	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// Invasion builds the defended board for invasion mode: a row of goal
// bricks in the bottom lane, leaving the launch column open, and a few
// scattered cover bricks in the middle rows.
func Invasion(s config.LevelSettings, cols, rows int) Result {
	halfC, halfR := cols/2, rows/2
	rng := core.NewRNG(Seed(s, 0))
	m := world.NewMatrix(cols, rows)
	hp := max(s.StartingBrickHp, 1)
	rep := Report{Level: 0, Pattern: "invasion", BrickHp: hp, Overlays: map[world.Overlay]int{}}

	goalRow := halfR - 1
	goals := 0
	for x := -halfC; x <= halfC && goals < max(s.GoalBricks, 1)*2; x++ {
		if x >= -1 && x <= 1 {
			continue
		}
		if m.Place(world.NewBrick(world.BrickGoal, x, goalRow, float64(hp*3))) {
			goals++
			rep.HpPoolSpent += hp * 3
		}
	}

	region := Region{MinX: -halfC, MaxX: halfC, MinY: -halfR / 2, MaxY: halfR / 2}
	cells := region.Cells()
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
	cover := min(len(cells), max(s.BrickCount/5, 1))
	for _, c := range cells[:cover] {
		if m.Place(world.NewBrick(world.BrickNormal, c.X, c.Y, float64(hp))) {
			rep.HpPoolSpent += hp
		}
	}
	rep.HpPool = rep.HpPoolSpent
	rep.Bricks = m.Len()
	return Result{Matrix: m, Report: rep}
}
