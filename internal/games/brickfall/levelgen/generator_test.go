package levelgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

func settings(seed uint64) config.LevelSettings {
	s := config.DefaultConfig().Level
	s.Seed = seed
	return s
}

func sumMaxHealth(m *world.Matrix) int {
	total := 0.0
	for _, b := range m.Bricks() {
		total += b.MaxHealth
	}
	return int(total)
}

func TestBrickHpGrowth(t *testing.T) {
	s := settings(1)
	s.StartingBrickHp = 20
	s.BrickHpIncrement = 5
	s.BrickHpMultiplier = 1.5
	s.MaxBrickHpIncrement = 30

	assert.Equal(t, 20, BrickHpForLevel(s, 1))
	assert.Equal(t, 35, BrickHpForLevel(s, 2)) // 20 + 5 + 10
	assert.Equal(t, 58, BrickHpForLevel(s, 3)) // 35 + min(5 + 17.5, 30), rounded
	assert.Equal(t, 88, BrickHpForLevel(s, 4)) // 57.5 + capped increment of 30
	assert.Equal(t, BrickHpForLevel(s, 3)*s.BrickCount*3/2, HpPoolForLevel(s, 3))
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, pattern := range []string{"formulaic", "solid", "checkerboard", "spiral"} {
		t.Run(pattern, func(t *testing.T) {
			s := settings(1234)
			s.LevelPattern = pattern
			a := Generate(s, 11, 15, 6)
			b := Generate(s, 11, 15, 6)

			codeA, err := world.ExportCode(a.Matrix)
			require.NoError(t, err)
			codeB, err := world.ExportCode(b.Matrix)
			require.NoError(t, err)
			assert.Equal(t, codeA, codeB)
			assert.Equal(t, a.Report, b.Report)
		})
	}
}

func TestGenerateDiffersBySeed(t *testing.T) {
	a := Generate(settings(1), 11, 15, 3)
	b := Generate(settings(2), 11, 15, 3)
	codeA, _ := world.ExportCode(a.Matrix)
	codeB, _ := world.ExportCode(b.Matrix)
	assert.NotEqual(t, codeA, codeB)
}

func TestHpBudgetConservation(t *testing.T) {
	for seed := uint64(0); seed < 60; seed++ {
		for _, level := range []int{1, 4, 9, 15} {
			s := settings(seed)
			res := Generate(s, 11, 15, level)
			rep := res.Report
			require.LessOrEqual(t, rep.HpPoolSpent, rep.HpPool, "seed %d level %d", seed, level)
			assert.Equal(t, rep.HpPoolSpent, sumMaxHealth(res.Matrix), "seed %d level %d", seed, level)
		}
	}
}

func TestResourcePoolsFullySpent(t *testing.T) {
	res := Generate(settings(77), 11, 15, 5)
	rep := res.Report
	assert.Equal(t, rep.CoinPool, rep.CoinPoolSpent)
	assert.Equal(t, rep.GemPool, rep.GemPoolSpent)

	coins := 0
	for _, b := range res.Matrix.Bricks() {
		coins += b.Coins
		assert.Equal(t, b.Coins, b.MaxCoins)
	}
	assert.Equal(t, rep.CoinPoolSpent, coins)
}

func TestFixedBricksPlaced(t *testing.T) {
	s := settings(5)
	s.EquipmentBrickChance = 1
	res := Generate(s, 11, 15, 1)
	assert.Equal(t, s.GoalBricks, res.Matrix.Count(world.BrickGoal))
	assert.Equal(t, s.ExtraBallBricks, res.Matrix.Count(world.BrickExtraBall))
	assert.Equal(t, 1, res.Matrix.Count(world.BrickEquipment))
}

func TestLaunchLaneStaysEmpty(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		s := settings(seed)
		s.LevelPattern = "solid"
		m := Generate(s, 11, 15, 8).Matrix
		for y := 7 - LaunchLaneRows + 1; y <= 7; y++ {
			for x := -5; x <= 5; x++ {
				assert.Nil(t, m.At(x, y), "seed %d cell (%d,%d)", seed, x, y)
			}
		}
	}
}

func TestOverlaysRespectUnlockLevels(t *testing.T) {
	s := settings(9)
	s.OverlayChance = 1
	for seed := uint64(0); seed < 20; seed++ {
		s.Seed = seed
		res := Generate(s, 11, 15, 1)
		for _, b := range res.Matrix.Bricks() {
			assert.NotContains(t, []world.Overlay{
				world.OverlaySpike, world.OverlaySniper, world.OverlayLaser,
				world.OverlayBuilder, world.OverlayZapper, world.OverlayMine,
			}, b.Overlay)
		}
	}
}

func TestZapperAlwaysHasBattery(t *testing.T) {
	s := settings(3)
	s.OverlayChance = 1
	s.OverlayWeights = config.OverlayWeights{Zapper: 1}
	s.HealerBrickChance = 0
	s.BuilderBrickChance = 0
	for seed := uint64(0); seed < 20; seed++ {
		s.Seed = seed
		m := Generate(s, 11, 15, 20).Matrix
		if m.CountOverlay(world.OverlayZapper) > 0 {
			assert.Positive(t, m.CountOverlay(world.OverlayZapBattery), "seed %d", seed)
		}
	}
}

func TestMergeCreatesLongBricks(t *testing.T) {
	s := settings(11)
	s.LevelPattern = "solid"
	s.MergeChance = 1
	s.MergeCost = 1
	s.ExplosiveBrickChance, s.BallCageBrickChance, s.StripeBrickChance = 0, 0, 0
	s.ShieldGenBrickChance, s.LogBrickChance, s.WoolBrickChance = 0, 0, 0
	s.OverlayChance = 0
	res := Generate(s, 11, 15, 2)
	require.Positive(t, res.Report.Merges)

	long := 0
	for _, b := range res.Matrix.Bricks() {
		if b.W == 3 {
			long++
			for dx := range 3 {
				assert.Equal(t, b.ID, res.Matrix.IDAt(b.X+dx, b.Y))
			}
		}
	}
	assert.Equal(t, res.Report.Merges, long)
}

func TestPatternsStayInRegion(t *testing.T) {
	reg := Region{MinX: -5, MaxX: 5, MinY: -7, MaxY: 4}
	for _, p := range []string{"formulaic", "solid", "checkerboard", "spiral"} {
		for seed := uint64(1); seed < 30; seed++ {
			cells, name := patternCells(p, reg, core.NewRNG(seed))
			assert.NotEmpty(t, name)
			for _, c := range cells {
				assert.True(t, reg.Contains(c), "%s produced %v", name, c)
			}
		}
	}
}

func TestInvasionBoard(t *testing.T) {
	res := Invasion(settings(1), 11, 15)
	assert.Positive(t, res.Matrix.Count(world.BrickGoal))
	for x := -1; x <= 1; x++ {
		assert.Nil(t, res.Matrix.At(x, 6), "launch column must stay open")
	}
	assert.Equal(t, res.Report.HpPoolSpent, sumMaxHealth(res.Matrix))
}
