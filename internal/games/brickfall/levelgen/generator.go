// Package levelgen builds brick matrices from level settings. Generation
// is deterministic: the same settings, grid size and level index always
// produce the same matrix.
package levelgen

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// LaunchLaneRows is the number of bottom grid rows kept empty so the
// launch origin is never covered.
const LaunchLaneRows = 3

// Report records the budgets computed for a level and how much was spent.
type Report struct {
	Level   int
	Pattern string

	BrickHp     int // Base health of a filler brick
	HpPool      int
	HpPoolSpent int

	CoinPool, CoinPoolSpent int
	GemPool, GemPoolSpent   int
	FoodPool, FoodPoolSpent int

	Bricks   int
	Buffs    int
	Merges   int
	Overlays map[world.Overlay]int
}

// Result is a generated level.
type Result struct {
	Matrix *world.Matrix
	Report Report
}

// BrickHpForLevel returns the base filler health for a level (1-based).
// Growth per level is additive plus multiplicative, capped by
// MaxBrickHpIncrement.
func BrickHpForLevel(s config.LevelSettings, level int) int {
	hp := float64(max(s.StartingBrickHp, 1))
	for range max(level-1, 0) {
		inc := float64(s.BrickHpIncrement) + hp*(s.BrickHpMultiplier-1)
		if s.MaxBrickHpIncrement > 0 {
			inc = math.Min(inc, float64(s.MaxBrickHpIncrement))
		}
		hp += math.Max(inc, 0)
	}
	return int(math.Round(hp))
}

// HpPoolForLevel returns the total health budget for a level: filler
// health for the brick count target plus half again for buffs, overlays
// and merges.
func HpPoolForLevel(s config.LevelSettings, level int) int {
	return BrickHpForLevel(s, level) * max(s.BrickCount, 1) * 3 / 2
}

// Seed mixes the settings seed with the level index.
func Seed(s config.LevelSettings, level int) uint64 {
	return s.Seed*0x9E3779B97F4A7C15 + uint64(max(level, 0))*0xBF58476D1CE4E5B9 + 1
}

type generator struct {
	s      config.LevelSettings
	level  int
	rng    *core.RNG
	m      *world.Matrix
	region Region
	rep    Report
}

func (g *generator) remaining() int {
	return g.rep.HpPool - g.rep.HpPoolSpent
}

// Generate builds level number level (1-based) on a cols×rows grid.
func Generate(s config.LevelSettings, cols, rows, level int) Result {
	level = max(level, 1)
	halfC, halfR := cols/2, rows/2
	g := &generator{
		s:     s,
		level: level,
		rng:   core.NewRNG(Seed(s, level)),
		m:     world.NewMatrix(cols, rows),
		region: Region{
			MinX: -halfC, MaxX: halfC,
			MinY: -halfR, MaxY: max(-halfR, halfR-LaunchLaneRows),
		},
	}
	g.rep = Report{
		Level:    level,
		BrickHp:  BrickHpForLevel(s, level),
		HpPool:   HpPoolForLevel(s, level),
		CoinPool: s.StartingCoin + s.CoinIncrement*(level-1),
		GemPool:  s.StartingGems + s.GemIncrement*(level-1),
		FoodPool: s.StartingFood + s.FoodIncrement*(level-1),
		Overlays: make(map[world.Overlay]int),
	}

	g.placeFixed()
	g.placeFiller()

	reserve := 0
	if s.MergeChance > 0 && s.MergeCost > 0 {
		reserve = min(g.remaining()/5, s.MergeCost*3)
	}
	g.spendBudget(reserve)
	g.mergeRuns()
	g.spendBudget(0)

	g.rep.CoinPoolSpent = g.distribute(g.rep.CoinPool, coinEligible, func(b *world.Brick, n int) {
		b.Coins += n
		b.MaxCoins += n
	})
	g.rep.GemPoolSpent = g.distribute(g.rep.GemPool, gemEligible, func(b *world.Brick, n int) {
		b.Gems += n
		b.MaxGems += n
	})
	g.rep.FoodPoolSpent = g.distribute(g.rep.FoodPool, foodEligible, func(b *world.Brick, n int) {
		b.Food += n
		b.MaxFood += n
	})

	g.rep.Bricks = g.m.Len()
	return Result{Matrix: g.m, Report: g.rep}
}

// place puts a new brick on a cell and charges its health to the pool.
// It fails when the pool cannot pay for it.
func (g *generator) place(t world.BrickType, c Cell, hp int) bool {
	if hp > g.remaining() || !g.m.Fits(c.X, c.Y, 1, 1) {
		return false
	}
	if !g.m.Place(world.NewBrick(t, c.X, c.Y, float64(hp))) {
		return false
	}
	g.rep.HpPoolSpent += hp
	return true
}

// emptyCells returns the empty cells of the region in row-major order.
func (g *generator) emptyCells() []Cell {
	var out []Cell
	for _, c := range g.region.Cells() {
		if g.m.IDAt(c.X, c.Y) == 0 {
			out = append(out, c)
		}
	}
	return out
}

// randomEmpty picks a random empty cell. ok is false when the region is full.
func (g *generator) randomEmpty() (Cell, bool) {
	cells := g.emptyCells()
	if len(cells) == 0 {
		return Cell{}, false
	}
	return cells[g.rng.Intn(len(cells))], true
}

// placeFixed places equipment, goal and extra-ball bricks on random cells.
func (g *generator) placeFixed() {
	hp := g.rep.BrickHp
	if g.rng.Chance(g.s.EquipmentBrickChance) {
		if c, ok := g.randomEmpty(); ok {
			g.place(world.BrickEquipment, c, hp)
		}
	}
	for range g.s.GoalBricks {
		if c, ok := g.randomEmpty(); ok {
			g.place(world.BrickGoal, c, hp*2)
		}
	}
	for range g.s.ExtraBallBricks {
		if c, ok := g.randomEmpty(); ok {
			g.place(world.BrickExtraBall, c, hp)
		}
	}
}

// fillerType rolls the type of one filler brick.
func (g *generator) fillerType() world.BrickType {
	s := g.s
	buckets := []struct {
		t      world.BrickType
		chance float64
	}{
		{world.BrickExplosive, s.ExplosiveBrickChance},
		{world.BrickBallCage, s.BallCageBrickChance},
		{world.BrickStripeH, s.StripeBrickChance / 2},
		{world.BrickStripeV, s.StripeBrickChance / 2},
		{world.BrickWool, s.WoolBrickChance},
		{world.BrickShieldGen, s.ShieldGenBrickChance},
		{world.BrickLog, s.LogBrickChance},
	}
	roll := g.rng.Float()
	acc := 0.0
	for _, b := range buckets {
		acc += b.chance
		if roll < acc {
			return b.t
		}
	}
	return world.BrickNormal
}

// placeFiller lays filler bricks along the pattern until the brick count
// target or the pool runs out. Formulaic patterns retry with a new shape
// when one shape is too small.
func (g *generator) placeFiller() {
	target := g.s.BrickCount
	hp := g.rep.BrickHp
	for attempt := 0; attempt < 3 && g.m.Len() < target; attempt++ {
		cells, name := patternCells(g.s.LevelPattern, g.region, g.rng)
		if attempt == 0 {
			g.rep.Pattern = name
		}
		for _, c := range cells {
			if g.m.Len() >= target || g.remaining() < hp {
				return
			}
			if !g.region.Contains(c) {
				continue
			}
			g.place(g.fillerType(), c, hp)
		}
		if g.s.LevelPattern != "formulaic" && g.s.LevelPattern != "" {
			return
		}
	}
}

// overlayBucket is one weighted overlay choice.
type overlayBucket struct {
	overlay world.Overlay
	weight  float64
}

// unlockedOverlays returns the overlays available at the current level
// with their weights, in a fixed order.
func (g *generator) unlockedOverlays() []overlayBucket {
	s := g.s
	lv, w := s.OverlaySpawnLevels, s.OverlayWeights
	all := []struct {
		o      world.Overlay
		unlock int
		weight float64
	}{
		{world.OverlayHealer, lv.Healer, s.HealerBrickChance},
		{world.OverlayBuilder, lv.Builder, s.BuilderBrickChance},
		{world.OverlaySpike, lv.Spike, w.Spike},
		{world.OverlaySniper, lv.Sniper, w.Sniper},
		{world.OverlayLaser, lv.Laser, w.Laser},
		{world.OverlayZapper, lv.Zapper, w.Zapper},
		{world.OverlayMine, lv.Mine, w.Mine},
	}
	var out []overlayBucket
	for _, a := range all {
		if g.level >= a.unlock && a.weight > 0 {
			out = append(out, overlayBucket{a.o, a.weight})
		}
	}
	return out
}

// pickOverlay selects an overlay with cumulative-probability buckets.
func (g *generator) pickOverlay(buckets []overlayBucket) world.Overlay {
	total := 0.0
	for _, b := range buckets {
		total += b.weight
	}
	roll := g.rng.Float() * total
	acc := 0.0
	for _, b := range buckets {
		acc += b.weight
		if roll < acc {
			return b.overlay
		}
	}
	return buckets[len(buckets)-1].overlay
}

func (g *generator) overlayTargets() []*world.Brick {
	var out []*world.Brick
	for _, b := range g.m.Bricks() {
		if b.Type.CanOverlay() && b.Overlay == world.OverlayNone && b.W == 1 && b.H == 1 {
			out = append(out, b)
		}
	}
	return out
}

func (g *generator) buffTargets() []*world.Brick {
	var out []*world.Brick
	for _, b := range g.m.Bricks() {
		if !b.Type.IsBuilding() {
			out = append(out, b)
		}
	}
	return out
}

// spendBudget greedily spends the pool down to reserve by buffing bricks
// or converting eligible bricks to overlays.
func (g *generator) spendBudget(reserve int) {
	buckets := g.unlockedOverlays()
	for guard := 0; guard < 10000; guard++ {
		avail := g.remaining() - reserve
		if avail <= 0 {
			return
		}
		if len(buckets) > 0 && avail >= g.s.OverlayCost && g.s.OverlayCost > 0 && g.rng.Chance(g.s.OverlayChance) {
			if g.convertOverlay(g.pickOverlay(buckets)) {
				continue
			}
		}
		targets := g.buffTargets()
		if len(targets) == 0 {
			return
		}
		amount := min(max(g.s.BuffChunk, 1), avail)
		targets[g.rng.Intn(len(targets))].Buff(float64(amount))
		g.rep.HpPoolSpent += amount
		g.rep.Buffs++
	}
}

// convertOverlay attaches an overlay to a random eligible brick. A zapper
// also needs a zap battery, so one is placed alongside if none exists.
func (g *generator) convertOverlay(o world.Overlay) bool {
	targets := g.overlayTargets()
	needBattery := o == world.OverlayZapper && g.m.CountOverlay(world.OverlayZapBattery) == 0
	if len(targets) == 0 || (needBattery && len(targets) < 2) {
		return false
	}
	cost := g.s.OverlayCost
	i := g.rng.Intn(len(targets))
	b := targets[i]
	b.Overlay = o
	g.rep.Overlays[o]++

	if needBattery {
		targets = append(targets[:i], targets[i+1:]...)
		battery := targets[g.rng.Intn(len(targets))]
		battery.Overlay = world.OverlayZapBattery
		g.rep.Overlays[world.OverlayZapBattery]++
		half := cost / 2
		battery.Buff(float64(half))
		cost -= half
		g.rep.HpPoolSpent += half
	}
	b.Buff(float64(cost))
	g.rep.HpPoolSpent += cost
	return true
}

// mergeable reports whether a brick can join a long brick.
func mergeable(b *world.Brick) bool {
	return b != nil && b.Type.CanMerge() && b.Overlay == world.OverlayNone && b.W == 1 && b.H == 1
}

// mergeRuns scans rows for three horizontally adjacent mergeable bricks of
// the same type and fuses them into one 3×1 brick for MergeCost.
func (g *generator) mergeRuns() {
	cost := g.s.MergeCost
	if cost <= 0 || g.s.MergeChance <= 0 {
		return
	}
	for y := g.region.MinY; y <= g.region.MaxY; y++ {
		for x := g.region.MinX; x+2 <= g.region.MaxX; x++ {
			a, b, c := g.m.At(x, y), g.m.At(x+1, y), g.m.At(x+2, y)
			if !mergeable(a) || !mergeable(b) || !mergeable(c) || a.Type != b.Type || a.Type != c.Type {
				continue
			}
			if g.remaining() < cost || !g.rng.Chance(g.s.MergeChance) {
				continue
			}
			health := a.Health + b.Health + c.Health + float64(cost)
			maxHealth := a.MaxHealth + b.MaxHealth + c.MaxHealth + float64(cost)
			g.m.Remove(b.ID)
			g.m.Remove(c.ID)
			g.m.Resize(a.ID, x, y, 3, 1)
			a.Health, a.MaxHealth = health, maxHealth
			g.rep.HpPoolSpent += cost
			g.rep.Merges++
			x += 2
		}
	}
}

func coinEligible(b *world.Brick) bool {
	return !b.Type.IsBuilding() && b.Type != world.BrickLog
}

func gemEligible(b *world.Brick) bool {
	return b.Type == world.BrickNormal || b.Type == world.BrickGoal
}

func foodEligible(b *world.Brick) bool {
	return b.Type == world.BrickNormal || b.Type == world.BrickFood || b.Type == world.BrickWool
}

// distribute spreads pool across eligible bricks in random chunks and
// returns the amount handed out.
func (g *generator) distribute(pool int, eligible func(*world.Brick) bool, give func(*world.Brick, int)) int {
	var targets []*world.Brick
	for _, b := range g.m.Bricks() {
		if eligible(b) {
			targets = append(targets, b)
		}
	}
	if len(targets) == 0 || pool <= 0 {
		return 0
	}
	lo := max(g.s.ResourceChunkMin, 1)
	hi := max(g.s.ResourceChunkMax, lo)
	spent := 0
	for spent < pool {
		n := min(g.rng.Range(lo, hi), pool-spent)
		give(targets[g.rng.Intn(len(targets))], n)
		spent += n
	}
	return spent
}
