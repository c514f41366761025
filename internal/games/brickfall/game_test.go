package brickfall

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
	"github.com/vovakirdan/brickfall/internal/registry"
)

var testRuntime = core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: 42}

// newTestGame builds a game on a fixed matrix with no equipment and no
// golden turns. lines use the world.ParseMatrix alphabet.
func newTestGame(t *testing.T, mode Mode, lines []string, mut func(*config.Config)) *Game {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Level.Seed = 7
	cfg.Economy.GoldenTurnChance = 0
	if mut != nil {
		mut(&cfg)
	}
	opts := Options{Config: &cfg, Equipment: NewLoadout()}
	if lines != nil {
		opts.Matrix = world.ParseMatrix(cfg.Board.Cols, cfg.Board.Rows, lines, 1000)
	}
	g := New(mode)
	g.Configure(opts)
	g.Reset(testRuntime)
	return g
}

// rows returns a 15-row map with line placed on grid row y.
func rows(lines map[int]string) []string {
	out := make([]string, 15)
	for i := range out {
		out[i] = "..........."
	}
	for y, l := range lines {
		out[y+7] = l
	}
	return out
}

func brickAt(t *testing.T, g *Game, x, y int) *world.Brick {
	t.Helper()
	b := g.Matrix().At(x, y)
	if b == nil {
		t.Fatalf("no brick at (%d,%d)", x, y)
	}
	return b
}

func TestChainDamageHitsNearestOtherBricks(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want [][2]int // Cells expected to receive chain hits
	}{
		{"two others", ".....#.#G..", [][2]int{{2, 0}, {3, 0}}},
		{"three nearest of four", ".#...###..G", [][2]int{{1, 0}, {2, 0}, {-4, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, ModeAdventure, rows(map[int]string{0: tt.row}), nil)
			target := brickAt(t, g, 0, 0)

			hits := map[world.BrickID]float64{}
			events.On(g.Bus(), func(e events.BrickHit) {
				if e.Source == events.SourceChain {
					hits[e.Brick] = e.Damage
				}
			})
			g.queue(brickHit{Brick: target.ID, Damage: 10, Source: events.SourceBall, BallType: world.BallClassic})
			g.processEvents()

			if len(hits) != len(tt.want) {
				t.Fatalf("chain hits = %d, want %d", len(hits), len(tt.want))
			}
			for _, c := range tt.want {
				id := brickAt(t, g, c[0], c[1]).ID
				dmg, ok := hits[id]
				if !ok {
					t.Errorf("brick at %v not chain-hit", c)
				}
				if dmg != 2 {
					t.Errorf("chain damage at %v = %v, want 2", c, dmg)
				}
			}
		})
	}
}

func TestChainDamageOnlyForDirectClassicHits(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{0: ".....#.#G.."}), nil)
	chains := 0
	events.On(g.Bus(), func(e events.BrickHit) {
		if e.Source == events.SourceChain {
			chains++
		}
	})
	target := brickAt(t, g, 0, 0)
	g.queue(brickHit{Brick: target.ID, Damage: 10, Source: events.SourceBall, BallType: world.BallSplit})
	g.queue(brickHit{Brick: target.ID, Damage: 10, Source: events.SourceExplosion, BallType: world.BallClassic})
	g.processEvents()
	if chains != 0 {
		t.Errorf("chain hits = %d, want 0", chains)
	}
}

func TestExplosivePowerUpRipple(t *testing.T) {
	lines := rows(map[int]string{
		-7: "..........G",
		0:  "......##...",
		1:  "......#....",
		2:  ".....#.....",
	})
	g := newTestGame(t, ModeTrial, lines, func(c *config.Config) {
		c.Trial.Stock = map[string]int{"explosive": 1}
	})
	g.selected = world.BallExplosive
	if !g.Launch(-math.Pi / 2) {
		t.Fatal("launch failed")
	}
	ball := g.Balls()[0]
	ball.Pos = g.ctx.Board.GridToPixel(0, 0)
	ball.Vel = core.Vec2{}

	radius := g.ctx.cells(ball.ExplosionRadius)
	inRange := map[world.BrickID]float64{}
	for _, b := range g.Matrix().Bricks() {
		if d := b.Rect(g.ctx.Board).DistanceTo(ball.Pos); d <= radius {
			inRange[b.ID] = d
		}
	}
	if len(inRange) != 4 {
		t.Fatalf("bricks in range = %d, want 4", len(inRange))
	}

	frame := 0
	hitFrame := map[world.BrickID]int{}
	want := g.ctx.Cfg.Upgrades.ExplosionDamage()
	events.On(g.Bus(), func(e events.BrickHit) {
		if e.Source != events.SourceExplosion {
			return
		}
		if _, dup := hitFrame[e.Brick]; dup {
			t.Errorf("brick %d hit twice", e.Brick)
		}
		hitFrame[e.Brick] = frame
		if e.Damage != want {
			t.Errorf("brick %d damage = %v, want %v", e.Brick, e.Damage, want)
		}
	})

	if !g.usePowerUp() {
		t.Fatal("power-up not used")
	}
	g.processEvents()
	for frame = 1; frame <= 30; frame++ {
		g.tickDelayed()
		g.processEvents()
	}

	if len(hitFrame) != len(inRange) {
		t.Fatalf("bricks hit = %d, want %d", len(hitFrame), len(inRange))
	}
	for a, da := range inRange {
		for b, db := range inRange {
			if da < db && hitFrame[a] >= hitFrame[b] {
				t.Errorf("brick at %.1f hit on frame %d, farther brick at %.1f on frame %d", da, hitFrame[a], db, hitFrame[b])
			}
		}
	}
}

func TestExplosionDestroysBricksInRadius(t *testing.T) {
	lines := rows(map[int]string{
		-7: "..........G",
		0:  "......1..1.",
	})
	g := newTestGame(t, ModeAdventure, lines, nil)
	near := brickAt(t, g, 1, 0).ID
	far := brickAt(t, g, 4, 0).ID

	g.queue(explode{Pos: g.ctx.Board.GridToPixel(0, 0), Radius: g.ctx.cells(1.5), FromBall: true, Source: events.SourceExplosion})
	g.processEvents()
	for range 30 {
		g.tickDelayed()
		g.processEvents()
	}
	if g.Matrix().Get(near) != nil {
		t.Error("brick inside the radius survived")
	}
	if g.Matrix().Get(far) == nil {
		t.Error("brick outside the radius was destroyed")
	}
}

func TestSharedHpZeroMarksAllBallsDying(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{-7: "G.........."}), nil)
	if !g.Launch(-math.Pi / 2) {
		t.Fatal("launch failed")
	}
	center := g.ctx.Board.GridToPixel(0, 0)
	g.balls[0].Pos = center
	g.balls[0].Vel = core.V(0, 2)
	g.balls = append(g.balls, NewBall(g.ctx, world.BallClassic, center, core.V(0, -2)))

	g.shared.HP = 5
	g.queue(damageTaken{Amount: 10, Wall: true})
	g.processEvents()

	if len(g.Balls()) != 2 {
		t.Fatalf("balls = %d, want 2", len(g.Balls()))
	}
	for i, b := range g.Balls() {
		if !b.IsDying || b.Dead {
			t.Errorf("ball %d: dying=%v dead=%v, want dying and not dead", i, b.IsDying, b.Dead)
		}
	}

	g.Step(core.InputFrame{})
	if len(g.Balls()) != 2 {
		t.Fatalf("dying balls removed before reaching a wall")
	}

	deaths := 0
	for range 2000 {
		g.Step(core.InputFrame{})
		for _, s := range g.Sounds() {
			if s == "ball_death" {
				deaths++
			}
		}
		if len(g.Balls()) == 0 {
			break
		}
	}
	if len(g.Balls()) != 0 {
		t.Fatal("dying balls never died")
	}
	if deaths != 2 {
		t.Errorf("ball deaths = %d, want 2", deaths)
	}
}

func TestComboResetOnDirectWallHit(t *testing.T) {
	tests := []struct {
		name  string
		giant bool
		invul int
		want  int
	}{
		{"normal turn", false, 0, 0},
		{"invulnerable", false, 10, 0},
		{"giant turn", true, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, ModeAdventure, rows(map[int]string{-7: "G.........."}), nil)
			g.Launch(-math.Pi / 2)
			g.giantTurn = tt.giant
			g.ctx.Invulnerable = tt.invul
			g.setCombo(5)

			g.queue(damageTaken{Amount: 10, Wall: true})
			g.processEvents()
			if g.Combo() != tt.want {
				t.Errorf("combo = %d, want %d", g.Combo(), tt.want)
			}
		})
	}
}

func TestDamageTakenSkippedWhileInvulnerable(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{-7: "G.........."}), nil)
	g.Launch(-math.Pi / 2)
	hp := g.Shared().HP
	g.ctx.Invulnerable = 3
	g.queue(damageTaken{Amount: 10, Wall: true})
	g.processEvents()
	if g.Shared().HP != hp {
		t.Errorf("hp = %v, want %v", g.Shared().HP, hp)
	}
}

func TestComboCountsOnlyDirectHits(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{0: "....###...G"}), nil)
	id := brickAt(t, g, 0, 0).ID
	g.queue(brickHit{Brick: id, Damage: 1, Source: events.SourceBall})
	g.queue(brickHit{Brick: id, Damage: 1, Source: events.SourceMiniBall})
	g.queue(brickHit{Brick: id, Damage: 1, Source: events.SourceExplosion})
	g.queue(brickHit{Brick: id, Damage: 1, Source: events.SourceProjectile})
	g.processEvents()
	if g.Combo() != 2 {
		t.Errorf("combo = %d, want 2", g.Combo())
	}
}

func TestProcessBrokenBricksReachesFixedPoint(t *testing.T) {
	lines := rows(map[int]string{
		-7: "G..........",
		-2: "........#..",
		0:  "..#-#.##|#.",
		2:  "........#..",
	})
	g := newTestGame(t, ModeAdventure, lines, func(c *config.Config) {
		c.Combat.StripeDamage = 5000
	})
	destroyed := map[world.BrickID]int{}
	events.On(g.Bus(), func(e events.BrickDestroyed) { destroyed[e.Brick]++ })

	stripe := brickAt(t, g, -2, 0)
	stripe.Health = 0
	g.processBrokenBricks(world.BallClassic)

	for id, n := range destroyed {
		if n != 1 {
			t.Errorf("brick %d destroyed %d times", id, n)
		}
	}
	for _, b := range g.Matrix().Bricks() {
		if b.Health <= 0 {
			t.Errorf("broken brick %d left in the matrix", b.ID)
		}
		if b.Y == 0 || b.X == 3 {
			t.Errorf("brick at (%d,%d) should have been cleared", b.X, b.Y)
		}
	}
	if g.Matrix().Count(world.BrickGoal) != 1 {
		t.Error("goal brick was cleared")
	}
}

func TestNonFiniteDamageClampedToOne(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{0: ".....#....G"}), nil)
	b := brickAt(t, g, 0, 0)
	for _, dmg := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		before := b.Health
		g.queue(brickHit{Brick: b.ID, Damage: dmg, Source: events.SourceExplosion})
		g.processEvents()
		if b.Health != before-1 {
			t.Errorf("damage %v: health %v -> %v, want -1", dmg, before, b.Health)
		}
	}
}

func TestLevelClearingWhenGoalsGone(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{-7: "G.........#"}), nil)
	g.Launch(-math.Pi / 2)
	goal := brickAt(t, g, -5, -7)
	g.queue(brickHit{Brick: goal.ID, Damage: 5000, Source: events.SourceExplosion})
	g.processEvents()
	if g.Phase() != PhaseLevelClearing {
		t.Fatalf("phase = %s, want levelClearing", g.Phase())
	}

	g.balls = nil
	for range 20 {
		g.Step(core.InputFrame{})
	}
	if g.Phase() != PhaseLevelComplete {
		t.Errorf("phase = %s, want levelComplete", g.Phase())
	}
	var in core.InputFrame
	in.Set(core.ActionConfirm)
	g.Step(in)
	if g.Phase() != PhaseAiming || g.Level() != 2 {
		t.Errorf("after confirm: phase %s level %d, want aiming level 2", g.Phase(), g.Level())
	}
}

func TestTurnWaitsForOutstandingWork(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{-7: "G.........."}), nil)
	g.Launch(-math.Pi / 2)
	g.balls = nil
	g.processEvents()
	g.schedule(5, func(*Game) {})

	g.checkTurnOver()
	if g.Phase() != PhasePlaying {
		t.Fatalf("turn ended with outstanding work")
	}
	for range 10 {
		g.Step(core.InputFrame{})
		if g.Phase() != PhasePlaying {
			break
		}
	}
	if g.Phase() != PhaseEndTurn && g.Phase() != PhaseAiming {
		t.Errorf("phase = %s, want the end-turn sequence", g.Phase())
	}
}

func TestEndTurnHealersBeforeBuilders(t *testing.T) {
	lines := rows(map[int]string{
		-7: "G..........",
		-1: "...##......",
		0:  "....#......",
	})
	g := newTestGame(t, ModeAdventure, lines, func(c *config.Config) {
		c.Physics.ActionFrames = 2
		c.Overlays.BuilderRange = 1
	})
	builder := brickAt(t, g, -2, -1)
	builder.Overlay = world.OverlayBuilder
	healer := brickAt(t, g, -1, -1)
	healer.Overlay = world.OverlayHealer
	hurt := brickAt(t, g, -1, 0)
	hurt.Health = 500

	g.Launch(-math.Pi / 2)
	g.balls = nil
	g.processEvents()
	g.checkTurnOver()
	if g.Phase() != PhaseEndTurn {
		t.Fatalf("phase = %s, want endTurnSequence", g.Phase())
	}
	if len(g.endTurn) != 2 || g.endTurn[0].overlay != world.OverlayHealer {
		t.Fatalf("end-turn queue = %+v, want healer first", g.endTurn)
	}

	g.Step(core.InputFrame{})
	if hurt.Health != 500 {
		t.Errorf("acted before ActionFrames elapsed")
	}
	g.Step(core.InputFrame{})
	if hurt.Health != 500+float64(g.ctx.Cfg.Overlays.HealAmount) {
		t.Errorf("healer did not act first: health %v", hurt.Health)
	}
	if g.Matrix().At(-2, -2) != nil {
		t.Errorf("builder acted in the same frame as the healer")
	}
	g.Step(core.InputFrame{})
	g.Step(core.InputFrame{})
	if g.Matrix().At(-2, -2) == nil {
		t.Errorf("builder did not spawn a brick above itself")
	}
	for range 4 {
		g.Step(core.InputFrame{})
	}
	if g.Phase() != PhaseAiming {
		t.Errorf("phase = %s, want aiming", g.Phase())
	}
}

func TestAdventureAutoBuyAndGameOver(t *testing.T) {
	tests := []struct {
		name  string
		coins int
		want  Phase
	}{
		{"can buy", 50, PhaseAiming},
		{"broke", 49, PhaseGameOver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, ModeAdventure, rows(map[int]string{-7: "G.........."}), func(c *config.Config) {
				c.Level.StartingBalls = 1
			})
			g.Launch(-math.Pi / 2)
			g.balls = nil
			g.ctx.Stats.Coins = tt.coins
			for range 10 {
				g.Step(core.InputFrame{})
			}
			if g.Phase() != tt.want {
				t.Fatalf("phase = %s, want %s", g.Phase(), tt.want)
			}
			if tt.want == PhaseAiming && (g.Stock(world.BallClassic) != 1 || g.Stats().Coins != 0) {
				t.Errorf("auto-buy: stock %d coins %d", g.Stock(world.BallClassic), g.Stats().Coins)
			}
		})
	}
}

func TestTrialGameOverWhenStockExhausted(t *testing.T) {
	g := newTestGame(t, ModeTrial, rows(map[int]string{-7: "G.........."}), func(c *config.Config) {
		c.Trial.Stock = map[string]int{"split": 1}
	})
	if g.Selected() != world.BallSplit {
		t.Fatalf("selected = %s, want split", g.Selected())
	}
	g.ctx.Stats.Coins = 1000
	g.Launch(-math.Pi / 2)
	g.balls = nil
	for range 10 {
		g.Step(core.InputFrame{})
	}
	if g.Phase() != PhaseGameOver {
		t.Errorf("phase = %s, want gameOver", g.Phase())
	}
}

func TestAimCancelRadius(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{-7: "G.........."}), nil)
	var in core.InputFrame
	in.Release(2, -2)
	g.Step(in)
	if g.Phase() != PhaseAiming {
		t.Fatalf("short aim release launched a ball")
	}
	in.Release(0, -100)
	g.Step(in)
	if g.Phase() != PhasePlaying {
		t.Errorf("phase = %s, want playing", g.Phase())
	}
	if v := g.Balls()[0].Vel; v.Y >= 0 || math.Abs(v.X) > 1e-9 {
		t.Errorf("ball velocity = %+v, want straight up", v)
	}
}

func TestPiercingTakesNoWallDamage(t *testing.T) {
	g := newTestGame(t, ModeTrial, rows(map[int]string{-7: "G.........."}), func(c *config.Config) {
		c.Trial.Stock = map[string]int{"piercing": 1}
	})
	g.Launch(-math.Pi / 2)
	g.UsePowerUp()
	b := g.Balls()[0]
	if !b.IsPiercing {
		t.Fatal("power-up did not make the ball piercing")
	}
	hp := g.Shared().HP
	b.Pos = core.V(g.ctx.Board.Walls().Min.X+b.Radius+1, b.Pos.Y)
	b.Vel = core.V(-4, 0)
	g.Step(core.InputFrame{})
	if g.Shared().HP != hp {
		t.Errorf("hp %v -> %v, want no wall damage", hp, g.Shared().HP)
	}
}

func TestMiniBallsExpireWithMainBall(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{-7: "G.........."}), nil)
	g.Launch(-math.Pi / 2)
	g.UsePowerUp()
	if len(g.Minis()) != 2 {
		t.Fatalf("minis = %d, want 2", len(g.Minis()))
	}
	g.balls[0].Dead = true
	g.Step(core.InputFrame{})
	if len(g.Minis()) != 0 {
		t.Errorf("minis = %d after the main ball died, want 0", len(g.Minis()))
	}
}

func TestInvasionFriendlyGoalsAndGameOver(t *testing.T) {
	g := newTestGame(t, ModeInvasion, nil, nil)
	goals := g.Matrix().Count(world.BrickGoal)
	if goals == 0 {
		t.Fatal("invasion board has no goal bricks")
	}
	var goal *world.Brick
	for _, b := range g.Matrix().Bricks() {
		if b.Type == world.BrickGoal {
			goal = b
			break
		}
	}
	hp := goal.Health
	g.queue(brickHit{Brick: goal.ID, Damage: 50, Source: events.SourceBall})
	g.processEvents()
	if goal.Health != hp {
		t.Errorf("ball damaged a goal brick in invasion")
	}

	g.Launch(-math.Pi / 2)
	for _, b := range g.Matrix().Bricks() {
		if b.Type == world.BrickGoal {
			g.queue(brickHit{Brick: b.ID, Damage: 1e6, Source: events.SourceNPC})
		}
	}
	g.processEvents()
	if g.Phase() != PhaseGameOver {
		t.Errorf("phase = %s, want gameOver", g.Phase())
	}
}

func TestInvasionWaveLoop(t *testing.T) {
	g := newTestGame(t, ModeInvasion, nil, nil)
	inv := g.ctx.Cfg.Invasion

	queue := g.buildSpawnQueue(g.hpPool)
	spent := 0
	for _, n := range queue {
		spent += inv.NPCs[n.String()].Cost
	}
	if len(queue) == 0 || spent > g.hpPool {
		t.Fatalf("spawn queue of %d NPCs costs %d for pool %d", len(queue), spent, g.hpPool)
	}

	pool := g.hpPool
	stock := g.Stock(world.BallClassic)
	if !g.Launch(-math.Pi / 2) {
		t.Fatal("launch failed")
	}
	if !g.waveActive || g.Phase() != PhasePlaying {
		t.Fatal("launch did not start the wave")
	}
	g.balls = nil
	g.spawnQueue = nil
	g.npcs = nil
	g.Step(core.InputFrame{})

	if g.Phase() != PhaseAiming {
		t.Fatalf("phase = %s, want aiming after the wave", g.Phase())
	}
	if g.Wave() != 2 || g.hpPool != pool+inv.HpPoolIncrementPerWave {
		t.Errorf("wave %d pool %d, want wave 2 pool %d", g.Wave(), g.hpPool, pool+inv.HpPoolIncrementPerWave)
	}
	if g.Stock(world.BallClassic) != stock-1+inv.BallsPerWave {
		t.Errorf("stock = %d, want %d", g.Stock(world.BallClassic), stock-1+inv.BallsPerWave)
	}
}

func TestNPCAbilitiesLatch(t *testing.T) {
	g := newTestGame(t, ModeInvasion, nil, nil)
	n := NewNPC(g.ctx, NPCShooting, core.V(100, 100), core.V(0, 1))

	if got := n.TakeDamage(n.MaxHP * 0.3); len(got) != 1 || got[0] != abilityBurst {
		t.Fatalf("first threshold abilities = %v, want one burst", got)
	}
	if got := n.TakeDamage(0.001); len(got) != 0 {
		t.Errorf("threshold fired twice: %v", got)
	}
	if got := n.TakeDamage(n.MaxHP * 0.5); len(got) != 2 {
		t.Errorf("crossing two thresholds gave %d abilities, want 2", len(got))
	}

	e := NewNPC(g.ctx, NPCExplode, core.V(100, 100), core.V(0, 1))
	e.TakeDamage(e.MaxHP * 0.3)
	if e.Armed {
		t.Error("explode NPC armed above half hp")
	}
	e.TakeDamage(e.MaxHP * 0.25)
	if !e.Armed {
		t.Error("explode NPC not armed at half hp")
	}
}

func TestPiercingNPCHitsEachBrickOnce(t *testing.T) {
	tests := []struct {
		name       string
		pierce     int
		wantLeft   int
		wantUpward bool
	}{
		{"pierces both", 3, 1, false},
		{"bounces off the second", 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, ModeAdventure, rows(map[int]string{
				-7: "..........G",
				0:  ".....#.....",
				1:  ".....#.....",
			}), nil)
			upper, lower := brickAt(t, g, 0, 0), brickAt(t, g, 0, 1)

			hits := map[world.BrickID]int{}
			events.On(g.Bus(), func(e events.BrickHit) {
				if e.Source == events.SourceNPC {
					hits[e.Brick]++
				}
			})
			n := NewNPC(g.ctx, NPCPiercing, g.ctx.Board.GridToPixel(0, -3), core.V(0, 1))
			n.PierceLeft = tt.pierce
			for range 120 {
				g.updateNPC(n)
				g.processEvents()
			}

			if hits[upper.ID] != 1 || hits[lower.ID] != 1 {
				t.Errorf("hits upper=%d lower=%d, want 1 each", hits[upper.ID], hits[lower.ID])
			}
			if n.PierceLeft != tt.wantLeft {
				t.Errorf("PierceLeft = %d, want %d", n.PierceLeft, tt.wantLeft)
			}
			if up := n.Vel.Y < 0; up != tt.wantUpward {
				t.Errorf("moving up = %v, want %v", up, tt.wantUpward)
			}
		})
	}
}

func TestAddResourceCapThenConvert(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		amount    int
		limit     int
		wantValue int
		wantCoins int
	}{
		{"under cap", 10, 5, 100, 15, 0},
		{"overflow", 95, 10, 100, 100, 1},
		{"already full", 100, 10, 100, 100, 2},
		{"no cap", 1000, 10, 0, 1010, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.current
			coins := addResource(&v, tt.amount, tt.limit, 0.25)
			if v != tt.wantValue || coins != tt.wantCoins {
				t.Errorf("got (%d, %d), want (%d, %d)", v, coins, tt.wantValue, tt.wantCoins)
			}
		})
	}
}

func TestStateMachineRejectsIllegalTransitions(t *testing.T) {
	sm := NewStateMachine(events.NewBus(nil))
	if err := sm.Transition(PhasePlaying); err == nil {
		t.Error("loading -> playing accepted")
	}
	for _, p := range []Phase{PhaseAiming, PhasePlaying, PhaseLevelClearing, PhaseEndTurn, PhaseLevelComplete, PhaseLoading} {
		if err := sm.Transition(p); err != nil {
			t.Fatalf("transition to %s: %v", p, err)
		}
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() Snapshot {
		g := New(ModeAdventure)
		cfg := config.DefaultConfig()
		g.Configure(Options{Config: &cfg})
		g.Reset(testRuntime)
		Autoplay(g, 4, 99)
		return g.Snapshot()
	}
	a, b := run(), run()
	if a.Hash() != b.Hash() {
		t.Errorf("hashes differ: %d vs %d", a.Hash(), b.Hash())
	}
	if a.Tick != b.Tick || a.Stats.Score != b.Stats.Score {
		t.Errorf("runs diverged: tick %d/%d score %d/%d", a.Tick, b.Tick, a.Stats.Score, b.Stats.Score)
	}
}

func TestAutoplayInvasion(t *testing.T) {
	g := New(ModeInvasion)
	cfg := config.DefaultConfig()
	g.Configure(Options{Config: &cfg})
	g.Reset(testRuntime)
	reports := Autoplay(g, 3, 1)
	if len(reports) == 0 {
		t.Fatal("no turns played")
	}
	if g.Turn() == 0 {
		t.Error("no ball launched")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{0: ".....#....G"}), nil)
	s := g.Snapshot()
	s.Bricks[0].Health = -1
	if g.Matrix().Bricks()[0].Health == -1 {
		t.Error("snapshot shares brick state with the game")
	}
	fresh := g.Snapshot()
	if s.Hash() == fresh.Hash() {
		t.Error("hash ignored a brick health change")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{0: ".....#....G"}), nil)
	screen := core.NewScreen(80, 30)
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "Level 1") {
		t.Errorf("HUD missing level:\n%s", out)
	}

	small := core.NewScreen(20, 10)
	g.Render(small)
	if !strings.Contains(small.String(), "Window too small") {
		t.Error("small screen not reported")
	}
}

func TestDebugEventsLogged(t *testing.T) {
	for _, debug := range []bool{false, true} {
		var buf bytes.Buffer
		logger := log.New(&buf)
		logger.SetLevel(log.DebugLevel)

		cfg := config.DefaultConfig()
		g := New(ModeAdventure)
		g.Configure(Options{Config: &cfg, Logger: logger, DebugEvents: debug})
		g.Reset(testRuntime)
		g.Launch(-math.Pi / 2)

		if got := strings.Contains(buf.String(), "TurnStarted"); got != debug {
			t.Errorf("DebugEvents=%v: TurnStarted logged = %v", debug, got)
		}
	}
}

func TestModesRegistered(t *testing.T) {
	for _, id := range []string{IDAdventure, IDTrial, IDInvasion} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, want %q", g.ID(), id)
		}
	}
}

func TestExportLevelRoundTrip(t *testing.T) {
	g := newTestGame(t, ModeAdventure, rows(map[int]string{0: "..#*-.|w.SG"}), nil)
	code, err := g.ExportLevel()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	m, err := world.ImportCode(code)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if m.String() != g.Matrix().String() {
		t.Errorf("round trip changed the grid:\n%s\nvs\n%s", m, g.Matrix())
	}
}
