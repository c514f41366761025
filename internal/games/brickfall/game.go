package brickfall

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/levelgen"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/physics"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
	"github.com/vovakirdan/brickfall/internal/registry"
)

// Game IDs registered with the registry.
const (
	IDAdventure = "brickfall"
	IDTrial     = "brickfall_trial"
	IDInvasion  = "brickfall_invasion"
)

// levelCompleteFrames is how long the level complete banner stays up
// before the next level loads on its own.
const levelCompleteFrames = 120

// Options configure a game before Reset. The zero value loads config
// from the default search path.
type Options struct {
	ConfigPath string
	Difficulty config.DifficultyPreset
	Config     *config.Config // Used instead of loading when set
	Level      int            // Starting level, 1 when zero
	Logger     *log.Logger
	Equipment  EquipmentProvider // Loadout from config when nil
	Matrix     *world.Matrix     // Custom first level, e.g. an imported share code

	// DebugEvents logs every bus event at debug level.
	DebugEvents bool
}

// Game is one brickfall run in a given mode.
type Game struct {
	mode    Mode
	opts    Options
	runtime core.RuntimeConfig

	ctx       *RunContext
	sm        *StateMachine
	matrix    *world.Matrix
	resolver  *physics.Resolver
	equipment *EquipmentManager
	report    levelgen.Report

	balls       []*Ball
	minis       []*MiniBall
	projectiles []*Projectile
	npcs        []*NPCBall
	delayed     []delayedAction
	pending     []combatEvent
	vfx         []VFX
	sounds      []string

	shared          SharedBallStats
	turnBonusDamage float64
	giantTurn       bool
	combo           int
	golden          bool

	level      int
	turn       int
	tick       uint64
	playFrames int
	aimAngle   float64
	selected   world.BallType
	stock      map[world.BallType]int
	speedUp    bool
	paused     bool

	endTurn       []endTurnAction
	endTurnTimer  int
	completeTimer int

	wave       int
	hpPool     int
	spawnQueue []NPCType
	spawnTimer int
	waveActive bool

	gameOverReason string
	customUsed     bool
	configErr      error
}

// New creates a game in the given mode.
func New(mode Mode) *Game {
	return &Game{mode: mode}
}

// Configure sets options used by the next Reset.
func (g *Game) Configure(opts Options) {
	g.opts = opts
}

// ID returns the registry id for the game's mode.
func (g *Game) ID() string {
	switch g.mode {
	case ModeTrial:
		return IDTrial
	case ModeInvasion:
		return IDInvasion
	default:
		return IDAdventure
	}
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case ModeTrial:
		return "Brickfall (Trial Run)"
	case ModeInvasion:
		return "Brickfall (Invasion)"
	default:
		return "Brickfall"
	}
}

// loadConfig resolves the run configuration. Load errors fall back to
// defaults and are kept for ConfigError.
func (g *Game) loadConfig() config.Config {
	var cfg config.Config
	if g.opts.Config != nil {
		cfg = *g.opts.Config
	} else {
		loaded, err := config.Load(g.opts.ConfigPath)
		g.configErr = err
		if err != nil {
			loaded = config.DefaultConfig()
		}
		cfg = loaded
	}
	if g.opts.Difficulty != "" {
		config.ApplyPreset(&cfg, g.opts.Difficulty)
	}
	return cfg
}

// Reset starts a new run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime.Normalize()
	cfg := g.loadConfig()
	seed := uint64(runtime.Seed) //#nosec G115 -- seed bits
	if cfg.Level.Seed == 0 {
		cfg.Level.Seed = seed
	}

	provider := g.opts.Equipment
	if provider == nil {
		provider = LoadoutFromConfig(cfg.Equipment)
	}
	if g.equipment != nil {
		g.equipment.Close()
	}
	g.ctx = NewRunContext(cfg, g.mode, cfg.Level.Seed, g.opts.Logger, provider)
	if g.opts.DebugEvents {
		g.ctx.Bus.SetDebugListener(events.LogListener(g.ctx.Logger))
	}
	if g.configErr != nil {
		g.ctx.Logger.Warn("config load failed, using defaults", "err", g.configErr)
	}
	if err := cfg.Validate(); err != nil {
		g.ctx.Logger.Warn("config has invalid values", "err", err)
	}
	g.equipment = NewEquipmentManager(g.ctx, g)
	g.sm = NewStateMachine(g.ctx.Bus)

	g.balls, g.minis, g.projectiles, g.npcs = nil, nil, nil, nil
	g.delayed, g.pending, g.vfx, g.sounds = nil, nil, nil, nil
	g.shared = SharedBallStats{}
	g.turnBonusDamage, g.giantTurn, g.combo, g.golden = 0, false, 0, false
	g.level = max(g.opts.Level, 1)
	g.turn, g.tick, g.playFrames = 0, 0, 0
	g.aimAngle = -math.Pi / 2
	g.speedUp, g.paused = false, false
	g.endTurn, g.endTurnTimer, g.completeTimer = nil, 0, 0
	g.spawnQueue, g.spawnTimer, g.waveActive = nil, 0, false
	g.gameOverReason = ""
	g.customUsed = false

	g.stock = make(map[world.BallType]int)
	switch g.mode {
	case ModeTrial:
		for name, n := range cfg.Trial.Stock {
			if t, ok := world.ParseBallType(name); ok {
				g.stock[t] = n
			}
		}
	case ModeInvasion:
		g.stock[world.BallClassic] = cfg.Invasion.StartingBalls
		g.wave = 1
		g.hpPool = cfg.Invasion.StartingHpPool
	default:
		g.stock[world.BallClassic] = cfg.Level.StartingBalls
	}
	g.selected = world.BallClassic

	g.loadLevel()
}

// ConfigError returns the error from the last config load, if any.
func (g *Game) ConfigError() error { return g.configErr }

// loadLevel builds the grid for the current level and starts aiming.
func (g *Game) loadLevel() {
	cfg := g.ctx.Cfg
	b := g.ctx.Board
	var res levelgen.Result
	switch {
	case g.mode == ModeInvasion:
		res = levelgen.Invasion(cfg.Level, b.Cols, b.Rows)
	case g.opts.Matrix != nil && !g.customUsed:
		g.customUsed = true
		res = levelgen.Result{
			Matrix: g.opts.Matrix.Clone(),
			Report: levelgen.Report{Level: g.level, Pattern: "custom"},
		}
	default:
		res = levelgen.Generate(cfg.Level, b.Cols, b.Rows, g.level)
	}
	g.matrix = res.Matrix
	g.report = res.Report
	g.resolver = physics.NewResolver(b, g.matrix, cfg.Physics.SubstepFactor)
	g.ctx.Logger.Debug("level loaded", "level", g.level, "pattern", res.Report.Pattern, "bricks", g.matrix.Len())

	if g.transition(PhaseAiming) {
		g.enterAiming()
	}
}

// nextLevel advances after a completed level. Adventure runs earn one
// classic ball per level and a giant ball every fifth level.
func (g *Game) nextLevel() {
	if !g.transition(PhaseLoading) {
		return
	}
	g.level++
	if g.mode == ModeAdventure {
		g.stock[world.BallClassic]++
		if g.level%5 == 0 {
			g.stock[world.BallGiant]++
		}
	}
	g.loadLevel()
}

// Step advances the game by one frame, or two when sped up.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	phase := g.sm.Phase()
	if in.Has(core.ActionRestart) && phase == PhaseGameOver {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && phase != PhaseGameOver {
		g.paused = !g.paused
	}
	if g.paused || phase == PhaseGameOver {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionSpeedUp) {
		g.speedUp = !g.speedUp
	}

	g.handleInput(in)

	ticks := 1
	if g.speedUp {
		ticks = 2
	}
	for range ticks {
		g.advance()
	}
	return core.StepResult{State: g.State(), Ticks: ticks}
}

func (g *Game) handleInput(in core.InputFrame) {
	switch g.sm.Phase() {
	case PhaseAiming:
		step := g.ctx.Cfg.Physics.AimStep * degree
		if in.Has(core.ActionAimLeft) {
			g.aimAngle = g.clampAim(g.aimAngle - step)
		}
		if in.Has(core.ActionAimRight) {
			g.aimAngle = g.clampAim(g.aimAngle + step)
		}
		if in.Has(core.ActionNextBall) {
			g.cycleBall()
		}
		if in.Aim != nil {
			g.ReleaseAim(in.Aim.DX, in.Aim.DY)
		} else if in.Has(core.ActionFire) {
			g.Launch(g.aimAngle)
		}
	case PhasePlaying, PhaseLevelClearing:
		if in.Has(core.ActionPowerUp) {
			g.usePowerUp()
		}
		if g.mode == ModeInvasion && len(g.balls) == 0 {
			if in.Has(core.ActionAimLeft) {
				g.aimAngle = g.clampAim(g.aimAngle - g.ctx.Cfg.Physics.AimStep*degree)
			}
			if in.Has(core.ActionAimRight) {
				g.aimAngle = g.clampAim(g.aimAngle + g.ctx.Cfg.Physics.AimStep*degree)
			}
			if in.Aim != nil {
				g.ReleaseAim(in.Aim.DX, in.Aim.DY)
			} else if in.Has(core.ActionFire) {
				g.Launch(g.aimAngle)
			}
		}
	case PhaseLevelComplete:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionFire) {
			g.nextLevel()
		}
	}
}

// advance runs one simulation tick.
func (g *Game) advance() {
	g.tick++
	g.sounds = g.sounds[:0]
	if g.ctx.Invulnerable > 0 {
		g.ctx.Invulnerable--
	}

	switch g.sm.Phase() {
	case PhasePlaying, PhaseLevelClearing:
		g.updateOverlays()
		g.updateBalls()
		g.updateMinis()
		g.updateProjectiles()
		if g.mode == ModeInvasion {
			g.updateInvasion()
		}
		g.tickDelayed()
		g.processEvents()
		if g.mode == ModeInvasion {
			g.checkWaveOver()
		} else {
			g.checkTurnOver()
		}
	case PhaseEndTurn:
		g.tickEndTurn()
	case PhaseLevelComplete:
		g.completeTimer--
		if g.completeTimer <= 0 {
			g.nextLevel()
		}
	}
	g.tickVFX()
}

// clampAim keeps the aim above the minimum elevation.
func (g *Game) clampAim(angle float64) float64 {
	minA := g.ctx.Cfg.Physics.MinAimAngle * degree
	lo, hi := -math.Pi+minA, -minA
	if angle > 0 {
		if angle < math.Pi/2 {
			angle = hi
		} else {
			angle = lo
		}
	}
	return core.ClampF(angle, lo, hi)
}

// ReleaseAim launches along an aim vector relative to the launch origin.
// Vectors shorter than the cancel radius cancel the shot.
func (g *Game) ReleaseAim(dx, dy float64) bool {
	if math.Hypot(dx, dy) < g.ctx.cells(g.ctx.Cfg.Physics.CancelRadius) {
		g.ctx.Logger.Debug("aim cancelled")
		return false
	}
	g.aimAngle = g.clampAim(math.Atan2(dy, dx))
	return g.Launch(g.aimAngle)
}

// Launch fires the selected ball type at angle (radians, -π/2 is up).
func (g *Game) Launch(angle float64) bool {
	t := g.selected
	if g.stock[t] <= 0 {
		return false
	}
	switch g.sm.Phase() {
	case PhaseAiming:
		if !g.transition(PhasePlaying) {
			return false
		}
	case PhasePlaying:
		if g.mode != ModeInvasion || len(g.balls) > 0 {
			return false
		}
	default:
		return false
	}
	if g.mode == ModeInvasion && !g.waveActive {
		g.startWave()
	}
	g.stock[t]--

	stats := g.ctx.ballStats(t)
	speed := g.ctx.Cfg.Level.BallSpeed
	if stats.SpeedMultiplier > 0 {
		speed *= stats.SpeedMultiplier
	}
	b := NewBall(g.ctx, t, g.ctx.Board.LaunchOrigin(), core.FromAngle(g.clampAim(angle), speed))
	g.balls = append(g.balls[:0], b)
	g.minis = g.minis[:0]
	g.shared = SharedBallStats{
		Type:           t,
		HP:             b.HP,
		MaxHP:          b.MaxHP,
		PowerUpUses:    b.PowerUpUses,
		PowerUpMaxUses: b.PowerUpMaxUses,
	}
	g.giantTurn = t == world.BallGiant
	g.turnBonusDamage = 0
	g.playFrames = 0
	g.turn++
	g.queue(sound{Name: "launch"})
	g.ctx.Bus.Dispatch(events.TurnStarted{Turn: g.turn, BallType: t, Golden: g.golden})
	return true
}

// SelectBall picks the ball type for the next launch.
func (g *Game) SelectBall(t world.BallType) bool {
	if g.stock[t] <= 0 {
		return false
	}
	g.selected = t
	return true
}

// UsePowerUp activates the current ball's power-up.
func (g *Game) UsePowerUp() bool {
	if p := g.sm.Phase(); p != PhasePlaying && p != PhaseLevelClearing {
		return false
	}
	ok := g.usePowerUp()
	g.processEvents()
	return ok
}

// State reports the platform view of the game.
func (g *Game) State() core.GameState {
	level := g.level
	if g.mode == ModeInvasion {
		level = g.wave
	}
	return core.GameState{
		Score:    g.ctx.Stats.Score,
		Level:    level,
		Phase:    g.sm.Phase().String(),
		GameOver: g.sm.Phase() == PhaseGameOver,
		Paused:   g.paused,
	}
}

// Accessors used by front ends and tests.

func (g *Game) Mode() Mode                 { return g.mode }
func (g *Game) Phase() Phase               { return g.sm.Phase() }
func (g *Game) Context() *RunContext       { return g.ctx }
func (g *Game) Bus() *events.Bus           { return g.ctx.Bus }
func (g *Game) Matrix() *world.Matrix      { return g.matrix }
func (g *Game) Report() levelgen.Report    { return g.report }
func (g *Game) Balls() []*Ball             { return g.balls }
func (g *Game) Minis() []*MiniBall         { return g.minis }
func (g *Game) NPCs() []*NPCBall           { return g.npcs }
func (g *Game) Shared() SharedBallStats    { return g.shared }
func (g *Game) Combo() int                 { return g.combo }
func (g *Game) Stats() RunStats            { return g.ctx.Stats }
func (g *Game) Level() int                 { return g.level }
func (g *Game) Wave() int                  { return g.wave }
func (g *Game) Turn() int                  { return g.turn }
func (g *Game) Golden() bool               { return g.golden }
func (g *Game) Sounds() []string           { return g.sounds }
func (g *Game) Selected() world.BallType   { return g.selected }
func (g *Game) AimAngle() float64          { return g.aimAngle }
func (g *Game) GameOverReason() string     { return g.gameOverReason }
func (g *Game) Stock(t world.BallType) int { return g.stock[t] }

// RunSummary is the outcome of a run for history records.
type RunSummary struct {
	Mode   string
	Seed   int64
	Level  int
	Wave   int
	Score  int
	Coins  int
	XP     int
	Turns  int
	Reason string
	Food   int
	Wood   int

	BestCombo int
}

// Summary reports the run so far.
func (g *Game) Summary() RunSummary {
	st := g.ctx.Stats
	return RunSummary{
		Mode:   g.ID(),
		Seed:   int64(g.ctx.Cfg.Level.Seed), //#nosec G115 -- seed bits
		Level:  g.level,
		Wave:   g.wave,
		Score:  st.Score,
		Coins:  st.Coins,
		XP:     st.XP,
		Turns:  g.turn,
		Reason: g.gameOverReason,
		Food:   st.Food,
		Wood:   st.Wood,

		BestCombo: st.BestCombo,
	}
}

// ExportLevel encodes the current grid as a share code.
func (g *Game) ExportLevel() (string, error) {
	code, err := world.ExportCode(g.matrix)
	if err != nil {
		return "", fmt.Errorf("brickfall: export level: %w", err)
	}
	return code, nil
}

func init() {
	summaries := map[Mode]string{
		ModeAdventure: "Endless levels; buy balls with coins, feed the home base",
		ModeTrial:     "Fixed ball stock per type, no shop",
		ModeInvasion:  "Defend the goal bricks against NPC waves",
	}
	for _, m := range []Mode{ModeAdventure, ModeTrial, ModeInvasion} {
		g := New(m)
		registry.Register(registry.ModeInfo{ID: g.ID(), Title: g.Title(), Summary: summaries[m]},
			func() registry.Game { return New(m) })
	}
}
