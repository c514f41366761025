// Package brickfall implements the brickfall simulation: ball and NPC
// entities, the combat resolution pipeline, chain-reaction destruction,
// the turn and wave state machine, equipment effects and the home base.
package brickfall

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// Mode selects the run rules.
type Mode int

const (
	ModeAdventure Mode = iota // Endless levels, buy balls with coins
	ModeTrial                 // Fixed ball stock per type
	ModeInvasion              // Defend goal bricks against NPC waves
)

func (m Mode) String() string {
	switch m {
	case ModeTrial:
		return "trial"
	case ModeInvasion:
		return "invasion"
	default:
		return "adventure"
	}
}

// RunStats are the currency and progress counters of one run.
type RunStats struct {
	Coins int
	Gems  int
	Food  int
	Wood  int
	XP    int
	Score int

	BricksBroken int
	DamageDealt  float64
	BestCombo    int
}

// SharedBallStats is the single hp and power-up pool for every main ball
// in play during a turn.
type SharedBallStats struct {
	Type           world.BallType
	HP             float64
	MaxHP          float64
	PowerUpUses    int
	PowerUpMaxUses int
}

// Alive reports whether the pool still has hp.
func (s SharedBallStats) Alive() bool { return s.HP > 0 }

// RunContext carries everything a run's subsystems share. It is created
// once per run and passed by reference; nothing here is global.
type RunContext struct {
	Cfg       config.Config
	Board     world.Board
	Mode      Mode
	Logger    *log.Logger
	Bus       *events.Bus
	RNG       *core.RNG
	Equipment EquipmentProvider
	Stats     RunStats

	// Invulnerable suppresses damage_taken while positive (frames).
	Invulnerable int
}

// NewRunContext creates a context. A nil logger discards output and a nil
// provider means no equipment.
func NewRunContext(cfg config.Config, mode Mode, seed uint64, logger *log.Logger, provider EquipmentProvider) *RunContext {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if provider == nil {
		provider = NewLoadout()
	}
	return &RunContext{
		Cfg:       cfg,
		Board:     world.NewBoard(cfg.Board),
		Mode:      mode,
		Logger:    logger,
		Bus:       events.NewBus(logger),
		RNG:       core.NewRNG(seed),
		Equipment: provider,
	}
}

// ballStats returns the stats for a ball type, logging fallbacks.
func (ctx *RunContext) ballStats(t world.BallType) config.BallStats {
	s, ok := ctx.Cfg.BallStatsFor(t.String())
	if !ok {
		ctx.Logger.Warn("no stats for ball type, using fallback", "type", t)
	}
	return s
}

// enchantment returns the enchantment record for a ball type.
func (ctx *RunContext) enchantment(t world.BallType) config.Enchantment {
	return ctx.Cfg.Enchantments[t.String()]
}

// cells converts a distance in cells to pixels.
func (ctx *RunContext) cells(n float64) float64 {
	return n * ctx.Board.CellSize
}

// addResource applies the cap-then-convert rule: amounts above the run cap
// are converted to coins at rate. It returns the coins produced.
func addResource(current *int, amount, limit int, rate float64) (coins int) {
	if amount <= 0 {
		return 0
	}
	if limit <= 0 {
		*current += amount
		return 0
	}
	room := max(limit-*current, 0)
	kept := min(amount, room)
	*current += kept
	overflow := amount - kept
	return int(math.Floor(float64(overflow) * rate))
}
