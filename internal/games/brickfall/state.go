package brickfall

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/brickfall/internal/events"
)

// Phase is a turn or wave lifecycle state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAiming
	PhasePlaying
	PhaseLevelClearing
	PhaseEndTurn
	PhaseLevelComplete
	PhaseGameOver
)

var phaseNames = [...]string{
	"loading", "aiming", "playing", "levelClearing", "endTurnSequence", "levelComplete", "gameOver",
}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// ErrIllegalTransition is returned for transitions the lifecycle forbids.
var ErrIllegalTransition = errors.New("illegal phase transition")

// transitions lists the legal targets per phase. Invasion reuses
// playing -> aiming for its wave loop.
var transitions = map[Phase][]Phase{
	PhaseLoading:       {PhaseAiming},
	PhaseAiming:        {PhasePlaying, PhaseGameOver, PhaseLoading},
	PhasePlaying:       {PhaseLevelClearing, PhaseEndTurn, PhaseAiming, PhaseGameOver},
	PhaseLevelClearing: {PhaseEndTurn, PhaseGameOver},
	PhaseEndTurn:       {PhaseAiming, PhaseLevelComplete, PhaseGameOver},
	PhaseLevelComplete: {PhaseLoading},
	PhaseGameOver:      {PhaseLoading},
}

// StateMachine guards phase changes and announces them on the bus.
type StateMachine struct {
	phase Phase
	bus   *events.Bus
}

// NewStateMachine starts in loading.
func NewStateMachine(bus *events.Bus) *StateMachine {
	return &StateMachine{phase: PhaseLoading, bus: bus}
}

// Phase returns the current phase.
func (s *StateMachine) Phase() Phase { return s.phase }

// CanTransition reports whether to is reachable from the current phase.
func (s *StateMachine) CanTransition(to Phase) bool {
	for _, p := range transitions[s.phase] {
		if p == to {
			return true
		}
	}
	return false
}

// Transition moves to the target phase. Transitioning to the current
// phase is a no-op.
func (s *StateMachine) Transition(to Phase) error {
	if to == s.phase {
		return nil
	}
	if !s.CanTransition(to) {
		return fmt.Errorf("brickfall: %s -> %s: %w", s.phase, to, ErrIllegalTransition)
	}
	from := s.phase
	s.phase = to
	s.bus.Dispatch(events.PhaseChanged{From: from.String(), To: to.String()})
	return nil
}

// transition changes phase, logging refused transitions.
func (g *Game) transition(to Phase) bool {
	if err := g.sm.Transition(to); err != nil {
		g.ctx.Logger.Warn("phase transition refused", "err", err)
		return false
	}
	return true
}

// endRun moves to game over once.
func (g *Game) endRun(reason string) {
	if g.sm.Phase() == PhaseGameOver {
		return
	}
	if g.sm.Phase() == PhaseLoading {
		g.sm.phase = PhaseGameOver
	} else if !g.transition(PhaseGameOver) {
		return
	}
	g.gameOverReason = reason
	g.ctx.Logger.Info("run ended", "reason", reason, "level", g.level, "score", g.ctx.Stats.Score)
	g.ctx.Bus.Dispatch(events.GameOver{Reason: reason})
}
