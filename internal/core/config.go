package core

import "time"

const (
	defaultScreenW  = 80
	defaultScreenH  = 24
	defaultTickRate = 60
)

// RuntimeConfig is what the platform tells a game at Reset: the terminal
// size, the frame rate and the run seed. Zero fields mean "use the
// default"; a zero Seed is replaced by the platform with the clock.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int // Frames per second
	Seed     int64
}

// Normalize fills zero or negative fields with defaults.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	if c.ScreenW <= 0 {
		c.ScreenW = defaultScreenW
	}
	if c.ScreenH <= 0 {
		c.ScreenH = defaultScreenH
	}
	if c.TickRate <= 0 {
		c.TickRate = defaultTickRate
	}
	return c
}

// FrameInterval is the wall time of one frame at TickRate.
func (c RuntimeConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Normalize().TickRate)
}

// GameState is the platform-facing summary of a run.
type GameState struct {
	Score    int
	Level    int    // Level, or wave in invasion mode
	Phase    string // Shown in the HUD and logs
	GameOver bool
	Paused   bool
}

// StepResult is returned by one Game.Step.
type StepResult struct {
	State GameState
	Ticks int // Simulation ticks executed this step (2 when sped up)
}
