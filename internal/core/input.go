package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, Up arrow - menu up
	ActionDown            // S, Down arrow - menu down
	ActionAimLeft         // A, Left arrow - rotate aim counter-clockwise
	ActionAimRight        // D, Right arrow - rotate aim clockwise
	ActionFire            // Space - release the aimed shot
	ActionPowerUp         // E - activate the ball power-up
	ActionSpeedUp         // F - toggle 2x simulation speed
	ActionNextBall        // Tab - cycle selected ball type
	ActionConfirm         // Enter - confirm selection in menu
	ActionBack            // B, Escape - go back to menu
	ActionRestart         // R key - restart game after game over
	ActionQuit            // Q, Ctrl+C - exit game/session
	ActionPause           // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionAimLeft:
		return "AimLeft"
	case ActionAimRight:
		return "AimRight"
	case ActionFire:
		return "Fire"
	case ActionPowerUp:
		return "PowerUp"
	case ActionSpeedUp:
		return "SpeedUp"
	case ActionNextBall:
		return "NextBall"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// AimRelease is the discrete "aim vector released" command.
// The vector points from the launch origin toward the aim target, in board
// pixels. Releasing a vector shorter than the cancel radius cancels the aim.
type AimRelease struct {
	DX, DY float64
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// Aim is set when the player released an explicit aim vector this frame.
	Aim *AimRelease
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Release records an aim release command for this frame.
func (f *InputFrame) Release(dx, dy float64) {
	f.Aim = &AimRelease{DX: dx, DY: dy}
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Aim = nil
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	if f.Aim != nil {
		aim := *f.Aim
		clone.Aim = &aim
	}
	return clone
}
