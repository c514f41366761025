package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/brickfall/internal/config"
)

var setupPresets = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

const maxStartLevel = 99

// Setup fields.
const (
	setupDifficulty = iota
	setupLevel
	setupStart
	setupFieldCount
)

// SetupModel picks the difficulty preset and starting level of a run.
type SetupModel struct {
	title  string
	preset int
	level  int
	field  int
}

// NewSetupModel creates a setup screen for the given mode title.
func NewSetupModel(title string) SetupModel {
	return SetupModel{title: title, preset: 1, level: 1}
}

// Difficulty returns the selected preset.
func (s SetupModel) Difficulty() config.DifficultyPreset {
	return setupPresets[s.preset]
}

// Level returns the selected starting level.
func (s SetupModel) Level() int {
	return s.level
}

// Handle applies a menu action. It returns true when the player starts
// the run.
func (s *SetupModel) Handle(action MenuAction) (start bool) {
	switch action {
	case MenuActionUp:
		s.field = (s.field + setupFieldCount - 1) % setupFieldCount
	case MenuActionDown:
		s.field = (s.field + 1) % setupFieldCount
	case MenuActionLeft:
		s.adjust(-1)
	case MenuActionRight:
		s.adjust(1)
	case MenuActionSelect:
		return true
	}
	return false
}

func (s *SetupModel) adjust(delta int) {
	switch s.field {
	case setupDifficulty:
		s.preset = (s.preset + len(setupPresets) + delta) % len(setupPresets)
	case setupLevel:
		s.level = min(max(s.level+delta, 1), maxStartLevel)
	}
}

// View renders the setup screen.
func (s SetupModel) View(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(s.title, width))
	b.WriteString("\n\n")

	lines := []string{
		fmt.Sprintf("Difficulty: < %s >", s.Difficulty()),
		fmt.Sprintf("Start level: < %d >", s.level),
		"Start",
	}
	for i, line := range lines {
		cursor := "  "
		if i == s.field {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+line, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Field  |  Left/Right: Change  |  Enter: Start  |  Esc: Back", width))
	b.WriteString("\n")
	return b.String()
}
