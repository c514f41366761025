package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/brickfall/internal/core"
)

// ansiCodes maps each palette entry to an ANSI 256-color code. The empty
// code leaves the terminal's default foreground.
var ansiCodes = [core.ColorCount]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorGold:          "220",
}

// palette holds one style per color, built once.
var palette = buildPalette()

func buildPalette() [core.ColorCount]lipgloss.Style {
	var p [core.ColorCount]lipgloss.Style
	for c, code := range ansiCodes {
		st := lipgloss.NewStyle()
		if code != "" {
			st = st.Foreground(lipgloss.Color(code))
		}
		// Balls and golden-turn text stand out from the bricks
		if core.Color(c) == core.ColorBrightWhite || core.Color(c) == core.ColorGold {
			st = st.Bold(true)
		}
		p[c] = st
	}
	return p
}

// styleFor returns the style of a color, falling back to the default.
func styleFor(c core.Color) lipgloss.Style {
	if int(c) >= len(palette) {
		return palette[core.ColorDefault]
	}
	return palette[c]
}

// RenderScreen converts a Screen buffer to a styled string. Runs of cells
// with the same color share one escape sequence; default-colored runs are
// written raw.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	run := make([]rune, 0, s.Width())
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < s.Width(); {
			color := s.GetCell(x, y).Color
			run = run[:0]
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run = append(run, cell.Rune)
			}
			if color == core.ColorDefault {
				sb.WriteString(string(run))
				continue
			}
			sb.WriteString(styleFor(color).Render(string(run)))
		}
	}
	return sb.String()
}
