package core

// Color is a foreground color for a screen cell. The front end maps it to
// an ANSI 256-color code.
type Color uint8

// Palette entries.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorGold

	// ColorCount is the number of palette entries.
	ColorCount
)

// healthRamp runs from an almost broken brick to a full one.
var healthRamp = [...]Color{ColorGray, ColorCyan, ColorBlue, ColorBrightBlue}

// HealthColor maps a health fraction to the brick health ramp. Values
// outside [0, 1] are clamped.
func HealthColor(frac float64) Color {
	frac = ClampF(frac, 0, 1)
	i := int(frac*float64(len(healthRamp)-1) + 0.5)
	return healthRamp[i]
}
