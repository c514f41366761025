package brickfall

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// Visual characters for rendering
const (
	BallChar       = '●'
	MiniBallChar   = '•'
	DyingBallChar  = '○'
	ProjectileChar = '∙'
	NPCChar        = '◆'
	AimChar        = '·'
	DebrisChar     = '\''
	CellWidth      = 3 // Screen columns per grid cell
	hudRows        = 2
)

var brickGlyphs = map[world.BrickType]rune{
	world.BrickNormal:       '█',
	world.BrickGoal:         '★',
	world.BrickExtraBall:    '+',
	world.BrickExplosive:    '*',
	world.BrickStripeH:      '═',
	world.BrickStripeV:      '║',
	world.BrickWool:         '░',
	world.BrickShieldGen:    '◊',
	world.BrickBallCage:     '#',
	world.BrickEquipment:    '¤',
	world.BrickLog:          '≡',
	world.BrickFood:         '♣',
	world.BrickFarmland:     'f',
	world.BrickSawmill:      's',
	world.BrickBallProducer: 'p',
	world.BrickFoodStorage:  'F',
	world.BrickWoodStorage:  'W',
}

var overlayGlyphs = map[world.Overlay]rune{
	world.OverlaySpike:      '^',
	world.OverlaySniper:     '⌖',
	world.OverlayLaser:      '=',
	world.OverlayHealer:     '♥',
	world.OverlayBuilder:    'B',
	world.OverlayZapper:     'z',
	world.OverlayMine:       'm',
	world.OverlayZapBattery: 'b',
}

// minScreen returns the smallest screen that fits the board and HUD.
func (g *Game) minScreen() (w, h int) {
	b := g.ctx.Board
	return b.TotalCols()*CellWidth + 2, b.TotalRows() + hudRows + 3
}

// toScreen maps a board pixel position to a screen cell.
func (g *Game) toScreen(p core.Vec2, ox, oy int) (int, int) {
	b := g.ctx.Board
	bounds := b.Bounds()
	x := ox + int((p.X-bounds.Min.X)/b.CellSize*CellWidth)
	y := oy + int((p.Y-bounds.Min.Y)/b.CellSize)
	return x, y
}

// AimAt converts a screen cell on a w×h screen into an aim vector from
// the launch origin. ok is false when the cell is outside the board.
func (g *Game) AimAt(x, y, w, h int) (dx, dy float64, ok bool) {
	b := g.ctx.Board
	boxW := b.TotalCols()*CellWidth + 2
	ox, oy := (w-boxW)/2+1, hudRows+1
	cx, cy := x-ox, y-oy
	if cx < 0 || cy < 0 || cx >= b.TotalCols()*CellWidth || cy >= b.TotalRows() {
		return 0, 0, false
	}
	bounds := b.Bounds()
	p := core.V(
		bounds.Min.X+(float64(cx)+0.5)/CellWidth*b.CellSize,
		bounds.Min.Y+(float64(cy)+0.5)*b.CellSize,
	)
	d := p.Sub(b.LaunchOrigin())
	return d.X, d.Y, true
}

func setIn(dst *core.Screen, x, y int, r rune, c core.Color) {
	if x >= 0 && x < dst.Width() && y >= 0 && y < dst.Height() {
		dst.SetColored(x, y, r, c)
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	minW, minH := g.minScreen()
	if dst.Width() < minW || dst.Height() < minH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minW, minH))
		return
	}

	b := g.ctx.Board
	boxW := b.TotalCols()*CellWidth + 2
	boxH := b.TotalRows() + 2
	ox := (dst.Width() - boxW) / 2
	oy := hudRows
	dst.DrawBox(core.NewRect(ox, oy, boxW, boxH))

	g.renderHUD(dst)
	g.renderBricks(dst, ox+1, oy+1)
	g.renderVFX(dst, ox+1, oy+1)
	g.renderBodies(dst, ox+1, oy+1)
	g.renderOverlay(dst)
}

// renderHUD draws the run counters on the top two rows.
func (g *Game) renderHUD(dst *core.Screen) {
	st := g.ctx.Stats
	left := fmt.Sprintf("Score: %d  Coins: %d  XP: %d", st.Score, st.Coins, st.XP)
	dst.DrawText(1, 0, left)
	if g.golden {
		dst.DrawTextColored(len([]rune(left))+3, 0, "GOLDEN", core.ColorGold)
	}

	var right string
	if g.mode == ModeInvasion {
		right = fmt.Sprintf("Wave %d  Pool %d  NPCs %d", g.wave, g.hpPool, g.liveNPCs()+len(g.spawnQueue))
	} else {
		right = fmt.Sprintf("Level %d  Turn %d", g.level, g.turn)
	}
	dst.DrawText(dst.Width()-len([]rune(right))-1, 0, right)

	var line string
	if g.shared.Type == g.selected && g.shared.MaxHP > 0 && len(g.balls) > 0 {
		line = fmt.Sprintf("%s HP %.0f/%.0f  Power %d", g.shared.Type, g.shared.HP, g.shared.MaxHP, g.shared.PowerUpUses)
	} else {
		line = fmt.Sprintf("Ball: %s x%d  (%d total)", g.selected, g.stock[g.selected], g.totalStock())
	}
	if g.combo > 1 {
		line += fmt.Sprintf("  Combo x%d", g.combo)
	}
	if g.speedUp {
		line += "  >>"
	}
	dst.DrawText(1, 1, line)
}

func brickColor(br *world.Brick) core.Color {
	switch br.Type {
	case world.BrickGoal:
		return core.ColorBrightYellow
	case world.BrickExplosive:
		return core.ColorBrightRed
	case world.BrickExtraBall, world.BrickBallCage:
		return core.ColorBrightGreen
	case world.BrickEquipment:
		return core.ColorBrightMagenta
	case world.BrickShieldGen, world.BrickStripeH, world.BrickStripeV:
		return core.ColorBrightCyan
	case world.BrickWool:
		return core.ColorWhite
	}
	return core.HealthColor(br.Health / max(br.MaxHealth, 1))
}

func (g *Game) renderBricks(dst *core.Screen, ox, oy int) {
	b := g.ctx.Board
	for _, br := range g.matrix.Bricks() {
		glyph := brickGlyphs[br.Type]
		color := brickColor(br)
		br.Cells(func(gx, gy int) {
			origin := b.CellOrigin(gx, gy)
			x, y := g.toScreen(origin, ox, oy)
			for dx := range CellWidth {
				setIn(dst, x+dx, y, glyph, color)
			}
		})
		if r, ok := overlayGlyphs[br.Overlay]; ok {
			x, y := g.toScreen(br.Center(b), ox, oy)
			setIn(dst, x, y, r, core.ColorOrange)
		}
	}
}

func (g *Game) renderBodies(dst *core.Screen, ox, oy int) {
	if g.sm.Phase() == PhaseAiming || (g.mode == ModeInvasion && len(g.balls) == 0 && g.sm.Phase() == PhasePlaying) {
		origin := g.ctx.Board.LaunchOrigin()
		for i := 1; i <= 6; i++ {
			p := origin.Add(core.FromAngle(g.aimAngle, float64(i)*g.ctx.Board.CellSize*0.8))
			x, y := g.toScreen(p, ox, oy)
			setIn(dst, x, y, AimChar, core.ColorWhite)
		}
		x, y := g.toScreen(origin, ox, oy)
		setIn(dst, x, y, BallChar, core.ColorBrightWhite)
	}
	for _, n := range g.npcs {
		x, y := g.toScreen(n.Pos, ox, oy)
		c := core.ColorRed
		if n.Armed {
			c = core.ColorBrightRed
		}
		setIn(dst, x, y, NPCChar, c)
	}
	for _, p := range g.projectiles {
		x, y := g.toScreen(p.Pos, ox, oy)
		c := core.ColorYellow
		if p.Kind == ProjectileSniper || p.Kind == ProjectileNPC {
			c = core.ColorRed
		}
		setIn(dst, x, y, ProjectileChar, c)
	}
	for _, m := range g.minis {
		x, y := g.toScreen(m.Pos, ox, oy)
		setIn(dst, x, y, MiniBallChar, core.ColorBrightWhite)
	}
	for _, ball := range g.balls {
		x, y := g.toScreen(ball.Pos, ox, oy)
		r, c := BallChar, core.ColorBrightWhite
		switch {
		case ball.IsDying:
			r, c = DyingBallChar, core.ColorGray
		case ball.IsGhost:
			c = core.ColorGray
		case ball.IsPiercing:
			c = core.ColorBrightMagenta
		}
		setIn(dst, x, y, r, c)
	}
}

func (g *Game) renderVFX(dst *core.Screen, ox, oy int) {
	for _, v := range g.vfx {
		x, y := g.toScreen(v.Pos, ox, oy)
		switch v.Kind {
		case VFXFloatingText, VFXXPOrb:
			c := core.ColorBrightYellow
			if v.Kind == VFXXPOrb {
				c = core.ColorBrightGreen
			}
			for i, r := range v.Text {
				setIn(dst, x+i, y, r, c)
			}
		case VFXDebris:
			if v.Frames < v.MaxFrames/2 {
				continue
			}
			tx, ty := g.toScreen(v.To, ox, oy)
			setIn(dst, tx, ty, DebrisChar, core.ColorGray)
		case VFXShockwave:
			r := int(v.Radius / g.ctx.Board.CellSize)
			for dx := -r * CellWidth; dx <= r*CellWidth; dx += CellWidth {
				setIn(dst, x+dx, y-r, '~', core.ColorOrange)
				setIn(dst, x+dx, y+r, '~', core.ColorOrange)
			}
		case VFXLightning, VFXLaser:
			tx, ty := g.toScreen(v.To, ox, oy)
			steps := core.ChebyshevDist(tx, ty, x, y)
			for i := 0; i <= steps; i++ {
				px := x + (tx-x)*i/max(steps, 1)
				py := y + (ty-y)*i/max(steps, 1)
				setIn(dst, px, py, '-', core.ColorBrightCyan)
			}
		}
	}
}

// renderOverlay draws phase messages.
func (g *Game) renderOverlay(dst *core.Screen) {
	if g.paused {
		g.drawCenteredBox(dst, "PAUSED", "Press P to resume")
		return
	}
	switch g.sm.Phase() {
	case PhaseAiming:
		hint := "←/→ aim  SPACE launch  TAB ball"
		if g.mode == ModeInvasion {
			hint = fmt.Sprintf("Wave %d: SPACE to launch", g.wave)
		}
		dst.DrawTextCentered(dst.Height()-1, hint)
	case PhasePlaying, PhaseLevelClearing:
		dst.DrawTextCentered(dst.Height()-1, "E power-up  F speed")
	case PhaseEndTurn:
		dst.DrawTextCentered(dst.Height()-1, strings.Repeat(".", len(g.endTurn)+1))
	case PhaseLevelComplete:
		g.drawCenteredBox(dst, fmt.Sprintf("LEVEL %d COMPLETE", g.level), "Press ENTER to continue")
	case PhaseGameOver:
		subtitle := fmt.Sprintf("Score: %d  |  Press R to restart", g.ctx.Stats.Score)
		g.drawCenteredBox(dst, "GAME OVER", subtitle)
	}
}

// drawCenteredBox draws a centered message box.
func (g *Game) drawCenteredBox(dst *core.Screen, title, subtitle string) {
	box := core.CenteredRect(max(len(title), len(subtitle))+4, 5, dst.Width(), dst.Height())
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	dst.DrawText(box.X+(box.W-len(title))/2, box.Y+1, title)
	dst.DrawText(box.X+(box.W-len(subtitle))/2, box.Y+3, subtitle)
}
