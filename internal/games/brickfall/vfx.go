package brickfall

import "github.com/vovakirdan/brickfall/internal/core"

// VFXKind names a visual effect descriptor.
type VFXKind int

const (
	VFXFloatingText VFXKind = iota
	VFXShockwave
	VFXDebris
	VFXXPOrb
	VFXLightning
	VFXLaser
)

// VFX is presentation data only. The simulation never reads it back.
type VFX struct {
	Kind      VFXKind
	Pos, To   core.Vec2
	Radius    float64
	Text      string
	Frames    int
	MaxFrames int
}

// maxVFX caps live descriptors; the oldest are dropped first.
const maxVFX = 256

func (g *Game) addVFX(v VFX) {
	if v.MaxFrames == 0 {
		v.MaxFrames = max(g.ctx.Cfg.Combat.VFXFrames, 1)
	}
	v.Frames = v.MaxFrames
	g.vfx = append(g.vfx, v)
	if over := len(g.vfx) - maxVFX; over > 0 {
		g.vfx = append(g.vfx[:0], g.vfx[over:]...)
	}
}

func (g *Game) floatText(pos core.Vec2, text string) {
	g.addVFX(VFX{Kind: VFXFloatingText, Pos: pos, Text: text})
}

func (g *Game) tickVFX() {
	kept := g.vfx[:0]
	for _, v := range g.vfx {
		v.Frames--
		if v.Kind == VFXFloatingText || v.Kind == VFXXPOrb {
			v.Pos.Y -= 0.5
		}
		if v.Frames > 0 {
			kept = append(kept, v)
		}
	}
	g.vfx = kept
}
