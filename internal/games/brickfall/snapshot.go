package brickfall

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// BallView is a read-only copy of a main ball.
type BallView struct {
	Type     string
	X, Y     float64
	VX, VY   float64
	Radius   float64
	HP       float64
	Dying    bool
	Ghost    bool
	Piercing bool
}

// BodyView is a read-only copy of a mini-ball, projectile or NPC.
type BodyView struct {
	Kind   string
	X, Y   float64
	Radius float64
	HP     float64
}

// BrickView is a read-only copy of a brick.
type BrickView struct {
	ID        int
	Type      string
	Overlay   string
	X, Y      int
	W, H      int
	Health    float64
	MaxHealth float64
	Coins     int
}

// Snapshot is the renderer boundary: a value copy of everything visible.
// Mutating it has no effect on the game.
type Snapshot struct {
	Tick     uint64
	Mode     string
	Phase    string
	Level    int
	Wave     int
	Turn     int
	HpPool   int
	Combo    int
	Golden   bool
	AimAngle float64
	Selected string
	Stock    []int // Indexed like world.MainBallTypes
	Shared   SharedBallStats
	Stats    RunStats

	Balls       []BallView
	Minis       []BodyView
	Projectiles []BodyView
	NPCs        []BodyView
	Bricks      []BrickView
	VFX         []VFX
	Sounds      []string

	RNGState uint64
}

var projectileNames = [...]string{"bullet", "homing", "sniper", "npc"}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:     g.tick,
		Mode:     g.mode.String(),
		Phase:    g.sm.Phase().String(),
		Level:    g.level,
		Wave:     g.wave,
		Turn:     g.turn,
		HpPool:   g.hpPool,
		Combo:    g.combo,
		Golden:   g.golden,
		AimAngle: g.aimAngle,
		Selected: g.selected.String(),
		Shared:   g.shared,
		Stats:    g.ctx.Stats,
		VFX:      append([]VFX(nil), g.vfx...),
		Sounds:   append([]string(nil), g.sounds...),
		RNGState: g.ctx.RNG.State(),
	}
	for _, t := range world.MainBallTypes() {
		s.Stock = append(s.Stock, g.stock[t])
	}
	for _, b := range g.balls {
		s.Balls = append(s.Balls, BallView{
			Type: b.Type.String(), X: b.Pos.X, Y: b.Pos.Y, VX: b.Vel.X, VY: b.Vel.Y,
			Radius: b.Radius, HP: b.HP, Dying: b.IsDying, Ghost: b.IsGhost, Piercing: b.IsPiercing,
		})
	}
	for _, m := range g.minis {
		s.Minis = append(s.Minis, BodyView{Kind: "mini", X: m.Pos.X, Y: m.Pos.Y, Radius: m.Radius})
	}
	for _, p := range g.projectiles {
		s.Projectiles = append(s.Projectiles, BodyView{Kind: projectileNames[p.Kind], X: p.Pos.X, Y: p.Pos.Y, Radius: p.Radius})
	}
	for _, n := range g.npcs {
		s.NPCs = append(s.NPCs, BodyView{Kind: n.Type.String(), X: n.Pos.X, Y: n.Pos.Y, Radius: n.Radius, HP: n.HP})
	}
	for _, b := range g.matrix.Bricks() {
		s.Bricks = append(s.Bricks, BrickView{
			ID: int(b.ID), Type: b.Type.String(), Overlay: b.Overlay.String(),
			X: b.X, Y: b.Y, W: b.W, H: b.H,
			Health: b.Health, MaxHealth: b.MaxHealth, Coins: b.Coins,
		})
	}
	return s
}

// Hash returns an FNV-1a hash of the simulation state for determinism
// tests. VFX and sounds are presentation only and are not hashed.
func (s Snapshot) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putU := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	putI := func(v int) { putU(uint64(v)) } //#nosec G115 -- hash computation
	putF := func(v float64) { putU(math.Float64bits(v)) }
	putB := func(v bool) {
		if v {
			putU(1)
		} else {
			putU(0)
		}
	}

	putU(s.Tick)
	h.Write([]byte(s.Mode + "/" + s.Phase))
	putI(s.Level)
	putI(s.Wave)
	putI(s.Turn)
	putI(s.HpPool)
	putI(s.Combo)
	putB(s.Golden)
	putF(s.AimAngle)
	for _, n := range s.Stock {
		putI(n)
	}
	putF(s.Shared.HP)
	putI(s.Shared.PowerUpUses)
	putI(s.Stats.Coins)
	putI(s.Stats.XP)
	putI(s.Stats.Score)
	putF(s.Stats.DamageDealt)
	for _, b := range s.Balls {
		putF(b.X)
		putF(b.Y)
		putF(b.VX)
		putF(b.VY)
		putB(b.Dying)
	}
	for _, group := range [][]BodyView{s.Minis, s.Projectiles, s.NPCs} {
		putI(len(group))
		for _, b := range group {
			putF(b.X)
			putF(b.Y)
			putF(b.HP)
		}
	}
	for _, b := range s.Bricks {
		putI(b.ID)
		putI(b.X)
		putI(b.Y)
		putF(b.Health)
	}
	putU(s.RNGState)
	return h.Sum64()
}
