package brickfall

import (
	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/physics"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// NPCType is the closed set of invasion enemies.
type NPCType int

const (
	NPCNormal NPCType = iota
	NPCShooting
	NPCExplode
	NPCPiercing
)

var npcTypeNames = [...]string{"normal", "shooting", "explode", "piercing"}

func (t NPCType) String() string {
	if t >= 0 && int(t) < len(npcTypeNames) {
		return npcTypeNames[t]
	}
	return "unknown"
}

// NPCTypes lists every NPC type in spawn-queue order.
func NPCTypes() []NPCType {
	return []NPCType{NPCNormal, NPCShooting, NPCExplode, NPCPiercing}
}

// npcThresholds are the hp fractions at which staged abilities fire.
var npcThresholds = [3]float64{0.75, 0.5, 0.25}

// NPCBall is an invasion enemy. Staged abilities are latched so each
// threshold fires once.
type NPCBall struct {
	physics.Body
	Type  NPCType
	Stats config.NPCStats
	HP    float64
	MaxHP float64
	Dead  bool

	Fired      [3]bool // Latched thresholds
	Armed      bool    // Explode type: detonates on next brick contact
	PierceLeft int

	pierced []world.BrickID // Bricks passed through and still overlapped
}

// NewNPC creates an NPC at pos heading along vel.
func NewNPC(ctx *RunContext, t NPCType, pos, vel core.Vec2) *NPCBall {
	stats := ctx.Cfg.Invasion.NPCs[t.String()]
	if stats.HP <= 0 {
		ctx.Logger.Warn("no stats for npc type, using fallback", "type", t)
		stats = config.NPCStats{HP: 20, Cost: 20, RadiusMultiplier: 0.4, Speed: 1.5, ContactDamage: 10}
	}
	return &NPCBall{
		Body: physics.Body{
			Pos:    pos,
			Vel:    vel.Normalize().Scale(stats.Speed),
			Radius: ctx.Board.Radius(stats.RadiusMultiplier),
		},
		Type:       t,
		Stats:      stats,
		HP:         stats.HP,
		MaxHP:      stats.HP,
		PierceLeft: stats.PierceCount,
	}
}

// npcAbility is a staged ability triggered by TakeDamage.
type npcAbility int

const (
	abilityNone npcAbility = iota
	abilityBurst
	abilityArm
)

// TakeDamage applies damage and returns the abilities crossed by it, in
// threshold order.
func (n *NPCBall) TakeDamage(dmg float64) []npcAbility {
	if n.Dead {
		return nil
	}
	n.HP -= dmg
	if n.HP <= 0 {
		n.HP = 0
		n.Dead = true
	}
	var out []npcAbility
	frac := n.HP / n.MaxHP
	for i, th := range npcThresholds {
		if n.Fired[i] || frac > th {
			continue
		}
		n.Fired[i] = true
		switch n.Type {
		case NPCShooting:
			out = append(out, abilityBurst)
		case NPCExplode:
			if th <= 0.5 && !n.Armed {
				n.Armed = true
				out = append(out, abilityArm)
			}
		}
	}
	return out
}
