package brickfall

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/events"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// EquipmentKind is the closed set of equipment effects.
type EquipmentKind int

const (
	EquipImpactDistributor EquipmentKind = iota // Wall damage × (1 - value), min 1
	EquipVampire                                // Heal value hp per destroyed brick
	EquipSplitter                               // Mini-ball every Nth wall hit
	EquipZapProc                                // value% chance to zap the nearest brick on direct hits
	EquipOvercharge                             // +value damage for the rest of the turn after a power-up
	EquipSecondWind                             // Once per turn, cancel dying and restore value hp
	EquipTreasureHunter                         // +value% bonus coins
)

var equipmentKindNames = [...]string{
	"impact_distributor", "vampire", "splitter", "zap_proc", "overcharge", "second_wind", "treasure_hunter",
}

func (k EquipmentKind) String() string {
	if k >= 0 && int(k) < len(equipmentKindNames) {
		return equipmentKindNames[k]
	}
	return "unknown"
}

// ParseEquipmentKind converts a config name to a kind.
func ParseEquipmentKind(s string) (EquipmentKind, bool) {
	for i, n := range equipmentKindNames {
		if n == s {
			return EquipmentKind(i), true
		}
	}
	return 0, false
}

// EquipmentItem is one equipped effect.
type EquipmentItem struct {
	Kind   EquipmentKind
	Value  float64
	Damage float64
	Every  int
}

// EquipmentProvider answers which equipment is active for a ball type.
// The simulation does not know how equipment is acquired or stored.
type EquipmentProvider interface {
	ActiveEquipmentForBallType(t world.BallType) []EquipmentItem
}

// Loadout is an in-memory EquipmentProvider.
type Loadout struct {
	items map[world.BallType][]EquipmentItem
}

// NewLoadout creates an empty loadout.
func NewLoadout() *Loadout {
	return &Loadout{items: make(map[world.BallType][]EquipmentItem)}
}

// LoadoutFromConfig builds a loadout from config, skipping unknown names.
func LoadoutFromConfig(cfg config.EquipmentConfig) *Loadout {
	l := NewLoadout()
	for name, items := range cfg.Loadout {
		bt, ok := world.ParseBallType(name)
		if !ok {
			continue
		}
		for _, it := range items {
			if item, ok := itemFromConfig(it); ok {
				l.Add(bt, item)
			}
		}
	}
	return l
}

func itemFromConfig(it config.EquipmentItemConfig) (EquipmentItem, bool) {
	k, ok := ParseEquipmentKind(it.Kind)
	if !ok {
		return EquipmentItem{}, false
	}
	return EquipmentItem{Kind: k, Value: it.Value, Damage: it.Damage, Every: it.Every}, true
}

// Add equips an item for a ball type.
func (l *Loadout) Add(t world.BallType, item EquipmentItem) {
	l.items[t] = append(l.items[t], item)
}

// ActiveEquipmentForBallType implements EquipmentProvider.
func (l *Loadout) ActiveEquipmentForBallType(t world.BallType) []EquipmentItem {
	return l.items[t]
}

// effectSink is the narrow surface the equipment manager acts through.
type effectSink interface {
	currentBallType() world.BallType
	healShared(amount float64)
	spawnMiniAt(pos core.Vec2)
	queue(e combatEvent)
	nearestBrick(pos core.Vec2, exclude world.BrickID) *world.Brick
	addBonusCoins(n int)
	addBonusDamage(v float64)
	floatText(pos core.Vec2, text string)
}

// EquipmentManager applies equipment effects by observing bus events.
type EquipmentManager struct {
	ctx  *RunContext
	sink effectSink
	offs []func()

	wallHits     int
	secondWindOn bool // Used this turn
}

// NewEquipmentManager subscribes a manager to the context's bus.
func NewEquipmentManager(ctx *RunContext, sink effectSink) *EquipmentManager {
	m := &EquipmentManager{ctx: ctx, sink: sink}
	bus := ctx.Bus
	m.offs = append(m.offs,
		events.On(bus, m.onTurnStarted),
		events.On(bus, m.onBallHitWall),
		events.On(bus, m.onBrickHit),
		events.On(bus, m.onBrickDestroyed),
		events.On(bus, m.onPowerUpUsed),
		events.On(bus, m.onBallDying),
		events.On(bus, m.onCoinCollected),
	)
	return m
}

// Close unsubscribes the manager.
func (m *EquipmentManager) Close() {
	for _, off := range m.offs {
		off()
	}
	m.offs = nil
}

func (m *EquipmentManager) active(t world.BallType, kind EquipmentKind) []EquipmentItem {
	var out []EquipmentItem
	for _, it := range m.ctx.Equipment.ActiveEquipmentForBallType(t) {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// ModifyWallDamage applies impact distributors to raw wall damage.
func (m *EquipmentManager) ModifyWallDamage(t world.BallType, amount float64) float64 {
	for _, it := range m.active(t, EquipImpactDistributor) {
		amount = math.Max(1, amount*(1-it.Value))
	}
	return amount
}

func (m *EquipmentManager) onTurnStarted(events.TurnStarted) {
	m.wallHits = 0
	m.secondWindOn = false
}

func (m *EquipmentManager) onBallHitWall(e events.BallHitWall) {
	if e.Mini {
		return
	}
	m.wallHits++
	for _, it := range m.active(e.BallType, EquipSplitter) {
		every := max(it.Every, 1)
		if m.wallHits%every == 0 {
			m.sink.spawnMiniAt(e.Pos)
		}
	}
}

func (m *EquipmentManager) onBrickHit(e events.BrickHit) {
	if !e.Source.IsDirect() {
		return
	}
	for _, it := range m.active(e.BallType, EquipZapProc) {
		if !m.ctx.RNG.Chance(it.Value / 100) {
			continue
		}
		target := m.sink.nearestBrick(e.Pos, e.Brick)
		if target == nil {
			continue
		}
		center := target.Center(m.ctx.Board)
		m.sink.queue(brickHit{
			Brick:    target.ID,
			Damage:   it.Damage,
			Source:   events.SourceEquipment,
			BallType: e.BallType,
			Pos:      center,
		})
		m.sink.floatText(center, "zap")
	}
}

func (m *EquipmentManager) onBrickDestroyed(e events.BrickDestroyed) {
	for _, it := range m.active(e.BallType, EquipVampire) {
		m.sink.healShared(it.Value)
	}
}

func (m *EquipmentManager) onPowerUpUsed(e events.PowerUpUsed) {
	for _, it := range m.active(e.BallType, EquipOvercharge) {
		m.sink.addBonusDamage(it.Value)
	}
}

func (m *EquipmentManager) onBallDying(e events.BallDying) {
	if m.secondWindOn || e.Cancel == nil {
		return
	}
	for _, it := range m.active(e.BallType, EquipSecondWind) {
		m.secondWindOn = true
		*e.Cancel = true
		m.sink.healShared(it.Value)
		return
	}
}

func (m *EquipmentManager) onCoinCollected(e events.CoinCollected) {
	for _, it := range m.active(m.sink.currentBallType(), EquipTreasureHunter) {
		if bonus := int(math.Ceil(float64(e.Amount) * it.Value / 100)); bonus > 0 {
			m.sink.addBonusCoins(bonus)
		}
	}
}

// RollEquipment picks a random item from the pool for an equipment brick.
func RollEquipment(ctx *RunContext) (EquipmentItem, bool) {
	pool := ctx.Cfg.Equipment.Pool
	if len(pool) == 0 {
		return EquipmentItem{}, false
	}
	return itemFromConfig(pool[ctx.RNG.Intn(len(pool))])
}
