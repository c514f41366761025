package events

import (
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

// HitSource tells direct ball contact apart from indirect damage.
type HitSource int

const (
	SourceBall HitSource = iota
	SourceMiniBall
	SourceProjectile
	SourceChain
	SourceExplosion
	SourceStripe
	SourceEquipment
	SourceNPC
)

var hitSourceNames = [...]string{"ball", "miniball", "projectile", "chain", "explosion", "stripe", "equipment", "npc"}

func (s HitSource) String() string {
	if s >= 0 && int(s) < len(hitSourceNames) {
		return hitSourceNames[s]
	}
	return "unknown"
}

// IsDirect reports whether the hit came from a ball or mini-ball body.
func (s HitSource) IsDirect() bool {
	return s == SourceBall || s == SourceMiniBall
}

// BallHitWall fires when a main ball or mini-ball bounces off a wall.
type BallHitWall struct {
	BallType world.BallType
	Mini     bool
	Pos      core.Vec2
}

func (BallHitWall) Name() string { return "BallHitWall" }

// BrickHit fires after damage is applied to a brick.
type BrickHit struct {
	Brick    world.BrickID
	BallType world.BallType
	Source   HitSource
	Damage   float64
	Pos      core.Vec2
}

func (BrickHit) Name() string { return "BrickHit" }

// BrickDestroyed fires once per brick in the destruction sweep.
type BrickDestroyed struct {
	Brick     world.BrickID
	Type      world.BrickType
	Overlay   world.Overlay
	MaxHealth float64
	Pos       core.Vec2
	BallType  world.BallType
}

func (BrickDestroyed) Name() string { return "BrickDestroyed" }

// XpCollected fires when XP is awarded.
type XpCollected struct {
	Amount int
	Total  int
}

func (XpCollected) Name() string { return "XpCollected" }

// CoinCollected fires when coins are awarded.
type CoinCollected struct {
	Amount int
	Total  int
	Pos    core.Vec2
}

func (CoinCollected) Name() string { return "CoinCollected" }

// PowerUpUsed fires when a ball's power-up activates.
type PowerUpUsed struct {
	BallType  world.BallType
	Remaining int
	Pos       core.Vec2
}

func (PowerUpUsed) Name() string { return "PowerUpUsed" }

// BallHpLost fires for each damage_taken event before modifiers apply.
type BallHpLost struct {
	BallType  world.BallType
	Amount    float64
	Remaining float64
}

func (BallHpLost) Name() string { return "BallHpLost" }

// BallDying fires when the shared ball pool reaches zero hp.
// A listener may set Cancel to keep the balls alive.
type BallDying struct {
	BallType world.BallType
	Cancel   *bool
}

func (BallDying) Name() string { return "BallDying" }

// ComboChanged fires when the combo counter changes.
type ComboChanged struct {
	Combo int
	Best  int
}

func (ComboChanged) Name() string { return "ComboChanged" }

// TurnStarted fires when a shot is released.
type TurnStarted struct {
	Turn     int
	BallType world.BallType
	Golden   bool
}

func (TurnStarted) Name() string { return "TurnStarted" }

// TurnEnded fires when the end-of-turn sequence completes.
type TurnEnded struct {
	Turn int
}

func (TurnEnded) Name() string { return "TurnEnded" }

// PhaseChanged fires on every state machine transition.
type PhaseChanged struct {
	From string
	To   string
}

func (PhaseChanged) Name() string { return "PhaseChanged" }

// WaveStarted fires when an invasion wave begins.
type WaveStarted struct {
	Wave   int
	HpPool int
}

func (WaveStarted) Name() string { return "WaveStarted" }

// LevelCompleted fires when no goal bricks remain and the board is idle.
type LevelCompleted struct {
	Level int
}

func (LevelCompleted) Name() string { return "LevelCompleted" }

// GameOver fires once when the run ends.
type GameOver struct {
	Reason string
}

func (GameOver) Name() string { return "GameOver" }

// EquipmentGained fires when an equipment brick rolls an item.
type EquipmentGained struct {
	BallType world.BallType
	Kind     string
}

func (EquipmentGained) Name() string { return "EquipmentGained" }
