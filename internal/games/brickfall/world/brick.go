package world

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/core"
)

// BrickID addresses a brick in a Matrix. Zero means no brick.
type BrickID int

// Brick is a single brick. X and Y are the signed grid coordinates of its
// top-left cell; W and H are its size in cells.
type Brick struct {
	ID        BrickID
	Type      BrickType
	Overlay   Overlay
	X, Y      int
	W, H      int
	Health    float64
	MaxHealth float64
	Level     int // Builder upgrades and home base building level

	Coins, MaxCoins int
	Food, MaxFood   int
	Gems, MaxGems   int

	// Home base state.
	Pool     int // Produced resources not yet distributed
	Stored   int // Resources held by a storage building
	Capacity int
	Blocked  bool
}

// NewBrick creates a 1×1 brick with full health.
func NewBrick(t BrickType, x, y int, health float64) *Brick {
	return &Brick{Type: t, X: x, Y: y, W: 1, H: 1, Health: health, MaxHealth: health}
}

// HitResult describes the outcome of Brick.Hit.
type HitResult struct {
	Dealt     float64 // Health actually removed
	Broken    bool    // Health reached zero on this hit
	Sanitized bool    // The requested damage was not a finite positive number
}

// SanitizeDamage replaces non-finite or negative damage with 1.
func SanitizeDamage(dmg float64) (float64, bool) {
	if math.IsNaN(dmg) || math.IsInf(dmg, 0) || dmg < 0 {
		return 1, true
	}
	return dmg, false
}

// Hit applies damage. Hitting a broken brick deals nothing.
func (b *Brick) Hit(dmg float64) HitResult {
	dmg, bad := SanitizeDamage(dmg)
	res := HitResult{Sanitized: bad}
	if b.IsBroken() {
		return res
	}
	res.Dealt = math.Min(dmg, b.Health)
	b.Health -= dmg
	if b.Health <= 0 {
		b.Health = 0
		res.Broken = true
	}
	return res
}

// Heal restores health up to MaxHealth and returns the amount restored.
func (b *Brick) Heal(amount float64) float64 {
	if b.IsBroken() || amount <= 0 {
		return 0
	}
	before := b.Health
	b.Health = math.Min(b.MaxHealth, b.Health+amount)
	return b.Health - before
}

// Buff raises MaxHealth and Health together.
func (b *Brick) Buff(amount float64) {
	b.MaxHealth += amount
	b.Health = math.Min(b.MaxHealth, b.Health+amount)
}

// IsBroken reports whether the brick has no health left.
func (b *Brick) IsBroken() bool {
	return b.Health <= 0
}

// NeedsHealing reports whether the brick is alive and below max health.
func (b *Brick) NeedsHealing() bool {
	return !b.IsBroken() && b.Health < b.MaxHealth
}

// Rect returns the brick's pixel rectangle.
func (b *Brick) Rect(board Board) core.RectF {
	return board.CellRect(b.X, b.Y, b.W, b.H)
}

// Center returns the pixel center of the brick.
func (b *Brick) Center(board Board) core.Vec2 {
	return b.Rect(board).Center()
}

// Cells calls fn for every occupied grid cell.
func (b *Brick) Cells(fn func(gx, gy int)) {
	for dy := range b.H {
		for dx := range b.W {
			fn(b.X+dx, b.Y+dy)
		}
	}
}

// Occupies reports whether the brick covers a grid cell.
func (b *Brick) Occupies(gx, gy int) bool {
	return gx >= b.X && gx < b.X+b.W && gy >= b.Y && gy < b.Y+b.H
}

// TakeCoins removes the coins a hit of dmg earns:
// ceil(MaxCoins * dmg / MaxHealth), capped by the coins left.
func (b *Brick) TakeCoins(dmg float64) int {
	if b.Coins <= 0 || b.MaxHealth <= 0 || dmg <= 0 {
		return 0
	}
	n := int(math.Ceil(float64(b.MaxCoins) * dmg / b.MaxHealth))
	n = min(n, b.Coins)
	b.Coins -= n
	return n
}

// TakeRemaining empties the brick's resource payloads.
func (b *Brick) TakeRemaining() (coins, food, gems int) {
	coins, food, gems = b.Coins, b.Food, b.Gems
	b.Coins, b.Food, b.Gems = 0, 0, 0
	return coins, food, gems
}

// Clone returns a copy of the brick.
func (b *Brick) Clone() *Brick {
	c := *b
	return &c
}
