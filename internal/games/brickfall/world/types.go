package world

// BrickType tags a brick's on-break and per-turn behavior.
type BrickType int

const (
	BrickNormal BrickType = iota
	BrickGoal
	BrickExtraBall
	BrickExplosive
	BrickStripeH // Clears its row on break
	BrickStripeV // Clears its column on break
	BrickWool    // Takes half damage from explosions
	BrickShieldGen
	BrickBallCage
	BrickEquipment
	BrickLog
	BrickFood
	BrickFarmland
	BrickSawmill
	BrickBallProducer
	BrickFoodStorage
	BrickWoodStorage
)

var brickTypeNames = [...]string{
	BrickNormal:       "normal",
	BrickGoal:         "goal",
	BrickExtraBall:    "extraBall",
	BrickExplosive:    "explosive",
	BrickStripeH:      "stripeH",
	BrickStripeV:      "stripeV",
	BrickWool:         "wool",
	BrickShieldGen:    "shieldGen",
	BrickBallCage:     "ballCage",
	BrickEquipment:    "equipment",
	BrickLog:          "log",
	BrickFood:         "food",
	BrickFarmland:     "farmland",
	BrickSawmill:      "sawmill",
	BrickBallProducer: "ballProducer",
	BrickFoodStorage:  "foodStorage",
	BrickWoodStorage:  "woodStorage",
}

func (t BrickType) String() string {
	if t >= 0 && int(t) < len(brickTypeNames) {
		return brickTypeNames[t]
	}
	return "unknown"
}

// ParseBrickType converts a name to a BrickType.
func ParseBrickType(s string) (BrickType, bool) {
	for i, name := range brickTypeNames {
		if name == s {
			return BrickType(i), true
		}
	}
	return BrickNormal, false
}

// IsBuilding reports whether the type is a home base building.
func (t BrickType) IsBuilding() bool {
	return t >= BrickFarmland && t <= BrickWoodStorage
}

// CanOverlay reports whether bricks of this type may carry an overlay.
func (t BrickType) CanOverlay() bool {
	return t == BrickNormal
}

// CanMerge reports whether bricks of this type may be merged into long bricks.
func (t BrickType) CanMerge() bool {
	return t == BrickNormal || t == BrickWool
}

// Overlay is a secondary behavior attached to a brick.
// A brick carries at most one overlay.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlaySpike
	OverlaySniper
	OverlayLaser
	OverlayHealer
	OverlayBuilder
	OverlayZapper
	OverlayMine
	OverlayZapBattery
)

var overlayNames = [...]string{
	OverlayNone:       "",
	OverlaySpike:      "spike",
	OverlaySniper:     "sniper",
	OverlayLaser:      "laser",
	OverlayHealer:     "healer",
	OverlayBuilder:    "builder",
	OverlayZapper:     "zapper",
	OverlayMine:       "mine",
	OverlayZapBattery: "zap_battery",
}

func (o Overlay) String() string {
	if o >= 0 && int(o) < len(overlayNames) {
		return overlayNames[o]
	}
	return "unknown"
}

// ParseOverlay converts a name to an Overlay. The empty string is OverlayNone.
func ParseOverlay(s string) (Overlay, bool) {
	for i, name := range overlayNames {
		if name == s {
			return Overlay(i), true
		}
	}
	return OverlayNone, false
}

// IsEndTurn reports whether the overlay acts in the end-of-turn sequence.
func (o Overlay) IsEndTurn() bool {
	return o == OverlayHealer || o == OverlayBuilder
}

// BallType is the closed set of ball variants.
type BallType int

const (
	BallClassic BallType = iota
	BallExplosive
	BallPiercing
	BallSplit
	BallBrick
	BallBullet
	BallHoming
	BallGiant
	BallMini
)

var ballTypeNames = [...]string{
	BallClassic:   "classic",
	BallExplosive: "explosive",
	BallPiercing:  "piercing",
	BallSplit:     "split",
	BallBrick:     "brick",
	BallBullet:    "bullet",
	BallHoming:    "homing",
	BallGiant:     "giant",
	BallMini:      "mini",
}

func (t BallType) String() string {
	if t >= 0 && int(t) < len(ballTypeNames) {
		return ballTypeNames[t]
	}
	return "unknown"
}

// ParseBallType converts a name to a BallType.
func ParseBallType(s string) (BallType, bool) {
	for i, name := range ballTypeNames {
		if name == s {
			return BallType(i), true
		}
	}
	return BallClassic, false
}

// MainBallTypes lists the ball types that can be launched.
func MainBallTypes() []BallType {
	return []BallType{BallClassic, BallExplosive, BallPiercing, BallSplit, BallBrick, BallBullet, BallHoming, BallGiant}
}
