// Package config provides YAML-based configuration loading for brickfall:
// board geometry, ball stat tables, enchantments, level generation settings,
// combat constants, invasion waves and the home base economy.
package config

// Config contains all configuration for a brickfall run.
// The simulation treats it as a static lookup input.
type Config struct {
	Board        BoardConfig            `yaml:"board"`
	Physics      PhysicsConfig          `yaml:"physics"`
	Level        LevelSettings          `yaml:"level"`
	Balls        map[string]BallStats   `yaml:"balls"`
	Enchantments map[string]Enchantment `yaml:"enchantments"`
	Upgrades     UpgradeConfig          `yaml:"upgrades"`
	Combat       CombatConfig           `yaml:"combat"`
	Overlays     OverlayConfig          `yaml:"overlays"`
	Economy      EconomyConfig          `yaml:"economy"`
	Equipment    EquipmentConfig        `yaml:"equipment"`
	Invasion     InvasionConfig         `yaml:"invasion"`
	HomeBase     HomeBaseConfig         `yaml:"home_base"`
	Trial        TrialConfig            `yaml:"trial"`
}

// BoardConfig defines the brick grid and playfield geometry.
type BoardConfig struct {
	Cols     int     `yaml:"cols"`      // Odd, so signed coordinates are symmetric
	Rows     int     `yaml:"rows"`      // Odd, so signed coordinates are symmetric
	SafeZone int     `yaml:"safe_zone"` // Empty border cells around the grid
	CellSize float64 `yaml:"cell_size"` // Pixels per cell
	Border   float64 `yaml:"border"`    // Wall thickness in pixels
}

// PhysicsConfig defines kinematic parameters shared by all bodies.
type PhysicsConfig struct {
	SubstepFactor  float64 `yaml:"substep_factor"`  // Max substep travel as a fraction of radius
	CancelRadius   float64 `yaml:"cancel_radius"`   // Aim cancel radius, in cells
	AimStep        float64 `yaml:"aim_step"`        // Aim rotation per key press, degrees
	MinAimAngle    float64 `yaml:"min_aim_angle"`   // Minimum elevation above horizontal, degrees
	WallHitDamage  int     `yaml:"wall_hit_damage"` // Default hp lost per wall bounce
	GhostFrames    int     `yaml:"ghost_frames"`    // Frames a spawned ball ignores bricks
	PiercingFrames int     `yaml:"piercing_frames"` // Duration of the piercing power-up
	ActionFrames   int     `yaml:"action_frames"`   // Frames between end-of-turn actions
}

// LevelSettings is the level settings provider record consumed by the
// level generator. Chances are probabilities in [0, 1].
type LevelSettings struct {
	Seed          uint64  `yaml:"seed"`
	LevelPattern  string  `yaml:"level_pattern"` // formulaic, solid, checkerboard or spiral
	StartingBalls int     `yaml:"starting_balls"`
	BallSpeed     float64 `yaml:"ball_speed"` // Pixels per frame
	GoalBricks    int     `yaml:"goal_bricks"`
	BrickCount    int     `yaml:"brick_count"`

	StartingBrickHp     int     `yaml:"starting_brick_hp"`
	BrickHpIncrement    int     `yaml:"brick_hp_increment"`
	BrickHpMultiplier   float64 `yaml:"brick_hp_multiplier"`    // Multiplicative growth per level
	MaxBrickHpIncrement int     `yaml:"max_brick_hp_increment"` // Cap on growth between levels

	StartingCoin  int `yaml:"starting_coin"`
	CoinIncrement int `yaml:"coin_increment"`
	StartingGems  int `yaml:"starting_gems"`
	GemIncrement  int `yaml:"gem_increment"`
	StartingFood  int `yaml:"starting_food"`
	FoodIncrement int `yaml:"food_increment"`

	ExtraBallBricks      int            `yaml:"extra_ball_bricks"`
	EquipmentBrickChance float64        `yaml:"equipment_brick_chance"`
	ExplosiveBrickChance float64        `yaml:"explosive_brick_chance"`
	BallCageBrickChance  float64        `yaml:"ball_cage_brick_chance"`
	BuilderBrickChance   float64        `yaml:"builder_brick_chance"`
	HealerBrickChance    float64        `yaml:"healer_brick_chance"`
	StripeBrickChance    float64        `yaml:"stripe_brick_chance"`
	WoolBrickChance      float64        `yaml:"wool_brick_chance"`
	ShieldGenBrickChance float64        `yaml:"shield_gen_brick_chance"`
	LogBrickChance       float64        `yaml:"log_brick_chance"`
	OverlayChance        float64        `yaml:"overlay_chance"` // Weight of overlay conversion vs buff per budget step
	OverlaySpawnLevels   OverlayLevels  `yaml:"overlay_spawn_levels"`
	OverlayWeights       OverlayWeights `yaml:"overlay_weights"`
	OverlayCost          int            `yaml:"overlay_cost"` // HP pool cost of one overlay conversion
	BuffChunk            int            `yaml:"buff_chunk"`   // HP added per buff step
	MergeChance          float64        `yaml:"merge_chance"`
	MergeCost            int            `yaml:"merge_cost"`
	ResourceChunkMin     int            `yaml:"resource_chunk_min"`
	ResourceChunkMax     int            `yaml:"resource_chunk_max"`
}

// OverlayLevels holds the first level at which each overlay may appear.
type OverlayLevels struct {
	Spike   int `yaml:"spike"`
	Sniper  int `yaml:"sniper"`
	Laser   int `yaml:"laser"`
	Builder int `yaml:"builder"`
	Healer  int `yaml:"healer"`
	Zapper  int `yaml:"zapper"`
	Mine    int `yaml:"mine"`
}

// OverlayWeights holds relative weights for overlay conversion buckets.
// Builder and healer weights come from the brick chance settings.
type OverlayWeights struct {
	Spike  float64 `yaml:"spike"`
	Sniper float64 `yaml:"sniper"`
	Laser  float64 `yaml:"laser"`
	Zapper float64 `yaml:"zapper"`
	Mine   float64 `yaml:"mine"`
}

// BallStats is the per-type combat stat record.
type BallStats struct {
	Damage           float64 `yaml:"damage"`
	RadiusMultiplier float64 `yaml:"radius_multiplier"`
	HP               int     `yaml:"hp"`
	PowerUpUses      int     `yaml:"power_up_uses"`
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`
}

// Enchantment holds per-ball-type bonuses baked into ball instances.
type Enchantment struct {
	BonusDamage          float64 `yaml:"bonus_damage"`
	BonusHP              int     `yaml:"bonus_hp"`
	BonusChainDamage     float64 `yaml:"bonus_chain_damage"`
	BonusExplosionRadius float64 `yaml:"bonus_explosion_radius"` // Cells
	BonusPowerUpUses     int     `yaml:"bonus_power_up_uses"`
	WallDamageReduction  int     `yaml:"wall_damage_reduction"`
}

// UpgradeConfig holds upgrade tracks purchased outside a run.
type UpgradeConfig struct {
	PowerExplosionLevel  int       `yaml:"power_explosion_level"`
	PowerExplosionDamage []float64 `yaml:"power_explosion_damage"` // Indexed by level
	PowerExplosionRadius float64   `yaml:"power_explosion_radius"` // Cells
	HomingDamage         float64   `yaml:"homing_damage"`
	HomingRadius         float64   `yaml:"homing_radius"` // Cells
	ProjectileDamage     float64   `yaml:"projectile_damage"`
}

// CombatConfig holds constants for the combat resolution pipeline.
type CombatConfig struct {
	ChainTargets         int     `yaml:"chain_targets"`
	ExplosiveBrickDamage float64 `yaml:"explosive_brick_damage"`
	ExplosiveBrickRadius float64 `yaml:"explosive_brick_radius"` // Cells
	MineDamage           float64 `yaml:"mine_damage"`
	MineRadius           float64 `yaml:"mine_radius"` // Cells
	CapacitorDamage      float64 `yaml:"capacitor_damage"`
	CapacitorRadius      float64 `yaml:"capacitor_radius"` // Cells
	RippleFramesPerCell  float64 `yaml:"ripple_frames_per_cell"`
	StripeDamage         float64 `yaml:"stripe_damage"`
	ShieldRadius         float64 `yaml:"shield_radius"` // Cells
	ShieldFactor         float64 `yaml:"shield_factor"`
	XPPerHP              float64 `yaml:"xp_per_hp"`
	DebrisPerBrick       int     `yaml:"debris_per_brick"`
	VFXFrames            int     `yaml:"vfx_frames"`
}

// OverlayConfig holds constants for brick overlays.
type OverlayConfig struct {
	SpikeDamage    int     `yaml:"spike_damage"`
	SniperInterval int     `yaml:"sniper_interval"`
	SniperDamage   int     `yaml:"sniper_damage"`
	SniperSpeed    float64 `yaml:"sniper_speed"`
	LaserInterval  int     `yaml:"laser_interval"`
	LaserDamage    int     `yaml:"laser_damage"`
	ZapInterval    int     `yaml:"zap_interval"`
	ZapRadius      float64 `yaml:"zap_radius"` // Cells
	ZapDamage      int     `yaml:"zap_damage"`
	HealAmount     int     `yaml:"heal_amount"`
	BuilderRange   int     `yaml:"builder_range"`
	BuilderSpawnHP int     `yaml:"builder_spawn_hp"`
	BuilderUpgrade int     `yaml:"builder_upgrade"`
}

// EconomyConfig holds currency and reward rules.
type EconomyConfig struct {
	BallCost         int     `yaml:"ball_cost"`
	FoodCap          int     `yaml:"food_cap"`
	GemCap           int     `yaml:"gem_cap"`
	FoodToCoinRate   float64 `yaml:"food_to_coin_rate"`
	GemToCoinRate    float64 `yaml:"gem_to_coin_rate"`
	GoldenTurnChance float64 `yaml:"golden_turn_chance"`
	GoldenMultiplier int     `yaml:"golden_multiplier"`
	ScorePerBrick    int     `yaml:"score_per_brick"`
}

// EquipmentItemConfig describes one equipment item.
type EquipmentItemConfig struct {
	Kind   string  `yaml:"kind"`
	Value  float64 `yaml:"value"`
	Damage float64 `yaml:"damage,omitempty"`
	Every  int     `yaml:"every,omitempty"`
}

// EquipmentConfig holds the starting loadout and the roll pool for
// equipment bricks.
type EquipmentConfig struct {
	Loadout map[string][]EquipmentItemConfig `yaml:"loadout"` // Keyed by ball type
	Pool    []EquipmentItemConfig            `yaml:"pool"`
}

// NPCStats defines one invasion NPC type.
type NPCStats struct {
	HP               float64 `yaml:"hp"`
	Cost             int     `yaml:"cost"`
	RadiusMultiplier float64 `yaml:"radius_multiplier"`
	Speed            float64 `yaml:"speed"`
	ContactDamage    float64 `yaml:"contact_damage"`
	PierceCount      int     `yaml:"pierce_count,omitempty"`
	ExplodeDamage    float64 `yaml:"explode_damage,omitempty"`
	ExplodeRadius    float64 `yaml:"explode_radius,omitempty"` // Cells
	ProjectileDamage float64 `yaml:"projectile_damage,omitempty"`
}

// InvasionConfig holds wave parameters for invasion mode.
type InvasionConfig struct {
	StartingHpPool         int                 `yaml:"starting_hp_pool"`
	HpPoolIncrementPerWave int                 `yaml:"hp_pool_increment_per_wave"`
	SpawnInterval          int                 `yaml:"spawn_interval"`
	StartingBalls          int                 `yaml:"starting_balls"`
	BallsPerWave           int                 `yaml:"balls_per_wave"`
	NPCs                   map[string]NPCStats `yaml:"npcs"`
}

// BuildingConfig defines a home base building.
type BuildingConfig struct {
	Produces string `yaml:"produces,omitempty"` // Resource name for producers
	Stores   string `yaml:"stores,omitempty"`   // Resource name for storages
	Rate     int    `yaml:"rate,omitempty"`     // Added to the internal pool per production tick
	Range    int    `yaml:"range,omitempty"`    // Distribution range in cells
	Capacity int    `yaml:"capacity,omitempty"` // Storage capacity
	Batch    int    `yaml:"batch,omitempty"`    // Overrides the base batch size
}

// HomeBaseConfig holds the home base economy.
type HomeBaseConfig struct {
	BatchSize int                       `yaml:"batch_size"`
	Buildings map[string]BuildingConfig `yaml:"buildings"`
}

// TrialConfig holds the fixed ball stock for trial runs.
type TrialConfig struct {
	Stock map[string]int `yaml:"stock"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string into a preset.
// Unknown or empty strings return the empty preset.
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// IsFixedPreset returns true if the preset disables level growth.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
