package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up on the search path.
const FileName = "brickfall.yaml"

// Load loads the brickfall configuration.
// Search order: customPath -> ~/.brickfall/configs/brickfall.yaml -> ./configs/brickfall.yaml -> embedded default
// Files are decoded over the hard-coded defaults, so a partial file only
// overrides the keys it names.
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBrickfallYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".brickfall", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
// The fixed preset freezes level growth so every level uses the starting pools.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	lvl := &cfg.Level
	switch preset {
	case DifficultyEasy:
		lvl.StartingBalls += 2
		lvl.StartingBrickHp = lvl.StartingBrickHp * 3 / 4
		lvl.BrickHpIncrement = lvl.BrickHpIncrement * 3 / 4
		cfg.Invasion.StartingHpPool = cfg.Invasion.StartingHpPool * 3 / 4
	case DifficultyHard:
		lvl.StartingBalls = max(1, lvl.StartingBalls-1)
		lvl.StartingBrickHp = lvl.StartingBrickHp * 3 / 2
		lvl.BrickHpIncrement = lvl.BrickHpIncrement * 3 / 2
		cfg.Invasion.StartingHpPool = cfg.Invasion.StartingHpPool * 3 / 2
	case DifficultyFixed:
		lvl.BrickHpIncrement = 0
		lvl.BrickHpMultiplier = 1
		lvl.CoinIncrement = 0
		lvl.GemIncrement = 0
		lvl.FoodIncrement = 0
		cfg.Invasion.HpPoolIncrementPerWave = 0
	}
}

// Validation errors.
var (
	ErrInvalidBoard  = errors.New("config: invalid board")
	ErrInvalidChance = errors.New("config: chance out of range")
	ErrInvalidValue  = errors.New("config: invalid value")
)

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	b := c.Board
	if b.Cols < 3 || b.Cols%2 == 0 {
		errs = append(errs, fmt.Errorf("%w: cols must be odd and >= 3, got %d", ErrInvalidBoard, b.Cols))
	}
	if b.Rows < 3 || b.Rows%2 == 0 {
		errs = append(errs, fmt.Errorf("%w: rows must be odd and >= 3, got %d", ErrInvalidBoard, b.Rows))
	}
	if b.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cell_size must be positive", ErrInvalidBoard))
	}
	if b.SafeZone < 0 {
		errs = append(errs, fmt.Errorf("%w: safe_zone must not be negative", ErrInvalidBoard))
	}

	if c.Physics.SubstepFactor <= 0 || c.Physics.SubstepFactor > 1 {
		errs = append(errs, fmt.Errorf("%w: substep_factor must be in (0, 1]", ErrInvalidValue))
	}
	if c.Physics.ActionFrames < 1 {
		errs = append(errs, fmt.Errorf("%w: action_frames must be >= 1", ErrInvalidValue))
	}

	l := c.Level
	switch l.LevelPattern {
	case "formulaic", "solid", "checkerboard", "spiral":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown level_pattern %q", ErrInvalidValue, l.LevelPattern))
	}
	if l.BallSpeed <= 0 {
		errs = append(errs, fmt.Errorf("%w: ball_speed must be positive", ErrInvalidValue))
	}
	if l.StartingBrickHp < 1 {
		errs = append(errs, fmt.Errorf("%w: starting_brick_hp must be >= 1", ErrInvalidValue))
	}
	if l.BrickHpMultiplier < 1 {
		errs = append(errs, fmt.Errorf("%w: brick_hp_multiplier must be >= 1", ErrInvalidValue))
	}
	if l.ResourceChunkMin < 1 || l.ResourceChunkMax < l.ResourceChunkMin {
		errs = append(errs, fmt.Errorf("%w: resource chunk range [%d, %d]", ErrInvalidValue, l.ResourceChunkMin, l.ResourceChunkMax))
	}
	if l.BuffChunk < 1 {
		errs = append(errs, fmt.Errorf("%w: buff_chunk must be >= 1", ErrInvalidValue))
	}
	chances := map[string]float64{
		"equipment_brick_chance":  l.EquipmentBrickChance,
		"explosive_brick_chance":  l.ExplosiveBrickChance,
		"ball_cage_brick_chance":  l.BallCageBrickChance,
		"builder_brick_chance":    l.BuilderBrickChance,
		"healer_brick_chance":     l.HealerBrickChance,
		"stripe_brick_chance":     l.StripeBrickChance,
		"wool_brick_chance":       l.WoolBrickChance,
		"shield_gen_brick_chance": l.ShieldGenBrickChance,
		"log_brick_chance":        l.LogBrickChance,
		"overlay_chance":          l.OverlayChance,
		"merge_chance":            l.MergeChance,
		"golden_turn_chance":      c.Economy.GoldenTurnChance,
	}
	for _, name := range slices.Sorted(maps.Keys(chances)) {
		if v := chances[name]; v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: %s = %v", ErrInvalidChance, name, v))
		}
	}

	if len(c.Upgrades.PowerExplosionDamage) == 0 {
		errs = append(errs, fmt.Errorf("%w: power_explosion_damage must not be empty", ErrInvalidValue))
	}
	if c.Combat.ShieldFactor < 0 || c.Combat.ShieldFactor > 1 {
		errs = append(errs, fmt.Errorf("%w: shield_factor must be in [0, 1]", ErrInvalidValue))
	}
	if c.HomeBase.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("%w: home_base.batch_size must be >= 1", ErrInvalidValue))
	}
	for _, name := range slices.Sorted(maps.Keys(c.Balls)) {
		if s := c.Balls[name]; s.RadiusMultiplier <= 0 || s.Damage < 0 {
			errs = append(errs, fmt.Errorf("%w: ball %q has radius_multiplier %v damage %v", ErrInvalidValue, name, s.RadiusMultiplier, s.Damage))
		}
	}
	return errors.Join(errs...)
}

// BallStatsFor returns the stats for a ball type name.
// ok is false when the table has no entry and the fallback was used.
func (c Config) BallStatsFor(name string) (stats BallStats, ok bool) {
	if s, found := c.Balls[name]; found {
		return s, true
	}
	return FallbackBallStats(), false
}

// FallbackBallStats is used for ball types missing from the table.
func FallbackBallStats() BallStats {
	return BallStats{Damage: 10, RadiusMultiplier: 0.32, HP: 100, PowerUpUses: 0, SpeedMultiplier: 1}
}

// ExplosionDamage returns the explosive power-up damage at the configured
// upgrade level, clamped to the table.
func (u UpgradeConfig) ExplosionDamage() float64 {
	if len(u.PowerExplosionDamage) == 0 {
		return 0
	}
	i := min(max(u.PowerExplosionLevel, 0), len(u.PowerExplosionDamage)-1)
	return u.PowerExplosionDamage[i]
}
