package config

import (
	_ "embed"
)

//go:embed defaults/brickfall.yaml
var defaultBrickfallYAML []byte

// DefaultConfig returns the hard-coded brickfall configuration.
// It mirrors defaults/brickfall.yaml and is used when the embed fails to parse.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Cols:     11,
			Rows:     15,
			SafeZone: 1,
			CellSize: 24,
			Border:   4,
		},
		Physics: PhysicsConfig{
			SubstepFactor:  0.8,
			CancelRadius:   0.5,
			AimStep:        3,
			MinAimAngle:    8,
			WallHitDamage:  10,
			GhostFrames:    12,
			PiercingFrames: 180,
			ActionFrames:   2,
		},
		Level: LevelSettings{
			Seed:                 0,
			LevelPattern:         "formulaic",
			StartingBalls:        3,
			BallSpeed:            9,
			GoalBricks:           3,
			BrickCount:           45,
			StartingBrickHp:      20,
			BrickHpIncrement:     6,
			BrickHpMultiplier:    1.12,
			MaxBrickHpIncrement:  400,
			StartingCoin:         40,
			CoinIncrement:        8,
			StartingGems:         2,
			GemIncrement:         1,
			StartingFood:         10,
			FoodIncrement:        2,
			ExtraBallBricks:      1,
			EquipmentBrickChance: 0.25,
			ExplosiveBrickChance: 0.06,
			BallCageBrickChance:  0.03,
			BuilderBrickChance:   0.08,
			HealerBrickChance:    0.08,
			StripeBrickChance:    0.04,
			WoolBrickChance:      0.05,
			ShieldGenBrickChance: 0.02,
			LogBrickChance:       0.04,
			OverlayChance:        0.35,
			OverlaySpawnLevels: OverlayLevels{
				Spike:   3,
				Sniper:  5,
				Laser:   7,
				Builder: 4,
				Healer:  2,
				Zapper:  9,
				Mine:    6,
			},
			OverlayWeights: OverlayWeights{
				Spike:  0.3,
				Sniper: 0.15,
				Laser:  0.1,
				Zapper: 0.08,
				Mine:   0.1,
			},
			OverlayCost:      30,
			BuffChunk:        10,
			MergeChance:      0.3,
			MergeCost:        25,
			ResourceChunkMin: 1,
			ResourceChunkMax: 6,
		},
		Balls: map[string]BallStats{
			"classic":   {Damage: 10, RadiusMultiplier: 0.32, HP: 100, PowerUpUses: 1, SpeedMultiplier: 1},
			"explosive": {Damage: 10, RadiusMultiplier: 0.32, HP: 100, PowerUpUses: 1, SpeedMultiplier: 1},
			"piercing":  {Damage: 8, RadiusMultiplier: 0.30, HP: 100, PowerUpUses: 1, SpeedMultiplier: 1},
			"split":     {Damage: 8, RadiusMultiplier: 0.30, HP: 100, PowerUpUses: 1, SpeedMultiplier: 1},
			"brick":     {Damage: 12, RadiusMultiplier: 0.34, HP: 120, PowerUpUses: 1, SpeedMultiplier: 0.9},
			"bullet":    {Damage: 6, RadiusMultiplier: 0.26, HP: 80, PowerUpUses: 3, SpeedMultiplier: 1.1},
			"homing":    {Damage: 8, RadiusMultiplier: 0.30, HP: 100, PowerUpUses: 2, SpeedMultiplier: 1},
			"giant":     {Damage: 30, RadiusMultiplier: 0.60, HP: 200, PowerUpUses: 0, SpeedMultiplier: 0.8},
			"mini":      {Damage: 4, RadiusMultiplier: 0.18, HP: 0, PowerUpUses: 0, SpeedMultiplier: 1},
		},
		Enchantments: map[string]Enchantment{
			"classic": {BonusChainDamage: 2},
		},
		Upgrades: UpgradeConfig{
			PowerExplosionLevel:  0,
			PowerExplosionDamage: []float64{40, 55, 70, 90, 120},
			PowerExplosionRadius: 1.5,
			HomingDamage:         20,
			HomingRadius:         1,
			ProjectileDamage:     8,
		},
		Combat: CombatConfig{
			ChainTargets:         3,
			ExplosiveBrickDamage: 50,
			ExplosiveBrickRadius: 1.5,
			MineDamage:           60,
			MineRadius:           1.2,
			CapacitorDamage:      35,
			CapacitorRadius:      1,
			RippleFramesPerCell:  4,
			StripeDamage:         1000,
			ShieldRadius:         2,
			ShieldFactor:         0.5,
			XPPerHP:              0.1,
			DebrisPerBrick:       4,
			VFXFrames:            30,
		},
		Overlays: OverlayConfig{
			SpikeDamage:    5,
			SniperInterval: 90,
			SniperDamage:   8,
			SniperSpeed:    5,
			LaserInterval:  120,
			LaserDamage:    10,
			ZapInterval:    100,
			ZapRadius:      2,
			ZapDamage:      6,
			HealAmount:     10,
			BuilderRange:   2,
			BuilderSpawnHP: 10,
			BuilderUpgrade: 10,
		},
		Economy: EconomyConfig{
			BallCost:         50,
			FoodCap:          100,
			GemCap:           20,
			FoodToCoinRate:   0.5,
			GemToCoinRate:    5,
			GoldenTurnChance: 0.1,
			GoldenMultiplier: 2,
			ScorePerBrick:    10,
		},
		Equipment: EquipmentConfig{
			Loadout: map[string][]EquipmentItemConfig{
				"classic": {{Kind: "impact_distributor", Value: 0.3}},
			},
			Pool: []EquipmentItemConfig{
				{Kind: "impact_distributor", Value: 0.25},
				{Kind: "vampire", Value: 3},
				{Kind: "splitter", Value: 1, Every: 4},
				{Kind: "zap_proc", Value: 20, Damage: 8},
				{Kind: "overcharge", Value: 4},
				{Kind: "second_wind", Value: 30},
				{Kind: "treasure_hunter", Value: 25},
			},
		},
		Invasion: InvasionConfig{
			StartingHpPool:         60,
			HpPoolIncrementPerWave: 30,
			SpawnInterval:          45,
			StartingBalls:          3,
			BallsPerWave:           1,
			NPCs: map[string]NPCStats{
				"normal":   {HP: 20, Cost: 20, RadiusMultiplier: 0.4, Speed: 1.5, ContactDamage: 10},
				"shooting": {HP: 40, Cost: 40, RadiusMultiplier: 0.45, Speed: 1.2, ContactDamage: 10, ProjectileDamage: 5},
				"explode":  {HP: 30, Cost: 35, RadiusMultiplier: 0.45, Speed: 1.3, ContactDamage: 5, ExplodeDamage: 40, ExplodeRadius: 1.5},
				"piercing": {HP: 30, Cost: 30, RadiusMultiplier: 0.4, Speed: 1.6, ContactDamage: 8, PierceCount: 3},
			},
		},
		HomeBase: HomeBaseConfig{
			BatchSize: 10,
			Buildings: map[string]BuildingConfig{
				"farmland":     {Produces: "food", Rate: 12, Range: 3},
				"sawmill":      {Produces: "wood", Rate: 6, Range: 3},
				"ballProducer": {Produces: "ball", Rate: 1, Range: 2, Batch: 1},
				"foodStorage":  {Stores: "food", Capacity: 50},
				"woodStorage":  {Stores: "wood", Capacity: 50},
				"ballCage":     {Stores: "ball", Capacity: 1},
			},
		},
		Trial: TrialConfig{
			Stock: map[string]int{
				"classic":   3,
				"explosive": 2,
				"piercing":  2,
				"split":     2,
				"bullet":    1,
				"homing":    1,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultBrickfallYAML
}
