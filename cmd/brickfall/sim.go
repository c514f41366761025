package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/games/brickfall"
	"github.com/vovakirdan/brickfall/internal/platform/tui"
	"github.com/vovakirdan/brickfall/internal/registry"
)

var (
	flagSimTurns int
	flagSimSave  bool
)

var simCmd = &cobra.Command{
	Use:   "sim [mode]",
	Short: "Autoplay a run and print a turn report",
	Long: `Run a mode without a terminal UI. A bot aims every launch, so the
same seed always gives the same report. Useful for balancing configs.

Examples:
  brickfall sim --seed 42 --turns 50
  brickfall sim brickfall_invasion --turns 20 -v
  brickfall sim --config ./hard.yaml --save`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTurns, "turns", 30, "Number of launches to play")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the run and settle the home base")
	simCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	simCmd.Flags().IntVar(&flagLevel, "level", 1, "Starting level")
	simCmd.Flags().BoolVar(&flagDebugEvents, "debug-events", false, "Log every game event at debug level")
}

func runSim(_ *cobra.Command, args []string) {
	gameID := brickfall.IDAdventure
	if len(args) == 1 {
		gameID = args[0]
	}
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	bf, ok := game.(*brickfall.Game)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %s cannot be autoplayed\n", gameID)
		os.Exit(1)
	}

	logger := newLogger(false)
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	bf.Configure(brickfall.Options{
		ConfigPath:  flagConfig,
		Difficulty:  config.ParsePreset(flagDifficulty),
		Level:       flagLevel,
		Logger:      logger,
		DebugEvents: flagDebugEvents,
	})
	bf.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: flagFPS, Seed: seed})
	if err := bf.ConfigError(); err != nil {
		logger.Warn("config fell back to defaults", "err", err)
	}

	start := time.Now()
	reports := brickfall.Autoplay(bf, flagSimTurns, uint64(seed)) //nolint:gosec // seed bits only

	fmt.Printf("%s  seed %d\n\n", bf.Title(), seed)
	fmt.Printf("  %-4s  %-5s  %-4s  %-10s  %-13s  %-6s  %-7s  %-6s  %s\n",
		"Turn", "Level", "Wave", "Ball", "Phase", "Bricks", "Score", "Coins", "Frames")
	for _, r := range reports {
		fmt.Printf("  %-4d  %-5d  %-4d  %-10s  %-13s  %-6d  %-7d  %-6d  %d\n",
			r.Turn, r.Level, r.Wave, r.BallType, r.Phase, r.Bricks, r.Score, r.Coins, r.Frames)
	}

	sum := bf.Summary()
	fmt.Println()
	fmt.Printf("Score %d  level %d  wave %d  turns %d  coins %d  xp %d\n",
		sum.Score, sum.Level, sum.Wave, sum.Turns, sum.Coins, sum.XP)
	if sum.Reason != "" {
		fmt.Printf("Game over: %s\n", sum.Reason)
	}
	logger.Debug("simulation finished", "elapsed", time.Since(start), "turns", len(reports))

	if !flagSimSave {
		return
	}
	store := mustStore()
	defer store.Close()
	id, err := store.SaveRun(tui.RunRecord(sum))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	totals, err := tui.SettleRun(store, bf.Context().Cfg.HomeBase, sum, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved run %s, home base now %v\n", id, totals)
}
