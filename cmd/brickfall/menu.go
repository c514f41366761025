package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickfall/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start brickfall with a mode picker menu",
	Long: `Start brickfall in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a mode, then choose
the difficulty and starting level. After a run ends, Esc returns to the
menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change setting
  Enter/Space  - Select
  Tab          - Run history
  Q            - Quit

Examples:
  brickfall menu
  brickfall menu --fps 30
  brickfall menu --db ./brickfall.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger := newLogger(true)
	store := openStore()
	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsHistory {
			goBack, hErr := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if hErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", hErr)
			}
			if goBack {
				continue
			}
			break
		}

		game, err := menuResult.NewGame(flagConfig, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each run unless pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		back, err := tui.Run(game, store, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !back {
			break
		}
	}

	if store != nil {
		store.Close()
	}
}
