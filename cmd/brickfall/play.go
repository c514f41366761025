package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/games/brickfall"
	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
	"github.com/vovakirdan/brickfall/internal/platform/tui"
	"github.com/vovakirdan/brickfall/internal/registry"
	"github.com/vovakirdan/brickfall/internal/storage"
)

var (
	flagDifficulty string
	flagLevel      int
	flagCode       string
	flagSaved      string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode (default: brickfall).

Controls:
  Left/Right - Aim
  Space/Up   - Launch
  Mouse      - Release on the board to launch toward the pointer
  E          - Use power-up
  Tab        - Next ball type
  F          - Fast forward
  P          - Pause
  R          - Restart (after game over)
  Esc        - Back (when paused or over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - More starting balls, softer bricks
  normal - Config values as is
  hard   - Fewer balls, tougher bricks
  fixed  - Brick health never grows

Examples:
  brickfall play
  brickfall play brickfall_trial --difficulty easy
  brickfall play --level 10 --seed 42
  brickfall play --code BF1:...
  brickfall play --saved castle`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().IntVar(&flagLevel, "level", 1, "Starting level")
	playCmd.Flags().BoolVar(&flagDebugEvents, "debug-events", false, "Log every game event to --log-file")
	playCmd.Flags().StringVar(&flagCode, "code", "", "Play a level share code")
	playCmd.Flags().StringVar(&flagSaved, "saved", "", "Play a level saved with 'brickfall levels save'")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := brickfall.IDAdventure
	if len(args) == 1 {
		info, err := registry.Lookup(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'brickfall modes' to see available modes.")
			os.Exit(1)
		}
		gameID = info.ID
	}

	logger := newLogger(true)
	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	matrix, err := customLevel(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	if bf, ok := game.(*brickfall.Game); ok {
		bf.Configure(brickfall.Options{
			ConfigPath:  flagConfig,
			Difficulty:  config.ParsePreset(flagDifficulty),
			Level:       flagLevel,
			Logger:      logger,
			DebugEvents: flagDebugEvents,
			Matrix:      matrix,
		})
	}

	if _, err := tui.Run(game, store, runtimeConfig(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// customLevel resolves --code or --saved into a matrix. Neither flag
// gives nil.
func customLevel(store *storage.Store) (*world.Matrix, error) {
	code := flagCode
	if flagSaved != "" {
		if store == nil {
			return nil, errors.New("saved levels need the run database")
		}
		lvl, err := store.Level(flagSaved)
		if err != nil {
			return nil, err
		}
		code = lvl.Code
	}
	if code == "" {
		return nil, nil
	}
	return world.ImportCode(code)
}
