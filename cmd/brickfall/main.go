// brickfall is a turn-based brick breaker for the terminal.
//
// Usage:
//
//	brickfall modes             - List available game modes
//	brickfall play [mode]       - Play a mode
//	brickfall menu              - Pick modes interactively
//	brickfall serve             - Start SSH server for remote play
//	brickfall runs [mode]       - Show the best recorded runs
//	brickfall levels ...        - Save, list and show shared levels
//	brickfall gen               - Generate a level and print it
//	brickfall sim               - Autoplay a run and print a turn report
//	brickfall home              - Show the home base
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Set database path (default: ~/.brickfall/brickfall.db)
//	--config <path>   - Use a custom brickfall.yaml
//	--verbose         - Log debug output to stderr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
	"github.com/vovakirdan/brickfall/internal/storage"

	// Registers the brickfall modes
	_ "github.com/vovakirdan/brickfall/internal/games/brickfall"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagVerbose bool
	flagLogFile string

	flagDebugEvents bool // play and sim
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brickfall",
	Short: "Brickfall - a turn-based brick breaker in your terminal",
	Long: `Brickfall is a turn-based brick breaker. Aim, launch a ball and
watch it clear the board; bricks fight back between turns.

Available commands:
  modes    - Show all game modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  runs     - View the best recorded runs
  levels   - Save, list and show shared levels
  gen      - Generate a level
  sim      - Autoplay a run
  home     - Show the home base

Examples:
  brickfall modes
  brickfall play
  brickfall play brickfall_trial --difficulty hard
  brickfall menu
  brickfall serve --ssh :2222
  brickfall runs brickfall_invasion`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.brickfall/brickfall.db", "Path to run database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom brickfall.yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of discarding them while the TUI runs")

	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(homeCmd)
}

// newLogger returns the CLI logger. Interactive commands pass tui=true:
// the alt screen owns stderr, so logs go to --log-file or nowhere.
func newLogger(tui bool) *log.Logger {
	var w io.Writer = os.Stderr
	if tui {
		w = io.Discard
		if flagLogFile != "" {
			f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
			} else {
				w = f
			}
		}
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "brickfall",
	})
	if flagVerbose || flagDebugEvents {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// runtimeConfig builds the runtime config from the terminal size and
// global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the run database. Failure is a warning: games still
// work without history.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		return nil
	}
	return store
}

// mustStore opens the run database or exits.
func mustStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// loadConfig loads the game config with an optional difficulty preset.
func loadConfig(difficulty string) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}
	if preset := config.ParsePreset(difficulty); preset != "" {
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}
