package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickfall/internal/registry"
	"github.com/vovakirdan/brickfall/internal/storage"
)

var (
	flagRunsLimit  int
	flagRunsRecent bool
	flagRunsStats  bool
	flagRunsClear  bool
	flagRunID      string
)

var runsCmd = &cobra.Command{
	Use:   "runs [mode]",
	Short: "Show recorded runs",
	Long: `Display the best runs for a mode, the most recent runs across modes,
or per-mode statistics.

Examples:
  brickfall runs
  brickfall runs brickfall_invasion --limit 20
  brickfall runs --recent
  brickfall runs --stats
  brickfall runs --id 6f1c...
  brickfall runs brickfall_trial --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsRecent, "recent", false, "Show the most recent runs instead of the best")
	runsCmd.Flags().BoolVar(&flagRunsStats, "stats", false, "Show per-mode statistics")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete recorded runs for the mode")
	runsCmd.Flags().StringVar(&flagRunID, "id", "", "Show a single run")
}

func runRuns(cmd *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		info, err := registry.Lookup(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'brickfall modes' to see available modes.")
			os.Exit(1)
		}
		mode = info.ID
	}

	store := mustStore()
	defer store.Close()

	var err error
	switch {
	case flagRunID != "":
		err = showRun(store, flagRunID)
	case flagRunsStats:
		err = showStats(store)
	case flagRunsClear:
		if mode == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a mode")
			os.Exit(1)
		}
		if err = store.ClearRuns(mode); err == nil {
			fmt.Printf("Cleared runs for %s\n", mode)
		}
	default:
		err = listRuns(store, mode)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listRuns(store *storage.Store, mode string) error {
	var (
		runs  []storage.RunRecord
		err   error
		title string
	)
	switch {
	case flagRunsRecent:
		runs, err = store.RecentRuns(mode, flagRunsLimit)
		title = "Recent runs"
	case mode == "":
		runs, err = store.RecentRuns("", flagRunsLimit)
		title = "Recent runs"
	default:
		runs, err = store.TopRuns(mode, flagRunsLimit)
		title = "Best runs - " + mode
	}
	if err != nil {
		return err
	}

	fmt.Println(title)
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-18s  %-8s  %-6s  %-5s  %-5s  %s\n", "#", "Mode", "Score", "Level", "Wave", "Turns", "Date")
	fmt.Printf("  %-4s  %-18s  %-8s  %-6s  %-5s  %-5s  %s\n", "-", "----", "-----", "-----", "----", "-----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-18s  %-8d  %-6d  %-5d  %-5d  %s\n",
			i+1, r.Mode, r.Score, r.Level, r.Wave, r.Turns, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func showRun(store *storage.Store, id string) error {
	r, err := store.Run(id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("no run with id %q", id)
	}
	fmt.Printf("Run %s\n\n", r.ID)
	fmt.Printf("  Mode:    %s\n", r.Mode)
	fmt.Printf("  Seed:    %d\n", r.Seed)
	fmt.Printf("  Score:   %d\n", r.Score)
	fmt.Printf("  Level:   %d\n", r.Level)
	fmt.Printf("  Wave:    %d\n", r.Wave)
	fmt.Printf("  Turns:   %d\n", r.Turns)
	fmt.Printf("  Combo:   %d\n", r.BestCombo)
	fmt.Printf("  Coins:   %d\n", r.Coins)
	fmt.Printf("  XP:      %d\n", r.XP)
	fmt.Printf("  Ended:   %s\n", r.Reason)
	fmt.Printf("  Date:    %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func showStats(store *storage.Store) error {
	stats, err := store.AllModeStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	modes := make([]string, 0, len(stats))
	for m := range stats {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	fmt.Printf("  %-18s  %-5s  %-8s  %-8s  %-6s  %-5s  %s\n", "Mode", "Runs", "Best", "Avg", "Level", "Wave", "Last played")
	for _, m := range modes {
		s := stats[m]
		fmt.Printf("  %-18s  %-5d  %-8d  %-8.1f  %-6d  %-5d  %s\n",
			s.Mode, s.Runs, s.HighScore, s.AvgScore, s.BestLevel, s.BestWave, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
