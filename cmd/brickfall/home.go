package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickfall/internal/platform/tui"
)

var flagHomeTicks int

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the home base",
	Long: `Print the home base buildings and stored resources. Runs deposit
their food and wood here when they end.

Examples:
  brickfall home
  brickfall home --tick 5`,
	Run: runHome,
}

func init() {
	homeCmd.Flags().IntVar(&flagHomeTicks, "tick", 0, "Run production ticks and save the result")
}

func runHome(_ *cobra.Command, _ []string) {
	logger := newLogger(false)
	cfg := loadConfig("")
	store := mustStore()
	defer store.Close()

	h, err := tui.LoadHomeBase(store, cfg.HomeBase, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for range flagHomeTicks {
		h.ProductionTick()
	}
	if flagHomeTicks > 0 {
		if err := store.SaveResources(h.Totals()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Print(h.Matrix().String())
	fmt.Println()
	totals := h.Totals()
	names := make([]string, 0, len(totals))
	for k := range totals {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  %-6s %d\n", k, totals[k])
	}
	for _, b := range h.Blocked() {
		fmt.Printf("  blocked: %s at (%d,%d) holding %d\n", b.Type, b.X, b.Y, b.Pool)
	}
}
