package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickfall/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:     "modes",
	Aliases: []string{"list"},
	Short:   "List all game modes",
	Long:    `Shows a list of all registered brickfall modes.`,
	Run:     runModes,
}

func runModes(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, "ID", "Short", "Description")
	fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, "--", "-----", "-----------")
	for _, g := range games {
		fmt.Printf("  %-*s  %-10s  %s\n", maxIDLen, g.ID, g.ShortName(), g.Summary)
	}

	fmt.Println()
	fmt.Println("Run 'brickfall play <id|short>' to play a mode.")
}
