package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/brickfall/internal/games/brickfall/world"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Manage shared levels",
	Long: `Save share codes under a name, list them and print their layout.

Examples:
  brickfall gen --seed 7 --level 3 --export | xargs brickfall levels save castle
  brickfall levels list
  brickfall levels show castle
  brickfall play --saved castle`,
}

var levelsSaveCmd = &cobra.Command{
	Use:   "save <name> <code>",
	Short: "Save a level share code",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		m, err := world.ImportCode(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		store := mustStore()
		defer store.Close()
		if err := store.SaveLevel(args[0], args[1], m.Len()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %q (%d bricks)\n", args[0], m.Len())
	},
}

var levelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved levels",
	Run: func(_ *cobra.Command, _ []string) {
		store := mustStore()
		defer store.Close()
		levels, err := store.Levels()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(levels) == 0 {
			fmt.Println("No saved levels.")
			return
		}
		fmt.Printf("  %-20s  %-6s  %s\n", "Name", "Bricks", "Saved")
		for _, l := range levels {
			fmt.Printf("  %-20s  %-6d  %s\n", l.Name, l.Bricks, l.CreatedAt.Format("2006-01-02 15:04"))
		}
	},
}

var levelsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved level",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		store := mustStore()
		defer store.Close()
		lvl, err := store.Level(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		m, err := world.ImportCode(lvl.Code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(m.String())
		fmt.Println()
		fmt.Println(lvl.Code)
	},
}

var levelsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved level",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		store := mustStore()
		defer store.Close()
		if err := store.DeleteLevel(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %q\n", args[0])
	},
}

func init() {
	levelsCmd.AddCommand(levelsSaveCmd, levelsListCmd, levelsShowCmd, levelsDeleteCmd)
}
