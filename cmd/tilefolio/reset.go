package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilefolio/tilefolio/internal/storage"
)

var flagYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the saved state",
	Long: `Delete all saved progress: position, discovered places, achievements,
settings and backups. The visit log is kept.

This cannot be undone, so it requires --yes.

Examples:
  tilefolio reset --yes`,
	Run: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagYes, "yes", false, "Confirm the wipe")
}

func runReset(cmd *cobra.Command, args []string) {
	if !flagYes {
		fmt.Fprintln(os.Stderr, "Refusing to wipe saved state without --yes.")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	kv, err := storage.OpenBolt(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save file: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	if err := kv.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Error wiping state: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Saved state wiped. The island awaits a fresh visit.")
}
