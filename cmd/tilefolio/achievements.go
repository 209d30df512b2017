package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tilefolio/tilefolio/internal/achievements"
	"github.com/tilefolio/tilefolio/internal/platform/tui"
	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/storage"
	"github.com/tilefolio/tilefolio/internal/theme"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Browse the achievements catalog",
	Long: `Open an interactive browser over every achievement: what it takes,
your progress toward it, and when you unlocked it.

Examples:
  tilefolio achievements`,
	Run: runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	world, err := loadWorld(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading world: %v\n", err)
		os.Exit(1)
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading achievements catalog: %v\n", err)
		os.Exit(1)
	}

	// Read the save once and release the file before the TUI starts
	snap := state.DefaultState(time.Now())
	if kv, kvErr := storage.OpenBolt(cfg.Storage.Path); kvErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save file: %v\n", kvErr)
	} else {
		mgr := storage.NewManager(kv, storage.WithQuota(cfg.Storage.QuotaBytes))
		if raw, ok := mgr.Get(storage.StateKey); ok {
			snap, _ = state.Rehydrate([]byte(raw), time.Now())
		}
		//nolint:errcheck // Best-effort close
		kv.Close()
	}

	engine := achievements.NewEngine(catalog, world, achievements.WithThemeCount(theme.Count()))

	// Get terminal size for the table layout
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	playTime := time.Duration(snap.Progress.TotalPlayTime) * time.Second

	if err := tui.RunAchievements(engine, snap, playTime, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
		os.Exit(1)
	}
}
