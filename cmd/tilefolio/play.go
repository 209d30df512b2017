package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tilefolio/tilefolio/internal/achievements"
	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/game"
	"github.com/tilefolio/tilefolio/internal/platform/tui"
	"github.com/tilefolio/tilefolio/internal/session"
	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/storage"
	"github.com/tilefolio/tilefolio/internal/theme"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Explore the island locally",
	Long: `Walk the island in your own terminal. Progress persists in the
local save file between visits.

Controls:
  Arrows/WASD  - Move
  E/Enter      - Interact with the place you face
  Esc          - Close the info panel
  T            - Cycle theme
  V/Tab        - Toggle survey view
  H            - Toggle HUD
  ?/F1         - Help overlay
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Examples:
  tilefolio play
  tilefolio play --fps 60
  tilefolio play --config ./tilefolio.yaml`,
	Run: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Engine logs go to a file when asked; stderr would tear the TUI.
	logger := log.New(io.Discard)
	if flagLogFile != "" {
		f, logErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if logErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", logErr)
		} else {
			defer f.Close()
			logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true})
		}
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

	// Open the durable save store
	kv, kvErr := storage.OpenBolt(cfg.Storage.Path)
	if kvErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save file: %v\n", kvErr)
		// Continue without persistence - this visit just won't be remembered
	}
	var backend storage.KV = storage.NewMemoryKV()
	if kv != nil {
		backend = kv
	}

	var ids []string
	for _, n := range world.Nodes() {
		ids = append(ids, n.ID)
	}

	mgr := storage.NewManager(backend,
		storage.WithQuota(cfg.Storage.QuotaBytes),
		storage.WithLogger(logger))
	st := state.NewStore(mgr,
		state.WithKnownNodes(ids),
		state.WithLogger(logger))
	engine := achievements.NewEngine(catalog, world,
		achievements.WithThemeCount(theme.Count()),
		achievements.WithLogger(logger))
	ex := game.New(world, st, engine, mgr,
		game.WithLogger(logger),
		game.WithSweepIntervals(cfg.Game.AchievementSweep(), cfg.Game.StorageRefresh()))

	// Get terminal size for the initial layout
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Game.TickRate,
	}

	runErr := tui.Run(ex, rt)

	// Bank the session and release the save file before reporting
	summary := ex.Summary()
	st.Close()
	if kv != nil {
		//nolint:errcheck // Best-effort close
		kv.Close()
	}

	if recorder, recErr := session.Open(cfg.Storage.SessionsDB); recErr == nil {
		//nolint:errcheck // Best-effort record
		recorder.Record(session.Visit{
			StartedAt:       summary.StartedAt,
			Duration:        int(summary.Duration / time.Second),
			Moves:           summary.Moves,
			Interactions:    summary.Interactions,
			NodesDiscovered: summary.NodesDiscovered,
			Unlocked:        summary.Unlocked,
			Theme:           summary.Theme,
		})
		recorder.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running explorer: %v\n", runErr)
		os.Exit(1)
	}

	fmt.Printf("Thanks for visiting! %d moves, %d places discovered, %s on the island.\n",
		summary.Moves, summary.NodesDiscovered, summary.Duration.Round(time.Second))
}
