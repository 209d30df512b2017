package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilefolio/tilefolio/internal/session"
	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/storage"
)

var flagVisits int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and the visit log",
	Long: `Display overall island progress from the save file and the most
recent entries in the visit log.

Examples:
  tilefolio stats
  tilefolio stats --visits 25`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagVisits, "visits", 10, "How many recent visits to list")
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printProgress(cfg.Storage.Path, cfg.Storage.QuotaBytes)
	printVisits(cfg.Storage.SessionsDB)
}

// printProgress reads the save file without starting a session, so a
// stats call never touches timestamps or backups.
func printProgress(savePath string, quota int) {
	kv, err := storage.OpenBolt(savePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save file: %v\n", err)
		return
	}
	defer kv.Close()

	mgr := storage.NewManager(kv, storage.WithQuota(quota))
	snap := state.DefaultState(time.Now())
	if raw, ok := mgr.Get(storage.StateKey); ok {
		snap, _ = state.Rehydrate([]byte(raw), time.Now())
	}

	discovered := 0
	for _, rec := range snap.Nodes {
		if rec != nil && rec.Discovered {
			discovered++
		}
	}
	banked := time.Duration(snap.Progress.TotalPlayTime) * time.Second

	fmt.Println("Island progress")
	fmt.Println()
	fmt.Printf("  Places discovered:  %d\n", discovered)
	fmt.Printf("  Interactions:       %d\n", snap.Progress.TotalInteractions)
	fmt.Printf("  Achievements:       %d\n", len(snap.Progress.Achievements))
	fmt.Printf("  Time on island:     %s\n", banked)
	fmt.Println()
}

// printVisits renders the recent visit log.
func printVisits(dbPath string) {
	rec, err := session.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open visit log: %v\n", err)
		return
	}
	defer rec.Close()

	totals, err := rec.TotalStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading visit log: %v\n", err)
		return
	}

	fmt.Println("Visit log")
	fmt.Println()

	if totals.Visits == 0 {
		fmt.Println("No visits recorded yet.")
		fmt.Println()
		fmt.Println("Run 'tilefolio play' to make the first one!")
		return
	}

	visits, err := rec.Recent(flagVisits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading visit log: %v\n", err)
		return
	}

	// Print header
	fmt.Printf("  %-16s  %-8s  %-5s  %-4s  %-6s  %s\n", "When", "Length", "Moves", "Seen", "Remote", "Theme")
	fmt.Printf("  %-16s  %-8s  %-5s  %-4s  %-6s  %s\n", "----", "------", "-----", "----", "------", "-----")

	// Print visits, newest first
	for _, v := range visits {
		remote := "-"
		if v.Remote {
			remote = "yes"
		}
		length := time.Duration(v.Duration) * time.Second
		fmt.Printf("  %-16s  %-8s  %-5d  %-4d  %-6s  %s\n",
			v.StartedAt.Format("2006-01-02 15:04"), length, v.Moves, v.NodesDiscovered, remote, v.Theme)
	}

	fmt.Println()
	total := time.Duration(totals.TotalSeconds) * time.Second
	fmt.Printf("%d visits total (%d remote), %s on the island, best haul %d places.\n",
		totals.Visits, totals.RemoteVisits, total, totals.BestDiscovered)
}
