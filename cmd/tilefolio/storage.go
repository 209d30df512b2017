package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilefolio/tilefolio/internal/storage"
)

var (
	flagCleanupStrategy string
	flagCleanupFree     int
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect and maintain the save storage",
	Long: `The save file lives under a byte quota, like a browser's local
storage. These commands show what is in it and reclaim space.

Examples:
  tilefolio storage info
  tilefolio storage optimize
  tilefolio storage cleanup --strategy conservative`,
}

var storageInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show quota usage by category",
	Run:   runStorageInfo,
}

var storageOptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compact the save data without losing anything",
	Run:   runStorageOptimize,
}

var storageCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Evict low-priority entries to free space",
	Long: `Evict entries in priority order until the requested bytes are free.

Strategies:
  minimal       - Sheds only temp and cache data
  conservative  - Also sheds backups and loose settings
  aggressive    - Protects nothing, evicts whatever it takes

Examples:
  tilefolio storage cleanup
  tilefolio storage cleanup --strategy aggressive --free 65536`,
	Run: runStorageCleanup,
}

func init() {
	storageCleanupCmd.Flags().StringVar(&flagCleanupStrategy, "strategy", "conservative", "Eviction strategy: minimal, conservative, aggressive")
	storageCleanupCmd.Flags().IntVar(&flagCleanupFree, "free", 0, "Bytes that must be available afterwards")

	storageCmd.AddCommand(storageInfoCmd)
	storageCmd.AddCommand(storageOptimizeCmd)
	storageCmd.AddCommand(storageCleanupCmd)
}

// openManager opens the save file under the configured quota. The
// caller owns the returned KV and must close it.
func openManager() (*storage.Manager, *storage.BoltKV) {
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

	return storage.NewManager(kv, storage.WithQuota(cfg.Storage.QuotaBytes)), kv
}

func runStorageInfo(cmd *cobra.Command, args []string) {
	mgr, kv := openManager()
	defer kv.Close()

	info := mgr.Info()

	fmt.Printf("Save storage - %s\n", kv.Path())
	fmt.Println()
	fmt.Printf("  Used:       %s of %s (%.1f%%)\n",
		humanBytes(info.UsedBytes), humanBytes(info.QuotaBytes), info.UsagePercent)
	fmt.Printf("  Available:  %s\n", humanBytes(info.AvailableBytes))
	fmt.Printf("  Entries:    %d\n", info.Entries)
	fmt.Println()

	// Per-category breakdown
	type catTotal struct {
		count int
		bytes int
	}
	totals := map[storage.Category]*catTotal{}
	for _, e := range mgr.Entries() {
		t := totals[e.Category]
		if t == nil {
			t = &catTotal{}
			totals[e.Category] = t
		}
		t.count++
		t.bytes += e.Size
	}

	order := []storage.Category{
		storage.CategoryGameState,
		storage.CategoryAchievements,
		storage.CategorySettings,
		storage.CategoryCache,
		storage.CategoryTemp,
	}

	fmt.Printf("  %-14s  %-8s  %s\n", "Category", "Entries", "Size")
	fmt.Printf("  %-14s  %-8s  %s\n", "--------", "-------", "----")
	for _, c := range order {
		t := totals[c]
		if t == nil {
			continue
		}
		fmt.Printf("  %-14s  %-8d  %s\n", c, t.count, humanBytes(t.bytes))
	}

	if w := mgr.Warnings(); w != nil {
		fmt.Println()
		fmt.Printf("%s: %s\n", w.Level, w.Message)
		if len(w.Actions) > 0 {
			fmt.Printf("Suggested: tilefolio storage %s\n", w.Actions[0])
		}
	}
}

func runStorageOptimize(cmd *cobra.Command, args []string) {
	mgr, kv := openManager()
	defer kv.Close()

	rep := mgr.Optimize()

	fmt.Println("Optimize complete.")
	fmt.Println()
	fmt.Printf("  State blob slimmed by:  %s\n", humanBytes(rep.StrippedBytes))
	fmt.Printf("  Stale entries removed:  %d\n", rep.StaleRemoved)
	fmt.Printf("  Storage before/after:   %s / %s\n",
		humanBytes(rep.BytesBefore), humanBytes(rep.BytesAfter))
}

func runStorageCleanup(cmd *cobra.Command, args []string) {
	strategy, err := parseStrategy(flagCleanupStrategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mgr, kv := openManager()
	defer kv.Close()

	before := mgr.Info()
	ok := mgr.Cleanup(flagCleanupFree, strategy)
	after := mgr.Info()

	freed := before.UsedBytes - after.UsedBytes
	if freed < 0 {
		freed = 0
	}

	fmt.Printf("Cleanup (%s) freed %s across %d entries.\n",
		flagCleanupStrategy, humanBytes(freed), before.Entries-after.Entries)
	if !ok {
		fmt.Println("Could not reach the requested headroom; protected entries were kept.")
		os.Exit(1)
	}
}

func parseStrategy(name string) (storage.Strategy, error) {
	switch name {
	case "minimal":
		return storage.StrategyMinimal, nil
	case "conservative":
		return storage.StrategyConservative, nil
	case "aggressive":
		return storage.StrategyAggressive, nil
	}
	return 0, fmt.Errorf("unknown strategy %q (want minimal, conservative or aggressive)", name)
}

// humanBytes renders a byte count the way the HUD does.
func humanBytes(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
