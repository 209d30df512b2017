// tilefolio is a portfolio you explore instead of read: a small island
// rendered in the terminal, with projects, roles and contact details as
// places to walk to.
//
// Usage:
//
//	tilefolio play            - Explore the island locally
//	tilefolio serve           - Serve the island over SSH
//	tilefolio stats           - Show progress and the visit log
//	tilefolio achievements    - Browse the achievements catalog
//	tilefolio storage <cmd>   - Inspect and maintain the save storage
//	tilefolio reset           - Wipe the saved state
//
// Global flags:
//
//	--config <path>    - Config file (default: search chain)
//	--data-dir <path>  - Directory for save data and the visit log
//	--fps <rate>       - Tick rate override
//	--quota-mb <mb>    - Storage quota override in megabytes
//	--log-file <path>  - Append engine logs to a file
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tilefolio/tilefolio/internal/achievements"
	"github.com/tilefolio/tilefolio/internal/config"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

var (
	// Global flags
	flagConfig  string
	flagDataDir string
	flagFPS     int
	flagQuotaMB int
	flagLogFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilefolio",
	Short: "Tilefolio - A portfolio you can walk around",
	Long: `Tilefolio turns a portfolio into a tiny island in your terminal.
Walk around with the arrow keys, stand in front of a building and press
E to read about a project, a role, or how to get in touch. Progress,
achievements and settings persist in a quota-managed local store.

Available commands:
  play          - Explore the island in this terminal
  serve         - Start an SSH server so others can visit
  stats         - Overall progress and the visit log
  achievements  - Interactive achievements browser
  storage       - Quota usage, optimize and cleanup
  reset         - Wipe the saved state

Examples:
  tilefolio play
  tilefolio serve --ssh :2222
  tilefolio stats
  tilefolio storage info`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default: search chain)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory for save data, visit log and host key")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (ticks per second)")
	rootCmd.PersistentFlags().IntVar(&flagQuotaMB, "quota-mb", 0, "Storage quota override in megabytes")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append engine logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(storageCmd)
	rootCmd.AddCommand(resetCmd)
}

// loadConfig resolves the effective configuration: the YAML search
// chain first, then command-line overrides on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagDataDir != "" {
		cfg.Storage.Path = filepath.Join(flagDataDir, "tilefolio.db")
		cfg.Storage.SessionsDB = filepath.Join(flagDataDir, "visits.db")
		if cfg.SSH.HostKeyPath == "" {
			cfg.SSH.HostKeyPath = filepath.Join(flagDataDir, "host_key")
		}
	}
	if flagFPS > 0 {
		cfg.Game.TickRate = flagFPS
	}
	if flagQuotaMB > 0 {
		cfg.Storage.QuotaBytes = flagQuotaMB * 1024 * 1024
	}
	cfg.Normalize()
	return cfg, nil
}

// loadWorld returns the configured island, falling back to the
// built-in one when no path is set.
func loadWorld(cfg config.Config) (*tilemap.Map, error) {
	if cfg.Game.WorldPath == "" {
		return tilemap.Default(), nil
	}
	return tilemap.Load(cfg.Game.WorldPath)
}

// loadCatalog returns the configured achievements catalog, falling
// back to the built-in one when no path is set.
func loadCatalog(cfg config.Config) (*achievements.Catalog, error) {
	if cfg.Game.CatalogPath == "" {
		return achievements.Default(), nil
	}
	return achievements.Load(cfg.Game.CatalogPath)
}
