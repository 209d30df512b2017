package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tilefolio/tilefolio/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the island over SSH",
	Long: `Start an SSH server so anyone can visit the island remotely.

Each connection gets its own fresh in-memory session, so visitors can
explore freely without touching the local save file. Finished visits
land in the shared visit log.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tilefolio/host_key

Examples:
  tilefolio serve                           # Listen on :23234 with auto-generated key
  tilefolio serve --ssh :2222               # Listen on port 2222
  tilefolio serve --host-key ./my_host_key  # Use specific host key

Visitors connect with:
  ssh yourhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srvCfg := tui.SSHServerConfig{
		Address:      cfg.SSH.Address,
		HostKeyPath:  cfg.SSH.HostKeyPath,
		SessionsDB:   cfg.Storage.SessionsDB,
		WorldPath:    cfg.Game.WorldPath,
		CatalogPath:  cfg.Game.CatalogPath,
		DefaultTheme: cfg.Game.DefaultTheme,
		TickRate:     cfg.Game.TickRate,
		IdleTimeout:  cfg.SSH.IdleTimeout(),
	}
	if flagSSHAddr != "" {
		srvCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Serving the island on %s\n", server.Addr())
	fmt.Println("Visitors connect with: ssh <host> -p <port>")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
