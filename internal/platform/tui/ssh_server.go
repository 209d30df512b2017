package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/tilefolio/tilefolio/internal/achievements"
	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/game"
	"github.com/tilefolio/tilefolio/internal/session"
	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/storage"
	"github.com/tilefolio/tilefolio/internal/theme"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tilefolio/host_key.
	HostKeyPath string

	// SessionsDB is the path to the visit log database.
	SessionsDB string

	// WorldPath is an optional island definition. Empty uses the built-in one.
	WorldPath string

	// CatalogPath is an optional achievements catalog. Empty uses the built-in one.
	CatalogPath string

	// DefaultTheme is applied to every fresh guest session.
	DefaultTheme string

	// TickRate is the simulation rate handed to each session.
	TickRate int

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		SessionsDB:   "~/.tilefolio/visits.db",
		DefaultTheme: "classic",
		TickRate:     30,
		IdleTimeout:  30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the island.
//
// Every connection gets its own in-memory world state, so visitors
// explore a fresh island without touching the host's save file. Only
// the visit log is shared.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	recorder *session.Recorder
	world    *tilemap.Map
	catalog  *achievements.Catalog
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilefolio-ssh",
	})

	world := tilemap.Default()
	if cfg.WorldPath != "" {
		w, err := tilemap.Load(cfg.WorldPath)
		if err != nil {
			return nil, fmt.Errorf("cannot load world: %w", err)
		}
		world = w
	}

	catalog := achievements.Default()
	if cfg.CatalogPath != "" {
		c, err := achievements.Load(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("cannot load achievements catalog: %w", err)
		}
		catalog = c
	}

	// Open the visit log
	recorder, err := session.Open(cfg.SessionsDB)
	if err != nil {
		logger.Warn("could not open visit log", "error", err)
		// Continue without recording
	}

	srv := &SSHServer{
		config:   cfg,
		recorder: recorder,
		world:    world,
		catalog:  catalog,
		logger:   logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tilefolio", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if recorder != nil {
			recorder.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	// Guest sessions live entirely in memory
	var ids []string
	for _, n := range s.world.Nodes() {
		ids = append(ids, n.ID)
	}
	mgr := storage.NewManager(storage.NewMemoryKV())
	st := state.NewStore(mgr, state.WithKnownNodes(ids))
	if s.config.DefaultTheme != "" {
		name := s.config.DefaultTheme
		st.UpdateSettings(state.SettingsPatch{Theme: &name})
	}
	engine := achievements.NewEngine(s.catalog, s.world, achievements.WithThemeCount(theme.Count()))
	ex := game.New(s.world, st, engine, mgr)

	finish := func(sum game.Summary) {
		if s.recorder == nil {
			return
		}
		//nolint:errcheck // Best-effort record
		s.recorder.Record(session.Visit{
			StartedAt:       sum.StartedAt,
			Duration:        int(sum.Duration / time.Second),
			Moves:           sum.Moves,
			Interactions:    sum.Interactions,
			NodesDiscovered: sum.NodesDiscovered,
			Unlocked:        sum.Unlocked,
			Theme:           sum.Theme,
			Remote:          true,
		})
	}

	model := NewExploreModel(ex, cfg, finish)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.recorder != nil {
		s.recorder.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
