package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/game"
)

// ExploreModel is the Bubble Tea model for an explore session.
type ExploreModel struct {
	ex        *game.Explore
	screen    *core.Screen
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	frame     core.InputFrame
	finish    func(game.Summary)
	finished  bool
	quitting  bool
}

// NewExploreModel creates a model driving the given session. finish, if
// non-nil, is called once with the session summary when the visitor
// quits, before the program stops.
func NewExploreModel(ex *game.Explore, cfg core.RuntimeConfig, finish func(game.Summary)) ExploreModel {
	return ExploreModel{
		ex:        ex,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		frame:     core.NewInputFrame(),
		finish:    finish,
	}
}

// Init opens the session and starts the tick loop.
func (m ExploreModel) Init() tea.Cmd {
	m.ex.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ExploreModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.frame) {
		return m.quit()
	}
	return m, nil
}

// handleTick runs one simulation step with the accumulated input.
func (m ExploreModel) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	m.ex.Step(m.frame)
	m.ex.Tick(t)
	m.frame.Clear()
	return m, tickCmd(m.config.TickRate)
}

func (m ExploreModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.finish != nil && !m.finished {
		m.finished = true
		m.finish(m.ex.Summary())
	}
	return m, tea.Quit
}

// saveScreenshot saves the current screen to a file.
func (m *ExploreModel) saveScreenshot() {
	m.ex.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".tilefolio", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("island_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, the session continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m ExploreModel) View() string {
	if m.quitting {
		return ""
	}

	m.ex.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts a local explore session and blocks until the visitor quits.
func Run(ex *game.Explore, cfg core.RuntimeConfig) error {
	model := NewExploreModel(ex, cfg, nil)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
