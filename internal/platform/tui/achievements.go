package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tilefolio/tilefolio/internal/achievements"
	"github.com/tilefolio/tilefolio/internal/state"
)

// achFilter narrows the achievements table.
type achFilter int

const (
	filterAll achFilter = iota
	filterUnlocked
	filterLocked
)

func (f achFilter) String() string {
	switch f {
	case filterUnlocked:
		return "unlocked"
	case filterLocked:
		return "locked"
	}
	return "all"
}

// AchievementsKeyMap defines the key bindings for the achievements browser.
type AchievementsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k AchievementsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k AchievementsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Filter, k.Quit},
	}
}

// DefaultAchievementsKeyMap returns default key bindings.
func DefaultAchievementsKeyMap() AchievementsKeyMap {
	return AchievementsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f", "tab"),
			key.WithHelp("f", "filter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// AchievementsModel is the Bubble Tea model for the achievements browser.
type AchievementsModel struct {
	engine   *achievements.Engine
	st       *state.GameState
	tracker  *achievements.Tracker
	playTime time.Duration
	visible  []achievements.Definition
	filter   achFilter
	table    table.Model
	help     help.Model
	keys     AchievementsKeyMap
	width    int
	height   int
	quitting bool
}

// NewAchievementsModel creates a browser over the engine's catalog and
// the given saved state. playTime is the banked total for progress on
// time rules; session counters read as zero outside a live session.
func NewAchievementsModel(engine *achievements.Engine, st *state.GameState, playTime time.Duration, width, height int) AchievementsModel {
	h := help.New()
	h.ShowAll = false

	m := AchievementsModel{
		engine:   engine,
		st:       st,
		tracker:  achievements.NewTracker(),
		playTime: playTime,
		keys:     DefaultAchievementsKeyMap(),
		help:     h,
		width:    width,
		height:   height,
	}

	m.table = m.createTable()
	m.updateRows()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *AchievementsModel) createTable() table.Model {
	nameWidth := m.width - 40
	if nameWidth < 18 {
		nameWidth = 18
	}
	if nameWidth > 28 {
		nameWidth = 28
	}

	columns := []table.Column{
		{Title: "Achievement", Width: nameWidth},
		{Title: "Rarity", Width: 10},
		{Title: "Progress", Width: 9},
		{Title: "Unlocked", Width: 12},
	}

	height := m.height - 9
	if height < 4 {
		height = 4
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// unlockTime returns when the achievement was earned, or nil.
func unlockTime(st *state.GameState, id string) *time.Time {
	for i := range st.Progress.Achievements {
		if st.Progress.Achievements[i].ID == id {
			t := st.Progress.Achievements[i].UnlockedAt
			return &t
		}
	}
	return nil
}

// updateRows rebuilds the table for the current filter.
func (m *AchievementsModel) updateRows() {
	defs := m.engine.Catalog().Definitions()
	m.visible = m.visible[:0]

	var rows []table.Row
	for _, def := range defs {
		ua := unlockTime(m.st, def.ID)
		switch m.filter {
		case filterUnlocked:
			if ua == nil {
				continue
			}
		case filterLocked:
			if ua != nil {
				continue
			}
		}
		m.visible = append(m.visible, def)

		progress := "done"
		unlocked := "-"
		if ua == nil {
			cur, goal := m.engine.ProgressFor(def, m.st, m.tracker, m.playTime)
			progress = fmt.Sprintf("%d/%d", cur, goal)
		} else {
			unlocked = ua.Format("Jan 02 2006")
		}

		rows = append(rows, table.Row{
			def.Name,
			string(def.Rarity),
			progress,
			unlocked,
		})
	}

	m.table.SetRows(rows)
	m.table.GotoTop()
}

// unlockedCount counts catalog achievements present in the saved state.
func (m AchievementsModel) unlockedCount() int {
	n := 0
	for _, def := range m.engine.Catalog().Definitions() {
		if unlockTime(m.st, def.ID) != nil {
			n++
		}
	}
	return n
}

// Init initializes the achievements model.
func (m AchievementsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m AchievementsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Filter):
			m.filter = (m.filter + 1) % 3
			m.updateRows()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m AchievementsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("ACHIEVEMENTS - %d of %d unlocked", m.unlockedCount(), m.engine.Catalog().Len())
	if m.filter != filterAll {
		title += fmt.Sprintf(" [%s]", m.filter)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.visible) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(centerText(tableStyle.Render(emptyStyle.Render("Nothing here under this filter.")), m.width))
	} else {
		b.WriteString(centerText(tableStyle.Render(m.table.View()), m.width))
	}
	b.WriteString("\n")

	// Description of the highlighted entry
	if cur := m.table.Cursor(); cur >= 0 && cur < len(m.visible) {
		descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		def := m.visible[cur]
		b.WriteString(descStyle.Render(centerText(def.Icon+" "+def.Description, m.width)))
	}
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RunAchievements runs the achievements browser.
func RunAchievements(engine *achievements.Engine, st *state.GameState, playTime time.Duration, width, height int) error {
	model := NewAchievementsModel(engine, st, playTime, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
