// Package game drives an island exploration session: movement and
// discovery, node interactions, theme and view switching, achievement
// evaluation and the periodic storage sweep. Pure logic over the
// platform's input frames and screen buffer; the TUI layer owns keys,
// timing and terminal output.
package game

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilefolio/tilefolio/internal/achievements"
	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/storage"
	"github.com/tilefolio/tilefolio/internal/theme"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

// toastTTL is how long an unlock announcement stays on screen.
const toastTTL = 4 * time.Second

// Toast is a recent achievement unlock for the HUD to announce.
type Toast struct {
	Achievement state.Achievement
	At          time.Time
}

// Explore is one visitor's session on the island.
type Explore struct {
	world   *tilemap.Map
	store   *state.Store
	engine  *achievements.Engine
	tracker *achievements.Tracker
	quota   *storage.Manager
	log     *log.Logger
	now     func() time.Time

	theme    theme.Theme
	infoNode *tilemap.Node
	helpOpen bool
	toasts   []Toast

	interactions int
	unlocks      int

	storageInfo    storage.Info
	warning        *storage.Warning
	dismissed      bool
	dismissedLevel storage.WarningLevel
	achievementGap cadence
	storageGap     cadence
}

// Summary describes a finished session for the visit log.
type Summary struct {
	StartedAt       time.Time
	Duration        time.Duration
	Moves           int
	Interactions    int
	NodesDiscovered int
	Unlocked        int
	Theme           string
}

// Option configures an Explore session.
type Option func(*Explore)

// WithLogger routes session diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Explore) { e.log = l }
}

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Explore) { e.now = now }
}

// WithSweepIntervals overrides how often achievements are re-evaluated
// and storage health re-read. Zero disables a sweep.
func WithSweepIntervals(achievements, storage time.Duration) Option {
	return func(e *Explore) {
		e.achievementGap.every = achievements
		e.storageGap.every = storage
	}
}

// New builds a session over the world, the visitor's store, the
// achievement engine and the storage manager.
func New(world *tilemap.Map, store *state.Store, engine *achievements.Engine, quota *storage.Manager, opts ...Option) *Explore {
	e := &Explore{
		world:          world,
		store:          store,
		engine:         engine,
		tracker:        achievements.NewTracker(),
		quota:          quota,
		log:            log.New(io.Discard),
		now:            time.Now,
		achievementGap: cadence{every: 5 * time.Second},
		storageGap:     cadence{every: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reset opens the session: theme resolved from settings, session
// counters cleared, panels closed, the spawn surroundings charted and
// a first storage reading taken. Called once before the first Step.
func (e *Explore) Reset(cfg core.RuntimeConfig) {
	settings := e.store.Snapshot().Settings
	e.theme = theme.GetOrDefault(settings.Theme)

	e.tracker.Reset()
	e.tracker.RecordTheme(e.theme.Name)
	pos := e.store.Position()
	e.tracker.RecordTile(pos.X, pos.Y)

	e.infoNode = nil
	e.helpOpen = false
	e.toasts = nil
	e.interactions = 0
	e.unlocks = 0
	e.dismissed = false
	e.store.SetActivePanel("")
	e.store.SetControlsLocked(false)

	e.discoverNearby(pos.X, pos.Y)
	e.refreshStorage()
}

var directions = []struct {
	action core.Action
	facing state.Facing
	dx, dy int
}{
	{core.ActionUp, state.FacingUp, 0, -1},
	{core.ActionDown, state.FacingDown, 0, 1},
	{core.ActionLeft, state.FacingLeft, -1, 0},
	{core.ActionRight, state.FacingRight, 1, 0},
}

// Step advances the session by one input frame. An open panel owns the
// keys until it is closed.
func (e *Explore) Step(in core.InputFrame) {
	if e.helpOpen {
		if in.Has(core.ActionHelp) || in.Has(core.ActionCloseInfo) {
			e.helpOpen = false
		}
		return
	}
	if e.infoNode != nil {
		if in.Has(core.ActionCloseInfo) || in.Has(core.ActionInteract) {
			e.closeInfo()
		}
		return
	}
	if in.Has(core.ActionHelp) {
		e.helpOpen = true
		return
	}

	progress := e.handleMovement(in)
	if in.Has(core.ActionInteract) && e.interact() {
		progress = true
	}
	if in.Has(core.ActionCycleTheme) && e.cycleTheme() {
		progress = true
	}
	if in.Has(core.ActionToggleView) && e.toggleView() {
		progress = true
	}
	if in.Has(core.ActionToggleHUD) {
		e.store.ToggleHUD()
	}

	// The warning banner's actions exist only while it shows.
	if e.warning != nil {
		switch {
		case in.Has(core.ActionOptimize):
			e.optimizeStorage()
		case in.Has(core.ActionCleanup):
			e.cleanupStorage()
		case in.Has(core.ActionDismiss):
			e.dismissWarning()
		}
	}

	if progress {
		e.runUnlocks()
	}
}

// handleMovement processes the first direction present in the frame: it
// always turns the adventurer, and moves too when the target tile is
// walkable.
func (e *Explore) handleMovement(in core.InputFrame) bool {
	for _, d := range directions {
		if !in.Has(d.action) {
			continue
		}
		e.store.SetFacing(d.facing)
		pos := e.store.Position()
		nx, ny := pos.X+d.dx, pos.Y+d.dy
		if !e.world.IsWalkable(nx, ny) {
			e.store.SetMoving(false)
			return false
		}
		e.store.SetPosition(nx, ny)
		e.store.SetMoving(true)
		e.tracker.RecordMove()
		e.tracker.RecordTile(nx, ny)
		e.discoverNearby(nx, ny)
		return true
	}
	e.store.SetMoving(false)
	return false
}

// discoverNearby charts any node on or orthogonally next to (x, y).
func (e *Explore) discoverNearby(x, y int) {
	for _, d := range [...][2]int{{0, 0}, {0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		if n := e.world.NodeAt(x+d[0], y+d[1]); n != nil {
			e.store.SetNodeDiscovered(n.ID, true)
		}
	}
}

// interact visits the node under or in front of the adventurer and
// opens its info panel.
func (e *Explore) interact() bool {
	pos := e.store.Position()
	node := e.world.NodeAt(pos.X, pos.Y)
	if node == nil {
		dx, dy := facingDelta(e.store.Facing())
		node = e.world.NodeAt(pos.X+dx, pos.Y+dy)
	}
	if node == nil {
		return false
	}
	if !e.store.RecordNodeInteraction(node.ID) {
		return false
	}
	e.interactions++
	e.infoNode = node
	e.store.SetActivePanel("node:" + node.ID)
	e.store.SetControlsLocked(true)
	return true
}

func (e *Explore) closeInfo() {
	e.infoNode = nil
	e.store.SetActivePanel("")
	e.store.SetControlsLocked(false)
}

func (e *Explore) cycleTheme() bool {
	next := theme.Next(e.theme.Name)
	if next == e.theme.Name {
		return false
	}
	e.theme = theme.GetOrDefault(next)
	e.store.UpdateSettings(state.SettingsPatch{Theme: &next})
	e.tracker.RecordTheme(next)
	e.log.Debug("theme switched", "theme", next)
	return true
}

func (e *Explore) toggleView() bool {
	e.store.ToggleView()
	e.tracker.RecordViewSwitch()
	return true
}

func facingDelta(f state.Facing) (int, int) {
	switch f {
	case state.FacingUp:
		return 0, -1
	case state.FacingDown:
		return 0, 1
	case state.FacingLeft:
		return -1, 0
	case state.FacingRight:
		return 1, 0
	}
	return 0, 0
}

// Theme returns the active theme.
func (e *Explore) Theme() theme.Theme {
	return e.theme
}

// World returns the island being explored.
func (e *Explore) World() *tilemap.Map {
	return e.world
}

// Store returns the session's state store.
func (e *Explore) Store() *state.Store {
	return e.store
}

// Engine returns the achievement engine.
func (e *Explore) Engine() *achievements.Engine {
	return e.engine
}

// Tracker returns the session counters.
func (e *Explore) Tracker() *achievements.Tracker {
	return e.tracker
}

// InfoNode returns the node whose panel is open, or nil.
func (e *Explore) InfoNode() *tilemap.Node {
	return e.infoNode
}

// HelpOpen reports whether the help overlay is up.
func (e *Explore) HelpOpen() bool {
	return e.helpOpen
}

// StorageInfo returns the latest storage reading.
func (e *Explore) StorageInfo() storage.Info {
	return e.storageInfo
}

// StorageWarning returns the current pressure warning, or nil.
func (e *Explore) StorageWarning() *storage.Warning {
	return e.warning
}

// Toasts returns the unlock announcements still within their display
// window.
func (e *Explore) Toasts() []Toast {
	out := make([]Toast, len(e.toasts))
	copy(out, e.toasts)
	return out
}

// Summary reports what happened this session. Discovered nodes are
// counted against the current world, so records from an older island
// don't inflate the tally.
func (e *Explore) Summary() Summary {
	st := e.store.Snapshot()
	discovered := 0
	for id, rec := range st.Nodes {
		if e.world.NodeByID(id) == nil {
			continue
		}
		if rec.Discovered {
			discovered++
		}
	}
	dur := e.now().Sub(st.Progress.SessionStart)
	if dur < 0 {
		dur = 0
	}
	return Summary{
		StartedAt:       st.Progress.SessionStart,
		Duration:        dur,
		Moves:           e.tracker.Moves(),
		Interactions:    e.interactions,
		NodesDiscovered: discovered,
		Unlocked:        e.unlocks,
		Theme:           st.Settings.Theme,
	}
}

// Close ends the session through the store.
func (e *Explore) Close() {
	e.store.SetMoving(false)
	e.store.Close()
}
