package achievements

// Tracker accumulates the session-scoped counters the catalog's
// exploration rules read: steps taken, distinct tiles stood on, themes
// tried, view switches. Persistent counters live in the state store;
// these reset with the session.
type Tracker struct {
	moves        int
	tiles        map[[2]int]bool
	themes       map[string]bool
	viewSwitches int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		tiles:  make(map[[2]int]bool),
		themes: make(map[string]bool),
	}
}

// RecordMove counts one successful step.
func (t *Tracker) RecordMove() {
	t.moves++
}

// RecordTile marks the tile at (x, y) as stood on.
func (t *Tracker) RecordTile(x, y int) {
	t.tiles[[2]int{x, y}] = true
}

// RecordTheme marks a theme as tried.
func (t *Tracker) RecordTheme(name string) {
	if name == "" {
		return
	}
	t.themes[name] = true
}

// RecordViewSwitch counts one map view toggle.
func (t *Tracker) RecordViewSwitch() {
	t.viewSwitches++
}

func (t *Tracker) Moves() int        { return t.moves }
func (t *Tracker) TilesVisited() int { return len(t.tiles) }
func (t *Tracker) ThemesTried() int  { return len(t.themes) }
func (t *Tracker) ViewSwitches() int { return t.viewSwitches }

// Reset clears every counter for a new session.
func (t *Tracker) Reset() {
	t.moves = 0
	t.viewSwitches = 0
	clear(t.tiles)
	clear(t.themes)
}
