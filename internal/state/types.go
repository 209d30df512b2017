// Package state owns the explorer's persistent state: where the
// adventurer stands, which nodes they have found, their achievements,
// UI preferences and settings. The Store serializes the aggregate to
// the quota-managed storage layer and repairs whatever it reads back,
// so a damaged save degrades field by field instead of wiping progress.
package state

import "time"

// Version is the current save format. Older or mangled saves are not
// migrated wholesale; every field is validated and repaired on read.
const Version = 3

// Grid bounds positions are clamped to.
const (
	GridMin = 0
	GridMax = 15
)

// Position is a tile coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Facing is the direction the adventurer looks.
type Facing string

const (
	FacingUp    Facing = "up"
	FacingDown  Facing = "down"
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// Valid reports whether the value is a known direction.
func (f Facing) Valid() bool {
	switch f {
	case FacingUp, FacingDown, FacingLeft, FacingRight:
		return true
	}
	return false
}

// Adventurer is the player's avatar.
type Adventurer struct {
	Position Position `json:"position"`
	Facing   Facing   `json:"facing"`
	Moving   bool     `json:"moving"`
}

// NodeRecord tracks the explorer's relationship with one node.
// Invariants: a visited node is always discovered, and the interaction
// count never decreases.
type NodeRecord struct {
	Discovered   bool       `json:"discovered"`
	Visited      bool       `json:"visited"`
	Interactions int        `json:"interactions"`
	LastVisited  *time.Time `json:"lastVisited,omitempty"`
}

// Achievement is an unlocked achievement as stored. Records are
// append-only; once unlocked they are never modified or removed.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
	Progress    int       `json:"progress"`
	MaxProgress int       `json:"maxProgress"`
	Rarity      string    `json:"rarity"`
	Category    string    `json:"category"`
}

// Progress aggregates exploration totals across sessions.
type Progress struct {
	TotalInteractions  int           `json:"totalInteractions"`
	UniqueNodesVisited int           `json:"uniqueNodesVisited"`
	SessionStart       time.Time     `json:"sessionStart"`
	TotalPlayTime      int           `json:"totalPlayTime"` // whole seconds, past sessions only
	Achievements       []Achievement `json:"achievements"`
}

// View selects which top-level screen is showing.
type View string

const (
	ViewPrimary   View = "primary"   // the island map
	ViewAlternate View = "alternate" // the survey chart
)

// Valid reports whether the value is a known view.
func (v View) Valid() bool {
	return v == ViewPrimary || v == ViewAlternate
}

// UIState is the interface state worth restoring between sessions.
type UIState struct {
	View           View   `json:"currentView"`
	ActivePanel    string `json:"activePanel"` // open node id, empty when closed
	HUDVisible     bool   `json:"hudVisible"`
	ControlsLocked bool   `json:"controlsLocked"`
}

// Settings are the player-adjustable options.
type Settings struct {
	Sound      bool   `json:"sound"`
	Animations bool   `json:"animations"`
	Theme      string `json:"theme"`
	AutoSave   bool   `json:"autoSave"`
}

// GameState is the full persisted aggregate.
type GameState struct {
	Version    int                    `json:"version"`
	Timestamp  int64                  `json:"timestamp,omitempty"` // unix millis of last save
	Adventurer Adventurer             `json:"adventurer"`
	Nodes      map[string]*NodeRecord `json:"nodes"`
	Progress   Progress               `json:"progress"`
	UI         UIState                `json:"ui"`
	Settings   Settings               `json:"settings"`
}

// Clone returns a deep copy safe to read after the original moves on.
func (g *GameState) Clone() *GameState {
	out := *g
	out.Nodes = make(map[string]*NodeRecord, len(g.Nodes))
	for id, rec := range g.Nodes {
		r := *rec
		if rec.LastVisited != nil {
			t := *rec.LastVisited
			r.LastVisited = &t
		}
		out.Nodes[id] = &r
	}
	out.Progress.Achievements = append([]Achievement(nil), g.Progress.Achievements...)
	return &out
}

// HasAchievement reports whether the achievement is already unlocked.
func (g *GameState) HasAchievement(id string) bool {
	for _, a := range g.Progress.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// DefaultState returns a fresh state: adventurer centered on the plaza,
// nothing discovered, defaults for UI and settings, session starting now.
func DefaultState(now time.Time) *GameState {
	return &GameState{
		Version: Version,
		Adventurer: Adventurer{
			Position: Position{X: 8, Y: 8},
			Facing:   FacingDown,
		},
		Nodes: make(map[string]*NodeRecord),
		Progress: Progress{
			SessionStart: now,
			Achievements: []Achievement{},
		},
		UI: UIState{
			View:       ViewPrimary,
			HUDVisible: true,
		},
		Settings: Settings{
			Sound:      true,
			Animations: true,
			Theme:      "classic",
			AutoSave:   true,
		},
	}
}
