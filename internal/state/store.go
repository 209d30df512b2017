package state

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/storage"
)

// backupKeep is how many rolling state backups survive a session close.
const backupKeep = 3

// Store owns the live GameState for one session and writes it through
// the storage manager. Mutations persist immediately while auto-save is
// on; Save forces a write regardless.
//
// A Store is not safe for concurrent use. The terminal program drives
// it from a single goroutine, which is the only access pattern it
// needs.
type Store struct {
	quota *storage.Manager
	log   *log.Logger
	now   func() time.Time
	known map[string]bool

	sessionKey string
	st         *GameState
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger routes repair and save diagnostics to l.
func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// WithClock substitutes the time source. Tests use this to control
// session and unlock timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithKnownNodes restricts node mutations to ids in the world catalog.
// Without it every id is accepted.
func WithKnownNodes(ids []string) StoreOption {
	return func(s *Store) {
		s.known = make(map[string]bool, len(ids))
		for _, id := range ids {
			s.known[id] = true
		}
	}
}

// NewStore loads the saved state through quota, repairing whatever does
// not parse, and opens a fresh session on top of it.
func NewStore(quota *storage.Manager, opts ...StoreOption) *Store {
	s := &Store{
		quota: quota,
		log:   log.New(io.Discard),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	now := s.now()
	if raw, ok := s.quota.Get(storage.StateKey); ok {
		st, repairs := Rehydrate([]byte(raw), now)
		if len(repairs) > 0 {
			s.log.Warn("repaired saved state", "fields", strings.Join(repairs, ", "))
		}
		s.st = st
	} else {
		s.st = DefaultState(now)
		s.log.Debug("no saved state, starting fresh")
	}

	// session-scoped fields never carry over from disk
	s.st.Progress.SessionStart = now
	s.st.Adventurer.Moving = false
	s.st.UI.ControlsLocked = false

	s.sessionKey = storage.TempPrefix + "session:" + strconv.FormatInt(now.Unix(), 10)
	marker, _ := json.Marshal(struct {
		StartedAt int64 `json:"startedAt"`
	}{now.UnixMilli()})
	if !s.quota.Set(s.sessionKey, string(marker)) {
		s.log.Debug("session marker not written")
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *GameState {
	return s.st.Clone()
}

// Position returns the adventurer's current tile.
func (s *Store) Position() Position {
	return s.st.Adventurer.Position
}

// Facing returns the adventurer's current heading.
func (s *Store) Facing() Facing {
	return s.st.Adventurer.Facing
}

// NodeRecord returns a copy of the record for id, if one exists.
func (s *Store) NodeRecord(id string) (NodeRecord, bool) {
	rec, ok := s.st.Nodes[id]
	if !ok {
		return NodeRecord{}, false
	}
	return *rec, true
}

// Achievements returns a copy of the unlocked achievements.
func (s *Store) Achievements() []Achievement {
	out := make([]Achievement, len(s.st.Progress.Achievements))
	copy(out, s.st.Progress.Achievements)
	return out
}

// HasAchievement reports whether id has been unlocked.
func (s *Store) HasAchievement(id string) bool {
	return s.st.HasAchievement(id)
}

// PlayTime is the total time played across all sessions, including the
// live one.
func (s *Store) PlayTime() time.Duration {
	live := s.now().Sub(s.st.Progress.SessionStart)
	if live < 0 {
		live = 0
	}
	return time.Duration(s.st.Progress.TotalPlayTime)*time.Second + live
}

// SetPosition moves the adventurer, clamping to the grid. Walkability
// is the caller's rule; the store only guarantees bounds.
func (s *Store) SetPosition(x, y int) {
	p := Position{
		X: core.Clamp(x, GridMin, GridMax),
		Y: core.Clamp(y, GridMin, GridMax),
	}
	if p == s.st.Adventurer.Position {
		return
	}
	s.st.Adventurer.Position = p
	s.maybePersist()
}

// SetFacing updates the heading. Invalid values are refused.
func (s *Store) SetFacing(f Facing) bool {
	if !f.Valid() {
		s.log.Warn("ignoring invalid facing", "value", string(f))
		return false
	}
	if s.st.Adventurer.Facing == f {
		return true
	}
	s.st.Adventurer.Facing = f
	s.maybePersist()
	return true
}

// SetMoving flips the walk animation flag. Transient; never persisted
// on its own and reset on every load.
func (s *Store) SetMoving(moving bool) {
	s.st.Adventurer.Moving = moving
}

// RecordNodeInteraction marks id discovered and visited, bumps its
// interaction count and the global counters, and stamps the visit time.
// Unknown ids are refused.
func (s *Store) RecordNodeInteraction(id string) bool {
	if !s.knownNode(id) {
		s.log.Warn("interaction with unknown node", "id", id)
		return false
	}
	now := s.now()
	rec := s.node(id)
	if !rec.Visited {
		s.st.Progress.UniqueNodesVisited++
	}
	rec.Discovered = true
	rec.Visited = true
	rec.Interactions++
	rec.LastVisited = &now
	s.st.Progress.TotalInteractions++
	s.maybePersist()
	return true
}

// SetNodeDiscovered marks a node seen on the map without visiting it.
// Undiscovering a visited node is refused; visited implies discovered.
func (s *Store) SetNodeDiscovered(id string, discovered bool) bool {
	if !s.knownNode(id) {
		s.log.Warn("discovery for unknown node", "id", id)
		return false
	}
	rec := s.node(id)
	if !discovered && rec.Visited {
		s.log.Warn("refusing to undiscover visited node", "id", id)
		return false
	}
	if rec.Discovered == discovered {
		return true
	}
	rec.Discovered = discovered
	s.maybePersist()
	return true
}

// UnlockAchievement appends a to the unlocked list once. Repeat unlocks
// are no-ops. A zero UnlockedAt is stamped with the current time, and
// every unlock leaves a history entry in storage.
func (s *Store) UnlockAchievement(a Achievement) bool {
	if a.ID == "" || s.st.HasAchievement(a.ID) {
		return false
	}
	if a.UnlockedAt.IsZero() {
		a.UnlockedAt = s.now()
	}
	s.st.Progress.Achievements = append(s.st.Progress.Achievements, a)

	entry, _ := json.Marshal(struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Timestamp int64  `json:"timestamp"`
	}{a.ID, a.Name, a.UnlockedAt.UnixMilli()})
	if !s.quota.Set(storage.HistoryPrefix+a.ID, string(entry)) {
		s.log.Warn("achievement history entry not written", "id", a.ID)
	}

	s.maybePersist()
	s.log.Info("achievement unlocked", "id", a.ID, "name", a.Name)
	return true
}

// ProgressPatch selectively overrides progress counters. Nil fields are
// left alone; achievements are not patchable here and go through
// UnlockAchievement.
type ProgressPatch struct {
	TotalInteractions  *int
	UniqueNodesVisited *int
	TotalPlayTime      *int
}

// UpdateProgress applies p. Negative values are refused field by field.
func (s *Store) UpdateProgress(p ProgressPatch) {
	apply := func(dst *int, v *int, field string) {
		if v == nil {
			return
		}
		if *v < 0 {
			s.log.Warn("ignoring negative progress value", "field", field, "value", *v)
			return
		}
		*dst = *v
	}
	apply(&s.st.Progress.TotalInteractions, p.TotalInteractions, "totalInteractions")
	apply(&s.st.Progress.UniqueNodesVisited, p.UniqueNodesVisited, "uniqueNodesVisited")
	apply(&s.st.Progress.TotalPlayTime, p.TotalPlayTime, "totalPlayTime")
	s.maybePersist()
}

// SettingsPatch selectively overrides settings. Nil fields are left
// alone.
type SettingsPatch struct {
	Sound      *bool
	Animations *bool
	Theme      *string
	AutoSave   *bool
}

// UpdateSettings applies p and mirrors the result to the settings key.
// Returns the settings now in effect.
func (s *Store) UpdateSettings(p SettingsPatch) Settings {
	if p.Sound != nil {
		s.st.Settings.Sound = *p.Sound
	}
	if p.Animations != nil {
		s.st.Settings.Animations = *p.Animations
	}
	if p.Theme != nil {
		if *p.Theme == "" {
			s.log.Warn("ignoring empty theme name")
		} else {
			s.st.Settings.Theme = *p.Theme
		}
	}
	if p.AutoSave != nil {
		s.st.Settings.AutoSave = *p.AutoSave
	}
	s.mirrorSettings()
	s.maybePersist()
	return s.st.Settings
}

func (s *Store) mirrorSettings() {
	blob, err := json.Marshal(struct {
		Settings
		Timestamp int64 `json:"timestamp"`
	}{s.st.Settings, s.now().UnixMilli()})
	if err != nil {
		s.log.Error("cannot serialize settings", "err", err)
		return
	}
	if !s.quota.Set(storage.SettingsKey, string(blob)) {
		s.log.Warn("settings mirror not written")
	}
}

// SetView switches between the map views. Invalid values are refused.
func (s *Store) SetView(v View) bool {
	if !v.Valid() {
		s.log.Warn("ignoring invalid view", "value", string(v))
		return false
	}
	if s.st.UI.View == v {
		return true
	}
	s.st.UI.View = v
	s.maybePersist()
	return true
}

// ToggleView flips to the other map view and returns it.
func (s *Store) ToggleView() View {
	next := ViewAlternate
	if s.st.UI.View == ViewAlternate {
		next = ViewPrimary
	}
	s.SetView(next)
	return next
}

// SetActivePanel records which overlay panel is open; empty means none.
func (s *Store) SetActivePanel(name string) {
	if s.st.UI.ActivePanel == name {
		return
	}
	s.st.UI.ActivePanel = name
	s.maybePersist()
}

// SetHUDVisible shows or hides the HUD.
func (s *Store) SetHUDVisible(visible bool) {
	if s.st.UI.HUDVisible == visible {
		return
	}
	s.st.UI.HUDVisible = visible
	s.maybePersist()
}

// ToggleHUD flips HUD visibility and returns the new value.
func (s *Store) ToggleHUD() bool {
	s.SetHUDVisible(!s.st.UI.HUDVisible)
	return s.st.UI.HUDVisible
}

// SetControlsLocked gates input while a panel owns the keyboard.
// Transient; reset on every load.
func (s *Store) SetControlsLocked(locked bool) {
	s.st.UI.ControlsLocked = locked
}

// Reset discards all progress and starts over from defaults. Backups
// are left in place as the safety net.
func (s *Store) Reset() {
	s.st = DefaultState(s.now())
	s.mirrorSettings()
	s.persist()
	s.log.Info("state reset to defaults")
}

// Save writes the state out regardless of the auto-save setting.
func (s *Store) Save() bool {
	return s.persist()
}

// Close ends the session: play time is banked, the state saved, a
// backup rolled, and the session marker removed. The store stays usable
// so a repeated Close is harmless, but it will not double-count time.
func (s *Store) Close() {
	now := s.now()
	if elapsed := int(now.Sub(s.st.Progress.SessionStart).Seconds()); elapsed > 0 {
		s.st.Progress.TotalPlayTime += elapsed
	}
	s.st.Progress.SessionStart = now
	s.st.Adventurer.Moving = false

	if s.persist() {
		if raw, ok := s.quota.Get(storage.StateKey); ok {
			s.rollBackup(now, raw)
		}
	}
	s.quota.Delete(s.sessionKey)
	s.log.Debug("session closed", "playTime", s.st.Progress.TotalPlayTime)
}

func (s *Store) rollBackup(now time.Time, raw string) {
	key := storage.StateBackupPrefix + strconv.FormatInt(now.Unix(), 10)
	if !s.quota.Set(key, raw) {
		s.log.Warn("state backup refused by storage")
		return
	}

	var backups []string
	for _, e := range s.quota.Entries() {
		if strings.HasPrefix(e.Key, storage.StateBackupPrefix) {
			backups = append(backups, e.Key)
		}
	}
	// unix-second suffixes are fixed width, so key order is time order
	sort.Strings(backups)
	for len(backups) > backupKeep {
		s.quota.Delete(backups[0])
		backups = backups[1:]
	}
}

func (s *Store) persist() bool {
	s.st.Timestamp = s.now().UnixMilli()
	raw, err := json.Marshal(s.st)
	if err != nil {
		s.log.Error("cannot serialize state", "err", err)
		return false
	}
	if !s.quota.Set(storage.StateKey, string(raw)) {
		s.log.Warn("state save refused by storage")
		return false
	}
	return true
}

func (s *Store) maybePersist() {
	if s.st.Settings.AutoSave {
		s.persist()
	}
}

func (s *Store) node(id string) *NodeRecord {
	rec, ok := s.st.Nodes[id]
	if !ok {
		rec = &NodeRecord{}
		s.st.Nodes[id] = rec
	}
	return rec
}

func (s *Store) knownNode(id string) bool {
	if len(s.known) == 0 {
		return true
	}
	return s.known[id]
}
