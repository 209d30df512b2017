package game

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/tilefolio/tilefolio/internal/achievements"
	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/storage"
	"github.com/tilefolio/tilefolio/internal/theme"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func nodeIDs(m *tilemap.Map) []string {
	var ids []string
	for _, n := range m.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}

func newTestSession(t *testing.T) (*Explore, *state.Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	mgr := storage.NewManager(storage.NewMemoryKV())
	world := tilemap.Default()
	store := state.NewStore(mgr, state.WithClock(clock.Now), state.WithKnownNodes(nodeIDs(world)))
	engine := achievements.NewEngine(achievements.Default(), world, achievements.WithThemeCount(theme.Count()))

	e := New(world, store, engine, mgr, WithClock(clock.Now))
	e.Reset(core.DefaultRuntimeConfig())
	return e, store, clock
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestFiveLeftMovesFromSpawn(t *testing.T) {
	e, store, _ := newTestSession(t)

	for i := 0; i < 5; i++ {
		e.Step(frame(core.ActionLeft))
	}

	if got := store.Position(); got != (state.Position{X: 3, Y: 8}) {
		t.Fatalf("position = %+v, want (3,8)", got)
	}
	if store.Facing() != state.FacingLeft {
		t.Errorf("facing = %q, want left", store.Facing())
	}
	if got := e.Tracker().Moves(); got != 5 {
		t.Errorf("moves = %d, want 5: every direction press both turns and walks", got)
	}
	if !store.HasAchievement("first_steps") {
		t.Error("first_steps not unlocked after moving")
	}
}

func TestBlockedMoveTurnsWithoutWalking(t *testing.T) {
	e, store, _ := newTestSession(t)
	store.SetPosition(1, 1)
	store.SetFacing(state.FacingDown)

	e.Step(frame(core.ActionLeft)) // (0,1) is open water

	if got := store.Position(); got != (state.Position{X: 1, Y: 1}) {
		t.Errorf("position = %+v, want unchanged (1,1)", got)
	}
	if store.Facing() != state.FacingLeft {
		t.Errorf("facing = %q, want left even when blocked", store.Facing())
	}
	if got := e.Tracker().Moves(); got != 0 {
		t.Errorf("moves = %d, want 0", got)
	}
}

func TestWalkingDiscoversNearbyNodes(t *testing.T) {
	e, store, _ := newTestSession(t)

	// tech-blog-platform sits at (3,2); stepping onto (3,3) is adjacent
	store.SetPosition(3, 4)
	e.Step(frame(core.ActionUp))

	rec, ok := store.NodeRecord("tech-blog-platform")
	if !ok || !rec.Discovered {
		t.Fatalf("node not discovered after walking next to it: %+v", rec)
	}
	if rec.Visited {
		t.Error("walking past must not count as a visit")
	}
	if !store.HasAchievement("first_discovery") {
		t.Error("first_discovery not unlocked on discovery")
	}
}

func TestInteractOpensPanelAndRecordsVisit(t *testing.T) {
	e, store, _ := newTestSession(t)
	store.SetPosition(3, 3)
	store.SetFacing(state.FacingUp)

	e.Step(frame(core.ActionInteract))

	if e.InfoNode() == nil || e.InfoNode().ID != "tech-blog-platform" {
		t.Fatalf("info panel = %v, want tech-blog-platform", e.InfoNode())
	}
	st := store.Snapshot()
	if st.UI.ActivePanel != "node:tech-blog-platform" || !st.UI.ControlsLocked {
		t.Errorf("ui = %+v, want panel open and controls locked", st.UI)
	}
	rec, _ := store.NodeRecord("tech-blog-platform")
	if !rec.Visited || rec.Interactions != 1 {
		t.Errorf("record = %+v, want one visit", rec)
	}
	if !store.HasAchievement("first_discovery") {
		t.Error("first_discovery not unlocked on first interaction")
	}

	// the open panel owns the keys
	e.Step(frame(core.ActionLeft))
	if got := store.Position(); got != (state.Position{X: 3, Y: 3}) {
		t.Errorf("moved while panel open: %+v", got)
	}

	e.Step(frame(core.ActionCloseInfo))
	if e.InfoNode() != nil {
		t.Fatal("panel still open after close")
	}
	st = store.Snapshot()
	if st.UI.ActivePanel != "" || st.UI.ControlsLocked {
		t.Errorf("ui = %+v, want panel cleared and controls unlocked", st.UI)
	}
}

func TestInteractOnEmptyTileDoesNothing(t *testing.T) {
	e, store, _ := newTestSession(t)
	store.SetPosition(5, 9)
	store.SetFacing(state.FacingDown)

	e.Step(frame(core.ActionInteract))

	if e.InfoNode() != nil {
		t.Errorf("panel opened on empty ground: %v", e.InfoNode())
	}
	if got := store.Snapshot().Progress.TotalInteractions; got != 0 {
		t.Errorf("interactions = %d, want 0", got)
	}
}

func TestThemeCycleTracksAndPersists(t *testing.T) {
	e, store, _ := newTestSession(t)
	start := e.Theme().Name

	e.Step(frame(core.ActionCycleTheme))
	if e.Theme().Name == start {
		t.Fatal("theme did not change")
	}
	if got := store.Snapshot().Settings.Theme; got != e.Theme().Name {
		t.Errorf("settings theme = %q, want %q", got, e.Theme().Name)
	}

	// visiting the rest of the wheel earns style_conscious
	for i := 0; i < theme.Count()-1; i++ {
		e.Step(frame(core.ActionCycleTheme))
	}
	if e.Theme().Name != start {
		t.Errorf("cycle did not wrap: on %q", e.Theme().Name)
	}
	if !store.HasAchievement("style_conscious") {
		t.Error("style_conscious not unlocked after trying every theme")
	}
}

func TestViewToggleTracksSwitches(t *testing.T) {
	e, store, _ := newTestSession(t)

	for i := 0; i < 5; i++ {
		e.Step(frame(core.ActionToggleView))
	}

	if got := store.Snapshot().UI.View; got != state.ViewAlternate {
		t.Errorf("view = %q after five toggles, want alternate", got)
	}
	if !store.HasAchievement("perspective_shift") {
		t.Error("perspective_shift not unlocked after five switches")
	}
}

func TestHelpPanelBlocksInput(t *testing.T) {
	e, store, _ := newTestSession(t)

	e.Step(frame(core.ActionHelp))
	if !e.HelpOpen() {
		t.Fatal("help did not open")
	}
	e.Step(frame(core.ActionLeft))
	if got := store.Position(); got != (state.Position{X: 8, Y: 8}) {
		t.Errorf("moved while help open: %+v", got)
	}
	e.Step(frame(core.ActionHelp))
	if e.HelpOpen() {
		t.Fatal("help did not close")
	}
	e.Step(frame(core.ActionLeft))
	if got := store.Position(); got != (state.Position{X: 7, Y: 8}) {
		t.Errorf("position = %+v, want (7,8) after closing help", got)
	}
}

func TestTickUnlocksTimeRulesWhileIdle(t *testing.T) {
	e, store, clock := newTestSession(t)
	banked := 1790
	store.UpdateProgress(state.ProgressPatch{TotalPlayTime: &banked})

	clock.Advance(15 * time.Second)
	e.Tick(clock.now)

	if !store.HasAchievement("dedicated_visitor") {
		t.Error("dedicated_visitor not unlocked by the idle sweep")
	}
}

func TestTickHonorsSweepIntervals(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	mgr := storage.NewManager(storage.NewMemoryKV())
	world := tilemap.Default()
	store := state.NewStore(mgr, state.WithClock(clock.Now))
	engine := achievements.NewEngine(achievements.Default(), world)

	e := New(world, store, engine, mgr, WithClock(clock.Now), WithSweepIntervals(0, 0))
	e.Reset(core.DefaultRuntimeConfig())

	banked := 3600
	store.UpdateProgress(state.ProgressPatch{TotalPlayTime: &banked})
	e.Tick(clock.now)

	if store.HasAchievement("dedicated_visitor") {
		t.Error("disabled sweep still evaluated achievements")
	}
}

func TestStorageReadingAvailableAfterReset(t *testing.T) {
	e, _, _ := newTestSession(t)

	info := e.StorageInfo()
	if info.QuotaBytes != storage.DefaultQuotaBytes {
		t.Errorf("quota = %d, want default", info.QuotaBytes)
	}
	if info.UsedBytes <= 0 {
		t.Error("used bytes should reflect the session marker and saves")
	}
}

func TestStorageWarningLifecycle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	mgr := storage.NewManager(storage.NewMemoryKV(), storage.WithQuota(8*1024))
	world := tilemap.Default()
	store := state.NewStore(mgr, state.WithClock(clock.Now), state.WithKnownNodes(nodeIDs(world)))
	engine := achievements.NewEngine(achievements.Default(), world, achievements.WithThemeCount(theme.Count()))

	e := New(world, store, engine, mgr, WithClock(clock.Now))
	e.Reset(core.DefaultRuntimeConfig())

	// let the opening sweep bank its unlock writes so usage settles
	clock.Advance(6 * time.Second)
	e.Tick(clock.now)
	if e.StorageWarning() != nil {
		t.Fatalf("warning on a near-empty store: %+v", e.StorageWarning())
	}

	// fill parks cache ballast sized to lift usage to pct of the quota
	fill := func(key string, pct int) {
		t.Helper()
		used := mgr.Info().UsedBytes
		units := (mgr.Quota()*pct/100-used)/2 - len(key)
		if units <= 0 {
			t.Fatalf("store already past %d%% with %d bytes used", pct, used)
		}
		if !mgr.Set(key, strings.Repeat("x", units)) {
			t.Fatalf("ballast %s rejected", key)
		}
	}

	fill(storage.CachePrefix+"ballast-a", 90)
	clock.Advance(31 * time.Second)
	e.Tick(clock.now)
	w := e.StorageWarning()
	if w == nil || w.Level != storage.LevelInfo {
		t.Fatalf("warning = %+v, want info level at 90%% usage", w)
	}

	// optimize compacts what it can but cannot shed live ballast
	e.Step(frame(core.ActionOptimize))
	if e.StorageWarning() == nil {
		t.Fatal("optimize alone cleared ballast pressure")
	}

	// dismissing hides the banner for as long as the level holds
	e.Step(frame(core.ActionDismiss))
	if e.StorageWarning() != nil {
		t.Fatal("warning still showing after dismiss")
	}
	clock.Advance(31 * time.Second)
	e.Tick(clock.now)
	if e.StorageWarning() != nil {
		t.Error("dismissed warning came back at the same level")
	}

	// more pressure escalates the level, which voids the dismissal
	fill(storage.CachePrefix+"ballast-b", 97)
	clock.Advance(31 * time.Second)
	e.Tick(clock.now)
	w = e.StorageWarning()
	if w == nil || w.Level != storage.LevelWarning {
		t.Fatalf("warning = %+v, want warning level after escalation", w)
	}

	// cleanup sheds the ballast and the pressure with it
	e.Step(frame(core.ActionCleanup))
	if e.StorageWarning() != nil {
		t.Errorf("warning after cleanup: %+v", e.StorageWarning())
	}
	if info := e.StorageInfo(); info.NearLimit {
		t.Errorf("still near the limit after cleanup: %+v", info)
	}
	if _, ok := mgr.Get(storage.StateKey); !ok {
		t.Error("cleanup must never evict the live save")
	}
}

func TestToastLifecycle(t *testing.T) {
	e, _, clock := newTestSession(t)

	// the first step earns first_steps, and the spawn plaza borders
	// about-me so first_discovery lands with it
	e.Step(frame(core.ActionLeft))
	var ids []string
	for _, toast := range e.Toasts() {
		ids = append(ids, toast.Achievement.ID)
	}
	if len(ids) != 2 || !slices.Contains(ids, "first_steps") || !slices.Contains(ids, "first_discovery") {
		t.Fatalf("toasts = %v, want first_steps and first_discovery", ids)
	}

	clock.Advance(5 * time.Second)
	e.Tick(clock.now)
	if got := e.Toasts(); len(got) != 0 {
		t.Errorf("toasts after expiry = %+v", got)
	}
}

func TestSummaryReportsSession(t *testing.T) {
	e, _, clock := newTestSession(t)

	clock.Advance(90 * time.Second)
	e.Step(frame(core.ActionUp)) // blocked by the About Me marker, turns only
	e.Step(frame(core.ActionInteract))
	e.Step(frame(core.ActionCloseInfo))
	e.Step(frame(core.ActionLeft))

	sum := e.Summary()
	if !sum.StartedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("StartedAt = %v", sum.StartedAt)
	}
	if sum.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 90s", sum.Duration)
	}
	if sum.Moves != 1 {
		t.Errorf("Moves = %d, want 1", sum.Moves)
	}
	if sum.Interactions != 1 {
		t.Errorf("Interactions = %d, want 1", sum.Interactions)
	}
	if sum.NodesDiscovered != 1 {
		t.Errorf("NodesDiscovered = %d, want 1", sum.NodesDiscovered)
	}
	if sum.Unlocked != 2 {
		t.Errorf("Unlocked = %d, want first_steps and first_discovery", sum.Unlocked)
	}
	if sum.Theme != "classic" {
		t.Errorf("Theme = %q", sum.Theme)
	}
}
