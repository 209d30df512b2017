package game

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/storage"
)

func TestRenderPlacesAdventurer(t *testing.T) {
	e, _, _ := newTestSession(t)
	scr := core.NewScreen(80, 24)
	e.Render(scr)

	// spawn (8,8) lands at screen cell (2+2*8, 1+8)
	if got := scr.Get(18, 9); got != '@' {
		t.Errorf("cell (18,9) = %q, want @", got)
	}
	if got := scr.Get(19, 9); got != 'v' {
		t.Errorf("facing glyph = %q, want v for the default heading", got)
	}
	if !strings.Contains(scr.Row(1), "TILEFOLIO") {
		t.Error("HUD header missing")
	}
	if !strings.Contains(scr.Row(23), "arrows: move") {
		t.Error("help line missing")
	}
}

func TestRenderTooSmall(t *testing.T) {
	e, _, _ := newTestSession(t)
	scr := core.NewScreen(30, 10)
	e.Render(scr)
	if !strings.Contains(scr.Row(0), "terminal too small") {
		t.Errorf("row 0 = %q", scr.Row(0))
	}
}

func TestRenderHUDCanBeHidden(t *testing.T) {
	e, _, _ := newTestSession(t)
	e.Step(frame(core.ActionToggleHUD))

	scr := core.NewScreen(80, 24)
	e.Render(scr)
	if strings.Contains(scr.Row(1), "TILEFOLIO") {
		t.Error("HUD still drawn after hiding it")
	}
}

func TestRenderSurveyHidesUndiscovered(t *testing.T) {
	e, store, _ := newTestSession(t)
	store.SetView(state.ViewAlternate)

	scr := core.NewScreen(80, 24)
	e.Render(scr)

	// contact (12,12) has not been found: the survey chart leaves it blank
	if got := scr.Get(26, 13); got != ' ' {
		t.Errorf("undiscovered marker = %q, want blank", got)
	}
	// about-me (8,7) was charted on arrival at the spawn plaza
	if got := scr.Get(18, 8); got != 'L' {
		t.Errorf("discovered marker = %q, want landmark initial", got)
	}
}

func TestRenderInfoPanel(t *testing.T) {
	e, store, _ := newTestSession(t)
	store.SetPosition(3, 3)
	store.SetFacing(state.FacingUp)
	e.Step(frame(core.ActionInteract))

	scr := core.NewScreen(80, 24)
	e.Render(scr)

	all := scr.String()
	if !strings.Contains(all, "Tech Blog Platform") {
		t.Error("info panel missing node title")
	}
	if !strings.Contains(all, "[project]") {
		t.Error("info panel missing node type tag")
	}
	if !strings.Contains(all, "esc to close") {
		t.Error("info panel missing close hint")
	}
}

func TestRenderToastLine(t *testing.T) {
	e, _, _ := newTestSession(t)
	e.Step(frame(core.ActionLeft))

	scr := core.NewScreen(80, 24)
	e.Render(scr)
	if !strings.Contains(scr.String(), "* unlocked:") {
		t.Error("toast line missing")
	}
}

func TestRenderWarningBanner(t *testing.T) {
	e, _, _ := newTestSession(t)
	e.warning = &storage.Warning{
		Level:   storage.LevelWarning,
		Message: "storage almost full (96% used)",
	}

	scr := core.NewScreen(80, 24)
	e.Render(scr)

	all := scr.String()
	if !strings.Contains(all, "storage almost full") {
		t.Error("warning banner missing")
	}
	if !strings.Contains(all, "o optimize  c clean up  x dismiss") {
		t.Error("banner action hints missing")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("the quick brown fox jumps over the lazy dog", 10)
	want := []string{"the quick", "brown fox", "jumps over", "the lazy", "dog"}
	if !slices.Equal(got, want) {
		t.Errorf("wrap = %v, want %v", got, want)
	}
	if wrapText("", 10) != nil {
		t.Error("empty input should wrap to nothing")
	}
	if wrapText("word", 0) != nil {
		t.Error("zero width should wrap to nothing")
	}
}

func TestFormatters(t *testing.T) {
	if got := formatPlayTime(95 * time.Second); got != "1m35s" {
		t.Errorf("playTime = %q", got)
	}
	if got := formatPlayTime(62 * time.Minute); got != "1h02m" {
		t.Errorf("playTime = %q", got)
	}
	if got := formatBytes(512); got != "512 B" {
		t.Errorf("bytes = %q", got)
	}
	if got := formatBytes(2048); got != "2.0 KB" {
		t.Errorf("bytes = %q", got)
	}
	if got := formatBytes(5 * 1024 * 1024); got != "5.0 MB" {
		t.Errorf("bytes = %q", got)
	}
}
