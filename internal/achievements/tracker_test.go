package achievements

import "testing"

func TestTrackerCounts(t *testing.T) {
	tr := NewTracker()

	for i := 0; i < 3; i++ {
		tr.RecordMove()
	}
	tr.RecordTile(8, 8)
	tr.RecordTile(7, 8)
	tr.RecordTile(8, 8)
	tr.RecordTheme("classic")
	tr.RecordTheme("neon")
	tr.RecordTheme("neon")
	tr.RecordTheme("")
	tr.RecordViewSwitch()
	tr.RecordViewSwitch()

	if tr.Moves() != 3 {
		t.Errorf("moves = %d, want 3", tr.Moves())
	}
	if tr.TilesVisited() != 2 {
		t.Errorf("tiles = %d, want 2 distinct", tr.TilesVisited())
	}
	if tr.ThemesTried() != 2 {
		t.Errorf("themes = %d, want 2 distinct", tr.ThemesTried())
	}
	if tr.ViewSwitches() != 2 {
		t.Errorf("viewSwitches = %d, want 2", tr.ViewSwitches())
	}

	tr.Reset()
	if tr.Moves() != 0 || tr.TilesVisited() != 0 || tr.ThemesTried() != 0 || tr.ViewSwitches() != 0 {
		t.Errorf("reset left counters behind: %+v", tr)
	}
}
