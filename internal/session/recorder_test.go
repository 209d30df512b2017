package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecorderOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "visits.db")

	rec, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer rec.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestRecorderOpenNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "visits.db")

	rec, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer rec.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestRecorderRecordAndRecent(t *testing.T) {
	tmpDir := t.TempDir()
	rec, err := Open(filepath.Join(tmpDir, "visits.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer rec.Close()

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := rec.Record(Visit{
			StartedAt:       started.Add(time.Duration(i) * time.Hour),
			Duration:        60 * (i + 1),
			Moves:           10 * (i + 1),
			Interactions:    i,
			NodesDiscovered: i + 1,
			Unlocked:        i,
			Theme:           "classic",
			Remote:          i == 2,
		})
		if err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	visits, err := rec.Recent(10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(visits) != 3 {
		t.Fatalf("Expected 3 visits, got %d", len(visits))
	}

	// Newest first
	latest := visits[0]
	if latest.Duration != 180 || latest.Moves != 30 || latest.NodesDiscovered != 3 {
		t.Errorf("Latest visit = %+v, want duration 180, moves 30, discovered 3", latest)
	}
	if !latest.Remote {
		t.Error("Latest visit should be remote")
	}
	if latest.Theme != "classic" {
		t.Errorf("Theme = %q", latest.Theme)
	}
	if !latest.StartedAt.Equal(started.Add(2 * time.Hour)) {
		t.Errorf("StartedAt = %v, want %v", latest.StartedAt, started.Add(2*time.Hour))
	}
	if visits[2].Duration != 60 {
		t.Errorf("Oldest visit duration = %d, want 60", visits[2].Duration)
	}
}

func TestRecorderRecentLimit(t *testing.T) {
	tmpDir := t.TempDir()
	rec, err := Open(filepath.Join(tmpDir, "visits.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer rec.Close()

	for i := 0; i < 5; i++ {
		rec.Record(Visit{StartedAt: time.Now(), Duration: i})
	}

	visits, err := rec.Recent(3)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(visits) != 3 {
		t.Errorf("Expected 3 visits with limit, got %d", len(visits))
	}
	if visits[0].Duration != 4 {
		t.Errorf("Expected newest visit first, got duration %d", visits[0].Duration)
	}
}

func TestRecorderNegativeDurationClamped(t *testing.T) {
	tmpDir := t.TempDir()
	rec, err := Open(filepath.Join(tmpDir, "visits.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer rec.Close()

	if _, err := rec.Record(Visit{StartedAt: time.Now(), Duration: -5}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	visits, err := rec.Recent(1)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if visits[0].Duration != 0 {
		t.Errorf("Duration = %d, want 0", visits[0].Duration)
	}
}

func TestRecorderTotalStats(t *testing.T) {
	tmpDir := t.TempDir()
	rec, err := Open(filepath.Join(tmpDir, "visits.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer rec.Close()

	// Empty log aggregates to zeros
	totals, err := rec.TotalStats()
	if err != nil {
		t.Fatalf("TotalStats() failed: %v", err)
	}
	if totals.Visits != 0 || totals.TotalSeconds != 0 {
		t.Errorf("Empty totals = %+v", totals)
	}
	if !totals.LastVisit.IsZero() {
		t.Errorf("LastVisit = %v, want zero", totals.LastVisit)
	}

	rec.Record(Visit{StartedAt: time.Now(), Duration: 100, Moves: 50, Interactions: 5, NodesDiscovered: 4})
	rec.Record(Visit{StartedAt: time.Now(), Duration: 200, Moves: 70, Interactions: 3, NodesDiscovered: 9, Remote: true})

	totals, err = rec.TotalStats()
	if err != nil {
		t.Fatalf("TotalStats() failed: %v", err)
	}
	if totals.Visits != 2 {
		t.Errorf("Visits = %d, want 2", totals.Visits)
	}
	if totals.TotalSeconds != 300 {
		t.Errorf("TotalSeconds = %d, want 300", totals.TotalSeconds)
	}
	if totals.TotalMoves != 120 {
		t.Errorf("TotalMoves = %d, want 120", totals.TotalMoves)
	}
	if totals.Interactions != 8 {
		t.Errorf("Interactions = %d, want 8", totals.Interactions)
	}
	if totals.BestDiscovered != 9 {
		t.Errorf("BestDiscovered = %d, want 9", totals.BestDiscovered)
	}
	if totals.RemoteVisits != 1 {
		t.Errorf("RemoteVisits = %d, want 1", totals.RemoteVisits)
	}
	if totals.LastVisit.IsZero() {
		t.Error("LastVisit should be set after recording")
	}
}
