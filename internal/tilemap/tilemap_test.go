package tilemap

import (
	"testing"
)

func TestDefaultWorldLoads(t *testing.T) {
	m := Default()
	if m == nil {
		t.Fatal("Default() returned nil")
	}
	if m.Name() == "" {
		t.Error("default world should have a name")
	}
	if m.NodeCount() != 9 {
		t.Errorf("NodeCount() = %d, expected 9", m.NodeCount())
	}
}

func TestSpawnTileIsPlaza(t *testing.T) {
	m := Default()
	tile, ok := m.TileAt(SpawnX, SpawnY)
	if !ok {
		t.Fatalf("TileAt(%d, %d) reported out of bounds", SpawnX, SpawnY)
	}
	if tile.Type != TilePlaza {
		t.Errorf("spawn tile type = %v, expected plaza", tile.Type)
	}
	if !m.IsWalkable(SpawnX, SpawnY) {
		t.Error("spawn tile must be walkable")
	}
}

func TestPlazaWestRoadClear(t *testing.T) {
	// The road west of the plaza is kept clear so a fresh visitor's first
	// walk is unobstructed.
	m := Default()
	for x := 3; x <= 8; x++ {
		if !m.IsWalkable(x, SpawnY) {
			t.Errorf("tile (%d, %d) should be walkable", x, SpawnY)
		}
	}
}

func TestTileAtOutOfBounds(t *testing.T) {
	m := Default()

	cases := []struct{ x, y int }{
		{-1, 0}, {0, -1}, {GridSize, 0}, {0, GridSize}, {100, 100},
	}
	for _, c := range cases {
		if _, ok := m.TileAt(c.x, c.y); ok {
			t.Errorf("TileAt(%d, %d) should report out of bounds", c.x, c.y)
		}
		if m.IsWalkable(c.x, c.y) {
			t.Errorf("IsWalkable(%d, %d) should be false out of bounds", c.x, c.y)
		}
	}
}

func TestNodeLookups(t *testing.T) {
	m := Default()

	n := m.NodeByID("tech-blog-platform")
	if n == nil {
		t.Fatal("NodeByID(tech-blog-platform) returned nil")
	}
	if n.Type != NodeProject {
		t.Errorf("tech-blog-platform type = %q, expected project", n.Type)
	}

	atPos := m.NodeAt(n.X, n.Y)
	if atPos == nil || atPos.ID != n.ID {
		t.Errorf("NodeAt(%d, %d) = %v, expected %q", n.X, n.Y, atPos, n.ID)
	}

	if m.NodeByID("no-such-node") != nil {
		t.Error("NodeByID should return nil for unknown ids")
	}
	if m.NodeAt(0, 0) != nil {
		t.Error("NodeAt should return nil where no node is anchored")
	}
}

func TestNodeTypeCounts(t *testing.T) {
	m := Default()

	if got := m.CountOfType(NodeProject); got != 4 {
		t.Errorf("project count = %d, expected 4", got)
	}
	if got := m.CountOfType(NodeExperience); got != 3 {
		t.Errorf("experience count = %d, expected 3", got)
	}
	if got := m.CountOfType(NodeLandmark); got != 2 {
		t.Errorf("landmark count = %d, expected 2", got)
	}
	if got := len(m.NodesOfType(NodeProject)); got != 4 {
		t.Errorf("NodesOfType(project) returned %d nodes, expected 4", got)
	}
}

func TestNodesAnchoredOnWalkableTiles(t *testing.T) {
	m := Default()
	for _, n := range m.Nodes() {
		if !m.IsWalkable(n.X, n.Y) {
			t.Errorf("node %q anchored on unwalkable tile (%d, %d)", n.ID, n.X, n.Y)
		}
		if at := m.NodeAt(n.X, n.Y); at == nil || at.ID != n.ID {
			t.Errorf("NodeAt(%d, %d) does not resolve back to %q", n.X, n.Y, n.ID)
		}
	}
}

func TestEveryNodeReachableFromSpawn(t *testing.T) {
	m := Default()

	// Flood fill from the plaza over walkable tiles.
	type point struct{ x, y int }
	seen := make(map[point]bool)
	queue := []point{{SpawnX, SpawnY}}
	seen[point{SpawnX, SpawnY}] = true
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range []point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			next := point{p.x + d.x, p.y + d.y}
			if seen[next] || !m.IsWalkable(next.x, next.y) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}

	for _, n := range m.Nodes() {
		if !seen[point{n.X, n.Y}] {
			t.Errorf("node %q at (%d, %d) is not reachable from spawn", n.ID, n.X, n.Y)
		}
	}
}

func TestWalkableCount(t *testing.T) {
	m := Default()
	count := m.WalkableCount()
	// The island keeps well over half the grid open so the tile-visit
	// milestones stay attainable.
	if count < 150 {
		t.Errorf("WalkableCount() = %d, expected at least 150", count)
	}
	if count >= GridSize*GridSize {
		t.Errorf("WalkableCount() = %d, the island should have some water", count)
	}
}

func TestParseRejectsMalformedWorlds(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "::\n\t:"},
		{"too few rows", "name: x\nlayout:\n  - \"~~~~\"\n"},
		{"short row", "name: x\nlayout:\n" + rows(15, "~~~~~~~~~~~~~~~~") + "  - \"~~~\"\n"},
		{"unknown tile", "name: x\nlayout:\n" + rows(15, "~~~~~~~~~~~~~~~~") + "  - \"~~~~~~~~?~~~~~~~\"\n"},
		{
			"node without id",
			"name: x\nlayout:\n" + rows(16, "................") +
				"nodes:\n  - title: Ghost\n    type: project\n    x: 1\n    y: 1\n",
		},
		{
			"duplicate node id",
			"name: x\nlayout:\n" + rows(16, "................") +
				"nodes:\n" +
				"  - {id: a, title: A, type: project, x: 1, y: 1}\n" +
				"  - {id: a, title: B, type: project, x: 2, y: 1}\n",
		},
		{
			"unknown node type",
			"name: x\nlayout:\n" + rows(16, "................") +
				"nodes:\n  - {id: a, title: A, type: castle, x: 1, y: 1}\n",
		},
		{
			"node off grid",
			"name: x\nlayout:\n" + rows(16, "................") +
				"nodes:\n  - {id: a, title: A, type: project, x: 99, y: 1}\n",
		},
		{
			"node on water",
			"name: x\nlayout:\n" + rows(16, "~~~~~~~~~~~~~~~~") +
				"nodes:\n  - {id: a, title: A, type: project, x: 1, y: 1}\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Errorf("Parse should reject %s", tc.name)
			}
		})
	}
}

// rows repeats a layout row n times as YAML list items.
func rows(n int, row string) string {
	out := ""
	for i := 0; i < n; i++ {
		out += "  - \"" + row + "\"\n"
	}
	return out
}

func TestDefaultMatchesFallback(t *testing.T) {
	embedded := Default()
	fallback := fallbackWorld()

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			et, _ := embedded.TileAt(x, y)
			ft, _ := fallback.TileAt(x, y)
			if et.Type != ft.Type {
				t.Errorf("tile (%d, %d): embedded %v, fallback %v", x, y, et.Type, ft.Type)
			}
		}
	}

	if embedded.NodeCount() != fallback.NodeCount() {
		t.Fatalf("node counts differ: embedded %d, fallback %d",
			embedded.NodeCount(), fallback.NodeCount())
	}
	for _, n := range embedded.Nodes() {
		fn := fallback.NodeByID(n.ID)
		if fn == nil {
			t.Errorf("fallback world is missing node %q", n.ID)
			continue
		}
		if fn.X != n.X || fn.Y != n.Y || fn.Type != n.Type {
			t.Errorf("node %q differs: embedded (%d, %d, %s), fallback (%d, %d, %s)",
				n.ID, n.X, n.Y, n.Type, fn.X, fn.Y, fn.Type)
		}
	}
}
