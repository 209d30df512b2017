// Package tilemap models the portfolio island: a fixed 16x16 grid of
// terrain tiles with interactive nodes (projects, experiences, landmarks)
// anchored to positions. The map is immutable after load; all queries are
// pure lookups so the explore loop and the achievement rules can share it
// without coordination.
package tilemap

// GridSize is the fixed width and height of the island in tiles.
const GridSize = 16

// SpawnX and SpawnY locate the plaza tile new adventurers start on.
const (
	SpawnX = 8
	SpawnY = 8
)

// TileType classifies a terrain tile.
type TileType int

const (
	TileGrass TileType = iota
	TilePath
	TileWater
	TileRock
	TileBridge
	TilePlaza
	TileMarker
)

// String returns a human-readable name for the tile type.
func (t TileType) String() string {
	switch t {
	case TileGrass:
		return "grass"
	case TilePath:
		return "path"
	case TileWater:
		return "water"
	case TileRock:
		return "rock"
	case TileBridge:
		return "bridge"
	case TilePlaza:
		return "plaza"
	case TileMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Walkable reports whether the adventurer may stand on this tile type.
func (t TileType) Walkable() bool {
	switch t {
	case TileWater, TileRock:
		return false
	}
	return true
}

// NodeType classifies an interactive node. The values double as the
// serialized form in persisted state.
type NodeType string

const (
	NodeProject    NodeType = "project"
	NodeExperience NodeType = "experience"
	NodeLandmark   NodeType = "landmark"
)

// Valid reports whether the node type is one of the known kinds.
func (t NodeType) Valid() bool {
	switch t {
	case NodeProject, NodeExperience, NodeLandmark:
		return true
	}
	return false
}

// Node is an interactive point of interest on the island.
type Node struct {
	ID      string
	Title   string
	Type    NodeType
	Summary string // one-line description for the HUD
	Details string // full text shown in the node panel
	X, Y    int
}

// Tile is a single grid cell. NodeID is empty when no node is anchored here.
type Tile struct {
	Type   TileType
	NodeID string
}

// Walkable reports whether the adventurer may stand on this tile.
func (t Tile) Walkable() bool {
	return t.Type.Walkable()
}

// Map is the immutable island: terrain plus anchored nodes.
type Map struct {
	name        string
	description string
	tiles       [GridSize][GridSize]Tile
	nodes       []*Node
	nodesByID   map[string]*Node
}

// Name returns the island's display name.
func (m *Map) Name() string {
	return m.name
}

// Description returns the island's one-line description.
func (m *Map) Description() string {
	return m.description
}

// InBounds reports whether (x, y) lies on the grid.
func InBounds(x, y int) bool {
	return x >= 0 && x < GridSize && y >= 0 && y < GridSize
}

// TileAt returns the tile at (x, y). The second result is false outside
// the grid.
func (m *Map) TileAt(x, y int) (Tile, bool) {
	if !InBounds(x, y) {
		return Tile{}, false
	}
	return m.tiles[y][x], true
}

// IsWalkable reports whether the adventurer may stand at (x, y).
// Out-of-bounds positions are never walkable.
func (m *Map) IsWalkable(x, y int) bool {
	t, ok := m.TileAt(x, y)
	return ok && t.Walkable()
}

// NodeAt returns the node anchored at (x, y), or nil.
func (m *Map) NodeAt(x, y int) *Node {
	t, ok := m.TileAt(x, y)
	if !ok || t.NodeID == "" {
		return nil
	}
	return m.nodesByID[t.NodeID]
}

// NodeByID returns the node with the given id, or nil.
func (m *Map) NodeByID(id string) *Node {
	return m.nodesByID[id]
}

// Nodes returns all nodes in definition order. The slice is a copy; the
// nodes themselves are shared and must not be mutated.
func (m *Map) Nodes() []*Node {
	out := make([]*Node, len(m.nodes))
	copy(out, m.nodes)
	return out
}

// NodesOfType returns the nodes of the given type in definition order.
func (m *Map) NodesOfType(t NodeType) []*Node {
	var out []*Node
	for _, n := range m.nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the total number of nodes on the island.
func (m *Map) NodeCount() int {
	return len(m.nodes)
}

// CountOfType returns how many nodes of the given type exist.
func (m *Map) CountOfType(t NodeType) int {
	count := 0
	for _, n := range m.nodes {
		if n.Type == t {
			count++
		}
	}
	return count
}

// WalkableCount returns how many tiles the adventurer can stand on.
func (m *Map) WalkableCount() int {
	count := 0
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if m.tiles[y][x].Walkable() {
				count++
			}
		}
	}
	return count
}
