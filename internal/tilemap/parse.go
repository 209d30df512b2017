package tilemap

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlWorld is the on-disk schema for an island definition.
type yamlWorld struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Layout      []string   `yaml:"layout"`
	Nodes       []yamlNode `yaml:"nodes"`
}

type yamlNode struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Type    string `yaml:"type"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Summary string `yaml:"summary"`
	Details string `yaml:"details"`
}

// Layout legend. Each row of the layout block is one rune per tile:
//
//	~  water    (not walkable)
//	#  rock     (not walkable)
//	.  grass
//	+  path
//	=  bridge
//	*  plaza
//	o  marker
func tileForRune(r rune) (TileType, bool) {
	switch r {
	case '~':
		return TileWater, true
	case '#':
		return TileRock, true
	case '.':
		return TileGrass, true
	case '+':
		return TilePath, true
	case '=':
		return TileBridge, true
	case '*':
		return TilePlaza, true
	case 'o':
		return TileMarker, true
	default:
		return TileGrass, false
	}
}

// Parse builds a Map from YAML island data. The layout must be exactly
// GridSize rows of GridSize runes; nodes must have unique ids, a known
// type and walkable in-bounds coordinates.
func Parse(data []byte) (*Map, error) {
	var doc yamlWorld
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tilemap: cannot parse world data: %w", err)
	}

	m := &Map{
		name:        doc.Name,
		description: doc.Description,
		nodesByID:   make(map[string]*Node),
	}

	if len(doc.Layout) != GridSize {
		return nil, fmt.Errorf("tilemap: layout has %d rows, want %d", len(doc.Layout), GridSize)
	}
	for y, row := range doc.Layout {
		runes := []rune(row)
		if len(runes) != GridSize {
			return nil, fmt.Errorf("tilemap: layout row %d has %d tiles, want %d", y, len(runes), GridSize)
		}
		for x, r := range runes {
			tt, ok := tileForRune(r)
			if !ok {
				return nil, fmt.Errorf("tilemap: layout row %d has unknown tile %q", y, r)
			}
			m.tiles[y][x] = Tile{Type: tt}
		}
	}

	for _, yn := range doc.Nodes {
		if yn.ID == "" {
			return nil, fmt.Errorf("tilemap: node %q has no id", yn.Title)
		}
		if _, dup := m.nodesByID[yn.ID]; dup {
			return nil, fmt.Errorf("tilemap: duplicate node id %q", yn.ID)
		}
		nt := NodeType(yn.Type)
		if !nt.Valid() {
			return nil, fmt.Errorf("tilemap: node %q has unknown type %q", yn.ID, yn.Type)
		}
		if !InBounds(yn.X, yn.Y) {
			return nil, fmt.Errorf("tilemap: node %q at (%d, %d) is off the grid", yn.ID, yn.X, yn.Y)
		}
		if !m.tiles[yn.Y][yn.X].Walkable() {
			return nil, fmt.Errorf("tilemap: node %q at (%d, %d) sits on unreachable terrain", yn.ID, yn.X, yn.Y)
		}

		n := &Node{
			ID:      yn.ID,
			Title:   yn.Title,
			Type:    nt,
			Summary: yn.Summary,
			Details: yn.Details,
			X:       yn.X,
			Y:       yn.Y,
		}
		m.nodes = append(m.nodes, n)
		m.nodesByID[n.ID] = n
		m.tiles[n.Y][n.X].NodeID = n.ID
	}

	return m, nil
}
