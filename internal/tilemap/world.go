package tilemap

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed world.yaml
var defaultWorldYAML []byte

// Default returns the built-in island. Falls back to a hardcoded world if
// the embedded data fails to parse, so callers always get a usable map.
func Default() *Map {
	m, err := Parse(defaultWorldYAML)
	if err != nil {
		return fallbackWorld()
	}
	return m
}

// Load reads an island definition from the given path. An empty path
// returns the built-in island.
func Load(path string) (*Map, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tilemap: cannot read world file: %w", err)
	}
	return Parse(data)
}

// fallbackWorld builds the island from hardcoded data. Kept in sync with
// world.yaml by TestDefaultMatchesFallback.
func fallbackWorld() *Map {
	layout := []string{
		"~~~~~~~~~~~~~~~~",
		"~......##......~",
		"~..o...##...o..~",
		"~..+...##...+..~",
		"~..+..~~~~..+..~",
		"~..+..====..+..~",
		"~..+..~~~~..+o.~",
		"~..+....o...+..~",
		"~~.+++++*++++..~",
		"~~.+....+...o..~",
		"~#.+....+......~",
		"~#o+....+..##..~",
		"~#.+....o...o..~",
		"~..+.o.........~",
		"~..............~",
		"~~~~~~~~~~~~~~~~",
	}

	nodes := []*Node{
		{ID: "tech-blog-platform", Title: "Tech Blog Platform", Type: NodeProject, X: 3, Y: 2,
			Summary: "A markdown-first publishing engine with zero-rebuild deploys."},
		{ID: "drift-tracker", Title: "Drift Tracker", Type: NodeProject, X: 12, Y: 2,
			Summary: "Detects config drift across a fleet before it pages you."},
		{ID: "ledgerline", Title: "Ledgerline", Type: NodeProject, X: 2, Y: 11,
			Summary: "Double-entry bookkeeping for people who live in the terminal."},
		{ID: "pixel-garden", Title: "Pixel Garden", Type: NodeProject, X: 13, Y: 6,
			Summary: "A slow-growing generative garden that lives in your status bar."},
		{ID: "senior-platform-engineer", Title: "Senior Platform Engineer", Type: NodeExperience, X: 5, Y: 13,
			Summary: "Building paved roads for product teams, 2022 to now."},
		{ID: "backend-developer", Title: "Backend Developer", Type: NodeExperience, X: 8, Y: 12,
			Summary: "APIs, queues and the occasional 3am incident, 2019 to 2022."},
		{ID: "open-source-maintainer", Title: "Open Source Maintainer", Type: NodeExperience, X: 12, Y: 9,
			Summary: "Keeping a handful of small libraries alive since 2020."},
		{ID: "about-me", Title: "About Me", Type: NodeLandmark, X: 8, Y: 7,
			Summary: "The person behind the island."},
		{ID: "contact", Title: "Contact", Type: NodeLandmark, X: 12, Y: 12,
			Summary: "Ways to reach me."},
	}

	m := &Map{
		name:        "Tilefolio Island",
		description: "A small island holding the projects I have built and the places I have worked.",
		nodesByID:   make(map[string]*Node),
	}
	for y, row := range layout {
		for x, r := range []rune(row) {
			tt, _ := tileForRune(r)
			m.tiles[y][x] = Tile{Type: tt}
		}
	}
	for _, n := range nodes {
		m.nodes = append(m.nodes, n)
		m.nodesByID[n.ID] = n
		m.tiles[n.Y][n.X].NodeID = n.ID
	}
	return m
}
