// Package theme provides a global registry of color themes. Built-in
// themes register themselves in init(), the same way an external theme
// pack would, so the platform discovers them without hardcoded wiring.
package theme

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

// DefaultName is the theme every fresh session starts with.
const DefaultName = "classic"

// Theme maps the island's tiles and UI elements onto color slots. The
// renderer resolves slots to terminal styles; a theme never touches
// escape codes itself.
type Theme struct {
	Name  string
	Label string

	Tiles map[tilemap.TileType]core.Color

	Adventurer  core.Color
	NodeFresh   core.Color // marker not yet discovered
	NodeSeen    core.Color // discovered, not visited
	NodeVisited core.Color
	Accent      core.Color
	Border      core.Color
	Text        core.Color
	Dim         core.Color
}

// TileColor resolves the color slot for a tile type.
func (t Theme) TileColor(tt tilemap.TileType) core.Color {
	if c, ok := t.Tiles[tt]; ok {
		return c
	}
	return core.ColorDefault
}

// NodeColor resolves the color slot for a node marker given its
// discovery state.
func (t Theme) NodeColor(discovered, visited bool) core.Color {
	switch {
	case visited:
		return t.NodeVisited
	case discovered:
		return t.NodeSeen
	default:
		return t.NodeFresh
	}
}

// Info describes a registered theme.
type Info struct {
	Name  string
	Label string
}

var (
	themes = make(map[string]Theme)
	mu     sync.RWMutex
)

// Register adds a theme to the registry. Typically called from an
// init() function. Panics if the name is empty or already taken.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()

	if t.Name == "" {
		panic("theme: cannot register a theme without a name")
	}
	if _, exists := themes[t.Name]; exists {
		panic(fmt.Sprintf("theme: theme %q already registered", t.Name))
	}
	themes[t.Name] = t
}

// Get looks up a theme by name.
func Get(name string) (Theme, error) {
	mu.RLock()
	defer mu.RUnlock()

	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("theme: unknown theme %q", name)
	}
	return t, nil
}

// GetOrDefault resolves name, falling back to the default theme when
// the name is unknown (stale saves reference themes that no longer
// exist).
func GetOrDefault(name string) Theme {
	if t, err := Get(name); err == nil {
		return t
	}
	t, err := Get(DefaultName)
	if err != nil {
		// no built-ins registered at all; zero theme still renders
		return Theme{Name: DefaultName}
	}
	return t
}

// Exists checks whether name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := themes[name]
	return ok
}

// List returns all registered themes, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(themes))
	for _, t := range themes {
		result = append(result, Info{Name: t.Name, Label: t.Label})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Names returns the registered theme names, sorted.
func Names() []string {
	infos := List()
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.Name
	}
	return out
}

// Count returns how many themes are registered.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()

	return len(themes)
}

// Next returns the name after current in sorted order, wrapping at the
// end. Unknown names start the cycle from the beginning.
func Next(current string) string {
	names := Names()
	if len(names) == 0 {
		return current
	}
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
