// Package achievements evaluates visitor progress against a declarative
// catalog of unlock rules.
package achievements

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tilefolio/tilefolio/internal/state"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// CriteriaType names an unlock rule the engine knows how to check.
// Types it does not recognize never unlock.
type CriteriaType string

const (
	TypeMove                CriteriaType = "move"
	TypeVisitTiles          CriteriaType = "visit_tiles"
	TypeDiscoverNodes       CriteriaType = "discover_nodes"
	TypeDiscoverProjects    CriteriaType = "discover_projects"
	TypeDiscoverExperiences CriteriaType = "discover_experiences"
	TypeDiscoverAllNodes    CriteriaType = "discover_all_nodes"
	TypeInteractCount       CriteriaType = "interact_count"
	TypeInteractAllNodes    CriteriaType = "interact_all_nodes"
	TypeCompleteFast        CriteriaType = "complete_fast"
	TypeCompleteVeryFast    CriteriaType = "complete_very_fast"
	TypeTimePlayed          CriteriaType = "time_played"
	TypeTryAllThemes        CriteriaType = "try_all_themes"
	TypeSwitchViews         CriteriaType = "switch_views"
	TypeCompleteAll         CriteriaType = "complete_all_achievements"
)

// Rarity grades how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityLegendary:
		return true
	}
	return false
}

// Category groups achievements for browsing.
type Category string

const (
	CategoryExploration Category = "exploration"
	CategoryInteraction Category = "interaction"
	CategoryCompletion  Category = "completion"
	CategorySpecial     Category = "special"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryExploration, CategoryInteraction, CategoryCompletion, CategorySpecial:
		return true
	}
	return false
}

// Criteria is the unlock rule for one achievement. Target is the
// threshold for counting rules; Conditions carries rule-specific
// numbers, like min_nodes for the timed completions.
type Criteria struct {
	Type       CriteriaType   `yaml:"type"`
	Target     int            `yaml:"target"`
	Conditions map[string]int `yaml:"conditions"`
}

// MinNodes is the discovery floor a timed completion demands. Timed
// rules without one never fire.
func (c Criteria) MinNodes() int {
	return c.Conditions["min_nodes"]
}

// Definition is one catalog entry.
type Definition struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Rarity      Rarity   `yaml:"rarity"`
	Category    Category `yaml:"category"`
	Criteria    Criteria `yaml:"criteria"`
}

// Achievement converts a definition into the persisted form. UnlockedAt
// is left zero for the store to stamp.
func (d Definition) Achievement() state.Achievement {
	return state.Achievement{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Icon:        d.Icon,
		MaxProgress: d.Criteria.Target,
		Rarity:      string(d.Rarity),
		Category:    string(d.Category),
	}
}

// Catalog is a validated, ordered set of definitions.
type Catalog struct {
	defs []Definition
	byID map[string]int
}

// Parse reads a YAML catalog and validates it: ids unique and
// non-empty, names present, rarities known, categories known when set,
// targets non-negative. Criteria types are not checked here so newer
// catalogs keep loading on older builds.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Achievements []Definition `yaml:"achievements"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("achievements: cannot parse catalog: %w", err)
	}
	if len(doc.Achievements) == 0 {
		return nil, fmt.Errorf("achievements: catalog is empty")
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Achievements))}
	for i, def := range doc.Achievements {
		if def.ID == "" {
			return nil, fmt.Errorf("achievements: entry %d has no id", i)
		}
		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("achievements: duplicate id %q", def.ID)
		}
		if def.Name == "" {
			return nil, fmt.Errorf("achievements: %s has no name", def.ID)
		}
		if !def.Rarity.Valid() {
			return nil, fmt.Errorf("achievements: %s has unknown rarity %q", def.ID, def.Rarity)
		}
		if def.Category != "" && !def.Category.Valid() {
			return nil, fmt.Errorf("achievements: %s has unknown category %q", def.ID, def.Category)
		}
		if def.Criteria.Type == "" {
			return nil, fmt.Errorf("achievements: %s has no criteria type", def.ID)
		}
		if def.Criteria.Target < 0 {
			return nil, fmt.Errorf("achievements: %s has a negative target", def.ID)
		}
		c.byID[def.ID] = len(c.defs)
		c.defs = append(c.defs, def)
	}
	return c, nil
}

// Default returns the embedded catalog, or a minimal fallback if the
// embedded data is broken.
func Default() *Catalog {
	c, err := Parse(builtinCatalog)
	if err != nil {
		return fallback()
	}
	return c
}

// Load reads a catalog from path, or Default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("achievements: cannot read catalog: %w", err)
	}
	return Parse(data)
}

// Definitions returns the catalog entries in declaration order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// ByID looks up one definition.
func (c *Catalog) ByID(id string) (Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// Len is the number of definitions in the catalog.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// fallback keeps the engine functional if the embedded catalog is ever
// broken.
func fallback() *Catalog {
	c, _ := Parse([]byte(`achievements:
  - id: first_steps
    name: First Steps
    description: Take your first steps on the island.
    rarity: common
    category: exploration
    criteria: {type: move, target: 1}
  - id: first_discovery
    name: First Discovery
    description: Find your first point of interest.
    rarity: common
    category: exploration
    criteria: {type: discover_nodes, target: 1}
  - id: completionist
    name: Completionist
    description: Find every point of interest there is.
    rarity: rare
    category: completion
    criteria: {type: discover_all_nodes}
`))
	return c
}
