package achievements

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

// Engine checks catalog criteria against the visitor's progress. It
// holds no mutable state of its own; callers pass the current state
// snapshot and session tracker to every evaluation.
type Engine struct {
	catalog *Catalog
	world   *tilemap.Map
	themes  int
	log     *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes evaluation diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithThemeCount tells the engine how many themes exist, for the
// try_all_themes rule. Left unset, that rule never fires.
func WithThemeCount(n int) Option {
	return func(e *Engine) { e.themes = n }
}

// NewEngine builds an engine over catalog and world.
func NewEngine(catalog *Catalog, world *tilemap.Map, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		world:   world,
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the definitions the engine evaluates.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// tally is the per-evaluation digest of node state.
type tally struct {
	discovered   int
	projects     int
	experiences  int
	visited      int
	interactions int
	total        int
}

func (e *Engine) tally(st *state.GameState) tally {
	c := tally{
		total:        e.world.NodeCount(),
		interactions: st.Progress.TotalInteractions,
	}
	for id, rec := range st.Nodes {
		node := e.world.NodeByID(id)
		if node == nil {
			// stale id from an older world
			continue
		}
		if rec.Discovered {
			c.discovered++
			switch node.Type {
			case tilemap.NodeProject:
				c.projects++
			case tilemap.NodeExperience:
				c.experiences++
			}
		}
		if rec.Visited {
			c.visited++
		}
	}
	return c
}

// Evaluate returns the definitions whose criteria are met and which st
// has not unlocked yet, in catalog order. Completion rules run last so
// they see this pass's unlocks.
func (e *Engine) Evaluate(st *state.GameState, tr *Tracker, playTime time.Duration) []Definition {
	if st == nil || tr == nil {
		return nil
	}
	t := e.tally(st)

	var unlocked, completions []Definition
	for _, def := range e.catalog.defs {
		if st.HasAchievement(def.ID) {
			continue
		}
		if def.Criteria.Type == TypeCompleteAll {
			completions = append(completions, def)
			continue
		}
		if e.met(def.Criteria, t, tr, playTime) {
			unlocked = append(unlocked, def)
		}
	}

	base := e.countUnlocked(st)
	for _, def := range completions {
		if base+len(unlocked) >= e.catalog.Len()-1 {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}

func (e *Engine) met(c Criteria, t tally, tr *Tracker, playTime time.Duration) bool {
	switch c.Type {
	case TypeMove:
		return tr.Moves() >= c.Target
	case TypeVisitTiles:
		return tr.TilesVisited() >= c.Target
	case TypeDiscoverNodes:
		return t.discovered >= c.Target
	case TypeDiscoverProjects:
		return t.projects >= c.Target
	case TypeDiscoverExperiences:
		return t.experiences >= c.Target
	case TypeDiscoverAllNodes:
		return t.total > 0 && t.discovered >= t.total
	case TypeInteractCount:
		return t.interactions >= c.Target
	case TypeInteractAllNodes:
		return t.total > 0 && t.visited >= t.total
	case TypeCompleteFast, TypeCompleteVeryFast:
		need := c.MinNodes()
		if need <= 0 {
			return false
		}
		return t.discovered >= need && playTime <= time.Duration(c.Target)*time.Second
	case TypeTimePlayed:
		return playTime >= time.Duration(c.Target)*time.Second
	case TypeTryAllThemes:
		return e.themes > 0 && tr.ThemesTried() >= e.themes
	case TypeSwitchViews:
		return tr.ViewSwitches() >= c.Target
	default:
		e.log.Debug("unknown criteria type never unlocks", "type", string(c.Type))
		return false
	}
}

// countUnlocked counts st's achievements that exist in this catalog, so
// entries from older catalogs cannot satisfy a completion rule.
func (e *Engine) countUnlocked(st *state.GameState) int {
	n := 0
	for _, a := range st.Progress.Achievements {
		if _, ok := e.catalog.byID[a.ID]; ok {
			n++
		}
	}
	return n
}

// ProgressFor reports how far along one definition is, clamped to its
// goal. Rules without a numeric target report against the world size,
// their min_nodes floor, or the catalog size; unknown types report 0
// of 0.
func (e *Engine) ProgressFor(def Definition, st *state.GameState, tr *Tracker, playTime time.Duration) (current, goal int) {
	if st == nil || tr == nil {
		return 0, 0
	}
	t := e.tally(st)
	c := def.Criteria
	switch c.Type {
	case TypeMove:
		return min(tr.Moves(), c.Target), c.Target
	case TypeVisitTiles:
		return min(tr.TilesVisited(), c.Target), c.Target
	case TypeDiscoverNodes:
		return min(t.discovered, c.Target), c.Target
	case TypeDiscoverProjects:
		return min(t.projects, c.Target), c.Target
	case TypeDiscoverExperiences:
		return min(t.experiences, c.Target), c.Target
	case TypeDiscoverAllNodes:
		return t.discovered, t.total
	case TypeCompleteFast, TypeCompleteVeryFast:
		return min(t.discovered, c.MinNodes()), c.MinNodes()
	case TypeInteractCount:
		return min(t.interactions, c.Target), c.Target
	case TypeInteractAllNodes:
		return t.visited, t.total
	case TypeTimePlayed:
		return min(int(playTime.Seconds()), c.Target), c.Target
	case TypeTryAllThemes:
		return min(tr.ThemesTried(), e.themes), e.themes
	case TypeSwitchViews:
		return min(tr.ViewSwitches(), c.Target), c.Target
	case TypeCompleteAll:
		goal = e.catalog.Len() - 1
		return min(e.countUnlocked(st), goal), goal
	default:
		return 0, 0
	}
}
