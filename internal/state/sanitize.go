package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tilefolio/tilefolio/internal/core"
)

// Rehydrate rebuilds a GameState from raw persisted bytes. It never
// fails: each field group is parsed on its own, and anything missing,
// mistyped or out of range falls back to its default. The returned list
// names every field that needed repair, for the caller to log. now
// seeds the defaults that need a clock.
//
// Numbers are truncated to integers, coordinates clamped to the grid,
// enums checked against their known values, and malformed collection
// elements dropped individually. Unknown keys are discarded.
func Rehydrate(raw []byte, now time.Time) (*GameState, []string) {
	st := DefaultState(now)
	if len(raw) == 0 {
		return st, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return st, []string{"document"}
	}

	var repairs []string
	if g, ok := top["adventurer"]; ok {
		st.Adventurer = parseAdventurer(g, st.Adventurer, &repairs)
	}
	if g, ok := top["nodes"]; ok {
		st.Nodes = parseNodes(g, &repairs)
	}
	if g, ok := top["progress"]; ok {
		st.Progress = parseProgress(g, st.Progress, &repairs)
	}
	if g, ok := top["ui"]; ok {
		st.UI = parseUI(g, st.UI, &repairs)
	}
	if g, ok := top["settings"]; ok {
		st.Settings = parseSettings(g, st.Settings, &repairs)
	}
	// version and timestamp are rewritten on the next save
	return st, repairs
}

func parseAdventurer(raw json.RawMessage, def Adventurer, repairs *[]string) Adventurer {
	var probe struct {
		Position *struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		} `json:"position"`
		Facing *string `json:"facing"`
		Moving *bool   `json:"moving"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		*repairs = append(*repairs, "adventurer")
		return def
	}

	out := def
	if probe.Position != nil {
		if probe.Position.X != nil {
			out.Position.X = clampCoord(int(*probe.Position.X), "adventurer.position.x", repairs)
		}
		if probe.Position.Y != nil {
			out.Position.Y = clampCoord(int(*probe.Position.Y), "adventurer.position.y", repairs)
		}
	}
	if probe.Facing != nil {
		if f := Facing(*probe.Facing); f.Valid() {
			out.Facing = f
		} else {
			*repairs = append(*repairs, "adventurer.facing")
		}
	}
	if probe.Moving != nil {
		out.Moving = *probe.Moving
	}
	return out
}

func parseNodes(raw json.RawMessage, repairs *[]string) map[string]*NodeRecord {
	out := make(map[string]*NodeRecord)
	var elements map[string]json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		*repairs = append(*repairs, "nodes")
		return out
	}

	for id, elem := range elements {
		if id == "" {
			*repairs = append(*repairs, `nodes[""]`)
			continue
		}
		var probe struct {
			Discovered   *bool    `json:"discovered"`
			Visited      *bool    `json:"visited"`
			Interactions *float64 `json:"interactions"`
			LastVisited  *string  `json:"lastVisited"`
		}
		if err := json.Unmarshal(elem, &probe); err != nil {
			*repairs = append(*repairs, "nodes."+id)
			continue
		}

		rec := &NodeRecord{}
		if probe.Discovered != nil {
			rec.Discovered = *probe.Discovered
		}
		if probe.Visited != nil {
			rec.Visited = *probe.Visited
		}
		if rec.Visited && !rec.Discovered {
			// visited implies discovered
			rec.Discovered = true
			*repairs = append(*repairs, "nodes."+id+".discovered")
		}
		if probe.Interactions != nil {
			rec.Interactions = nonNegative(int(*probe.Interactions), "nodes."+id+".interactions", repairs)
		}
		if probe.LastVisited != nil {
			if ts, err := time.Parse(time.RFC3339Nano, *probe.LastVisited); err == nil {
				rec.LastVisited = &ts
			} else {
				*repairs = append(*repairs, "nodes."+id+".lastVisited")
			}
		}
		out[id] = rec
	}
	return out
}

func parseProgress(raw json.RawMessage, def Progress, repairs *[]string) Progress {
	var probe struct {
		TotalInteractions  *float64          `json:"totalInteractions"`
		UniqueNodesVisited *float64          `json:"uniqueNodesVisited"`
		SessionStart       *string           `json:"sessionStart"`
		TotalPlayTime      *float64          `json:"totalPlayTime"`
		Achievements       []json.RawMessage `json:"achievements"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		*repairs = append(*repairs, "progress")
		return def
	}

	out := def
	if probe.TotalInteractions != nil {
		out.TotalInteractions = nonNegative(int(*probe.TotalInteractions), "progress.totalInteractions", repairs)
	}
	if probe.UniqueNodesVisited != nil {
		out.UniqueNodesVisited = nonNegative(int(*probe.UniqueNodesVisited), "progress.uniqueNodesVisited", repairs)
	}
	if probe.SessionStart != nil {
		if ts, err := time.Parse(time.RFC3339Nano, *probe.SessionStart); err == nil {
			out.SessionStart = ts
		} else {
			*repairs = append(*repairs, "progress.sessionStart")
		}
	}
	if probe.TotalPlayTime != nil {
		out.TotalPlayTime = nonNegative(int(*probe.TotalPlayTime), "progress.totalPlayTime", repairs)
	}

	out.Achievements = []Achievement{}
	seen := make(map[string]bool)
	for i, elem := range probe.Achievements {
		a, ok := parseAchievement(elem)
		if !ok || seen[a.ID] {
			*repairs = append(*repairs, fmt.Sprintf("progress.achievements[%d]", i))
			continue
		}
		seen[a.ID] = true
		out.Achievements = append(out.Achievements, a)
	}
	return out
}

// parseAchievement accepts any element with a non-empty string id.
// Everything else is cosmetic and taken as-is or zeroed.
func parseAchievement(elem json.RawMessage) (Achievement, bool) {
	var probe struct {
		ID          *string  `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Icon        string   `json:"icon"`
		UnlockedAt  *string  `json:"unlockedAt"`
		Progress    *float64 `json:"progress"`
		MaxProgress *float64 `json:"maxProgress"`
		Rarity      string   `json:"rarity"`
		Category    string   `json:"category"`
	}
	if err := json.Unmarshal(elem, &probe); err != nil || probe.ID == nil || *probe.ID == "" {
		return Achievement{}, false
	}

	a := Achievement{
		ID:          *probe.ID,
		Name:        probe.Name,
		Description: probe.Description,
		Icon:        probe.Icon,
		Rarity:      probe.Rarity,
		Category:    probe.Category,
	}
	if probe.UnlockedAt != nil {
		if ts, err := time.Parse(time.RFC3339Nano, *probe.UnlockedAt); err == nil {
			a.UnlockedAt = ts
		}
	}
	if probe.Progress != nil && *probe.Progress > 0 {
		a.Progress = int(*probe.Progress)
	}
	if probe.MaxProgress != nil && *probe.MaxProgress > 0 {
		a.MaxProgress = int(*probe.MaxProgress)
	}
	return a, true
}

func parseUI(raw json.RawMessage, def UIState, repairs *[]string) UIState {
	var probe struct {
		View           *string `json:"currentView"`
		ActivePanel    *string `json:"activePanel"`
		HUDVisible     *bool   `json:"hudVisible"`
		ControlsLocked *bool   `json:"controlsLocked"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		*repairs = append(*repairs, "ui")
		return def
	}

	out := def
	if probe.View != nil {
		if v := View(*probe.View); v.Valid() {
			out.View = v
		} else {
			*repairs = append(*repairs, "ui.currentView")
		}
	}
	if probe.ActivePanel != nil {
		out.ActivePanel = *probe.ActivePanel
	}
	if probe.HUDVisible != nil {
		out.HUDVisible = *probe.HUDVisible
	}
	if probe.ControlsLocked != nil {
		out.ControlsLocked = *probe.ControlsLocked
	}
	return out
}

func parseSettings(raw json.RawMessage, def Settings, repairs *[]string) Settings {
	var probe struct {
		Sound      *bool   `json:"sound"`
		Animations *bool   `json:"animations"`
		Theme      *string `json:"theme"`
		AutoSave   *bool   `json:"autoSave"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		*repairs = append(*repairs, "settings")
		return def
	}

	out := def
	if probe.Sound != nil {
		out.Sound = *probe.Sound
	}
	if probe.Animations != nil {
		out.Animations = *probe.Animations
	}
	if probe.Theme != nil {
		if *probe.Theme != "" {
			// any non-empty name is kept; rendering falls back if the
			// theme no longer exists
			out.Theme = *probe.Theme
		} else {
			*repairs = append(*repairs, "settings.theme")
		}
	}
	if probe.AutoSave != nil {
		out.AutoSave = *probe.AutoSave
	}
	return out
}

func clampCoord(v int, field string, repairs *[]string) int {
	clamped := core.Clamp(v, GridMin, GridMax)
	if clamped != v {
		*repairs = append(*repairs, field)
	}
	return clamped
}

func nonNegative(v int, field string, repairs *[]string) int {
	if v < 0 {
		*repairs = append(*repairs, field)
		return 0
	}
	return v
}
