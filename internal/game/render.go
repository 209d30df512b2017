package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/state"
	"github.com/tilefolio/tilefolio/internal/storage"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

const (
	minRenderW = 44
	minRenderH = 20
)

// Each tile is two cells wide so the island reads roughly square.
var primaryTerrain = map[tilemap.TileType]rune{
	tilemap.TileWater:  '≈',
	tilemap.TileGrass:  '·',
	tilemap.TilePath:   '▒',
	tilemap.TileRock:   '▲',
	tilemap.TileBridge: '═',
	tilemap.TilePlaza:  '◆',
	tilemap.TileMarker: '?',
}

// The survey view strips texture down to a chart: only what has been
// discovered is drawn.
var surveyTerrain = map[tilemap.TileType]rune{
	tilemap.TileWater:  '~',
	tilemap.TileGrass:  ' ',
	tilemap.TilePath:   '.',
	tilemap.TileRock:   '#',
	tilemap.TileBridge: '=',
	tilemap.TilePlaza:  'O',
	tilemap.TileMarker: ' ',
}

// Render draws the session into dst: island map, HUD column, help
// line, toasts and whichever overlay panel is open.
func (e *Explore) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() < minRenderW || dst.Height() < minRenderH {
		dst.DrawText(0, 0, "terminal too small")
		dst.DrawText(0, 1, fmt.Sprintf("need at least %dx%d", minRenderW, minRenderH))
		return
	}

	st := e.store.Snapshot()
	e.renderMap(dst, st)
	if st.UI.HUDVisible {
		e.renderHUD(dst, st)
	}
	e.renderToasts(dst)
	e.renderHelpLine(dst)
	if e.infoNode != nil {
		e.renderInfoPanel(dst)
	}
	if e.helpOpen {
		e.renderHelpPanel(dst)
	}
}

func (e *Explore) renderMap(dst *core.Screen, st *state.GameState) {
	box := core.NewRect(1, 0, 2*tilemap.GridSize+2, tilemap.GridSize+2)
	dst.DrawBox(box, e.theme.Border)

	survey := st.UI.View == state.ViewAlternate
	for y := 0; y < tilemap.GridSize; y++ {
		for x := 0; x < tilemap.GridSize; x++ {
			tile, _ := e.world.TileAt(x, y)
			r, c, solo := e.tileCell(tile, st, survey)
			sx, sy := box.X+1+2*x, box.Y+1+y
			dst.SetCell(sx, sy, r, c)
			if solo {
				dst.SetCell(sx+1, sy, ' ', c)
			} else {
				dst.SetCell(sx+1, sy, r, c)
			}
		}
	}

	adv := st.Adventurer
	ax, ay := box.X+1+2*adv.Position.X, box.Y+1+adv.Position.Y
	dst.SetCell(ax, ay, '@', e.theme.Adventurer)
	dst.SetCell(ax+1, ay, facingGlyph(adv.Facing), e.theme.Adventurer)

	caption := e.world.Name()
	if survey {
		caption += "  [survey]"
	}
	dst.DrawTextColored(box.X+1, box.Bottom(), caption, e.theme.Dim)
}

// tileCell picks the rune and color for one tile. solo means the glyph
// stands alone in its left cell instead of repeating across both.
func (e *Explore) tileCell(tile tilemap.Tile, st *state.GameState, survey bool) (r rune, c core.Color, solo bool) {
	if tile.NodeID != "" {
		rec := st.Nodes[tile.NodeID]
		discovered := rec != nil && rec.Discovered
		visited := rec != nil && rec.Visited

		if survey {
			if !discovered {
				return ' ', e.theme.Dim, true
			}
			node := e.world.NodeByID(tile.NodeID)
			return nodeInitial(node.Type), e.theme.NodeColor(discovered, visited), true
		}
		switch {
		case visited:
			return '★', e.theme.NodeVisited, true
		case discovered:
			return '●', e.theme.NodeSeen, true
		default:
			return '?', e.theme.NodeFresh, true
		}
	}

	if survey {
		return surveyTerrain[tile.Type], e.theme.Dim, false
	}
	return primaryTerrain[tile.Type], e.theme.TileColor(tile.Type), false
}

func nodeInitial(t tilemap.NodeType) rune {
	switch t {
	case tilemap.NodeProject:
		return 'P'
	case tilemap.NodeExperience:
		return 'E'
	default:
		return 'L'
	}
}

func facingGlyph(f state.Facing) rune {
	switch f {
	case state.FacingUp:
		return '^'
	case state.FacingDown:
		return 'v'
	case state.FacingLeft:
		return '<'
	default:
		return '>'
	}
}

func (e *Explore) renderHUD(dst *core.Screen, st *state.GameState) {
	x := 2*tilemap.GridSize + 5
	width := dst.Width() - x - 1
	if width < 18 {
		return
	}

	dst.DrawTextColored(x, 1, "TILEFOLIO", e.theme.Accent)
	dst.DrawTextColored(x, 2, e.world.Description(), e.theme.Dim)

	adv := st.Adventurer
	dst.DrawTextColored(x, 4, fmt.Sprintf("@ (%d,%d) facing %s", adv.Position.X, adv.Position.Y, adv.Facing), e.theme.Text)

	discovered, visited := 0, 0
	for id, rec := range st.Nodes {
		if e.world.NodeByID(id) == nil {
			continue
		}
		if rec.Discovered {
			discovered++
		}
		if rec.Visited {
			visited++
		}
	}
	total := e.world.NodeCount()
	dst.DrawTextColored(x, 5, fmt.Sprintf("charted  %d/%d   visited %d/%d", discovered, total, visited, total), e.theme.Text)
	dst.DrawTextColored(x, 6, fmt.Sprintf("reads    %d", st.Progress.TotalInteractions), e.theme.Text)
	dst.DrawTextColored(x, 7, fmt.Sprintf("time     %s", formatPlayTime(e.store.PlayTime())), e.theme.Text)
	dst.DrawTextColored(x, 8, fmt.Sprintf("theme    %s", e.theme.Label), e.theme.Text)

	unlocked := len(st.Progress.Achievements)
	dst.DrawTextColored(x, 10, fmt.Sprintf("achievements %d/%d", unlocked, e.engine.Catalog().Len()), e.theme.Accent)

	info := e.storageInfo
	dst.DrawTextColored(x, 12, fmt.Sprintf("storage  %s of %s", formatBytes(info.UsedBytes), formatBytes(info.QuotaBytes)), e.theme.Text)
	if w := e.warning; w != nil {
		lines := wrapText(w.Message, width)
		if len(lines) > 2 {
			lines = lines[:2]
		}
		for i, line := range lines {
			dst.DrawTextColored(x, 13+i, line, warningColor(w.Level))
		}
		dst.DrawTextColored(x, 13+len(lines), "o optimize  c clean up  x dismiss", e.theme.Dim)
	}
}

func warningColor(l storage.WarningLevel) core.Color {
	switch l {
	case storage.LevelCritical:
		return core.ColorBrightRed
	case storage.LevelWarning:
		return core.ColorBrightYellow
	default:
		return core.ColorBrightCyan
	}
}

func (e *Explore) renderToasts(dst *core.Screen) {
	y := tilemap.GridSize + 3
	shown := 0
	for i := len(e.toasts) - 1; i >= 0 && shown < 2; i-- {
		t := e.toasts[i]
		dst.DrawTextColored(2, y+shown, fmt.Sprintf("* unlocked: %s", t.Achievement.Name), e.theme.Accent)
		shown++
	}
}

func (e *Explore) renderHelpLine(dst *core.Screen) {
	dst.DrawTextColored(2, dst.Height()-1, "arrows: move  e: interact  t: theme  v: view  h: hud  ?: help  q: quit", e.theme.Dim)
}

func (e *Explore) renderInfoPanel(dst *core.Screen) {
	node := e.infoNode
	w := core.Min(52, dst.Width()-4)
	inner := w - 4

	var lines []string
	lines = append(lines, wrapText(node.Summary, inner)...)
	if node.Details != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(node.Details, inner)...)
	}
	if len(lines) > 10 {
		lines = lines[:10]
	}

	h := core.Min(len(lines)+6, dst.Height()-2)
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, e.theme.Accent)

	dst.DrawTextColored(box.X+2, box.Y+1, node.Title, e.theme.Accent)
	dst.DrawTextColored(box.X+2, box.Y+2, "["+string(node.Type)+"]", e.theme.Dim)
	for i, line := range lines {
		if box.Y+4+i >= box.Bottom()-2 {
			break
		}
		dst.DrawTextColored(box.X+2, box.Y+4+i, line, e.theme.Text)
	}
	dst.DrawTextColored(box.X+2, box.Bottom()-2, "esc to close", e.theme.Dim)
}

func (e *Explore) renderHelpPanel(dst *core.Screen) {
	bindings := []string{
		"arrows / wasd   walk and turn",
		"e / enter       read the nearby entry",
		"t               next color theme",
		"v / tab         toggle survey view",
		"h               show or hide the HUD",
		"?               this panel",
		"q / ctrl+c      leave the island",
	}

	w := core.Min(44, dst.Width()-4)
	h := len(bindings) + 4
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, e.theme.Accent)

	dst.DrawTextColored(box.X+2, box.Y+1, "how to explore", e.theme.Accent)
	for i, b := range bindings {
		dst.DrawTextColored(box.X+2, box.Y+3+i, b, e.theme.Text)
	}
}

func formatPlayTime(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func formatBytes(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
