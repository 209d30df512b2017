package theme

import (
	"testing"

	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

func TestBuiltinsRegistered(t *testing.T) {
	if Count() != 5 {
		t.Fatalf("registered themes = %d, want 5", Count())
	}
	for _, name := range []string{"classic", "midnight", "solarized", "forest", "neon"} {
		if !Exists(name) {
			t.Errorf("theme %s not registered", name)
		}
	}
	if !Exists(DefaultName) {
		t.Fatal("default theme not registered")
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("sepia"); err == nil {
		t.Error("lookup of unknown theme succeeded")
	}
	if got := GetOrDefault("sepia"); got.Name != DefaultName {
		t.Errorf("GetOrDefault = %s, want %s", got.Name, DefaultName)
	}
}

func TestListSorted(t *testing.T) {
	infos := List()
	if len(infos) != Count() {
		t.Fatalf("list has %d entries, want %d", len(infos), Count())
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Fatalf("list not sorted: %s before %s", infos[i-1].Name, infos[i].Name)
		}
	}
	for _, info := range infos {
		if info.Label == "" {
			t.Errorf("theme %s has no label", info.Name)
		}
	}
}

func TestNextCyclesThroughAll(t *testing.T) {
	start := Names()[0]
	seen := map[string]bool{start: true}
	name := start
	for i := 0; i < Count()-1; i++ {
		name = Next(name)
		if seen[name] {
			t.Fatalf("cycle revisited %s before covering all themes", name)
		}
		seen[name] = true
	}
	if name = Next(name); name != start {
		t.Errorf("cycle does not wrap: ended on %s, want %s", name, start)
	}

	if got := Next("sepia"); got != Names()[0] {
		t.Errorf("Next on unknown theme = %s, want cycle start", got)
	}
}

func TestTileColorFallback(t *testing.T) {
	th := Theme{Tiles: map[tilemap.TileType]core.Color{tilemap.TileWater: core.ColorBlue}}
	if got := th.TileColor(tilemap.TileWater); got != core.ColorBlue {
		t.Errorf("water = %v", got)
	}
	if got := th.TileColor(tilemap.TileRock); got != core.ColorDefault {
		t.Errorf("unmapped tile = %v, want default", got)
	}
}

func TestNodeColorStates(t *testing.T) {
	th, err := Get("classic")
	if err != nil {
		t.Fatal(err)
	}
	if th.NodeColor(false, false) != th.NodeFresh {
		t.Error("fresh node color wrong")
	}
	if th.NodeColor(true, false) != th.NodeSeen {
		t.Error("seen node color wrong")
	}
	if th.NodeColor(true, true) != th.NodeVisited {
		t.Error("visited node color wrong")
	}
}

func TestEveryBuiltinCoversAllTiles(t *testing.T) {
	tiles := []tilemap.TileType{
		tilemap.TileGrass, tilemap.TilePath, tilemap.TileWater,
		tilemap.TileRock, tilemap.TileBridge, tilemap.TilePlaza,
		tilemap.TileMarker,
	}
	for _, info := range List() {
		th, err := Get(info.Name)
		if err != nil {
			t.Fatal(err)
		}
		for _, tt := range tiles {
			if _, ok := th.Tiles[tt]; !ok {
				t.Errorf("theme %s leaves %v unmapped", info.Name, tt)
			}
		}
	}
}
