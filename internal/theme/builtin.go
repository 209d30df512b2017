package theme

import (
	"github.com/tilefolio/tilefolio/internal/core"
	"github.com/tilefolio/tilefolio/internal/tilemap"
)

func init() {
	Register(Theme{
		Name:  "classic",
		Label: "Classic Island",
		Tiles: map[tilemap.TileType]core.Color{
			tilemap.TileWater:  core.ColorBlue,
			tilemap.TileGrass:  core.ColorGreen,
			tilemap.TilePath:   core.ColorYellow,
			tilemap.TileRock:   core.ColorGray,
			tilemap.TileBridge: core.ColorOrange,
			tilemap.TilePlaza:  core.ColorBrightYellow,
			tilemap.TileMarker: core.ColorBrightMagenta,
		},
		Adventurer:  core.ColorBrightWhite,
		NodeFresh:   core.ColorBrightMagenta,
		NodeSeen:    core.ColorBrightCyan,
		NodeVisited: core.ColorBrightGreen,
		Accent:      core.ColorBrightYellow,
		Border:      core.ColorGray,
		Text:        core.ColorWhite,
		Dim:         core.ColorGray,
	})

	Register(Theme{
		Name:  "midnight",
		Label: "Midnight Tide",
		Tiles: map[tilemap.TileType]core.Color{
			tilemap.TileWater:  core.ColorBrightBlue,
			tilemap.TileGrass:  core.ColorBlue,
			tilemap.TilePath:   core.ColorMagenta,
			tilemap.TileRock:   core.ColorGray,
			tilemap.TileBridge: core.ColorBrightMagenta,
			tilemap.TilePlaza:  core.ColorBrightCyan,
			tilemap.TileMarker: core.ColorBrightMagenta,
		},
		Adventurer:  core.ColorBrightWhite,
		NodeFresh:   core.ColorBrightMagenta,
		NodeSeen:    core.ColorBrightCyan,
		NodeVisited: core.ColorBrightBlue,
		Accent:      core.ColorBrightCyan,
		Border:      core.ColorBlue,
		Text:        core.ColorCyan,
		Dim:         core.ColorGray,
	})

	Register(Theme{
		Name:  "solarized",
		Label: "Solarized Shore",
		Tiles: map[tilemap.TileType]core.Color{
			tilemap.TileWater:  core.ColorCyan,
			tilemap.TileGrass:  core.ColorYellow,
			tilemap.TilePath:   core.ColorOrange,
			tilemap.TileRock:   core.ColorGray,
			tilemap.TileBridge: core.ColorRed,
			tilemap.TilePlaza:  core.ColorBrightYellow,
			tilemap.TileMarker: core.ColorBrightBlue,
		},
		Adventurer:  core.ColorBrightWhite,
		NodeFresh:   core.ColorBrightBlue,
		NodeSeen:    core.ColorBrightCyan,
		NodeVisited: core.ColorBrightGreen,
		Accent:      core.ColorOrange,
		Border:      core.ColorGray,
		Text:        core.ColorWhite,
		Dim:         core.ColorGray,
	})

	Register(Theme{
		Name:  "forest",
		Label: "Deep Forest",
		Tiles: map[tilemap.TileType]core.Color{
			tilemap.TileWater:  core.ColorCyan,
			tilemap.TileGrass:  core.ColorBrightGreen,
			tilemap.TilePath:   core.ColorYellow,
			tilemap.TileRock:   core.ColorGray,
			tilemap.TileBridge: core.ColorOrange,
			tilemap.TilePlaza:  core.ColorBrightYellow,
			tilemap.TileMarker: core.ColorBrightRed,
		},
		Adventurer:  core.ColorBrightWhite,
		NodeFresh:   core.ColorBrightRed,
		NodeSeen:    core.ColorBrightYellow,
		NodeVisited: core.ColorBrightGreen,
		Accent:      core.ColorGreen,
		Border:      core.ColorGreen,
		Text:        core.ColorWhite,
		Dim:         core.ColorGray,
	})

	Register(Theme{
		Name:  "neon",
		Label: "Neon Grid",
		Tiles: map[tilemap.TileType]core.Color{
			tilemap.TileWater:  core.ColorBrightBlue,
			tilemap.TileGrass:  core.ColorBrightCyan,
			tilemap.TilePath:   core.ColorBrightMagenta,
			tilemap.TileRock:   core.ColorGray,
			tilemap.TileBridge: core.ColorBrightYellow,
			tilemap.TilePlaza:  core.ColorBrightWhite,
			tilemap.TileMarker: core.ColorBrightGreen,
		},
		Adventurer:  core.ColorBrightYellow,
		NodeFresh:   core.ColorBrightGreen,
		NodeSeen:    core.ColorBrightMagenta,
		NodeVisited: core.ColorBrightCyan,
		Accent:      core.ColorBrightMagenta,
		Border:      core.ColorBrightCyan,
		Text:        core.ColorBrightWhite,
		Dim:         core.ColorGray,
	})
}
