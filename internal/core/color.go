package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility; themes map tile
// and UI elements onto these slots.
type Color uint8

// Predefined colors for world and UI elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)
