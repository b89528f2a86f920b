package core

// Color is a terminal foreground or background color: a "#rrggbb" hex
// string or an ANSI 256-color code. The empty Color is the terminal default.
// The platform hands it to lipgloss unchanged.
type Color string

// Predefined colors for chrome around the board.
const (
	ColorDefault   Color = ""
	ColorRed       Color = "9"
	ColorGreen     Color = "10"
	ColorYellow    Color = "11"
	ColorCyan      Color = "14"
	ColorWhite     Color = "15"
	ColorGray      Color = "245"
	ColorDarkGray  Color = "238"
	ColorHighlight Color = "#f5f5f5"
)

// Style is the look of one screen cell.
type Style struct {
	FG   Color
	BG   Color
	Bold bool
}

// Plain is the default style.
var Plain = Style{}

// FG returns a style with only a foreground color.
func FG(c Color) Style {
	return Style{FG: c}
}

// Cell is one character of the screen buffer.
type Cell struct {
	Rune  rune
	Style Style
}
