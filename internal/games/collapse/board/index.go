// Package board provides the matching and collapse logic for the Collapse
// puzzle game. This package is UI-agnostic: rendering, effects and sprites
// are reached only through the collaborator interfaces in collaborators.go.
package board

import "fmt"

// Index addresses a tile in logical space.
// Row grows downward through the stacked windows; Col grows to the right.
type Index struct {
	Row int
	Col int
}

// I is a convenience constructor for Index.
func I(row, col int) Index {
	return Index{Row: row, Col: col}
}

// String returns a string representation of the index.
func (i Index) String() string {
	return fmt.Sprintf("[%d,%d]", i.Row, i.Col)
}

// Normalize projects an absolute index of a two-window stack into the
// coordinate space of a single window snapshot.
func Normalize(idx Index, windowSize int) Index {
	if idx.Row >= windowSize {
		return Index{Row: idx.Row - windowSize, Col: idx.Col}
	}
	return idx
}

// Denormalize maps a window-space index back to the upper window of a
// two-window stack. Row == windowSize is shifted as well.
func Denormalize(idx Index, windowSize int) Index {
	if idx.Row <= windowSize {
		return Index{Row: idx.Row + windowSize, Col: idx.Col}
	}
	return idx
}

// Mapper translates between absolute board rows and rows of one window
// that starts at an explicit absolute row.
type Mapper struct {
	WindowSize int
	Start      int // absolute row of the window's first row
}

// Normalize returns idx relative to the window start.
// Rows above the window are returned unchanged.
func (m Mapper) Normalize(idx Index) Index {
	if idx.Row >= m.Start {
		return Index{Row: idx.Row - m.Start, Col: idx.Col}
	}
	return idx
}

// Denormalize returns the absolute index of a window-local index.
func (m Mapper) Denormalize(idx Index) Index {
	return Index{Row: idx.Row + m.Start, Col: idx.Col}
}

// Contains reports whether an absolute index lies inside the window.
func (m Mapper) Contains(idx Index) bool {
	return idx.Row >= m.Start && idx.Row < m.Start+m.WindowSize &&
		idx.Col >= 0 && idx.Col < m.WindowSize
}

// WindowAddr addresses a tile as (window, local row, column).
type WindowAddr struct {
	Window   int
	LocalRow int
	Col      int
}

// Locate splits an absolute index into its window address.
func Locate(idx Index, windowSize int) WindowAddr {
	return WindowAddr{
		Window:   idx.Row / windowSize,
		LocalRow: idx.Row % windowSize,
		Col:      idx.Col,
	}
}

// Index returns the absolute index of the address.
func (a WindowAddr) Index(windowSize int) Index {
	return Index{Row: a.Window*windowSize + a.LocalRow, Col: a.Col}
}
