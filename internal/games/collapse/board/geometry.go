package board

import "math"

// Geometry maps logical indices to canonical render-space positions.
// A position is the top-left corner of the cell. Positions are
// board-absolute: row r of any window sits at OriginY + r*(CellH+GapY);
// hosts scroll by the visible window's offset.
type Geometry struct {
	CellW   float64
	CellH   float64
	GapX    float64
	GapY    float64
	OriginX float64
	OriginY float64
}

// FitGeometry lays out n square cells across width with at least gap
// between them. The leftover width is spread evenly over the n-1 gaps.
func FitGeometry(width float64, n int, gap float64) Geometry {
	if n < 2 {
		return Geometry{CellW: width, CellH: width}
	}
	cell := width/float64(n) - gap
	spread := (width - float64(n)*cell) / float64(n-1)
	return Geometry{
		CellW: cell,
		CellH: cell,
		GapX:  spread,
		GapY:  spread,
	}
}

// PitchX returns the horizontal distance between neighboring cells.
func (g Geometry) PitchX() float64 {
	return g.CellW + g.GapX
}

// PitchY returns the vertical distance between neighboring cells.
func (g Geometry) PitchY() float64 {
	return g.CellH + g.GapY
}

// CellSize returns the size of one tile.
func (g Geometry) CellSize() Size {
	return Size{W: g.CellW, H: g.CellH}
}

// Position returns the canonical position of slot idx.
func (g Geometry) Position(idx Index) Point {
	return Point{
		X: g.OriginX + float64(idx.Col)*g.PitchX(),
		Y: g.OriginY + float64(idx.Row)*g.PitchY(),
	}
}

// Hit returns the slot whose cell contains p.
// Points inside a gap or before the origin miss.
func (g Geometry) Hit(p Point) (Index, bool) {
	dx := p.X - g.OriginX
	dy := p.Y - g.OriginY
	if dx < 0 || dy < 0 || g.PitchX() <= 0 || g.PitchY() <= 0 {
		return Index{}, false
	}
	col := int(math.Floor(dx / g.PitchX()))
	row := int(math.Floor(dy / g.PitchY()))
	if dx-float64(col)*g.PitchX() >= g.CellW || dy-float64(row)*g.PitchY() >= g.CellH {
		return Index{}, false
	}
	return I(row, col), true
}
