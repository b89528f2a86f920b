package board

import "fmt"

// ColorKey identifies a palette entry. Two tiles match when their keys are equal.
type ColorKey int

// Cell is one entry of a Snapshot.
// A cell without Present is the null cell: a removed or missing tile.
type Cell struct {
	Color   ColorKey
	Present bool
}

// Key returns a present cell with the given color.
func Key(c ColorKey) Cell {
	return Cell{Color: c, Present: true}
}

// Snapshot is a window-shaped matrix of color keys, indexed [row][col].
type Snapshot [][]Cell

// NewSnapshot builds a snapshot from a matrix of colors.
// Negative values become null cells.
func NewSnapshot(rows [][]int) Snapshot {
	s := make(Snapshot, len(rows))
	for r, row := range rows {
		s[r] = make([]Cell, len(row))
		for c, v := range row {
			if v >= 0 {
				s[r][c] = Key(ColorKey(v))
			}
		}
	}
	return s
}

// InBounds returns true if the index lies inside the snapshot.
func (s Snapshot) InBounds(idx Index) bool {
	return idx.Row >= 0 && idx.Row < len(s) && idx.Col >= 0 && len(s) > 0 && idx.Col < len(s[0])
}

// At returns the cell at idx.
func (s Snapshot) At(idx Index) Cell {
	return s[idx.Row][idx.Col]
}

// directions holds the four neighbor offsets: up, down, left, right.
var directions = [4]Index{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Mask is a snapshot-shaped erasure layer: true cells belong to the match.
type Mask struct {
	erased [][]bool
	count  int
}

func newMask(rows, cols int) *Mask {
	m := &Mask{erased: make([][]bool, rows)}
	for r := range m.erased {
		m.erased[r] = make([]bool, cols)
	}
	return m
}

func (m *Mask) mark(idx Index) {
	if !m.erased[idx.Row][idx.Col] {
		m.erased[idx.Row][idx.Col] = true
		m.count++
	}
}

// Erased reports whether idx was consumed by the flood fill.
func (m *Mask) Erased(idx Index) bool {
	if idx.Row < 0 || idx.Row >= len(m.erased) || idx.Col < 0 || idx.Col >= len(m.erased[idx.Row]) {
		return false
	}
	return m.erased[idx.Row][idx.Col]
}

// Len returns the number of erased cells.
func (m *Mask) Len() int {
	return m.count
}

// Cells returns the erased cells in row-major order.
func (m *Mask) Cells() []Index {
	cells := make([]Index, 0, m.count)
	for r, row := range m.erased {
		for c, erased := range row {
			if erased {
				cells = append(cells, I(r, c))
			}
		}
	}
	return cells
}

// Match flood-fills from seed over same-colored 4-neighbors.
// It returns nil when the seed has no matching neighbor; otherwise the mask
// of the connected group, seed included. The snapshot is not modified.
// Match panics if seed lies outside the snapshot.
func Match(s Snapshot, seed Index) *Mask {
	if !s.InBounds(seed) {
		panic(fmt.Sprintf("board: match seed %v outside %dx%d snapshot", seed, len(s), rowLen(s)))
	}

	target := s.At(seed)
	mask := newMask(len(s), rowLen(s))
	// queued holds every cell ever enqueued; each cell enters the queue
	// at most once. The seed is left out so a neighbor can enqueue it.
	queued := newMask(len(s), rowLen(s))

	queue := matchingNeighbors(s, queued, seed, target)
	if len(queue) == 0 {
		return nil
	}

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		mask.mark(pos)
		queue = append(queue, matchingNeighbors(s, queued, pos, target)...)
	}

	return mask
}

// matchingNeighbors returns the in-bounds 4-neighbors of pos whose cell
// equals target and that were not queued before, and marks them queued.
func matchingNeighbors(s Snapshot, queued *Mask, pos Index, target Cell) []Index {
	var out []Index
	if !target.Present {
		return out
	}
	for _, d := range directions {
		n := I(pos.Row+d.Row, pos.Col+d.Col)
		if !s.InBounds(n) || queued.Erased(n) {
			continue
		}
		if s.At(n) == target {
			queued.mark(n)
			out = append(out, n)
		}
	}
	return out
}

func rowLen(s Snapshot) int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}
