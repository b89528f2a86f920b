package board

// Move records a tile that compaction relocated.
type Move struct {
	From   Index
	To     Index
	Handle Handle
}

// Compact lets surviving tiles fall into inactive slots below them.
//
// Each column is scanned once from the bottom row up. For every inactive
// slot the nearest active tile above it in the same column moves in and its
// old slot becomes inactive. Gaps with nothing above stay empty.
func (b *Board) Compact() []Move {
	var moves []Move
	rows := b.Rows()
	for col := range b.cfg.Size {
		for i := rows - 1; i >= 0; i-- {
			if b.At(I(i, col)).Active {
				continue
			}
			for k := i - 1; k >= 0; k-- {
				if !b.At(I(k, col)).Active {
					continue
				}
				moves = append(moves, b.relocate(I(k, col), I(i, col)))
				break
			}
		}
	}
	return moves
}

// relocate moves the active tile at from into the inactive slot to.
func (b *Board) relocate(from, to Index) Move {
	t := b.At(from)

	t.Index = to
	t.Position = b.cfg.Geometry.Position(to)
	b.set(to, t)
	b.renderer.SetHandlePosition(t.Handle, t.Position)
	b.bind(t)

	b.set(from, &Tile{
		Position: b.cfg.Geometry.Position(from),
		Index:    from,
	})

	return Move{From: from, To: to, Handle: t.Handle}
}
