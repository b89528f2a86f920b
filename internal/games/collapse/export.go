package collapse

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/collapse/internal/export"
	"github.com/vovakirdan/collapse/internal/games/collapse/board"
)

// now is replaced in tests.
var now = time.Now

// ExportGrid returns the visible window as an exporter grid.
func (g *Game) ExportGrid() export.Grid {
	n := g.cfg.Board.Size
	start := g.board.WindowStart()
	cells := make([][]export.Cell, n)
	for r := range n {
		cells[r] = make([]export.Cell, n)
		for c := range n {
			t := g.board.At(board.I(start+r, c))
			if !t.Active {
				continue
			}
			cells[r][c] = export.Cell{Hex: g.palette.Entry(t.Color).Hex, Present: true}
		}
	}
	return export.Grid{
		Title: fmt.Sprintf("%s  score %d  windows %d", g.Title(), g.score, g.board.Windows()),
		Cells: cells,
	}
}

// Export writes a PNG of the visible window into dir.
func (g *Game) Export(dir string) ([]string, error) {
	if g.board == nil {
		return nil, errors.New("collapse: no board to export")
	}
	path := export.Filename(dir, g.ID(), now(), "png")
	if err := export.PNG(path, g.ExportGrid(), export.DefaultOptions()); err != nil {
		return nil, err
	}
	g.logger.Info("board exported", "path", path)
	return []string{path}, nil
}
