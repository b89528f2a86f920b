// Package export writes snapshots of a game to disk: plain-text screen
// dumps and PNG pictures of the board.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/vovakirdan/collapse/internal/core"
)

// TimestampLayout names exported files.
const TimestampLayout = "20060102_150405"

// ErrEmptyGrid is returned when there is nothing to draw.
var ErrEmptyGrid = errors.New("export: nothing to export")

// Cell is one board slot as seen by the exporter.
type Cell struct {
	Hex     string // "#rrggbb"
	Present bool
}

// Grid is a rectangular board picture with an optional caption.
type Grid struct {
	Title string
	Cells [][]Cell // [row][col]
}

// Options controls the PNG layout in pixels.
type Options struct {
	CellPx     float64
	GapPx      float64
	MarginPx   float64
	Background string
	Empty      string // fill of empty slots
	Caption    string // caption text color
	FontSize   float64
}

// DefaultOptions returns the layout used by the game.
func DefaultOptions() Options {
	return Options{
		CellPx:     40,
		GapPx:      6,
		MarginPx:   16,
		Background: "#111827",
		Empty:      "#1f2937",
		Caption:    "#e5e7eb",
		FontSize:   14,
	}
}

// Filename returns "<gameID>_<timestamp>.<ext>" inside dir.
func Filename(dir, gameID string, at time.Time, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", gameID, at.Format(TimestampLayout), ext))
}

// DefaultDir returns the directory exports go to.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".collapse", "screenshots")
	}
	return filepath.Join(home, ".collapse", "screenshots")
}

// Text writes the screen contents as plain text.
func Text(path string, s *core.Screen) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: cannot create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(s.String()), 0o600); err != nil {
		return fmt.Errorf("export: cannot write screenshot: %w", err)
	}
	return nil
}

// CopyText puts the screen contents on the system clipboard.
func CopyText(s *core.Screen) error {
	if clipboard.Unsupported {
		return errors.New("export: clipboard not available")
	}
	if err := clipboard.WriteAll(s.String()); err != nil {
		return fmt.Errorf("export: cannot copy to clipboard: %w", err)
	}
	return nil
}

// Size returns the picture size for g.
func (o Options) Size(g Grid) (int, int) {
	rows := len(g.Cells)
	cols := 0
	if rows > 0 {
		cols = len(g.Cells[0])
	}
	w := 2*o.MarginPx + float64(cols)*o.CellPx + float64(max(cols-1, 0))*o.GapPx
	h := 2*o.MarginPx + float64(rows)*o.CellPx + float64(max(rows-1, 0))*o.GapPx
	if g.Title != "" {
		h += o.captionHeight()
	}
	return int(w), int(h)
}

func (o Options) captionHeight() float64 {
	return o.FontSize * 2
}

// PNG draws g and saves it to path.
func PNG(path string, g Grid, o Options) error {
	if len(g.Cells) == 0 || len(g.Cells[0]) == 0 {
		return ErrEmptyGrid
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: cannot create directory: %w", err)
	}

	dc, err := Draw(g, o)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("export: cannot save png: %w", err)
	}
	return nil
}

// Draw renders g into a new drawing context.
func Draw(g Grid, o Options) (*gg.Context, error) {
	if len(g.Cells) == 0 || len(g.Cells[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	w, h := o.Size(g)
	dc := gg.NewContext(w, h)
	dc.SetHexColor(o.Background)
	dc.Clear()

	top := o.MarginPx
	if g.Title != "" {
		face, err := captionFace(o.FontSize)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetHexColor(o.Caption)
		dc.DrawStringAnchored(g.Title, o.MarginPx, top+o.FontSize/2, 0, 0.5)
		top += o.captionHeight()
	}

	pitch := o.CellPx + o.GapPx
	for r, row := range g.Cells {
		for c, cell := range row {
			x := o.MarginPx + float64(c)*pitch
			y := top + float64(r)*pitch
			dc.DrawRoundedRectangle(x, y, o.CellPx, o.CellPx, o.CellPx/6)
			if cell.Present {
				dc.SetHexColor(cell.Hex)
			} else {
				dc.SetHexColor(o.Empty)
			}
			dc.Fill()
		}
	}

	// Thin frame around the board
	dc.SetColor(color.RGBA{R: 255, G: 255, B: 255, A: 40})
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, float64(w)-1, float64(h)-1)
	dc.Stroke()

	return dc, nil
}

func captionFace(size float64) (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("export: cannot parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
