// Package assets resolves the tile palette from configuration.
package assets

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/collapse/internal/config"
	"github.com/vovakirdan/collapse/internal/games/collapse/board"
)

// DefaultGlyph is drawn when an entry names no glyph.
const DefaultGlyph = '●'

// ErrEmptyPalette is returned by Load for a palette without entries.
var ErrEmptyPalette = errors.New("assets: empty palette")

// builtin colors for entries that only carry a name.
var builtin = map[string]string{
	"blue":    "#3b82f6",
	"red":     "#ef4444",
	"green":   "#22c55e",
	"yellow":  "#eab308",
	"purpure": "#a855f7",
	"orange":  "#f97316",
	"cyan":    "#06b6d4",
	"gray":    "#9ca3af",
}

// Entry is a resolved palette color.
type Entry struct {
	Name  string
	Hex   string // normalized "#rrggbb"
	Dim   string // Hex blended towards black, for fading tiles
	Glyph rune
	Color colorful.Color
}

// Palette is an ordered list of resolved colors. It implements
// board.Palette; Size reports only the colors currently in play.
type Palette struct {
	entries []Entry
	active  int
}

// Load resolves every entry concurrently and returns them in config order.
// The first failing entry cancels the rest.
func Load(ctx context.Context, entries []config.PaletteEntry) (*Palette, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyPalette
	}

	resolved := make([]Entry, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := resolve(e)
			if err != nil {
				return fmt.Errorf("assets: palette entry %d (%s): %w", i, e.Name, err)
			}
			resolved[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Palette{entries: resolved, active: len(resolved)}, nil
}

// MustDefault returns the builtin palette. It panics only if the builtin
// table itself is broken.
func MustDefault() *Palette {
	p, err := Load(context.Background(), config.DefaultCollapseConfig().Palette)
	if err != nil {
		panic(err)
	}
	return p
}

func resolve(e config.PaletteEntry) (Entry, error) {
	hex := e.Color
	if hex == "" {
		b, ok := builtin[e.Name]
		if !ok {
			return Entry{}, fmt.Errorf("no color and no builtin named %q", e.Name)
		}
		hex = b
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Entry{}, fmt.Errorf("bad color %q: %w", hex, err)
	}

	glyph := DefaultGlyph
	if e.Glyph != "" {
		if utf8.RuneCountInString(e.Glyph) != 1 {
			return Entry{}, fmt.Errorf("glyph %q must be a single character", e.Glyph)
		}
		glyph, _ = utf8.DecodeRuneInString(e.Glyph)
	}

	name := e.Name
	if name == "" {
		name = c.Hex()
	}
	return Entry{
		Name:  name,
		Hex:   c.Hex(),
		Dim:   c.BlendLab(colorful.Color{}, 0.6).Clamped().Hex(),
		Glyph: glyph,
		Color: c,
	}, nil
}

// Len returns the number of loaded colors.
func (p *Palette) Len() int {
	return len(p.entries)
}

// SetActive limits new tiles to the first n colors, clamped to [1, Len].
func (p *Palette) SetActive(n int) {
	p.active = max(1, min(n, len(p.entries)))
}

// Size returns the number of colors new tiles are drawn from.
func (p *Palette) Size() int {
	return p.active
}

// Entry returns the resolved color for key. Keys outside the palette wrap.
func (p *Palette) Entry(key board.ColorKey) Entry {
	i := int(key) % len(p.entries)
	if i < 0 {
		i += len(p.entries)
	}
	return p.entries[i]
}

// Sprite returns the visual for key.
func (p *Palette) Sprite(key board.ColorKey) board.Sprite {
	e := p.Entry(key)
	return board.Sprite{Label: e.Name, Glyph: e.Glyph, Color: e.Hex}
}

// Label returns the color name for key.
func (p *Palette) Label(key board.ColorKey) string {
	return p.Entry(key).Name
}
