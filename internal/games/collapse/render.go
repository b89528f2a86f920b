package collapse

import (
	"fmt"
	"math"

	"github.com/vovakirdan/collapse/internal/animation"
	"github.com/vovakirdan/collapse/internal/core"
	"github.com/vovakirdan/collapse/internal/games/collapse/board"
)

const hudHeight = 2

// Visual characters for rendering
const (
	EmptyGlyph   = '·'
	CursorLeft   = '['
	CursorRight  = ']'
	tileInkColor = core.Color("#111827")
)

var (
	frameStyle   = core.FG(core.ColorDarkGray)
	emptyStyle   = core.FG(core.ColorDarkGray)
	hudStyle     = core.FG(core.ColorWhite)
	dimHUDStyle  = core.FG(core.ColorGray)
	cursorStyle  = core.Style{FG: core.ColorHighlight, Bold: true}
	overlayStyle = core.Style{FG: core.ColorYellow, Bold: true}
	errorStyle   = core.Style{FG: core.ColorRed, Bold: true}
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		g.renderError(dst)
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	dst.DrawBox(g.boardRect().Grow(1, 1), frameStyle)
	g.renderSlots(dst)
	g.renderTiles(dst)
	g.renderHint(dst)
	g.renderCursor(dst)
	g.renderOverlays(dst)
}

// renderError shows why the game could not start.
func (g *Game) renderError(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y-1, "Cannot start "+g.Title(), errorStyle)
	dst.DrawTextCentered(y+1, g.err.Error(), hudStyle)
	dst.DrawTextCentered(y+3, "Press Q to quit", dimHUDStyle)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", hudStyle)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d, please resize terminal", g.minW, g.minH), dimHUDStyle)
}

// renderHUD draws score, board growth and the last message.
func (g *Game) renderHUD(dst *core.Screen) {
	left := g.boardX - 1
	right := g.boardX + g.boardW + 1

	dst.DrawTextStyled(left, 0, g.Title(), core.Style{FG: core.ColorCyan, Bold: true})
	score := fmt.Sprintf("Score %d", g.score)
	dst.DrawTextStyled(right-len(score), 0, score, hudStyle)

	windows := fmt.Sprintf("Windows %d", g.board.Windows())
	if g.cfg.Board.MaxWindows > 0 {
		windows = fmt.Sprintf("Windows %d/%d", g.board.Windows(), g.cfg.Board.MaxWindows)
	}
	reserve := g.board.ActiveCount() - g.visibleActive()
	info := fmt.Sprintf("%s  Reserve %d  Colors %d", windows, reserve, g.palette.Size())
	dst.DrawTextStyled(left, 1, info, dimHUDStyle)

	if g.message != "" {
		dst.DrawTextCentered(g.boardY+g.boardH+1, g.message, hudStyle)
	}
}

// cellRect returns the screen rectangle of a render-space position.
func (g *Game) cellRect(pos board.Point) core.Rect {
	l := g.cfg.Layout
	return core.Rect{
		X: g.boardX + int(math.Round(pos.X)),
		Y: g.boardY + int(math.Round(pos.Y-g.scrollY())),
		W: l.CellWidth,
		H: l.CellHeight,
	}
}

// renderSlots marks empty slots of the visible window.
func (g *Game) renderSlots(dst *core.Screen) {
	geo := g.geometry()
	start := g.board.WindowStart()
	n := g.cfg.Board.Size
	for r := range n {
		for c := range n {
			idx := board.I(start+r, c)
			if g.board.At(idx).Active {
				continue
			}
			rect := g.cellRect(geo.Position(idx))
			x, y := rect.Center()
			g.setClipped(dst, x, y, EmptyGlyph, emptyStyle)
		}
	}
}

// renderTiles draws every live renderable with its running effect.
func (g *Game) renderTiles(dst *core.Screen) {
	for _, h := range g.layer.handles() {
		s, _ := g.layer.get(h)
		pos := s.pos
		if t, ok := g.player.Progress(h, board.EffectMove); ok {
			pos = board.Point{
				X: animation.Lerp(s.from.X, s.pos.X, t),
				Y: animation.Lerp(s.from.Y, s.pos.Y, t),
			}
		}
		rect := g.cellRect(pos)

		if t, ok := g.player.Progress(h, board.EffectDestroy); ok {
			g.drawFading(dst, rect, s.look, t)
			continue
		}
		if t, ok := g.player.Progress(h, board.EffectScaleIn); ok && t < 0.5 {
			x, y := rect.Center()
			g.setClipped(dst, x, y, s.look.Glyph, core.FG(core.Color(s.look.Color)))
			continue
		}
		g.drawTile(dst, rect, s.look)
	}
}

// drawTile fills the tile with its color and puts the glyph in the middle.
func (g *Game) drawTile(dst *core.Screen, rect core.Rect, look board.Sprite) {
	fill := core.Style{BG: core.Color(look.Color)}
	for y := rect.Y; y < rect.Bottom(); y++ {
		for x := rect.X; x < rect.Right(); x++ {
			g.setClipped(dst, x, y, ' ', fill)
		}
	}
	x, y := rect.Center()
	g.setClipped(dst, x, y, look.Glyph, core.Style{FG: tileInkColor, BG: core.Color(look.Color)})
}

// drawFading shrinks a tile that is being destroyed.
func (g *Game) drawFading(dst *core.Screen, rect core.Rect, look board.Sprite, t float64) {
	dim := core.Color(g.dims[look.Color])
	if t < 0.5 {
		g.drawTile(dst, rect, board.Sprite{Label: look.Label, Glyph: look.Glyph, Color: string(dim)})
		return
	}
	x, y := rect.Center()
	g.setClipped(dst, x, y, EmptyGlyph, core.FG(dim))
}

// renderHint emphasizes the glyphs of the hinted group.
func (g *Game) renderHint(dst *core.Screen) {
	if g.hint == nil {
		return
	}
	geo := g.geometry()
	m := g.board.VisibleMapper()
	for _, local := range g.hint.Cells() {
		t := g.board.At(m.Denormalize(local))
		if !t.Active {
			continue
		}
		rect := g.cellRect(geo.Position(t.Index))
		x, y := rect.Center()
		cell := dst.GetCell(x, y)
		g.setClipped(dst, x, y, cell.Rune, core.Style{FG: core.ColorHighlight, BG: cell.Style.BG, Bold: true})
	}
}

// renderCursor brackets the tile under the cursor.
func (g *Game) renderCursor(dst *core.Screen) {
	if g.gameOver {
		return
	}
	idx := g.board.VisibleMapper().Denormalize(g.cursor)
	rect := g.cellRect(g.geometry().Position(idx))
	x, midY := rect.Center()

	if g.cfg.Layout.GapX > 0 || rect.W >= 3 {
		lx, rx := rect.X-1, rect.Right()
		if g.cfg.Layout.GapX == 0 {
			lx, rx = rect.X, rect.Right()-1
		}
		g.setClipped(dst, lx, midY, CursorLeft, cursorStyle)
		g.setClipped(dst, rx, midY, CursorRight, cursorStyle)
		return
	}
	cell := dst.GetCell(x, midY)
	g.setClipped(dst, x, midY, cell.Rune, core.Style{FG: core.ColorHighlight, BG: cell.Style.BG, Bold: true})
}

// boardRect is the screen area of the visible window.
func (g *Game) boardRect() core.Rect {
	return core.NewRect(g.boardX, g.boardY, g.boardW, g.boardH)
}

// setClipped draws only inside the board area.
func (g *Game) setClipped(dst *core.Screen, x, y int, r rune, st core.Style) {
	area := g.boardRect().Grow(1, 0)
	if !area.Contains(x, y) {
		return
	}
	dst.SetStyled(x, y, r, st)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen) {
	centerX, centerY := g.boardRect().Center()

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.gameOver {
		g.drawOverlay(dst, centerX, centerY,
			"NO MOVES LEFT",
			fmt.Sprintf("Score: %d", g.score),
			fmt.Sprintf("Moves: %d  Best group: %d", g.stats.Moves, g.stats.LargestGroup),
			"Press R to restart",
		)
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	// Find max line width
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect(centerX-boxW/2, centerY-boxH/2, boxW, boxH)

	// Clear area behind overlay
	dst.DrawRect(box, ' ', core.Plain)
	dst.DrawBox(box, overlayStyle)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawTextStyled(x, box.Y+1+i, line, hudStyle)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Space/Enter/Click: Select | H: Hint | P: Pause | R: Restart | Q: Quit"
}
