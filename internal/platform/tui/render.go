package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collapse/internal/core"
)

// styleCache memoizes lipgloss styles per core.Style.
type styleCache map[core.Style]lipgloss.Style

func (c styleCache) get(st core.Style) lipgloss.Style {
	if s, ok := c[st]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	if st.FG != core.ColorDefault {
		s = s.Foreground(lipgloss.Color(st.FG))
	}
	if st.BG != core.ColorDefault {
		s = s.Background(lipgloss.Color(st.BG))
	}
	if st.Bold {
		s = s.Bold(true)
	}
	c[st] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	styles := styleCache{}

	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		cells := s.Cells(y)
		x := 0
		for x < len(cells) {
			start := cells[x].Style

			var run strings.Builder
			for x < len(cells) && cells[x].Style == start {
				run.WriteRune(cells[x].Rune)
				x++
			}

			if start == core.Plain {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styles.get(start).Render(run.String()))
		}
	}
	return sb.String()
}
