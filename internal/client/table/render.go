package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultColumnWidth = 18
	skeletonCell       = "░░░░░░░░"
)

// Renderer draws a Model as plain terminal text.
type Renderer struct {
	header   lipgloss.Style
	cell     lipgloss.Style
	high     lipgloss.Style
	chip     lipgloss.Style
	muted    lipgloss.Style
	errStyle lipgloss.Style
}

func NewRenderer() *Renderer {
	return &Renderer{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("24")),
		cell:     lipgloss.NewStyle(),
		high:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		chip:     lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1),
		muted:    lipgloss.NewStyle().Faint(true),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Render draws the chips line, the header, the rows and a footer. While
// the first page loads, skeleton rows stand in for data.
func (r *Renderer) Render(m *Model, cols []Column) string {
	var b strings.Builder

	if chips := m.Chips(); len(chips) > 0 {
		parts := make([]string, 0, len(chips))
		for _, c := range chips {
			parts = append(parts, r.chip.Render(c.String()))
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}

	s := m.Sort()
	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		label := c.Label
		if ind := s.Indicator(c.ID); ind != "" {
			label += " " + ind
		}
		headers = append(headers, r.fit(r.header, label, width(c)))
	}
	b.WriteString(strings.Join(headers, " "))
	b.WriteString("\n")

	rows := m.Rows()
	switch {
	case m.Loading() && len(rows) == 0:
		for i := 0; i < SkeletonRows; i++ {
			cells := make([]string, 0, len(cols))
			for _, c := range cols {
				cells = append(cells, r.fit(r.muted, skeletonCell, width(c)))
			}
			b.WriteString(strings.Join(cells, " "))
			b.WriteString("\n")
		}
	case len(rows) == 0:
		if err := m.Err(); err != nil {
			b.WriteString(r.errStyle.Render(err.Error()))
		} else {
			b.WriteString(r.muted.Render(EmptyText))
		}
		b.WriteString("\n")
	default:
		for _, row := range rows {
			style := r.cell
			if row.String("priority") == "high" {
				style = r.high
			}
			cells := make([]string, 0, len(cols))
			for _, c := range cols {
				cells = append(cells, r.fit(style, c.Display(row), width(c)))
			}
			b.WriteString(strings.Join(cells, " "))
			b.WriteString("\n")
		}
	}

	b.WriteString(r.muted.Render(r.footer(m, len(rows))))
	return b.String()
}

func (r *Renderer) footer(m *Model, shown int) string {
	if m.Mode() == Infinite {
		more := ""
		if m.HasMore() {
			more = " …"
		}
		return fmt.Sprintf("%d / %d%s", shown, m.Total(), more)
	}
	return fmt.Sprintf("صفحة %d من %d (%d)", m.Page(), max(m.TotalPages(), 1), m.Total())
}

func (r *Renderer) fit(style lipgloss.Style, text string, w int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return style.Width(w).MaxWidth(w).Render(truncate(text, w))
}

func width(c Column) int {
	if c.Width > 0 {
		return c.Width
	}
	return defaultColumnWidth
}

// truncate cuts text to w cells, marking the cut with an ellipsis.
func truncate(text string, w int) string {
	if lipgloss.Width(text) <= w {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n >= 0; n-- {
		candidate := string(runes[:n]) + "…"
		if lipgloss.Width(candidate) <= w {
			return candidate
		}
	}
	return ""
}
