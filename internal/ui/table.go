package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one line of a key/value table. Color tints the value; empty means
// the primary color.
type Row struct {
	Key   string
	Value string
	Color lipgloss.Color
}

// RenderKeyValue renders rows as an aligned two-column table, keys muted.
func RenderKeyValue(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Key); w > width {
			width = w
		}
	}

	keyStyle := MutedStyle().Width(width + 2)
	var b strings.Builder
	for _, r := range rows {
		color := r.Color
		if color == "" {
			color = ColorPrimary
		}
		b.WriteString(keyStyle.Render(r.Key))
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(r.Value))
		b.WriteString("\n")
	}
	return b.String()
}
