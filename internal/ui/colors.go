package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for CLI output. ANSI codes so they follow the terminal theme.
const (
	ColorSuccess lipgloss.Color = "2"
	ColorError   lipgloss.Color = "1"
	ColorWarning lipgloss.Color = "3"
	ColorInfo    lipgloss.Color = "6"
	ColorPrimary lipgloss.Color = "7"
	ColorMuted   lipgloss.Color = "8"
)

// GradientColors cycle through the spinner frames.
var GradientColors = []lipgloss.Color{"#FF6AC1", "#B48EAD", "#5FD7FF", "#50FA7B"}

// SuccessStyle renders text in the success color.
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}

// ErrorStyle renders text in the error color.
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// MutedStyle renders secondary text.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}
