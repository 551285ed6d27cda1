package dashboard

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border

	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	// Chart series
	ColorTemperature = lipgloss.Color("#FF5C7A")
	ColorHumidity    = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	AlertCardStyle = CardStyle.
			BorderForeground(ColorCritical)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.NormalBorder())
)

// StyleColor maps a badge style to its palette color.
func StyleColor(s BadgeStyle) lipgloss.Color {
	switch s {
	case StyleSuccess:
		return ColorHealthy
	case StyleDanger:
		return ColorCritical
	case StyleInfo:
		return ColorWarning
	default:
		return ColorTextPrimary
	}
}

// BadgeRender renders text as a badge in the given style.
func BadgeRender(text string, s BadgeStyle) string {
	if s == StyleNone {
		return ValueStyle.Render(text)
	}
	return lipgloss.NewStyle().
		Foreground(ColorDarkBg).
		Background(StyleColor(s)).
		Bold(true).
		Padding(0, 1).
		Render(text)
}

// SeverityColor maps an event log severity to its palette color.
func SeverityColor(s Severity) lipgloss.Color {
	switch s {
	case SeveritySuccess:
		return ColorHealthy
	case SeverityDanger:
		return ColorCritical
	default:
		return ColorTextSecondary
	}
}
