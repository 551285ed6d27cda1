package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// overviewRecentEntries is how many log lines the overview shows.
const overviewRecentEntries = 3

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(TitleStyle.Render(m.board.Text(RegionPageTitle)))
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with link state and the clock.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("perimeter")

	link := lipgloss.NewStyle().Foreground(ColorHealthy).Render("● live")
	switch {
	case m.lastError != "":
		link = lipgloss.NewStyle().Foreground(ColorCritical).Render("● " + m.lastError)
	case m.lastUpdate.IsZero():
		link = lipgloss.NewStyle().Foreground(ColorWarning).Render("◐ connecting")
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s | last update %s | %s ", m.endpoint, m.updateAge(), m.board.Text(RegionClock)))

	return HeaderStyle.Render(title + stats + link)
}

// updateAge describes how long ago the last snapshot was applied.
func (m Model) updateAge() string {
	if m.lastUpdate.IsZero() {
		return "never"
	}
	secs := int(time.Since(m.lastUpdate).Seconds())
	switch secs {
	case 0:
		return "just now"
	case 1:
		return "1s ago"
	default:
		return fmt.Sprintf("%ds ago", secs)
	}
}

// renderTabs renders the navigation bar for the enabled views.
func (m Model) renderTabs() string {
	var tabs []string
	for _, v := range m.board.Views() {
		label := fmt.Sprintf("%d %s", int(v)+1, v.Title())
		if v == m.board.Active() {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderContent renders the panel for the active view.
func (m Model) renderContent() string {
	switch m.board.Active() {
	case ViewOverview:
		return m.renderOverview()
	case ViewControlRoom:
		return m.renderControlRoom()
	case ViewPatrolGuard:
		return m.renderPatrolGuard()
	case ViewEventLog:
		return m.renderEventLog()
	}
	return ""
}

func (m Model) chartWidth() int {
	w := m.width - 6
	if w < 20 {
		w = 40
	}
	return w
}

func (m Model) renderOverview() string {
	people := CardStyle.Render(
		LabelStyle.Render("People on site") + "\n" +
			ValueStyle.Render(orDash(m.board.Text(RegionPeopleCount))),
	)
	activity := CardStyle.Render(m.overview.Render(m.chartWidth()-lipgloss.Width(people), 3))

	top := lipgloss.JoinHorizontal(lipgloss.Top, people, activity)

	entries := m.presenter.Events().Entries()
	if len(entries) > overviewRecentEntries {
		entries = entries[:overviewRecentEntries]
	}
	recent := LabelStyle.Render("Recent events") + "\n" + renderEventLines(entries)

	return lipgloss.JoinVertical(lipgloss.Left, top, recent)
}

func (m Model) renderControlRoom() string {
	door := m.statusCard("Main door", RegionDoorValue, RegionDoorBadge)
	fence := m.statusCard("Perimeter fence", RegionFenceValue, RegionFenceBadge)
	cards := lipgloss.JoinHorizontal(lipgloss.Top, door, fence)

	btn := m.board.Region(RegionLockdownButton)
	button := ButtonStyle.
		Foreground(StyleColor(btn.Style)).
		BorderForeground(StyleColor(btn.Style)).
		Render(btn.Text)

	return lipgloss.JoinVertical(lipgloss.Left, cards, button, MutedStyle.Render("press l to toggle"))
}

func (m Model) statusCard(label string, value, badge RegionID) string {
	style := CardStyle
	if m.board.Style(value) == StyleDanger {
		style = AlertCardStyle
	}
	return style.Render(
		LabelStyle.Render(label) + "\n" +
			lipgloss.NewStyle().Foreground(StyleColor(m.board.Style(value))).Bold(true).Render(orDash(m.board.Text(value))) + "\n" +
			BadgeRender(orDash(m.board.Text(badge)), m.board.Style(badge)),
	)
}

func (m Model) renderPatrolGuard() string {
	temp := CardStyle.Render(
		LabelStyle.Render("Temperature") + "\n" + ValueStyle.Render(orDash(m.board.Text(RegionTemperature))),
	)
	hum := CardStyle.Render(
		LabelStyle.Render("Humidity") + "\n" + ValueStyle.Render(orDash(m.board.Text(RegionHumidity))),
	)
	readings := lipgloss.JoinHorizontal(lipgloss.Top, temp, hum)

	graphHeight := 3
	if m.height > 40 {
		graphHeight = 5
	}
	return lipgloss.JoinVertical(lipgloss.Left, readings, m.env.Render(m.chartWidth(), graphHeight))
}

func (m Model) renderEventLog() string {
	if !m.viewportReady {
		return renderEventLines(m.presenter.Events().Entries())
	}
	return m.logViewport.View()
}

// renderFooter renders the key hints.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.View(m.keys))
}

// renderEventLines renders log entries, newest first.
func renderEventLines(entries []LogEntry) string {
	if len(entries) == 0 {
		return MutedStyle.Render("no events yet")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		msg := lipgloss.NewStyle().Foreground(SeverityColor(e.Severity)).Render(e.Message)
		lines = append(lines, MutedStyle.Render(e.Timestamp)+"  "+msg)
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
