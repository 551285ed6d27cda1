package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dataset is one line of a chart.
type Dataset struct {
	Label  string
	Color  lipgloss.Color
	Format func(float64) string
	Pick   func(Series) []float64
}

// Chart is a terminal ChartSink. Redraw caches the latest series and Render
// draws it on demand.
type Chart struct {
	title    string
	datasets []Dataset
	series   Series
	redraws  int
}

// NewChart creates a chart with the given datasets.
func NewChart(title string, datasets ...Dataset) *Chart {
	return &Chart{title: title, datasets: datasets}
}

// NewOverviewChart is the single-line activity chart on the overview.
func NewOverviewChart() *Chart {
	return NewChart("System Activity", Dataset{
		Label:  "System Activity",
		Color:  ColorHumidity,
		Format: FormatTemperature,
		Pick:   func(s Series) []float64 { return s.Temperature },
	})
}

// NewEnvironmentChart plots temperature and humidity together.
func NewEnvironmentChart() *Chart {
	return NewChart("Environment",
		Dataset{
			Label:  "Temperature (°C)",
			Color:  ColorTemperature,
			Format: FormatTemperature,
			Pick:   func(s Series) []float64 { return s.Temperature },
		},
		Dataset{
			Label:  "Humidity (%)",
			Color:  ColorHumidity,
			Format: FormatHumidity,
			Pick:   func(s Series) []float64 { return s.Humidity },
		},
	)
}

// Redraw implements ChartSink.
func (c *Chart) Redraw(s Series) {
	c.series = s
	c.redraws++
}

// Series returns the last series handed to Redraw.
func (c *Chart) Series() Series {
	return c.series
}

// Title returns the chart title.
func (c *Chart) Title() string {
	return c.title
}

// Render draws every dataset as a braille graph of the given size, each with
// a label line and an axis of first and last sample labels.
func (c *Chart) Render(width, graphHeight int) string {
	if c.series.Len() == 0 {
		return MutedStyle.Render("waiting for data...")
	}
	if width < 10 {
		width = 10
	}

	var blocks []string
	for _, ds := range c.datasets {
		data := ds.Pick(c.series)
		if len(data) == 0 {
			continue
		}
		latest := data[len(data)-1]

		label := lipgloss.NewStyle().Foreground(ds.Color).Bold(true).Render(ds.Label)
		value := ValueStyle.Render(ds.Format(latest))
		header := label + "  " + value

		graph := RenderBrailleGraph(data, width, graphHeight, AutoBounds(data), ds.Color)
		blocks = append(blocks, header+"\n"+graph)
	}
	blocks = append(blocks, c.axis(width))
	return strings.Join(blocks, "\n")
}

// RenderCompact draws every dataset as a one-line sparkline.
func (c *Chart) RenderCompact(width int) string {
	var lines []string
	for _, ds := range c.datasets {
		data := ds.Pick(c.series)
		spark := RenderMiniSparkline(data, width, ds.Color)
		if spark == "" {
			spark = MutedStyle.Render("-")
		}
		lines = append(lines, fmt.Sprintf("%s %s", LabelStyle.Render(ds.Label), spark))
	}
	return strings.Join(lines, "\n")
}

func (c *Chart) axis(width int) string {
	labels := c.series.Labels
	first, last := labels[0], labels[len(labels)-1]
	if len(labels) == 1 {
		return MutedStyle.Render(fmt.Sprintf("%*s", width, last))
	}
	gap := width - lipgloss.Width(first) - lipgloss.Width(last)
	if gap < 1 {
		gap = 1
	}
	return MutedStyle.Render(first + strings.Repeat(" ", gap) + last)
}
