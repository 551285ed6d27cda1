package dashboard

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoBounds(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		wantMin float64
		wantMax float64
	}{
		{"empty", nil, 0, 1},
		{"flat series pads by one", []float64{20, 20}, 19, 21},
		{"range pads by a tenth", []float64{10, 20}, 9, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := AutoBounds(tt.data)
			assert.InDelta(t, tt.wantMin, b.Min, 0.0001)
			assert.InDelta(t, tt.wantMax, b.Max, 0.0001)
		})
	}
}

func TestBounds_Normalize(t *testing.T) {
	b := Bounds{Min: 0, Max: 10}
	assert.Equal(t, 0.5, b.normalize(5))
	assert.Equal(t, 0.0, b.normalize(-5), "clamped low")
	assert.Equal(t, 1.0, b.normalize(50), "clamped high")
	assert.Equal(t, 0.5, Bounds{Min: 3, Max: 3}.normalize(3))
}

func TestRenderBrailleGraph(t *testing.T) {
	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, RenderBrailleGraph(nil, 10, 2, Bounds{0, 1}, ColorHumidity))
		assert.Empty(t, RenderBrailleGraph([]float64{1}, 0, 2, Bounds{0, 1}, ColorHumidity))
		assert.Empty(t, RenderBrailleGraph([]float64{1}, 10, 0, Bounds{0, 1}, ColorHumidity))
	})

	t.Run("dimensions", func(t *testing.T) {
		out := RenderBrailleGraph([]float64{1, 2, 3, 4}, 8, 3, Bounds{0, 4}, ColorHumidity)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			assert.Equal(t, 8, lipgloss.Width(line))
		}
	})

	t.Run("short series is right aligned", func(t *testing.T) {
		out := RenderBrailleGraph([]float64{4, 4}, 4, 1, Bounds{0, 4}, ColorHumidity)
		runes := []rune(out)
		require.Len(t, runes, 4)
		assert.Equal(t, brailleBase, runes[0])
		assert.NotEqual(t, brailleBase, runes[3])
	})

	t.Run("full value lights a full cell", func(t *testing.T) {
		out := RenderBrailleGraph([]float64{4, 4}, 1, 1, Bounds{0, 4}, ColorHumidity)
		assert.Equal(t, "⣿", out)
	})
}

func TestRenderMiniSparkline(t *testing.T) {
	assert.Empty(t, RenderMiniSparkline(nil, 5, ColorHumidity))

	out := RenderMiniSparkline([]float64{1, 2, 3, 4, 5}, 5, ColorHumidity)
	runes := []rune(out)
	require.Len(t, runes, 5)
	assert.Less(t, runes[0], runes[4], "rising data rises")

	assert.Equal(t, 3, lipgloss.Width(RenderMiniSparkline([]float64{1, 2, 3, 4, 5, 6}, 3, ColorHumidity)))
}

func TestResampleData(t *testing.T) {
	tests := []struct {
		name   string
		data   []float64
		target int
		want   []float64
	}{
		{"same size", []float64{1, 2}, 2, []float64{1, 2}},
		{"single value fills", []float64{7}, 3, []float64{7, 7, 7}},
		{"downsample keeps peaks", []float64{1, 9, 2, 3}, 2, []float64{9, 3}},
		{"upsample interpolates", []float64{0, 10}, 3, []float64{0, 5, 10}},
		{"empty", nil, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resampleData(tt.data, tt.target))
		})
	}
}

func TestChart(t *testing.T) {
	c := NewEnvironmentChart()
	assert.Contains(t, c.Render(40, 2), "waiting for data")

	c.Redraw(Series{
		Labels:      []string{"10:00", "10:05"},
		Temperature: []float64{21, 22.5},
		Humidity:    []float64{40, 41},
	})
	assert.Equal(t, 1, c.redraws)
	assert.Equal(t, 2, c.Series().Len())

	out := c.Render(40, 2)
	assert.Contains(t, out, "Temperature (°C)")
	assert.Contains(t, out, "22.5°C")
	assert.Contains(t, out, "41.0%")
	assert.Contains(t, out, "10:00")
	assert.Contains(t, out, "10:05")

	compact := c.RenderCompact(10)
	assert.Contains(t, compact, "Humidity (%)")
}

func TestOverviewChart(t *testing.T) {
	c := NewOverviewChart()
	assert.Equal(t, "System Activity", c.Title())

	c.Redraw(Series{Labels: []string{"09:00"}, Temperature: []float64{23}, Humidity: []float64{50}})
	out := c.Render(20, 1)
	assert.Contains(t, out, "23.0°C")
	assert.NotContains(t, out, "50.0%")
}
