package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func stateOf(s *Spinner) SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func TestSpinner_States(t *testing.T) {
	tests := []struct {
		name   string
		finish func(*Spinner)
		state  SpinnerState
		symbol string
	}{
		{"success", (*Spinner).Success, SpinnerSuccess, SymbolComplete},
		{"fail", (*Spinner).Fail, SpinnerFailed, SymbolFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &syncBuffer{}
			s := NewSpinner(out, "Checking endpoint")
			assert.Equal(t, SpinnerPending, stateOf(s))

			s.Start()
			assert.Equal(t, SpinnerInProgress, stateOf(s))
			time.Sleep(2 * spinnerTick)
			tt.finish(s)

			assert.Equal(t, tt.state, stateOf(s))
			got := out.String()
			assert.Contains(t, got, "Checking endpoint...")
			assert.True(t, strings.HasSuffix(got, "s\n"), "final line ends with timing: %q", got)
			assert.Contains(t, got, tt.symbol+" Checking endpoint")
		})
	}
}

func TestSpinner_StopIdempotent(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "x")
	s.Stop()
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
	assert.Equal(t, SpinnerInProgress, stateOf(s))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.00s"},
		{40 * time.Millisecond, "0.04s"},
		{300 * time.Millisecond, "0.3s"},
		{1250 * time.Millisecond, "1.2s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestRenderKeyValue(t *testing.T) {
	assert.Empty(t, RenderKeyValue(nil))

	out := RenderKeyValue([]Row{
		{Key: "Door", Value: "OPENED", Color: ColorError},
		{Key: "Temperature", Value: "21.5°C"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Door         OPENED", lines[0])
	assert.Equal(t, "Temperature  21.5°C", lines[1])
}
