package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/status"
)

func init() {
	// Plain output keeps string assertions independent of the terminal.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTestModel(t *testing.T, fetcher status.Fetcher, commander Commander, views ...View) Model {
	t.Helper()
	board := NewBoard(views...)
	p := NewPresenter(board, PresenterOptions{
		Commander: commander,
		Now:       func() time.Time { return fixedNow },
	})
	m := NewModel(context.Background(), ModelOptions{
		Presenter: p,
		Board:     board,
		Poller:    NewPoller(fetcher, nil, time.Second),
		Endpoint:  "http://facility.test/api/status",
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_InitialState(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, nil)
	board := m.board

	assert.Equal(t, "OVERVIEW", board.Text(RegionPageTitle))
	assert.NotEmpty(t, board.Text(RegionClock))
	assert.NotNil(t, m.Init())
}

func TestModel_SnapshotMsgApplies(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, nil)

	updated, _ := m.Update(snapshotMsg{snap: snapshot(3, 1, 0, status.Float(21.5), status.Float(40.2)), time: time.Now()})
	m = updated.(Model)

	assert.Equal(t, "OPENED", m.board.Text(RegionDoorValue))
	assert.Equal(t, "3", m.board.Text(RegionPeopleCount))
	assert.False(t, m.lastUpdate.IsZero())
	assert.Equal(t, 1, m.overview.redraws)
	assert.Equal(t, 1, m.env.redraws)
}

func TestModel_SnapshotMsgErrors(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, nil)

	updated, _ := m.Update(snapshotMsg{err: perrors.New(perrors.ErrFetch, "Status endpoint is unreachable", "")})
	m = updated.(Model)
	assert.Equal(t, "Status endpoint is unreachable", m.lastError)

	updated, _ = m.Update(snapshotMsg{err: ErrPollInFlight})
	m = updated.(Model)
	assert.Equal(t, "Status endpoint is unreachable", m.lastError, "skipped cycles don't touch the error")

	updated, _ = m.Update(snapshotMsg{snap: snapshot(0, 0, 0, nil, nil), time: time.Now()})
	m = updated.(Model)
	assert.Empty(t, m.lastError)
}

func TestModel_RefreshCmdPolls(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{snap: snapshot(4, 0, 0, nil, nil)}}}
	m := newTestModel(t, f, nil)

	msg := m.refreshCmd()()
	sm, ok := msg.(snapshotMsg)
	require.True(t, ok)
	require.NoError(t, sm.err)
	assert.Equal(t, 4, sm.snap.ControlRoom.PeopleCount)
}

func TestModel_ClockTick(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, nil)

	updated, cmd := m.Update(clockTickMsg(fixedNow))
	m = updated.(Model)

	assert.Equal(t, "2024-03-09 14:07:31", m.board.Text(RegionClock))
	assert.NotNil(t, cmd)
}

func TestModel_ViewKeys(t *testing.T) {
	tests := []struct {
		key   string
		title string
	}{
		{"2", "CONTROL ROOM"},
		{"3", "PATROL GUARD"},
		{"4", "EVENT LOG"},
		{"1", "OVERVIEW"},
	}

	m := newTestModel(t, &fakeFetcher{}, nil)
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			updated, _ := m.Update(keyMsg(tt.key))
			m = updated.(Model)
			assert.Equal(t, tt.title, m.board.Text(RegionPageTitle))
		})
	}
}

func TestModel_ViewKeyForDisabledView(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, nil, ViewOverview, ViewEventLog)

	updated, _ := m.Update(keyMsg("2"))
	m = updated.(Model)
	assert.Equal(t, ViewOverview, m.board.Active())

	updated, _ = m.Update(keyMsg("tab"))
	m = updated.(Model)
	assert.Equal(t, ViewEventLog, m.board.Active())
}

func TestModel_LockdownKey(t *testing.T) {
	var got LockdownState = -1
	cmdr := CommanderFunc(func(_ context.Context, s LockdownState) error {
		got = s
		return errors.New("no ack")
	})
	m := newTestModel(t, &fakeFetcher{}, cmdr)

	updated, cmd := m.Update(keyMsg("l"))
	m = updated.(Model)
	require.NotNil(t, cmd)

	assert.Equal(t, LabelReleaseLockdown, m.board.Text(RegionLockdownButton))
	assert.Equal(t, 1, m.presenter.Events().Len())

	// the command runs the commander; its answer comes back as a message
	msg := cmd()
	assert.Equal(t, LockdownLocked, got)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, 2, m.presenter.Events().Len())
	assert.Equal(t, LockdownLocked, m.presenter.Lockdown())
}

func TestModel_LockdownKeyWithoutControlRoom(t *testing.T) {
	calls := 0
	cmdr := CommanderFunc(func(context.Context, LockdownState) error {
		calls++
		return nil
	})
	m := newTestModel(t, &fakeFetcher{}, cmdr, ViewOverview, ViewEventLog)
	require.Nil(t, m.board.Region(RegionLockdownButton))

	updated, cmd := m.Update(keyMsg("l"))
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, 0, calls)
	assert.Equal(t, LockdownArmed, m.presenter.Lockdown())
	assert.Equal(t, 0, m.presenter.Events().Len())
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, nil)

	updated, _ := m.Update(keyMsg("?"))
	m = updated.(Model)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	assert.False(t, m.showHelp)
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := newTestModel(t, &fakeFetcher{}, nil)
			updated, cmd := m.Update(keyMsg(k))
			m = updated.(Model)
			assert.True(t, m.quitting)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_RefreshTickSkippedWhileInFlight(t *testing.T) {
	f := &fakeFetcher{
		results: []fetchResult{{snap: snapshot(0, 0, 0, nil, nil)}},
		block:   make(chan struct{}),
	}
	m := newTestModel(t, f, nil)
	m.pollInterval = 10 * time.Millisecond

	go func() { _, _ = m.poller.Poll(context.Background()) }()
	require.Eventually(t, m.poller.InFlight, time.Second, 5*time.Millisecond)

	_, cmd := m.Update(refreshTickMsg(time.Now()))
	require.NotNil(t, cmd)
	// only the next tick is scheduled; a batch would mean a second fetch
	_, isTick := cmd().(refreshTickMsg)
	assert.True(t, isTick)

	close(f.block)
}

func TestModel_ViewRendersActivePanel(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, nil)
	updated, _ := m.Update(snapshotMsg{snap: snapshot(3, 1, 1, status.Float(21.5), status.Float(40.2)), time: time.Now()})
	m = updated.(Model)

	overview := m.View()
	assert.Contains(t, overview, "perimeter")
	assert.Contains(t, overview, "People on site")
	assert.Contains(t, overview, MessageBreach)

	updated, _ = m.Update(keyMsg("2"))
	m = updated.(Model)
	control := m.View()
	assert.Contains(t, control, "OPENED")
	assert.Contains(t, control, "BREACH")
	assert.Contains(t, control, LabelInitiateLockdown)

	updated, _ = m.Update(keyMsg("3"))
	m = updated.(Model)
	patrol := m.View()
	assert.Contains(t, patrol, "21.5°C")
	assert.Contains(t, patrol, "Humidity (%)")

	updated, _ = m.Update(keyMsg("4"))
	m = updated.(Model)
	assert.Contains(t, m.View(), MessageBreach)
}
