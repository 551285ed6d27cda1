package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	perrors "github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/status"
)

// Default refresh cadences.
const (
	DefaultPollInterval  = 5 * time.Second
	DefaultClockInterval = time.Second
)

// Model is the Bubble Tea model for the security dashboard.
type Model struct {
	ctx       context.Context
	presenter *Presenter
	board     *Board
	poller    *Poller
	overview  *Chart
	env       *Chart
	endpoint  string

	pollInterval  time.Duration
	clockInterval time.Duration

	keys          keyMap
	help          help.Model
	logViewport   viewport.Model
	viewportReady bool

	width      int
	height     int
	lastUpdate time.Time
	lastError  string
	showHelp   bool
	quitting   bool
}

// ModelOptions wires a Model to its collaborators.
type ModelOptions struct {
	Presenter     *Presenter
	Board         *Board
	Poller        *Poller
	Endpoint      string
	PollInterval  time.Duration
	ClockInterval time.Duration
}

// refreshTickMsg signals a scheduled status refresh.
type refreshTickMsg time.Time

// clockTickMsg signals a clock update.
type clockTickMsg time.Time

// snapshotMsg carries the result of one fetch cycle.
type snapshotMsg struct {
	snap *status.Snapshot
	err  error
	time time.Time
}

// lockdownResultMsg carries the commander's answer for a toggle.
type lockdownResultMsg struct {
	state LockdownState
	err   error
}

// NewModel creates the dashboard model. It registers its charts with the
// presenter, activates the first enabled view and sets the clock.
func NewModel(ctx context.Context, opts ModelOptions) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.ClockInterval <= 0 {
		opts.ClockInterval = DefaultClockInterval
	}

	m := Model{
		ctx:           ctx,
		presenter:     opts.Presenter,
		board:         opts.Board,
		poller:        opts.Poller,
		overview:      NewOverviewChart(),
		env:           NewEnvironmentChart(),
		endpoint:      opts.Endpoint,
		pollInterval:  opts.PollInterval,
		clockInterval: opts.ClockInterval,
		keys:          defaultKeyMap(),
		help:          help.New(),
	}
	m.presenter.AddChart(m.overview)
	m.presenter.AddChart(m.env)
	m.presenter.SwitchView(m.board.Active())
	m.presenter.Tick(time.Now())
	return m
}

// Init fires the first refresh immediately and starts both tickers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		m.refreshTickCmd(),
		m.clockTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		_, cmd = m.HandleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// header, tabs, title and footer
		chrome := 7
		vpHeight := m.height - chrome
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.viewportReady {
			m.logViewport = viewport.New(m.width, vpHeight)
			m.viewportReady = true
		} else {
			m.logViewport.Width = m.width
			m.logViewport.Height = vpHeight
		}

	case refreshTickMsg:
		if m.poller.InFlight() {
			cmd = m.refreshTickCmd()
			break
		}
		cmd = tea.Batch(m.refreshTickCmd(), m.refreshCmd())

	case clockTickMsg:
		m.presenter.Tick(time.Time(msg))
		cmd = m.clockTickCmd()

	case snapshotMsg:
		switch {
		case errors.Is(msg.err, ErrPollInFlight):
		case msg.err != nil:
			m.lastError = errorSummary(msg.err)
		case msg.snap != nil:
			m.presenter.ApplySnapshot(msg.snap)
			m.lastUpdate = msg.time
			m.lastError = ""
		}

	case lockdownResultMsg:
		m.presenter.ReportLockdownResult(msg.state, msg.err)
	}

	m.syncEventLog()
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Presenter exposes the presenter driving this model.
func (m Model) Presenter() *Presenter {
	return m.presenter
}

func (m Model) refreshTickCmd() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m Model) clockTickCmd() tea.Cmd {
	return tea.Tick(m.clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// refreshCmd runs one fetch cycle off the UI goroutine.
func (m Model) refreshCmd() tea.Cmd {
	poller := m.poller
	ctx := m.ctx
	return func() tea.Msg {
		snap, err := poller.Poll(ctx)
		return snapshotMsg{snap: snap, err: err, time: time.Now()}
	}
}

// lockdownCmd delivers state to the commander off the UI goroutine.
func (m Model) lockdownCmd(state LockdownState) tea.Cmd {
	commander := m.presenter.Commander()
	ctx := m.ctx
	return func() tea.Msg {
		return lockdownResultMsg{state: state, err: commander.Command(ctx, state)}
	}
}

// switchView activates v if it is enabled.
func (m *Model) switchView(v View) {
	if m.presenter.SwitchView(v) {
		m.logViewport.GotoTop()
	}
}

// syncEventLog refreshes the scrollable event log content.
func (m *Model) syncEventLog() {
	if !m.viewportReady {
		return
	}
	m.logViewport.SetContent(renderEventLines(m.presenter.Events().Entries()))
}

// errorSummary returns the first line of an error for the header.
func errorSummary(err error) string {
	var e *perrors.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
