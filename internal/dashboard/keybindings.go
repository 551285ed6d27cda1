package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap holds the dashboard key bindings.
type keyMap struct {
	Overview    key.Binding
	ControlRoom key.Binding
	PatrolGuard key.Binding
	EventLog    key.Binding
	NextView    key.Binding
	Lockdown    key.Binding
	Refresh     key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
	Close       key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Overview:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
		ControlRoom: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "control room")),
		PatrolGuard: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "patrol guard")),
		EventLog:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "event log")),
		NextView:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Lockdown:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle lockdown")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		ScrollUp:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		ScrollDown:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.Lockdown, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Overview, k.ControlRoom, k.PatrolGuard, k.EventLog, k.NextView},
		{k.Lockdown, k.Refresh, k.ScrollUp, k.ScrollDown},
		{k.Help, k.Close, k.Quit},
	}
}

// viewKeys maps the numeric bindings to their views.
func (k keyMap) viewFor(msg tea.KeyMsg) (View, bool) {
	switch {
	case key.Matches(msg, k.Overview):
		return ViewOverview, true
	case key.Matches(msg, k.ControlRoom):
		return ViewControlRoom, true
	case key.Matches(msg, k.PatrolGuard):
		return ViewPatrolGuard, true
	case key.Matches(msg, k.EventLog):
		return ViewEventLog, true
	}
	return 0, false
}

// HandleKeyMsg processes keyboard input. It returns true if the key was handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key.Matches(msg, m.keys.Close) {
		m.showHelp = false
		return true, nil
	}

	if v, ok := m.keys.viewFor(msg); ok {
		m.switchView(v)
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.NextView):
		m.switchView(m.board.Next())
		return true, nil

	case key.Matches(msg, m.keys.Lockdown):
		// The control only exists on the control room view.
		if m.board.Region(RegionLockdownButton) == nil {
			m.presenter.log.Debug("lockdown key ignored, control room view is not enabled")
			return true, nil
		}
		state := m.presenter.FlipLockdown()
		m.syncEventLog()
		return true, m.lockdownCmd(state)

	case key.Matches(msg, m.keys.Refresh):
		return true, m.refreshCmd()

	case key.Matches(msg, m.keys.ScrollUp):
		m.logViewport.LineUp(1)
		return true, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.logViewport.LineDown(1)
		return true, nil
	}

	return false, nil
}
