package dashboard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rileyhilliard/perimeter/internal/logger"
	"github.com/rileyhilliard/perimeter/internal/status"
)

// Event log messages.
const (
	MessageBreach            = "PERIMETER BREACH DETECTED!"
	MessageLockdownInitiated = "FACILITY LOCKDOWN INITIATED"
	MessageLockdownReleased  = "FACILITY LOCKDOWN RELEASED"
)

// Display texts for the door and fence regions.
const (
	DoorOpened   = "OPENED"
	DoorLocked   = "LOCKED"
	BadgeUnsafe  = "Unsecured"
	BadgeSecure  = "Secure"
	FenceBreach  = "BREACH"
	FenceClear   = "CLEAR"
	BadgeBreach  = "Intrusion Detected"
	BadgeNoAlarm = "No Activity"
)

// Time layouts used on the display.
const (
	ChartLabelLayout = "15:04"
	LogTimeLayout    = "15:04:05"
	ClockLayout      = "2006-01-02 15:04:05"
)

// FenceLogMode controls when a fence breach is written to the event log.
type FenceLogMode int

const (
	// FenceLogEveryPoll logs a breach on every snapshot that reports one.
	FenceLogEveryPoll FenceLogMode = iota
	// FenceLogOnEdge logs a breach only when the alert goes from clear to set.
	FenceLogOnEdge
)

// ParseFenceLogMode maps a config value to a FenceLogMode.
// Unknown values fall back to FenceLogEveryPoll.
func ParseFenceLogMode(s string) FenceLogMode {
	if s == "edge" {
		return FenceLogOnEdge
	}
	return FenceLogEveryPoll
}

// ChartSink receives the full chart series after every applied snapshot.
type ChartSink interface {
	Redraw(s Series)
}

// PresenterOptions configures a Presenter. Zero values pick defaults.
type PresenterOptions struct {
	HistorySize int
	LogSize     int
	FenceLog    FenceLogMode
	Commander   Commander
	Logger      logger.Logger
	Charts      []ChartSink
	Now         func() time.Time
}

// Presenter maps status snapshots and operator actions onto a Surface.
// It owns the chart buffer, the event log, and the lockdown state.
// A Presenter is not safe for concurrent use; drive it from one goroutine.
type Presenter struct {
	surface   Surface
	buffer    *RollingBuffer
	events    *EventLog
	charts    []ChartSink
	commander Commander
	log       logger.Logger
	now       func() time.Time
	fenceMode FenceLogMode

	lockdown  LockdownState
	lastFence bool
}

// NewPresenter creates a presenter writing to surface and sets the lockdown
// control to its armed label.
func NewPresenter(surface Surface, opts PresenterOptions) *Presenter {
	p := &Presenter{
		surface:   surface,
		buffer:    NewRollingBuffer(opts.HistorySize),
		events:    NewEventLog(opts.LogSize),
		charts:    opts.Charts,
		commander: opts.Commander,
		log:       opts.Logger,
		now:       opts.Now,
		fenceMode: opts.FenceLog,
	}
	if p.commander == nil {
		p.commander = NoopCommander{}
	}
	if p.log == nil {
		p.log = logger.Noop()
	}
	if p.now == nil {
		p.now = time.Now
	}

	p.set(RegionLockdownButton, p.lockdown.ButtonLabel(), p.lockdown.ButtonStyle())
	return p
}

// ApplySnapshot renders a snapshot onto the surface, logs a breach if one is
// reported, and pushes a chart sample. Nil and non-success snapshots leave
// everything untouched; it reports whether the snapshot was applied.
func (p *Presenter) ApplySnapshot(snap *status.Snapshot) bool {
	if !snap.Success() {
		if snap == nil {
			p.log.Debug("no snapshot to apply")
		} else {
			p.log.Debug("ignoring snapshot with status %q: %s", snap.Status, snap.Message)
		}
		return false
	}

	cr := snap.ControlRoom
	p.set(RegionPeopleCount, strconv.Itoa(cr.PeopleCount), StyleNone)

	if cr.DoorIsOpen() {
		p.set(RegionDoorValue, DoorOpened, StyleDanger)
		p.set(RegionDoorBadge, BadgeUnsafe, StyleDanger)
	} else {
		p.set(RegionDoorValue, DoorLocked, StyleSuccess)
		p.set(RegionDoorBadge, BadgeSecure, StyleSuccess)
	}

	breached := cr.FenceBreached()
	if breached {
		p.set(RegionFenceValue, FenceBreach, StyleDanger)
		p.set(RegionFenceBadge, BadgeBreach, StyleDanger)
		if p.fenceMode == FenceLogEveryPoll || !p.lastFence {
			p.AppendLog(MessageBreach, SeverityDanger)
		}
	} else {
		p.set(RegionFenceValue, FenceClear, StyleSuccess)
		p.set(RegionFenceBadge, BadgeNoAlarm, StyleSuccess)
	}
	p.lastFence = breached

	temp := reading(snap.Sensors.Temperature)
	hum := reading(snap.Sensors.Humidity)
	p.set(RegionTemperature, FormatTemperature(temp), StyleNone)
	p.set(RegionHumidity, FormatHumidity(hum), StyleNone)

	now := p.now()
	p.buffer.Push(Sample{
		Label:       now.Format(ChartLabelLayout),
		Time:        now,
		Temperature: temp,
		Humidity:    hum,
	})

	series := p.buffer.Series()
	for _, c := range p.charts {
		c.Redraw(series)
	}
	return true
}

// ToggleLockdown flips the lockdown state, updates the control and the log,
// then hands the new state to the commander and blocks until it answers.
func (p *Presenter) ToggleLockdown(ctx context.Context) LockdownState {
	state := p.FlipLockdown()
	p.ReportLockdownResult(state, p.commander.Command(ctx, state))
	return state
}

// FlipLockdown performs the local half of a toggle without contacting the
// commander. Callers that send the command themselves report back through
// ReportLockdownResult.
func (p *Presenter) FlipLockdown() LockdownState {
	p.lockdown = p.lockdown.Toggle()
	p.set(RegionLockdownButton, p.lockdown.ButtonLabel(), p.lockdown.ButtonStyle())

	if p.lockdown == LockdownLocked {
		p.AppendLog(MessageLockdownInitiated, SeverityDanger)
	} else {
		p.AppendLog(MessageLockdownReleased, SeveritySuccess)
	}
	return p.lockdown
}

// ReportLockdownResult records the commander's answer for state. A failure is
// logged and noted in the event log; the local state isn't rolled back.
func (p *Presenter) ReportLockdownResult(state LockdownState, err error) {
	if err == nil {
		p.log.Debug("lockdown %s delivered", state)
		return
	}
	p.log.Warn("lockdown %s not delivered: %v", state, err)
	p.AppendLog(fmt.Sprintf("LOCKDOWN %s NOT CONFIRMED", strings.ToUpper(state.String())), SeverityInfo)
}

// AppendLog adds an entry to the top of the event log.
func (p *Presenter) AppendLog(message string, severity Severity) LogEntry {
	now := p.now()
	entry := LogEntry{
		ID:        uuid.NewString(),
		Timestamp: now.Format(LogTimeLayout),
		Time:      now,
		Message:   message,
		Severity:  severity,
	}
	p.events.Append(entry)
	return entry
}

// SwitchView activates v and updates the page title. It returns false when v
// isn't enabled on the surface.
func (p *Presenter) SwitchView(v View) bool {
	if !p.surface.Activate(v) {
		p.log.Debug("view %s is not enabled", v)
		return false
	}
	p.set(RegionPageTitle, v.Title(), StyleNone)
	return true
}

// Tick writes now to the clock region.
func (p *Presenter) Tick(now time.Time) {
	p.set(RegionClock, now.Format(ClockLayout), StyleNone)
}

// AddChart registers another chart sink.
func (p *Presenter) AddChart(c ChartSink) {
	p.charts = append(p.charts, c)
}

// Commander returns the lockdown commander.
func (p *Presenter) Commander() Commander {
	return p.commander
}

// Buffer returns the chart buffer.
func (p *Presenter) Buffer() *RollingBuffer {
	return p.buffer
}

// Events returns the event log.
func (p *Presenter) Events() *EventLog {
	return p.events
}

// Lockdown returns the current lockdown state.
func (p *Presenter) Lockdown() LockdownState {
	return p.lockdown
}

// Surface returns the display surface.
func (p *Presenter) Surface() Surface {
	return p.surface
}

// set writes a region if it is mounted.
func (p *Presenter) set(id RegionID, text string, style BadgeStyle) {
	r := p.surface.Region(id)
	if r == nil {
		return
	}
	r.Text = text
	r.Style = style
}

// FormatTemperature renders a temperature reading for display.
func FormatTemperature(v float64) string {
	return fmt.Sprintf("%.1f°C", v)
}

// FormatHumidity renders a humidity reading for display.
func FormatHumidity(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// reading treats missing and NaN readings as 0.
func reading(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}
