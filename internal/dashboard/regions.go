package dashboard

import "strings"

// RegionID is the stable identifier of a display region.
type RegionID string

// Display regions written by the presenter.
const (
	RegionPeopleCount    RegionID = "val-people-count-ov"
	RegionDoorValue      RegionID = "val-door-status"
	RegionDoorBadge      RegionID = "badge-door-status"
	RegionFenceValue     RegionID = "val-fence-status"
	RegionFenceBadge     RegionID = "badge-fence-status"
	RegionTemperature    RegionID = "val-temp"
	RegionHumidity       RegionID = "val-hum"
	RegionClock          RegionID = "current-time"
	RegionLockdownButton RegionID = "btn-lockdown"
	RegionPageTitle      RegionID = "page-title"
)

// BadgeStyle is the visual treatment of a region.
type BadgeStyle int

const (
	StyleNone BadgeStyle = iota
	StyleSuccess
	StyleDanger
	StyleInfo
)

// String returns the style name.
func (s BadgeStyle) String() string {
	switch s {
	case StyleSuccess:
		return "success"
	case StyleDanger:
		return "danger"
	case StyleInfo:
		return "info"
	default:
		return "none"
	}
}

// Region is one addressable piece of the display.
type Region struct {
	ID    RegionID
	Text  string
	Style BadgeStyle
}

// Surface is the display target the presenter writes to.
// Region returns nil for regions that aren't mounted; callers skip those.
type Surface interface {
	Region(id RegionID) *Region
	Activate(v View) bool
}

// View is one navigable panel of the dashboard.
type View int

const (
	ViewOverview View = iota
	ViewControlRoom
	ViewPatrolGuard
	ViewEventLog
)

// AllViews lists every view in navigation order.
var AllViews = []View{ViewOverview, ViewControlRoom, ViewPatrolGuard, ViewEventLog}

// String returns the view's config name.
func (v View) String() string {
	switch v {
	case ViewOverview:
		return "overview"
	case ViewControlRoom:
		return "control_room"
	case ViewPatrolGuard:
		return "patrol_guard"
	case ViewEventLog:
		return "event_log"
	default:
		return "unknown"
	}
}

// Title is the page heading shown when the view is active.
func (v View) Title() string {
	return strings.ToUpper(strings.ReplaceAll(v.String(), "_", " "))
}

// ParseView maps a config name to a View.
func ParseView(name string) (View, bool) {
	for _, v := range AllViews {
		if v.String() == name {
			return v, true
		}
	}
	return 0, false
}

// ParseViews maps config names to Views, skipping unknown names and duplicates.
func ParseViews(names []string) []View {
	seen := make(map[View]bool)
	var views []View
	for _, name := range names {
		v, ok := ParseView(name)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		views = append(views, v)
	}
	return views
}

// viewRegions lists the regions each view mounts.
var viewRegions = map[View][]RegionID{
	ViewOverview:    {RegionPeopleCount},
	ViewControlRoom: {RegionDoorValue, RegionDoorBadge, RegionFenceValue, RegionFenceBadge, RegionLockdownButton},
	ViewPatrolGuard: {RegionTemperature, RegionHumidity},
	ViewEventLog:    {},
}

// chromeRegions are mounted regardless of which views are enabled.
var chromeRegions = []RegionID{RegionClock, RegionPageTitle}

// Board is the concrete Surface backing the TUI and the plain-text outputs.
// Only regions belonging to enabled views exist on the board.
type Board struct {
	regions map[RegionID]*Region
	views   []View
	active  View
}

// NewBoard mounts the regions for the given views. With no views it mounts all of them.
func NewBoard(views ...View) *Board {
	if len(views) == 0 {
		views = AllViews
	}

	b := &Board{
		regions: make(map[RegionID]*Region),
		views:   append([]View(nil), views...),
		active:  views[0],
	}
	for _, id := range chromeRegions {
		b.regions[id] = &Region{ID: id}
	}
	for _, v := range views {
		for _, id := range viewRegions[v] {
			b.regions[id] = &Region{ID: id}
		}
	}
	return b
}

// Region implements Surface.
func (b *Board) Region(id RegionID) *Region {
	return b.regions[id]
}

// Activate implements Surface. Views that aren't enabled can't be activated.
func (b *Board) Activate(v View) bool {
	if !b.Has(v) {
		return false
	}
	b.active = v
	return true
}

// Active returns the currently displayed view.
func (b *Board) Active() View {
	return b.active
}

// Views returns the enabled views in navigation order.
func (b *Board) Views() []View {
	return b.views
}

// Has reports whether v is enabled on this board.
func (b *Board) Has(v View) bool {
	for _, enabled := range b.views {
		if enabled == v {
			return true
		}
	}
	return false
}

// Text returns a region's text, or "" if the region isn't mounted.
func (b *Board) Text(id RegionID) string {
	if r := b.regions[id]; r != nil {
		return r.Text
	}
	return ""
}

// Style returns a region's style, or StyleNone if the region isn't mounted.
func (b *Board) Style(id RegionID) BadgeStyle {
	if r := b.regions[id]; r != nil {
		return r.Style
	}
	return StyleNone
}

// Next returns the enabled view after the active one, wrapping around.
func (b *Board) Next() View {
	for i, v := range b.views {
		if v == b.active {
			return b.views[(i+1)%len(b.views)]
		}
	}
	return b.views[0]
}
