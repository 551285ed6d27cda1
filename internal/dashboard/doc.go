// Package dashboard turns status snapshots into a live security dashboard.
//
// The dashboard shows occupancy, door and fence state, and environment
// readings for a facility, keeps a short event log, and lets the operator
// toggle a facility lockdown.
//
// # Architecture
//
// Display state lives on a Surface: a set of named regions (RegionID), each
// with text and a badge style. Board is the concrete Surface; it only mounts
// the regions of the views that are enabled, and the Presenter skips writes
// to regions that aren't mounted.
//
//	Presenter  - maps snapshots and operator actions onto the Surface
//	RollingBuffer - last N chart samples, oldest first
//	EventLog   - last N log entries, newest first
//	Poller     - runs fetch cycles, one at a time
//	Chart      - ChartSink that renders braille graphs
//	Model      - the Bubble Tea program around all of the above
//
// # Message Flow
//
// The TUI runs two tickers:
//
//  1. refreshTickMsg fires every poll interval (default 5s). If no fetch is
//     in flight, refreshCmd runs Poller.Poll off the UI goroutine.
//  2. snapshotMsg comes back and Update applies it through the Presenter,
//     which rewrites regions, logs breaches and redraws the charts.
//  3. clockTickMsg fires every second and rewrites the clock region.
//
// A refresh also fires once on startup, before the first tick.
//
// # Headless Mode
//
// Poller.Run drives the same Presenter without a terminal UI. Fetches run
// concurrently but apply callbacks are serialized on the Run goroutine, and
// PlainWriter prints the event log and a status line as plain text.
//
// # Lockdown
//
// Toggling flips local state first and updates the control and log. The new
// state is then handed to a Commander (HTTP, MQTT, or none). A failed
// delivery is logged but the local state is kept.
package dashboard
