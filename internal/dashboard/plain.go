package dashboard

import (
	"fmt"
	"io"
	"strings"
)

// plainFields orders the regions printed on a status line.
var plainFields = []struct {
	name string
	id   RegionID
}{
	{"people", RegionPeopleCount},
	{"door", RegionDoorValue},
	{"fence", RegionFenceValue},
	{"temp", RegionTemperature},
	{"humidity", RegionHumidity},
	{"lockdown", RegionLockdownButton},
}

// StatusLine renders the mounted value regions as key=value pairs.
func StatusLine(b *Board) string {
	var parts []string
	for _, f := range plainFields {
		r := b.Region(f.id)
		if r == nil || r.Text == "" {
			continue
		}
		text := r.Text
		if f.id == RegionLockdownButton {
			text = "armed"
			if r.Text == LabelReleaseLockdown {
				text = "locked"
			}
		}
		parts = append(parts, fmt.Sprintf("%s=%s", f.name, text))
	}
	return strings.Join(parts, " ")
}

// PlainWriter prints dashboard updates as text lines, for pipes and logs.
type PlainWriter struct {
	w     io.Writer
	board *Board
}

// NewPlainWriter creates a writer for board and prints every entry that
// events receives from now on.
func NewPlainWriter(w io.Writer, board *Board, events *EventLog) *PlainWriter {
	pw := &PlainWriter{w: w, board: board}
	events.Observe(pw.WriteEntry)
	return pw
}

// WriteEntry prints one event log entry.
func (pw *PlainWriter) WriteEntry(e LogEntry) {
	fmt.Fprintf(pw.w, "%s [%s] %s\n", e.Timestamp, strings.ToUpper(e.Severity.String()), e.Message)
}

// WriteStatus prints the current status line prefixed with the clock.
func (pw *PlainWriter) WriteStatus(label string) {
	fmt.Fprintf(pw.w, "%s %s\n", label, StatusLine(pw.board))
}
