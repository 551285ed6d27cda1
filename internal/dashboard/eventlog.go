package dashboard

import (
	"fmt"
	"sync"
	"time"
)

// DefaultLogSize is the number of entries kept in the event log.
const DefaultLogSize = 10

// Severity classifies an event log entry.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityDanger
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityDanger:
		return "danger"
	default:
		return "info"
	}
}

// MarshalText lets entries serialize severities by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "success":
		*s = SeveritySuccess
	case "danger":
		*s = SeverityDanger
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

// LogEntry is one line in the event log.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"`
	Time      time.Time `json:"time"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

// LogObserver is notified after an entry is appended.
type LogObserver func(LogEntry)

// EventLog keeps the most recent entries, newest first.
// When it grows past its capacity the last entry by position is dropped.
type EventLog struct {
	mu        sync.RWMutex
	entries   []LogEntry
	size      int
	observers []LogObserver
}

// NewEventLog creates an event log with the given capacity.
func NewEventLog(size int) *EventLog {
	if size <= 0 {
		size = DefaultLogSize
	}
	return &EventLog{
		entries: make([]LogEntry, 0, size+1),
		size:    size,
	}
}

// Append prepends e and trims the list back to capacity.
func (l *EventLog) Append(e LogEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, LogEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = e
	if len(l.entries) > l.size {
		l.entries = l.entries[:len(l.entries)-1]
	}
	observers := l.observers
	l.mu.Unlock()

	for _, fn := range observers {
		fn(e)
	}
}

// Entries returns a copy of the log, newest first.
func (l *EventLog) Entries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Cap returns the log capacity.
func (l *EventLog) Cap() int {
	return l.size
}

// Observe registers fn to be called after every append.
func (l *EventLog) Observe(fn LogObserver) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}
