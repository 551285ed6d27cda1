package status

import "time"

// Lockdown states as they travel on the wire.
const (
	LockdownArmed  = "armed"
	LockdownLocked = "locked"
)

// LockdownCommand is the body of POST /api/lockdown and of MQTT lockdown messages.
type LockdownCommand struct {
	State       string    `json:"state"`
	RequestedAt time.Time `json:"requested_at"`
}

// Valid reports whether the command names a known state.
func (c LockdownCommand) Valid() bool {
	return c.State == LockdownArmed || c.State == LockdownLocked
}
