package dashboard

import "context"

// LockdownState is the operator-facing lockdown toggle.
type LockdownState int

const (
	LockdownArmed LockdownState = iota
	LockdownLocked
)

// Button labels for the lockdown control.
const (
	LabelInitiateLockdown = "INITIATE LOCKDOWN"
	LabelReleaseLockdown  = "RELEASE LOCKDOWN"
)

// String returns "armed" or "locked".
func (s LockdownState) String() string {
	if s == LockdownLocked {
		return "locked"
	}
	return "armed"
}

// Toggle returns the opposite state.
func (s LockdownState) Toggle() LockdownState {
	if s == LockdownLocked {
		return LockdownArmed
	}
	return LockdownLocked
}

// ButtonLabel is the text the lockdown control shows in this state.
func (s LockdownState) ButtonLabel() string {
	if s == LockdownLocked {
		return LabelReleaseLockdown
	}
	return LabelInitiateLockdown
}

// ButtonStyle is the style the lockdown control shows in this state.
func (s LockdownState) ButtonStyle() BadgeStyle {
	if s == LockdownLocked {
		return StyleSuccess
	}
	return StyleDanger
}

// Commander delivers a lockdown state change to the facility.
type Commander interface {
	Command(ctx context.Context, state LockdownState) error
}

// CommanderFunc adapts a plain function to Commander.
type CommanderFunc func(ctx context.Context, state LockdownState) error

// Command implements Commander.
func (f CommanderFunc) Command(ctx context.Context, state LockdownState) error {
	return f(ctx, state)
}

// NoopCommander accepts every command without sending it anywhere.
type NoopCommander struct{}

// Command implements Commander.
func (NoopCommander) Command(context.Context, LockdownState) error {
	return nil
}
