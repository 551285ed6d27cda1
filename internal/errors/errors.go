// Package errors carries perimeter's user-facing failures. Each one names the
// subsystem that failed so callers can branch on it with IsCode, and renders
// as a short report the CLI prints verbatim.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Subsystem codes.
const (
	// ErrConfig covers .perimeter.yaml loading, flag overrides and validation.
	ErrConfig = "CONFIG"
	// ErrFetch covers GET /api/status: transport, HTTP status and payload decoding.
	ErrFetch = "FETCH"
	// ErrCommand covers lockdown commands sent to a commander.
	ErrCommand = "COMMAND"
	// ErrServe covers the demo backend started by `perimeter serve`.
	ErrServe = "SERVE"
	// ErrForward covers event forwarding to MQTT, Kafka and file sinks.
	ErrForward = "FORWARD"
)

// Error is a failure the operator should read. Message says what broke,
// Cause holds the underlying error and Suggestion is the next thing to try.
// The rendered form is:
//
//	✗ Status endpoint http://site:5000/api/status is unreachable
//
//	  dial tcp 10.0.0.5:5000: connect: connection refused
//
//	  Check that the backend is running and the endpoint in .perimeter.yaml
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New returns an Error with no underlying cause.
func New(code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// Wrap attaches message to err under ErrFetch. Talking to the status
// endpoint is where most wrapped errors originate; use WrapWithCode elsewhere.
func Wrap(err error, message string) *Error {
	return &Error{Code: ErrFetch, Message: message, Cause: err}
}

// WrapWithCode attaches message and suggestion to err under code.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %s\n", e.Message)
	for _, detail := range []string{e.causeText(), e.Suggestion} {
		if detail != "" {
			fmt.Fprintf(&b, "\n  %s\n", detail)
		}
	}
	return b.String()
}

func (e *Error) causeText() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// Unwrap exposes Cause to errors.Is and errors.As, so a cancelled fetch still
// matches context.Canceled.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err, or anything it wraps, is an *Error with code.
func IsCode(err error, code string) bool {
	var pErr *Error
	return errors.As(err, &pErr) && pErr.Code == code
}
