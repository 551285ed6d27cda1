// Package ui holds the small pieces of styled CLI output shared by the
// one-shot commands: the color palette, status symbols, an animated spinner
// for network checks, and a key/value table for status summaries.
//
// The full-screen dashboard lives in internal/dashboard and has its own
// styles; nothing here runs inside Bubble Tea.
package ui
