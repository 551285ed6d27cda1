// Package cli implements the perimeter command-line interface.
//
// Each Cobra command parses its flags and hands off to a plain function
// that does the work, so the logic can be tested without cobra.
//
// # Command Structure
//
//	perimeter watch            - Live dashboard (TUI, or --plain lines)
//	perimeter status [--json]  - Fetch one snapshot and print it
//	perimeter serve            - Run the demo status backend
//	perimeter init             - Write a .perimeter.yaml
//	perimeter version          - Print build info
//
// # Configuration
//
// Every command loads config through loadConfig, which honors the global
// --config and --endpoint flags and validates the result. A missing config
// file is fine: the defaults point at the demo backend on localhost:5000.
//
// # Error Handling
//
// Commands return *errors.Error values; Execute prints them in the
// "✗ what / why / how to fix" layout. With --json, status writes the same
// information inside a {success, data, error} envelope instead.
package cli
