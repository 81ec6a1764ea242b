// Package output handles formatting CLI output as table, compact, or JSON.
package output

import (
	"os"

	"golang.org/x/term"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto detects based on TTY.
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one line per record.
	FormatCompact
)

// isTerminalFn checks whether stdout is a terminal. Replaceable in tests.
var isTerminalFn = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Detect returns the appropriate format based on flags, environment, and TTY.
// When no explicit format is set: TTY → table, piped → JSON.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if tableFlag {
		return FormatTable
	}
	if compactFlag {
		return FormatCompact
	}

	// Check environment variable.
	switch os.Getenv("SPECCHECK_OUTPUT") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	case "compact":
		return FormatCompact
	}

	// Auto-detect: TTY gets table, piped gets JSON.
	if isTerminalFn() {
		return FormatTable
	}
	return FormatJSON
}
