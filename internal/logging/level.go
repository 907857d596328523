// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// EnvVerbose turns on debug output when set to "1".
const EnvVerbose = "EVALDB_VERBOSE"

// Setup configures pterm's printers for the given level. Debug output is
// shown for level "debug", verbose, or EVALDB_VERBOSE=1; "quiet" silences
// everything except errors.
func Setup(level string, verbose bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	if verbose || os.Getenv(EnvVerbose) == "1" {
		level = "debug"
	}

	pterm.DisableDebugMessages()
	pterm.Info.Debugger = false
	pterm.Success.Debugger = false
	pterm.Warning.Debugger = false

	switch level {
	case "debug":
		pterm.EnableDebugMessages()
	case "quiet", "error":
		// Debugger printers are only shown while debug messages are enabled.
		pterm.Info.Debugger = true
		pterm.Success.Debugger = true
		pterm.Warning.Debugger = true
	}
	if !IsTerminal() {
		pterm.DisableStyling()
	}
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
