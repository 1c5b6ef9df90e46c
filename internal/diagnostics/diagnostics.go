// Package diagnostics ports the verbose/debug mode toggles of verbose.c and
// debug.c: two process-wide switches gating formatted output to stderr. The
// original exposes them as static bool + printf wrappers; Go has no
// compile-time DEBUG macro, so debugMode is a runtime flag rather than a
// build-time constant.
package diagnostics

import (
	"fmt"
	"os"
	"sync/atomic"
)

var verboseMode atomic.Bool
var debugMode atomic.Bool

// EnableVerbose turns verbose mode on.
func EnableVerbose() { verboseMode.Store(true) }

// DisableVerbose turns verbose mode off.
func DisableVerbose() { verboseMode.Store(false) }

// VerboseEnabled reports the current state of verbose mode.
func VerboseEnabled() bool { return verboseMode.Load() }

// EnableDebug turns debug mode on.
func EnableDebug() { debugMode.Store(true) }

// DisableDebug turns debug mode off.
func DisableDebug() { debugMode.Store(false) }

// DebugEnabled reports the current state of debug mode.
func DebugEnabled() bool { return debugMode.Load() }

// Verbosef writes a formatted line to stderr iff verbose mode is enabled.
func Verbosef(format string, args ...any) {
	if !VerboseEnabled() {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// Debugf writes a formatted line to stderr iff debug mode is enabled.
func Debugf(format string, args ...any) {
	if !DebugEnabled() {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
