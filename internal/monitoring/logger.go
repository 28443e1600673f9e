// Package monitoring holds the process-wide diagnostic logger used by the
// playback core. The simulation packages never return errors for numerical
// degeneracy; they report it here and carry on with the next frame.
package monitoring

import (
	"log"
	"sync/atomic"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

var warnings atomic.Uint64

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs a recoverable condition (degenerate input, skipped update) and
// bumps the warning counter exposed by WarningCount.
func Warnf(format string, v ...interface{}) {
	warnings.Add(1)
	Logf("warning: "+format, v...)
}

// WarningCount returns the number of Warnf calls since process start or the
// last ResetWarnings.
func WarningCount() uint64 {
	return warnings.Load()
}

// ResetWarnings zeroes the warning counter.
func ResetWarnings() {
	warnings.Store(0)
}
