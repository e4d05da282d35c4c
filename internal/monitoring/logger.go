// Package monitoring holds the diagnostic logger shared by the analysis packages.
package monitoring

import (
	"fmt"
	"log"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger so tests can capture or mute pipeline output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// RunLogf returns a logger that tags every line with the analysis run ID,
// so interleaved output from repeated invocations can be told apart.
func RunLogf(runID string) func(format string, v ...interface{}) {
	prefix := fmt.Sprintf("[run %s] ", runID)
	return func(format string, v ...interface{}) {
		Logf(prefix+format, v...)
	}
}
