// Package monitoring carries the tool's diagnostic logging seam. Core
// packages return errors instead of logging; the CLI and long-running
// helpers log through Logf so tests and quiet runs can redirect or mute
// output in one place.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf
// but may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger, which silences all diagnostic output.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Prefixed returns a logger that routes through Logf with a fixed
// "name: " prefix. Subcommands use it so interleaved output stays
// attributable.
func Prefixed(name string) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		Logf(name+": "+format, v...)
	}
}
