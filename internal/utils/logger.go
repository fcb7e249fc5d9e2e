// Package utils provides common utilities shared across packages
package utils

import "fmt"

// Logger is the printf-style logging interface the walker and the rule
// loader write to. Messages are formatted lazily by the implementation.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...any) {}
func (NoopLogger) Info(string, ...any)  {}
func (NoopLogger) Warn(string, ...any)  {}
func (NoopLogger) Error(string, ...any) {}

// OrNoop returns l, or a NoopLogger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}

// Recorder is a Logger that keeps warnings and errors in memory. It is
// meant for tests and for collecting problems to print after a walk.
type Recorder struct {
	Warnings []string
	Errors   []string
}

func (r *Recorder) Debug(string, ...any) {}
func (r *Recorder) Info(string, ...any)  {}

func (r *Recorder) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Recorder) Error(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
