// Package xlog is a thin structured-logging shim over charmbracelet/log,
// giving the session engine Debug/Warn/Error calls with key-value fields
// without spreading a concrete logging library through every package.
package xlog

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the subset of charmbracelet/log's API the link layer needs.
type Logger struct {
	l *log.Logger
}

// New returns a Logger writing to stderr, prefixed with name.
func New(name string) *Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          name,
		ReportTimestamp: true,
	})
	return &Logger{l: l}
}

// With returns a Logger with the given key-value fields attached to
// every subsequent line.
func (lg *Logger) With(kv ...any) *Logger {
	return &Logger{l: lg.l.With(kv...)}
}

func (lg *Logger) Debug(msg string, kv ...any) { lg.l.Debug(msg, kv...) }
func (lg *Logger) Warn(msg string, kv ...any)  { lg.l.Warn(msg, kv...) }
func (lg *Logger) Error(msg string, kv ...any) { lg.l.Error(msg, kv...) }
func (lg *Logger) Info(msg string, kv ...any)  { lg.l.Info(msg, kv...) }

// SetLevel adjusts verbosity; Debug-level logging is noisy (one line per
// frame) and off by default.
func (lg *Logger) SetLevel(level log.Level) {
	lg.l.SetLevel(level)
}
