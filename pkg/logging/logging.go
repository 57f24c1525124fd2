package logging

import (
	"github.com/go-logr/logr"
)

// Verbosity levels used throughout the library with logr's V().
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// NewLogger wraps a logr.Logger, substituting a discard logger when the
// caller passed the zero value.
func NewLogger(log logr.Logger) *Logger {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Logger{log: log}
}

// DefaultLogger returns a logger that discards everything.
func DefaultLogger() *Logger {
	return &Logger{log: logr.Discard()}
}

// Logger is a thin wrapper over logr.Logger so the rest of the library can
// log at named levels without repeating V() calls.
type Logger struct {
	log logr.Logger
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, keysAndValues...)
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.V(DEBUG).Info(msg, keysAndValues...)
}

func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.log.V(TRACE).Info(msg, keysAndValues...)
}

func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(err, msg, keysAndValues...)
}

// Logr returns the wrapped logr.Logger.
func (l *Logger) Logr() logr.Logger {
	return l.log
}
