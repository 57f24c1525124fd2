package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
)

var (
	infoColor  = color.New(color.FgGreen).SprintFunc()
	debugColor = color.New(color.FgCyan).SprintFunc()
	traceColor = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
)

// SimpleLogSink is a logr.LogSink producing human-readable, optionally
// colored output, one message per line with key-value pairs indented
// beneath it.
type SimpleLogSink struct {
	writer       io.Writer
	minVerbosity int
	name         string
	keyValues    []interface{}
	mutex        sync.Mutex
	callDepth    int
	useColor     bool
}

// NewSimpleLogSink creates a sink writing to writer (os.Stdout when nil)
// that drops messages above minVerbosity.
func NewSimpleLogSink(writer io.Writer, minVerbosity int, useColor bool) *SimpleLogSink {
	if writer == nil {
		writer = os.Stdout
	}
	return &SimpleLogSink{
		writer:       writer,
		minVerbosity: minVerbosity,
		keyValues:    []interface{}{},
		useColor:     useColor,
	}
}

// NewSimpleLogger wraps a SimpleLogSink in a logr.Logger.
func NewSimpleLogger(writer io.Writer, minVerbosity int, useColor bool) logr.Logger {
	return logr.New(NewSimpleLogSink(writer, minVerbosity, useColor))
}

func (s *SimpleLogSink) Init(info logr.RuntimeInfo) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.callDepth = info.CallDepth
}

func (s *SimpleLogSink) Enabled(level int) bool {
	return level <= s.minVerbosity
}

func (s *SimpleLogSink) Info(level int, msg string, keysAndValues ...interface{}) {
	if !s.Enabled(level) {
		return
	}
	s.log(false, level, msg, keysAndValues...)
}

func (s *SimpleLogSink) Error(err error, msg string, keysAndValues ...interface{}) {
	all := append(keysAndValues, "error", err)
	s.log(true, 0, msg, all...)
}

func (s *SimpleLogSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	kv := append(append([]interface{}{}, s.keyValues...), keysAndValues...)
	return &SimpleLogSink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         s.name,
		keyValues:    kv,
		useColor:     s.useColor,
	}
}

func (s *SimpleLogSink) WithName(name string) logr.LogSink {
	if s.name != "" {
		name = fmt.Sprintf("%s.%s", s.name, name)
	}
	return &SimpleLogSink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         name,
		keyValues:    append([]interface{}{}, s.keyValues...),
		useColor:     s.useColor,
	}
}

func (s *SimpleLogSink) V(level int) logr.LogSink {
	return &SimpleLogSink{
		writer:       s.writer,
		minVerbosity: s.minVerbosity,
		name:         s.name,
		keyValues:    append([]interface{}{}, s.keyValues...),
		useColor:     s.useColor,
	}
}

func (s *SimpleLogSink) label(isError bool, level int) string {
	plain := func(v string) string { return v }
	colored := [...]func(...interface{}) string{infoColor, debugColor, traceColor}
	if isError {
		if s.useColor {
			return errorColor("[ERROR]")
		}
		return "[ERROR]"
	}
	names := [...]string{"[INFO]", "[DEBUG]", "[TRACE]"}
	if level < 0 || level >= len(names) {
		return fmt.Sprintf("[LEVEL %d]", level)
	}
	if s.useColor {
		return colored[level](names[level])
	}
	return plain(names[level])
}

func (s *SimpleLogSink) log(isError bool, level int, msg string, keysAndValues ...interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	full := msg
	if s.name != "" {
		full = fmt.Sprintf("[%s] %s", s.name, msg)
	}
	fmt.Fprintf(s.writer, "%s %s\n", s.label(isError, level), full)

	pairs := append(append([]interface{}{}, s.keyValues...), keysAndValues...)
	for i := 0; i < len(pairs)-1; i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			key = fmt.Sprintf("key%d", i/2)
		}
		fmt.Fprintf(s.writer, "  %s: %v\n", key, pairs[i+1])
	}
}
