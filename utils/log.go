package utils

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Level selects how much a Logger prints.
type Level int

const (
	Quiet Level = iota
	Info
	Debug
	Trace
)

// ParseLevel maps "quiet", "info", "debug" and "trace" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "quiet", "":
		return Quiet, nil
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	case "trace":
		return Trace, nil
	}
	return Quiet, errors.Errorf("unknown log level %q", s)
}

// Logger writes diagnostics to Out. Every line is prefixed with the number of
// milliseconds elapsed since the Logger was created.
//
// A nil *Logger is valid and prints nothing.
type Logger struct {
	Out   io.Writer
	Level Level

	start time.Time
	// a line of progress dots is open
	dots bool
}

// NewLogger returns a Logger whose clock starts now.
func NewLogger(out io.Writer, level Level) *Logger {
	return &Logger{Out: out, Level: level, start: time.Now()}
}

// Enabled reports whether messages at level are printed.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.Out != nil && level > Quiet && l.Level >= level
}

// Infof prints a line at Info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(Info, format, args...)
}

// Debugf prints a line at Debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(Debug, format, args...)
}

// Tracef prints a line at Trace level, the most verbose.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.logf(Trace, format, args...)
}

// Progress prints a single dot without a newline, one per completed unit of work.
func (l *Logger) Progress() {
	if !l.Enabled(Info) {
		return
	}
	fmt.Fprint(l.Out, ".")
	l.dots = true
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	if l.start.IsZero() {
		l.start = time.Now()
	}
	if l.dots {
		fmt.Fprintln(l.Out)
		l.dots = false
	}
	fmt.Fprintf(l.Out, "%08d: ", time.Since(l.start).Milliseconds())
	fmt.Fprintf(l.Out, format, args...)
	if !strings.HasSuffix(format, "\n") {
		fmt.Fprintln(l.Out)
	}
}
