// Package logger provides leveled logging for docaudit.
//
// Debug, Info, Warn and Section lines are printed only in verbose mode
// (the --verbose flag); Error lines are always printed. Verbose lines carry
// a wall-clock timestamp so the timing of concurrent analyses can be read
// from the log. Output goes to stderr unless redirected with SetOutput.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const timeFormat = "15:04:05.000"

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var levelTags = [...]string{
	levelDebug: "DEBUG",
	levelInfo:  "INFO",
	levelWarn:  "WARN",
	levelError: "ERROR",
}

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
	now               = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer for logs.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Logger prefixes every line with the name of the component that wrote it.
type Logger struct {
	name string
}

// Named returns a Logger for one component, e.g. Named("analysis").
func Named(name string) Logger {
	return Logger{name: name}
}

func (l Logger) Debug(format string, args ...any) { l.write(levelDebug, format, args...) }
func (l Logger) Info(format string, args ...any)  { l.write(levelInfo, format, args...) }
func (l Logger) Warn(format string, args ...any)  { l.write(levelWarn, format, args...) }
func (l Logger) Error(format string, args ...any) { l.write(levelError, format, args...) }

func (l Logger) write(lvl level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.name != "" {
		msg = l.name + ": " + msg
	}

	mu.Lock()
	defer mu.Unlock()
	switch {
	case verbose:
		fmt.Fprintf(output, "%s [%s] %s\n", now().Format(timeFormat), levelTags[lvl], msg)
	case lvl == levelError:
		fmt.Fprintf(output, "[%s] %s\n", levelTags[lvl], msg)
	}
}

var root Logger

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) { root.write(levelDebug, format, args...) }

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) { root.write(levelInfo, format, args...) }

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) { root.write(levelWarn, format, args...) }

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) { root.write(levelError, format, args...) }

// Section prints a header between batches, such as one audit run and the next.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
