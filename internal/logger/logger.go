// Package logger provides leveled logging for the afcoco CLI.
// Debug messages are only printed in verbose mode (the --verbose flag);
// info, warning and error messages are always printed to stderr.
//
// Converters receive a *Logger by injection. The package-level functions
// write through Default() and are meant for the CLI layer.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/custodia-labs/afcoco/internal/core/ports/driven"
)

// Ensure Logger implements the interface.
var _ driven.Logger = (*Logger)(nil)

// Logger writes prefixed log lines to an io.Writer.
type Logger struct {
	mu      sync.Mutex
	verbose bool
	output  io.Writer
}

// New creates a logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{output: w, verbose: verbose}
}

var std = New(os.Stderr, false)

// Default returns the process-wide logger.
func Default() *Logger {
	return std
}

// SetVerbose enables or disables debug output.
func (l *Logger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// SetOutput sets the output writer.
// Defaults to os.Stderr. Useful for testing.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbose {
		fmt.Fprintf(l.output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbose {
		fmt.Fprintf(l.output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.printf("[INFO] ", format, args...)
}

// Warn prints a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.printf("[WARN] ", format, args...)
}

// Error prints an error message.
func (l *Logger) Error(format string, args ...any) {
	l.printf("[ERROR] ", format, args...)
}

func (l *Logger) printf(prefix, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.output, prefix+format+"\n", args...)
}

// SetVerbose enables or disables debug output of the default logger.
func SetVerbose(v bool) { std.SetVerbose(v) }

// IsVerbose returns true if the default logger is verbose.
func IsVerbose() bool { return std.IsVerbose() }

// SetOutput sets the output writer of the default logger.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// Debug prints a debug message through the default logger.
func Debug(format string, args ...any) { std.Debug(format, args...) }

// Section prints a section header through the default logger.
func Section(name string) { std.Section(name) }

// Info prints an informational message through the default logger.
func Info(format string, args ...any) { std.Info(format, args...) }

// Warn prints a warning through the default logger.
func Warn(format string, args ...any) { std.Warn(format, args...) }

// Error prints an error through the default logger.
func Error(format string, args ...any) { std.Error(format, args...) }
