// Package logging prints leveled console messages for the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Logger writes plain and info lines to stdout; warnings, errors and debug
// lines go to stderr.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	err     io.Writer
	verbose bool

	infoStyle  lipgloss.Style
	warnStyle  lipgloss.Style
	errorStyle lipgloss.Style
	debugStyle lipgloss.Style
}

// New returns a Logger. Nil writers default to os.Stdout and os.Stderr.
// Styling follows lipgloss' detection of the terminal color profile.
func New(out, errOut io.Writer, verbose bool) *Logger {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	base := lipgloss.NewStyle().Bold(true)
	return &Logger{
		out:        out,
		err:        errOut,
		verbose:    verbose,
		infoStyle:  base.Foreground(lipgloss.Color("#60A5FA")),
		warnStyle:  base.Foreground(lipgloss.Color("#F59E0B")),
		errorStyle: base.Foreground(lipgloss.Color("#EF4444")),
		debugStyle: base.Foreground(lipgloss.Color("#22D3EE")),
	}
}

// Discard returns a Logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, io.Discard, false)
}

// Verbose reports whether Debug lines are printed.
func (l *Logger) Verbose() bool { return l.verbose }

// Printf writes an unprefixed line to stdout.
func (l *Logger) Printf(format string, args ...any) {
	l.write(l.out, "", format, args...)
}

// Info logs an informational line.
func (l *Logger) Info(format string, args ...any) {
	l.write(l.out, l.infoStyle.Render("info:"), format, args...)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...any) {
	l.write(l.err, l.warnStyle.Render("warning:"), format, args...)
}

// Error logs an error.
func (l *Logger) Error(format string, args ...any) {
	l.write(l.err, l.errorStyle.Render("error:"), format, args...)
}

// Debug logs only in verbose mode.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.write(l.err, l.debugStyle.Render("debug:"), format, args...)
}

func (l *Logger) write(w io.Writer, prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if prefix != "" {
		fmt.Fprintln(w, prefix, msg)
		return
	}
	fmt.Fprintln(w, msg)
}
