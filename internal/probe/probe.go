package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vidfit/internal/util"
)

// ErrProbe matches every *Error via errors.Is.
var ErrProbe = errors.New("probe failed")

// Error describes a failed duration probe.
type Error struct {
	Input  string
	Stderr string // trailing ffprobe stderr lines, if any
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("ffprobe %q: %v", e.Input, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports ErrProbe so callers need not know the concrete type.
func (e *Error) Is(target error) bool { return target == ErrProbe }

// Prober runs ffprobe through a command runner.
type Prober struct {
	Path    string
	Runner  util.CmdRunner
	Verbose bool
}

// New returns a Prober for the ffprobe binary at path.
func New(path string, runner util.CmdRunner) *Prober {
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	return &Prober{Path: path, Runner: runner}
}

// Args returns the ffprobe arguments that print only the duration, as a bare
// decimal number, for input.
func Args(input string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input,
	}
}

// Duration returns the duration of input in seconds.
func (p *Prober) Duration(ctx context.Context, input string) (float64, error) {
	if strings.TrimSpace(p.Path) == "" {
		return 0, &Error{Input: input, Err: errors.New("ffprobe path is required")}
	}
	res, err := p.Runner.Run(ctx, util.CmdSpec{
		Path:    p.Path,
		Args:    Args(input),
		Verbose: p.Verbose,
	})
	if err != nil {
		return 0, &Error{Input: input, Stderr: util.LastLines(res.Stderr, 3), Err: err}
	}
	d, err := ParseDuration(string(res.Stdout))
	if err != nil {
		return 0, &Error{Input: input, Stderr: util.LastLines(res.Stderr, 3), Err: err}
	}
	return d, nil
}

// ParseDuration parses ffprobe's bare duration output, e.g. "123.456\n".
// Missing, non-numeric and non-positive values are errors.
func ParseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0, errors.New("duration not reported")
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", d)
	}
	return d, nil
}
