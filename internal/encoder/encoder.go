package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"vidfit/internal/model"
	"vidfit/internal/progress"
	"vidfit/internal/util"
)

// ErrEncode matches every *Error via errors.Is.
var ErrEncode = errors.New("encode failed")

// Error describes a failed ffmpeg run.
type Error struct {
	Output string
	Stderr string // trailing ffmpeg stderr lines, if any
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("ffmpeg %q: %v", e.Output, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports ErrEncode so callers need not know the concrete type.
func (e *Error) Is(target error) bool { return target == ErrEncode }

// Options control ffmpeg execution.
type Options struct {
	FFmpegPath string
	Verbose    bool
	Runner     util.CmdRunner

	// Reporter, when set, receives -progress updates and stderr lines.
	Reporter    progress.Reporter
	JobID       string
	DurationSec float64 // used to turn out_time_ms into a percentage
}

// Encode runs ffmpeg once and blocks until it exits. A partial output is
// removed on failure. It returns metadata about the resulting file on success.
func Encode(ctx context.Context, p Params, opts Options) (model.OutputVideo, error) {
	fail := func(err error) (model.OutputVideo, error) {
		return model.OutputVideo{}, &Error{Output: p.OutputPath, Err: err}
	}
	if opts.FFmpegPath == "" {
		return fail(errors.New("ffmpeg path is required"))
	}
	if p.InputPath == "" {
		return fail(errors.New("input path is required"))
	}
	if p.OutputPath == "" {
		return fail(errors.New("output path is required"))
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	if err := util.EnsureDir(filepath.Dir(p.OutputPath)); err != nil {
		return fail(fmt.Errorf("ensure output dir: %w", err))
	}

	spec := util.CmdSpec{
		Path:    opts.FFmpegPath,
		Args:    BuildArgs(p, opts.Reporter != nil),
		Verbose: opts.Verbose,
	}
	if rep := opts.Reporter; rep != nil {
		ps := &ProgressState{}
		spec.StdoutLine = func(line string) {
			if u, ok := ps.UpdateFromLine(line, opts.JobID, opts.DurationSec); ok {
				rep.Update(u)
			}
		}
		spec.StderrLine = func(line string) {
			rep.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
		}
	}

	res, runErr := runner.Run(ctx, spec)
	if runErr != nil {
		_ = util.RemoveIfExists(p.OutputPath)
		return model.OutputVideo{}, &Error{
			Output: p.OutputPath,
			Stderr: util.LastLines(res.Stderr, 5),
			Err:    runErr,
		}
	}

	fi, err := os.Stat(p.OutputPath)
	if err != nil {
		return fail(fmt.Errorf("stat output: %w", err))
	}

	return model.OutputVideo{
		OutputPath: p.OutputPath,
		Bytes:      fi.Size(),
		VideoBps:   p.VideoBps,
	}, nil
}
