// Package pipeline runs the probe → calculate → encode workflow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"vidfit/internal/encoder"
	"vidfit/internal/logging"
	"vidfit/internal/model"
	"vidfit/internal/probe"
	"vidfit/internal/progress"
	"vidfit/internal/util"
	"vidfit/internal/util/bitrate"
	"vidfit/internal/util/format"
)

// overshootRatio is how far past the target an output may land before it is flagged.
const overshootRatio = 1.10

// ErrSameFile is returned when input and output name the same file.
var ErrSameFile = errors.New("output would overwrite the input")

// Service orchestrates the probe → plan → encode workflow.
type Service struct {
	ffprobePath string
	ffmpegPath  string
	verbose     bool
	runner      util.CmdRunner
	reporter    progress.Reporter
	log         *logging.Logger
	jobID       string
}

// Option configures a Service.
type Option func(*Service)

// WithFFprobePath sets the ffprobe binary path.
func WithFFprobePath(p string) Option {
	return func(s *Service) {
		s.ffprobePath = p
	}
}

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) {
		s.ffmpegPath = p
	}
}

// WithVerbose echoes subprocess command lines and output.
func WithVerbose(v bool) Option {
	return func(s *Service) {
		s.verbose = v
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter (used by the TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithLogger sets the logger used for warnings and debug output.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

// NewService constructs a new Service with the provided options.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.jobID == "" {
		s.jobID = uuid.NewString()
	}
	return s
}

// JobID returns the ID attached to reporter events.
func (s *Service) JobID() string { return s.jobID }

// Plan is the computed encode for one request.
type Plan struct {
	Request model.EncodingRequest
	Params  model.BitrateParameters

	VideoBps      int64
	EstimatedSize int64
	FFmpegArgs    []string
}

// VideoBitrate is the -b:v value handed to ffmpeg, e.g. "8260k".
func (p Plan) VideoBitrate() string { return bitrate.FormatKbps(p.VideoBps) }

// Result returns the outcome of Run.
type Result struct {
	Plan           Plan
	Output         model.OutputVideo
	Overshot       bool
	OvershootRatio float64
}

// Plan probes the input and computes the video bitrate. It never runs ffmpeg.
func (s *Service) Plan(ctx context.Context, req model.EncodingRequest) (Plan, error) {
	if s.ffprobePath == "" {
		return Plan{}, fmt.Errorf("ffprobe path is required")
	}
	if util.SamePath(req.InputPath, req.OutputPath) {
		return Plan{}, fmt.Errorf("%w: %s", ErrSameFile, req.OutputPath)
	}

	s.update(progress.StageProbing, -1, "Probing "+filepath.Base(req.InputPath))
	p := probe.New(s.ffprobePath, s.runner)
	p.Verbose = s.verbose
	duration, err := p.Duration(ctx, req.InputPath)
	if err != nil {
		return Plan{}, err
	}
	s.log.Debug("duration of %s: %.3fs", req.InputPath, duration)

	params := model.BitrateParameters{
		DurationSec: duration,
		TargetBytes: bitrate.TargetBytes(req.TargetSize.MB()),
		AudioBps:    bitrate.AudioBps,
	}
	videoBps, err := bitrate.VideoBps(params.DurationSec, params.TargetBytes, params.AudioBps)
	if err != nil {
		// ParseDuration already rejects non-positive values.
		return Plan{}, &probe.Error{Input: req.InputPath, Err: err}
	}
	if videoBps == bitrate.MinVideoBps {
		s.log.Debug("bitrate for %s clamped to the %s floor", req.InputPath, bitrate.FormatKbps(bitrate.MinVideoBps))
	}

	pl := Plan{
		Request:       req,
		Params:        params,
		VideoBps:      videoBps,
		EstimatedSize: bitrate.EstimatedBytes(duration, videoBps, params.AudioBps),
		FFmpegArgs: encoder.BuildArgs(encoder.Params{
			InputPath:  req.InputPath,
			OutputPath: req.OutputPath,
			VideoBps:   videoBps,
			AudioBps:   params.AudioBps,
		}, s.reporter != nil),
	}
	s.update(progress.StagePlanning, -1, fmt.Sprintf("Video bitrate %s", pl.VideoBitrate()))
	return pl, nil
}

// Run executes the full pipeline for a single request: Plan, then Encode.
// It never prints results; when a Reporter is present, it emits progress and a final Result.
func (s *Service) Run(ctx context.Context, req model.EncodingRequest) (Result, error) {
	if s.ffmpegPath == "" {
		err := fmt.Errorf("ffmpeg path is required")
		s.fail(err)
		return Result{}, err
	}
	pl, err := s.Plan(ctx, req)
	if err != nil {
		s.fail(err)
		return Result{}, err
	}
	return s.Encode(ctx, pl)
}

// Encode runs ffmpeg for a computed plan and checks the output size.
func (s *Service) Encode(ctx context.Context, pl Plan) (Result, error) {
	res, err := s.encode(ctx, pl)
	if err != nil {
		s.fail(err)
	}
	return res, err
}

func (s *Service) encode(ctx context.Context, pl Plan) (Result, error) {
	res := Result{Plan: pl}
	if s.ffmpegPath == "" {
		return res, fmt.Errorf("ffmpeg path is required")
	}
	req := pl.Request

	s.update(progress.StageEncoding, 0, "Encoding")
	out, err := encoder.Encode(ctx, encoder.Params{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		VideoBps:   pl.VideoBps,
		AudioBps:   pl.Params.AudioBps,
	}, encoder.Options{
		FFmpegPath:  s.ffmpegPath,
		Verbose:     s.verbose,
		Runner:      s.runner,
		Reporter:    s.reporter,
		JobID:       s.jobID,
		DurationSec: pl.Params.DurationSec,
	})
	if err != nil {
		return res, err
	}
	res.Output = out

	res.Overshot, res.OvershootRatio = checkOvershoot(out.Bytes, pl.Params.TargetBytes)
	if res.Overshot {
		s.log.Warn("output size (%s) exceeds target (%s) by %.0f%%",
			format.HumanizeBytes(out.Bytes), req.TargetSize, (res.OvershootRatio-1)*100)
	}

	s.emitSaved(out)
	return res, nil
}

func (s *Service) update(stage progress.Stage, percent float64, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{JobID: s.jobID, Stage: stage, Percent: percent, Message: msg})
}

// emitSaved sends a final "saved" update and reporter result for the TUI.
func (s *Service) emitSaved(out model.OutputVideo) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Message: fmt.Sprintf("Saved: %s (%s)", filepath.Base(out.OutputPath), format.HumanizeBytes(out.Bytes)),
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		OutputPath: out.OutputPath,
		Bytes:      out.Bytes,
	})
}

func (s *Service) fail(err error) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{JobID: s.jobID, Stage: progress.StageError, Percent: -1, Message: err.Error()})
	s.reporter.Result(progress.Result{JobID: s.jobID, Err: err})
}

// checkOvershoot reports whether outBytes exceeds targetBytes by more than 10%.
func checkOvershoot(outBytes, targetBytes int64) (bool, float64) {
	if targetBytes <= 0 {
		return false, 0
	}
	ratio := float64(outBytes) / float64(targetBytes)
	return ratio > overshootRatio, ratio
}
