package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vidfit/internal/config"
	"vidfit/internal/logging"
	"vidfit/internal/model"
	"vidfit/internal/pipeline"
	"vidfit/internal/progress"
	"vidfit/internal/ui"
	"vidfit/internal/util"
	"vidfit/internal/util/deps"
	"vidfit/internal/util/format"
)

type runMode struct {
	DryRunOnly bool
}

const runInputsKey ctxKey = "runInputs"

type runInputs struct {
	Request  model.EncodingRequest
	Settings config.Settings
}

// runPreRun validates arguments before any dependency lookup or subprocess.
func runPreRun(cmd *cobra.Command, args []string) error {
	in, err := assembleRunInputs(cmd, args)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	cmd.SetContext(context.WithValue(cmd.Context(), runInputsKey, in))
	return nil
}

func assembleRunInputs(cmd *cobra.Command, args []string) (runInputs, error) {
	if len(args) != 2 {
		return runInputs{}, fmt.Errorf("expected <input> <output>, got %d argument(s)", len(args))
	}
	settings := settingsFrom(cmd)
	req, err := model.NewEncodingRequest(args[0], args[1], settings.SizeMB)
	if err != nil {
		return runInputs{}, err
	}
	return runInputs{Request: req, Settings: settings}, nil
}

func runExecute(cmd *cobra.Command, mode runMode) error {
	in, ok := cmd.Context().Value(runInputsKey).(runInputs)
	if !ok {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("missing run inputs")}
	}
	st := in.Settings
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	log := logging.New(out, errOut, st.Verbose)

	ffprobePath, err := deps.FindFFprobe(st.FFprobe)
	if err != nil {
		return &ExitError{Code: ExitMissingDep, Err: err}
	}
	log.Debug("ffprobe: %s", ffprobePath)

	if mode.DryRunOnly {
		svc := pipeline.NewService(
			pipeline.WithFFprobePath(ffprobePath),
			pipeline.WithVerbose(st.Verbose),
			pipeline.WithRunner(&util.DefaultRunner{Echo: errOut}),
			pipeline.WithLogger(log),
		)
		pl, err := svc.Plan(cmd.Context(), in.Request)
		if err != nil {
			return exitFor(err)
		}
		printPlan(out, pl)
		return nil
	}

	ffmpegPath, err := deps.FindFFmpeg(st.FFmpeg)
	if err != nil {
		return &ExitError{Code: ExitMissingDep, Err: err}
	}
	log.Debug("ffmpeg: %s", ffmpegPath)

	opts := []pipeline.Option{
		pipeline.WithFFprobePath(ffprobePath),
		pipeline.WithFFmpegPath(ffmpegPath),
		pipeline.WithVerbose(st.Verbose),
		pipeline.WithRunner(&util.DefaultRunner{Echo: errOut}),
	}

	if !st.NoUI && !log.Verbose() && isTerminal(out) {
		res, err := ui.Run(cmd.Context(), in.Request, func(rep progress.Reporter) *pipeline.Service {
			return pipeline.NewService(append(opts, pipeline.WithReporter(rep), pipeline.WithLogger(logging.Discard()))...)
		})
		if err != nil {
			return exitFor(err)
		}
		reportSaved(log, res)
		return nil
	}

	svc := pipeline.NewService(append(opts, pipeline.WithLogger(log))...)
	pl, err := svc.Plan(cmd.Context(), in.Request)
	if err != nil {
		return exitFor(err)
	}
	log.Printf("Video duration: %.2f seconds", pl.Params.DurationSec)
	log.Printf("Target size: %d MB", in.Request.TargetSize.MB())
	log.Printf("Using video bitrate: %s (%d bps)", pl.VideoBitrate(), pl.VideoBps)
	log.Info("encoding %s -> %s", in.Request.InputPath, in.Request.OutputPath)

	res, err := svc.Encode(cmd.Context(), pl)
	if err != nil {
		return exitFor(err)
	}
	log.Printf("Saved: %s (%s)", res.Output.OutputPath, format.HumanizeBytes(res.Output.Bytes))
	return nil
}

// reportSaved prints the summary the TUI leaves out once it has exited.
func reportSaved(log *logging.Logger, res pipeline.Result) {
	log.Printf("Saved: %s (%s)", res.Output.OutputPath, format.HumanizeBytes(res.Output.Bytes))
	if res.Overshot {
		log.Warn("output size (%s) exceeds target (%s) by %.0f%%",
			format.HumanizeBytes(res.Output.Bytes), res.Plan.Request.TargetSize, (res.OvershootRatio-1)*100)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
