package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vidfit/internal/config"
	"vidfit/internal/encoder"
	"vidfit/internal/model"
	"vidfit/internal/probe"
	"vidfit/internal/util/deps"
)

const (
	ExitOK          = 0
	ExitCLIError    = 1
	ExitMissingDep  = 2
	ExitProbeError  = 3
	ExitEncodeError = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitFor maps a failure to its exit code.
func exitFor(err error) *ExitError {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee
	}
	code := ExitCLIError
	switch {
	case errors.Is(err, probe.ErrProbe):
		code = ExitProbeError
	case errors.Is(err, encoder.ErrEncode):
		code = ExitEncodeError
	case errors.Is(err, deps.ErrNotFound):
		code = ExitMissingDep
	}
	return &ExitError{Code: code, Err: err}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vidfit <input> <output>",
		Short: "Shrink a video to fit a 50 MB or 100 MB target",
		Long: "vidfit asks ffprobe for the duration of a video, derives the video bitrate that " +
			"makes the output land on the target size (audio is fixed at 128 kb/s AAC) and " +
			"re-encodes it with ffmpeg as H.264. The output file is overwritten.",
		Example: "  vidfit holiday.mp4 holiday-small.mp4\n" +
			"  vidfit --size 50 talk.mov talk.mp4\n" +
			"  vidfit plan talk.mov talk.mp4",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.ExactArgs(2),
		PersistentPreRunE: loadSettings,
		PreRunE:           runPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, runMode{})
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Show full subprocess commands/output")
	root.PersistentFlags().String("ffmpeg", "", "Path to the ffmpeg binary")
	root.PersistentFlags().String("ffprobe", "", "Path to the ffprobe binary")
	root.PersistentFlags().String("config", "", "Config file (default: <user config dir>/vidfit/config.{yaml,toml,json})")

	bindRunFlags(root.Flags())

	root.AddCommand(newPlanCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindRunFlags(fs *pflag.FlagSet) {
	fs.IntP("size", "s", int(model.DefaultSize), "Target size in MB (50 or 100)")
	fs.Bool("no-ui", false, "Disable the interactive progress view; print plain text")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	return ExecuteArgs(ctx, nil)
}

// ExecuteArgs runs the CLI with explicit arguments; nil means os.Args[1:].
func ExecuteArgs(ctx context.Context, args []string) error {
	root := newRootCmd()
	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}

type ctxKey string

const settingsKey ctxKey = "settings"

// loadSettings resolves flags, env and config file into config.Settings.
func loadSettings(cmd *cobra.Command, _ []string) error {
	explicit, _ := cmd.Flags().GetString("config")
	v := viper.New()
	if err := config.Init(v, cmd.Flags(), explicit); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	cmd.SetContext(context.WithValue(cmd.Context(), settingsKey, config.Load(v)))
	return nil
}

func settingsFrom(cmd *cobra.Command) config.Settings {
	if s, ok := cmd.Context().Value(settingsKey).(config.Settings); ok {
		return s
	}
	return config.Settings{SizeMB: int(model.DefaultSize)}
}

// skipSettings replaces loadSettings for commands that must work even when
// the config file is unreadable, such as completion and config init.
func skipSettings(*cobra.Command, []string) error { return nil }
