package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidfit/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var target string
	var overwrite bool

	cmd := &cobra.Command{
		Use:               "init",
		Short:             "Write a sample configuration file",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipSettings,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := strings.TrimSpace(target)
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("determine default config path: %w", err)}
				}
				path = p
			}
			if err := config.WriteSample(path, overwrite); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Print the resolved settings",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := settingsFrom(cmd)
			source := st.ConfigFile
			if source == "" {
				source = "(none)"
			}
			rows := [][]string{
				{"size", strconv.Itoa(st.SizeMB)},
				{"verbose", strconv.FormatBool(st.Verbose)},
				{"no_ui", strconv.FormatBool(st.NoUI)},
				{"ffmpeg", orPath(st.FFmpeg)},
				{"ffprobe", orPath(st.FFprobe)},
				{"config file", source},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
			return nil
		},
	}
	bindRunFlags(cmd.Flags())
	return cmd
}

func orPath(s string) string {
	if s == "" {
		return "(search PATH)"
	}
	return s
}
