package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidfit/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Check that ffprobe and ffmpeg can be found",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := settingsFrom(cmd)
			statuses := deps.Check(st.FFprobe, st.FFmpeg)

			rows := make([][]string, 0, len(statuses))
			var missing []string
			for _, s := range statuses {
				state := "ok"
				if !s.Available {
					state = "missing"
					missing = append(missing, s.Name)
				}
				rows = append(rows, []string{s.Name, state, s.Path, s.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Status", "Path", "Detail"}, rows, nil))

			if len(missing) > 0 {
				return &ExitError{Code: ExitMissingDep, Err: fmt.Errorf("%w: %v", deps.ErrNotFound, missing)}
			}
			return nil
		},
	}
}
