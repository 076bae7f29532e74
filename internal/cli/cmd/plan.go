package cmd

import (
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "plan <input> <output>",
		Short:         "Probe the input and print the computed bitrate without encoding",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(2),
		PreRunE:       runPreRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExecute(cmd, runMode{DryRunOnly: true})
		},
	}
	bindRunFlags(cmd.Flags())
	return cmd
}
