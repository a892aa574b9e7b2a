package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"beatsync/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that the audio analysis tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			statuses := deps.CheckBinaries(deps.AnalysisRequirements(cfg))
			for _, status := range statuses {
				fmt.Fprintln(out, dependencyLine(status, colorize))
			}
			if err := deps.Require(statuses); err != nil {
				fmt.Fprintln(out, statusLine("Hint", styleHint, deps.InstallHint, colorize))
				return err
			}
			return nil
		},
	}
}
