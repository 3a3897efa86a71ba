package cli

import (
	"github.com/spf13/cobra"
)

// newReportCmd builds `medge report` with `swot` and `positioning`
// subcommands.
func newReportCmd(deps Dependencies, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <product-id>",
		Short: "Generate a product intelligence report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			report, err := deps.Engine.GenerateIntelligenceReport(ctx, args[0])
			if err != nil {
				return err
			}
			return opts.printResult(cmd, report)
		},
	}

	swotCmd := &cobra.Command{
		Use:   "swot <product-id>",
		Short: "Generate a SWOT analysis for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			swot, err := deps.Engine.GenerateSWOTAnalysis(ctx, args[0])
			if err != nil {
				return err
			}
			return opts.printResult(cmd, swot)
		},
	}

	positioningCmd := &cobra.Command{
		Use:   "positioning <product-id>",
		Short: "Generate positioning recommendations for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			rec, err := deps.Engine.GenerateCompetitivePositioning(ctx, args[0])
			if err != nil {
				return err
			}
			return opts.printResult(cmd, rec)
		},
	}

	cmd.AddCommand(swotCmd, positioningCmd)
	return cmd
}
