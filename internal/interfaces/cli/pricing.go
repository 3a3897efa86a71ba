package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// newPricingCmd builds `medge pricing` with the `cleanup` subcommand.
func newPricingCmd(deps Dependencies, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Pricing store maintenance",
	}

	var retention time.Duration
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete price observations older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Pricing == nil {
				return errors.New(errors.ErrCodeServiceUnavailable, "pricing store is not configured")
			}

			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			removed, err := deps.Pricing.CleanupExpired(ctx, retention)
			if err != nil {
				return err
			}
			deps.Logger.Info("Pricing cleanup finished", logging.Int64("removed", removed))
			return opts.printResult(cmd, map[string]any{
				"removed":   removed,
				"retention": retention.String(),
			})
		},
	}
	cleanupCmd.Flags().DurationVar(&retention, "retention", 180*24*time.Hour,
		"observations older than this are deleted")

	cmd.AddCommand(cleanupCmd)
	return cmd
}
