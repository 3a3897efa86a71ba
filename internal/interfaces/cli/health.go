package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// newHealthCmd builds `medge health`. The command exits non-zero when any
// required dependency is down so it can back scripted checks.
func newHealthCmd(deps Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check engine and dependency health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			status, err := deps.Engine.HealthCheck(ctx)
			if err != nil {
				return err
			}
			if err := opts.printResult(cmd, status); err != nil {
				return err
			}
			if !status.Healthy {
				return errors.New(errors.ErrCodeServiceUnavailable, "one or more components are down")
			}
			return nil
		},
	}
}
