package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
)

// newClusterCmd builds `medge cluster`.
func newClusterCmd(deps Dependencies, opts *rootOptions) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "cluster <product-id> [<product-id> ...]",
		Short: "Group products into market clusters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			result, err := deps.Engine.PerformProductClustering(ctx, args, analysis.ClusterMethod(method))
			if err != nil {
				return err
			}
			return opts.printResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&method, "method", string(analysis.ClusterFeatureBased),
		"clustering method: feature_based|market_based|semantic")
	return cmd
}
