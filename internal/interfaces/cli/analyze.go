package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// newAnalyzeCmd builds `medge analyze` with a `batch` subcommand.
func newAnalyzeCmd(deps Dependencies, opts *rootOptions) *cobra.Command {
	var (
		sourceID     string
		targetID     string
		analysisType string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a pairwise product similarity analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			result, err := deps.Engine.AnalyzeProductSimilarity(ctx,
				sourceID, targetID, analysis.Type(analysisType))
			if err != nil {
				return err
			}
			return opts.printResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&sourceID, "source", "", "source product id (required)")
	cmd.Flags().StringVar(&targetID, "target", "", "target product id (required)")
	cmd.Flags().StringVar(&analysisType, "type", string(analysis.TypeComprehensive),
		"analysis type: feature_based|semantic|usage_based|market_based|comprehensive")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")

	cmd.AddCommand(newAnalyzeBatchCmd(deps, opts))
	return cmd
}

// newAnalyzeBatchCmd builds `medge analyze batch`. Pairs are given as
// source:target tokens and processed sequentially by the engine.
func newAnalyzeBatchCmd(deps Dependencies, opts *rootOptions) *cobra.Command {
	var analysisType string

	cmd := &cobra.Command{
		Use:   "batch <source:target> [<source:target> ...]",
		Short: "Run similarity analyses for multiple product pairs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parsePairs(args)
			if err != nil {
				return err
			}

			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			results, err := deps.Engine.BatchAnalyzeSimilarities(ctx, pairs, analysis.Type(analysisType))
			if err != nil {
				return err
			}
			return opts.printResult(cmd, map[string]any{
				"requested": len(pairs),
				"succeeded": len(results),
				"results":   results,
			})
		},
	}

	cmd.Flags().StringVar(&analysisType, "type", string(analysis.TypeComprehensive), "analysis type")
	return cmd
}

func parsePairs(args []string) ([]engine.ProductPair, error) {
	pairs := make([]engine.ProductPair, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, errors.NewValidation("pair %q must have the form source:target", arg)
		}
		pairs = append(pairs, engine.ProductPair{SourceID: parts[0], TargetID: parts[1]})
	}
	return pairs, nil
}
