// Package cli implements the medge operator CLI over the analysis engine.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/pricing"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Dependencies aggregates what the commands need. Commands call the engine
// in-process; there is no HTTP hop.
type Dependencies struct {
	Engine  engine.Engine
	Pricing pricing.Store
	Logger  logging.Logger
}

// rootOptions holds the global flags.
type rootOptions struct {
	output  string
	timeout time.Duration
}

// NewRootCommand builds the medge command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "medge",
		Short: "MarketEdge-Intelligence CLI — competitive product analysis",
		Long: "MarketEdge-Intelligence analyzes competitor products: pairwise similarity,\n" +
			"feature gaps, pricing positioning, clustering, and strategic reports.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.output, "output", "o", "json", "output format (json, text)")
	pf.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "operation timeout")

	cmd.AddCommand(
		newAnalyzeCmd(deps, opts),
		newReportCmd(deps, opts),
		newClusterCmd(deps, opts),
		newPricingCmd(deps, opts),
		newHealthCmd(deps, opts),
	)

	return cmd
}

// commandContext derives the per-invocation timeout context.
func (o *rootOptions) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, o.timeout)
}

// printResult writes the command result in the selected output format.
func (o *rootOptions) printResult(cmd *cobra.Command, data any) error {
	if o.output == "text" {
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", data)
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
