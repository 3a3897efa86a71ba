package insight

import (
	"context"

	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
)

// Chain is the two-stage strategy: try the primary provider, log its failure,
// and serve the deterministic fallback instead. The fallback itself cannot
// fail, so callers always get a result.
type Chain struct {
	primary  Provider
	fallback Provider
	logger   logging.Logger
}

// NewChain builds the two-stage provider. A nil primary runs fallback-only,
// which is the configured mode when no API key is present.
func NewChain(primary Provider, fallback Provider, log logging.Logger) *Chain {
	return &Chain{primary: primary, fallback: fallback, logger: log}
}

func (c *Chain) Name() string {
	if c.primary != nil {
		return c.primary.Name()
	}
	return c.fallback.Name()
}

func (c *Chain) GenerateInsights(ctx context.Context, req Request) (*Result, error) {
	if c.primary != nil {
		result, err := c.primary.GenerateInsights(ctx, req)
		if err == nil {
			return result, nil
		}
		c.logger.Warn("Primary insight provider failed, using fallback",
			logging.String("provider", c.primary.Name()),
			logging.Err(err))
	}
	return c.fallback.GenerateInsights(ctx, req)
}
