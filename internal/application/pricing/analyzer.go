// Package pricing positions a product's price against its competitive
// distribution and produces pricing recommendations.
package pricing

import (
	"context"
	"fmt"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/stats"
)

// Analyzer positions a focal product's price against its competitor set.
type Analyzer interface {
	Analyze(ctx context.Context, focal *product.CompetitorProduct, competitors []*product.CompetitorProduct) (*analysis.PricingPosition, error)
}

// positioningRecommendations is the fixed per-positioning advice table.
var positioningRecommendations = map[string][]string{
	"premium": {
		"Justify the premium with differentiated features and service levels",
		"Reinforce brand perception to support the price point",
	},
	"mid_market": {
		"Maintain price parity while competing on feature depth",
		"Probe willingness-to-pay before the next price change",
	},
	"value": {
		"Highlight the price-to-feature ratio in positioning",
		"Protect the value perception when adding premium features",
	},
	"budget": {
		"Watch margin pressure at the low end of the market",
		"Plan an upgrade path before competitors undercut further",
	},
}

type analyzerImpl struct {
	logger logging.Logger
}

// NewAnalyzer constructs the pricing analyzer. It is a pure computation over
// the supplied products.
func NewAnalyzer(log logging.Logger) Analyzer {
	return &analyzerImpl{logger: log}
}

func (a *analyzerImpl) Analyze(_ context.Context, focal *product.CompetitorProduct, competitors []*product.CompetitorProduct) (*analysis.PricingPosition, error) {
	if focal == nil {
		return nil, errors.NewValidation("focal product is required")
	}

	var prices []float64
	for _, c := range competitors {
		if c != nil && c.Price > 0 {
			prices = append(prices, c.Price)
		}
	}

	// No usable pricing signal: neutral default anchored on the own price.
	if len(prices) == 0 {
		a.logger.Debug("No competitor pricing data, returning neutral positioning",
			logging.String("product_id", focal.ID))
		return &analysis.PricingPosition{
			Positioning:     "mid_market",
			OwnPrice:        focal.Price,
			MarketMedian:    focal.Price,
			MarketMean:      focal.Price,
			Recommendations: positioningRecommendations["mid_market"],
			ValuePerception: "Insufficient competitor pricing data for a market comparison.",
		}, nil
	}

	median := stats.Median(prices)
	mean := stats.Mean(prices)

	above, below := 0, 0
	for _, p := range prices {
		if p > focal.Price {
			above++
		} else if p < focal.Price {
			below++
		}
	}

	positioning := classifyPositioning(focal.Price, median, mean)

	pos := &analysis.PricingPosition{
		Positioning:     positioning,
		OwnPrice:        focal.Price,
		MarketMedian:    median,
		MarketMean:      mean,
		AboveCount:      above,
		BelowCount:      below,
		Recommendations: buildRecommendations(positioning, len(prices)),
		ValuePerception: valuePerception(focal, positioning, median, len(prices)),
	}
	return pos, nil
}

func classifyPositioning(price, median, mean float64) string {
	medianRatio := ratio(price, median)
	meanRatio := ratio(price, mean)

	switch {
	case medianRatio > 1.3 || meanRatio > 1.3:
		return "premium"
	case medianRatio < 0.7 || meanRatio < 0.7:
		return "budget"
	case medianRatio < 0.9 && meanRatio < 0.9:
		return "value"
	default:
		return "mid_market"
	}
}

func ratio(price, reference float64) float64 {
	if reference == 0 {
		return 1
	}
	return price / reference
}

func buildRecommendations(positioning string, competitorCount int) []string {
	recs := append([]string(nil), positioningRecommendations[positioning]...)
	if competitorCount > 10 {
		recs = append(recs, "Crowded pricing field: lead with differentiation, not discounts")
	} else if competitorCount < 3 {
		recs = append(recs, "Thin competitive field allows pricing flexibility")
	}
	return recs
}

func valuePerception(focal *product.CompetitorProduct, positioning string, median float64, competitorCount int) string {
	advantage := "comparable"
	switch {
	case len(focal.Features) > 10:
		advantage = "feature-rich"
	case len(focal.Features) < 4:
		advantage = "lean"
	}
	return fmt.Sprintf("Positioned %s at %.2fx the market median with a %s feature set across %d priced competitors.",
		positioning, ratio(focal.Price, median), advantage, competitorCount)
}
