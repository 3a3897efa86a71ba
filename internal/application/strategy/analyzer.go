// Package strategy synthesizes analysis output into strategic implications,
// recommendations, SWOT, and positioning advice. AI-assisted narrative comes
// from the insight provider chain; every list has a deterministic rule-based
// path so reports complete without the model.
package strategy

import (
	"context"
	"fmt"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/internal/intelligence/insight"
)

// Analyzer produces the strategic layer of analyses and reports.
type Analyzer interface {
	Implications(ctx context.Context, source, target *product.CompetitorProduct, sim *analysis.ProductSimilarityAnalysis) (analysis.StrategicImplications, string)
	Recommendations(features *analysis.FeatureAnalysis, pricing *analysis.PricingPosition, threats analysis.ThreatAssessment) []analysis.Recommendation
	SWOT(features *analysis.FeatureAnalysis, position analysis.MarketPosition, pricing *analysis.PricingPosition) *analysis.SWOTAnalysis
	Positioning(position analysis.MarketPosition) *analysis.PositioningRecommendation
}

// positioningStrategies fixes the strategy list per market position.
var positioningStrategies = map[string][]string{
	"leader": {
		"Set the innovation agenda for the category",
		"Invest in market education to grow the whole segment",
		"Build an ecosystem that raises switching costs",
	},
	"challenger": {
		"Differentiate sharply against the leader",
		"Own a niche the leader underserves",
		"Disrupt on pricing or delivery model",
	},
	"follower": {
		"Compete on cost efficiency",
		"Specialize in an underserved niche",
		"Fast-follow proven features without the R&D risk",
	},
	"niche": {
		"Dominate the niche before expanding",
		"Expand into adjacent niches from strength",
		"Deepen expertise as the defensible moat",
	},
}

var positioningNarratives = map[string]struct{ current, recommended string }{
	"leader":     {"Market leader with broad reach", "Defend leadership while growing the category"},
	"challenger": {"Strong challenger to the segment leader", "Convert differentiation into share gains"},
	"follower":   {"Follower in an established field", "Carve out a defensible specialty"},
	"niche":      {"Niche player in a crowded market", "Own the niche completely before expanding"},
}

type analyzerImpl struct {
	insights insight.Provider
	logger   logging.Logger
}

// NewAnalyzer constructs the strategic analyzer over the insight provider
// chain (primary model plus rule fallback).
func NewAnalyzer(insights insight.Provider, log logging.Logger) Analyzer {
	return &analyzerImpl{insights: insights, logger: log}
}

// Implications generates the per-analysis strategy lists and a narrative
// summary. Provider failure degrades to the deterministic rule tables.
func (a *analyzerImpl) Implications(ctx context.Context, source, target *product.CompetitorProduct, sim *analysis.ProductSimilarityAnalysis) (analysis.StrategicImplications, string) {
	req := insight.Request{
		AnalysisType: string(sim.Type),
		Source:       snapshot(source),
		Relationship: sim.Relationship,
		OverallScore: sim.OverallScore,
	}
	if target != nil {
		t := snapshot(target)
		req.Target = &t
	}

	result, err := a.insights.GenerateInsights(ctx, req)
	if err != nil {
		// The chain's fallback is infallible; reaching here means the
		// analyzer was wired with a bare primary provider.
		a.logger.Warn("Insight generation failed, using rule tables only",
			logging.String("source_product_id", sim.SourceProductID),
			logging.Err(err))
		result = &insight.Result{}
	}

	return insight.Implications(req, result), result.Summary
}

// Recommendations is the rule-based generator keyed on feature gaps, pricing
// positioning, and threat severity.
func (a *analyzerImpl) Recommendations(features *analysis.FeatureAnalysis, pricing *analysis.PricingPosition, threats analysis.ThreatAssessment) []analysis.Recommendation {
	var recs []analysis.Recommendation

	if features != nil {
		urgentGaps := 0
		for _, gap := range features.Gaps {
			if gap.Importance == "critical" || gap.Importance == "high" {
				urgentGaps++
			}
		}
		if urgentGaps > 0 {
			recs = append(recs, analysis.Recommendation{
				Category: "product",
				Action:   fmt.Sprintf("Close the %d highest-coverage feature gaps", urgentGaps),
				Priority: "high",
				Timeline: "quarter",
				Impact:   "high",
				Effort:   "medium",
				SuccessMetrics: []string{
					"Feature-gap count reduced",
					"Win rate against gap-holding competitors improved",
				},
			})
		}
		if len(features.Unique) > 0 {
			recs = append(recs, analysis.Recommendation{
				Category:       "marketing",
				Action:         fmt.Sprintf("Lead positioning with the %d exclusive features", len(features.Unique)),
				Priority:       "medium",
				Timeline:       "month",
				Impact:         "medium",
				Effort:         "low",
				SuccessMetrics: []string{"Share of voice on differentiators"},
			})
		}
	}

	if pricing != nil {
		switch pricing.Positioning {
		case "premium":
			recs = append(recs, analysis.Recommendation{
				Category:       "pricing",
				Action:         "Reinforce the premium with service-level and feature guarantees",
				Priority:       "medium",
				Timeline:       "quarter",
				Impact:         "medium",
				Effort:         "medium",
				SuccessMetrics: []string{"Churn at renewal", "Discount frequency"},
			})
		case "budget":
			recs = append(recs, analysis.Recommendation{
				Category:       "pricing",
				Action:         "Build an upgrade path before margin pressure forces one",
				Priority:       "high",
				Timeline:       "quarter",
				Impact:         "high",
				Effort:         "medium",
				SuccessMetrics: []string{"Average revenue per account"},
			})
		}
	}

	if threats.OverallRisk == "high" {
		recs = append(recs, analysis.Recommendation{
			Category:       "defense",
			Action:         "Stand up a competitive-response playbook for the top threats",
			Priority:       "high",
			Timeline:       "month",
			Impact:         "high",
			Effort:         "low",
			SuccessMetrics: []string{"Time-to-response on competitor moves"},
		})
	}

	return recs
}

// SWOT assembles the four quadrants from the component analyses.
func (a *analyzerImpl) SWOT(features *analysis.FeatureAnalysis, position analysis.MarketPosition, pricing *analysis.PricingPosition) *analysis.SWOTAnalysis {
	swot := &analysis.SWOTAnalysis{}

	if features != nil {
		for _, f := range features.Unique {
			swot.Strengths = append(swot.Strengths, fmt.Sprintf("Exclusive capability: %s", f))
		}
		for _, f := range features.Missing {
			swot.Weaknesses = append(swot.Weaknesses, fmt.Sprintf("Competitors offer %s", f))
		}
		for _, gap := range features.Gaps {
			if gap.Importance == "critical" || gap.Importance == "high" {
				swot.Opportunities = append(swot.Opportunities,
					fmt.Sprintf("Closing %q would match %.0f%% of the field", gap.Feature, gap.Coverage*100))
			}
		}
	}

	if position.CompetitorCount < 3 {
		swot.Opportunities = append(swot.Opportunities, "Thin competitive field leaves share uncontested")
	}
	if position.CompetitorCount > 10 {
		swot.Threats = append(swot.Threats, "Dense competitor field compresses differentiation")
	}
	if pricing != nil && pricing.AboveCount < pricing.BelowCount {
		swot.Threats = append(swot.Threats, "Most competitors price below this product")
	}
	if len(swot.Strengths) == 0 {
		swot.Strengths = append(swot.Strengths, "Established presence in the analyzed category")
	}

	return swot
}

// Positioning maps the market position to a narrative and strategy list.
func (a *analyzerImpl) Positioning(position analysis.MarketPosition) *analysis.PositioningRecommendation {
	narrative, ok := positioningNarratives[position.Positioning]
	if !ok {
		narrative = positioningNarratives["niche"]
	}
	strategies, ok := positioningStrategies[position.Positioning]
	if !ok {
		strategies = positioningStrategies["niche"]
	}
	return &analysis.PositioningRecommendation{
		Current:     narrative.current,
		Recommended: narrative.recommended,
		Strategies:  append([]string(nil), strategies...),
	}
}

func snapshot(p *product.CompetitorProduct) insight.ProductSnapshot {
	if p == nil {
		return insight.ProductSnapshot{}
	}
	return insight.ProductSnapshot{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Currency:    p.Currency,
		Features:    p.Features,
		Description: p.Description,
	}
}
