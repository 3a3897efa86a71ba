package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/internal/intelligence/insight"
)

type stubProvider struct {
	result *insight.Result
	err    error
	called bool
}

func (s *stubProvider) GenerateInsights(context.Context, insight.Request) (*insight.Result, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubProvider) Name() string { return "stub" }

type StrategySuite struct {
	suite.Suite
	provider *stubProvider
	analyzer Analyzer
}

func (s *StrategySuite) SetupTest() {
	s.provider = &stubProvider{result: &insight.Result{Summary: "model summary"}}
	s.analyzer = NewAnalyzer(s.provider, logging.NewNopLogger())
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategySuite))
}

func simResult() *analysis.ProductSimilarityAnalysis {
	return &analysis.ProductSimilarityAnalysis{
		SourceProductID: "prod-a",
		TargetProductID: "prod-b",
		Type:            analysis.TypeComprehensive,
		OverallScore:    0.82,
		Relationship:    analysis.RelationshipDirectCompetitor,
	}
}

func (s *StrategySuite) TestImplicationsUsesProviderSummary() {
	impl, summary := s.analyzer.Implications(context.Background(),
		&product.CompetitorProduct{ID: "prod-a", Name: "Alpha"},
		&product.CompetitorProduct{ID: "prod-b", Name: "Beta"},
		simResult())

	s.True(s.provider.called)
	s.Equal("model summary", summary)
	s.NotEmpty(impl.Threats)
	s.NotEmpty(impl.Opportunities)
}

func (s *StrategySuite) TestImplicationsSurvivesProviderFailure() {
	s.provider.err = assertAnError()

	impl, summary := s.analyzer.Implications(context.Background(),
		&product.CompetitorProduct{ID: "prod-a"},
		&product.CompetitorProduct{ID: "prod-b"},
		simResult())

	s.Empty(summary)
	s.NotEmpty(impl.Threats)
}

func (s *StrategySuite) TestRecommendationsFromGaps() {
	features := &analysis.FeatureAnalysis{
		Unique: []string{"themes"},
		Gaps: []analysis.FeatureGap{
			{Feature: "analytics", Importance: "critical", Coverage: 0.9},
			{Feature: "export", Importance: "high", Coverage: 0.7},
			{Feature: "widgets", Importance: "low", Coverage: 0.1},
		},
	}

	recs := s.analyzer.Recommendations(features, nil, analysis.ThreatAssessment{OverallRisk: "low"})

	s.Require().NotEmpty(recs)
	s.Equal("product", recs[0].Category)
	s.Contains(recs[0].Action, "2")
	s.Equal("high", recs[0].Priority)
}

func (s *StrategySuite) TestRecommendationsFromPricingAndThreats() {
	pricing := &analysis.PricingPosition{Positioning: "budget"}
	threats := analysis.ThreatAssessment{OverallRisk: "high"}

	recs := s.analyzer.Recommendations(nil, pricing, threats)

	var categories []string
	for _, r := range recs {
		categories = append(categories, r.Category)
	}
	s.Contains(categories, "pricing")
	s.Contains(categories, "defense")
}

func (s *StrategySuite) TestSWOTQuadrants() {
	features := &analysis.FeatureAnalysis{
		Unique:  []string{"themes"},
		Missing: []string{"analytics"},
		Gaps:    []analysis.FeatureGap{{Feature: "analytics", Importance: "critical", Coverage: 0.85}},
	}
	position := analysis.MarketPosition{Positioning: "follower", CompetitorCount: 12}
	pricing := &analysis.PricingPosition{AboveCount: 1, BelowCount: 8}

	swot := s.analyzer.SWOT(features, position, pricing)

	s.Contains(swot.Strengths[0], "themes")
	s.Contains(swot.Weaknesses[0], "analytics")
	s.NotEmpty(swot.Opportunities)
	s.Contains(swot.Threats, "Dense competitor field compresses differentiation")
	s.Contains(swot.Threats, "Most competitors price below this product")
}

func (s *StrategySuite) TestSWOTDefaultStrength() {
	swot := s.analyzer.SWOT(&analysis.FeatureAnalysis{}, analysis.MarketPosition{CompetitorCount: 5}, nil)
	s.NotEmpty(swot.Strengths)
}

func (s *StrategySuite) TestPositioningStrategiesPerBucket() {
	leader := s.analyzer.Positioning(analysis.MarketPosition{Positioning: "leader"})
	s.Len(leader.Strategies, 3)
	s.Contains(leader.Strategies[0], "innovation")

	challenger := s.analyzer.Positioning(analysis.MarketPosition{Positioning: "challenger"})
	s.Contains(challenger.Strategies[0], "Differentiate")

	unknown := s.analyzer.Positioning(analysis.MarketPosition{Positioning: "weird"})
	s.Equal(s.analyzer.Positioning(analysis.MarketPosition{Positioning: "niche"}).Strategies, unknown.Strategies)
}

func assertAnError() error {
	return context.DeadlineExceeded
}
