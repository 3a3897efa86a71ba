package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

type stubOracle struct {
	similar []*product.SimilarProduct
	err     error
}

func (s *stubOracle) FindCompetingProducts(context.Context, string, int, float64) ([]*product.SimilarProduct, error) {
	return s.similar, s.err
}

func (s *stubOracle) Ping(context.Context) error { return nil }

type AnalyzerSuite struct {
	suite.Suite
	oracle   *stubOracle
	analyzer Analyzer
}

func (s *AnalyzerSuite) SetupTest() {
	s.oracle = &stubOracle{}
	s.analyzer = NewAnalyzer(s.oracle, logging.NewNopLogger())
}

func TestAnalyzerSuite(t *testing.T) {
	suite.Run(t, new(AnalyzerSuite))
}

func (s *AnalyzerSuite) TestWeightTablesSumToOne() {
	for analysisType, w := range weightTable {
		s.InDelta(1.0, w.feature+w.pricing+w.market+w.semantic, 1e-9, string(analysisType))
	}
}

func productA() *product.CompetitorProduct {
	return &product.CompetitorProduct{
		ID:       "prod-a",
		Name:     "Alpha",
		Category: "widgets",
		Price:    100,
		Features: []string{"x", "y", "z"},
	}
}

func productB() *product.CompetitorProduct {
	return &product.CompetitorProduct{
		ID:       "prod-b",
		Name:     "Beta",
		Category: "widgets",
		Price:    120,
		Features: []string{"y", "z", "w"},
	}
}

func (s *AnalyzerSuite) TestFeatureBasedWeighting() {
	result, err := s.analyzer.Analyze(context.Background(), productA(), productB(), analysis.TypeFeatureBased)
	s.Require().NoError(err)

	// feature 2/4, pricing 1-20/110, market 1 (same category), semantic 0.
	s.InDelta(0.5, result.Feature.Score, 1e-9)
	s.InDelta(1-20.0/110.0, result.Pricing.Score, 1e-9)
	s.InDelta(1, result.Market.Score, 1e-9)
	s.InDelta(0, result.Semantic.Score, 1e-9)

	expected := 0.5*0.7 + (1-20.0/110.0)*0.1 + 1*0.1 + 0*0.1
	s.InDelta(expected, result.OverallScore, 1e-9)
}

func (s *AnalyzerSuite) TestDimensionDetails() {
	result, err := s.analyzer.Analyze(context.Background(), productA(), productB(), analysis.TypeComprehensive)
	s.Require().NoError(err)

	s.Equal([]string{"y", "z"}, result.Feature.Matching)
	s.Equal([]string{"x"}, result.Feature.UniqueToSource)
	s.Equal([]string{"w"}, result.Feature.UniqueToTarget)
	s.Equal("lower", result.Pricing.Comparison)
	s.True(result.Market.SameCategory)
	s.Contains(result.Market.Advantages, "lower price point")
}

func (s *AnalyzerSuite) TestPricingSimilarUnderTenPercent() {
	a, b := productA(), productB()
	b.Price = 105

	result, err := s.analyzer.Analyze(context.Background(), a, b, analysis.TypeComprehensive)
	s.Require().NoError(err)
	s.Equal("similar", result.Pricing.Comparison)
}

func (s *AnalyzerSuite) TestZeroPricesTreatedAsSimilar() {
	a, b := productA(), productB()
	a.Price, b.Price = 0, 0

	result, err := s.analyzer.Analyze(context.Background(), a, b, analysis.TypeComprehensive)
	s.Require().NoError(err)
	s.InDelta(1, result.Pricing.Score, 1e-9)
	s.Equal("similar", result.Pricing.Comparison)
}

func (s *AnalyzerSuite) TestSemanticUsesOracleScore() {
	s.oracle.similar = []*product.SimilarProduct{
		{ID: "prod-c", Similarity: 0.95},
		{ID: "prod-b", Similarity: 0.72},
	}

	result, err := s.analyzer.Analyze(context.Background(), productA(), productB(), analysis.TypeSemantic)
	s.Require().NoError(err)
	s.InDelta(0.72, result.Semantic.OracleScore, 1e-9)
	s.InDelta(0.72, result.Semantic.Score, 1e-9)
}

func (s *AnalyzerSuite) TestSemanticTargetAbsentScoresZero() {
	s.oracle.similar = []*product.SimilarProduct{{ID: "prod-c", Similarity: 0.95}}

	result, err := s.analyzer.Analyze(context.Background(), productA(), productB(), analysis.TypeSemantic)
	s.Require().NoError(err)
	s.Zero(result.Semantic.Score)
}

func (s *AnalyzerSuite) TestOracleFailureDegradesNotFails() {
	s.oracle.err = errors.New(errors.ErrCodeOracleUnavailable, "down")

	result, err := s.analyzer.Analyze(context.Background(), productA(), productB(), analysis.TypeSemantic)
	s.Require().NoError(err)
	s.Zero(result.Semantic.OracleScore)
	s.Zero(result.Semantic.Score)
}

func (s *AnalyzerSuite) TestDescriptionOverlap() {
	a, b := productA(), productB()
	a.Description = "realtime analytics dashboard for retail teams"
	b.Description = "analytics dashboard with realtime alerts"

	result, err := s.analyzer.Analyze(context.Background(), a, b, analysis.TypeComprehensive)
	s.Require().NoError(err)
	s.Greater(result.Semantic.DescriptionOverlap, 0.0)
	s.Contains(result.Semantic.SharedKeywords, "analytics")
	s.Contains(result.Semantic.SharedKeywords, "realtime")
}

func (s *AnalyzerSuite) TestRelationshipDirectCompetitor() {
	a, b := productA(), productB()
	b.Features = []string{"x", "y", "z"}
	b.Price = 100
	s.oracle.similar = []*product.SimilarProduct{{ID: "prod-b", Similarity: 0.9}}

	result, err := s.analyzer.Analyze(context.Background(), a, b, analysis.TypeComprehensive)
	s.Require().NoError(err)
	s.Equal(analysis.RelationshipDirectCompetitor, result.Relationship)
}

func (s *AnalyzerSuite) TestRelationshipSubstitute() {
	a, b := productA(), productB()
	b.Features = []string{"q", "r", "s", "t", "u", "v", "w"}
	b.Price = 900

	result, err := s.analyzer.Analyze(context.Background(), a, b, analysis.TypeFeatureBased)
	s.Require().NoError(err)
	s.Less(result.Feature.Score, 0.3)
	s.Equal(analysis.RelationshipSubstitute, result.Relationship)
}

func (s *AnalyzerSuite) TestRelationshipComplement() {
	a, b := productA(), productB()
	a.Category = "widgets"
	b.Category = "gadgets"
	a.Features = []string{"x", "y"}
	b.Features = []string{"y", "w"}

	result, err := s.analyzer.Analyze(context.Background(), a, b, analysis.TypeFeatureBased)
	s.Require().NoError(err)
	s.Equal(analysis.RelationshipComplement, result.Relationship)
}

func (s *AnalyzerSuite) TestConfidenceWithinBounds() {
	result, err := s.analyzer.Analyze(context.Background(), productA(), productB(), analysis.TypeComprehensive)
	s.Require().NoError(err)
	s.GreaterOrEqual(result.Confidence, 0.3)
	s.LessOrEqual(result.Confidence, 0.95)
}

func (s *AnalyzerSuite) TestInvalidTypeRejected() {
	_, err := s.analyzer.Analyze(context.Background(), productA(), productB(), analysis.Type("vibes"))
	s.True(errors.IsCode(err, errors.ErrCodeAnalysisTypeInvalid))
}

func (s *AnalyzerSuite) TestNilProductRejected() {
	_, err := s.analyzer.Analyze(context.Background(), productA(), nil, analysis.TypeComprehensive)
	s.True(errors.IsCode(err, errors.ErrCodeValidation))
}

func (s *AnalyzerSuite) TestRecordMetadataPopulated() {
	result, err := s.analyzer.Analyze(context.Background(), productA(), productB(), analysis.TypeComprehensive)
	s.Require().NoError(err)
	s.NotEmpty(result.ID)
	s.Equal("prod-a", result.SourceProductID)
	s.Equal("prod-b", result.TargetProductID)
	s.Equal(analysis.SchemaVersion, result.SchemaVersion)
	s.False(result.AnalyzedAt.IsZero())
}
