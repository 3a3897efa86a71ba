package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/pricing"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

type stubEngine struct {
	analyzeFn func(ctx context.Context, sourceID, targetID string, t analysis.Type) (*analysis.ProductSimilarityAnalysis, error)
	batchFn   func(ctx context.Context, pairs []engine.ProductPair, t analysis.Type) ([]*analysis.ProductSimilarityAnalysis, error)
	reportFn  func(ctx context.Context, productID string) (*analysis.ProductIntelligenceReport, error)
	clusterFn func(ctx context.Context, ids []string, m analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error)
	healthFn  func(ctx context.Context) (*engine.HealthStatus, error)
}

func (s *stubEngine) AnalyzeProductSimilarity(ctx context.Context, sourceID, targetID string, t analysis.Type) (*analysis.ProductSimilarityAnalysis, error) {
	return s.analyzeFn(ctx, sourceID, targetID, t)
}

func (s *stubEngine) GenerateIntelligenceReport(ctx context.Context, productID string) (*analysis.ProductIntelligenceReport, error) {
	return s.reportFn(ctx, productID)
}

func (s *stubEngine) PerformProductClustering(ctx context.Context, ids []string, m analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error) {
	return s.clusterFn(ctx, ids, m)
}

func (s *stubEngine) BatchAnalyzeSimilarities(ctx context.Context, pairs []engine.ProductPair, t analysis.Type) ([]*analysis.ProductSimilarityAnalysis, error) {
	return s.batchFn(ctx, pairs, t)
}

func (s *stubEngine) GenerateSWOTAnalysis(context.Context, string) (*analysis.SWOTAnalysis, error) {
	return &analysis.SWOTAnalysis{Strengths: []string{"reach"}}, nil
}

func (s *stubEngine) GenerateCompetitivePositioning(context.Context, string) (*analysis.PositioningRecommendation, error) {
	return &analysis.PositioningRecommendation{Current: "leader"}, nil
}

func (s *stubEngine) HealthCheck(ctx context.Context) (*engine.HealthStatus, error) {
	return s.healthFn(ctx)
}

type stubPricingStore struct {
	cleanupFn func(ctx context.Context, retention time.Duration) (int64, error)
}

func (s *stubPricingStore) RecordDataPoint(context.Context, *pricing.DataPoint) error { return nil }

func (s *stubPricingStore) History(context.Context, string, time.Time) ([]*pricing.DataPoint, error) {
	return nil, nil
}

func (s *stubPricingStore) LatestPrices(context.Context, []string) (map[string]float64, error) {
	return nil, nil
}

func (s *stubPricingStore) SaveAnalysis(context.Context, *pricing.Analysis) error { return nil }

func (s *stubPricingStore) CleanupExpired(ctx context.Context, retention time.Duration) (int64, error) {
	return s.cleanupFn(ctx, retention)
}

func (s *stubPricingStore) Ping(context.Context) error { return nil }

type CLISuite struct {
	suite.Suite
	engine *stubEngine
	store  *stubPricingStore
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.engine = &stubEngine{
		analyzeFn: func(_ context.Context, sourceID, targetID string, t analysis.Type) (*analysis.ProductSimilarityAnalysis, error) {
			return &analysis.ProductSimilarityAnalysis{
				ID:              "analysis-1",
				SourceProductID: sourceID,
				TargetProductID: targetID,
				Type:            t,
			}, nil
		},
		batchFn: func(_ context.Context, pairs []engine.ProductPair, _ analysis.Type) ([]*analysis.ProductSimilarityAnalysis, error) {
			out := make([]*analysis.ProductSimilarityAnalysis, len(pairs))
			for i, p := range pairs {
				out[i] = &analysis.ProductSimilarityAnalysis{SourceProductID: p.SourceID, TargetProductID: p.TargetID}
			}
			return out, nil
		},
		reportFn: func(_ context.Context, productID string) (*analysis.ProductIntelligenceReport, error) {
			return &analysis.ProductIntelligenceReport{ID: "report-1", ProductID: productID}, nil
		},
		clusterFn: func(_ context.Context, ids []string, m analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error) {
			return &analysis.ProductClusterAnalysis{Method: m}, nil
		},
		healthFn: func(context.Context) (*engine.HealthStatus, error) {
			return &engine.HealthStatus{Healthy: true}, nil
		},
	}
	s.store = &stubPricingStore{
		cleanupFn: func(context.Context, time.Duration) (int64, error) { return 42, nil },
	}
}

func (s *CLISuite) run(args ...string) (string, error) {
	root := NewRootCommand(Dependencies{
		Engine:  s.engine,
		Pricing: s.store,
		Logger:  logging.NewNopLogger(),
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (s *CLISuite) TestAnalyze() {
	out, err := s.run("analyze", "--source", "prod-a", "--target", "prod-b")

	s.Require().NoError(err)

	var result analysis.ProductSimilarityAnalysis
	s.Require().NoError(json.Unmarshal([]byte(out), &result))
	s.Equal("prod-a", result.SourceProductID)
	s.Equal(analysis.TypeComprehensive, result.Type)
}

func (s *CLISuite) TestAnalyzeRequiresFlags() {
	_, err := s.run("analyze", "--source", "prod-a")
	s.Require().Error(err)
}

func (s *CLISuite) TestAnalyzeBatchParsesPairs() {
	out, err := s.run("analyze", "batch", "a:b", "a:c")

	s.Require().NoError(err)
	s.Contains(out, `"requested": 2`)
	s.Contains(out, `"succeeded": 2`)
}

func (s *CLISuite) TestAnalyzeBatchRejectsMalformedPair() {
	_, err := s.run("analyze", "batch", "a:b", "nodelimiter")

	s.Require().Error(err)
	s.Equal(errors.ErrCodeValidation, errors.GetCode(err))
}

func (s *CLISuite) TestReport() {
	out, err := s.run("report", "prod-a")

	s.Require().NoError(err)
	s.Contains(out, "report-1")
}

func (s *CLISuite) TestReportSWOT() {
	out, err := s.run("report", "swot", "prod-a")

	s.Require().NoError(err)
	s.Contains(out, "reach")
}

func (s *CLISuite) TestClusterMethodFlag() {
	var seen analysis.ClusterMethod
	s.engine.clusterFn = func(_ context.Context, _ []string, m analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error) {
		seen = m
		return &analysis.ProductClusterAnalysis{Method: m}, nil
	}

	_, err := s.run("cluster", "a", "b", "--method", "market_based")

	s.Require().NoError(err)
	s.Equal(analysis.ClusterMarketBased, seen)
}

func (s *CLISuite) TestPricingCleanup() {
	var seenRetention time.Duration
	s.store.cleanupFn = func(_ context.Context, retention time.Duration) (int64, error) {
		seenRetention = retention
		return 7, nil
	}

	out, err := s.run("pricing", "cleanup", "--retention", "720h")

	s.Require().NoError(err)
	s.Equal(720*time.Hour, seenRetention)
	s.Contains(out, `"removed": 7`)
}

func (s *CLISuite) TestHealthUnhealthyExitsNonZero() {
	s.engine.healthFn = func(context.Context) (*engine.HealthStatus, error) {
		return &engine.HealthStatus{Healthy: false, Components: map[string]string{"oracle": "down"}}, nil
	}

	out, err := s.run("health")

	s.Require().Error(err)
	s.Contains(out, "oracle")
}
