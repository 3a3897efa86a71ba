package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/engine"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MarketEdge-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

type mockEngine struct {
	analyzeFn     func(ctx context.Context, sourceID, targetID string, t analysis.Type) (*analysis.ProductSimilarityAnalysis, error)
	reportFn      func(ctx context.Context, productID string) (*analysis.ProductIntelligenceReport, error)
	clusterFn     func(ctx context.Context, ids []string, m analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error)
	batchFn       func(ctx context.Context, pairs []engine.ProductPair, t analysis.Type) ([]*analysis.ProductSimilarityAnalysis, error)
	swotFn        func(ctx context.Context, productID string) (*analysis.SWOTAnalysis, error)
	positioningFn func(ctx context.Context, productID string) (*analysis.PositioningRecommendation, error)
	healthFn      func(ctx context.Context) (*engine.HealthStatus, error)
}

func (m *mockEngine) AnalyzeProductSimilarity(ctx context.Context, sourceID, targetID string, t analysis.Type) (*analysis.ProductSimilarityAnalysis, error) {
	return m.analyzeFn(ctx, sourceID, targetID, t)
}

func (m *mockEngine) GenerateIntelligenceReport(ctx context.Context, productID string) (*analysis.ProductIntelligenceReport, error) {
	return m.reportFn(ctx, productID)
}

func (m *mockEngine) PerformProductClustering(ctx context.Context, ids []string, method analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error) {
	return m.clusterFn(ctx, ids, method)
}

func (m *mockEngine) BatchAnalyzeSimilarities(ctx context.Context, pairs []engine.ProductPair, t analysis.Type) ([]*analysis.ProductSimilarityAnalysis, error) {
	return m.batchFn(ctx, pairs, t)
}

func (m *mockEngine) GenerateSWOTAnalysis(ctx context.Context, productID string) (*analysis.SWOTAnalysis, error) {
	return m.swotFn(ctx, productID)
}

func (m *mockEngine) GenerateCompetitivePositioning(ctx context.Context, productID string) (*analysis.PositioningRecommendation, error) {
	return m.positioningFn(ctx, productID)
}

func (m *mockEngine) HealthCheck(ctx context.Context) (*engine.HealthStatus, error) {
	return m.healthFn(ctx)
}

type RouterSuite struct {
	suite.Suite
	engine *mockEngine
	router nethttp.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.engine = &mockEngine{
		analyzeFn: func(_ context.Context, sourceID, targetID string, t analysis.Type) (*analysis.ProductSimilarityAnalysis, error) {
			return &analysis.ProductSimilarityAnalysis{
				ID:              "analysis-1",
				SourceProductID: sourceID,
				TargetProductID: targetID,
				Type:            t,
			}, nil
		},
		reportFn: func(_ context.Context, productID string) (*analysis.ProductIntelligenceReport, error) {
			return &analysis.ProductIntelligenceReport{ID: "report-1", ProductID: productID}, nil
		},
		clusterFn: func(_ context.Context, _ []string, method analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error) {
			return &analysis.ProductClusterAnalysis{ID: "cluster-1", Method: method}, nil
		},
		batchFn: func(_ context.Context, pairs []engine.ProductPair, _ analysis.Type) ([]*analysis.ProductSimilarityAnalysis, error) {
			out := make([]*analysis.ProductSimilarityAnalysis, 0, len(pairs))
			for _, p := range pairs {
				out = append(out, &analysis.ProductSimilarityAnalysis{
					SourceProductID: p.SourceID,
					TargetProductID: p.TargetID,
				})
			}
			return out, nil
		},
		swotFn: func(context.Context, string) (*analysis.SWOTAnalysis, error) {
			return &analysis.SWOTAnalysis{Strengths: []string{"breadth"}}, nil
		},
		positioningFn: func(context.Context, string) (*analysis.PositioningRecommendation, error) {
			return &analysis.PositioningRecommendation{Current: "challenger"}, nil
		},
		healthFn: func(context.Context) (*engine.HealthStatus, error) {
			return &engine.HealthStatus{Healthy: true}, nil
		},
	}

	collector, err := prometheus.NewCollector(prometheus.CollectorConfig{Namespace: "medge_http_test"}, logging.NewNopLogger())
	s.Require().NoError(err)

	s.router = NewRouter(RouterConfig{
		AnalysisHandler: handlers.NewAnalysisHandler(s.engine),
		ReportHandler:   handlers.NewReportHandler(s.engine),
		ClusterHandler:  handlers.NewClusterHandler(s.engine),
		HealthHandler:   handlers.NewHealthHandler(s.engine, "test"),
		Logger:          logging.NewNopLogger(),
		Metrics:         prometheus.NewAppMetrics(collector),
		Collector:       collector,
		Mode:            "test",
	})
}

func (s *RouterSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *nethttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestLiveness() {
	rec := s.do(nethttp.MethodGet, "/healthz", "")
	s.Equal(nethttp.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "alive")
}

func (s *RouterSuite) TestReadinessDegraded() {
	s.engine.healthFn = func(context.Context) (*engine.HealthStatus, error) {
		return &engine.HealthStatus{Healthy: false, Components: map[string]string{"oracle": "down"}}, nil
	}

	rec := s.do(nethttp.MethodGet, "/readyz", "")
	s.Equal(nethttp.StatusServiceUnavailable, rec.Code)
}

func (s *RouterSuite) TestAnalyzeSimilarity() {
	rec := s.do(nethttp.MethodPost, "/api/v1/similarity",
		`{"source_id":"prod-a","target_id":"prod-b"}`)

	s.Equal(nethttp.StatusOK, rec.Code)

	var result analysis.ProductSimilarityAnalysis
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	s.Equal("prod-a", result.SourceProductID)
	// Omitted type defaults to comprehensive.
	s.Equal(analysis.TypeComprehensive, result.Type)
}

func (s *RouterSuite) TestAnalyzeSimilarityMissingBody() {
	rec := s.do(nethttp.MethodPost, "/api/v1/similarity", `{"source_id":"prod-a"}`)

	s.Equal(nethttp.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "COMMON_002")
}

func (s *RouterSuite) TestErrorEnvelopeMapsCode() {
	s.engine.reportFn = func(_ context.Context, productID string) (*analysis.ProductIntelligenceReport, error) {
		return nil, errors.Newf(errors.ErrCodeProductNotFound, "product %q not found", productID)
	}

	rec := s.do(nethttp.MethodPost, "/api/v1/reports/prod-x", "")

	s.Equal(nethttp.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "PRD_001")
}

func (s *RouterSuite) TestServerErrorIsMasked() {
	s.engine.reportFn = func(context.Context, string) (*analysis.ProductIntelligenceReport, error) {
		return nil, errors.New(errors.ErrCodeDatabaseError, "bolt handshake failed at 10.0.0.3")
	}

	rec := s.do(nethttp.MethodPost, "/api/v1/reports/prod-a", "")

	s.Equal(nethttp.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "10.0.0.3")
	s.Contains(rec.Body.String(), "internal server error")
}

func (s *RouterSuite) TestBatchCounts() {
	rec := s.do(nethttp.MethodPost, "/api/v1/similarity/batch",
		`{"pairs":[{"source_id":"a","target_id":"b"},{"source_id":"a","target_id":"c"}]}`)

	s.Equal(nethttp.StatusOK, rec.Code)

	var resp handlers.BatchResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(2, resp.Requested)
	s.Equal(2, resp.Succeeded)
}

func (s *RouterSuite) TestClusterDefaultsMethod() {
	var seen analysis.ClusterMethod
	s.engine.clusterFn = func(_ context.Context, _ []string, method analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error) {
		seen = method
		return &analysis.ProductClusterAnalysis{Method: method}, nil
	}

	rec := s.do(nethttp.MethodPost, "/api/v1/clusters", `{"product_ids":["a","b"]}`)

	s.Equal(nethttp.StatusOK, rec.Code)
	s.Equal(analysis.ClusterFeatureBased, seen)
}

func (s *RouterSuite) TestSWOTAndPositioningRoutes() {
	rec := s.do(nethttp.MethodGet, "/api/v1/reports/prod-a/swot", "")
	s.Equal(nethttp.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "breadth")

	rec = s.do(nethttp.MethodGet, "/api/v1/reports/prod-a/positioning", "")
	s.Equal(nethttp.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "challenger")
}

func (s *RouterSuite) TestMetricsEndpoint() {
	// Generate one request first so a counter exists.
	s.do(nethttp.MethodGet, "/healthz", "")

	rec := s.do(nethttp.MethodGet, "/metrics", "")
	s.Equal(nethttp.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "medge_http_test_http_requests_total")
}
