// Package engine is the stateless orchestration façade over the analyzers:
// pairwise similarity analysis, full intelligence reports, clustering, batch
// runs, and the service health check.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/MarketEdge-Intelligence/internal/application/clustering"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/competitive"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/feature"
	appricing "github.com/turtacn/MarketEdge-Intelligence/internal/application/pricing"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/similarity"
	"github.com/turtacn/MarketEdge-Intelligence/internal/application/strategy"
	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/pricing"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// ProductPair is one batch-analysis work item.
type ProductPair struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// HealthStatus is the health-check report.
type HealthStatus struct {
	Healthy        bool              `json:"healthy"`
	ProductCount   int64             `json:"product_count"`
	RecentAnalyses int64             `json:"recent_analyses"`
	Components     map[string]string `json:"components"`
	CheckedAt      time.Time         `json:"checked_at"`
}

// EventPublisher is the engine's port for lifecycle events. Publication is
// best-effort; failures never fail the operation that triggered them.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, a *analysis.ProductSimilarityAnalysis) error
	PublishReportGenerated(ctx context.Context, r *analysis.ProductIntelligenceReport) error
}

// ReportArchive is the engine's port for durable report copies.
type ReportArchive interface {
	StoreReport(ctx context.Context, report *analysis.ProductIntelligenceReport) (string, error)
}

// Engine exposes the public analysis operations. It holds no mutable state;
// every invocation is independent.
type Engine interface {
	AnalyzeProductSimilarity(ctx context.Context, sourceID, targetID string, analysisType analysis.Type) (*analysis.ProductSimilarityAnalysis, error)
	GenerateIntelligenceReport(ctx context.Context, productID string) (*analysis.ProductIntelligenceReport, error)
	PerformProductClustering(ctx context.Context, productIDs []string, method analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error)
	BatchAnalyzeSimilarities(ctx context.Context, pairs []ProductPair, analysisType analysis.Type) ([]*analysis.ProductSimilarityAnalysis, error)
	GenerateSWOTAnalysis(ctx context.Context, productID string) (*analysis.SWOTAnalysis, error)
	GenerateCompetitivePositioning(ctx context.Context, productID string) (*analysis.PositioningRecommendation, error)
	HealthCheck(ctx context.Context) (*HealthStatus, error)
}

// Dependencies carries the engine's constructor-injected collaborators.
type Dependencies struct {
	Products     product.Repository
	Analyses     analysis.Repository
	Oracle       product.SimilarityOracle
	Similarity   similarity.Analyzer
	Features     feature.Analyzer
	Pricing      appricing.Analyzer
	Clustering   clustering.Analyzer
	Competitive  competitive.Analyzer
	Strategy     strategy.Analyzer
	PricingStore pricing.Store
	Cache        redis.Cache
	Archive      ReportArchive
	Events       EventPublisher
	Metrics      *prometheus.AppMetrics
	Logger       logging.Logger
}

type engineImpl struct {
	cfg  config.EngineConfig
	deps Dependencies
	log  logging.Logger
}

// New constructs the engine. Archive, Events, Cache, PricingStore, and
// Metrics may be nil; the matching side effects are skipped.
func New(cfg config.EngineConfig, deps Dependencies) Engine {
	return &engineImpl{
		cfg:  cfg,
		deps: deps,
		log:  deps.Logger,
	}
}

// AnalyzeProductSimilarity fetches both products, runs the dimension
// analysis, attaches strategic implications, persists, and returns. A
// persistence failure after a successful analysis is logged but does not
// invalidate the in-memory result.
func (e *engineImpl) AnalyzeProductSimilarity(ctx context.Context, sourceID, targetID string, analysisType analysis.Type) (*analysis.ProductSimilarityAnalysis, error) {
	started := time.Now()

	if sourceID == "" || targetID == "" {
		return nil, errors.NewValidation("source and target product ids are required")
	}
	if err := analysis.ValidateType(analysisType); err != nil {
		return nil, err
	}

	source, err := e.deps.Products.FindByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := e.deps.Products.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	result, err := e.deps.Similarity.Analyze(ctx, source, target, analysisType)
	if e.deps.Metrics != nil {
		e.deps.Metrics.RecordAnalysis(string(analysisType), time.Since(started), err)
	}
	if err != nil {
		return nil, err
	}

	result.Implications, result.InsightSummary = e.deps.Strategy.Implications(ctx, source, target, result)

	if err := e.deps.Analyses.SaveSimilarityAnalysis(ctx, result); err != nil {
		e.log.Error("Failed to persist similarity analysis, returning in-memory result",
			logging.String("analysis_id", result.ID),
			logging.Err(err))
		if e.deps.Metrics != nil {
			e.deps.Metrics.PersistFailuresTotal.WithLabelValues("similarity_analysis").Inc()
		}
	} else {
		e.publishAnalysis(ctx, result)
	}

	return result, nil
}

// GenerateIntelligenceReport serves a cached report when one is fresh,
// otherwise assembles, persists, and caches a new one.
func (e *engineImpl) GenerateIntelligenceReport(ctx context.Context, productID string) (*analysis.ProductIntelligenceReport, error) {
	started := time.Now()
	if productID == "" {
		return nil, errors.NewValidation("product id is required")
	}

	loader := func(ctx context.Context) (any, error) {
		return e.buildReport(ctx, productID)
	}

	var report analysis.ProductIntelligenceReport
	var err error
	if e.deps.Cache != nil {
		err = e.deps.Cache.GetOrSet(ctx, reportCacheKey(productID), &report, 0, loader)
	} else {
		var built any
		built, err = loader(ctx)
		if err == nil {
			report = *built.(*analysis.ProductIntelligenceReport)
		}
	}

	if e.deps.Metrics != nil {
		e.deps.Metrics.RecordReport(time.Since(started), err)
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// buildReport assembles and persists one fresh report.
func (e *engineImpl) buildReport(ctx context.Context, productID string) (*analysis.ProductIntelligenceReport, error) {
	c, err := e.assemble(ctx, productID)
	if err != nil {
		return nil, err
	}

	report := &analysis.ProductIntelligenceReport{
		ID:              uuid.New().String(),
		ProductID:       productID,
		MarketPosition:  c.position,
		Landscape:       c.landscape,
		Threats:         c.threats,
		Recommendations: e.deps.Strategy.Recommendations(c.features, c.pricingPos, c.threats),
		Confidence:      e.deps.Competitive.ReportConfidence(c.componentCount()),
		GeneratedAt:     time.Now().UTC(),
		SchemaVersion:   analysis.SchemaVersion,
	}
	if c.features != nil {
		report.Features = *c.features
	}
	if c.pricingPos != nil {
		report.Pricing = *c.pricingPos
	}
	report.Opportunities = c.opportunities

	e.persistPricing(ctx, c)

	if err := e.deps.Analyses.SaveReport(ctx, report); err != nil {
		e.log.Error("Failed to persist intelligence report, returning in-memory result",
			logging.String("report_id", report.ID),
			logging.Err(err))
		if e.deps.Metrics != nil {
			e.deps.Metrics.PersistFailuresTotal.WithLabelValues("report").Inc()
		}
	} else {
		e.archiveReport(ctx, report)
		e.publishReport(ctx, report)
	}

	return report, nil
}

// reportComponents is the intermediate state shared by report, SWOT, and
// positioning assembly.
type reportComponents struct {
	focal         *product.CompetitorProduct
	similar       []*product.SimilarProduct
	competitors   []*product.CompetitorProduct
	features      *analysis.FeatureAnalysis
	opportunities []analysis.InnovationOpportunity
	pricingPos    *analysis.PricingPosition
	position      analysis.MarketPosition
	landscape     analysis.CompetitiveLandscape
	threats       analysis.ThreatAssessment
}

func (c *reportComponents) componentCount() int {
	count := 2 // position and threats are always derivable
	if c.features != nil {
		count++
	}
	if c.pricingPos != nil {
		count++
	}
	if len(c.similar) > 0 {
		count++
	}
	return count
}

// assemble runs the read side of report generation. The oracle failing
// degrades the report to an empty competitive field instead of failing it.
func (e *engineImpl) assemble(ctx context.Context, productID string) (*reportComponents, error) {
	focal, err := e.deps.Products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	c := &reportComponents{focal: focal}

	c.similar, err = e.deps.Oracle.FindCompetingProducts(ctx, productID, e.cfg.SimilarLimit, e.cfg.SimilarMinScore)
	if err != nil {
		e.log.Warn("Similarity oracle unavailable, report degrades to empty landscape",
			logging.String("product_id", productID),
			logging.Err(err))
		if e.deps.Metrics != nil {
			e.deps.Metrics.OracleFailuresTotal.WithLabelValues().Inc()
		}
		c.similar = nil
	}

	// Feature analysis and the competitor fetch for pricing are
	// independent reads; run them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		features, opportunities, ferr := e.deps.Features.Analyze(gctx, focal, c.similar)
		if ferr != nil {
			e.log.Warn("Feature analysis degraded", logging.Err(ferr))
			return nil
		}
		c.features = features
		c.opportunities = opportunities
		return nil
	})
	g.Go(func() error {
		competitors, cerr := e.fetchCompetitors(gctx, c.similar)
		if cerr != nil {
			e.log.Warn("Competitor fetch for pricing degraded", logging.Err(cerr))
			return nil
		}
		c.competitors = competitors
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.applyLatestPrices(ctx, c.competitors)

	pricingPos, err := e.deps.Pricing.Analyze(ctx, focal, c.competitors)
	if err != nil {
		e.log.Warn("Pricing analysis degraded", logging.Err(err))
	} else {
		c.pricingPos = pricingPos
	}

	c.landscape = e.deps.Competitive.Landscape(c.similar)
	c.position = e.deps.Competitive.MarketPosition(len(c.similar))
	c.threats = e.deps.Competitive.AssessThreats(c.similar)
	return c, nil
}

func (e *engineImpl) fetchCompetitors(ctx context.Context, similar []*product.SimilarProduct) ([]*product.CompetitorProduct, error) {
	if len(similar) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(similar))
	for _, sp := range similar {
		ids = append(ids, sp.ID)
	}
	return e.deps.Products.FindByIDs(ctx, ids)
}

// applyLatestPrices overlays fresher observed prices from the pricing store
// onto the competitor snapshots. Best-effort.
func (e *engineImpl) applyLatestPrices(ctx context.Context, competitors []*product.CompetitorProduct) {
	if e.deps.PricingStore == nil || len(competitors) == 0 {
		return
	}
	ids := make([]string, 0, len(competitors))
	for _, c := range competitors {
		ids = append(ids, c.ID)
	}
	latest, err := e.deps.PricingStore.LatestPrices(ctx, ids)
	if err != nil {
		e.log.Warn("Latest price overlay unavailable", logging.Err(err))
		return
	}
	for _, c := range competitors {
		if price, ok := latest[c.ID]; ok && price > 0 {
			c.Price = price
		}
	}
}

// persistPricing appends the focal observation and pricing analysis to the
// time-series store. Best-effort.
func (e *engineImpl) persistPricing(ctx context.Context, c *reportComponents) {
	if e.deps.PricingStore == nil || c.pricingPos == nil {
		return
	}

	now := time.Now().UTC()
	if c.focal.Price > 0 {
		point := &pricing.DataPoint{
			ProductID:  c.focal.ID,
			Price:      c.focal.Price,
			Currency:   c.focal.Currency,
			ObservedAt: now,
		}
		if err := e.deps.PricingStore.RecordDataPoint(ctx, point); err != nil {
			e.log.Warn("Failed to record price observation", logging.Err(err))
		}
	}

	record := &pricing.Analysis{
		ID:           uuid.New().String(),
		ProductID:    c.focal.ID,
		Positioning:  c.pricingPos.Positioning,
		OwnPrice:     c.pricingPos.OwnPrice,
		MarketMedian: c.pricingPos.MarketMedian,
		MarketMean:   c.pricingPos.MarketMean,
		SampleSize:   c.pricingPos.AboveCount + c.pricingPos.BelowCount,
		AnalyzedAt:   now,
	}
	if err := e.deps.PricingStore.SaveAnalysis(ctx, record); err != nil {
		e.log.Warn("Failed to persist pricing analysis", logging.Err(err))
		if e.deps.Metrics != nil {
			e.deps.Metrics.PersistFailuresTotal.WithLabelValues("pricing_analysis").Inc()
		}
	}
}

// PerformProductClustering fetches the products and runs one clustering
// pass. Results are recomputed per request, not persisted.
func (e *engineImpl) PerformProductClustering(ctx context.Context, productIDs []string, method analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error) {
	started := time.Now()

	if len(productIDs) == 0 {
		return nil, errors.NewValidation("at least one product id is required")
	}
	if err := analysis.ValidateClusterMethod(method); err != nil {
		return nil, err
	}

	products, err := e.deps.Products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.New(errors.ErrCodeProductNotFound, "none of the requested products resolve")
	}

	result, err := e.deps.Clustering.Cluster(ctx, products, method)
	if e.deps.Metrics != nil {
		e.deps.Metrics.RecordClustering(string(method), time.Since(started), err)
	}
	return result, err
}

// BatchAnalyzeSimilarities runs the pairs strictly sequentially with the
// configured delay between items. The delay protects external rate limits
// and must not be parallelized away. Failed pairs are logged and skipped.
func (e *engineImpl) BatchAnalyzeSimilarities(ctx context.Context, pairs []ProductPair, analysisType analysis.Type) ([]*analysis.ProductSimilarityAnalysis, error) {
	if err := analysis.ValidateType(analysisType); err != nil {
		return nil, err
	}

	var results []*analysis.ProductSimilarityAnalysis
	for i, pair := range pairs {
		if i > 0 && e.cfg.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(e.cfg.BatchDelay):
			}
		}

		result, err := e.AnalyzeProductSimilarity(ctx, pair.SourceID, pair.TargetID, analysisType)
		if err != nil {
			e.log.Warn("Batch item failed, continuing",
				logging.String("source_id", pair.SourceID),
				logging.String("target_id", pair.TargetID),
				logging.Err(err))
			if e.deps.Metrics != nil {
				e.deps.Metrics.BatchItemsTotal.WithLabelValues("failure").Inc()
			}
			continue
		}
		if e.deps.Metrics != nil {
			e.deps.Metrics.BatchItemsTotal.WithLabelValues("success").Inc()
		}
		results = append(results, result)
	}

	e.log.Info("Batch analysis finished",
		logging.Int("requested", len(pairs)),
		logging.Int("succeeded", len(results)))
	return results, nil
}

// GenerateSWOTAnalysis is a convenience wrapper over the report read side.
func (e *engineImpl) GenerateSWOTAnalysis(ctx context.Context, productID string) (*analysis.SWOTAnalysis, error) {
	if productID == "" {
		return nil, errors.NewValidation("product id is required")
	}
	c, err := e.assemble(ctx, productID)
	if err != nil {
		return nil, err
	}
	return e.deps.Strategy.SWOT(c.features, c.position, c.pricingPos), nil
}

// GenerateCompetitivePositioning is a convenience wrapper over the report
// read side.
func (e *engineImpl) GenerateCompetitivePositioning(ctx context.Context, productID string) (*analysis.PositioningRecommendation, error) {
	if productID == "" {
		return nil, errors.NewValidation("product id is required")
	}
	c, err := e.assemble(ctx, productID)
	if err != nil {
		return nil, err
	}
	return e.deps.Strategy.Positioning(c.position), nil
}

// HealthCheck reports store and collaborator health alongside basic volume
// counters.
func (e *engineImpl) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Healthy:    true,
		Components: make(map[string]string),
		CheckedAt:  time.Now().UTC(),
	}

	count, err := e.deps.Products.Count(ctx)
	if err != nil {
		status.Healthy = false
		status.Components["product_store"] = "down"
	} else {
		status.ProductCount = count
		status.Components["product_store"] = "up"
	}

	recent, err := e.deps.Analyses.CountAnalysesSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		status.Healthy = false
		status.Components["analysis_store"] = "down"
	} else {
		status.RecentAnalyses = recent
		status.Components["analysis_store"] = "up"
	}

	if err := e.deps.Oracle.Ping(ctx); err != nil {
		status.Healthy = false
		status.Components["oracle"] = "down"
	} else {
		status.Components["oracle"] = "up"
	}

	if e.deps.PricingStore != nil {
		if err := e.deps.PricingStore.Ping(ctx); err != nil {
			status.Healthy = false
			status.Components["pricing_store"] = "down"
		} else {
			status.Components["pricing_store"] = "up"
		}
	}
	if e.deps.Cache != nil {
		if err := e.deps.Cache.Ping(ctx); err != nil {
			// Cache loss degrades latency, not correctness.
			status.Components["cache"] = "down"
		} else {
			status.Components["cache"] = "up"
		}
	}

	if e.deps.Metrics != nil {
		for component, state := range status.Components {
			e.deps.Metrics.SetComponentHealth(component, state == "up")
		}
	}
	return status, nil
}

func (e *engineImpl) publishAnalysis(ctx context.Context, a *analysis.ProductSimilarityAnalysis) {
	if e.deps.Events == nil {
		return
	}
	err := e.deps.Events.PublishAnalysisCompleted(ctx, a)
	if err != nil {
		e.log.Warn("Failed to publish analysis event", logging.Err(err))
	}
	if e.deps.Metrics != nil {
		e.deps.Metrics.RecordEvent("analysis.completed", err)
	}
}

func (e *engineImpl) publishReport(ctx context.Context, r *analysis.ProductIntelligenceReport) {
	if e.deps.Events == nil {
		return
	}
	err := e.deps.Events.PublishReportGenerated(ctx, r)
	if err != nil {
		e.log.Warn("Failed to publish report event", logging.Err(err))
	}
	if e.deps.Metrics != nil {
		e.deps.Metrics.RecordEvent("report.generated", err)
	}
}

func (e *engineImpl) archiveReport(ctx context.Context, r *analysis.ProductIntelligenceReport) {
	if e.deps.Archive == nil {
		return
	}
	if _, err := e.deps.Archive.StoreReport(ctx, r); err != nil {
		e.log.Warn("Failed to archive report", logging.Err(err))
	}
}

func reportCacheKey(productID string) string {
	return "report:" + productID
}
