// Package similarity computes pairwise product similarity across four
// dimensions (feature, pricing, market, semantic) and classifies the
// competitive relationship between the pair.
package similarity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/stats"
)

// semanticLookupLimit bounds the oracle page scanned for the target product.
const semanticLookupLimit = 50

// maxSharedKeywords caps the keyword list exposed on the semantic dimension.
const maxSharedKeywords = 10

// Analyzer computes a ProductSimilarityAnalysis for a product pair.
type Analyzer interface {
	Analyze(ctx context.Context, source, target *product.CompetitorProduct, analysisType analysis.Type) (*analysis.ProductSimilarityAnalysis, error)
}

type dimensionWeights struct {
	feature  float64
	pricing  float64
	market   float64
	semantic float64
}

// weightTable fixes the per-type blend of the four dimension scores.
var weightTable = map[analysis.Type]dimensionWeights{
	analysis.TypeFeatureBased:  {feature: 0.7, pricing: 0.1, market: 0.1, semantic: 0.1},
	analysis.TypeSemantic:      {feature: 0.1, pricing: 0.1, market: 0.1, semantic: 0.7},
	analysis.TypeUsageBased:    {feature: 0.3, pricing: 0.3, market: 0.3, semantic: 0.1},
	analysis.TypeMarketBased:   {feature: 0.1, pricing: 0.3, market: 0.5, semantic: 0.1},
	analysis.TypeComprehensive: {feature: 0.3, pricing: 0.2, market: 0.3, semantic: 0.2},
}

type analyzerImpl struct {
	oracle product.SimilarityOracle
	logger logging.Logger
}

// NewAnalyzer constructs the similarity analyzer. The oracle backs the
// semantic dimension; its failures degrade that dimension to zero instead of
// failing the analysis.
func NewAnalyzer(oracle product.SimilarityOracle, log logging.Logger) Analyzer {
	return &analyzerImpl{oracle: oracle, logger: log}
}

func (a *analyzerImpl) Analyze(ctx context.Context, source, target *product.CompetitorProduct, analysisType analysis.Type) (*analysis.ProductSimilarityAnalysis, error) {
	if source == nil || target == nil {
		return nil, errors.NewValidation("both source and target products are required")
	}
	if err := analysis.ValidateType(analysisType); err != nil {
		return nil, err
	}

	feature := a.featureDimension(source, target)
	pricing := a.pricingDimension(source, target)
	market := a.marketDimension(source, target)
	semantic := a.semanticDimension(ctx, source, target)

	w := weightTable[analysisType]
	overall := feature.Score*w.feature +
		pricing.Score*w.pricing +
		market.Score*w.market +
		semantic.Score*w.semantic

	scores := []float64{feature.Score, pricing.Score, market.Score, semantic.Score}

	return &analysis.ProductSimilarityAnalysis{
		ID:              uuid.New().String(),
		SourceProductID: source.ID,
		TargetProductID: target.ID,
		OverallScore:    stats.Clamp01(overall),
		Type:            analysisType,
		Feature:         feature,
		Pricing:         pricing,
		Market:          market,
		Semantic:        semantic,
		Relationship:    classifyRelationship(stats.Clamp01(overall), feature, market),
		Confidence:      stats.Confidence(scores),
		AnalyzedAt:      time.Now().UTC(),
		SchemaVersion:   analysis.SchemaVersion,
	}, nil
}

func (a *analyzerImpl) featureDimension(source, target *product.CompetitorProduct) analysis.FeatureDimension {
	return analysis.FeatureDimension{
		Score:          stats.Jaccard(source.Features, target.Features),
		Matching:       stats.Intersect(source.Features, target.Features),
		UniqueToSource: stats.Difference(source.Features, target.Features),
		UniqueToTarget: stats.Difference(target.Features, source.Features),
	}
}

func (a *analyzerImpl) pricingDimension(source, target *product.CompetitorProduct) analysis.PricingDimension {
	dim := analysis.PricingDimension{
		SourcePrice: source.Price,
		TargetPrice: target.Price,
	}

	avg := (source.Price + target.Price) / 2
	if avg == 0 {
		dim.Score = 1
		dim.Comparison = "similar"
		return dim
	}

	diff := source.Price - target.Price
	if diff < 0 {
		diff = -diff
	}
	dim.Score = stats.Clamp01(1 - diff/avg)

	switch {
	case diff/avg < 0.10:
		dim.Comparison = "similar"
	case source.Price > target.Price:
		dim.Comparison = "higher"
	default:
		dim.Comparison = "lower"
	}
	return dim
}

func (a *analyzerImpl) marketDimension(source, target *product.CompetitorProduct) analysis.MarketDimension {
	dim := analysis.MarketDimension{
		SameCategory: source.Category == target.Category,
	}
	if dim.SameCategory {
		dim.Score = 1
	}

	if len(source.Features) > len(target.Features) {
		dim.Advantages = append(dim.Advantages,
			fmt.Sprintf("broader feature set (%d vs %d)", len(source.Features), len(target.Features)))
	}
	if source.Price > 0 && target.Price > 0 && source.Price < target.Price {
		dim.Advantages = append(dim.Advantages, "lower price point")
	}
	if unique := stats.Difference(source.Features, target.Features); len(unique) > 0 {
		dim.Advantages = append(dim.Advantages,
			fmt.Sprintf("%d features the competitor lacks", len(unique)))
	}
	return dim
}

// semanticDimension combines the oracle's ranked score for the target with a
// local token-overlap measure over the two descriptions. An oracle failure is
// logged and degrades the oracle score to zero.
func (a *analyzerImpl) semanticDimension(ctx context.Context, source, target *product.CompetitorProduct) analysis.SemanticDimension {
	dim := analysis.SemanticDimension{}

	similar, err := a.oracle.FindCompetingProducts(ctx, source.ID, semanticLookupLimit, 0)
	if err != nil {
		a.logger.Warn("Similarity oracle unavailable, semantic score degraded to zero",
			logging.String("source_product_id", source.ID),
			logging.Err(err))
	} else {
		for _, sp := range similar {
			if sp.ID == target.ID {
				dim.OracleScore = sp.Similarity
				break
			}
		}
	}
	dim.Score = dim.OracleScore

	sourceTokens := stats.Tokenize(source.Description)
	targetTokens := stats.Tokenize(target.Description)
	if len(sourceTokens) > 0 || len(targetTokens) > 0 {
		dim.DescriptionOverlap = stats.Jaccard(sourceTokens, targetTokens)
	}

	shared := stats.Intersect(sourceTokens, targetTokens)
	if len(shared) > maxSharedKeywords {
		shared = shared[:maxSharedKeywords]
	}
	dim.SharedKeywords = shared
	return dim
}

// classifyRelationship applies the ordered classification rules.
func classifyRelationship(overall float64, feature analysis.FeatureDimension, market analysis.MarketDimension) analysis.Relationship {
	switch {
	case overall > 0.8 && market.Score == 1:
		return analysis.RelationshipDirectCompetitor
	case overall > 0.6 && market.Score > 0.5:
		return analysis.RelationshipIndirectCompetitor
	case feature.Score < 0.3 && market.Score > 0.5:
		return analysis.RelationshipSubstitute
	case len(feature.UniqueToSource) > 0 && len(feature.UniqueToTarget) > 0:
		return analysis.RelationshipComplement
	default:
		return analysis.RelationshipUnrelated
	}
}
