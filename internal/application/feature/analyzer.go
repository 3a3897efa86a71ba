// Package feature partitions a product's feature set against its competitive
// field, ranks feature gaps by competitor coverage, and derives innovation
// opportunities.
package feature

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// maxOpportunities caps the generated innovation opportunity list.
const maxOpportunities = 10

// Analyzer derives the feature analysis and innovation opportunities for a
// focal product against its similar-product set.
type Analyzer interface {
	Analyze(ctx context.Context, focal *product.CompetitorProduct, similar []*product.SimilarProduct) (*analysis.FeatureAnalysis, []analysis.InnovationOpportunity, error)
}

// effortKeywords drives the implementation-effort estimate. First matching
// tier wins; features matching nothing default to low.
var effortKeywords = []struct {
	effort   string
	keywords []string
}{
	{"high", []string{"analytics", "reporting", "dashboard", "ai", "automation"}},
	{"medium", []string{"integration", "api", "export"}},
}

// importanceWeight orders gaps for sorting: importance tier first, coverage
// as tiebreaker.
var importanceWeight = map[string]float64{
	"critical": 1.0,
	"high":     0.75,
	"medium":   0.5,
	"low":      0.25,
}

type analyzerImpl struct {
	products product.Repository
	logger   logging.Logger
}

// NewAnalyzer constructs the feature analyzer over the product repository.
func NewAnalyzer(products product.Repository, log logging.Logger) Analyzer {
	return &analyzerImpl{products: products, logger: log}
}

func (a *analyzerImpl) Analyze(ctx context.Context, focal *product.CompetitorProduct, similar []*product.SimilarProduct) (*analysis.FeatureAnalysis, []analysis.InnovationOpportunity, error) {
	if focal == nil {
		return nil, nil, errors.NewValidation("focal product is required")
	}

	competitors, err := a.fetchCompetitors(ctx, similar)
	if err != nil {
		return nil, nil, err
	}

	// featureHolders counts, per competitor feature, how many similar
	// products carry it.
	featureHolders := make(map[string]int)
	for _, c := range competitors {
		for _, f := range dedupe(c.Features) {
			featureHolders[f]++
		}
	}

	result := &analysis.FeatureAnalysis{}
	for _, f := range dedupe(focal.Features) {
		if featureHolders[f] > 0 {
			result.Core = append(result.Core, f)
		} else {
			result.Unique = append(result.Unique, f)
		}
	}

	focalSet := make(map[string]struct{}, len(focal.Features))
	for _, f := range focal.Features {
		focalSet[f] = struct{}{}
	}
	for f := range featureHolders {
		if _, ok := focalSet[f]; !ok {
			result.Missing = append(result.Missing, f)
		}
	}
	sort.Strings(result.Core)
	sort.Strings(result.Unique)
	sort.Strings(result.Missing)

	result.Gaps = buildGaps(result.Missing, featureHolders, len(competitors))

	opportunities := a.buildOpportunities(result, len(competitors))
	return result, opportunities, nil
}

// fetchCompetitors resolves the similar-product ids to full records. Products
// that vanished since the oracle indexed them are skipped with a log line.
func (a *analyzerImpl) fetchCompetitors(ctx context.Context, similar []*product.SimilarProduct) ([]*product.CompetitorProduct, error) {
	if len(similar) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(similar))
	for _, sp := range similar {
		ids = append(ids, sp.ID)
	}

	competitors, err := a.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProductFetchFailed, "failed to fetch similar products")
	}
	if len(competitors) < len(ids) {
		a.logger.Debug("Some similar products no longer resolve",
			logging.Int("requested", len(ids)),
			logging.Int("resolved", len(competitors)))
	}
	return competitors, nil
}

func buildGaps(missing []string, featureHolders map[string]int, competitorCount int) []analysis.FeatureGap {
	if competitorCount == 0 {
		return nil
	}

	gaps := make([]analysis.FeatureGap, 0, len(missing))
	for _, f := range missing {
		coverage := float64(featureHolders[f]) / float64(competitorCount)
		gaps = append(gaps, analysis.FeatureGap{
			Feature:    f,
			Coverage:   coverage,
			Importance: gapImportance(coverage),
			Effort:     estimateEffort(f),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return importanceWeight[gaps[i].Importance]+gaps[i].Coverage >
			importanceWeight[gaps[j].Importance]+gaps[j].Coverage
	})
	return gaps
}

// gapImportance is a pure function of competitor coverage.
func gapImportance(coverage float64) string {
	switch {
	case coverage > 0.8:
		return "critical"
	case coverage > 0.6:
		return "high"
	case coverage > 0.3:
		return "medium"
	default:
		return "low"
	}
}

func estimateEffort(feature string) string {
	lower := strings.ToLower(feature)
	for _, tier := range effortKeywords {
		for _, kw := range tier.keywords {
			if strings.Contains(lower, kw) {
				return tier.effort
			}
		}
	}
	return "low"
}

func (a *analyzerImpl) buildOpportunities(fa *analysis.FeatureAnalysis, competitorCount int) []analysis.InnovationOpportunity {
	var out []analysis.InnovationOpportunity

	for _, gap := range fa.Gaps {
		if gap.Importance != "critical" && gap.Importance != "high" {
			continue
		}
		out = append(out, analysis.InnovationOpportunity{
			Category:     "feature_enhancement",
			Description:  fmt.Sprintf("Close the %q gap held by %.0f%% of competitors", gap.Feature, gap.Coverage*100),
			Demand:       "high",
			Advantage:    "parity",
			Complexity:   gap.Effort,
			TimeToMarket: timeToMarketFor(gap.Effort),
		})
	}

	for _, unique := range fa.Unique {
		out = append(out, analysis.InnovationOpportunity{
			Category:     "feature_enhancement",
			Description:  fmt.Sprintf("Deepen the exclusive %q capability", unique),
			Demand:       "medium",
			Advantage:    "high",
			Complexity:   "medium",
			TimeToMarket: "quarter",
		})
	}

	if competitorCount > 5 {
		out = append(out, analysis.InnovationOpportunity{
			Category:     "new_feature",
			Description:  "Crowded field rewards a category-defining new capability",
			Demand:       "high",
			Advantage:    "high",
			Complexity:   "high",
			TimeToMarket: "half-year",
		})
	}
	if len(fa.Core) > 3 {
		out = append(out, analysis.InnovationOpportunity{
			Category:     "integration",
			Description:  "Bundle the core feature set into partner integrations",
			Demand:       "medium",
			Advantage:    "medium",
			Complexity:   "medium",
			TimeToMarket: "quarter",
		})
	}

	if len(out) > maxOpportunities {
		out = out[:maxOpportunities]
	}
	return out
}

func timeToMarketFor(effort string) string {
	switch effort {
	case "high":
		return "half-year"
	case "medium":
		return "quarter"
	default:
		return "month"
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
