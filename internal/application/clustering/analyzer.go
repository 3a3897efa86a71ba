// Package clustering partitions a product set into labeled clusters,
// characterizes each cluster, and infers inter-cluster relationships and
// likely evolution.
package clustering

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/stats"
)

// defaultMaxClusters bounds the optimal-cluster-count heuristic when the
// configured limit is unset.
const defaultMaxClusters = 10

// Analyzer groups products into clusters by the chosen method.
type Analyzer interface {
	Cluster(ctx context.Context, products []*product.CompetitorProduct, method analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error)
	OptimalClusterCount(products []*product.CompetitorProduct) int
}

// featureCategories drives the feature_based cluster key: the bucket whose
// keywords match the most of a product's features wins; no match means
// "general".
var featureCategories = []struct {
	name     string
	keywords []string
}{
	{"analytics", []string{"analytics", "report", "dashboard", "insight", "metric"}},
	{"integration", []string{"integration", "api", "export", "import", "sync", "webhook"}},
	{"security", []string{"security", "sso", "encryption", "audit", "compliance", "auth"}},
	{"ui", []string{"theme", "design", "interface", "mobile", "accessibility"}},
}

type analyzerImpl struct {
	maxClusters int
	logger      logging.Logger
}

// NewAnalyzer constructs the clustering analyzer. maxClusters caps the
// optimal-count heuristic; zero means the default of 10.
func NewAnalyzer(maxClusters int, log logging.Logger) Analyzer {
	if maxClusters <= 0 {
		maxClusters = defaultMaxClusters
	}
	return &analyzerImpl{maxClusters: maxClusters, logger: log}
}

func (a *analyzerImpl) Cluster(_ context.Context, products []*product.CompetitorProduct, method analysis.ClusterMethod) (*analysis.ProductClusterAnalysis, error) {
	if err := analysis.ValidateClusterMethod(method); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.New(errors.ErrCodeClusteringFailed, "at least one product is required")
	}

	// Map-based grouping: every product lands in exactly one cluster.
	groups := make(map[string][]*product.CompetitorProduct)
	for _, p := range products {
		if p == nil {
			continue
		}
		key := clusterKey(p, method)
		groups[key] = append(groups[key], p)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	clusters := make([]analysis.ProductCluster, 0, len(keys))
	for _, key := range keys {
		clusters = append(clusters, buildCluster(key, groups[key]))
	}

	result := &analysis.ProductClusterAnalysis{
		ID:            uuid.New().String(),
		Method:        method,
		Clusters:      clusters,
		Relationships: relateClusters(clusters, groups),
		GeneratedAt:   time.Now().UTC(),
	}
	for _, c := range clusters {
		result.Evolutions = append(result.Evolutions, predictEvolution(c))
	}

	a.logger.Info("Products clustered",
		logging.String("method", string(method)),
		logging.Int("products", len(products)),
		logging.Int("clusters", len(clusters)))
	return result, nil
}

// clusterKey assigns a product its partition key for the method.
func clusterKey(p *product.CompetitorProduct, method analysis.ClusterMethod) string {
	switch method {
	case analysis.ClusterFeatureBased:
		return dominantFeatureCategory(p.Features)
	case analysis.ClusterMarketBased:
		return fmt.Sprintf("%s_%s", categoryOrUnknown(p.Category), priceTier(p.Price))
	default: // semantic
		return categoryOrUnknown(p.Category)
	}
}

func categoryOrUnknown(category string) string {
	if category == "" {
		return "uncategorized"
	}
	return category
}

func dominantFeatureCategory(features []string) string {
	best, bestCount := "general", 0
	for _, bucket := range featureCategories {
		count := 0
		for _, f := range features {
			lower := strings.ToLower(f)
			for _, kw := range bucket.keywords {
				if strings.Contains(lower, kw) {
					count++
					break
				}
			}
		}
		if count > bestCount {
			best, bestCount = bucket.name, count
		}
	}
	return best
}

func priceTier(price float64) string {
	switch {
	case price < 50:
		return "budget"
	case price < 200:
		return "mid"
	case price < 500:
		return "premium"
	default:
		return "enterprise"
	}
}

func buildCluster(key string, members []*product.CompetitorProduct) analysis.ProductCluster {
	cluster := analysis.ProductCluster{
		ID:   uuid.New().String(),
		Key:  key,
		Name: strings.ReplaceAll(key, "_", " ") + " segment",
	}

	featureCounts := make(map[string]int)
	var prices []float64
	uniqueFeatures := make(map[string]struct{})
	totalFeatures := 0
	for _, m := range members {
		cluster.ProductIDs = append(cluster.ProductIDs, m.ID)
		if m.Price > 0 {
			prices = append(prices, m.Price)
		}
		seen := make(map[string]struct{})
		for _, f := range m.Features {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			featureCounts[f]++
			uniqueFeatures[f] = struct{}{}
			totalFeatures++
		}
	}

	// Common features: carried by at least half the members.
	threshold := (len(members) + 1) / 2
	for f, count := range featureCounts {
		if count >= threshold {
			cluster.CommonFeatures = append(cluster.CommonFeatures, f)
		}
	}
	sort.Strings(cluster.CommonFeatures)

	if len(prices) > 0 {
		sorted := append([]float64(nil), prices...)
		sort.Float64s(sorted)
		cluster.PriceRange = analysis.PriceRange{
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			Median: stats.Median(prices),
		}
	}

	cluster.Dynamics = deriveDynamics(len(members), len(uniqueFeatures), totalFeatures)
	cluster.Opportunities, cluster.Threats, cluster.StrategicInsights = clusterRules(cluster)
	return cluster
}

func deriveDynamics(memberCount, uniqueFeatureCount, totalFeatures int) analysis.MarketDynamics {
	d := analysis.MarketDynamics{}

	switch {
	case memberCount > 10:
		d.CompetitiveIntensity = "high"
	case memberCount > 5:
		d.CompetitiveIntensity = "medium"
	default:
		d.CompetitiveIntensity = "low"
	}

	// Feature diversity: distinct features over the average per product.
	avgFeatures := 0.0
	if memberCount > 0 {
		avgFeatures = float64(totalFeatures) / float64(memberCount)
	}
	diversity := 0.0
	if avgFeatures > 0 {
		diversity = float64(uniqueFeatureCount) / avgFeatures
	}
	switch {
	case diversity > 2:
		d.InnovationRate = "fast"
	case diversity > 1.5:
		d.InnovationRate = "moderate"
	default:
		d.InnovationRate = "slow"
	}

	// Intensity doubles as the activity proxy for growth: crowded segments
	// are the ones attracting entrants.
	switch d.CompetitiveIntensity {
	case "high":
		d.MarketGrowth = "expanding"
	case "medium":
		d.MarketGrowth = "stable"
	default:
		d.MarketGrowth = "contracting"
	}
	return d
}

// clusterRules generates the qualitative lists from the derived dynamics.
func clusterRules(c analysis.ProductCluster) (opportunities, threats, insights []string) {
	if c.Dynamics.CompetitiveIntensity == "high" {
		threats = append(threats, "High competitive intensity in this segment")
		insights = append(insights, "Differentiation matters more than breadth here")
	}
	if len(c.CommonFeatures) < 3 {
		opportunities = append(opportunities, "Few shared features: room to define the segment standard")
	}
	if c.Dynamics.InnovationRate == "fast" {
		threats = append(threats, "Rapid feature churn raises the table stakes")
		insights = append(insights, "Short release cycles are required to keep pace")
	}
	if c.Dynamics.MarketGrowth == "expanding" {
		opportunities = append(opportunities, "Expanding segment rewards early share capture")
	}
	if c.PriceRange.Max > 0 && c.PriceRange.Min > 0 && c.PriceRange.Max/c.PriceRange.Min > 3 {
		opportunities = append(opportunities, "Wide price spread leaves room for a mid-tier offer")
	}
	if len(insights) == 0 {
		insights = append(insights, "Stable segment: monitor for new entrants")
	}
	return opportunities, threats, insights
}

// relateClusters compares every cluster pair: 50/50 blend of feature-set
// Jaccard and price-median similarity.
func relateClusters(clusters []analysis.ProductCluster, groups map[string][]*product.CompetitorProduct) []analysis.ClusterRelationship {
	features := make(map[string][]string, len(clusters))
	for key, members := range groups {
		set := make(map[string]struct{})
		for _, m := range members {
			for _, f := range m.Features {
				set[f] = struct{}{}
			}
		}
		var list []string
		for f := range set {
			list = append(list, f)
		}
		features[key] = list
	}

	var out []analysis.ClusterRelationship
	for i := 0; i < len(clusters); i++ {
		for j := i + 1; j < len(clusters); j++ {
			a, b := clusters[i], clusters[j]
			featureSim := stats.Jaccard(features[a.Key], features[b.Key])
			priceSim := priceSimilarity(a.PriceRange.Median, b.PriceRange.Median)
			similarity := 0.5*featureSim + 0.5*priceSim

			rel := "unrelated"
			shared := stats.Intersect(features[a.Key], features[b.Key])
			switch {
			case similarity > 0.7:
				rel = "competitive"
			case similarity > 0.4:
				rel = "adjacent"
			case len(shared) > 0:
				rel = "complementary"
			}

			out = append(out, analysis.ClusterRelationship{
				ClusterA:     a.ID,
				ClusterB:     b.ID,
				Similarity:   similarity,
				Relationship: rel,
			})
		}
	}
	return out
}

func priceSimilarity(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 1
	}
	avg := (a + b) / 2
	if avg == 0 {
		return 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return stats.Clamp01(1 - diff/avg)
}

// predictEvolution maps a cluster's dynamics to a growth projection with
// risk/driver/recommendation lists.
func predictEvolution(c analysis.ProductCluster) analysis.ClusterEvolution {
	ev := analysis.ClusterEvolution{ClusterID: c.ID}

	switch {
	case c.Dynamics.MarketGrowth == "expanding" && c.Dynamics.CompetitiveIntensity == "high":
		ev.Projection = "expanding"
		ev.Risks = append(ev.Risks, "Consolidation as the segment matures")
		ev.Drivers = append(ev.Drivers, "New entrants keep expanding the addressable market")
		ev.Recommendations = append(ev.Recommendations, "Invest now: share is cheapest before consolidation")
	case c.Dynamics.MarketGrowth == "expanding":
		ev.Projection = "expanding"
		ev.Drivers = append(ev.Drivers, "Growing demand with moderate competition")
		ev.Recommendations = append(ev.Recommendations, "Scale distribution ahead of demand")
	case c.Dynamics.MarketGrowth == "stable":
		ev.Projection = "stable"
		ev.Risks = append(ev.Risks, "Price competition in a flat segment")
		ev.Recommendations = append(ev.Recommendations, "Defend share and optimize margins")
	default:
		ev.Projection = "contracting"
		ev.Risks = append(ev.Risks, "Shrinking segment may strand investment")
		ev.Recommendations = append(ev.Recommendations, "Harvest or reposition toward adjacent segments")
	}
	return ev
}

// OptimalClusterCount is a bounded heuristic: a base from product-count
// buckets, bumped by category spread and price variance, capped by the
// configured maximum and the product count itself.
func (a *analyzerImpl) OptimalClusterCount(products []*product.CompetitorProduct) int {
	n := len(products)
	if n == 0 {
		return 0
	}

	var base int
	switch {
	case n <= 2:
		base = 1
	case n <= 5:
		base = 2
	case n <= 10:
		base = 3
	default:
		base = 4
	}

	categories := make(map[string]struct{})
	var prices []float64
	for _, p := range products {
		if p == nil {
			continue
		}
		categories[categoryOrUnknown(p.Category)] = struct{}{}
		if p.Price > 0 {
			prices = append(prices, p.Price)
		}
	}

	count := base
	if len(categories) > base {
		count++
	}
	if stats.CoefficientOfVariation(prices) > 0.5 {
		count++
	}

	if count > a.maxClusters {
		count = a.maxClusters
	}
	if count > n {
		count = n
	}
	return count
}
