package analysis

import (
	"time"

	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// ClusterMethod selects how products are assigned to clusters.
type ClusterMethod string

const (
	ClusterFeatureBased ClusterMethod = "feature_based"
	ClusterMarketBased  ClusterMethod = "market_based"
	ClusterSemantic     ClusterMethod = "semantic"
)

// Valid reports whether m is a supported clustering method.
func (m ClusterMethod) Valid() bool {
	switch m {
	case ClusterFeatureBased, ClusterMarketBased, ClusterSemantic:
		return true
	}
	return false
}

// ValidateClusterMethod returns an ANL_006-coded error for unsupported methods.
func ValidateClusterMethod(m ClusterMethod) error {
	if !m.Valid() {
		return errors.Newf(errors.ErrCodeClusterMethodInvalid, "clustering method %q is not supported", m)
	}
	return nil
}

// PriceRange summarizes cluster member prices.
type PriceRange struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// MarketDynamics carries the derived qualitative cluster characteristics.
type MarketDynamics struct {
	CompetitiveIntensity string `json:"competitive_intensity"` // high | medium | low
	InnovationRate       string `json:"innovation_rate"`       // fast | moderate | slow
	MarketGrowth         string `json:"market_growth"`         // expanding | stable | contracting
}

// ProductCluster is one disjoint group of the clustering partition.
type ProductCluster struct {
	ID                string         `json:"id"`
	Key               string         `json:"key"`
	Name              string         `json:"name"`
	ProductIDs        []string       `json:"product_ids"`
	CommonFeatures    []string       `json:"common_features"`
	PriceRange        PriceRange     `json:"price_range"`
	Dynamics          MarketDynamics `json:"dynamics"`
	Opportunities     []string       `json:"opportunities"`
	Threats           []string       `json:"threats"`
	StrategicInsights []string       `json:"strategic_insights"`
}

// ClusterRelationship describes how two clusters relate.
type ClusterRelationship struct {
	ClusterA   string  `json:"cluster_a"`
	ClusterB   string  `json:"cluster_b"`
	Similarity float64 `json:"similarity"`
	// Relationship is "competitive", "adjacent", "complementary", or "unrelated".
	Relationship string `json:"relationship"`
}

// ClusterEvolution is the predicted trajectory for one cluster.
type ClusterEvolution struct {
	ClusterID string `json:"cluster_id"`
	// Projection is "expanding", "stable", or "contracting".
	Projection      string   `json:"projection"`
	Risks           []string `json:"risks"`
	Drivers         []string `json:"drivers"`
	Recommendations []string `json:"recommendations"`
}

// ProductClusterAnalysis is the full output of one clustering pass. It is
// recomputed on every request; persistence is permitted but not required.
type ProductClusterAnalysis struct {
	ID            string                `json:"id"`
	Method        ClusterMethod         `json:"method"`
	Clusters      []ProductCluster      `json:"clusters"`
	Relationships []ClusterRelationship `json:"relationships"`
	Evolutions    []ClusterEvolution    `json:"evolutions"`
	GeneratedAt   time.Time             `json:"generated_at"`
}
