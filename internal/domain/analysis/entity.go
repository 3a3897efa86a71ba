// Package analysis defines the persisted analysis entities: pairwise
// similarity analyses, product intelligence reports, and cluster analyses,
// together with their persistence contracts. All persisted records are
// append-only; a newer record logically supersedes an older one but history
// stays queryable.
package analysis

import (
	"time"

	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// SchemaVersion tags every persisted record so that serialized nested fields
// can be migrated when their shape changes.
const SchemaVersion = 1

// Type selects which weighting of the four similarity dimensions applies.
type Type string

const (
	TypeFeatureBased  Type = "feature_based"
	TypeSemantic      Type = "semantic"
	TypeUsageBased    Type = "usage_based"
	TypeMarketBased   Type = "market_based"
	TypeComprehensive Type = "comprehensive"
)

// Valid reports whether t is one of the supported analysis types.
func (t Type) Valid() bool {
	switch t {
	case TypeFeatureBased, TypeSemantic, TypeUsageBased, TypeMarketBased, TypeComprehensive:
		return true
	}
	return false
}

// ValidateType returns an ANL_002-coded error for unsupported analysis types.
func ValidateType(t Type) error {
	if !t.Valid() {
		return errors.Newf(errors.ErrCodeAnalysisTypeInvalid, "analysis type %q is not supported", t)
	}
	return nil
}

// Relationship classifies how two products relate in the market.
type Relationship string

const (
	RelationshipDirectCompetitor   Relationship = "direct_competitor"
	RelationshipIndirectCompetitor Relationship = "indirect_competitor"
	RelationshipSubstitute         Relationship = "substitute"
	RelationshipComplement         Relationship = "complement"
	RelationshipUnrelated          Relationship = "unrelated"
)

// FeatureDimension is the feature-overlap similarity sub-record.
type FeatureDimension struct {
	Score          float64  `json:"score"`
	Matching       []string `json:"matching"`
	UniqueToSource []string `json:"unique_to_source"`
	UniqueToTarget []string `json:"unique_to_target"`
}

// PricingDimension is the price-proximity similarity sub-record.
type PricingDimension struct {
	Score       float64 `json:"score"`
	SourcePrice float64 `json:"source_price"`
	TargetPrice float64 `json:"target_price"`
	// Comparison is "similar" when the relative difference is under 10%,
	// otherwise "higher" or "lower" from the source product's perspective.
	Comparison string `json:"comparison"`
}

// MarketDimension is the market-overlap similarity sub-record.
type MarketDimension struct {
	Score        float64  `json:"score"`
	SameCategory bool     `json:"same_category"`
	Advantages   []string `json:"advantages"`
}

// SemanticDimension is the description-level similarity sub-record, combining
// the oracle's ranked score with a local token-overlap measure.
type SemanticDimension struct {
	Score              float64  `json:"score"`
	OracleScore        float64  `json:"oracle_score"`
	DescriptionOverlap float64  `json:"description_overlap"`
	SharedKeywords     []string `json:"shared_keywords"`
}

// StrategicImplications carries the per-analysis strategy lists.
type StrategicImplications struct {
	Threats         []string `json:"threats"`
	Opportunities   []string `json:"opportunities"`
	Recommendations []string `json:"recommendations"`
}

// ProductSimilarityAnalysis is the persisted result of one pairwise
// similarity invocation. Created once, never mutated.
type ProductSimilarityAnalysis struct {
	ID              string                `json:"id"`
	SourceProductID string                `json:"source_product_id"`
	TargetProductID string                `json:"target_product_id"`
	OverallScore    float64               `json:"overall_score"`
	Type            Type                  `json:"type"`
	Feature         FeatureDimension      `json:"feature"`
	Pricing         PricingDimension      `json:"pricing"`
	Market          MarketDimension       `json:"market"`
	Semantic        SemanticDimension     `json:"semantic"`
	Relationship    Relationship          `json:"relationship"`
	Implications    StrategicImplications `json:"implications"`
	Confidence      float64               `json:"confidence"`
	InsightSummary  string                `json:"insight_summary,omitempty"`
	AnalyzedAt      time.Time             `json:"analyzed_at"`
	SchemaVersion   int                   `json:"schema_version"`
}
