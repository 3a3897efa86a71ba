package analysis

import "time"

// MarketPosition is the positioning estimate derived from competitor density.
type MarketPosition struct {
	// Positioning is "leader", "challenger", "follower", or "niche".
	Positioning     string  `json:"positioning"`
	EstimatedShare  float64 `json:"estimated_share"`
	CompetitorCount int     `json:"competitor_count"`
	Confidence      float64 `json:"confidence"`
}

// DirectCompetitor is a landscape entry with similarity above the direct
// threshold.
type DirectCompetitor struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Similarity   float64 `json:"similarity"`
	CompetitorID string  `json:"competitor_id"`
}

// SubstituteProduct is a landscape entry in the substitute similarity band.
type SubstituteProduct struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
	Risk       string  `json:"risk"`
}

// CompetitiveLandscape groups the similarity-ranked candidates into market
// roles. Complements stay empty: the current data model carries no reliable
// complement signal, so the field documents the limitation instead of
// inventing one.
type CompetitiveLandscape struct {
	DirectCompetitors []DirectCompetitor  `json:"direct_competitors"`
	Substitutes       []SubstituteProduct `json:"substitutes"`
	Complements       []DirectCompetitor  `json:"complements"`
	ComplementsNote   string              `json:"complements_note,omitempty"`
}

// FeatureGap is a competitor feature the focal product lacks, ranked by
// competitor coverage.
type FeatureGap struct {
	Feature string `json:"feature"`
	// Coverage is the fraction of similar products carrying the feature.
	Coverage   float64 `json:"coverage"`
	Importance string  `json:"importance"` // critical | high | medium | low
	Effort     string  `json:"effort"`     // high | medium | low
}

// FeatureAnalysis partitions the focal product's feature set against the
// competitor union.
type FeatureAnalysis struct {
	Core    []string     `json:"core"`
	Unique  []string     `json:"unique"`
	Missing []string     `json:"missing"`
	Gaps    []FeatureGap `json:"gaps"`
}

// InnovationOpportunity is one generated product-development lead.
type InnovationOpportunity struct {
	Category     string `json:"category"` // feature_enhancement | new_feature | integration
	Description  string `json:"description"`
	Demand       string `json:"demand"`
	Advantage    string `json:"advantage"`
	Complexity   string `json:"complexity"`
	TimeToMarket string `json:"time_to_market"`
}

// PricingPosition positions the focal price against the competitive
// distribution.
type PricingPosition struct {
	// Positioning is "premium", "mid_market", "value", or "budget".
	Positioning     string   `json:"positioning"`
	OwnPrice        float64  `json:"own_price"`
	MarketMedian    float64  `json:"market_median"`
	MarketMean      float64  `json:"market_mean"`
	AboveCount      int      `json:"above_count"`
	BelowCount      int      `json:"below_count"`
	Recommendations []string `json:"recommendations"`
	ValuePerception string   `json:"value_perception"`
}

// Threat is one itemized competitive threat.
type Threat struct {
	Type        string `json:"type"` // feature_parity | price_competition | market_shift
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// ThreatAssessment aggregates threats with the maximum severity as overall risk.
type ThreatAssessment struct {
	OverallRisk string   `json:"overall_risk"`
	Threats     []Threat `json:"threats"`
}

// Recommendation is one prioritized strategic recommendation.
type Recommendation struct {
	Category       string   `json:"category"`
	Action         string   `json:"action"`
	Priority       string   `json:"priority"`
	Timeline       string   `json:"timeline"`
	Impact         string   `json:"impact"`
	Effort         string   `json:"effort"`
	SuccessMetrics []string `json:"success_metrics"`
}

// SWOTAnalysis is the classic four-quadrant synthesis.
type SWOTAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// PositioningRecommendation maps market position to a positioning narrative
// and a strategy list.
type PositioningRecommendation struct {
	Current     string   `json:"current"`
	Recommended string   `json:"recommended"`
	Strategies  []string `json:"strategies"`
}

// ProductIntelligenceReport is the per-product aggregate persisted once per
// report request. Reports are append-only history; a new report supersedes
// the previous one logically.
type ProductIntelligenceReport struct {
	ID              string                  `json:"id"`
	ProductID       string                  `json:"product_id"`
	MarketPosition  MarketPosition          `json:"market_position"`
	Landscape       CompetitiveLandscape    `json:"landscape"`
	Features        FeatureAnalysis         `json:"features"`
	Pricing         PricingPosition         `json:"pricing"`
	Opportunities   []InnovationOpportunity `json:"opportunities"`
	Threats         ThreatAssessment        `json:"threats"`
	Recommendations []Recommendation        `json:"recommendations"`
	Confidence      float64                 `json:"confidence"`
	InsightSummary  string                  `json:"insight_summary,omitempty"`
	GeneratedAt     time.Time               `json:"generated_at"`
	SchemaVersion   int                     `json:"schema_version"`
}
