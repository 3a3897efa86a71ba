// Package insight generates strategic narrative for analysis results. The
// primary provider calls an external model; a deterministic rule-based
// fallback keeps reports flowing when the model is unreachable.
package insight

import (
	"context"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
)

// ProductSnapshot is the slice of a product the provider reasons over.
type ProductSnapshot struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Features    []string `json:"features"`
	Description string   `json:"description,omitempty"`
}

// Request is the structured payload handed to a provider.
type Request struct {
	AnalysisType    string                `json:"analysis_type"`
	Source          ProductSnapshot       `json:"source"`
	Target          *ProductSnapshot      `json:"target,omitempty"`
	Relationship    analysis.Relationship `json:"relationship,omitempty"`
	OverallScore    float64               `json:"overall_score,omitempty"`
	MissingFeatures []string              `json:"missing_features,omitempty"`
	CompetitorCount int                   `json:"competitor_count,omitempty"`
}

// Recommendation is one prioritized action item.
type Recommendation struct {
	Action   string `json:"action"`
	Priority string `json:"priority,omitempty"`
	Timeline string `json:"timeline,omitempty"`
	Impact   string `json:"impact,omitempty"`
	Effort   string `json:"effort,omitempty"`
}

// Result is the shared output contract of every provider.
type Result struct {
	Summary         string           `json:"summary"`
	KeyInsights     []string         `json:"key_insights"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Provider produces insights for a request. Implementations must be safe for
// concurrent use.
type Provider interface {
	GenerateInsights(ctx context.Context, req Request) (*Result, error)
	Name() string
}
