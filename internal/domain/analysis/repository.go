package analysis

import (
	"context"
	"time"
)

// Repository is the append-only persistence contract for analyses and
// reports against the graph store. Save operations create; nothing updates
// in place.
type Repository interface {
	// SaveSimilarityAnalysis persists a pairwise analysis.
	SaveSimilarityAnalysis(ctx context.Context, a *ProductSimilarityAnalysis) error

	// FindSimilarityAnalysisByID reads one persisted analysis back,
	// including all serialized nested fields.
	FindSimilarityAnalysisByID(ctx context.Context, id string) (*ProductSimilarityAnalysis, error)

	// CountAnalysesSince counts analyses persisted after the given time,
	// used by health checks.
	CountAnalysesSince(ctx context.Context, since time.Time) (int64, error)

	// SaveReport persists an intelligence report.
	SaveReport(ctx context.Context, r *ProductIntelligenceReport) error

	// FindReportByID reads one persisted report back.
	FindReportByID(ctx context.Context, id string) (*ProductIntelligenceReport, error)

	// FindLatestReportForProduct returns the most recently generated report
	// for a product, or an ANL_008-coded error when none exists.
	FindLatestReportForProduct(ctx context.Context, productID string) (*ProductIntelligenceReport, error)
}
