// Package kafka publishes analysis lifecycle events for downstream consumers
// (alerting, dashboards, data warehouse loaders). Publication is best-effort:
// a broker outage never fails the analysis that triggered the event.
package kafka

import "time"

const (
	// TopicAnalysisCompleted carries one event per persisted similarity analysis.
	TopicAnalysisCompleted = "medge.analysis.completed"

	// TopicReportGenerated carries one event per generated intelligence report.
	TopicReportGenerated = "medge.report.generated"
)

// AnalysisCompletedEvent is the payload on TopicAnalysisCompleted.
type AnalysisCompletedEvent struct {
	AnalysisID      string    `json:"analysis_id"`
	SourceProductID string    `json:"source_product_id"`
	TargetProductID string    `json:"target_product_id"`
	Type            string    `json:"type"`
	OverallScore    float64   `json:"overall_score"`
	Relationship    string    `json:"relationship"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// ReportGeneratedEvent is the payload on TopicReportGenerated.
type ReportGeneratedEvent struct {
	ReportID    string    `json:"report_id"`
	ProductID   string    `json:"product_id"`
	Positioning string    `json:"positioning"`
	OverallRisk string    `json:"overall_risk"`
	Confidence  float64   `json:"confidence"`
	GeneratedAt time.Time `json:"generated_at"`
}
