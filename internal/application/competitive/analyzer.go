// Package competitive builds the competitive landscape, market position, and
// threat assessment from similarity-ranked candidates.
package competitive

import (
	"fmt"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
)

// complementsNote documents why the complements bucket stays empty: the data
// model carries no co-purchase or tagging signal to detect complements from,
// so the field is an explicit known limitation rather than a guess.
const complementsNote = "complement detection requires co-purchase or explicit tagging data not present in the current product model"

const (
	directThreshold     = 0.7
	substituteThreshold = 0.4
	parityThreshold     = 0.8
)

// Analyzer derives landscape, position, and threats. All methods are pure
// functions of their inputs.
type Analyzer interface {
	Landscape(similar []*product.SimilarProduct) analysis.CompetitiveLandscape
	MarketPosition(competitorCount int) analysis.MarketPosition
	AssessThreats(similar []*product.SimilarProduct) analysis.ThreatAssessment
	ReportConfidence(componentCount int) float64
}

type analyzerImpl struct {
	logger logging.Logger
}

// NewAnalyzer constructs the competitive analyzer.
func NewAnalyzer(log logging.Logger) Analyzer {
	return &analyzerImpl{logger: log}
}

// Landscape buckets the similarity-ranked candidates into market roles.
func (a *analyzerImpl) Landscape(similar []*product.SimilarProduct) analysis.CompetitiveLandscape {
	landscape := analysis.CompetitiveLandscape{
		ComplementsNote: complementsNote,
	}

	for _, sp := range similar {
		switch {
		case sp.Similarity > directThreshold:
			landscape.DirectCompetitors = append(landscape.DirectCompetitors, analysis.DirectCompetitor{
				ProductID:    sp.ID,
				Name:         sp.Name,
				Similarity:   sp.Similarity,
				CompetitorID: sp.CompetitorID,
			})
		case sp.Similarity >= substituteThreshold:
			landscape.Substitutes = append(landscape.Substitutes, analysis.SubstituteProduct{
				ProductID:  sp.ID,
				Name:       sp.Name,
				Similarity: sp.Similarity,
				Risk:       "medium",
			})
		}
	}
	return landscape
}

// MarketPosition buckets positioning by competitor density with a fixed
// confidence of 0.6.
func (a *analyzerImpl) MarketPosition(competitorCount int) analysis.MarketPosition {
	pos := analysis.MarketPosition{
		CompetitorCount: competitorCount,
		Confidence:      0.6,
	}
	switch {
	case competitorCount < 3:
		pos.Positioning = "leader"
		pos.EstimatedShare = 0.30
	case competitorCount < 8:
		pos.Positioning = "challenger"
		pos.EstimatedShare = 0.15
	case competitorCount < 15:
		pos.Positioning = "follower"
		pos.EstimatedShare = 0.05
	default:
		pos.Positioning = "niche"
		pos.EstimatedShare = 0.01
	}
	return pos
}

// AssessThreats generates the threat list and rolls the maximum severity up
// into the overall risk.
func (a *analyzerImpl) AssessThreats(similar []*product.SimilarProduct) analysis.ThreatAssessment {
	assessment := analysis.ThreatAssessment{}

	parityCount := 0
	for _, sp := range similar {
		if sp.Similarity > parityThreshold {
			parityCount++
		}
	}
	if parityCount > 0 {
		severity := "medium"
		if parityCount > 3 {
			severity = "high"
		}
		assessment.Threats = append(assessment.Threats, analysis.Threat{
			Type:        "feature_parity",
			Severity:    severity,
			Description: fmt.Sprintf("%d products show near-identical positioning (similarity > %.1f)", parityCount, parityThreshold),
		})
	}

	assessment.Threats = append(assessment.Threats, analysis.Threat{
		Type:        "price_competition",
		Severity:    "medium",
		Description: "Competitors can undercut on price at any time",
	})

	if len(similar) > 10 {
		assessment.Threats = append(assessment.Threats, analysis.Threat{
			Type:        "market_shift",
			Severity:    "medium",
			Description: fmt.Sprintf("Crowded field of %d similar products signals a shifting market", len(similar)),
		})
	}

	assessment.OverallRisk = maxSeverity(assessment.Threats)
	return assessment
}

// ReportConfidence scales with the number of populated report components.
func (a *analyzerImpl) ReportConfidence(componentCount int) float64 {
	confidence := 0.2 * float64(componentCount)
	if confidence > 0.9 {
		confidence = 0.9
	}
	if confidence < 0.3 {
		confidence = 0.3
	}
	return confidence
}

var severityRank = map[string]int{"low": 1, "medium": 2, "high": 3}

func maxSeverity(threats []analysis.Threat) string {
	overall := "low"
	for _, t := range threats {
		if severityRank[t.Severity] > severityRank[overall] {
			overall = t.Severity
		}
	}
	return overall
}
