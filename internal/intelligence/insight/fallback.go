package insight

import (
	"context"
	"fmt"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
)

// relationshipRules maps each competitive relationship to its deterministic
// threat/opportunity/recommendation lists.
type relationshipRule struct {
	threats         []string
	opportunities   []string
	recommendations []Recommendation
}

var relationshipRules = map[analysis.Relationship]relationshipRule{
	analysis.RelationshipDirectCompetitor: {
		threats: []string{
			"Direct competition for the same customer segment",
			"Feature parity erodes differentiation over time",
		},
		opportunities: []string{
			"Win head-to-head comparisons with superior execution",
			"Target competitor's dissatisfied customers",
		},
		recommendations: []Recommendation{
			{Action: "Monitor competitor pricing and feature releases closely", Priority: "high", Timeline: "ongoing"},
			{Action: "Sharpen differentiation messaging against this competitor", Priority: "high", Timeline: "quarter"},
		},
	},
	analysis.RelationshipIndirectCompetitor: {
		threats: []string{
			"Partial feature overlap may expand into direct competition",
		},
		opportunities: []string{
			"Capture adjacent use cases before the competitor does",
		},
		recommendations: []Recommendation{
			{Action: "Track competitor roadmap for convergence signals", Priority: "medium", Timeline: "quarter"},
		},
	},
	analysis.RelationshipSubstitute: {
		threats: []string{
			"Customers can solve the same problem a different way",
			"Price-sensitive buyers may switch to the substitute",
		},
		opportunities: []string{
			"Emphasize outcomes the substitute cannot deliver",
		},
		recommendations: []Recommendation{
			{Action: "Quantify switching costs in sales collateral", Priority: "medium", Timeline: "quarter"},
		},
	},
	analysis.RelationshipComplement: {
		threats: nil,
		opportunities: []string{
			"Partnership or integration potential with complementary product",
			"Joint go-to-market could expand both customer bases",
		},
		recommendations: []Recommendation{
			{Action: "Evaluate integration partnership", Priority: "low", Timeline: "half-year"},
		},
	},
}

var defaultRule = relationshipRule{
	opportunities: []string{
		"Low competitive overlap leaves room for independent growth",
	},
	recommendations: []Recommendation{
		{Action: "Revisit this pairing if market positioning shifts", Priority: "low", Timeline: "half-year"},
	},
}

// RuleFallback is the deterministic provider used when the model is
// unavailable. Same output contract, fixed tables, no external calls.
type RuleFallback struct{}

func NewRuleFallback() *RuleFallback { return &RuleFallback{} }

func (*RuleFallback) Name() string { return "rule_fallback" }

func (*RuleFallback) GenerateInsights(_ context.Context, req Request) (*Result, error) {
	rule, ok := relationshipRules[req.Relationship]
	if !ok {
		rule = defaultRule
	}

	result := &Result{
		Summary:         fallbackSummary(req),
		Recommendations: append([]Recommendation(nil), rule.recommendations...),
	}
	result.KeyInsights = append(result.KeyInsights, rule.threats...)
	result.KeyInsights = append(result.KeyInsights, rule.opportunities...)

	if len(req.MissingFeatures) > 0 {
		result.Recommendations = append(result.Recommendations, Recommendation{
			Action:   fmt.Sprintf("Close the %d highest-coverage feature gaps", min(len(req.MissingFeatures), 3)),
			Priority: "medium",
			Timeline: "quarter",
		})
	}
	if req.CompetitorCount > 10 {
		result.KeyInsights = append(result.KeyInsights,
			"Crowded competitive field increases pressure on differentiation")
	}

	return result, nil
}

// Implications converts a result into the persisted strategy lists, keeping
// the rule tables' threat/opportunity split.
func Implications(req Request, result *Result) analysis.StrategicImplications {
	rule, ok := relationshipRules[req.Relationship]
	if !ok {
		rule = defaultRule
	}

	impl := analysis.StrategicImplications{
		Threats:       append([]string(nil), rule.threats...),
		Opportunities: append([]string(nil), rule.opportunities...),
	}
	for _, rec := range result.Recommendations {
		impl.Recommendations = append(impl.Recommendations, rec.Action)
	}
	return impl
}

func fallbackSummary(req Request) string {
	target := "the competitive set"
	if req.Target != nil {
		target = req.Target.Name
	}
	if req.Relationship != "" {
		return fmt.Sprintf("%s relates to %s as %s (overall similarity %.2f).",
			req.Source.Name, target, req.Relationship, req.OverallScore)
	}
	return fmt.Sprintf("Competitive assessment for %s across %d similar products.",
		req.Source.Name, req.CompetitorCount)
}
