package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/analysis"
	driver "github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/neo4j"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// Nested structures are stored as JSON text properties on the node, tagged
// with schema_version. Reads must round-trip losslessly; a property that
// fails to parse is treated as store corruption, never silently defaulted.
type neo4jAnalysisRepo struct {
	driver driver.DriverInterface
	log    logging.Logger
}

// NewNeo4jAnalysisRepo returns the graph-store persistence for similarity
// analyses and intelligence reports.
func NewNeo4jAnalysisRepo(d driver.DriverInterface, log logging.Logger) analysis.Repository {
	return &neo4jAnalysisRepo{
		driver: d,
		log:    log,
	}
}

func (r *neo4jAnalysisRepo) SaveSimilarityAnalysis(ctx context.Context, a *analysis.ProductSimilarityAnalysis) error {
	feature, err := marshalProp("feature", a.Feature)
	if err != nil {
		return err
	}
	pricing, err := marshalProp("pricing", a.Pricing)
	if err != nil {
		return err
	}
	market, err := marshalProp("market", a.Market)
	if err != nil {
		return err
	}
	semantic, err := marshalProp("semantic", a.Semantic)
	if err != nil {
		return err
	}
	implications, err := marshalProp("implications", a.Implications)
	if err != nil {
		return err
	}

	query := `
		CREATE (a:SimilarityAnalysis {
			id: $id,
			source_product_id: $sourceId,
			target_product_id: $targetId,
			overall_score: $overallScore,
			type: $type,
			relationship: $relationship,
			confidence: $confidence,
			insight_summary: $insightSummary,
			analyzed_at: $analyzedAt,
			schema_version: $schemaVersion,
			feature_json: $feature,
			pricing_json: $pricing,
			market_json: $market,
			semantic_json: $semantic,
			implications_json: $implications
		})
		WITH a
		MATCH (s:Product {id: $sourceId}), (t:Product {id: $targetId})
		MERGE (a)-[:ANALYZES_SOURCE]->(s)
		MERGE (a)-[:ANALYZES_TARGET]->(t)
	`
	params := map[string]any{
		"id":             a.ID,
		"sourceId":       a.SourceProductID,
		"targetId":       a.TargetProductID,
		"overallScore":   a.OverallScore,
		"type":           string(a.Type),
		"relationship":   string(a.Relationship),
		"confidence":     a.Confidence,
		"insightSummary": a.InsightSummary,
		"analyzedAt":     a.AnalyzedAt.UTC().Format(time.RFC3339Nano),
		"schemaVersion":  int64(a.SchemaVersion),
		"feature":        feature,
		"pricing":        pricing,
		"market":         market,
		"semantic":       semantic,
		"implications":   implications,
	}

	_, err = r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeAnalysisPersistFailed, "failed to persist analysis %s", a.ID)
	}
	return nil
}

func (r *neo4jAnalysisRepo) FindSimilarityAnalysisByID(ctx context.Context, id string) (*analysis.ProductSimilarityAnalysis, error) {
	query := `
		MATCH (a:SimilarityAnalysis {id: $id})
		RETURN a
	`
	params := map[string]any{"id": id}

	res, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return nil, err
			}
			return nil, errors.Newf(errors.ErrCodeAnalysisNotFound, "analysis %s not found", id)
		}
		return mapAnalysisRecord(result.Record())
	})
	if err != nil {
		// Re-surface the inner code over the driver's database-error wrapping.
		if errors.IsCode(err, errors.ErrCodeAnalysisNotFound) {
			return nil, errors.Newf(errors.ErrCodeAnalysisNotFound, "analysis %s not found", id)
		}
		if errors.IsCode(err, errors.ErrCodeSerialization) {
			return nil, errors.Wrapf(err, errors.ErrCodeSerialization, "analysis %s failed to deserialize", id)
		}
		return nil, errors.Wrapf(err, errors.ErrCodeDatabaseError, "failed to read analysis %s", id)
	}
	return res.(*analysis.ProductSimilarityAnalysis), nil
}

func (r *neo4jAnalysisRepo) CountAnalysesSince(ctx context.Context, since time.Time) (int64, error) {
	query := `
		MATCH (a:SimilarityAnalysis)
		WHERE a.analyzed_at >= $since
		RETURN count(a) AS total
	`
	params := map[string]any{"since": since.UTC().Format(time.RFC3339Nano)}

	res, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return driver.ExtractSingleRecord(ctx, result, func(rec *neo4j.Record) (int64, error) {
			total, ok := rec.Values[0].(int64)
			if !ok {
				return 0, errors.New(errors.ErrCodeDatabaseError, "unexpected count type")
			}
			return total, nil
		})
	})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count analyses")
	}
	return res.(int64), nil
}

func (r *neo4jAnalysisRepo) SaveReport(ctx context.Context, rep *analysis.ProductIntelligenceReport) error {
	marketPosition, err := marshalProp("market_position", rep.MarketPosition)
	if err != nil {
		return err
	}
	landscape, err := marshalProp("landscape", rep.Landscape)
	if err != nil {
		return err
	}
	features, err := marshalProp("features", rep.Features)
	if err != nil {
		return err
	}
	pricing, err := marshalProp("pricing", rep.Pricing)
	if err != nil {
		return err
	}
	opportunities, err := marshalProp("opportunities", rep.Opportunities)
	if err != nil {
		return err
	}
	threats, err := marshalProp("threats", rep.Threats)
	if err != nil {
		return err
	}
	recommendations, err := marshalProp("recommendations", rep.Recommendations)
	if err != nil {
		return err
	}

	query := `
		CREATE (r:IntelligenceReport {
			id: $id,
			product_id: $productId,
			confidence: $confidence,
			insight_summary: $insightSummary,
			generated_at: $generatedAt,
			schema_version: $schemaVersion,
			market_position_json: $marketPosition,
			landscape_json: $landscape,
			features_json: $features,
			pricing_json: $pricing,
			opportunities_json: $opportunities,
			threats_json: $threats,
			recommendations_json: $recommendations
		})
		WITH r
		MATCH (p:Product {id: $productId})
		MERGE (r)-[:REPORTS_ON]->(p)
	`
	params := map[string]any{
		"id":              rep.ID,
		"productId":       rep.ProductID,
		"confidence":      rep.Confidence,
		"insightSummary":  rep.InsightSummary,
		"generatedAt":     rep.GeneratedAt.UTC().Format(time.RFC3339Nano),
		"schemaVersion":   int64(rep.SchemaVersion),
		"marketPosition":  marketPosition,
		"landscape":       landscape,
		"features":        features,
		"pricing":         pricing,
		"opportunities":   opportunities,
		"threats":         threats,
		"recommendations": recommendations,
	}

	_, err = r.driver.ExecuteWrite(ctx, func(tx driver.Transaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodeAnalysisPersistFailed, "failed to persist report %s", rep.ID)
	}
	return nil
}

func (r *neo4jAnalysisRepo) FindReportByID(ctx context.Context, id string) (*analysis.ProductIntelligenceReport, error) {
	query := `
		MATCH (r:IntelligenceReport {id: $id})
		RETURN r
	`
	return r.findReport(ctx, query, map[string]any{"id": id}, id)
}

func (r *neo4jAnalysisRepo) FindLatestReportForProduct(ctx context.Context, productID string) (*analysis.ProductIntelligenceReport, error) {
	query := `
		MATCH (r:IntelligenceReport {product_id: $productId})
		RETURN r
		ORDER BY r.generated_at DESC
		LIMIT 1
	`
	return r.findReport(ctx, query, map[string]any{"productId": productID}, productID)
}

func (r *neo4jAnalysisRepo) findReport(ctx context.Context, query string, params map[string]any, ref string) (*analysis.ProductIntelligenceReport, error) {
	res, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return nil, err
			}
			return nil, errors.Newf(errors.ErrCodeReportNotFound, "no report found for %s", ref)
		}
		return mapReportRecord(result.Record())
	})
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeReportNotFound) {
			return nil, errors.Newf(errors.ErrCodeReportNotFound, "no report found for %s", ref)
		}
		if errors.IsCode(err, errors.ErrCodeSerialization) {
			return nil, errors.Wrapf(err, errors.ErrCodeSerialization, "report for %s failed to deserialize", ref)
		}
		return nil, errors.Wrapf(err, errors.ErrCodeDatabaseError, "failed to read report for %s", ref)
	}
	return res.(*analysis.ProductIntelligenceReport), nil
}

func mapAnalysisRecord(rec *neo4j.Record) (*analysis.ProductSimilarityAnalysis, error) {
	props, err := nodeProps(rec, "a")
	if err != nil {
		return nil, err
	}

	a := &analysis.ProductSimilarityAnalysis{
		ID:              stringProp(props, "id"),
		SourceProductID: stringProp(props, "source_product_id"),
		TargetProductID: stringProp(props, "target_product_id"),
		OverallScore:    floatProp(props, "overall_score"),
		Type:            analysis.Type(stringProp(props, "type")),
		Relationship:    analysis.Relationship(stringProp(props, "relationship")),
		Confidence:      floatProp(props, "confidence"),
		InsightSummary:  stringProp(props, "insight_summary"),
		AnalyzedAt:      timeProp(props, "analyzed_at"),
		SchemaVersion:   intProp(props, "schema_version"),
	}

	if err := unmarshalProp(props, "feature_json", &a.Feature); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "pricing_json", &a.Pricing); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "market_json", &a.Market); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "semantic_json", &a.Semantic); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "implications_json", &a.Implications); err != nil {
		return nil, err
	}
	return a, nil
}

func mapReportRecord(rec *neo4j.Record) (*analysis.ProductIntelligenceReport, error) {
	props, err := nodeProps(rec, "r")
	if err != nil {
		return nil, err
	}

	rep := &analysis.ProductIntelligenceReport{
		ID:             stringProp(props, "id"),
		ProductID:      stringProp(props, "product_id"),
		Confidence:     floatProp(props, "confidence"),
		InsightSummary: stringProp(props, "insight_summary"),
		GeneratedAt:    timeProp(props, "generated_at"),
		SchemaVersion:  intProp(props, "schema_version"),
	}

	if err := unmarshalProp(props, "market_position_json", &rep.MarketPosition); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "landscape_json", &rep.Landscape); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "features_json", &rep.Features); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "pricing_json", &rep.Pricing); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "opportunities_json", &rep.Opportunities); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "threats_json", &rep.Threats); err != nil {
		return nil, err
	}
	if err := unmarshalProp(props, "recommendations_json", &rep.Recommendations); err != nil {
		return nil, err
	}
	return rep, nil
}

func nodeProps(rec *neo4j.Record, key string) (map[string]any, error) {
	raw, ok := rec.Get(key)
	if !ok {
		return nil, errors.New(errors.ErrCodeDatabaseError, "record missing node")
	}
	node, ok := raw.(neo4j.Node)
	if !ok {
		return nil, errors.New(errors.ErrCodeDatabaseError, "record is not a node")
	}
	return node.Props, nil
}

func marshalProp(name string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCodeSerialization, "failed to serialize %s", name)
	}
	return string(data), nil
}

func unmarshalProp(props map[string]any, key string, dst any) error {
	raw, ok := props[key].(string)
	if !ok || raw == "" {
		return errors.Newf(errors.ErrCodeSerialization, "stored property %s is missing or not text", key)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errors.Wrapf(err, errors.ErrCodeSerialization, "stored property %s failed to parse", key)
	}
	return nil
}
