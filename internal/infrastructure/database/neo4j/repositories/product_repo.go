// Package repositories holds the graph-store implementations of the product
// and analysis persistence contracts.
package repositories

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	driver "github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/neo4j"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

type neo4jProductRepo struct {
	driver driver.DriverInterface
	log    logging.Logger
}

// NewNeo4jProductRepo returns the graph-store product reader.
func NewNeo4jProductRepo(d driver.DriverInterface, log logging.Logger) product.Repository {
	return &neo4jProductRepo{
		driver: d,
		log:    log,
	}
}

func (r *neo4jProductRepo) FindByID(ctx context.Context, id string) (*product.CompetitorProduct, error) {
	query := `
		MATCH (p:Product {id: $id})
		RETURN p
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
			return nil, errors.Newf(errors.ErrCodeProductNotFound, "product %s not found", id)
		}
		return mapProductRecord(result.Record(), "p")
	})
	if err != nil {
		// Re-surface not-found over the driver's database-error wrapping.
		if errors.IsCode(err, errors.ErrCodeProductNotFound) {
			return nil, errors.Newf(errors.ErrCodeProductNotFound, "product %s not found", id)
		}
		return nil, errors.Wrapf(err, errors.ErrCodeProductFetchFailed, "failed to fetch product %s", id)
	}
	return res.(*product.CompetitorProduct), nil
}

func (r *neo4jProductRepo) FindByIDs(ctx context.Context, ids []string) ([]*product.CompetitorProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		MATCH (p:Product)
		WHERE p.id IN $ids
		RETURN p
	`
	params := map[string]any{"ids": ids}

	res, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return driver.CollectRecords(ctx, result, func(rec *neo4j.Record) (*product.CompetitorProduct, error) {
			return mapProductRecord(rec, "p")
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProductFetchFailed, "failed to fetch products")
	}
	return res.([]*product.CompetitorProduct), nil
}

func (r *neo4jProductRepo) Count(ctx context.Context) (int64, error) {
	query := `MATCH (p:Product) RETURN count(p) AS total`

	res, err := r.driver.ExecuteRead(ctx, func(tx driver.Transaction) (any, error) {
		result, err := tx.Run(ctx, query, nil)
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
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count products")
	}
	return res.(int64), nil
}

// mapProductRecord converts a Product node into the domain entity. Missing
// optional properties map to zero values; a malformed node is a corruption
// error, not a silent default.
func mapProductRecord(rec *neo4j.Record, key string) (*product.CompetitorProduct, error) {
	raw, ok := rec.Get(key)
	if !ok {
		return nil, errors.New(errors.ErrCodeProductStoreCorrupt, "product record missing node")
	}
	node, ok := raw.(neo4j.Node)
	if !ok {
		return nil, errors.New(errors.ErrCodeProductStoreCorrupt, "product record is not a node")
	}
	props := node.Props

	id, ok := props["id"].(string)
	if !ok || id == "" {
		return nil, errors.New(errors.ErrCodeProductStoreCorrupt, "product node has no id")
	}

	p := &product.CompetitorProduct{
		ID:           id,
		CompetitorID: stringProp(props, "competitor_id"),
		Name:         stringProp(props, "name"),
		Description:  stringProp(props, "description"),
		Category:     stringProp(props, "category"),
		Price:        floatProp(props, "price"),
		Currency:     stringProp(props, "currency"),
		Features:     stringSliceProp(props, "features"),
		ImageURL:     stringProp(props, "image_url"),
		ProductURL:   stringProp(props, "product_url"),
		InStock:      boolProp(props, "in_stock"),
		CreatedAt:    timeProp(props, "created_at"),
		UpdatedAt:    timeProp(props, "updated_at"),
	}
	return p, nil
}

func stringProp(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func floatProp(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func boolProp(props map[string]any, key string) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return false
}

func intProp(props map[string]any, key string) int {
	if v, ok := props[key].(int64); ok {
		return int(v)
	}
	return 0
}

func timeProp(props map[string]any, key string) time.Time {
	switch v := props[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func stringSliceProp(props map[string]any, key string) []string {
	raw, ok := props[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
