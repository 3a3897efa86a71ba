// Package milvus implements the similarity oracle on top of the vector store
// holding product description embeddings.
package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/turtacn/MarketEdge-Intelligence/internal/config"
	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/product"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/stats"
)

// milvusNewClient is a variable so tests can substitute the factory.
var milvusNewClient = func(ctx context.Context, conf client.Config) (client.Client, error) {
	return client.NewClient(ctx, conf)
}

// vectorClient is the slice of the milvus client the oracle actually uses.
type vectorClient interface {
	Query(ctx context.Context, collName string, partitions []string, expr string, outputFields []string, opts ...client.SearchQueryOptionFunc) (client.ResultSet, error)
	Search(ctx context.Context, collName string, partitions []string, expr string, outputFields []string, vectors []entity.Vector, vectorField string, metricType entity.MetricType, topK int, sp entity.SearchParam, opts ...client.SearchQueryOptionFunc) ([]client.SearchResult, error)
	CheckHealth(ctx context.Context) (*entity.MilvusState, error)
	Close() error
}

// Oracle answers "which products compete with X" by vector similarity over
// the embedding collection. It implements product.SimilarityOracle.
type Oracle struct {
	mc     vectorClient
	cfg    config.MilvusConfig
	logger logging.Logger
}

// NewOracle connects to milvus and verifies health before returning.
func NewOracle(cfg config.MilvusConfig, log logging.Logger) (*Oracle, error) {
	if cfg.Addr == "" {
		return nil, errors.NewValidation("milvus address is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mc, err := milvusNewClient(ctx, client.Config{Address: cfg.Addr})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeOracleUnavailable, "failed to connect to milvus")
	}

	o := &Oracle{
		mc:     mc,
		cfg:    cfg,
		logger: log,
	}

	if err := o.Ping(ctx); err != nil {
		mc.Close()
		return nil, err
	}

	log.Info("Milvus oracle connected",
		logging.String("addr", cfg.Addr),
		logging.String("collection", cfg.CollectionName))
	return o, nil
}

// NewOracleWithClient wraps an existing client, used by tests.
func NewOracleWithClient(mc vectorClient, cfg config.MilvusConfig, log logging.Logger) *Oracle {
	return &Oracle{mc: mc, cfg: cfg, logger: log}
}

var _ product.SimilarityOracle = (*Oracle)(nil)

// FindCompetingProducts returns ranked similar products for the given
// product, excluding the product itself and anything under minScore.
func (o *Oracle) FindCompetingProducts(ctx context.Context, productID string, limit int, minScore float64) ([]*product.SimilarProduct, error) {
	if limit <= 0 {
		limit = o.cfg.DefaultTopK
	}
	if limit <= 0 {
		limit = 20
	}

	vec, err := o.embeddingFor(ctx, productID)
	if err != nil {
		return nil, err
	}

	searchCtx := ctx
	if o.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, o.cfg.SearchTimeout)
		defer cancel()
	}

	sp, err := entity.NewIndexAUTOINDEXSearchParam(1)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeOracleSearchFailed, "failed to build search params")
	}

	// limit+1 so the source product can be dropped without shorting the page.
	results, err := o.mc.Search(searchCtx,
		o.cfg.CollectionName,
		nil,
		fmt.Sprintf(`product_id != %q`, productID),
		[]string{"product_id", "name", "competitor_id"},
		[]entity.Vector{entity.FloatVector(vec)},
		o.vectorField(),
		entity.COSINE,
		limit+1,
		sp,
	)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeOracleSearchFailed, "similarity search for %s failed", productID)
	}

	var similar []*product.SimilarProduct
	for _, res := range results {
		if res.Err != nil {
			return nil, errors.Wrapf(res.Err, errors.ErrCodeOracleSearchFailed, "similarity search for %s failed", productID)
		}
		ids := varcharData(res.Fields.GetColumn("product_id"))
		names := varcharData(res.Fields.GetColumn("name"))
		competitors := varcharData(res.Fields.GetColumn("competitor_id"))

		for i, score := range res.Scores {
			if i >= len(ids) {
				break
			}
			// Cosine similarity lands in [-1, 1]; negative correlation
			// carries no competitive signal, so it clamps to zero.
			normalized := stats.Clamp01(float64(score))
			if normalized < minScore {
				continue
			}
			if ids[i] == productID {
				continue
			}
			sp := &product.SimilarProduct{
				ID:         ids[i],
				Similarity: normalized,
			}
			if i < len(names) {
				sp.Name = names[i]
			}
			if i < len(competitors) {
				sp.CompetitorID = competitors[i]
			}
			similar = append(similar, sp)
			if len(similar) >= limit {
				break
			}
		}
	}

	return similar, nil
}

// Ping reports oracle reachability.
func (o *Oracle) Ping(ctx context.Context) error {
	state, err := o.mc.CheckHealth(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeOracleUnavailable, "milvus health check failed")
	}
	if state != nil && !state.IsHealthy {
		return errors.New(errors.ErrCodeOracleUnavailable, "milvus reports unhealthy state")
	}
	return nil
}

// Close releases the underlying client.
func (o *Oracle) Close() error {
	return o.mc.Close()
}

// embeddingFor fetches the stored embedding of a product.
func (o *Oracle) embeddingFor(ctx context.Context, productID string) ([]float32, error) {
	rs, err := o.mc.Query(ctx,
		o.cfg.CollectionName,
		nil,
		fmt.Sprintf(`product_id == %q`, productID),
		[]string{o.vectorField()},
	)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeOracleSearchFailed, "failed to query embedding for %s", productID)
	}

	col := rs.GetColumn(o.vectorField())
	vecCol, ok := col.(*entity.ColumnFloatVector)
	if !ok || vecCol.Len() == 0 {
		return nil, errors.Newf(errors.ErrCodeProductNotFound, "no embedding found for product %s", productID)
	}
	return vecCol.Data()[0], nil
}

func (o *Oracle) vectorField() string {
	if o.cfg.VectorField != "" {
		return o.cfg.VectorField
	}
	return "embedding"
}

func varcharData(col entity.Column) []string {
	if col == nil {
		return nil
	}
	if vc, ok := col.(*entity.ColumnVarChar); ok {
		return vc.Data()
	}
	return nil
}
