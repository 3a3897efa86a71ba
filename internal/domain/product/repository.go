package product

import "context"

// Repository is the read contract against the graph store for product
// snapshots. The engine never writes products; population is the collection
// pipeline's concern.
type Repository interface {
	// FindByID returns the product with the given id, or a
	// PRD_001-coded error when it does not exist.
	FindByID(ctx context.Context, id string) (*CompetitorProduct, error)

	// FindByIDs returns the products for the given ids, skipping ids that do
	// not resolve. The result order is unspecified.
	FindByIDs(ctx context.Context, ids []string) ([]*CompetitorProduct, error)

	// Count returns the total number of product nodes in the store.
	Count(ctx context.Context) (int64, error)
}

// SimilarityOracle is the external semantic-similarity collaborator. It
// returns a ranked candidate list for a product; the engine treats the scores
// as already normalized to [0,1].
type SimilarityOracle interface {
	FindCompetingProducts(ctx context.Context, productID string, limit int, minScore float64) ([]*SimilarProduct, error)

	// Ping reports oracle reachability for health checks.
	Ping(ctx context.Context) error
}
