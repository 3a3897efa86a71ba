// Package product defines the competitor-product entities the analysis engine
// operates on, together with the read contracts against the graph store and
// the similarity oracle. Products are immutable snapshots: the engine never
// mutates them, it only reads whatever the collection pipeline last wrote.
package product

import (
	"time"

	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

// CompetitorProduct is an immutable snapshot of a product record, either the
// seller's own or a competitor's.
type CompetitorProduct struct {
	ID           string    `json:"id"`
	CompetitorID string    `json:"competitor_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Features     []string  `json:"features"`
	ImageURL     string    `json:"image_url,omitempty"`
	ProductURL   string    `json:"product_url,omitempty"`
	InStock      bool      `json:"in_stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks the structural integrity of a product snapshot.
func (p *CompetitorProduct) Validate() error {
	if p.ID == "" {
		return errors.NewValidation("product id is required")
	}
	if p.Name == "" {
		return errors.NewValidation("product %s has no name", p.ID)
	}
	if p.Price < 0 {
		return errors.NewValidation("product %s has negative price %.2f", p.ID, p.Price)
	}
	return nil
}

// SimilarProduct is one ranked candidate returned by the similarity oracle.
// Scores are already normalized to [0,1] by the oracle contract.
type SimilarProduct struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Similarity   float64 `json:"similarity"`
	CompetitorID string  `json:"competitor_id"`
}
