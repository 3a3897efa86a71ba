// Package pricing holds the price time-series entities and the relational
// store contract backing the pricing positioning analysis.
package pricing

import (
	"context"
	"time"
)

// DataPoint is one observed price for a product at a point in time.
type DataPoint struct {
	ProductID  string    `json:"product_id"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	ObservedAt time.Time `json:"observed_at"`
}

// Analysis is one persisted pricing positioning result.
type Analysis struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Positioning  string    `json:"positioning"`
	OwnPrice     float64   `json:"own_price"`
	MarketMedian float64   `json:"market_median"`
	MarketMean   float64   `json:"market_mean"`
	SampleSize   int       `json:"sample_size"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

// Store is the relational persistence contract for price history and pricing
// analyses.
type Store interface {
	// RecordDataPoint appends one price observation.
	RecordDataPoint(ctx context.Context, p *DataPoint) error

	// History returns the observations for a product since the given time,
	// oldest first.
	History(ctx context.Context, productID string, since time.Time) ([]*DataPoint, error)

	// LatestPrices returns the most recent observed price per product id.
	// Products without history are absent from the result.
	LatestPrices(ctx context.Context, productIDs []string) (map[string]float64, error)

	// SaveAnalysis persists a pricing positioning result.
	SaveAnalysis(ctx context.Context, a *Analysis) error

	// CleanupExpired deletes observations older than the retention window and
	// returns how many rows were removed.
	CleanupExpired(ctx context.Context, retention time.Duration) (int64, error)

	// Ping reports store reachability for health checks.
	Ping(ctx context.Context) error
}
