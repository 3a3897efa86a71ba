// Package repositories holds the relational implementations of the pricing
// persistence contracts.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/turtacn/MarketEdge-Intelligence/internal/domain/pricing"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/MarketEdge-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MarketEdge-Intelligence/pkg/errors"
)

type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type postgresPricingStore struct {
	conn *postgres.Connection
	log  logging.Logger
}

// NewPostgresPricingStore returns the relational pricing store.
func NewPostgresPricingStore(conn *postgres.Connection, log logging.Logger) pricing.Store {
	return &postgresPricingStore{
		conn: conn,
		log:  log,
	}
}

func (r *postgresPricingStore) executor() queryExecutor {
	return r.conn.DB()
}

func (r *postgresPricingStore) RecordDataPoint(ctx context.Context, p *pricing.DataPoint) error {
	query := `
		INSERT INTO price_observations (product_id, price, currency, observed_at)
		VALUES ($1, $2, $3, $4)
	`
	observedAt := p.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	_, err := r.executor().ExecContext(ctx, query, p.ProductID, p.Price, p.Currency, observedAt)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodePricingStoreFailed, "failed to record price for %s", p.ProductID)
	}
	return nil
}

func (r *postgresPricingStore) History(ctx context.Context, productID string, since time.Time) ([]*pricing.DataPoint, error) {
	query := `
		SELECT product_id, price, currency, observed_at
		FROM price_observations
		WHERE product_id = $1 AND observed_at >= $2
		ORDER BY observed_at ASC
	`
	rows, err := r.executor().QueryContext(ctx, query, productID, since)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeDatabaseError, "failed to query price history for %s", productID)
	}
	defer rows.Close()

	var points []*pricing.DataPoint
	for rows.Next() {
		var p pricing.DataPoint
		if err := rows.Scan(&p.ProductID, &p.Price, &p.Currency, &p.ObservedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan price observation")
		}
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "price history iteration failed")
	}
	return points, nil
}

func (r *postgresPricingStore) LatestPrices(ctx context.Context, productIDs []string) (map[string]float64, error) {
	if len(productIDs) == 0 {
		return map[string]float64{}, nil
	}

	query := `
		SELECT DISTINCT ON (product_id) product_id, price
		FROM price_observations
		WHERE product_id = ANY($1)
		ORDER BY product_id, observed_at DESC
	`
	rows, err := r.executor().QueryContext(ctx, query, productIDs)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query latest prices")
	}
	defer rows.Close()

	prices := make(map[string]float64, len(productIDs))
	for rows.Next() {
		var id string
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan latest price")
		}
		prices[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "latest price iteration failed")
	}
	return prices, nil
}

func (r *postgresPricingStore) SaveAnalysis(ctx context.Context, a *pricing.Analysis) error {
	query := `
		INSERT INTO pricing_analyses (id, product_id, positioning, own_price, market_median, market_mean, sample_size, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.executor().ExecContext(ctx, query,
		a.ID, a.ProductID, a.Positioning, a.OwnPrice, a.MarketMedian, a.MarketMean, a.SampleSize, a.AnalyzedAt)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCodePricingStoreFailed, "failed to persist pricing analysis %s", a.ID)
	}
	return nil
}

func (r *postgresPricingStore) CleanupExpired(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, errors.NewValidation("retention must be positive, got %s", retention)
	}

	query := `DELETE FROM price_observations WHERE observed_at < $1`
	cutoff := time.Now().UTC().Add(-retention)

	res, err := r.executor().ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodePricingCleanupFailed, "failed to clean up expired price observations")
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodePricingCleanupFailed, "failed to read cleanup row count")
	}

	r.log.Info("Cleaned up expired price observations",
		logging.Int64("removed", removed),
		logging.Duration("retention", retention),
	)
	return removed, nil
}

func (r *postgresPricingStore) Ping(ctx context.Context) error {
	return r.conn.HealthCheck(ctx)
}
