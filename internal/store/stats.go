package store

import (
	"context"
	"fmt"

	"campus-market/internal/models"
)

// ApplyOrderPlaced folds one ORDER_PLACED event into seller_stats exactly once
func (s *Store) ApplyOrderPlaced(ctx context.Context, eventID, eventType string, sales []models.SellerSale) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	if err != nil {
		return false, fmt.Errorf("failed to mark event processed: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n == 0 {
		return false, nil
	}

	for _, sale := range sales {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO seller_stats (seller_id, orders_count, units_sold, revenue, updated_at)
			VALUES ($1, 1, $2, $3, NOW())
			ON CONFLICT (seller_id) DO UPDATE SET
				orders_count = seller_stats.orders_count + 1,
				units_sold   = seller_stats.units_sold + EXCLUDED.units_sold,
				revenue      = seller_stats.revenue + EXCLUDED.revenue,
				updated_at   = NOW()`,
			sale.SellerID, sale.Units, sale.Revenue)
		if err != nil {
			return false, fmt.Errorf("failed to update seller stats for %d: %w", sale.SellerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seller stats: %w", err)
	}
	return true, nil
}

// GetSellerStats retrieves a seller's aggregated sales
func (s *Store) GetSellerStats(ctx context.Context, sellerID int64) (*models.SellerStats, error) {
	var stats models.SellerStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT seller_id, orders_count, units_sold, revenue, updated_at
		FROM seller_stats
		WHERE seller_id = $1`, sellerID)
	if err != nil {
		return nil, notFound(err, "seller stats", sellerID)
	}
	return &stats, nil
}
