package store

import (
	"context"
	"fmt"

	"campus-market/internal/apperr"
	"campus-market/internal/models"

	"github.com/shopspring/decimal"
)

// AddCartItem inserts a cart line or increments the existing one
func (s *Store) AddCartItem(ctx context.Context, userID, itemID int64, quantity int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart (user_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity`,
		userID, itemID, quantity)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return apperr.Wrap(apperr.CodeNotFound, err, "item not found")
		}
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// SetCartQuantity overwrites a line's quantity
func (s *Store) SetCartQuantity(ctx context.Context, userID, itemID int64, quantity int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart SET quantity = $1 WHERE user_id = $2 AND item_id = $3",
		quantity, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to update cart quantity: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemoveCartItem deletes one cart line
func (s *Store) RemoveCartItem(ctx context.Context, userID, itemID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cart WHERE user_id = $1 AND item_id = $2", userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ClearCart deletes every line in a user's cart
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	return clearCart(ctx, s.db, userID)
}

// ListCart retrieves cart lines joined with their items
func (s *Store) ListCart(ctx context.Context, userID int64) ([]models.CartEntry, error) {
	entries := []models.CartEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT c.id AS cart_id, i.id AS item_id, i.seller_id, i.title, i.category, i.image_url,
		       i.price, c.quantity, i.price * c.quantity AS line_total
		FROM cart c
		JOIN items i ON i.id = c.item_id
		WHERE c.user_id = $1
		ORDER BY c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return entries, nil
}

// CartTotal sums price * quantity over the cart at current item prices
func (s *Store) CartTotal(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(i.price * c.quantity), 0)
		FROM cart c
		JOIN items i ON i.id = c.item_id
		WHERE c.user_id = $1`, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute cart total: %w", err)
	}
	return total, nil
}
