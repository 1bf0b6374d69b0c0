package store

import (
	"context"
	"fmt"

	"campus-market/internal/models"

	"github.com/jmoiron/sqlx"
)

const orderSelect = `
	SELECT o.id, o.buyer_id, u.username AS buyer_name, o.total_amount, o.status, o.created_at, o.updated_at
	FROM orders o
	JOIN users u ON u.id = o.buyer_id`

const orderLineSelect = `
	SELECT oi.id, oi.order_id, oi.item_id, oi.seller_id, oi.quantity, oi.price_at_purchase,
	       i.title, i.description, i.image_url
	FROM order_items oi
	JOIN items i ON i.id = oi.item_id`

// GetOrder retrieves an order with all of its lines
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := s.db.GetContext(ctx, &order, orderSelect+" WHERE o.id = $1", id); err != nil {
		return nil, notFound(err, "order", id)
	}

	lines := []models.OrderLine{}
	if err := s.db.SelectContext(ctx, &lines, orderLineSelect+" WHERE oi.order_id = $1 ORDER BY oi.id", id); err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	order.Items = lines
	return &order, nil
}

// ListBuyerOrders retrieves a buyer's orders, newest first
func (s *Store) ListBuyerOrders(ctx context.Context, buyerID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		orderSelect+" WHERE o.buyer_id = $1 ORDER BY o.created_at DESC, o.id DESC", buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buyer orders: %w", err)
	}
	return orders, nil
}

// ListSellerOrders retrieves orders containing the seller's items. Each order
// carries only that seller's lines.
func (s *Store) ListSellerOrders(ctx context.Context, sellerID int64) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT DISTINCT o.id, o.buyer_id, u.username AS buyer_name, o.total_amount, o.status, o.created_at, o.updated_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN users u ON u.id = o.buyer_id
		WHERE oi.seller_id = $1
		ORDER BY o.created_at DESC, o.id DESC`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	var lines []models.OrderLine
	if err := s.db.SelectContext(ctx, &lines,
		orderLineSelect+" WHERE oi.seller_id = $1 ORDER BY oi.order_id, oi.id", sellerID); err != nil {
		return nil, fmt.Errorf("failed to list seller order items: %w", err)
	}

	byOrder := make(map[int64][]models.OrderLine, len(orders))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], line)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// CheckoutLines reads the buyer's cart with current prices, locking the cart rows
func (t *txStore) CheckoutLines(ctx context.Context, buyerID int64) ([]models.CheckoutLine, error) {
	var lines []models.CheckoutLine
	err := t.tx.SelectContext(ctx, &lines, `
		SELECT c.id AS cart_id, c.item_id, i.seller_id, c.quantity, i.price
		FROM cart c
		JOIN items i ON i.id = c.item_id
		WHERE c.user_id = $1
		ORDER BY c.id
		FOR UPDATE OF c`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return lines, nil
}

// InsertOrder creates the order header
func (t *txStore) InsertOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (buyer_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := t.tx.QueryRowxContext(ctx, query, order.BuyerID, order.TotalAmount, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// InsertOrderLine creates one order line with its price snapshot
func (t *txStore) InsertOrderLine(ctx context.Context, line *models.OrderLine) error {
	query := `
		INSERT INTO order_items (order_id, item_id, seller_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := t.tx.QueryRowxContext(ctx, query,
		line.OrderID, line.ItemID, line.SellerID, line.Quantity, line.PriceAtPurchase).Scan(&line.ID)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (t *txStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, t.tx, n)
}

func (t *txStore) ClearCart(ctx context.Context, buyerID int64) error {
	return clearCart(ctx, t.tx, buyerID)
}

// LockOrder reads an order header FOR UPDATE
func (t *txStore) LockOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := t.tx.GetContext(ctx, &order, `
		SELECT id, buyer_id, total_amount, status, created_at, updated_at
		FROM orders
		WHERE id = $1
		FOR UPDATE`, orderID)
	if err != nil {
		return nil, notFound(err, "order", orderID)
	}
	return &order, nil
}

// OrderSellerIDs lists the distinct sellers with lines in an order
func (t *txStore) OrderSellerIDs(ctx context.Context, orderID int64) ([]int64, error) {
	var ids []int64
	err := t.tx.SelectContext(ctx, &ids,
		"SELECT DISTINCT seller_id FROM order_items WHERE order_id = $1 ORDER BY seller_id", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order sellers: %w", err)
	}
	return ids, nil
}

// SetOrderStatus updates order status
func (t *txStore) SetOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2", status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return rowsAffected(res, "order", orderID)
}

func clearCart(ctx context.Context, q sqlx.ExecerContext, userID int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM cart WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
