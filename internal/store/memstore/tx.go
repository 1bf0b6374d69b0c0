package memstore

import (
	"context"
	"fmt"
	"sort"

	"campus-market/internal/models"
)

// tx runs with Store.mu already held.
type tx struct {
	s *Store
}

func (t *tx) CheckoutLines(ctx context.Context, buyerID int64) ([]models.CheckoutLine, error) {
	if err := t.s.fault("CheckoutLines"); err != nil {
		return nil, err
	}
	var lines []models.CheckoutLine
	for _, c := range t.s.st.cart {
		if c.UserID != buyerID {
			continue
		}
		item := t.s.st.items[c.ItemID]
		lines = append(lines, models.CheckoutLine{
			CartID:   c.ID,
			ItemID:   c.ItemID,
			SellerID: item.SellerID,
			Quantity: c.Quantity,
			Price:    item.Price,
		})
	}
	return lines, nil
}

func (t *tx) InsertOrder(ctx context.Context, order *models.Order) error {
	if err := t.s.fault("InsertOrder"); err != nil {
		return err
	}
	if _, ok := t.s.st.users[order.BuyerID]; !ok {
		return fmt.Errorf("failed to create order: buyer %d does not exist", order.BuyerID)
	}
	t.s.st.nextOrder++
	now := t.s.now()
	order.ID = t.s.st.nextOrder
	order.CreatedAt = now
	order.UpdatedAt = now
	stored := *order
	stored.Items = nil
	stored.BuyerName = ""
	t.s.st.orders[order.ID] = stored
	return nil
}

func (t *tx) InsertOrderLine(ctx context.Context, line *models.OrderLine) error {
	if err := t.s.fault("InsertOrderLine"); err != nil {
		return err
	}
	if _, ok := t.s.st.orders[line.OrderID]; !ok {
		return fmt.Errorf("failed to create order item: order %d does not exist", line.OrderID)
	}
	t.s.st.nextLine++
	line.ID = t.s.st.nextLine
	t.s.st.lines = append(t.s.st.lines, *line)
	return nil
}

func (t *tx) InsertNotification(ctx context.Context, n *models.Notification) error {
	if err := t.s.fault("InsertNotification"); err != nil {
		return err
	}
	if _, ok := t.s.st.users[n.UserID]; !ok {
		return fmt.Errorf("failed to create notification: user %d does not exist", n.UserID)
	}
	t.s.st.nextNotification++
	n.ID = t.s.st.nextNotification
	n.IsRead = false
	n.CreatedAt = t.s.now()
	t.s.st.notifications = append(t.s.st.notifications, *n)
	return nil
}

func (t *tx) ClearCart(ctx context.Context, buyerID int64) error {
	if err := t.s.fault("ClearCart"); err != nil {
		return err
	}
	kept := make([]models.CartLine, 0, len(t.s.st.cart))
	for _, c := range t.s.st.cart {
		if c.UserID != buyerID {
			kept = append(kept, c)
		}
	}
	t.s.st.cart = kept
	return nil
}

func (t *tx) LockOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	o, ok := t.s.st.orders[orderID]
	if !ok {
		return nil, notFound("order", orderID)
	}
	return &o, nil
}

func (t *tx) OrderSellerIDs(ctx context.Context, orderID int64) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, l := range t.s.st.lines {
		if l.OrderID == orderID && !seen[l.SellerID] {
			seen[l.SellerID] = true
			ids = append(ids, l.SellerID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (t *tx) SetOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	if err := t.s.fault("SetOrderStatus"); err != nil {
		return err
	}
	o, ok := t.s.st.orders[orderID]
	if !ok {
		return notFound("order", orderID)
	}
	o.Status = status
	o.UpdatedAt = t.s.now()
	t.s.st.orders[orderID] = o
	return nil
}
