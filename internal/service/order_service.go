package service

import (
	"context"
	"fmt"
	"time"

	"campus-market/config"
	"campus-market/internal/apperr"
	"campus-market/internal/models"
	"campus-market/internal/store"
	"campus-market/internal/util"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	sellerOrderMessage   = "New order received for your item. Order ID: %d"
	buyerOrderMessage    = "Your order #%d has been placed successfully!"
	buyerStatusMessage   = "Your order #%d status has been updated to: %s"
	placeOrderLockKeyFmt = "place-order:%d"
)

// OrderService handles order business logic
type OrderService struct {
	orders         store.OrderStore
	locker         Locker
	idempotency    IdempotencyStore
	eventPublisher EventPublisher
	cfg            config.BusinessConfig
	logger         *zap.Logger
}

// NewOrderService creates a new order service. locker, idempotency and
// eventPublisher may be nil.
func NewOrderService(
	orders store.OrderStore,
	locker Locker,
	idempotency IdempotencyStore,
	eventPublisher EventPublisher,
	cfg config.BusinessConfig,
) *OrderService {
	return &OrderService{
		orders:         orders,
		locker:         locker,
		idempotency:    idempotency,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		logger:         util.GetLogger(),
	}
}

// PlaceOrder converts the buyer's cart into an order in one transaction. A
// non-empty idempotencyKey that was already used returns the original order.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID int64, idempotencyKey string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder", attribute.Int64("buyer_id", buyerID))
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderPlacementLatency.Observe(time.Since(start).Seconds())
	}()

	scopedKey := ""
	if idempotencyKey != "" && s.idempotency != nil {
		scopedKey = fmt.Sprintf("%d:%s", buyerID, idempotencyKey)
		if existing, ok := s.lookupIdempotent(ctx, scopedKey); ok {
			return existing, nil
		}
	}

	release, err := s.acquirePlacementLock(ctx, buyerID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("locked").Inc()
		return nil, err
	}
	defer release()

	// a same-key request may have committed while we waited for the lock
	if scopedKey != "" {
		if existing, ok := s.lookupIdempotent(ctx, scopedKey); ok {
			return existing, nil
		}
	}

	var order *models.Order
	err = s.orders.WithinTx(ctx, func(tx store.OrderTx) error {
		var txErr error
		order, txErr = s.placeFromCart(ctx, tx, buyerID)
		return txErr
	})
	if err != nil {
		util.RecordError(span, err)
		if apperr.IsCode(err, apperr.CodeEmptyCart) {
			util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		} else {
			util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
			s.logger.Error("Order placement failed", zap.Int64("buyer_id", buyerID), zap.Error(err))
		}
		return nil, err
	}

	util.OrdersPlacedTotal.Inc()
	util.NotificationsCreatedTotal.WithLabelValues("order_seller").Add(float64(len(distinctSellers(order.Items))))
	util.NotificationsCreatedTotal.WithLabelValues("order_buyer").Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("buyer_id", buyerID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(order.Items)))

	if scopedKey != "" {
		if err := s.idempotency.SetIdempotencyKey(ctx, scopedKey, order.ID, s.cfg.IdempotencyKeyTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	s.publishOrderPlaced(ctx, order)
	return order, nil
}

// placeFromCart is the body of the placement transaction
func (s *OrderService) placeFromCart(ctx context.Context, tx store.OrderTx, buyerID int64) (*models.Order, error) {
	lines, err := tx.CheckoutLines(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	order := &models.Order{
		BuyerID:     buyerID,
		TotalAmount: calculateTotal(lines),
		Status:      models.OrderStatusPending,
	}
	if err := tx.InsertOrder(ctx, order); err != nil {
		return nil, err
	}

	order.Items = make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		orderLine := models.OrderLine{
			OrderID:         order.ID,
			ItemID:          line.ItemID,
			SellerID:        line.SellerID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.Price,
		}
		if err := tx.InsertOrderLine(ctx, &orderLine); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, orderLine)
	}

	for _, sellerID := range distinctSellers(order.Items) {
		n := &models.Notification{UserID: sellerID, Message: fmt.Sprintf(sellerOrderMessage, order.ID)}
		if err := tx.InsertNotification(ctx, n); err != nil {
			return nil, err
		}
	}

	n := &models.Notification{UserID: buyerID, Message: fmt.Sprintf(buyerOrderMessage, order.ID)}
	if err := tx.InsertNotification(ctx, n); err != nil {
		return nil, err
	}

	if err := tx.ClearCart(ctx, buyerID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) lookupIdempotent(ctx context.Context, key string) (*models.Order, bool) {
	orderID, ok, err := s.idempotency.GetIdempotencyKey(ctx, key)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		s.logger.Warn("Idempotent order not readable", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, false
	}
	s.logger.Info("Duplicate order request detected",
		zap.String("idempotency_key", key),
		zap.Int64("order_id", order.ID))
	return order, true
}

// acquirePlacementLock serializes placements per buyer. Lock backend errors
// are logged and placement proceeds under the database transaction alone.
func (s *OrderService) acquirePlacementLock(ctx context.Context, buyerID int64) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	key := fmt.Sprintf(placeOrderLockKeyFmt, buyerID)
	owner, err := s.locker.AcquireLock(ctx, key, s.cfg.PlaceOrderLockTTL)
	if err != nil {
		s.logger.Warn("Placement lock unavailable", zap.Int64("buyer_id", buyerID), zap.Error(err))
		return noop, nil
	}
	if owner == "" {
		return nil, apperr.New(apperr.CodeConflict, "an order for this cart is already being placed")
	}

	return func() {
		if err := s.locker.ReleaseLock(context.Background(), key, owner); err != nil {
			s.logger.Warn("Failed to release placement lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order) {
	if s.eventPublisher == nil {
		return
	}
	items := make([]models.OrderLineData, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, models.OrderLineData{
			ItemID:          line.ItemID,
			SellerID:        line.SellerID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtPurchase,
		})
	}
	event := &models.OrderPlacedEvent{
		BaseEvent:   models.NewBaseEvent(models.EventTypeOrderPlaced),
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		TotalAmount: order.TotalAmount,
		Items:       items,
	}
	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

// UpdateStatus moves an order along the status graph. Only a seller with a
// line in the order may do so; the buyer is notified in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, actor models.Actor, orderID int64, rawStatus string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus",
		attribute.Int64("order_id", orderID),
		attribute.String("status", rawStatus))
	defer span.End()

	next, ok := models.ParseOrderStatus(rawStatus)
	if !ok {
		return nil, apperr.Newf(apperr.CodeValidation, "invalid status: %q", rawStatus)
	}

	var (
		order *models.Order
		prev  models.OrderStatus
	)
	err := s.orders.WithinTx(ctx, func(tx store.OrderTx) error {
		current, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}

		sellers, err := tx.OrderSellerIDs(ctx, orderID)
		if err != nil {
			return err
		}
		if !containsID(sellers, actor.UserID) {
			return apperr.New(apperr.CodeForbidden, "you can only update status of your own orders")
		}

		if !current.Status.CanTransitionTo(next) {
			return apperr.Newf(apperr.CodeStateConflict, "cannot change order status from %s to %s", current.Status, next)
		}

		if err := tx.SetOrderStatus(ctx, orderID, next); err != nil {
			return err
		}
		n := &models.Notification{UserID: current.BuyerID, Message: fmt.Sprintf(buyerStatusMessage, orderID, next)}
		if err := tx.InsertNotification(ctx, n); err != nil {
			return err
		}

		prev = current.Status
		current.Status = next
		order = current
		return nil
	})
	if err != nil {
		util.RecordError(span, err)
		return nil, err
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(string(next)).Inc()
	util.NotificationsCreatedTotal.WithLabelValues("status_update").Inc()
	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
		zap.Int64("seller_id", actor.UserID))

	if s.eventPublisher != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.NewBaseEvent(models.EventTypeOrderStatusChanged),
			OrderID:   orderID,
			BuyerID:   order.BuyerID,
			From:      prev,
			To:        next,
			ChangedBy: actor.UserID,
		}
		if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Int64("order_id", orderID), zap.Error(err))
		}
	}
	return order, nil
}

// GetOrder returns an order visible to actor: its buyer or a seller on it
func (s *OrderService) GetOrder(ctx context.Context, actor models.Actor, orderID int64) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.UserID && !order.HasSeller(actor.UserID) {
		return nil, apperr.New(apperr.CodeForbidden, "you can only view your own orders")
	}
	return order, nil
}

// ListBuyerOrders returns the actor's purchases
func (s *OrderService) ListBuyerOrders(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	return s.orders.ListBuyerOrders(ctx, actor.UserID)
}

// ListSellerOrders returns orders containing actor's items
func (s *OrderService) ListSellerOrders(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	if !actor.Role.CanSell() {
		return nil, apperr.New(apperr.CodeForbidden, "only sellers can view seller orders")
	}
	return s.orders.ListSellerOrders(ctx, actor.UserID)
}

// calculateTotal sums price * quantity over the checkout lines
func calculateTotal(lines []models.CheckoutLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// distinctSellers returns each seller once, in first-seen order
func distinctSellers(lines []models.OrderLine) []int64 {
	seen := make(map[int64]bool, len(lines))
	var ids []int64
	for _, line := range lines {
		if !seen[line.SellerID] {
			seen[line.SellerID] = true
			ids = append(ids, line.SellerID)
		}
	}
	return ids
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
