package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseEvent stamps a fresh event id and time
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// OrderPlacedEvent published after the order transaction commits
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	BuyerID     int64           `json:"buyer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderLineData `json:"items"`
}

// OrderStatusChangedEvent published after a seller moves an order forward
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   int64       `json:"order_id"`
	BuyerID   int64       `json:"buyer_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedBy int64       `json:"changed_by"`
}

// OrderLineData represents an order line in events
type OrderLineData struct {
	ItemID          int64           `json:"item_id"`
	SellerID        int64           `json:"seller_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// SellerSales groups the event's lines per seller in first-seen order.
func (e *OrderPlacedEvent) SellerSales() []SellerSale {
	index := make(map[int64]int)
	var sales []SellerSale
	for _, item := range e.Items {
		i, ok := index[item.SellerID]
		if !ok {
			i = len(sales)
			index[item.SellerID] = i
			sales = append(sales, SellerSale{SellerID: item.SellerID, Revenue: decimal.Zero})
		}
		sales[i].Units += item.Quantity
		sales[i].Revenue = sales[i].Revenue.Add(item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sales
}
