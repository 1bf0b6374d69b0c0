package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusShipped, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
}

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus(" Shipped ")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipped, st)

	_, ok = ParseOrderStatus("lost-in-mail")
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"buyer", "seller", "both"} {
		r, ok := ParseRole(s)
		assert.True(t, ok)
		assert.Equal(t, Role(s), r)
	}
	_, ok := ParseRole("admin")
	assert.False(t, ok)

	assert.True(t, RoleSeller.CanSell())
	assert.True(t, RoleBoth.CanSell())
	assert.False(t, RoleBuyer.CanSell())
}

func TestSellerSalesGroupsBySeller(t *testing.T) {
	event := &OrderPlacedEvent{
		Items: []OrderLineData{
			{ItemID: 1, SellerID: 10, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("40.00")},
			{ItemID: 2, SellerID: 11, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("5.50")},
			{ItemID: 3, SellerID: 10, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("12.25")},
		},
	}

	sales := event.SellerSales()
	assert.Len(t, sales, 2)
	assert.Equal(t, int64(10), sales[0].SellerID)
	assert.Equal(t, 3, sales[0].Units)
	assert.True(t, sales[0].Revenue.Equal(decimal.RequireFromString("92.25")))
	assert.Equal(t, int64(11), sales[1].SellerID)
	assert.True(t, sales[1].Revenue.Equal(decimal.RequireFromString("5.50")))
}
