package service

import (
	"context"
	"errors"
	"testing"

	"campus-market/internal/apperr"
	"campus-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_FoldsPublishedEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", models.RoleSeller)
	buyer := f.user(t, "buyer", models.RoleBuyer)
	item := f.item(t, seller, "Calculus Textbook", "40.00")
	_, err := f.cart.AddItem(ctx, buyer.UserID, item.ID, 2)
	require.NoError(t, err)
	_, err = f.orders.PlaceOrder(ctx, buyer.UserID, "")
	require.NoError(t, err)
	require.Len(t, f.publisher.placed, 1)
	event := f.publisher.placed[0]

	require.NoError(t, f.stats.HandleOrderPlaced(ctx, event))
	require.NoError(t, f.stats.HandleOrderPlaced(ctx, event))

	stats, err := f.stats.Get(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OrdersCount)
	assert.Equal(t, int64(2), stats.UnitsSold)
	assert.True(t, dec("80.00").Equal(stats.Revenue))
}

func TestStatsService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller := f.user(t, "seller", models.RoleSeller)
	buyer := f.user(t, "buyer", models.RoleBuyer)

	stats, err := f.stats.Get(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, seller.UserID, stats.SellerID)
	assert.Zero(t, stats.OrdersCount)
	assert.True(t, stats.Revenue.IsZero())

	_, err = f.stats.Get(ctx, buyer)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
}

func TestStatsService_StoreError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("deadlock detected")
	f.store.InjectFault("ApplyOrderPlaced", boom)

	event := &models.OrderPlacedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeOrderPlaced),
		OrderID:   1,
		Items:     []models.OrderLineData{{ItemID: 1, SellerID: 1, Quantity: 1, PriceAtPurchase: dec("1")}},
	}
	err := f.stats.HandleOrderPlaced(context.Background(), event)
	assert.ErrorIs(t, err, boom)
}
