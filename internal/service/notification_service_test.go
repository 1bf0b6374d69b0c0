package service

import (
	"context"
	"testing"

	"campus-market/internal/apperr"
	"campus-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller, buyer, _ := placedOrder(t, f)

	notes, err := f.notifications.List(ctx, buyer.UserID, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	id := notes[0].ID

	err = f.notifications.MarkRead(ctx, seller.UserID, id)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	err = f.notifications.Delete(ctx, seller.UserID, id)
	assert.Equal(t, apperr.CodeForbidden, apperr.CodeOf(err))
	err = f.notifications.MarkRead(ctx, buyer.UserID, id+100)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	require.NoError(t, f.notifications.MarkRead(ctx, buyer.UserID, id))
	unread, err := f.notifications.List(ctx, buyer.UserID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, f.notifications.Delete(ctx, buyer.UserID, id))
	notes, err = f.notifications.List(ctx, buyer.UserID, false)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seller, buyer, order := placedOrder(t, f)
	_, err := f.orders.UpdateStatus(ctx, seller, order.ID, string(models.OrderStatusShipped))
	require.NoError(t, err)

	n, err := f.notifications.MarkAllRead(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.notifications.MarkAllRead(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Zero(t, n)

	sellerUnread, err := f.notifications.List(ctx, seller.UserID, true)
	require.NoError(t, err)
	assert.Len(t, sellerUnread, 1)
}
