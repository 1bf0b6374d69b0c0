package worker

import (
	"context"
	"encoding/json"
	"testing"

	"campus-market/internal/broker"
	"campus-market/internal/models"
	"campus-market/internal/service"
	"campus-market/internal/store/memstore"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaySource hands every queued message to the handler once
type replaySource struct {
	messages []kafka.Message
	failed   int
	closed   bool
}

func (r *replaySource) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, msg := range r.messages {
		if err := handler(ctx, msg); err != nil {
			r.failed++
		}
	}
	return nil
}

func (r *replaySource) Close() error {
	r.closed = true
	return nil
}

func message(t *testing.T, event any) kafka.Message {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestSellerStatsWorker_AppliesEachEventOnce(t *testing.T) {
	st := memstore.New()
	placed := &models.OrderPlacedEvent{
		BaseEvent:   models.NewBaseEvent(models.EventTypeOrderPlaced),
		OrderID:     7,
		BuyerID:     2,
		TotalAmount: decimal.RequireFromString("95.00"),
		Items: []models.OrderLineData{
			{ItemID: 1, SellerID: 10, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("40.00")},
			{ItemID: 2, SellerID: 11, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("15.00")},
		},
	}
	changed := &models.OrderStatusChangedEvent{
		BaseEvent: models.NewBaseEvent(models.EventTypeOrderStatusChanged),
		OrderID:   7,
		From:      models.OrderStatusPending,
		To:        models.OrderStatusShipped,
	}

	src := &replaySource{messages: []kafka.Message{
		message(t, placed),
		message(t, changed),
		message(t, placed),
		{Value: []byte("not json")},
	}}
	w := NewSellerStatsWorker(src, service.NewStatsService(st))

	require.NoError(t, w.Start(context.Background()))
	assert.Equal(t, 1, src.failed, "only the malformed message fails")

	stats, err := st.GetSellerStats(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.OrdersCount)
	assert.Equal(t, int64(2), stats.UnitsSold)
	assert.True(t, decimal.RequireFromString("80.00").Equal(stats.Revenue))

	other, err := st.GetSellerStats(context.Background(), 11)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("15.00").Equal(other.Revenue))

	require.NoError(t, w.Stop())
	assert.True(t, src.closed)
}
