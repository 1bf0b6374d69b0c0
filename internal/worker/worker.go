package worker

import (
	"context"

	"campus-market/internal/broker"
	"campus-market/internal/service"
	"campus-market/internal/util"

	"go.uber.org/zap"
)

// messageSource is satisfied by *broker.Consumer
type messageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// SellerStatsWorker folds order events from Kafka into seller statistics
type SellerStatsWorker struct {
	consumer     messageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewSellerStatsWorker creates a new seller stats worker
func NewSellerStatsWorker(consumer messageSource, stats *service.StatsService) *SellerStatsWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(stats.HandleOrderPlaced)

	return &SellerStatsWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start blocks until ctx is cancelled
func (w *SellerStatsWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting seller stats worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *SellerStatsWorker) Stop() error {
	w.logger.Info("Stopping seller stats worker...")
	return w.consumer.Close()
}
