package service

import (
	"context"

	"campus-market/internal/apperr"
	"campus-market/internal/models"
	"campus-market/internal/store"
	"campus-market/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatsService maintains and reads per-seller sales statistics
type StatsService struct {
	stats  store.StatsStore
	logger *zap.Logger
}

func NewStatsService(stats store.StatsStore) *StatsService {
	return &StatsService{stats: stats, logger: util.GetLogger()}
}

// HandleOrderPlaced folds an OrderPlaced event into seller stats. Redelivered
// events are skipped.
func (s *StatsService) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	ctx, span := util.StartSpan(ctx, "StatsService.HandleOrderPlaced")
	defer span.End()

	applied, err := s.stats.ApplyOrderPlaced(ctx, event.EventID, event.EventType, event.SellerSales())
	if err != nil {
		util.RecordError(span, err)
		util.EventsConsumedTotal.WithLabelValues(event.EventType, "error").Inc()
		return err
	}
	if !applied {
		util.EventsConsumedTotal.WithLabelValues(event.EventType, "duplicate").Inc()
		s.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	util.EventsConsumedTotal.WithLabelValues(event.EventType, "applied").Inc()
	s.logger.Debug("Seller stats updated", zap.Int64("order_id", event.OrderID))
	return nil
}

// Get returns the actor's stats. A seller with no sales yet gets zeros.
func (s *StatsService) Get(ctx context.Context, actor models.Actor) (*models.SellerStats, error) {
	if !actor.Role.CanSell() {
		return nil, apperr.New(apperr.CodeForbidden, "only sellers have sales statistics")
	}
	stats, err := s.stats.GetSellerStats(ctx, actor.UserID)
	if apperr.IsCode(err, apperr.CodeNotFound) {
		return &models.SellerStats{SellerID: actor.UserID, Revenue: decimal.Zero}, nil
	}
	return stats, err
}
