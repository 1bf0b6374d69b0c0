package service

import (
	"context"
	"time"

	"campus-market/internal/models"
)

// Locker is a distributed mutex. AcquireLock returns an empty owner when the
// lock is already held.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	ReleaseLock(ctx context.Context, key, owner string) error
}

// IdempotencyStore remembers which order a client request key produced.
type IdempotencyStore interface {
	GetIdempotencyKey(ctx context.Context, key string) (int64, bool, error)
	SetIdempotencyKey(ctx context.Context, key string, orderID int64, ttl time.Duration) error
}

// EventPublisher emits order events after their transaction commits.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}
