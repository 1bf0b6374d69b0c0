package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"campus-market/config"
	"campus-market/internal/models"
	"campus-market/internal/store/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]string
	err  error
	n    int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]string)}
}

func (l *fakeLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", l.err
	}
	if _, ok := l.held[key]; ok {
		return "", nil
	}
	l.n++
	owner := fmt.Sprintf("owner-%d", l.n)
	l.held[key] = owner
	return owner, nil
}

func (l *fakeLocker) ReleaseLock(ctx context.Context, key, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == owner {
		delete(l.held, key)
	}
	return nil
}

type fakeIdempotency struct {
	mu   sync.Mutex
	keys map[string]int64
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: make(map[string]int64)}
}

func (f *fakeIdempotency) GetIdempotencyKey(ctx context.Context, key string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.keys[key]
	return id, ok, nil
}

func (f *fakeIdempotency) SetIdempotencyKey(ctx context.Context, key string, orderID int64, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = orderID
	return nil
}

type fakePublisher struct {
	mu      sync.Mutex
	placed  []*models.OrderPlacedEvent
	changed []*models.OrderStatusChangedEvent
	err     error
}

func (p *fakePublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placed = append(p.placed, event)
	return p.err
}

func (p *fakePublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, event)
	return p.err
}

type fixture struct {
	store         *memstore.Store
	locker        *fakeLocker
	idempotency   *fakeIdempotency
	publisher     *fakePublisher
	users         *UserService
	catalog       *CatalogService
	cart          *CartService
	orders        *OrderService
	notifications *NotificationService
	stats         *StatsService
}

var testBusinessConfig = config.BusinessConfig{
	BcryptCost:        10,
	PlaceOrderLockTTL: 30 * time.Second,
	IdempotencyKeyTTL: time.Hour,
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	f := &fixture{
		store:       st,
		locker:      newFakeLocker(),
		idempotency: newFakeIdempotency(),
		publisher:   &fakePublisher{},
	}
	f.users = NewUserService(st, testBusinessConfig)
	f.catalog = NewCatalogService(st)
	f.cart = NewCartService(st)
	f.orders = NewOrderService(st, f.locker, f.idempotency, f.publisher, testBusinessConfig)
	f.notifications = NewNotificationService(st)
	f.stats = NewStatsService(st)
	return f
}

// user inserts an account directly, skipping bcrypt
func (f *fixture) user(t *testing.T, name string, role models.Role) models.Actor {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: "x", Email: name + "@campus.edu", Role: role}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return models.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (f *fixture) item(t *testing.T, seller models.Actor, title, price string) *models.Item {
	t.Helper()
	item, err := f.catalog.Create(context.Background(), seller, &models.ItemInput{
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: "books",
	})
	require.NoError(t, err)
	return item
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
