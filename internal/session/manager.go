package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-market/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store is the key/value surface the manager needs. *redisclient.Client
// satisfies it.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Data is the server-side state behind a session cookie.
type Data struct {
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// Actor converts session data into the caller identity used by services.
func (d *Data) Actor() models.Actor {
	return models.Actor{UserID: d.UserID, Username: d.Username, Role: d.Role}
}

// Manager creates and resolves server-side sessions keyed by an opaque id.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// TTL returns the lifetime applied to new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stores data under a fresh id and returns the id.
func (m *Manager) Create(ctx context.Context, data Data) (string, error) {
	id := uuid.NewString()
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	if err := m.put(ctx, id, data, m.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session id. Unknown or expired ids return ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Data, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	raw, err := m.store.Get(ctx, key(id))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &data, nil
}

// Update overwrites an existing session, e.g. after a role change. The
// session keeps its original expiry.
func (m *Manager) Update(ctx context.Context, id string, data Data) error {
	current, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = current.CreatedAt
	}
	return m.put(ctx, id, data, redis.KeepTTL)
}

// Destroy removes a session. Destroying an unknown id is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	return m.store.Del(ctx, key(id))
}

func (m *Manager) put(ctx context.Context, id string, data Data, ttl time.Duration) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(ctx, key(id), string(payload), ttl); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func key(id string) string {
	return "session:" + id
}
