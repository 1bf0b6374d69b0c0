package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"campus-market/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	val, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func TestManager_CreateGetDestroy(t *testing.T) {
	store := newMockStore()
	manager, err := NewManager(store, 24*time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	id, err := manager.Create(ctx, Data{UserID: 7, Username: "alice", Role: models.RoleSeller})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 24*time.Hour, store.ttls["session:"+id])

	data, err := manager.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), data.UserID)
	assert.Equal(t, "alice", data.Username)
	assert.Equal(t, models.RoleSeller, data.Role)
	assert.False(t, data.CreatedAt.IsZero())

	require.NoError(t, manager.Destroy(ctx, id))
	_, err = manager.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_UnknownSession(t *testing.T) {
	manager, err := NewManager(newMockStore(), time.Hour)
	require.NoError(t, err)

	_, err = manager.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = manager.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_UpdateRole(t *testing.T) {
	store := newMockStore()
	manager, err := NewManager(store, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	id, err := manager.Create(ctx, Data{UserID: 1, Username: "bob", Role: models.RoleBuyer})
	require.NoError(t, err)
	created, err := manager.Get(ctx, id)
	require.NoError(t, err)

	require.NoError(t, manager.Update(ctx, id, Data{UserID: 1, Username: "bob", Role: models.RoleBoth}))
	data, err := manager.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.RoleBoth, data.Role)
	assert.True(t, created.CreatedAt.Equal(data.CreatedAt))
	assert.Equal(t, time.Duration(redis.KeepTTL), store.ttls["session:"+id], "update must not extend the session")

	assert.ErrorIs(t, manager.Update(ctx, "gone", Data{UserID: 1}), ErrNotFound)
}

func TestManager_StoreFailureIsNotNotFound(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("connection refused")
	manager, err := NewManager(store, time.Hour)
	require.NoError(t, err)

	_, err = manager.Get(context.Background(), "abc")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNewManager_RequiresStoreAndTTL(t *testing.T) {
	_, err := NewManager(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewManager(newMockStore(), 0)
	assert.Error(t, err)
}
