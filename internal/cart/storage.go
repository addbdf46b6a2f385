package cart

import (
	"context"
	"sync"
	"time"

	pkgredis "github.com/marlowpress/storefront-backend/pkg/redis"
)

// Storage persists serialized cart snapshots across sessions. Writes are
// last-write-wins; implementations do not merge.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// MemoryStorage keeps the snapshot in process memory. Used in tests and as
// the fallback when no durable backend is configured.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryStorage) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

const cartSnapshotTTL = 90 * 24 * time.Hour

// RedisStorage stores the snapshot under a per-session key so a cart survives
// reloads and follows the shopper across devices sharing the session.
type RedisStorage struct {
	client    *pkgredis.Client
	sessionID string
}

func NewRedisStorage(client *pkgredis.Client, sessionID string) *RedisStorage {
	return &RedisStorage{client: client, sessionID: sessionID}
}

func (r *RedisStorage) key() string {
	return r.client.CartKey(r.sessionID)
}

func (r *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.GetBytes(ctx, r.key())
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RedisStorage) Save(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key(), data, cartSnapshotTTL)
}
