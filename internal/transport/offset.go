package transport

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// OffsetStore persists the last confirmed update offset so a restarted
// poller does not replay or skip updates.
type OffsetStore interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, offset int) error
}

type redisOffsetStore struct {
	client *redis.Client
	key    string
}

// NewRedisOffsetStore stores the poll offset under a single Redis key.
func NewRedisOffsetStore(client *redis.Client, key string) OffsetStore {
	return &redisOffsetStore{client: client, key: key}
}

func (s *redisOffsetStore) Load(ctx context.Context) (int, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (s *redisOffsetStore) Save(ctx context.Context, offset int) error {
	return s.client.Set(ctx, s.key, strconv.Itoa(offset), 0).Err()
}

type memoryOffsetStore struct {
	mu     sync.Mutex
	offset int
}

// NewMemoryOffsetStore keeps the offset in process memory. A restart
// re-reads any pending updates.
func NewMemoryOffsetStore() OffsetStore {
	return &memoryOffsetStore{}
}

func (s *memoryOffsetStore) Load(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset, nil
}

func (s *memoryOffsetStore) Save(ctx context.Context, offset int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = offset
	return nil
}
