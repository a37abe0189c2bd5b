package accounting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectionStore persists the accounting "connected" flag across
// process restarts
type ConnectionStore interface {
	// IsConnected reads the connected flag
	IsConnected(ctx context.Context) (bool, error)
	// SetConnected writes the connected flag
	SetConnected(ctx context.Context, connected bool) error
}

// connectedKey is the Redis key holding the connection flag
const connectedKey = "accounting:connected"

// RedisConnectionStore implements ConnectionStore using Redis, suitable
// for surviving restarts and for sharing state between instances
type RedisConnectionStore struct {
	client *redis.Client
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisConnectionStore creates a Redis-backed connection store
func NewRedisConnectionStore(cfg RedisConfig) (*RedisConnectionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisConnectionStore{client: client}, nil
}

// NewRedisConnectionStoreWithClient creates a store with an existing
// Redis client, useful for testing or client sharing
func NewRedisConnectionStoreWithClient(client *redis.Client) *RedisConnectionStore {
	return &RedisConnectionStore{client: client}
}

// IsConnected reads the connected flag; an absent key means disconnected
func (s *RedisConnectionStore) IsConnected(ctx context.Context) (bool, error) {
	val, err := s.client.Get(ctx, connectedKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read connection flag: %w", err)
	}
	return val == "1", nil
}

// SetConnected writes the connected flag
func (s *RedisConnectionStore) SetConnected(ctx context.Context, connected bool) error {
	val := "0"
	if connected {
		val = "1"
	}
	if err := s.client.Set(ctx, connectedKey, val, 0).Err(); err != nil {
		return fmt.Errorf("failed to write connection flag: %w", err)
	}
	return nil
}

// InMemoryConnectionStore implements ConnectionStore in process memory.
// Used in tests and when Redis is not configured.
type InMemoryConnectionStore struct {
	mu        sync.RWMutex
	connected bool
}

// NewInMemoryConnectionStore creates an in-memory connection store
func NewInMemoryConnectionStore() *InMemoryConnectionStore {
	return &InMemoryConnectionStore{}
}

// IsConnected reads the connected flag
func (s *InMemoryConnectionStore) IsConnected(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected, nil
}

// SetConnected writes the connected flag
func (s *InMemoryConnectionStore) SetConnected(ctx context.Context, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
	return nil
}

var (
	_ ConnectionStore = (*RedisConnectionStore)(nil)
	_ ConnectionStore = (*InMemoryConnectionStore)(nil)
)
