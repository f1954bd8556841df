package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	notifyapp "github.com/voiceledger/backend/internal/application/notify"
	"github.com/voiceledger/backend/internal/infrastructure/config"
)

const breakerFailuresKey = "notify:breaker:failures"

// Ensure RedisBreakerStore implements the application port
var _ notifyapp.BreakerStore = (*RedisBreakerStore)(nil)

// RedisBreakerStore keeps the breaker failure count in Redis so every
// instance of the service trips and recovers together. The count expires
// with the cooldown window.
type RedisBreakerStore struct {
	client     *redis.Client
	ownsClient bool
}

// NewRedisBreakerStore creates a store with its own Redis client
func NewRedisBreakerStore(cfg config.RedisConfig) (*RedisBreakerStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBreakerStore{client: client, ownsClient: true}, nil
}

// NewRedisBreakerStoreWithClient creates a store over an existing client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisBreakerStoreWithClient(client *redis.Client) *RedisBreakerStore {
	return &RedisBreakerStore{client: client, ownsClient: false}
}

// Failures returns the current failure count inside the window
func (s *RedisBreakerStore) Failures(ctx context.Context) (int, error) {
	count, err := s.client.Get(ctx, breakerFailuresKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read breaker state: %w", err)
	}
	return count, nil
}

// RecordFailure increments the failure count. The cooldown TTL starts
// with the first failure and is not extended by later ones, so the
// window measures consecutive failures from the first, not the last.
func (s *RedisBreakerStore) RecordFailure(ctx context.Context, window time.Duration) (int, error) {
	count, err := s.client.Incr(ctx, breakerFailuresKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to record breaker failure: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, breakerFailuresKey, window).Err(); err != nil {
			return int(count), fmt.Errorf("failed to set breaker window: %w", err)
		}
	}
	return int(count), nil
}

// Reset clears the failure count
func (s *RedisBreakerStore) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, breakerFailuresKey).Err(); err != nil {
		return fmt.Errorf("failed to reset breaker state: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client if this store owns it
func (s *RedisBreakerStore) Close() error {
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}
