package notify

import (
	"fmt"

	notifyapp "github.com/voiceledger/backend/internal/application/notify"
	"github.com/voiceledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// BreakerStoreFactory creates breaker stores based on configuration
type BreakerStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// BreakerStoreFactoryOption is a functional option for configuring the factory
type BreakerStoreFactoryOption func(*BreakerStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) BreakerStoreFactoryOption {
	return func(f *BreakerStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// store when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) BreakerStoreFactoryOption {
	return func(f *BreakerStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewBreakerStoreFactory creates a new factory
func NewBreakerStoreFactory(cfg config.RedisConfig, opts ...BreakerStoreFactoryOption) *BreakerStoreFactory {
	f := &BreakerStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore creates a breaker store. It tries Redis first and falls
// back to in-memory if Redis is unavailable and fallback is allowed.
func (f *BreakerStoreFactory) CreateStore() (notifyapp.BreakerStore, error) {
	store, err := NewRedisBreakerStore(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis breaker store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for breaker state but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory breaker store. "+
		"Breaker state will not be shared across instances.",
		zap.Error(err),
	)
	return NewInMemoryBreakerStore(), nil
}
