package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/pkg/logger"
)

// ErrCacheMiss is returned by Get when the field is absent or the owner hash expired
var ErrCacheMiss = errors.New("cache miss")

// Cache fields inside an owner's hash
const (
	CacheFieldDashboardStats   = "dashboard:stats"
	CacheFieldFinancialSummary = "dashboard:financial"
	CacheFieldPaymentSummary   = "payments:summary"
	CacheFieldRecentActivity   = "dashboard:activity:" // suffixed with the limit
)

// InterfaceCacheService caches read-heavy aggregates per owner
type InterfaceCacheService interface {
	Get(ctx context.Context, ownerID, field string, dest interface{}) error
	Set(ctx context.Context, ownerID, field string, value interface{}) error
	InvalidateOwner(ctx context.Context, ownerID string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisService keeps one hash per owner so a single DEL drops every cached
// aggregate after a write
type RedisService struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewCacheService returns a Redis backed cache, or a no-op one when Redis is disabled
func NewCacheService(cfg *config.Config) InterfaceCacheService {
	if !cfg.RedisEnabled {
		return NoopCacheService{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &RedisService{
		Client: client,
		TTL:    cfg.CacheTTL,
	}
}

func ownerKey(ownerID string) string {
	return "rentapp:cache:" + ownerID
}

// 1 Get decodes a cached field into dest
func (s *RedisService) Get(ctx context.Context, ownerID, field string, dest interface{}) error {
	val, err := s.Client.HGet(ctx, ownerKey(ownerID), field).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// 2 Set stores a field and refreshes the hash TTL
func (s *RedisService) Set(ctx context.Context, ownerID, field string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	key := ownerKey(ownerID)
	pipe := s.Client.TxPipeline()
	pipe.HSet(ctx, key, field, jsonValue)
	pipe.Expire(ctx, key, s.TTL)
	_, err = pipe.Exec(ctx)
	return err
}

// 3 InvalidateOwner drops every cached field for the owner
func (s *RedisService) InvalidateOwner(ctx context.Context, ownerID string) error {
	return s.Client.Del(ctx, ownerKey(ownerID)).Err()
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *RedisService) Close() error {
	return s.Client.Close()
}

// NoopCacheService always misses
type NoopCacheService struct{}

func (NoopCacheService) Get(context.Context, string, string, interface{}) error { return ErrCacheMiss }
func (NoopCacheService) Set(context.Context, string, string, interface{}) error { return nil }
func (NoopCacheService) InvalidateOwner(context.Context, string) error { return nil }
func (NoopCacheService) Ping(context.Context) error { return nil }
func (NoopCacheService) Close() error { return nil }

// cached reads through the cache; cache failures are logged and never fail the request
func cached[T any](ctx context.Context, cache InterfaceCacheService, ownerID, field string, load func() (T, error)) (T, error) {
	var hit T
	if err := cache.Get(ctx, ownerID, field, &hit); err == nil {
		return hit, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.Warning("cache read %s failed: %v", field, err)
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := cache.Set(ctx, ownerID, field, value); err != nil {
		logger.Warning("cache write %s failed: %v", field, err)
	}
	return value, nil
}

func invalidate(ctx context.Context, cache InterfaceCacheService, ownerID string) {
	if err := cache.InvalidateOwner(ctx, ownerID); err != nil {
		logger.Warning("cache invalidation for owner %s failed: %v", ownerID, err)
	}
}
