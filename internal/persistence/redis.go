package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/config"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
	logger *zap.Logger
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, logger: logger}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const statsCacheTTL = 5 * time.Minute

// StatsCache adapts Redis to the review service's cache contract. Cache
// failures degrade to recomputation, never to request failure.
type StatsCache struct {
	redis *Redis
}

// NewStatsCache wraps the shared Redis handle.
func NewStatsCache(r *Redis) *StatsCache {
	return &StatsCache{redis: r}
}

func statsKey(storeID string) string {
	return "satisfaction_stats:" + storeID
}

// GetStats returns the cached aggregate for the store, if any.
func (c *StatsCache) GetStats(ctx context.Context, storeID string) (*domain.SatisfactionStats, bool) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, statsKey(storeID)).Bytes()
	if err != nil {
		return nil, false
	}
	var stats domain.SatisfactionStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// SetStats caches the aggregate with a short TTL.
func (c *StatsCache) SetStats(ctx context.Context, storeID string, stats domain.SatisfactionStats) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.redis.Client.Set(ctx, statsKey(storeID), raw, statsCacheTTL).Err(); err != nil {
		c.redis.logger.Debug("stats cache set failed", zap.Error(err))
	}
}

// InvalidateStats drops the cached aggregate after any review mutation.
func (c *StatsCache) InvalidateStats(ctx context.Context, storeID string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Del(ctx, statsKey(storeID)).Err(); err != nil {
		c.redis.logger.Debug("stats cache invalidate failed", zap.Error(err))
	}
}

// MarkBreachNotified records that a breach event fired for the ticket.
// Returns true when this caller won the SETNX race and should emit the
// event; once the key expires the sweep may fire again.
func (r *Redis) MarkBreachNotified(ctx context.Context, ticketID string, ttl time.Duration) (bool, error) {
	if r == nil || r.Client == nil {
		return true, nil
	}
	return r.Client.SetNX(ctx, "sla_breach_notified:"+ticketID, 1, ttl).Result()
}
