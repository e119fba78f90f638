package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dormhop/backend/config"
)

// Client Redis wrapper.
// Used for the token blacklist, rate limiting and the dorm feature store.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings Redis
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── token blacklist ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken stores the JWT ID until the token would have expired
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted reports whether the JWT ID was revoked
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── rate limiting ──

// CheckRateLimit sliding-window counter on a sorted set.
// Returns true when the request identified by key is still within limit.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() <= int64(limit), nil
}

// ── dorm feature store ──

const featurePrefix = "dorm:features:"

// GetFeatures loads a cached feature list; ok is false on a miss
func (c *Client) GetFeatures(ctx context.Context, slug string) ([]string, bool, error) {
	raw, err := c.rdb.Get(ctx, featurePrefix+slug).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var features []string
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, false, fmt.Errorf("decode features for %s: %w", slug, err)
	}
	return features, true, nil
}

// SetFeatures stores a feature list without expiry
func (c *Client) SetFeatures(ctx context.Context, slug string, features []string) error {
	raw, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, featurePrefix+slug, raw, 0).Err()
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}
