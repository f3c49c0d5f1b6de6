package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/arnavshah/seat-planner-go/pkg/config"
	"github.com/arnavshah/seat-planner-go/pkg/models"
)

const keyPrefix = "seating:plan"

// Entry is the cached outcome of one optimization run
type Entry struct {
	Plan     models.Plan `json:"plan"`
	Excluded int         `json:"excluded"`
}

// Connect builds a redis client from config and pings it. It returns nil when
// no address is configured or the server cannot be reached, in which case the
// plan cache is disabled.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, plan cache disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// PlanCache stores optimization results in redis. A cache built on a nil
// client misses every lookup and ignores writes.
type PlanCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewPlanCache wraps a redis client. rdb may be nil.
func NewPlanCache(rdb *redis.Client, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c := &PlanCache{ttl: ttl}
	if rdb != nil {
		c.rdb = rdb
	}
	return c
}

// Enabled reports whether lookups can ever hit
func (c *PlanCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Key derives a stable cache key from everything that affects a run's outcome
func Key(strategy string, params models.Parameters, placements map[string]string, snap models.Snapshot) (string, error) {
	payload, err := json.Marshal(struct {
		Strategy   string            `json:"strategy"`
		Parameters models.Parameters `json:"parameters"`
		Placements map[string]string `json:"placements"`
		Snapshot   models.Snapshot   `json:"snapshot"`
	}{strategy, params, placements, snap})
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	sum := sha1.Sum(payload)
	return fmt.Sprintf("%s:%x", keyPrefix, sum[:]), nil
}

// Get returns the cached entry for key. ok is false on a miss or any redis error.
func (c *PlanCache) Get(ctx context.Context, key string) (Entry, bool) {
	if !c.Enabled() {
		return Entry{}, false
	}
	bs, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(bs, &e); err != nil {
		return Entry{}, false
	}
	return e, true
}

// Set stores an entry under key
func (c *PlanCache) Set(ctx context.Context, key string, e Entry) error {
	if !c.Enabled() {
		return nil
	}
	bs, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.rdb.SetEx(ctx, key, bs, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Invalidate drops every cached plan. Used when the directory changes.
func (c *PlanCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	var errs error
	iter := c.rdb.Scan(ctx, 0, keyPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil && !errors.Is(err, redis.Nil) {
			errs = multierr.Append(errs, err)
		}
	}
	if err := iter.Err(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}
