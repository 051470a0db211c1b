package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-services/internal/models"
	"todo-services/pkg/logger"
)

var cachedFilters = []models.StatusFilter{models.StatusAll, models.StatusCompleted, models.StatusPending}

// NewClient parses url, applies poolSize and pings the server. An empty url
// disables caching and returns (nil, nil).
func NewClient(ctx context.Context, url string, poolSize int) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	logger.Info(ctx, "Redis client initialized", "pool_size", opts.PoolSize)
	return client, nil
}

// ErrDisabled is returned by Generation when no Redis client is configured.
var ErrDisabled = errors.New("cache: disabled")

// TodoCache caches each owner's todo lists per status filter. Keys carry a
// per-owner generation that every write bumps, so a list loaded before a
// write can only ever be stored under a generation nobody reads any more.
// A nil client turns every method into a miss or no-op. Errors are logged
// and swallowed: the store is always the source of truth.
type TodoCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTodoCache(client *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{client: client, ttl: ttl}
}

// GenerationKey holds ownerID's current generation. It has no TTL.
func GenerationKey(ownerID string) string {
	return "todos:gen:" + ownerID
}

// ListKey returns the cache key for one owner, generation and filter.
func ListKey(ownerID string, gen int64, filter models.StatusFilter) string {
	return "todos:" + ownerID + ":" + strconv.FormatInt(gen, 10) + ":" + string(filter)
}

// Generation returns ownerID's current generation; 0 before the first write.
func (c *TodoCache) Generation(ctx context.Context, ownerID string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, ErrDisabled
	}
	gen, err := c.client.Get(ctx, GenerationKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList reads a cached list. Returns (nil, false) on miss or error.
func (c *TodoCache) GetList(ctx context.Context, ownerID string, gen int64, filter models.StatusFilter) ([]models.Todo, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, ListKey(ownerID, gen, filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		return nil, false
	}
	todos := make([]models.Todo, 0)
	if err := json.Unmarshal(b, &todos); err != nil {
		logger.Debug(ctx, "Redis unmarshal todos failed", "error", err)
		return nil, false
	}
	return todos, true
}

// SetList writes a list loaded under gen with the configured TTL.
func (c *TodoCache) SetList(ctx context.Context, ownerID string, gen int64, filter models.StatusFilter, todos []models.Todo) {
	if c == nil || c.client == nil {
		return
	}
	b, err := json.Marshal(todos)
	if err != nil {
		logger.Debug(ctx, "Marshal todos for cache failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, ListKey(ownerID, gen, filter), b, c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}

// InvalidateOwner bumps ownerID's generation, retiring every cached list and
// every load still in flight. The previous generation's keys are dropped
// too so they do not linger until their TTL.
func (c *TodoCache) InvalidateOwner(ctx context.Context, ownerID string) {
	if c == nil || c.client == nil {
		return
	}
	gen, err := c.client.Incr(ctx, GenerationKey(ownerID)).Result()
	if err != nil {
		logger.Warn(ctx, "Redis invalidate todos failed", "error", err, "owner_id", ownerID)
		return
	}
	keys := make([]string, 0, len(cachedFilters))
	for _, f := range cachedFilters {
		keys = append(keys, ListKey(ownerID, gen-1, f))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Debug(ctx, "Redis drop retired todo lists failed", "error", err, "owner_id", ownerID)
	}
}

// Ping reports whether the cache is reachable; a disabled cache is always healthy.
func (c *TodoCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
