package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector/internal/model"
)

// RedisCache stores profiles as JSON values with a TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrap(err, "cache: redis ping")
	}
	return &RedisCache{client: client}, nil
}

// NewRedisFromClient wraps an existing client (used by tests).
func NewRedisFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// GetProfile returns the cached profile for key, or (nil, nil) on a miss.
func (c *RedisCache) GetProfile(ctx context.Context, key string) (*model.EnrichmentProfile, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "cache: get %s", key)
	}

	var p model.EnrichmentProfile
	if err := json.Unmarshal(data, &p); err != nil {
		// A corrupt entry is indistinguishable from a miss.
		return nil, eris.Wrapf(err, "cache: decode %s", key)
	}
	return &p, nil
}

// SetProfile stores the profile under key with the given TTL.
func (c *RedisCache) SetProfile(ctx context.Context, key string, p *model.EnrichmentProfile, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return eris.Wrapf(err, "cache: encode %s", key)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return eris.Wrapf(err, "cache: set %s", key)
	}
	return nil
}

// Close releases the underlying connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
