package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const userListKey = "onboardly:users:list"

// setIfCurrentScript writes the payload only while the generation key still
// holds the caller's generation.
const setIfCurrentScript = `
if (redis.call("GET", KEYS[2]) or "0") ~= ARGV[2] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`

// NewRedisClient parses url and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

type RedisUserListCache struct {
	client        redis.Cmdable
	key           string
	generationKey string
	ttl           time.Duration
}

func NewRedisUserListCache(client redis.Cmdable, ttl time.Duration) *RedisUserListCache {
	return &RedisUserListCache{
		client:        client,
		key:           userListKey,
		generationKey: userListKey + ":generation",
		ttl:           ttl,
	}
}

func (c *RedisUserListCache) Get(ctx context.Context) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached user list: %w", err)
	}
	return payload, true, nil
}

func (c *RedisUserListCache) Generation(ctx context.Context) (uint64, error) {
	generation, err := c.client.Get(ctx, c.generationKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get user list generation: %w", err)
	}
	return generation, nil
}

func (c *RedisUserListCache) Set(ctx context.Context, payload []byte, generation uint64) error {
	if c.ttl <= 0 {
		return nil
	}
	err := c.client.Eval(ctx, setIfCurrentScript,
		[]string{c.key, c.generationKey},
		payload, strconv.FormatUint(generation, 10), max(c.ttl.Milliseconds(), 1),
	).Err()
	if err != nil {
		return fmt.Errorf("cache user list: %w", err)
	}
	return nil
}

func (c *RedisUserListCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate cached user list: %w", err)
	}
	return nil
}
