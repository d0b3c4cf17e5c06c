package presence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyProductPresence = "presence:product:%s"

// trackScript prunes expired members server-side, optionally renews the
// caller's marker, and returns the live cardinality in one round trip. TTL
// enforcement stays inside the store: a client that never releases simply
// ages out.
const trackScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])
local viewer = ARGV[3]

redis.call("ZREMRANGEBYSCORE", key, "-inf", now)
if viewer ~= "" then
  redis.call("ZADD", key, now + ttl, viewer)
end
redis.call("EXPIRE", key, ttl)
return redis.call("ZCARD", key)
`

// RedisStore implements Store on a per-product sorted set whose member
// scores are expiry timestamps.
type RedisStore struct {
	client *redis.Client
	script *redis.Script
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 45 * time.Second
	}
	return &RedisStore{
		client: client,
		script: redis.NewScript(trackScript),
		ttl:    ttl,
	}
}

func (s *RedisStore) Track(ctx context.Context, productID, viewerID string) (int64, error) {
	if viewerID = strings.TrimSpace(viewerID); viewerID == "" {
		return 0, errors.New("viewer id is empty")
	}
	return s.run(ctx, productID, viewerID)
}

func (s *RedisStore) Count(ctx context.Context, productID string) (int64, error) {
	return s.run(ctx, productID, "")
}

func (s *RedisStore) Release(ctx context.Context, productID, viewerID string) error {
	if s == nil || s.client == nil {
		return errors.New("presence store not configured")
	}
	key, err := productKey(productID)
	if err != nil {
		return err
	}
	return s.client.ZRem(ctx, key, strings.TrimSpace(viewerID)).Err()
}

func (s *RedisStore) run(ctx context.Context, productID, viewerID string) (int64, error) {
	if s == nil || s.client == nil {
		return 0, errors.New("presence store not configured")
	}
	key, err := productKey(productID)
	if err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	ttlSeconds := int64(s.ttl / time.Second)
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	count, err := s.script.Run(ctx, s.client, []string{key}, now, ttlSeconds, viewerID).Int64()
	if err != nil {
		return 0, err
	}
	return count, nil
}

func productKey(productID string) (string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", errors.New("product id is empty")
	}
	return fmt.Sprintf(keyProductPresence, productID), nil
}
