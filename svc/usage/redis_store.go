package usage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gymgo/gymgo/svc/quota"
)

// consumeScript atomically checks the ceiling and increments inside Redis.
// Returns {applied, remaining}; remaining is -1 when the ceiling is disabled.
// The EXPIRE NX keeps the first writer's TTL so a window key expires once.
var consumeScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local n = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])
if limit >= 0 and current + n > limit then
	local remaining = limit - current
	if remaining < 0 then remaining = 0 end
	return {0, remaining}
end
local new = redis.call('INCRBY', KEYS[1], n)
if ttl > 0 then
	redis.call('EXPIRE', KEYS[1], ttl, 'NX')
end
if limit < 0 then
	return {1, -1}
end
return {1, limit - new}
`)

// storageScript adjusts the storage gauge by delta, flooring at zero.
var storageScript = redis.NewScript(`
local new = redis.call('INCRBY', KEYS[1], ARGV[1])
if new < 0 then
	new = 0
	redis.call('SET', KEYS[1], 0)
end
return new
`)

// RedisStore implements quota.UsageStore on Redis.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// RedisOption configures the store.
type RedisOption func(*RedisStore)

// WithClock overrides the wall clock, used by tests to cross window borders.
func WithClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRedisStore returns a usage store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Used returns consumption in the current period. A key that has never been
// written reads as zero usage.
func (s *RedisStore) Used(ctx context.Context, orgID uuid.UUID, res quota.Resource) (int64, error) {
	val, err := s.client.Get(ctx, counterKey(orgID, res, s.now())).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, errors.Join(ErrCounterUnavailable, err)
	}
	return val, nil
}

// Consume atomically increments usage by n unless the result would exceed
// limit. The comparison and increment run in one Lua invocation, so
// concurrent consumers cannot overshoot the ceiling.
func (s *RedisStore) Consume(ctx context.Context, orgID uuid.UUID, res quota.Resource, n, limit int64) (bool, int64, error) {
	if n <= 0 {
		return false, 0, ErrInvalidAmount
	}

	key := counterKey(orgID, res, s.now())
	ttl := int64(keyTTL(res) / time.Second)
	raw, err := consumeScript.Run(ctx, s.client, []string{key}, n, limit, ttl).Int64Slice()
	if err != nil {
		return false, 0, errors.Join(ErrCounterUnavailable, err)
	}
	if len(raw) != 2 {
		return false, 0, ErrCounterUnavailable
	}
	return raw[0] == 1, raw[1], nil
}

// AddStorage adjusts the storage gauge by delta bytes, flooring at zero.
func (s *RedisStore) AddStorage(ctx context.Context, orgID uuid.UUID, delta int64) (int64, error) {
	key := counterKey(orgID, quota.ResourceStorage, s.now())
	total, err := storageScript.Run(ctx, s.client, []string{key}, delta).Int64()
	if err != nil {
		return 0, errors.Join(ErrCounterUnavailable, err)
	}
	return total, nil
}
