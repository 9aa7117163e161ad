package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitPrefix is the Redis key prefix for rate limit buckets.
const rateLimitPrefix = "ratelimit:"

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
// On backend failure implementations return an allowing result together
// with the error, so callers fail open.
type Limiter interface {
	Allow(ctx context.Context, key string) (*RateLimitResult, error)
}

// IPKey builds a limiter key for a client address.
// The address is hashed to avoid storing raw IPs.
func IPKey(ip string) string {
	return "ip:" + hashIP(ip)
}

// UserKey builds a limiter key for an authenticated user.
func UserKey(userID string) string {
	return "user:" + userID
}

// tokenBucketScript is a Lua script implementing the token bucket algorithm.
// It's atomic and handles token refill and consumption in a single operation.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])      -- tokens per second
	local burst = tonumber(ARGV[2])     -- max tokens (bucket capacity)
	local now = tonumber(ARGV[3])       -- current time in seconds
	local ttl = tonumber(ARGV[4])       -- TTL in seconds

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// RedisLimiter is a token bucket shared by every instance using the same Redis.
type RedisLimiter struct {
	cache *Cache
	scope string
	rate  float64
	burst int
	ttl   int
}

// NewRedisLimiter creates a limiter refilling rps tokens per second up to burst.
// scope namespaces the keys so independent limiters never share buckets.
func NewRedisLimiter(c *Cache, scope string, rps float64, burst int) *RedisLimiter {
	// Keep a bucket around long enough to refill completely.
	ttl := int(float64(burst)/rps) + 1
	if ttl < 10 {
		ttl = 10
	}
	return &RedisLimiter{cache: c, scope: scope, rate: rps, burst: burst, ttl: ttl}
}

// Allow consumes one token from the key's bucket.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (*RateLimitResult, error) {
	now := time.Now()

	result, err := tokenBucketScript.Run(ctx, l.cache.client,
		[]string{rateLimitPrefix + l.scope + ":" + key},
		l.rate, l.burst, now.Unix(), l.ttl,
	).Int64Slice()
	if err != nil {
		return allowOnError(l.burst, now), fmt.Errorf("rate limit script: %w", err)
	}

	return &RateLimitResult{
		Allowed:    result[0] == 1,
		Limit:      l.burst,
		Remaining:  result[2],
		ResetAt:    now.Add(time.Duration(float64(time.Second) / l.rate)),
		RetryAfter: time.Duration(result[1]) * time.Second,
	}, nil
}

func allowOnError(burst int, now time.Time) *RateLimitResult {
	return &RateLimitResult{
		Allowed:   true,
		Limit:     burst,
		Remaining: int64(burst),
		ResetAt:   now.Add(time.Minute),
	}
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
