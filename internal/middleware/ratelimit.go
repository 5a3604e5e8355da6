package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/contacts-api/internal/config"
)

// slidingWindow counts request timestamps in a ZSET per key. Entries
// older than the window are dropped, then the request is admitted only
// while the count stays under the limit. Returns { allowed, remaining,
// retry_after_ms }. Runs atomically server-side so concurrent requests
// against the same key cannot double-spend the quota.
var slidingWindow = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local window_ms = tonumber(ARGV[2])
    local limit = tonumber(ARGV[3])

    redis.call('ZREMRANGEBYSCORE', key, 0, now_ms - window_ms)
    local count = redis.call('ZCARD', key)
    if count < limit then
        redis.call('ZADD', key, now_ms, now_ms .. '-' .. count)
        redis.call('PEXPIRE', key, window_ms)
        return { 1, limit - count - 1, 0 }
    end

    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local retry_after_ms = 0
    if oldest[2] then
        retry_after_ms = tonumber(oldest[2]) + window_ms - now_ms
        if retry_after_ms < 0 then retry_after_ms = 0 end
    end
    return { 0, 0, retry_after_ms }
`)

// RateLimit returns an Echo middleware enforcing at most times
// requests per window for each client+route pair. Exceeding the quota
// yields 429 with a Retry-After header. With limiting disabled or no
// Redis client available the middleware is a pass-through; a Redis
// error at request time also lets the request proceed, so the limiter
// can only ever reject, never break, traffic.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, times int, window time.Duration) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg.Prefix, c)

			args := []interface{}{
				time.Now().UnixMilli(),
				window.Milliseconds(),
				times,
			}

			ctx := c.Request().Context()
			vals, err := slidingWindow.Run(ctx, rdb, []string{key}, args...).Result()
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] redis error for key=%s: %v", key, err)
				}
				return next(c)
			}

			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] unexpected script result for key=%s: %#v", key, vals)
				}
				return next(c)
			}
			allowed := asInt64(arr[0]) == 1
			remaining := asInt64(arr[1])
			retryMs := asInt64(arr[2])

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(times))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				if secs < 0 {
					secs = 0
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// buildRateKey namespaces the counter by client IP and route so one
// noisy client cannot starve others and quotas stay per-endpoint.
func buildRateKey(prefix string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return prefix + ":ip:" + ip + ":route:" + c.Request().Method + " " + c.Path()
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
