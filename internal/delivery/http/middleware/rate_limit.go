package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"partnerz-backend/pkg/apperror"
	"partnerz-backend/pkg/logger"
	"partnerz-backend/pkg/redis"
	"partnerz-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one fixed-window limit.
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
	// FailClosed rejects requests when redis errors instead of using the memory window.
	FailClosed bool
	KeyFunc    func(*gin.Context) string
	// Client returns the shared redis client; nil means memory only.
	Client func() *goredis.Client
}

type windowEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// memoryWindows is the per-process fallback used when redis is not connected.
type memoryWindows struct {
	entries sync.Map
}

// KEYS[1] = counter key, ARGV[1] = window seconds. Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// GlobalRateLimitConfig applies to every route. It fails open.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     orDefault(limit, 100),
		Window:    orDefaultWindow(window),
		KeyPrefix: "rl:ip:",
	}
}

// AuthRateLimitConfig guards login, signup, callback and password reset. It fails closed.
func AuthRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      orDefault(limit, 10),
		Window:     orDefaultWindow(window),
		KeyPrefix:  "rl:auth:",
		FailClosed: true,
	}
}

// RateLimitMiddleware counts in redis when it is connected and in process memory otherwise.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Client == nil {
		cfg.Client = redis.Client
	}
	windows := &memoryWindows{}
	go windows.sweep(5 * time.Minute)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		var (
			count   int
			resetAt time.Time
		)
		if client := cfg.Client(); client != nil {
			var err error
			count, resetAt, err = countRedis(c.Request.Context(), client, key, cfg.Window)
			if err != nil {
				logger.Log.Warnw("rate limit redis check failed", "key", cfg.KeyPrefix, "error", err)
				if cfg.FailClosed {
					abortWithError(c, apperror.Unavailable("Service temporarily unavailable. Please try again.", err))
					return
				}
				count, resetAt = windows.hit(key, cfg.Window, time.Now())
			}
		} else {
			count, resetAt = windows.hit(key, cfg.Window, time.Now())
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > cfg.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitTriggered(c)
			abortWithError(c, apperror.TooManyRequests("Rate limit exceeded. Please try again later."))
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.Limit-count))
		c.Next()
	}
}

// UploadRateLimitMiddleware applies the per-IP and per-user upload windows. It runs
// after SessionMiddleware so the user id is known.
func UploadRateLimitMiddleware(limiter *security.UploadLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP(), c.GetString(ctxUserID))
		if errors.Is(err, security.ErrLimiterUnavailable) {
			c.Next()
			return
		}
		if err != nil {
			logger.Log.Warnw("upload limiter check failed", "error", err)
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitTriggered(c)
			abortWithError(c, apperror.TooManyRequests("Too many uploads. Please try again later."))
			return
		}
		c.Next()
	}
}

func countRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Time, error) {
	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, errors.New("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

func (w *memoryWindows) hit(key string, window time.Duration, now time.Time) (int, time.Time) {
	v, _ := w.entries.LoadOrStore(key, &windowEntry{resetAt: now.Add(window)})
	entry := v.(*windowEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count, entry.resetAt
}

func (w *memoryWindows) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for now := range ticker.C {
		w.entries.Range(func(key, value interface{}) bool {
			entry := value.(*windowEntry)
			entry.mu.Lock()
			expired := now.After(entry.resetAt)
			entry.mu.Unlock()
			if expired {
				w.entries.Delete(key)
			}
			return true
		})
	}
}

func logRateLimitTriggered(c *gin.Context) {
	security.DefaultLogger().LogRateLimitTriggered(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		c.GetString(ctxRequestID),
		c.FullPath(),
	)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefaultWindow(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Minute
	}
	return d
}
