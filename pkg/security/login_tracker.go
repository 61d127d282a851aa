package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block (default 5)
	AttemptWindow time.Duration // counting window (default 15m)
	BlockDuration time.Duration // block length (default 15m)
	UseIPTracking bool          // also block the client IP
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed password logins per address and IP and blocks both
// for a while once the limit is reached. Without redis it never blocks.
type LoginTracker struct {
	config LoginTrackerConfig
	client func() *goredis.Client
	logger *SecurityLogger
}

func NewLoginTracker(client func() *goredis.Client, config LoginTrackerConfig) *LoginTracker {
	defaults := DefaultLoginTrackerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = defaults.AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = defaults.BlockDuration
	}
	return &LoginTracker{config: config, client: client, logger: DefaultLogger()}
}

// Keys carry a digest of the address, never the address itself.
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func (lt *LoginTracker) redis() *goredis.Client {
	if lt == nil || lt.client == nil {
		return nil
	}
	return lt.client()
}

func subjectKey(email string) string {
	return HashValue(strings.ToLower(strings.TrimSpace(email)))
}

// IsBlocked reports whether the address or the IP is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	client := lt.redis()
	if client == nil {
		return false, nil
	}

	keys := []string{blockedLoginUserPrefix + subjectKey(email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}
	exists, err := client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailedAttempt counts a rejected login. It returns (blocked, attempts, error).
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, requestID string) (bool, int, error) {
	client := lt.redis()
	if client == nil {
		return false, 0, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	subject := subjectKey(email)

	count, err := atomicIncrement(ctx, client, failLoginUserPrefix+subject, ttlSeconds)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login counter: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_, _ = atomicIncrement(ctx, client, failLoginIPPrefix+ip, ttlSeconds)
	}

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}

	if err := client.Set(ctx, blockedLoginUserPrefix+subject, "1", lt.config.BlockDuration).Err(); err != nil {
		return true, count, fmt.Errorf("failed to set login block: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_ = client.Set(ctx, blockedLoginIPPrefix+ip, "1", lt.config.BlockDuration).Err()
	}

	lt.logger.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		RequestID:    requestID,
		Details: map[string]interface{}{
			"attempts":      count,
			"block_minutes": int(lt.config.BlockDuration.Minutes()),
		},
	})
	return true, count, nil
}

// ClearAttempts resets the counters after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	client := lt.redis()
	if client == nil {
		return nil
	}

	keys := []string{failLoginUserPrefix + subjectKey(email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// BlockTTL returns how long the address stays blocked.
func (lt *LoginTracker) BlockTTL(ctx context.Context, email string) (time.Duration, bool, error) {
	client := lt.redis()
	if client == nil {
		return 0, false, nil
	}

	ttl, err := client.TTL(ctx, blockedLoginUserPrefix+subjectKey(email)).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get block TTL: %w", err)
	}
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}

func atomicIncrement(ctx context.Context, client *goredis.Client, key string, ttlSeconds int) (int, error) {
	result, err := client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}
