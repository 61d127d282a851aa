package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	client     *redis.Client
	clientOnce sync.Once
	clientErr  error
)

// Config holds the Upstash (or any redis://, rediss://) connection settings.
type Config struct {
	URL      string
	Password string
}

// Endpoint is a parsed connection target, shared with the asynq queue.
type Endpoint struct {
	Addr      string
	Password  string
	DB        int
	TLSConfig *tls.Config
}

// ParseEndpoint reads host, password and TLS from a redis URL. A password in cfg
// wins over one embedded in the URL.
func ParseEndpoint(cfg Config) (Endpoint, error) {
	if cfg.URL == "" {
		return Endpoint{}, errors.New("redis: UPSTASH_REDIS_URL not configured")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return Endpoint{}, fmt.Errorf("redis: invalid URL: %w", err)
	}

	ep := Endpoint{Addr: u.Host, Password: cfg.Password}
	if u.Port() == "" {
		ep.Addr = u.Host + ":6379"
	}
	if ep.Password == "" && u.User != nil {
		ep.Password, _ = u.User.Password()
	}
	if u.Scheme == "rediss" {
		ep.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return ep, nil
}

// Client returns the shared client, or nil when Redis is not configured or unreachable.
func Client() *redis.Client {
	return client
}

// Initialize connects once. Later calls return the first result.
func Initialize(cfg Config) error {
	clientOnce.Do(func() {
		ep, err := ParseEndpoint(cfg)
		if err != nil {
			clientErr = err
			return
		}

		c := redis.NewClient(&redis.Options{
			Addr:         ep.Addr,
			Password:     ep.Password,
			DB:           ep.DB,
			TLSConfig:    ep.TLSConfig,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			clientErr = fmt.Errorf("redis: connection failed: %w", err)
			return
		}
		client = c
	})
	return clientErr
}

func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// HealthCheck pings the server.
func HealthCheck(ctx context.Context) error {
	if client == nil {
		return errors.New("redis: client not initialized")
	}
	return client.Ping(ctx).Err()
}
