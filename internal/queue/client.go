package queue

import (
	"context"
	"time"

	"partnerz-backend/config"
	"partnerz-backend/internal/domain"
	"partnerz-backend/pkg/redis"

	"github.com/hibiken/asynq"
)

const DefaultQueue = "default"

// Client enqueues notification tasks. A disabled client drops them silently.
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

var _ domain.PartnershipNotifier = (*Client)(nil)

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil || !cfg.QueueEnabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt, err := BuildRedisOpt(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client:       asynq.NewClient(opt),
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// NotifyPartnershipRequested enqueues the email for the side that did not initiate.
func (c *Client) NotifyPartnershipRequested(ctx context.Context, partnership *domain.Partnership) error {
	if !c.Enabled() || partnership == nil {
		return nil
	}
	task, err := NewPartnershipRequestedTask(PartnershipRequestedPayload{PartnershipID: partnership.ID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.defaultQueue),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	return err
}

// BuildServerConfig returns the worker's redis options and server config.
func BuildServerConfig(cfg *config.Config) (asynq.RedisClientOpt, asynq.Config, error) {
	opt, err := BuildRedisOpt(cfg)
	if err != nil {
		return asynq.RedisClientOpt{}, asynq.Config{}, err
	}
	concurrency := 5
	if cfg.QueueConcurrency > 0 {
		concurrency = cfg.QueueConcurrency
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}, nil
}

// BuildRedisOpt reuses the Upstash URL the rate limiter connects with.
func BuildRedisOpt(cfg *config.Config) (asynq.RedisClientOpt, error) {
	ep, err := redis.ParseEndpoint(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      ep.Addr,
		Password:  ep.Password,
		DB:        ep.DB,
		TLSConfig: ep.TLSConfig,
	}, nil
}
