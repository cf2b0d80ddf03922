package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callbridge/internal/config"
	"callbridge/internal/observability"

	"github.com/redis/go-redis/v9"
)

var ErrClientNotInitialized = errors.New("redis client not initialized")

const acceptKeyPrefix = "callbridge:accepted:"

// Client wraps the Redis client with observability
type Client struct {
	client *redis.Client
	logger *observability.Logger
	ttl    time.Duration
}

// NewClient creates a new Redis client. It returns nil when Redis is disabled.
func NewClient(cfg config.RedisConfig, logger *observability.Logger) (*Client, error) {
	if !cfg.Enabled {
		logger.Info(context.Background(), "Redis is disabled, accept dedup is process-local")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "host", Value: cfg.Host},
		observability.Field{Key: "port", Value: cfg.Port},
		observability.Field{Key: "db", Value: cfg.DB},
	)
	logger.Info(ctx, "successfully connected to Redis")

	return NewFromClient(client, logger), nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(client *redis.Client, logger *observability.Logger) *Client {
	return &Client{client: client, logger: logger, ttl: time.Hour}
}

// Claim marks a call id as accepted across replicas. Only the first caller gets true.
func (c *Client) Claim(ctx context.Context, callID string) (bool, error) {
	if c == nil || c.client == nil {
		return false, ErrClientNotInitialized
	}
	ok, err := c.client.SetNX(ctx, acceptKeyPrefix+callID, time.Now().UTC().Format(time.RFC3339), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim call %s: %w", callID, err)
	}
	return ok, nil
}

// Release drops a claim so that a retried webhook may accept the call again.
func (c *Client) Release(ctx context.Context, callID string) error {
	if c == nil || c.client == nil {
		return ErrClientNotInitialized
	}
	if err := c.client.Del(ctx, acceptKeyPrefix+callID).Err(); err != nil {
		return fmt.Errorf("failed to release call %s: %w", callID, err)
	}
	return nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
