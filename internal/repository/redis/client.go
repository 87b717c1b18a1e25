package redis

import (
	"context"
	"fmt"

	"github.com/Rrens/doggy-date/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client is the connection the submit limiter counts through.
// Only the server opens one, and only when redis.enabled is set.
type Client struct {
	rdb *redis.Client
}

func optionsFor(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient dials cfg and fails fast when the server does not answer
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	c := &Client{rdb: redis.NewClient(optionsFor(cfg))}
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis at %s unreachable: %w", cfg.Addr(), err)
	}
	return c, nil
}

// Ping backs the /ready probe
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
