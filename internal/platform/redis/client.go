// Package redis opens the connection pool backing the verdict store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sybilguard/internal/platform/config"
)

// Client is a pinged go-redis pool plus the key namespace stores write under.
type Client struct {
	*redis.Client
	KeyPrefix string
}

// New dials Redis and pings it. An empty URL means Redis is not configured
// and yields a nil client so callers can fall back to memory.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client, KeyPrefix: cfg.KeyPrefix}, nil
}

// options overlays non-zero pool settings on top of the URL.
func options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Health pings the pool; it backs the /health check.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
