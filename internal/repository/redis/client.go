// Package redis stores live game sessions, their snapshots, and open
// challenge deadlines.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClientName identifies the server's connections in CLIENT LIST.
const ClientName = "relic-eclipse"

const pingTimeout = 5 * time.Second

// Client wraps the Redis client for live session operations.
type Client struct {
	rdb *redis.Client
}

// ParseOptions reads a redis:// URL and tags the connection with ClientName
// unless the URL names one.
func ParseOptions(redisURL string) (*redis.Options, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = ClientName
	}
	return opts, nil
}

// NewClient connects to Redis and verifies the server answers.
func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := ParseOptions(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Underlying returns the raw client for keyspace notifications.
func (c *Client) Underlying() *redis.Client {
	return c.rdb
}
