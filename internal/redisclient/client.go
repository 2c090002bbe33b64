package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and verifies the connection.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewFromRedis wraps an existing go-redis client.
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping reports whether Redis answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func scopeKey(scope, key string) string {
	return fmt.Sprintf("scope:%s:%s", scope, key)
}

// GetScoped reads one value of a session scope and pushes its expiry ttl
// into the future. ok is false when the key is absent. A ttl of zero
// leaves the expiry untouched.
func (c *Client) GetScoped(ctx context.Context, scope, key string, ttl time.Duration) (string, bool, error) {
	val, err := c.rdb.GetEx(ctx, scopeKey(scope, key), ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

// SetScoped writes one value of a session scope and refreshes its TTL.
func (c *Client) SetScoped(ctx context.Context, scope, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, scopeKey(scope, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// DeleteScoped removes keys of a session scope. Missing keys are ignored.
func (c *Client) DeleteScoped(ctx context.Context, scope string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = scopeKey(scope, k)
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// DropScope removes every key belonging to a session scope.
func (c *Client) DropScope(ctx context.Context, scope string) error {
	iter := c.rdb.Scan(ctx, 0, scopeKey(scope, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
