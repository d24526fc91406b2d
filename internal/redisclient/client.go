package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
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

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetDarkMode persists a session's dark-mode preference.
func (c *Client) SetDarkMode(ctx context.Context, sessionID string, dark bool) error {
	key := fmt.Sprintf("theme:dark:%s", sessionID)
	return c.rdb.Set(ctx, key, strconv.FormatBool(dark), 0).Err()
}

// GetDarkMode reads a session's dark-mode preference. The second return
// value reports whether a preference has been stored.
func (c *Client) GetDarkMode(ctx context.Context, sessionID string) (dark, found bool, err error) {
	key := fmt.Sprintf("theme:dark:%s", sessionID)

	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}

	return val == "true", true, nil
}

// SaveCartSnapshot stores a session's cart as JSON with a TTL so abandoned
// carts age out.
func (c *Client) SaveCartSnapshot(ctx context.Context, snapshot *models.CartSnapshot, ttl time.Duration) error {
	key := fmt.Sprintf("cart:%s", snapshot.SessionID)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal cart snapshot: %w", err)
	}

	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// LoadCartSnapshot retrieves a session's stored cart. Returns nil when no
// snapshot exists.
func (c *Client) LoadCartSnapshot(ctx context.Context, sessionID string) (*models.CartSnapshot, error) {
	key := fmt.Sprintf("cart:%s", sessionID)

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot models.CartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart snapshot: %w", err)
	}

	return &snapshot, nil
}

// DeleteCartSnapshot removes a session's stored cart.
func (c *Client) DeleteCartSnapshot(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("cart:%s", sessionID)).Err()
}

// SetIdempotencyKey stores an idempotency key with TTL
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("idempotency:%s", key), value, ttl).Err()
}

// CheckIdempotencyKey checks if an idempotency key exists
func (c *Client) CheckIdempotencyKey(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, fmt.Sprintf("idempotency:%s", key)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}
