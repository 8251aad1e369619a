package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"worldpath-wallet/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// StatusCache implements ports.StatusCache using Redis.
//
// Every registered client polls status on a fixed interval, so status reads
// dwarf everything else; a short-TTL cache absorbs them. The TTL stays below
// the poll interval and mutations invalidate eagerly, so a client observes
// any admin change within one tick.
type StatusCache struct {
	client *goredis.Client
	prefix string
}

// NewStatusCache creates a Redis-backed wallet status cache.
func NewStatusCache(client *goredis.Client) *StatusCache {
	return &StatusCache{
		client: client,
		prefix: "wallet:status:",
	}
}

// Get returns the cached status for a wallet, or (nil, nil) on a miss.
func (c *StatusCache) Get(ctx context.Context, walletID string) (*domain.WalletStatus, error) {
	val, err := c.client.Get(ctx, c.prefix+walletID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis status get: %w", err)
	}

	var status domain.WalletStatus
	if err := json.Unmarshal(val, &status); err != nil {
		return nil, fmt.Errorf("decode cached status: %w", err)
	}
	return &status, nil
}

// Set stores the status with a TTL.
func (c *StatusCache) Set(ctx context.Context, walletID string, status domain.WalletStatus, ttl time.Duration) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+walletID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis status set: %w", err)
	}
	return nil
}

// Invalidate drops the cached status after a mutation.
func (c *StatusCache) Invalidate(ctx context.Context, walletID string) error {
	if err := c.client.Del(ctx, c.prefix+walletID).Err(); err != nil {
		return fmt.Errorf("redis status invalidate: %w", err)
	}
	return nil
}
