package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RevocationCache is the logout blacklist. Each revoked token is one key whose
// TTL ends at the entry's expiresAt, so Redis purges expired entries itself.
type RevocationCache struct {
	client *redisv9.Client
	now    func() time.Time
}

func NewRevocationCache(client *redisv9.Client) *RevocationCache {
	return &RevocationCache{
		client: client,
		now:    time.Now,
	}
}

// Revoke records token until expiresAt. Revoking the same token again only
// refreshes the entry.
func (c *RevocationCache) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(c.now())
	if ttl <= 0 {
		return nil
	}
	key := c.revokedKey(token)
	if err := c.client.Set(ctx, key, expiresAt.UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked token failed: %w", err)
	}
	return nil
}

func (c *RevocationCache) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := c.client.Exists(ctx, c.revokedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check revoked token failed: %w", err)
	}
	return exists > 0, nil
}

// Keys hold a digest rather than the raw token so key size stays fixed and
// the store never holds usable credentials.
func (c *RevocationCache) revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}
