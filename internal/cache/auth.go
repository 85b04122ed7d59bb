package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/recipebox/recipebox/internal/model"
)

const (
	// authCachePrefix is the Redis key prefix for auth context cache.
	authCachePrefix = "auth:ctx:"
	// authTokenIndexPrefix is the Redis key prefix for the token-id to
	// cache-key reverse index, used for invalidation on revoke.
	authTokenIndexPrefix = "auth:token:"
	// authCacheTTL is the time-to-live for cached auth contexts.
	authCacheTTL = 5 * time.Minute
)

// CachedAuthContext represents auth context stored in Redis.
type CachedAuthContext struct {
	TokenID       string   `json:"token_id"`
	TokenPrefix   string   `json:"token_prefix"`
	UserID        string   `json:"user_id"`
	Scopes        []string `json:"scopes"`
	RateLimitTier string   `json:"rate_limit_tier"`
}

// GetAuthContext retrieves a cached auth context by cache key.
// Returns nil if not found (cache miss).
func (c *Cache) GetAuthContext(ctx context.Context, cacheKey string) (*model.AuthContext, error) {
	key := authCachePrefix + cacheKey

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached CachedAuthContext
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.AuthContext{
		TokenID:       cached.TokenID,
		TokenPrefix:   cached.TokenPrefix,
		UserID:        cached.UserID,
		Scopes:        cached.Scopes,
		RateLimitTier: cached.RateLimitTier,
	}, nil
}

// SetAuthContext caches an auth context.
func (c *Cache) SetAuthContext(ctx context.Context, cacheKey string, auth *model.AuthContext) error {
	key := authCachePrefix + cacheKey

	cached := CachedAuthContext{
		TokenID:       auth.TokenID,
		TokenPrefix:   auth.TokenPrefix,
		UserID:        auth.UserID,
		Scopes:        auth.Scopes,
		RateLimitTier: auth.RateLimitTier,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal auth context: %w", err)
	}

	if err := c.client.Set(ctx, key, data, authCacheTTL).Err(); err != nil {
		return err
	}

	// Reverse index so a revoke can find the cached entry by token id.
	return c.client.Set(ctx, authTokenIndexPrefix+auth.TokenID, cacheKey, authCacheTTL).Err()
}

// DeleteAuthContext removes a cached auth context.
// Used when a token is revoked.
func (c *Cache) DeleteAuthContext(ctx context.Context, cacheKey string) error {
	key := authCachePrefix + cacheKey
	return c.client.Del(ctx, key).Err()
}

// InvalidateToken drops the cached auth context for a token id, if any.
// Revoked tokens stop authenticating immediately instead of riding out
// the cache TTL.
func (c *Cache) InvalidateToken(ctx context.Context, tokenID string) error {
	indexKey := authTokenIndexPrefix + tokenID

	cacheKey, err := c.client.Get(ctx, indexKey).Result()
	if err != nil {
		// Nothing cached for this token
		return nil //nolint:nilerr
	}

	return c.client.Del(ctx, authCachePrefix+cacheKey, indexKey).Err()
}
