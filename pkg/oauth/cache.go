package oauth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheCleanupInterval is how often expired cache entries are purged.
const DefaultCacheCleanupInterval = 5 * time.Minute

// CredentialsCache reuses client-credentials tokens per (client, secret,
// scope) until they come within margin of expiry. Concurrent misses for the
// same key share one token request.
type CredentialsCache struct {
	client *Client
	margin time.Duration
	cache  *gocache.Cache
	group  singleflight.Group
}

// NewCredentialsCache wraps client. A zero margin uses DefaultExpiryMargin.
func NewCredentialsCache(client *Client, margin time.Duration) *CredentialsCache {
	if margin <= 0 {
		margin = DefaultExpiryMargin
	}
	return &CredentialsCache{
		client: client,
		margin: margin,
		cache:  gocache.New(gocache.NoExpiration, DefaultCacheCleanupInterval),
	}
}

// Token returns a cached client-credentials token or requests a new one.
// The shared request is not bound to any single caller's context; each caller
// stops waiting when its own ctx is done. The returned value is a copy.
func (c *CredentialsCache) Token(ctx context.Context, clientID, clientSecret, scope string) (*TokenResponse, error) {
	key := cacheKey(clientID, clientSecret, scope)

	if v, ok := c.cache.Get(key); ok {
		return copyToken(v.(*TokenResponse)), nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}

		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultHTTPTimeout)
		defer cancel()

		token, err := c.client.ClientCredentials(reqCtx, clientID, clientSecret, scope)
		if err != nil {
			return nil, err
		}

		if ttl := c.ttl(token); ttl > 0 {
			c.cache.Set(key, token, ttl)
		}
		return token, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return copyToken(res.Val.(*TokenResponse)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached token for (clientID, clientSecret, scope).
func (c *CredentialsCache) Invalidate(clientID, clientSecret, scope string) {
	c.cache.Delete(cacheKey(clientID, clientSecret, scope))
}

// ttl is the time the token may be served from cache. Tokens without an
// expiry are not cached.
func (c *CredentialsCache) ttl(token *TokenResponse) time.Duration {
	if token.ExpiresAt.IsZero() {
		return 0
	}
	return token.ExpiresAt.Sub(c.client.now()) - c.margin
}

// cacheKey keeps the secret out of the key in clear text.
func cacheKey(clientID, clientSecret, scope string) string {
	sum := sha256.Sum256([]byte(clientSecret))
	return clientID + "\x00" + hex.EncodeToString(sum[:]) + "\x00" + scope
}

func copyToken(token *TokenResponse) *TokenResponse {
	cp := *token
	return &cp
}
