package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "showcase:profile:"

// DefaultCacheTTL bounds how stale a cached profile may be.
const DefaultCacheTTL = 30 * time.Second

// redisStore is the part of *redis.Client the cache needs.
type redisStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedClient puts a short-lived Redis read-through cache in front of a
// Client. Only found profiles are cached, so a freshly created profile is
// never hidden behind a cached miss. Redis trouble is logged and the call
// goes to the wrapped client as if the cache were empty.
type CachedClient struct {
	next   Client
	store  redisStore
	ttl    time.Duration
	logger logging.Logger
}

var _ Client = (*CachedClient)(nil)

func NewCachedClient(next Client, store redisStore, ttl time.Duration, logger logging.Logger) *CachedClient {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedClient{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With("module", "profile_cache"),
	}
}

func (c *CachedClient) LookupUser(ctx context.Context, email string) (*models.UserProfile, error) {
	if p, ok := c.cached(ctx, email); ok {
		return p, nil
	}

	p, err := c.next.LookupUser(ctx, email)
	if err != nil {
		return nil, err
	}

	c.remember(ctx, email, p)
	return p, nil
}

func (c *CachedClient) CreateUser(ctx context.Context, name, email, avatarURL string) (*models.UserProfile, error) {
	p, err := c.next.CreateUser(ctx, name, email, avatarURL)
	if err != nil {
		return nil, err
	}

	c.remember(ctx, email, p)
	return p, nil
}

func (c *CachedClient) cached(ctx context.Context, email string) (*models.UserProfile, bool) {
	raw, err := c.store.Get(ctx, cacheKeyPrefix+email).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn(ctx, "profile cache read failed", "error", err)
		}
		return nil, false
	}

	var p models.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		c.logger.Warn(ctx, "profile cache entry is corrupt", "error", err)
		return nil, false
	}

	return &p, true
}

func (c *CachedClient) remember(ctx context.Context, email string, p *models.UserProfile) {
	raw, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn(ctx, "profile cache encode failed", "error", err)
		return
	}

	if err := c.store.Set(ctx, cacheKeyPrefix+email, raw, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "profile cache write failed", "error", err)
	}
}
