package session

import (
	"context"
	"sync"
	"time"

	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/models"
	"golang.org/x/time/rate"
)

// userCache bounds how often the current-user endpoint may be called.
//
// It holds exactly one entry. A fresh entry short-circuits the network; a
// stale entry is served instead of blocking when the throttle window is
// closed; with no entry at all, a throttled call fails fast with
// [api.Throttled] and never reaches the network. Invalidated wholesale on
// logout.
type userCache struct {
	mu        sync.Mutex
	data      *models.User
	fetchedAt time.Time
	ttl       time.Duration
	limiter   *rate.Limiter
	now       func() time.Time
}

func newUserCache(ttl, minInterval time.Duration) *userCache {
	return &userCache{
		ttl:     ttl,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		now:     time.Now,
	}
}

// get serves the cached user or calls fetch, applying TTL and throttle rules.
func (c *userCache) get(ctx context.Context, fetch func(context.Context) (*models.User, error)) (*models.User, error) {
	c.mu.Lock()

	if c.data != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		user := c.data
		c.mu.Unlock()
		return user, nil
	}

	if !c.limiter.Allow() {
		// Throttled: serve stale data when we have it rather than blocking.
		if c.data != nil {
			user := c.data
			c.mu.Unlock()
			return user, nil
		}
		c.mu.Unlock()
		return nil, api.Throttled()
	}
	c.mu.Unlock()

	user, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.data = user
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return user, nil
}

// invalidate drops the cached entry. The limiter is left alone: the minimum
// inter-request interval applies across logins as well.
func (c *userCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.fetchedAt = time.Time{}
}
