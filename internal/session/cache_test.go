package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/shared"
)

func countingFetch(user *models.User, err error) (func(context.Context) (*models.User, error), *int) {
	calls := 0
	return func(ctx context.Context) (*models.User, error) {
		calls++
		return user, err
	}, &calls
}

func TestUserCache(t *testing.T) {
	t.Run("fresh entry short-circuits the fetch", func(t *testing.T) {
		c := newUserCache(time.Minute, time.Minute)
		fetch, calls := countingFetch(&models.User{ID: 1}, nil)

		for range 3 {
			user, err := c.get(t.Context(), fetch)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != 1 {
				t.Errorf("unexpected user: %+v", user)
			}
		}

		if *calls != 1 {
			t.Errorf("expected one fetch, got %d", *calls)
		}
	})

	t.Run("expired entry refetches", func(t *testing.T) {
		c := newUserCache(time.Minute, time.Nanosecond)
		fetch, calls := countingFetch(&models.User{ID: 1}, nil)

		if _, err := c.get(t.Context(), fetch); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Age the entry past its TTL.
		c.mu.Lock()
		c.fetchedAt = c.fetchedAt.Add(-2 * time.Minute)
		c.mu.Unlock()
		time.Sleep(time.Millisecond) // refill the throttle window

		if _, err := c.get(t.Context(), fetch); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *calls != 2 {
			t.Errorf("expected a refetch after expiry, got %d calls", *calls)
		}
	})

	t.Run("throttled with stale data serves stale", func(t *testing.T) {
		c := newUserCache(time.Minute, time.Hour)
		fetch, calls := countingFetch(&models.User{ID: 1}, nil)

		if _, err := c.get(t.Context(), fetch); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		c.mu.Lock()
		c.fetchedAt = c.fetchedAt.Add(-2 * time.Minute) // stale but present
		c.mu.Unlock()

		user, err := c.get(t.Context(), fetch)
		if err != nil {
			t.Fatalf("expected stale data, got error: %v", err)
		}
		if user.ID != 1 {
			t.Errorf("unexpected user: %+v", user)
		}
		if *calls != 1 {
			t.Errorf("throttled fetch must not reach the network, got %d calls", *calls)
		}
	})

	t.Run("throttled without data fails fast", func(t *testing.T) {
		c := newUserCache(time.Minute, time.Hour)
		failing, _ := countingFetch(nil, errors.New("boom"))

		// Consume the one available token with a failing fetch, leaving the
		// cache empty and the window closed.
		if _, err := c.get(t.Context(), failing); err == nil {
			t.Fatal("expected fetch error")
		}

		fetch, calls := countingFetch(&models.User{ID: 1}, nil)
		_, err := c.get(t.Context(), fetch)
		if !errors.Is(err, shared.ErrThrottled) {
			t.Fatalf("expected throttled error, got %v", err)
		}
		if *calls != 0 {
			t.Error("throttled call must not reach the network")
		}
	})

	t.Run("invalidate drops data but keeps the throttle", func(t *testing.T) {
		c := newUserCache(time.Minute, time.Hour)
		fetch, calls := countingFetch(&models.User{ID: 1}, nil)

		if _, err := c.get(t.Context(), fetch); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		c.invalidate()

		if _, err := c.get(t.Context(), fetch); !errors.Is(err, shared.ErrThrottled) {
			t.Fatalf("expected throttled after invalidate inside the window, got %v", err)
		}
		if *calls != 1 {
			t.Errorf("expected no refetch inside the window, got %d", *calls)
		}
	})
}
