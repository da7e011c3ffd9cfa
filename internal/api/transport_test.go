package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zaukho/zx/internal/tokens"
)

func TestAuthTransport(t *testing.T) {
	t.Run("attaches bearer token", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := New(Options{
			BaseURL: server.URL,
			Store:   tokens.NewMemStore("access-1", "refresh-1"),
		})

		if _, err := client.CurrentUser(t.Context()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != "Bearer access-1" {
			t.Errorf("expected bearer header, got %q", gotAuth)
		}
	})

	t.Run("omits bearer when logged out", func(t *testing.T) {
		var gotAuth string
		var gotRequestID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-ID")
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := New(Options{BaseURL: server.URL, Store: tokens.NewMemStore("", "")})

		if _, err := client.Featured(t.Context()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != "" {
			t.Errorf("expected no Authorization header, got %q", gotAuth)
		}
		if gotRequestID == "" {
			t.Error("expected a request id header")
		}
	})

	t.Run("401 refreshes and retries once", func(t *testing.T) {
		var refreshCalls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/token/refresh/":
				atomic.AddInt32(&refreshCalls, 1)
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["refresh"] != "refresh-1" {
					t.Errorf("expected refresh token in exchange, got %q", body["refresh"])
				}
				json.NewEncoder(w).Encode(map[string]string{"token": "access-2"})
			case "/auth/user/":
				if r.Header.Get("Authorization") != "Bearer access-2" {
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"detail":"token expired"}`))
					return
				}
				w.Write([]byte(`{"id":1,"email":"a@b.c"}`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		store := tokens.NewMemStore("stale", "refresh-1")
		client := New(Options{BaseURL: server.URL, Store: store})

		user, err := client.CurrentUser(t.Context())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Email != "a@b.c" {
			t.Errorf("expected user after retry, got %+v", user)
		}
		if n := atomic.LoadInt32(&refreshCalls); n != 1 {
			t.Errorf("expected exactly one refresh exchange, got %d", n)
		}
		if store.Access() != "access-2" {
			t.Errorf("expected refreshed token persisted, got %q", store.Access())
		}
	})

	t.Run("concurrent 401s share one refresh", func(t *testing.T) {
		var refreshCalls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/token/refresh/":
				atomic.AddInt32(&refreshCalls, 1)
				time.Sleep(50 * time.Millisecond) // keep callers overlapping
				json.NewEncoder(w).Encode(map[string]string{"token": "access-2"})
			default:
				if r.Header.Get("Authorization") == "Bearer access-2" {
					w.Write([]byte(`{}`))
					return
				}
				w.WriteHeader(http.StatusUnauthorized)
			}
		}))
		defer server.Close()

		store := tokens.NewMemStore("stale", "refresh-1")
		client := New(Options{BaseURL: server.URL, Store: store})

		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := client.CurrentUser(t.Context())
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Errorf("request failed after coalesced refresh: %v", err)
			}
		}
		if n := atomic.LoadInt32(&refreshCalls); n != 1 {
			t.Errorf("expected one shared refresh exchange, got %d", n)
		}
	})

	t.Run("failed refresh clears tokens and keeps the 401", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/token/refresh/" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"refresh expired"}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"token expired"}`))
		}))
		defer server.Close()

		expired := false
		store := tokens.NewMemStore("stale", "dead-refresh")
		client := New(Options{
			BaseURL:          server.URL,
			Store:            store,
			OnSessionExpired: func() { expired = true },
		})

		_, err := client.CurrentUser(t.Context())

		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Kind != KindUnauthenticated {
			t.Fatalf("expected unauthenticated error, got %v", err)
		}
		if store.Access() != "" || store.Refresh() != "" {
			t.Error("expected tokens cleared after failed refresh")
		}
		if !expired {
			t.Error("expected session-expired hook to fire")
		}
	})

	t.Run("401 without a refresh token expires immediately", func(t *testing.T) {
		var refreshCalls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/token/refresh/" {
				atomic.AddInt32(&refreshCalls, 1)
			}
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		expired := false
		store := tokens.NewMemStore("stale", "")
		client := New(Options{
			BaseURL:          server.URL,
			Store:            store,
			OnSessionExpired: func() { expired = true },
		})

		_, err := client.CurrentUser(t.Context())
		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Kind != KindUnauthenticated {
			t.Fatalf("expected unauthenticated error, got %v", err)
		}
		if atomic.LoadInt32(&refreshCalls) != 0 {
			t.Error("expected no refresh exchange without a refresh token")
		}
		if !expired {
			t.Error("expected session-expired hook to fire")
		}
	})

	t.Run("retry replays the request body", func(t *testing.T) {
		var bodies []string
		var mu sync.Mutex
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/token/refresh/":
				json.NewEncoder(w).Encode(map[string]string{"token": "access-2"})
			case "/watchlist/add/":
				data, _ := io.ReadAll(r.Body)
				mu.Lock()
				bodies = append(bodies, string(data))
				mu.Unlock()
				if r.Header.Get("Authorization") != "Bearer access-2" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				w.Write([]byte(`{}`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		client := New(Options{BaseURL: server.URL, Store: tokens.NewMemStore("stale", "refresh-1")})

		if err := client.WatchlistAdd(t.Context(), 42); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		mu.Lock()
		defer mu.Unlock()
		if len(bodies) != 2 {
			t.Fatalf("expected original and retried request, got %d", len(bodies))
		}
		if bodies[0] != bodies[1] {
			t.Errorf("retry body differs: %q vs %q", bodies[0], bodies[1])
		}
	})
}
