package guard

import (
	"context"
	"testing"
	"time"

	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/session"
	tu "github.com/zaukho/zx/internal/testing"
	"github.com/zaukho/zx/internal/tokens"
)

func authedManager(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(session.Options{
		Backend:  &tu.StubBackend{},
		Store:    tokens.NewMemStore("access", "refresh"),
		Notifier: &tu.MemNotifier{},
	})
}

func guestManager(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(session.Options{
		Backend:  &tu.StubBackend{},
		Store:    tokens.NewMemStore("", ""),
		Notifier: &tu.MemNotifier{},
	})
}

func TestGuard(t *testing.T) {
	t.Run("RequireAuth", func(t *testing.T) {
		t.Run("allows an authenticated session", func(t *testing.T) {
			g := New(authedManager(t), time.Second)

			decision := g.RequireAuth(t.Context(), "/library")
			if !decision.Allowed {
				t.Errorf("expected access, got redirect to %q", decision.RedirectTo)
			}
		})

		t.Run("redirects a guest to login with the origin", func(t *testing.T) {
			g := New(guestManager(t), time.Second)

			decision := g.RequireAuth(t.Context(), "/library")
			if decision.Allowed {
				t.Fatal("expected redirect")
			}
			if decision.RedirectTo != LoginPath {
				t.Errorf("expected redirect to %q, got %q", LoginPath, decision.RedirectTo)
			}
			if decision.From != "/library" {
				t.Errorf("expected origin preserved, got %q", decision.From)
			}
		})

		t.Run("waits for a pending session to settle", func(t *testing.T) {
			release := make(chan struct{})
			backend := &tu.StubBackend{
				LoginFn: func(ctx context.Context, creds api.Credentials) (*api.AuthPayload, error) {
					<-release
					return &api.AuthPayload{Token: "t", Refresh: "r", User: models.User{ID: 1}}, nil
				},
			}
			sessions := session.NewManager(session.Options{
				Backend:  backend,
				Store:    tokens.NewMemStore("", ""),
				Notifier: &tu.MemNotifier{},
			})
			g := New(sessions, 5*time.Second)

			go sessions.Login(context.Background(), "a@b.c", "pw")

			// Wait until the login is actually in flight.
			deadline := time.After(time.Second)
			for !sessions.Snapshot().Loading() {
				select {
				case <-deadline:
					t.Fatal("login never started")
				case <-time.After(time.Millisecond):
				}
			}

			decided := make(chan Decision, 1)
			go func() { decided <- g.RequireAuth(context.Background(), "/browse") }()

			// The guard must not decide while the session is pending.
			select {
			case d := <-decided:
				t.Fatalf("guard decided during pending state: %+v", d)
			case <-time.After(50 * time.Millisecond):
			}

			close(release)

			select {
			case d := <-decided:
				if !d.Allowed {
					t.Errorf("expected access after login settled, got %+v", d)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("guard never decided")
			}
		})

		t.Run("gives up after the bounded wait", func(t *testing.T) {
			stuck := make(chan struct{})
			backend := &tu.StubBackend{
				LoginFn: func(ctx context.Context, creds api.Credentials) (*api.AuthPayload, error) {
					<-stuck
					return nil, context.Canceled
				},
			}
			sessions := session.NewManager(session.Options{
				Backend:  backend,
				Store:    tokens.NewMemStore("", ""),
				Notifier: &tu.MemNotifier{},
				Watchdog: time.Hour, // keep the watchdog out of this test
			})
			g := New(sessions, 50*time.Millisecond)

			go sessions.Login(context.Background(), "a@b.c", "pw")
			deadline := time.After(time.Second)
			for !sessions.Snapshot().Loading() {
				select {
				case <-deadline:
					t.Fatal("login never started")
				case <-time.After(time.Millisecond):
				}
			}

			start := time.Now()
			decision := g.RequireAuth(t.Context(), "/browse")
			if elapsed := time.Since(start); elapsed > time.Second {
				t.Errorf("guard blocked too long: %v", elapsed)
			}
			if decision.Allowed {
				t.Error("an unsettled guest session must not be allowed through")
			}

			close(stuck)
		})

		t.Run("honors context cancellation", func(t *testing.T) {
			stuck := make(chan struct{})
			defer close(stuck)
			backend := &tu.StubBackend{
				LoginFn: func(ctx context.Context, creds api.Credentials) (*api.AuthPayload, error) {
					<-stuck
					return nil, context.Canceled
				},
			}
			sessions := session.NewManager(session.Options{
				Backend:  backend,
				Store:    tokens.NewMemStore("", ""),
				Notifier: &tu.MemNotifier{},
				Watchdog: time.Hour,
			})
			g := New(sessions, time.Hour)

			go sessions.Login(context.Background(), "a@b.c", "pw")
			deadline := time.After(time.Second)
			for !sessions.Snapshot().Loading() {
				select {
				case <-deadline:
					t.Fatal("login never started")
				case <-time.After(time.Millisecond):
				}
			}

			ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
			defer cancel()

			decision := g.RequireAuth(ctx, "/browse")
			if decision.Allowed {
				t.Error("expected redirect when cancelled mid-pending")
			}
		})
	})

	t.Run("RequireGuest", func(t *testing.T) {
		t.Run("allows a guest", func(t *testing.T) {
			g := New(guestManager(t), time.Second)

			decision := g.RequireGuest(t.Context(), "")
			if !decision.Allowed {
				t.Error("expected guest access to the login view")
			}
		})

		t.Run("bounces an authenticated user to the origin", func(t *testing.T) {
			g := New(authedManager(t), time.Second)

			decision := g.RequireGuest(t.Context(), "/library")
			if decision.Allowed {
				t.Fatal("expected redirect")
			}
			if decision.RedirectTo != "/library" {
				t.Errorf("expected redirect back to origin, got %q", decision.RedirectTo)
			}
		})

		t.Run("defaults the redirect to home", func(t *testing.T) {
			g := New(authedManager(t), time.Second)

			for _, from := range []string{"", LoginPath} {
				decision := g.RequireGuest(t.Context(), from)
				if decision.RedirectTo != HomePath {
					t.Errorf("from %q: expected redirect to %q, got %q", from, HomePath, decision.RedirectTo)
				}
			}
		})
	})
}
