// Package guard gates navigation on session state.
//
// Guards never mutate the session; they read snapshots from the
// [session.Manager], wait out a mid-check pending state for a bounded time,
// and then decide between rendering and redirecting. The TUI uses them to
// pick views; CLI commands use them to refuse authenticated-only actions.
package guard

import (
	"context"
	"time"

	"github.com/zaukho/zx/internal/session"
)

// Default navigation targets.
const (
	LoginPath = "/login"
	HomePath  = "/browse"
)

// Decision is the outcome of a guard check.
type Decision struct {
	// Allowed reports that the gated content may render.
	Allowed bool
	// RedirectTo is the destination when not allowed.
	RedirectTo string
	// From preserves the originally requested location so navigation can
	// resume there after login.
	From string
}

// Guard decides whether gated content renders or redirects.
type Guard struct {
	sessions *session.Manager
	// timeout bounds how long a guard waits on a pending session before
	// proceeding with whatever state is available.
	timeout time.Duration
}

// New creates a Guard over the given session manager. A zero timeout
// defaults to 5s.
func New(sessions *session.Manager, timeout time.Duration) *Guard {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Guard{sessions: sessions, timeout: timeout}
}

// RequireAuth gates authenticated-only content. When the session is still
// settling it waits (bounded), then either allows or redirects to the login
// destination, carrying the requested location.
func (g *Guard) RequireAuth(ctx context.Context, from string) Decision {
	snap := g.settled(ctx)
	if snap.IsAuthenticated() {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: LoginPath, From: from}
}

// RequireGuest is the mirror image: authenticated users are bounced to the
// post-login destination (or wherever they were originally headed).
func (g *Guard) RequireGuest(ctx context.Context, from string) Decision {
	snap := g.settled(ctx)
	if !snap.IsAuthenticated() {
		return Decision{Allowed: true}
	}

	to := from
	if to == "" || to == LoginPath {
		to = HomePath
	}
	return Decision{RedirectTo: to}
}

// settled waits for the session to leave the pending state, up to the guard
// timeout, after which it proceeds with best-effort state rather than
// hanging indefinitely.
func (g *Guard) settled(ctx context.Context) session.Snapshot {
	deadline := time.NewTimer(g.timeout)
	defer deadline.Stop()

	for {
		// Grab the change channel before reading the snapshot so a
		// transition between the two reads cannot be missed.
		changed := g.sessions.Changed()
		snap := g.sessions.Snapshot()
		if !snap.Loading() {
			return snap
		}

		select {
		case <-changed:
		case <-deadline.C:
			return g.sessions.Snapshot()
		case <-ctx.Done():
			return g.sessions.Snapshot()
		}
	}
}
