package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/shared"
	"github.com/zaukho/zx/internal/tokens"
)

// Status enumerates the session states. Using an explicit enum instead of
// independent loading/isAuthenticated booleans keeps illegal combinations
// unrepresentable.
type Status int

const (
	StatusLoggedOut Status = iota
	StatusPending
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "logged-out"
	}
}

// Snapshot is a point-in-time read of the session record.
type Snapshot struct {
	Status Status
	User   *models.User
	Token  string
	// Err is the last operation error message for display, empty when the
	// last operation succeeded. Cleared at the start of every new attempt.
	Err string
}

// IsAuthenticated reports whether the session holds a live access token.
func (s Snapshot) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Token != ""
}

// Loading reports whether an operation lifecycle is in flight.
func (s Snapshot) Loading() bool { return s.Status == StatusPending }

// Notifier receives user-visible operation outcomes (the CLI analogue of
// toast notifications). Session expiry is intentionally never notified.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier routes notifications to a [log.Logger].
type LogNotifier struct{ Logger *log.Logger }

func (n LogNotifier) Success(msg string) { n.Logger.Info(msg) }
func (n LogNotifier) Error(msg string)   { n.Logger.Error(msg) }

// Backend is the slice of [api.Client] the session container consumes.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthPayload, error)
	Register(ctx context.Context, params api.RegisterParams) (*api.AuthPayload, error)
	Logout(ctx context.Context, refresh string) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Options configures a [Manager].
type Options struct {
	Backend  Backend
	Store    tokens.Store
	Notifier Notifier
	Logger   *log.Logger
	// Watchdog bounds how long the session may stay pending, defaulting to
	// 30s. It does not cancel the underlying call; a late completion still
	// applies last-write-wins.
	Watchdog time.Duration
	// UserCacheTTL and UserThrottle tune the current-user fetch cache,
	// defaulting to 60s and 3s.
	UserCacheTTL time.Duration
	UserThrottle time.Duration
}

// Manager is the session state container.
type Manager struct {
	backend  Backend
	store    tokens.Store
	notifier Notifier
	logger   *log.Logger
	watchdog time.Duration
	cache    *userCache

	mu      sync.Mutex
	cur     Snapshot
	prev    Snapshot // settled state saved while an operation is pending
	gen     uint64   // watchdog generation
	changed chan struct{}
}

// NewManager creates a Manager and rehydrates it from the token store: a
// persisted access token restores the authenticated status, anything else
// starts logged out, and the status is never restored as pending.
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: opts.Logger}
	}
	if opts.Watchdog == 0 {
		opts.Watchdog = 30 * time.Second
	}
	if opts.UserCacheTTL == 0 {
		opts.UserCacheTTL = 60 * time.Second
	}
	if opts.UserThrottle == 0 {
		opts.UserThrottle = 3 * time.Second
	}

	m := &Manager{
		backend:  opts.Backend,
		store:    opts.Store,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		watchdog: opts.Watchdog,
		cache:    newUserCache(opts.UserCacheTTL, opts.UserThrottle),
		changed:  make(chan struct{}),
	}

	// Rehydration: an authenticated status is only valid when backed by a
	// token, and a persisted "in progress" state never survives a restart.
	if access := m.store.Access(); access != "" {
		m.cur = Snapshot{Status: StatusAuthenticated, Token: access}
	} else {
		m.cur = Snapshot{Status: StatusLoggedOut}
	}

	return m
}

// Snapshot returns the current session record.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// Changed returns a channel closed on the next state transition. Guards use
// it to wait for a pending operation to settle without polling.
func (m *Manager) Changed() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}

// transition replaces the snapshot and wakes all waiters. Caller holds mu.
func (m *Manager) transition(next Snapshot) {
	m.cur = next
	close(m.changed)
	m.changed = make(chan struct{})
}

// begin moves the session to pending, clears the previous error, and arms
// the watchdog. Returns the generation used to match the settle.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gen++
	gen := m.gen
	if m.cur.Status != StatusPending {
		m.prev = m.cur
	}
	pending := m.prev
	pending.Status = StatusPending
	pending.Err = ""
	m.transition(pending)

	time.AfterFunc(m.watchdog, func() { m.expirePending(gen) })
	return gen
}

// expirePending is the watchdog: if the operation that armed it never
// settled, reconcile out of the stuck pending state from the token store.
func (m *Manager) expirePending(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen || m.cur.Status != StatusPending {
		return
	}

	m.logger.Warn("session operation timed out, resetting pending state")
	next := m.prev
	if next.Token == "" || m.store.Access() == "" {
		next = Snapshot{Status: StatusLoggedOut, Err: shared.ErrTimeout.Error()}
	}
	m.transition(next)
}

// settle applies a terminal state for the current operation. Late settles
// (after the watchdog fired) still apply: last write wins.
func (m *Manager) settle(next Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transition(next)
}

// Login authenticates with email and password, persisting the token pair on
// success. On failure the session stays logged out with Err set and any
// stored tokens are untouched.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	creds := api.Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		// Validation failures never reach the network or the session record.
		return err
	}

	m.begin()
	payload, err := m.backend.Login(ctx, creds)
	if err != nil {
		m.settleError(err)
		m.notifier.Error(errDetail(err, "Login failed. Please check your credentials."))
		return err
	}

	return m.establish(payload, "Login successful! Welcome back.")
}

// Register creates an account and treats success as an implicit login.
func (m *Manager) Register(ctx context.Context, params api.RegisterParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	m.begin()
	payload, err := m.backend.Register(ctx, params)
	if err != nil {
		m.settleError(err)
		m.notifier.Error(errDetail(err, "Registration failed. Please try again."))
		return err
	}

	return m.establish(payload, "Registration successful! Welcome aboard.")
}

// establish persists the token pair and settles into the authenticated state.
func (m *Manager) establish(payload *api.AuthPayload, notice string) error {
	if err := m.store.SetPair(payload.Token, payload.Refresh); err != nil {
		m.settleError(err)
		return err
	}

	m.cache.invalidate()
	user := payload.User
	m.settle(Snapshot{Status: StatusAuthenticated, User: &user, Token: payload.Token})
	m.notifier.Success(notice)
	return nil
}

// Logout clears the session. The remote invalidation call is best-effort;
// local logout always completes even when the network is down.
func (m *Manager) Logout(ctx context.Context) error {
	m.begin()

	if refresh := m.store.Refresh(); refresh != "" {
		if err := m.backend.Logout(ctx, refresh); err != nil {
			m.logger.Warn("remote logout failed, continuing with local logout", "error", err)
		}
	}

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear token store", "error", err)
	}
	m.cache.invalidate()

	m.settle(Snapshot{Status: StatusLoggedOut})
	m.notifier.Success("You have been logged out successfully.")
	return nil
}

// FetchCurrentUser resolves "who am I" through the throttled cache.
//
// Three outcomes: success updates the user record; a 401 is a silent logout
// (no error notification); a throttle leaves the session untouched. Any
// other failure sets Err and leaves the auth flags alone.
func (m *Manager) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	m.begin()

	user, err := m.cache.get(ctx, m.backend.CurrentUser)
	if err == nil {
		m.mu.Lock()
		next := m.prev
		next.User = user
		next.Err = ""
		if token := m.store.Access(); token != "" {
			next.Status = StatusAuthenticated
			next.Token = token
		} else {
			// A user without a token is an invalid combination; reconcile
			// to logged out rather than surface it.
			next = Snapshot{Status: StatusLoggedOut}
			user = nil
		}
		m.transition(next)
		m.mu.Unlock()

		if user == nil {
			return nil, shared.ErrNotAuthenticated
		}
		return user, nil
	}

	switch {
	case errors.Is(err, shared.ErrThrottled):
		// Not an error: restore the previous settled state byte for byte.
		m.mu.Lock()
		m.transition(m.prev)
		m.mu.Unlock()
		return nil, err

	case errors.Is(err, shared.ErrNotAuthenticated):
		// Expired session: silent local logout, no notification.
		if cerr := m.store.Clear(); cerr != nil {
			m.logger.Warn("failed to clear token store", "error", cerr)
		}
		m.cache.invalidate()
		m.settle(Snapshot{Status: StatusLoggedOut})
		return nil, err

	default:
		m.mu.Lock()
		next := m.prev
		next.Err = errDetail(err, "Failed to fetch user data.")
		m.transition(next)
		m.mu.Unlock()
		return nil, err
	}
}

// ClearError resets the displayed error without touching anything else.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur.Err != "" {
		next := m.cur
		next.Err = ""
		m.transition(next)
	}
}

// settleError keeps the previous auth state and records the error message.
func (m *Manager) settleError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.prev
	next.Err = errDetail(err, err.Error())
	m.transition(next)
}

// errDetail prefers the server-provided detail text, falling back to a
// generic message for shapes without one.
func errDetail(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
