// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/models"
)

// StubBackend is a test double for session.Backend with scriptable behavior.
// Unset functions return zero values.
type StubBackend struct {
	LoginFn       func(ctx context.Context, creds api.Credentials) (*api.AuthPayload, error)
	RegisterFn    func(ctx context.Context, params api.RegisterParams) (*api.AuthPayload, error)
	LogoutFn      func(ctx context.Context, refresh string) error
	CurrentUserFn func(ctx context.Context) (*models.User, error)

	mu           sync.Mutex
	LoginCalls   int
	LogoutCalls  int
	CurrentCalls int
}

func (s *StubBackend) Login(ctx context.Context, creds api.Credentials) (*api.AuthPayload, error) {
	s.mu.Lock()
	s.LoginCalls++
	s.mu.Unlock()
	if s.LoginFn == nil {
		return &api.AuthPayload{}, nil
	}
	return s.LoginFn(ctx, creds)
}

func (s *StubBackend) Register(ctx context.Context, params api.RegisterParams) (*api.AuthPayload, error) {
	if s.RegisterFn == nil {
		return &api.AuthPayload{}, nil
	}
	return s.RegisterFn(ctx, params)
}

func (s *StubBackend) Logout(ctx context.Context, refresh string) error {
	s.mu.Lock()
	s.LogoutCalls++
	s.mu.Unlock()
	if s.LogoutFn == nil {
		return nil
	}
	return s.LogoutFn(ctx, refresh)
}

func (s *StubBackend) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	s.CurrentCalls++
	s.mu.Unlock()
	if s.CurrentUserFn == nil {
		return &models.User{}, nil
	}
	return s.CurrentUserFn(ctx)
}

// Calls returns the current-user call count under the lock.
func (s *StubBackend) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CurrentCalls
}

// MemNotifier records notifications for assertions.
type MemNotifier struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

func (n *MemNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Successes = append(n.Successes, msg)
}

func (n *MemNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, msg)
}

// Counts returns how many success and error notifications were recorded.
func (n *MemNotifier) Counts() (successes, errors int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Successes), len(n.Errors)
}

// RoundTripperFunc adapts a function to [http.RoundTripper].
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	MaxWrites int
	written   int
	Target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.MaxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.Target.Write(p)
}
