package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/guard"
	"github.com/zaukho/zx/internal/session"
	"github.com/zaukho/zx/internal/shared"
	tu "github.com/zaukho/zx/internal/testing"
	"github.com/zaukho/zx/internal/tokens"
)

// newTestRunner wires a runner against an httptest backend with the given
// token state.
func newTestRunner(t *testing.T, store tokens.Store, handler http.HandlerFunc) (*Runner, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.New(api.Options{BaseURL: server.URL, Store: store})
	sessions := session.NewManager(session.Options{
		Backend:  client,
		Store:    store,
		Notifier: &tu.MemNotifier{},
	})
	output := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		Config:   shared.DefaultConfig(),
		API:      client,
		Sessions: sessions,
		Gate:     guard.New(sessions, time.Second),
		Store:    store,
		Output:   output,
	})
	return runner, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			store := tokens.NewMemStore("", "")
			client := api.New(api.Options{Store: store})

			runner := NewRunner(RunnerOpts{
				Config: config,
				API:    client,
				Store:  store,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.api != client {
				t.Error("expected api client to be set")
			}
			if runner.store != store {
				t.Error("expected token store to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.engine == nil {
				t.Error("expected export engine built from the api client")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without api client leaves the engine nil", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.engine != nil {
				t.Error("expected no export engine without an api client")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Fatal("expected registered commands")
		}

		names := map[string]bool{}
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "browse", "search", "watchlist", "library", "store", "profile", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("requireAuth", func(t *testing.T) {
		t.Run("refuses a logged-out session", func(t *testing.T) {
			runner, _ := newTestRunner(t, tokens.NewMemStore("", ""), func(w http.ResponseWriter, r *http.Request) {})

			err := runner.requireAuth(t.Context(), "/library")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("allows a stored session", func(t *testing.T) {
			runner, _ := newTestRunner(t, tokens.NewMemStore("access", "refresh"), func(w http.ResponseWriter, r *http.Request) {})

			if err := runner.requireAuth(t.Context(), "/library"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})

		t.Run("without a guard", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if err := runner.requireAuth(t.Context(), "/library"); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("pretty prints", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}
			if !strings.Contains(output.String(), "\n  \"key\": \"value\"") {
				t.Errorf("expected indented JSON, got %q", output.String())
			}
		})

		t.Run("compact output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}
			if output.String() != "{\"key\":\"value\"}\n" {
				t.Errorf("unexpected output: %q", output.String())
			}
		})

		t.Run("write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected write error")
			}
		})

		t.Run("unmarshalable value", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if err := runner.writeJSON(func() {}, false); err == nil {
				t.Error("expected marshal error")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("writePlain failed: %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("unexpected output: %q", output.String())
		}

		if err := runner.writePlainln("line"); err != nil {
			t.Fatalf("writePlainln failed: %v", err)
		}
		if !strings.HasSuffix(output.String(), "\nline\n") {
			t.Errorf("expected surrounding newlines, got %q", output.String())
		}
	})

	t.Run("SetLogger", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		logger := shared.NewLogger(&bytes.Buffer{})

		runner.SetLogger(logger)
		if runner.logger != logger {
			t.Error("expected logger replaced")
		}
	})
}
