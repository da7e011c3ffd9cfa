package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zaukho/zx/internal/shared"
	"github.com/zaukho/zx/internal/tokens"
)

// Client provides typed access to the storefront backend.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   tokens.Store
	logger  *log.Logger
}

// Options configures a [Client].
type Options struct {
	// BaseURL is the backend base path, e.g. "https://api.zaukho.com/api".
	BaseURL string
	// Store holds the persisted token pair. Required.
	Store tokens.Store
	// Transport is the underlying round tripper, defaulting to
	// [http.DefaultTransport]. Tests inject an httptest transport here.
	Transport http.RoundTripper
	// Timeout bounds each request, defaulting to 30s.
	Timeout time.Duration
	Logger  *log.Logger
	// OnSessionExpired fires when a refresh exchange fails and the user must
	// re-authenticate. The session container uses it to redirect to login.
	OnSessionExpired func()
}

// New creates a Client whose transport handles bearer attachment and the
// 401-refresh-retry cycle.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8000/api"
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	transport := &authTransport{
		base:       opts.Transport,
		store:      opts.Store,
		refreshURL: opts.BaseURL + refreshPath,
		logger:     opts.Logger,
		onExpired:  opts.OnSessionExpired,
	}

	return &Client{
		baseURL: opts.BaseURL,
		httpc:   &http.Client{Transport: transport, Timeout: opts.Timeout},
		store:   opts.Store,
		logger:  opts.Logger,
	}
}

// BaseURL returns the configured backend base path.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs a JSON request and decodes the response into out (when non-nil).
// Every failure leaves this method as an [*Error] or a context error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		var uerr *url.Error
		if errors.As(err, &uerr) && (errors.Is(uerr.Err, context.Canceled) || errors.Is(uerr.Err, context.DeadlineExceeded)) {
			return uerr.Err
		}
		return netError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return netError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return normalize(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// get is a shorthand for query-only requests.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}
