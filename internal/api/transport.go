package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/zaukho/zx/internal/shared"
	"github.com/zaukho/zx/internal/tokens"
	"golang.org/x/sync/singleflight"
)

// refreshPath is the token refresh endpoint. Requests to it are never
// themselves refreshed.
const refreshPath = "/auth/token/refresh/"

// retryHeader marks a request that has already been retried once after a
// refresh. A second 401 on such a request is surfaced as a normal error.
const retryHeader = "X-Zx-Retried"

// authTransport is the interceptor pair from the session core: it attaches
// the bearer token on the way out and performs the refresh-and-retry dance on
// a 401 on the way back.
//
// At most one refresh exchange is in flight at any time; concurrent 401s
// coalesce onto it via [singleflight.Group] and each retries once with the
// token it yields. A failed exchange clears the token pair and invokes the
// expiry hook.
type authTransport struct {
	base       http.RoundTripper
	store      tokens.Store
	refreshURL string
	logger     *log.Logger
	onExpired  func()

	refreshing singleflight.Group
}

var _ http.RoundTripper = (*authTransport)(nil)

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if access := t.store.Access(); access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", shared.GenerateID())
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized ||
		req.URL.Path == refreshPath ||
		req.Header.Get(retryHeader) != "" {
		return resp, nil
	}

	access, refreshErr := t.refresh(req.Context())
	if refreshErr != nil {
		// Keep the original 401 as the caller-visible outcome; the store is
		// already cleared and the expiry hook has fired.
		return resp, nil
	}

	resp.Body.Close()
	return t.retry(req, access)
}

// refresh exchanges the stored refresh token for a new access token. All
// concurrent callers share a single in-flight exchange.
func (t *authTransport) refresh(ctx context.Context) (string, error) {
	v, err, _ := t.refreshing.Do("refresh", func() (any, error) {
		refresh := t.store.Refresh()
		if refresh == "" {
			t.expire()
			return "", shared.ErrNoRefreshToken
		}

		access, err := t.exchange(ctx, refresh)
		if err != nil {
			t.logger.Warn("token refresh failed", "error", err)
			t.expire()
			return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}

		if err := t.store.SetAccess(access); err != nil {
			return "", fmt.Errorf("failed to persist refreshed token: %w", err)
		}

		t.logger.Debug("access token refreshed")
		return access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// exchange posts the refresh token and returns the new access token.
func (t *authTransport) exchange(ctx context.Context, refresh string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return "", netError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", normalize(resp.StatusCode, body)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Token == "" {
		return "", fmt.Errorf("invalid refresh response")
	}

	return out.Token, nil
}

// retry re-issues the original request exactly once with the new token.
func (t *authTransport) retry(req *http.Request, access string) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+access)
	clone.Header.Set(retryHeader, "1")

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		clone.Body = body
	}

	return t.base.RoundTrip(clone)
}

// expire clears both tokens and fires the must-re-authenticate hook.
func (t *authTransport) expire() {
	if err := t.store.Clear(); err != nil {
		t.logger.Warn("failed to clear token store", "error", err)
	}
	if t.onExpired != nil {
		t.onExpired()
	}
}
