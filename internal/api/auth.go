package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/shared"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate performs the client-side checks that never reach the network.
func (c Credentials) Validate() error {
	if c.Email == "" || !strings.Contains(c.Email, "@") {
		return fmt.Errorf("%w: email", shared.ErrInvalidInput)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password", shared.ErrInvalidInput)
	}
	return nil
}

// RegisterParams is the registration request body.
type RegisterParams struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

func (p RegisterParams) Validate() error {
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email", shared.ErrInvalidInput)
	}
	if p.Password == "" {
		return fmt.Errorf("%w: password", shared.ErrInvalidInput)
	}
	if p.PasswordConfirm != "" && p.PasswordConfirm != p.Password {
		return fmt.Errorf("%w: passwords do not match", shared.ErrInvalidInput)
	}
	return nil
}

// AuthPayload is the token-bearing response of login and register.
type AuthPayload struct {
	Token   string      `json:"token"`
	Refresh string      `json:"refresh"`
	User    models.User `json:"user"`
}

// Login exchanges credentials for a token pair. Tokens are NOT persisted
// here; the session container owns that side effect.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthPayload, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/auth/login/", creds, &payload); err != nil {
		return nil, err
	}

	if payload.Token == "" {
		return nil, fmt.Errorf("%w: missing token in login response", shared.ErrAuthFailed)
	}

	return &payload, nil
}

// Register creates an account. A successful registration is an implicit
// login: the response carries the same token pair as Login.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*AuthPayload, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/auth/register/", params, &payload); err != nil {
		return nil, err
	}

	if payload.Token == "" {
		return nil, fmt.Errorf("%w: missing token in register response", shared.ErrAuthFailed)
	}

	return &payload, nil
}

// Logout invalidates the refresh token server-side. A 400 means the token was
// already blacklisted and is treated as success so local logout never sticks.
func (c *Client) Logout(ctx context.Context, refresh string) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout/", map[string]string{"refresh": refresh}, nil)
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		c.logger.Debug("logout returned 400, treating as already invalidated")
		return nil
	}
	return err
}

// CurrentUser fetches the authenticated user's record.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/user/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyToken checks whether a token is still valid server-side.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/token/verify/", map[string]string{"token": token}, nil)
}

// RequestPasswordReset asks the backend to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/password-reset/", map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset completes a password reset with the emailed token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/password-reset/confirm/", body, nil)
}
