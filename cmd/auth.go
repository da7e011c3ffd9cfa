package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/shared"
)

// AuthLogin signs in with email and password and persists the token pair.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")

	r.logger.Info("signing in", "email", email)

	if err := r.sessions.Login(ctx, email, cmd.String("password")); err != nil {
		if snap := r.sessions.Snapshot(); snap.Err != "" {
			return fmt.Errorf("%w: %s", shared.ErrAuthFailed, snap.Err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	snap := r.sessions.Snapshot()
	if snap.User != nil {
		return r.writePlain("✓ Signed in as %s\n", snap.User.DisplayName())
	}
	return r.writePlain("✓ Signed in\n")
}

// AuthRegister creates a new account; a successful registration also signs in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	params := api.RegisterParams{
		Email:           cmd.String("email"),
		Password:        cmd.String("password"),
		PasswordConfirm: cmd.String("confirm"),
		FirstName:       cmd.String("first-name"),
		LastName:        cmd.String("last-name"),
	}

	r.logger.Info("registering account", "email", params.Email)

	if err := r.sessions.Register(ctx, params); err != nil {
		if snap := r.sessions.Snapshot(); snap.Err != "" {
			return fmt.Errorf("%w: %s", shared.ErrAuthFailed, snap.Err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Account created, you are signed in\n")
}

// AuthLogout signs out. Stored tokens are cleared even when the server
// cannot be reached.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("signing out")

	if err := r.sessions.Logout(ctx); err != nil {
		r.logger.Warn("server logout failed, local session cleared anyway", "error", err)
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami shows the signed-in user, served from the session cache when fresh.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/profile"); err != nil {
		return err
	}

	user, err := r.sessions.FetchCurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current user: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("%s\n", user.DisplayName())
	r.writePlain("Email: %s\n", user.Email)
	if user.Bio != "" {
		r.writePlain("Bio: %s\n", user.Bio)
	}
	return nil
}

// AuthResetPassword requests a password reset email.
func (r *Runner) AuthResetPassword(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email is required", shared.ErrMissingArgument)
	}

	if err := r.api.RequestPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("password reset request failed: %w", err)
	}

	return r.writePlain("✓ Reset instructions sent to %s\n", email)
}
