package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/shared"
)

// ProfileShow prints the signed-in user's profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/profile"); err != nil {
		return err
	}

	user, err := r.api.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlainHeader(user.DisplayName())
	r.writePlain("Email: %s\n", user.Email)
	if user.Bio != "" {
		r.writePlain("Bio: %s\n", user.Bio)
	}
	return nil
}

// ProfileUpdate patches the provided profile fields, leaving the rest alone.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/profile"); err != nil {
		return err
	}

	fields := map[string]any{}
	for flag, key := range map[string]string{
		"first-name": "first_name",
		"last-name":  "last_name",
		"bio":        "bio",
	} {
		if cmd.IsSet(flag) {
			fields[key] = cmd.String(flag)
		}
	}

	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", shared.ErrMissingArgument)
	}

	user, err := r.api.UpdateProfile(ctx, fields)
	if err != nil {
		return fmt.Errorf("profile update failed: %w", err)
	}

	return r.writePlain("✓ Profile updated for %s\n", user.DisplayName())
}

// ProfilePasswd changes the account password.
func (r *Runner) ProfilePasswd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/profile"); err != nil {
		return err
	}

	if err := r.api.ChangePassword(ctx, cmd.String("current"), cmd.String("new")); err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}
	return r.writePlain("✓ Password changed\n")
}

// ProfileRate scores a title from 1 to 5.
func (r *Runner) ProfileRate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/profile"); err != nil {
		return err
	}

	id := cmd.IntArg("id")
	if id == 0 {
		return fmt.Errorf("%w: content id is required", shared.ErrMissingArgument)
	}

	score := cmd.Int("score")
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: score must be between 1 and 5", shared.ErrInvalidArgument)
	}

	if _, err := r.api.CreateRating(ctx, id, score); err != nil {
		return fmt.Errorf("rating failed: %w", err)
	}
	return r.writePlain("✓ Rated %d/5\n", score)
}

// ProfileComment posts a comment on a title.
func (r *Runner) ProfileComment(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/profile"); err != nil {
		return err
	}

	id := cmd.IntArg("id")
	if id == 0 {
		return fmt.Errorf("%w: content id is required", shared.ErrMissingArgument)
	}

	body := cmd.String("body")
	if body == "" {
		return fmt.Errorf("%w: comment body is required", shared.ErrMissingArgument)
	}

	if _, err := r.api.CreateComment(ctx, id, body); err != nil {
		return fmt.Errorf("comment failed: %w", err)
	}
	return r.writePlain("✓ Comment posted\n")
}
