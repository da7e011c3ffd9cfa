package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/shared"
)

// WatchlistList shows the user's watchlist.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/watchlist"); err != nil {
		return err
	}

	entries, err := r.api.Watchlist(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch watchlist: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader("My Watchlist")
	if len(entries) == 0 {
		return r.writePlain("Your watchlist is empty.\n")
	}
	for _, e := range entries {
		r.writePlain("%4d  %s\n", e.Content.ID, e.Content.Title)
	}
	return nil
}

// WatchlistAdd adds a title to the watchlist.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/watchlist"); err != nil {
		return err
	}

	id := cmd.IntArg("id")
	if id == 0 {
		return fmt.Errorf("%w: content id is required", shared.ErrMissingArgument)
	}

	if err := r.api.WatchlistAdd(ctx, id); err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return r.writePlain("✓ Added to watchlist\n")
}

// WatchlistRemove removes a title from the watchlist.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/watchlist"); err != nil {
		return err
	}

	id := cmd.IntArg("id")
	if id == 0 {
		return fmt.Errorf("%w: content id is required", shared.ErrMissingArgument)
	}

	if err := r.api.WatchlistRemove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	return r.writePlain("✓ Removed from watchlist\n")
}

// WatchlistExport writes the watchlist to local files.
func (r *Runner) WatchlistExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/watchlist"); err != nil {
		return err
	}
	return r.runExport(ctx, cmd, "watchlist", r.engine.ExportWatchlist)
}
