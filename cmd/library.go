package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/shared"
	"github.com/zaukho/zx/internal/tasks"
)

// LibraryList shows the user's purchased and rented titles.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/library"); err != nil {
		return err
	}

	entries, err := r.api.Library(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch library: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader("My Library")
	if len(entries) == 0 {
		return r.writePlain("Your library is empty.\n")
	}
	for _, e := range entries {
		line := fmt.Sprintf("%4d  %-40s %s", e.Content.ID, e.Content.Title, e.Kind)
		if e.ExpiresAt != nil {
			line += fmt.Sprintf(" (expires %s)", e.ExpiresAt.Format(time.DateOnly))
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// LibraryExport writes the library to local files.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/library"); err != nil {
		return err
	}
	return r.runExport(ctx, cmd, "library", r.engine.ExportLibrary)
}

// runExport drives an export engine run, draining progress updates into logs.
func (r *Runner) runExport(ctx context.Context, cmd *cli.Command, name string, run func(context.Context, chan<- tasks.ProgressUpdate, tasks.ExportOpts) (*tasks.ExportResult, error)) error {
	if r.engine == nil {
		return fmt.Errorf("%w: export engine not initialized", shared.ErrServiceUnavailable)
	}

	opts := tasks.ExportOpts{
		Format:       cmd.String("format"),
		OutputDir:    cmd.String("output"),
		FetchDetails: cmd.Bool("details"),
	}

	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Info("exporting", "stage", update.Stage, "title", update.Title, "progress", fmt.Sprintf("%d/%d", update.Current, update.Total))
		}
	}()

	result, err := run(ctx, prog, opts)
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("%s export failed: %w", name, err)
	}

	r.writePlain("✓ Exported %d of %d entries\n", result.Exported, result.Total)
	for _, f := range result.Files {
		r.writePlain("  %s\n", f)
	}
	return nil
}
