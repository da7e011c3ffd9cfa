package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zaukho/zx/internal/formatter"
	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/shared"
	"golang.org/x/time/rate"
)

// ProgressUpdate reports export progress for display.
type ProgressUpdate struct {
	Current int
	Total   int
	Title   string
	Stage   string
}

// Library is the slice of the API client the export engine consumes.
type Library interface {
	Library(ctx context.Context) ([]models.LibraryEntry, error)
	Watchlist(ctx context.Context) ([]models.WatchlistEntry, error)
	Content(ctx context.Context, id int) (*models.Content, error)
}

// ExportOpts configures an export run.
type ExportOpts struct {
	Format    string  // csv, markdown, txt
	OutputDir string  // default: zx_export_{epoch}
	RateLimit float64 // detail requests per second (default: 5)
	// FetchDetails re-fetches each entry's full content record. Off by
	// default: listings already carry what the formats need.
	FetchDetails bool
}

// ExportResult summarizes a completed export.
type ExportResult struct {
	Total     int
	Exported  int
	Failed    int
	OutputDir string
	Files     []string
}

// ExportEngine exports library and watchlist listings to local files.
type ExportEngine struct {
	lib Library
}

// NewExportEngine creates an ExportEngine over the given library reader.
func NewExportEngine(lib Library) *ExportEngine {
	return &ExportEngine{lib: lib}
}

// ExportLibrary writes the user's library to files in the requested format.
func (e *ExportEngine) ExportLibrary(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.lib == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	entries, err := e.lib.Library(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch library: %w", err)
	}

	entries, err = e.hydrate(ctx, prog, entries, opts)
	if err != nil {
		return nil, err
	}

	return e.write(entries, "library", opts)
}

// ExportWatchlist writes the user's watchlist to files in the requested format.
func (e *ExportEngine) ExportWatchlist(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.lib == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	saved, err := e.lib.Watchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watchlist: %w", err)
	}

	// Reuse the library writers by shaping watchlist rows as entries.
	entries := make([]models.LibraryEntry, len(saved))
	for i, item := range saved {
		entries[i] = models.LibraryEntry{ID: item.ID, Content: item.Content, Kind: "watchlist"}
	}

	entries, err = e.hydrate(ctx, prog, entries, opts)
	if err != nil {
		return nil, err
	}

	return e.write(entries, "watchlist", opts)
}

// hydrate optionally re-fetches each entry's full detail record under the
// rate limit, reporting progress as it goes.
func (e *ExportEngine) hydrate(ctx context.Context, prog chan<- ProgressUpdate, entries []models.LibraryEntry, opts ExportOpts) ([]models.LibraryEntry, error) {
	if !opts.FetchDetails {
		return entries, nil
	}

	rateLimit := opts.RateLimit
	if rateLimit <= 0 {
		rateLimit = 5.0
	}
	limiter := rate.NewLimiter(rate.Limit(rateLimit), 1)

	for i := range entries {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("export cancelled: %w", err)
		}

		detail, err := e.lib.Content(ctx, entries[i].Content.ID)
		if err != nil {
			// Keep the listing row; detail enrichment is best-effort.
			sendProgress(prog, ProgressUpdate{Current: i + 1, Total: len(entries), Title: entries[i].Content.Title, Stage: "skipped detail"})
			continue
		}
		entries[i].Content = *detail

		sendProgress(prog, ProgressUpdate{Current: i + 1, Total: len(entries), Title: detail.Title, Stage: "fetched"})
	}

	return entries, nil
}

// write renders the entries and writes a single output file per run.
func (e *ExportEngine) write(entries []models.LibraryEntry, name string, opts ExportOpts) (*ExportResult, error) {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = fmt.Sprintf("zx_export_%d", time.Now().Unix())
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		data []byte
		ext  string
		err  error
	)

	switch opts.Format {
	case "", "csv":
		data, err = formatter.LibraryToCSV(entries)
		ext = "csv"
	case "markdown", "md":
		data, err = formatter.LibraryToMarkdown("My "+name, entries)
		ext = "md"
	case "txt", "text":
		contents := make([]models.Content, len(entries))
		for i, entry := range entries {
			contents[i] = entry.Content
		}
		data, err = formatter.ContentsToText("My "+name, contents)
		ext = "txt"
	default:
		return nil, fmt.Errorf("%w: format %q", shared.ErrInvalidFlag, opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("%s.%s", name, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}

	return &ExportResult{
		Total:     len(entries),
		Exported:  len(entries),
		OutputDir: outputDir,
		Files:     []string{path},
	}, nil
}

// sendProgress delivers an update without blocking a slow consumer.
func sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
