package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/api"
	"github.com/zaukho/zx/internal/formatter"
	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/shared"
)

// BrowseList lists catalog titles, optionally filtered by kind and category.
func (r *Runner) BrowseList(ctx context.Context, cmd *cli.Command) error {
	kind := cmd.String("kind")
	categoryID := cmd.Int("category")

	if cmd.Bool("cached") {
		cache, closer, err := r.openCatalogCache()
		if err != nil {
			return err
		}
		defer closer()

		contents, err := cache.Contents(kind, categoryID)
		if err != nil {
			return fmt.Errorf("failed to read catalog cache: %w", err)
		}
		return r.renderContents(cmd, "Catalog (cached)", contents)
	}

	contents, err := r.api.Contents(ctx, api.ContentFilters{
		Kind:       kind,
		CategoryID: categoryID,
		Limit:      cmd.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}
	return r.renderContents(cmd, "Catalog", contents)
}

// BrowseShow prints a single title with pricing and its comments.
func (r *Runner) BrowseShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.IntArg("id")
	if id == 0 {
		return fmt.Errorf("%w: content id is required", shared.ErrMissingArgument)
	}

	content, err := r.api.Content(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch title: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(content, true)
	}

	r.writePlainHeader(content.Title)
	r.writePlain("Kind: %s\n", content.Kind)
	if content.ReleaseYear > 0 {
		r.writePlain("Year: %d\n", content.ReleaseYear)
	}
	if content.Rating > 0 {
		r.writePlain("Rating: %.1f\n", content.Rating)
	}
	r.writePlain("Buy: %s  Rent: %s\n", formatter.FormatPrice(content.PriceBuy), formatter.FormatPrice(content.PriceRent))
	if content.Description != "" {
		r.writePlainln("%s", content.Description)
	}

	comments, err := r.api.ContentComments(ctx, id)
	if err != nil {
		r.logger.Warn("failed to fetch comments", "error", err)
		return nil
	}
	if len(comments) > 0 {
		r.writePlainln("Comments (%d):", len(comments))
		for _, c := range comments {
			r.writePlain("  %s\n", c.Body)
		}
	}
	return nil
}

// BrowseFeatured lists the featured shelf.
func (r *Runner) BrowseFeatured(ctx context.Context, cmd *cli.Command) error {
	return r.browseShelf(ctx, cmd, "Featured", r.api.Featured)
}

// BrowseTrending lists the trending shelf.
func (r *Runner) BrowseTrending(ctx context.Context, cmd *cli.Command) error {
	return r.browseShelf(ctx, cmd, "Trending", r.api.Trending)
}

// BrowseRecommended lists the personalized shelf, which needs a session.
func (r *Runner) BrowseRecommended(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/browse"); err != nil {
		return err
	}
	return r.browseShelf(ctx, cmd, "Recommended for you", r.api.Recommended)
}

// BrowseNewReleases lists the new releases shelf.
func (r *Runner) BrowseNewReleases(ctx context.Context, cmd *cli.Command) error {
	return r.browseShelf(ctx, cmd, "New releases", r.api.NewReleases)
}

func (r *Runner) browseShelf(ctx context.Context, cmd *cli.Command, title string, fetch func(context.Context) ([]models.Content, error)) error {
	contents, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", title, err)
	}
	return r.renderContents(cmd, title, contents)
}

// BrowseCategories lists categories from the API or the local cache.
func (r *Runner) BrowseCategories(ctx context.Context, cmd *cli.Command) error {
	var categories []models.Category
	var err error

	if cmd.Bool("cached") {
		cache, closer, cacheErr := r.openCatalogCache()
		if cacheErr != nil {
			return cacheErr
		}
		defer closer()
		categories, err = cache.Categories()
	} else {
		categories, err = r.api.Categories(ctx, cmd.Bool("featured"))
	}
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, true)
	}

	r.writePlainHeader("Categories")
	for _, c := range categories {
		r.writePlain("%4d  %s\n", c.ID, c.Name)
	}
	return nil
}

// BrowseWatch opens a title's stream URL in the system browser.
func (r *Runner) BrowseWatch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/watch"); err != nil {
		return err
	}

	id := cmd.IntArg("id")
	if id == 0 {
		return fmt.Errorf("%w: content id is required", shared.ErrMissingArgument)
	}

	content, err := r.api.Content(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch title: %w", err)
	}

	if content.StreamURL == "" {
		return fmt.Errorf("%w: %q has no stream, buy or rent it first", shared.ErrContentNotFound, content.Title)
	}

	r.logger.Info("opening stream", "title", content.Title)
	if err := shared.OpenBrowser(content.StreamURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return r.writePlain("✓ Opened %s\n", content.Title)
}

// Search queries the catalog.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	contents, err := r.api.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return r.renderContents(cmd, fmt.Sprintf("Results for %q", query), contents)
}

func (r *Runner) renderContents(cmd *cli.Command, title string, contents []models.Content) error {
	if cmd.Bool("json") {
		return r.writeJSON(contents, true)
	}

	r.writePlainHeader(title)
	if len(contents) == 0 {
		return r.writePlain("Nothing here yet.\n")
	}
	for _, c := range contents {
		line := fmt.Sprintf("%4d  %-40s %s", c.ID, c.Title, c.Kind)
		if c.ReleaseYear > 0 {
			line += fmt.Sprintf(" (%d)", c.ReleaseYear)
		}
		r.writePlain("%s\n", line)
	}
	return nil
}
