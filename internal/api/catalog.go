package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/zaukho/zx/internal/models"
)

// ContentFilters narrows catalog listings. Zero values are omitted.
type ContentFilters struct {
	Kind       string // "movie" or "tv-series"
	CategoryID int
	Year       int
	Limit      int
	Offset     int
}

func (f ContentFilters) query() string {
	q := url.Values{}
	if f.Kind != "" {
		q.Set("kind", f.Kind)
	}
	if f.CategoryID > 0 {
		q.Set("category", strconv.Itoa(f.CategoryID))
	}
	if f.Year > 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Contents lists catalog content matching the filters.
func (c *Client) Contents(ctx context.Context, filters ContentFilters) ([]models.Content, error) {
	var out []models.Content
	if err := c.get(ctx, "/content/"+filters.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Content retrieves a single catalog item by ID.
func (c *Client) Content(ctx context.Context, id int) (*models.Content, error) {
	var out models.Content
	if err := c.get(ctx, fmt.Sprintf("/content/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Featured lists editorially featured content.
func (c *Client) Featured(ctx context.Context) ([]models.Content, error) {
	var out []models.Content
	if err := c.get(ctx, "/content/featured/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Trending lists currently trending content.
func (c *Client) Trending(ctx context.Context) ([]models.Content, error) {
	var out []models.Content
	if err := c.get(ctx, "/content/trending/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recommended lists content recommended for the authenticated user.
func (c *Client) Recommended(ctx context.Context) ([]models.Content, error) {
	var out []models.Content
	if err := c.get(ctx, "/content/recommended/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewReleases lists recently added content.
func (c *Client) NewReleases(ctx context.Context) ([]models.Content, error) {
	var out []models.Content
	if err := c.get(ctx, "/content/new-releases/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories lists all catalog categories. When featuredOnly is set, only
// featured categories are returned.
func (c *Client) Categories(ctx context.Context, featuredOnly bool) ([]models.Category, error) {
	path := "/categories/"
	if featuredOnly {
		path += "?featured=true"
	}

	var out []models.Category
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Category retrieves a single category by ID.
func (c *Client) Category(ctx context.Context, id int) (*models.Category, error) {
	var out models.Category
	if err := c.get(ctx, fmt.Sprintf("/categories/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoryContent lists the content belonging to a category.
func (c *Client) CategoryContent(ctx context.Context, id int, filters ContentFilters) ([]models.Content, error) {
	var out []models.Content
	if err := c.get(ctx, fmt.Sprintf("/categories/%d/content/%s", id, filters.query()), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search performs a full-text catalog search.
func (c *Client) Search(ctx context.Context, query string) ([]models.Content, error) {
	var out []models.Content
	if err := c.get(ctx, "/search/?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out, nil
}
