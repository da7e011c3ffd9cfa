package repositories

import (
	"fmt"

	"github.com/zaukho/zx/internal/models"
)

// CatalogCache bundles the content and category repositories behind the
// small surface browse commands use.
//
// Refreshes are best-effort mirrors of backend listings; a failed row aborts
// the refresh so the cache never holds a partially-written record.
type CatalogCache struct {
	contents   *ContentRepository
	categories *CategoryRepository
}

// NewCatalogCache creates a CatalogCache over the given repositories.
func NewCatalogCache(contents *ContentRepository, categories *CategoryRepository) *CatalogCache {
	return &CatalogCache{contents: contents, categories: categories}
}

// RefreshContents mirrors a backend content listing into the cache.
func (c *CatalogCache) RefreshContents(items []models.Content) error {
	for _, item := range items {
		if err := c.contents.Upsert(item); err != nil {
			return fmt.Errorf("failed to cache content %d: %w", item.ID, err)
		}
	}
	return nil
}

// RefreshCategories mirrors a backend category listing into the cache.
func (c *CatalogCache) RefreshCategories(items []models.Category) error {
	for _, item := range items {
		if err := c.categories.Upsert(item); err != nil {
			return fmt.Errorf("failed to cache category %d: %w", item.ID, err)
		}
	}
	return nil
}

// Contents lists cached content with optional filters.
func (c *CatalogCache) Contents(kind string, categoryID int) ([]models.Content, error) {
	return c.contents.List(kind, categoryID)
}

// Categories lists cached categories.
func (c *CatalogCache) Categories() ([]models.Category, error) {
	return c.categories.List()
}
