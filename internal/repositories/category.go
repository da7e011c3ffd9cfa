package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/shared"
)

// CategoryRepository persists catalog categories to the local cache database.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new [CategoryRepository] with the given database connection
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Upsert inserts or refreshes a cached category keyed by the backend ID.
func (r *CategoryRepository) Upsert(category models.Category) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO categories (id, remote_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(remote_id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, shared.GenerateID(), category.ID, category.Name, category.Description, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	return nil
}

// List retrieves all cached categories ordered by name.
func (r *CategoryRepository) List() ([]models.Category, error) {
	rows, err := r.db.Query("SELECT remote_id, name, description FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var (
			category    models.Category
			description sql.NullString
		)
		if err := rows.Scan(&category.ID, &category.Name, &description); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		category.Description = description.String
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", err)
	}

	return categories, nil
}
