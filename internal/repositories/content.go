package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/zaukho/zx/internal/models"
	"github.com/zaukho/zx/internal/shared"
)

// ContentRepository persists catalog content to the local cache database.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new [ContentRepository] with the given database connection
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Upsert inserts or refreshes a cached content row keyed by the backend ID.
func (r *ContentRepository) Upsert(content models.Content) error {
	query := `
		INSERT INTO content (id, remote_id, title, kind, description, category_remote_id, release_year, price_buy, price_rent, poster_url, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(remote_id) DO UPDATE SET
			title = excluded.title,
			kind = excluded.kind,
			description = excluded.description,
			category_remote_id = excluded.category_remote_id,
			release_year = excluded.release_year,
			price_buy = excluded.price_buy,
			price_rent = excluded.price_rent,
			poster_url = excluded.poster_url,
			cached_at = excluded.cached_at
	`

	_, err := r.db.Exec(query,
		shared.GenerateID(), content.ID, content.Title, content.Kind, content.Description,
		content.CategoryID, content.ReleaseYear, content.PriceBuy, content.PriceRent,
		content.PosterURL, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert content: %w", err)
	}

	return nil
}

// Get retrieves a cached content row by its backend ID.
func (r *ContentRepository) Get(remoteID int) (*models.Content, error) {
	query := `
		SELECT remote_id, title, kind, description, category_remote_id, release_year, price_buy, price_rent, poster_url
		FROM content
		WHERE remote_id = ?
	`

	content, err := scanContent(r.db.QueryRow(query, remoteID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", shared.ErrContentNotFound, remoteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	return content, nil
}

// List retrieves cached content, optionally filtered by kind and category.
// Zero values disable the corresponding filter.
func (r *ContentRepository) List(kind string, categoryID int) ([]models.Content, error) {
	query := `
		SELECT remote_id, title, kind, description, category_remote_id, release_year, price_buy, price_rent, poster_url
		FROM content
		WHERE (? = '' OR kind = ?) AND (? = 0 OR category_remote_id = ?)
		ORDER BY title
	`

	rows, err := r.db.Query(query, kind, kind, categoryID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	defer rows.Close()

	var contents []models.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, *content)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content rows: %w", err)
	}

	return contents, nil
}

// Count returns the number of cached content rows.
func (r *ContentRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM content").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count content: %w", err)
	}
	return count, nil
}

// PurgeOlderThan deletes cache rows older than the cutoff and returns how
// many were removed.
func (r *ContentRepository) PurgeOlderThan(cutoff time.Time) (int, error) {
	res, err := r.db.Exec("DELETE FROM content WHERE cached_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge content cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged rows: %w", err)
	}
	return int(n), nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanContent.
type scanner interface {
	Scan(dest ...any) error
}

func scanContent(s scanner) (*models.Content, error) {
	var (
		content     models.Content
		description sql.NullString
		categoryID  sql.NullInt64
		releaseYear sql.NullInt64
		priceBuy    sql.NullFloat64
		priceRent   sql.NullFloat64
		posterURL   sql.NullString
	)

	err := s.Scan(&content.ID, &content.Title, &content.Kind, &description,
		&categoryID, &releaseYear, &priceBuy, &priceRent, &posterURL)
	if err != nil {
		return nil, err
	}

	content.Description = description.String
	content.CategoryID = int(categoryID.Int64)
	content.ReleaseYear = int(releaseYear.Int64)
	content.PriceBuy = priceBuy.Float64
	content.PriceRent = priceRent.Float64
	content.PosterURL = posterURL.String

	return &content, nil
}
