package models

import "time"

// User represents the authenticated account's identity and profile fields.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// DisplayName returns a human readable name, falling back to the email.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Category represents a catalog category.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Featured    bool   `json:"featured,omitempty"`
}

// Content represents a movie or TV series in the catalog.
type Content struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Kind        string   `json:"kind"` // "movie" or "tv-series"
	Description string   `json:"description,omitempty"`
	CategoryID  int      `json:"category_id,omitempty"`
	ReleaseYear int      `json:"release_year,omitempty"`
	PriceBuy    float64  `json:"price_buy,omitempty"`
	PriceRent   float64  `json:"price_rent,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty"`
	StreamURL   string   `json:"stream_url,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// WatchlistEntry represents a catalog item saved to the user's watchlist.
type WatchlistEntry struct {
	ID      int       `json:"id"`
	Content Content   `json:"content"`
	AddedAt time.Time `json:"added_at"`
}

// LibraryEntry represents owned or rented content in the user's library.
type LibraryEntry struct {
	ID        int        `json:"id"`
	Content   Content    `json:"content"`
	Kind      string     `json:"kind"` // "purchase" or "rental"
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Purchase represents a completed content purchase.
type Purchase struct {
	ID        int       `json:"id"`
	ContentID int       `json:"content_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Rental represents a time-limited content rental.
type Rental struct {
	ID        int       `json:"id"`
	ContentID int       `json:"content_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Rating represents a user's score for a piece of content.
type Rating struct {
	ID        int       `json:"id"`
	ContentID int       `json:"content_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Comment represents a user comment on a piece of content.
type Comment struct {
	ID        int       `json:"id"`
	ContentID int       `json:"content_id"`
	Body      string    `json:"body"`
	Author    User      `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
