package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/zaukho/zx/internal/models"
)

// Watchlist lists the authenticated user's saved content.
func (c *Client) Watchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	var out []models.WatchlistEntry
	if err := c.get(ctx, "/watchlist/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchlistAdd saves a catalog item to the watchlist.
func (c *Client) WatchlistAdd(ctx context.Context, contentID int) error {
	return c.do(ctx, http.MethodPost, "/watchlist/add/", map[string]int{"content_id": contentID}, nil)
}

// WatchlistRemove removes a catalog item from the watchlist.
func (c *Client) WatchlistRemove(ctx context.Context, contentID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/watchlist/remove/%d/", contentID), nil, nil)
}

// Library lists the user's owned and rented content.
func (c *Client) Library(ctx context.Context) ([]models.LibraryEntry, error) {
	var out []models.LibraryEntry
	if err := c.get(ctx, "/library/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePurchase buys a catalog item outright.
func (c *Client) CreatePurchase(ctx context.Context, contentID int) (*models.Purchase, error) {
	var out models.Purchase
	if err := c.do(ctx, http.MethodPost, "/purchases/", map[string]int{"content_id": contentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Purchases lists the user's purchases.
func (c *Client) Purchases(ctx context.Context) ([]models.Purchase, error) {
	var out []models.Purchase
	if err := c.get(ctx, "/purchases/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRental rents a catalog item for the backend's rental window.
func (c *Client) CreateRental(ctx context.Context, contentID int) (*models.Rental, error) {
	var out models.Rental
	if err := c.do(ctx, http.MethodPost, "/rentals/", map[string]int{"content_id": contentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rentals lists the user's rentals.
func (c *Client) Rentals(ctx context.Context) ([]models.Rental, error) {
	var out []models.Rental
	if err := c.get(ctx, "/rentals/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRating scores a piece of content from 1 to 10.
func (c *Client) CreateRating(ctx context.Context, contentID, score int) (*models.Rating, error) {
	body := map[string]int{"content_id": contentID, "score": score}

	var out models.Rating
	if err := c.do(ctx, http.MethodPost, "/ratings/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRating changes an existing rating's score.
func (c *Client) UpdateRating(ctx context.Context, id, score int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/ratings/%d/", id), map[string]int{"score": score}, nil)
}

// DeleteRating removes a rating.
func (c *Client) DeleteRating(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/ratings/%d/", id), nil, nil)
}

// ContentComments lists comments on a piece of content.
func (c *Client) ContentComments(ctx context.Context, contentID int) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.get(ctx, fmt.Sprintf("/content/%d/comments/", contentID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment posts a comment on a piece of content.
func (c *Client) CreateComment(ctx context.Context, contentID int, body string) (*models.Comment, error) {
	payload := map[string]any{"content_id": contentID, "body": body}

	var out models.Comment
	if err := c.do(ctx, http.MethodPost, "/comments/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComment replaces a comment's body.
func (c *Client) UpdateComment(ctx context.Context, id int, body string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/comments/%d/", id), map[string]string{"body": body}, nil)
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d/", id), nil, nil)
}

// Profile retrieves the user's profile record.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.get(ctx, "/users/profile/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile patches the given profile fields.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPatch, "/users/profile/", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword updates the account password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	return c.do(ctx, http.MethodPost, "/users/profile/change-password/", body, nil)
}
