package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/zaukho/zx/internal/formatter"
	"github.com/zaukho/zx/internal/shared"
)

// StoreBuy purchases a title; a purchase never expires.
func (r *Runner) StoreBuy(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/store"); err != nil {
		return err
	}

	id := cmd.IntArg("id")
	if id == 0 {
		return fmt.Errorf("%w: content id is required", shared.ErrMissingArgument)
	}

	purchase, err := r.api.CreatePurchase(ctx, id)
	if err != nil {
		return fmt.Errorf("purchase failed: %w", err)
	}

	return r.writePlain("✓ Purchased for %s\n", formatter.FormatPrice(purchase.Amount))
}

// StoreRent rents a title for a limited period.
func (r *Runner) StoreRent(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/store"); err != nil {
		return err
	}

	id := cmd.IntArg("id")
	if id == 0 {
		return fmt.Errorf("%w: content id is required", shared.ErrMissingArgument)
	}

	rental, err := r.api.CreateRental(ctx, id)
	if err != nil {
		return fmt.Errorf("rental failed: %w", err)
	}

	return r.writePlain("✓ Rented for %s until %s\n",
		formatter.FormatPrice(rental.Amount), rental.ExpiresAt.Format(time.DateOnly))
}

// StorePurchases lists past purchases.
func (r *Runner) StorePurchases(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/store"); err != nil {
		return err
	}

	purchases, err := r.api.Purchases(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch purchases: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(purchases, true)
	}

	r.writePlainHeader("Purchases")
	if len(purchases) == 0 {
		return r.writePlain("No purchases yet.\n")
	}
	for _, p := range purchases {
		r.writePlain("%4d  content %d  %s  %s\n",
			p.ID, p.ContentID, formatter.FormatPrice(p.Amount), p.CreatedAt.Format(time.DateOnly))
	}
	return nil
}

// StoreRentals lists past rentals.
func (r *Runner) StoreRentals(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx, "/store"); err != nil {
		return err
	}

	rentals, err := r.api.Rentals(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch rentals: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(rentals, true)
	}

	r.writePlainHeader("Rentals")
	if len(rentals) == 0 {
		return r.writePlain("No rentals yet.\n")
	}
	for _, rental := range rentals {
		r.writePlain("%4d  content %d  %s  expires %s\n",
			rental.ID, rental.ContentID, formatter.FormatPrice(rental.Amount), rental.ExpiresAt.Format(time.DateOnly))
	}
	return nil
}
