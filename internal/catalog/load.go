package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/cashier/internal/models"
)

// Source is the catalog collaborator.
type Source interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Snapshot is a consistent copy of the catalog.
type Snapshot struct {
	Products   []models.Product
	Categories []models.Category
}

// Load fetches products and categories concurrently. Either failure fails
// the whole load so the view never mixes old and new lists.
func Load(ctx context.Context, src Source) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := src.ListProducts(ctx)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		categories, err := src.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		snap.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
