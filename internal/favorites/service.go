// Package favorites owns the deduplicated per-user favorites set. All
// mutations are idempotent.
package favorites

import (
	"context"

	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/domain"
)

// ProductView is one favorited reference enriched at read time. Product
// is nil when the catalog entry is gone.
type ProductView struct {
	ProductID string
	Product   *catalog.Product
}

// Repository is the storage port for favorites. *sqlite.Store satisfies
// it.
type Repository interface {
	UserExists(ctx context.Context, id string) (bool, error)
	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error
	Favorites(ctx context.Context, userID string) ([]string, error)
}

type Service struct {
	repo    Repository
	catalog catalog.Reader

	maxConcurrent int
}

func NewService(repo Repository, cat catalog.Reader, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	return &Service{repo: repo, catalog: cat, maxConcurrent: maxConcurrent}
}

// AddFavorite records productID for the user. Adding a product that is
// already favorited is a no-op, not an error.
func (s *Service) AddFavorite(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return domain.InvalidArgumentf("product id is required")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, userID, productID)
}

// RemoveFavorite drops productID for the user. Removing a product that
// was never favorited is a no-op.
func (s *Service) RemoveFavorite(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return domain.InvalidArgumentf("product id is required")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.repo.RemoveFavorite(ctx, userID, productID)
}

// ListFavorites returns the user's favorites denormalized with current
// catalog data, same per-entry placeholder policy as the cart view.
func (s *Service) ListFavorites(ctx context.Context, userID string) ([]ProductView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.repo.Favorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	products, err := catalog.Resolve(ctx, s.catalog, ids, s.maxConcurrent)
	if err != nil {
		return nil, err
	}

	views := make([]ProductView, len(ids))
	for i, id := range ids {
		views[i] = ProductView{ProductID: id, Product: products[i]}
	}
	return views, nil
}

func (s *Service) requireUser(ctx context.Context, userID string) error {
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundf("user %s not found", userID)
	}
	return nil
}
