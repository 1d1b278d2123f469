// Package cart owns the mutable per-user cart: merge-on-add,
// floor-at-zero removal, and the read-through denormalized view.
package cart

import (
	"context"

	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/domain"
)

// LineView is one cart line enriched with live catalog data. Product is
// nil when the catalog no longer resolves the reference; the rest of the
// cart is still returned.
type LineView struct {
	ProductID string
	Quantity  int
	Product   *catalog.Product
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

// AddItem merges quantity into the user's line for productID and returns
// the updated cart. Repeated adds accumulate; they never overwrite.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) ([]domain.CartLine, error) {
	if productID == "" {
		return nil, domain.InvalidArgumentf("product id is required")
	}
	if quantity < 1 {
		return nil, domain.InvalidArgumentf("quantity must be at least 1, got %d", quantity)
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.AddCartLine(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.repo.CartLines(ctx, userID)
}

// RemoveItem subtracts quantity from the user's line for productID. A
// non-positive quantity deletes the whole line regardless of its current
// count; a decrement that reaches zero or below deletes it too. Returns
// the updated cart.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string, quantity int) ([]domain.CartLine, error) {
	if productID == "" {
		return nil, domain.InvalidArgumentf("product id is required")
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveCartLine(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.repo.CartLines(ctx, userID)
}

// GetCart returns the cart denormalized with current catalog data. The
// join happens at read time; a stale reference surfaces as a line with a
// nil Product instead of breaking the whole view.
func (s *Service) GetCart(ctx context.Context, userID string) ([]LineView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	lines, err := s.repo.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}

	products, err := catalog.Resolve(ctx, s.catalog, ids, s.maxConcurrent)
	if err != nil {
		return nil, err
	}

	views := make([]LineView, len(lines))
	for i, l := range lines {
		views[i] = LineView{ProductID: l.ProductID, Quantity: l.Quantity, Product: products[i]}
	}
	return views, nil
}

// ClearCart empties the cart unconditionally. Clearing twice is a no-op
// the second time.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	return s.repo.ClearCart(ctx, userID)
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
