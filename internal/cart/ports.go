package cart

import (
	"context"

	"github.com/dheras/foodcourt/internal/domain"
)

// Repository is the storage port for cart lines. *sqlite.Store satisfies
// it.
type Repository interface {
	UserExists(ctx context.Context, id string) (bool, error)
	AddCartLine(ctx context.Context, userID, productID string, quantity int) error
	RemoveCartLine(ctx context.Context, userID, productID string, quantity int) error
	CartLines(ctx context.Context, userID string) ([]domain.CartLine, error)
	ClearCart(ctx context.Context, userID string) error
}
