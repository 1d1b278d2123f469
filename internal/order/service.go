// Package order is the ledger of immutable order records: creation from a
// cart snapshot, point lookup, and per-user history.
package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/domain"
)

// Repository is the storage port for orders. *sqlite.Store satisfies it.
type Repository interface {
	UserExists(ctx context.Context, id string) (bool, error)
	CreateOrder(ctx context.Context, o domain.Order) error
	Order(ctx context.Context, id string) (domain.Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// LineView is an order line joined with current catalog data at read
// time. Product is nil when the catalog entry no longer exists.
type LineView struct {
	ProductID string
	Quantity  int
	Product   *catalog.Product
}

// View is an order denormalized for display.
type View struct {
	ID          string
	UserID      string
	Lines       []LineView
	Address     string
	TotalAmount float64
	Status      domain.OrderStatus
	CreatedAt   time.Time
}

type Service struct {
	repo    Repository
	catalog catalog.Reader

	maxConcurrent int
	now           func() time.Time
}

func NewService(repo Repository, cat catalog.Reader, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	return &Service{repo: repo, catalog: cat, maxConcurrent: maxConcurrent, now: time.Now}
}

// CreateOrder validates and persists an immutable order with status
// PaymentDone. Any validation failure leaves storage untouched.
func (s *Service) CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine, address string, totalAmount float64) (domain.Order, error) {
	if err := ValidatePayload(lines, address, totalAmount); err != nil {
		return domain.Order{}, err
	}

	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		return domain.Order{}, domain.NotFoundf("user %s not found", userID)
	}

	o := domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		Lines:       lines,
		Address:     address,
		TotalAmount: totalAmount,
		Status:      domain.StatusPaymentDone,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return domain.Order{}, err
	}

	slog.InfoContext(ctx, "order committed",
		"order_id", o.ID,
		"user_id", userID,
		"lines", len(lines),
		"total_amount", totalAmount,
	)
	return o, nil
}

// ValidatePayload checks an order payload without touching storage: lines
// non-empty with every quantity >= 1, address non-empty, total > 0.
func ValidatePayload(lines []domain.OrderLine, address string, totalAmount float64) error {
	if len(lines) == 0 {
		return domain.InvalidArgumentf("order must contain at least one product")
	}
	for _, l := range lines {
		if l.ProductID == "" {
			return domain.InvalidArgumentf("order line is missing a product id")
		}
		if l.Quantity < 1 {
			return domain.InvalidArgumentf("order line quantity must be at least 1, got %d", l.Quantity)
		}
	}
	if address == "" {
		return domain.InvalidArgumentf("address is required")
	}
	if totalAmount <= 0 {
		return domain.InvalidArgumentf("total amount must be positive, got %v", totalAmount)
	}
	return nil
}

// GetOrder returns a single denormalized order by id.
func (s *Service) GetOrder(ctx context.Context, orderID string) (View, error) {
	o, err := s.repo.Order(ctx, orderID)
	if err != nil {
		return View{}, err
	}
	return s.denormalize(ctx, o)
}

// ListOrders returns every order the user placed, most recent first,
// joined with current catalog data per line. No orders means an empty
// slice, not an error.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]View, error) {
	orders, err := s.repo.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]View, len(orders))
	for i, o := range orders {
		views[i], err = s.denormalize(ctx, o)
		if err != nil {
			return nil, err
		}
	}
	return views, nil
}

func (s *Service) denormalize(ctx context.Context, o domain.Order) (View, error) {
	ids := make([]string, len(o.Lines))
	for i, l := range o.Lines {
		ids[i] = l.ProductID
	}

	products, err := catalog.Resolve(ctx, s.catalog, ids, s.maxConcurrent)
	if err != nil {
		return View{}, err
	}

	lines := make([]LineView, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = LineView{ProductID: l.ProductID, Quantity: l.Quantity, Product: products[i]}
	}

	return View{
		ID:          o.ID,
		UserID:      o.UserID,
		Lines:       lines,
		Address:     o.Address,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}, nil
}
