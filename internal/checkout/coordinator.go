// Package checkout converts a cart into an immutable order.
//
// The flow is a fixed sequence of phases: validate the payload, check
// that every referenced product still resolves in the catalog, persist
// the order (the commit point), then clear the cart. The last phase is
// best-effort cleanup: once the order is durable nothing unwinds it, and
// a cart-clear failure is reported alongside the order rather than as a
// checkout failure.
package checkout

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/domain"
	"github.com/dheras/foodcourt/internal/order"
	"github.com/dheras/foodcourt/internal/pkg/messaging"
)

// Phase names the coordinator's states, used in logs and errors.
type Phase string

const (
	PhaseValidating   Phase = "validating"
	PhaseSnapshotting Phase = "snapshotting"
	PhasePersisting   Phase = "persisting"
	PhaseClearingCart Phase = "clearing_cart"
	PhaseDone         Phase = "done"
)

// Ledger persists immutable orders. *order.Service satisfies it.
type Ledger interface {
	CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine, address string, totalAmount float64) (domain.Order, error)
}

// CartClearer empties a user's cart. *cart.Service satisfies it.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

// Result is the outcome of a successful checkout. CartClearErr is set
// when the post-commit cleanup failed; the order is durable regardless.
type Result struct {
	Order        domain.Order
	CartClearErr error
}

// OrderPlacedEvent is published to the broker after the commit point.
type OrderPlacedEvent struct {
	OrderID     string             `json:"order_id"`
	UserID      string             `json:"user_id"`
	Lines       []domain.OrderLine `json:"lines"`
	TotalAmount float64            `json:"total_amount"`
	PlacedAt    time.Time          `json:"placed_at"`
}

type Coordinator struct {
	ledger    Ledger
	cart      CartClearer
	catalog   catalog.Reader
	publisher messaging.Publisher

	maxConcurrent int
}

func NewCoordinator(ledger Ledger, cart CartClearer, cat catalog.Reader, pub messaging.Publisher, maxConcurrent int) *Coordinator {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	if pub == nil {
		pub = messaging.Nop{}
	}
	return &Coordinator{
		ledger:        ledger,
		cart:          cart,
		catalog:       cat,
		publisher:     pub,
		maxConcurrent: maxConcurrent,
	}
}

// PlaceOrder runs the checkout sequence for the submitted payload. At
// most one order is created per call, and none unless validation and the
// catalog existence checks pass.
//
// The total is trusted from the caller; only catalog existence is
// verified, not prices. The cart is cleared as it exists at clear time:
// items added between the snapshot and the clear are dropped from the
// cart without appearing in the order.
func (c *Coordinator) PlaceOrder(ctx context.Context, userID string, lines []domain.OrderLine, address string, totalAmount float64) (Result, error) {
	if err := order.ValidatePayload(lines, address, totalAmount); err != nil {
		slog.InfoContext(ctx, "checkout validation failed",
			"phase", PhaseValidating,
			"user_id", userID,
			"error", err,
		)
		return Result{}, err
	}

	if err := c.snapshot(ctx, lines); err != nil {
		slog.InfoContext(ctx, "checkout snapshot failed",
			"phase", PhaseSnapshotting,
			"user_id", userID,
			"error", err,
		)
		return Result{}, err
	}

	o, err := c.ledger.CreateOrder(ctx, userID, lines, address, totalAmount)
	if err != nil {
		return Result{}, err
	}

	// Commit point passed: the order is durable no matter what happens
	// below.
	c.publish(ctx, o)

	res := Result{Order: o}
	if err := c.cart.ClearCart(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "cart clear failed after order commit",
			"phase", PhaseClearingCart,
			"order_id", o.ID,
			"user_id", userID,
			"error", err,
		)
		res.CartClearErr = err
	}

	return res, nil
}

// snapshot verifies that every referenced product currently resolves in
// the catalog. Lookups run with bounded concurrency; the first failure
// cancels the rest.
func (c *Coordinator) snapshot(ctx context.Context, lines []domain.OrderLine) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for _, l := range lines {
		g.Go(func() error {
			_, err := c.catalog.Product(ctx, l.ProductID)
			return err
		})
	}
	return g.Wait()
}

func (c *Coordinator) publish(ctx context.Context, o domain.Order) {
	event := OrderPlacedEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		Lines:       o.Lines,
		TotalAmount: o.TotalAmount,
		PlacedAt:    o.CreatedAt,
	}
	if err := c.publisher.Publish(ctx, o.ID, event); err != nil {
		slog.ErrorContext(ctx, "order placed event publish failed",
			"order_id", o.ID,
			"error", err,
		)
	}
}
