package cart

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/domain"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]bool
	lines map[string][]domain.CartLine
}

func newFakeRepo(users ...string) *fakeRepo {
	r := &fakeRepo{users: make(map[string]bool), lines: make(map[string][]domain.CartLine)}
	for _, u := range users {
		r.users[u] = true
	}
	return r
}

func (r *fakeRepo) UserExists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeRepo) AddCartLine(ctx context.Context, userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines[userID] {
		if l.ProductID == productID {
			r.lines[userID][i].Quantity += quantity
			return nil
		}
	}
	r.lines[userID] = append(r.lines[userID], domain.CartLine{ProductID: productID, Quantity: quantity})
	return nil
}

func (r *fakeRepo) RemoveCartLine(ctx context.Context, userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.lines[userID] {
		if l.ProductID != productID {
			continue
		}
		if quantity <= 0 || l.Quantity-quantity <= 0 {
			r.lines[userID] = append(r.lines[userID][:i], r.lines[userID][i+1:]...)
		} else {
			r.lines[userID][i].Quantity -= quantity
		}
		return nil
	}
	return domain.NotFoundf("product %s not in cart", productID)
}

func (r *fakeRepo) CartLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CartLine, len(r.lines[userID]))
	copy(out, r.lines[userID])
	return out, nil
}

func (r *fakeRepo) ClearCart(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, userID)
	return nil
}

func newTestService(users ...string) (*Service, *fakeRepo, *catalog.Memory) {
	repo := newFakeRepo(users...)
	cat := catalog.NewMemory()
	return NewService(repo, cat, 4), repo, cat
}

func TestAddItem_MergesQuantities(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("u1")

	if _, err := svc.AddItem(ctx, "u1", "pizza", 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	lines, err := svc.AddItem(ctx, "u1", "pizza", 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", lines[0].Quantity)
	}
}

func TestAddItem_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("u1")

	t.Run("zero quantity -> invalid", func(t *testing.T) {
		_, err := svc.AddItem(ctx, "u1", "pizza", 0)
		if !domain.IsInvalidArgument(err) {
			t.Fatalf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("unknown user -> not found", func(t *testing.T) {
		_, err := svc.AddItem(ctx, "ghost", "pizza", 1)
		if !domain.IsNotFound(err) {
			t.Fatalf("expected NotFound, got %v", err)
		}
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("partial decrement keeps line", func(t *testing.T) {
		svc, _, _ := newTestService("u1")
		if _, err := svc.AddItem(ctx, "u1", "pizza", 5); err != nil {
			t.Fatal(err)
		}

		lines, err := svc.RemoveItem(ctx, "u1", "pizza", 2)
		if err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if len(lines) != 1 || lines[0].Quantity != 3 {
			t.Fatalf("expected quantity 3, got %+v", lines)
		}
	})

	t.Run("over-remove deletes line", func(t *testing.T) {
		svc, _, _ := newTestService("u1")
		if _, err := svc.AddItem(ctx, "u1", "pizza", 3); err != nil {
			t.Fatal(err)
		}

		lines, err := svc.RemoveItem(ctx, "u1", "pizza", 10)
		if err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if len(lines) != 0 {
			t.Fatalf("expected empty cart, got %+v", lines)
		}
	})

	t.Run("no quantity deletes line regardless of count", func(t *testing.T) {
		svc, _, _ := newTestService("u1")
		if _, err := svc.AddItem(ctx, "u1", "pizza", 7); err != nil {
			t.Fatal(err)
		}

		lines, err := svc.RemoveItem(ctx, "u1", "pizza", 0)
		if err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if len(lines) != 0 {
			t.Fatalf("expected empty cart, got %+v", lines)
		}
	})

	t.Run("missing line -> not found", func(t *testing.T) {
		svc, _, _ := newTestService("u1")
		_, err := svc.RemoveItem(ctx, "u1", "pizza", 1)
		if !domain.IsNotFound(err) {
			t.Fatalf("expected NotFound, got %v", err)
		}
	})
}

func TestGetCart_DenormalizesWithPlaceholder(t *testing.T) {
	ctx := context.Background()
	svc, _, cat := newTestService("u1")

	cat.Put(catalog.Product{ID: "pizza", Name: "Margherita", Price: 9.99})
	if _, err := svc.AddItem(ctx, "u1", "pizza", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddItem(ctx, "u1", "gone", 2); err != nil {
		t.Fatal(err)
	}

	views, err := svc.GetCart(ctx, "u1")
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(views))
	}
	if views[0].Product == nil || views[0].Product.Name != "Margherita" {
		t.Fatalf("expected resolved product, got %+v", views[0].Product)
	}
	if views[1].Product != nil {
		t.Fatalf("expected nil placeholder for missing catalog entry, got %+v", views[1].Product)
	}
	if views[1].Quantity != 2 {
		t.Fatalf("placeholder line must keep its quantity, got %d", views[1].Quantity)
	}
}

func TestClearCart_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService("u1")

	if _, err := svc.AddItem(ctx, "u1", "pizza", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.ClearCart(ctx, "u1"); err != nil {
		t.Fatalf("first clear failed: %v", err)
	}
	if err := svc.ClearCart(ctx, "u1"); err != nil {
		t.Fatalf("second clear must be a no-op, got %v", err)
	}

	views, err := svc.GetCart(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty cart, got %+v", views)
	}
}

func TestAddItem_ConcurrentSameProduct(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService("u1")

	const n = 50
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := svc.AddItem(ctx, "u1", "pizza", 1)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent adds failed: %v", err)
	}

	lines, err := repo.CartLines(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Quantity != n {
		t.Fatalf("expected single line with quantity %d, got %+v", n, lines)
	}
}
