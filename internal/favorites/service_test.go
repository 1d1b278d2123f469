package favorites

import (
	"context"
	"sync"
	"testing"

	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/domain"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]bool
	favs  map[string][]string
}

func newFakeRepo(users ...string) *fakeRepo {
	r := &fakeRepo{users: make(map[string]bool), favs: make(map[string][]string)}
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

func (r *fakeRepo) AddFavorite(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.favs[userID] {
		if id == productID {
			return nil
		}
	}
	r.favs[userID] = append(r.favs[userID], productID)
	return nil
}

func (r *fakeRepo) RemoveFavorite(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range r.favs[userID] {
		if id == productID {
			r.favs[userID] = append(r.favs[userID][:i], r.favs[userID][i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeRepo) Favorites(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.favs[userID]))
	copy(out, r.favs[userID])
	return out, nil
}

func TestAddFavorite_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo("u1")
	svc := NewService(repo, catalog.NewMemory(), 4)

	if err := svc.AddFavorite(ctx, "u1", "pizza"); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.AddFavorite(ctx, "u1", "pizza"); err != nil {
		t.Fatalf("repeat add must be a no-op, got %v", err)
	}

	ids, err := repo.Favorites(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected a single favorite, got %v", ids)
	}
}

func TestRemoveFavorite_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo("u1")
	svc := NewService(repo, catalog.NewMemory(), 4)

	if err := svc.RemoveFavorite(ctx, "u1", "never-added"); err != nil {
		t.Fatalf("removing a non-favorite must be a no-op, got %v", err)
	}
}

func TestListFavorites(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo("u1")
	cat := catalog.NewMemory()
	cat.Put(catalog.Product{ID: "pizza", Name: "Margherita", Price: 9.99})
	svc := NewService(repo, cat, 4)

	if err := svc.AddFavorite(ctx, "u1", "pizza"); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddFavorite(ctx, "u1", "gone"); err != nil {
		t.Fatal(err)
	}

	views, err := svc.ListFavorites(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(views))
	}
	if views[0].Product == nil || views[0].Product.Name != "Margherita" {
		t.Fatalf("expected resolved product, got %+v", views[0].Product)
	}
	if views[1].Product != nil {
		t.Fatalf("expected nil placeholder, got %+v", views[1].Product)
	}
}

func TestFavorites_UnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), catalog.NewMemory(), 4)

	if err := svc.AddFavorite(ctx, "ghost", "pizza"); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := svc.ListFavorites(ctx, "ghost"); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
