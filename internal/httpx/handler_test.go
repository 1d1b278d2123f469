package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dheras/foodcourt/internal/cart"
	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/checkout"
	"github.com/dheras/foodcourt/internal/domain"
	"github.com/dheras/foodcourt/internal/favorites"
	"github.com/dheras/foodcourt/internal/identity"
	"github.com/dheras/foodcourt/internal/order"
	"github.com/dheras/foodcourt/internal/pkg/messaging"
)

// fakeStore implements the storage ports of every service in memory.
type fakeStore struct {
	mu     sync.Mutex
	users  map[string]bool
	lines  map[string][]domain.CartLine
	favs   map[string][]string
	orders []domain.Order
}

func newFakeStore(users ...string) *fakeStore {
	s := &fakeStore{
		users: make(map[string]bool),
		lines: make(map[string][]domain.CartLine),
		favs:  make(map[string][]string),
	}
	for _, u := range users {
		s.users[u] = true
	}
	return s
}

func (s *fakeStore) UserExists(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *fakeStore) AddCartLine(ctx context.Context, userID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lines[userID] {
		if l.ProductID == productID {
			s.lines[userID][i].Quantity += quantity
			return nil
		}
	}
	s.lines[userID] = append(s.lines[userID], domain.CartLine{ProductID: productID, Quantity: quantity})
	return nil
}

func (s *fakeStore) RemoveCartLine(ctx context.Context, userID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lines[userID] {
		if l.ProductID != productID {
			continue
		}
		if quantity <= 0 || l.Quantity-quantity <= 0 {
			s.lines[userID] = append(s.lines[userID][:i], s.lines[userID][i+1:]...)
		} else {
			s.lines[userID][i].Quantity -= quantity
		}
		return nil
	}
	return domain.NotFoundf("product %s not in cart", productID)
}

func (s *fakeStore) CartLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines[userID]))
	copy(out, s.lines[userID])
	return out, nil
}

func (s *fakeStore) ClearCart(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, userID)
	return nil
}

func (s *fakeStore) AddFavorite(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.favs[userID] {
		if id == productID {
			return nil
		}
	}
	s.favs[userID] = append(s.favs[userID], productID)
	return nil
}

func (s *fakeStore) RemoveFavorite(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.favs[userID] {
		if id == productID {
			s.favs[userID] = append(s.favs[userID][:i], s.favs[userID][i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) Favorites(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.favs[userID]))
	copy(out, s.favs[userID])
	return out, nil
}

func (s *fakeStore) CreateOrder(ctx context.Context, o domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
	return nil
}

func (s *fakeStore) Order(ctx context.Context, id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.NotFoundf("order %s not found", id)
}

func (s *fakeStore) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			out = append(out, s.orders[i])
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeStore, *catalog.Memory) {
	t.Helper()

	store := newFakeStore("u1")
	cat := catalog.NewMemory()
	cat.Put(catalog.Product{ID: "pizza", Name: "Margherita", Price: 9.99})

	cartSvc := cart.NewService(store, cat, 4)
	favSvc := favorites.NewService(store, cat, 4)
	orderSvc := order.NewService(store, cat, 4)
	co := checkout.NewCoordinator(orderSvc, cartSvc, cat, messaging.Nop{}, 4)

	provider := identity.NewStatic()
	provider.Grant("valid-token", "u1")

	srv := httptest.NewServer(NewRouter(NewHandler(cartSvc, favSvc, orderSvc, co), provider))
	t.Cleanup(srv.Close)
	return srv, store, cat
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestAuthRequired(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/user/cart", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/user/cart", "bogus", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", resp.StatusCode)
	}
}

func TestAddCartItem(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/user/cart", "valid-token",
		CartItemRequest{ProductID: "pizza", Quantity: 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/user/cart", "valid-token",
		CartItemRequest{ProductID: "pizza", Quantity: 3})
	body := decode[CartResponse](t, resp)
	if len(body.Cart) != 1 || body.Cart[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %+v", body.Cart)
	}
}

func TestRemoveCartItem_NotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/user/cart", "valid-token",
		CartItemRequest{ProductID: "pizza", Quantity: 1})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing line, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_InvalidPayload(t *testing.T) {
	srv, store, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/user/order", "valid-token",
		PlaceOrderRequest{Products: nil, Address: "123 Main St", TotalAmount: 19.98})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decode[ErrorResponse](t, resp)
	if body.Error != "invalid_argument" {
		t.Fatalf("expected invalid_argument, got %q", body.Error)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.orders) != 0 {
		t.Fatal("invalid payload must not create an order")
	}
}

func TestCheckoutFlow(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/user/cart", "valid-token",
		CartItemRequest{ProductID: "pizza", Quantity: 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/user/order", "valid-token", PlaceOrderRequest{
		Products:    []OrderLineDTO{{Product: "pizza", Quantity: 2}},
		Address:     "123 Main St",
		TotalAmount: 19.98,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("place order: expected 200, got %d", resp.StatusCode)
	}
	placed := decode[PlaceOrderResponse](t, resp)
	if !placed.CartCleared {
		t.Fatal("expected the cart to be cleared")
	}
	if placed.Order.Status != string(domain.StatusPaymentDone) {
		t.Fatalf("expected status %q, got %q", domain.StatusPaymentDone, placed.Order.Status)
	}
	if len(placed.Order.Products) != 1 || placed.Order.Products[0].Product == nil {
		t.Fatalf("expected a denormalized order line, got %+v", placed.Order.Products)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/user/cart", "valid-token", nil)
	lines := decode[[]CartViewLineDTO](t, resp)
	if len(lines) != 0 {
		t.Fatalf("cart must be empty after checkout, got %+v", lines)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/user/order", "valid-token", nil)
	list := decode[ListOrdersResponse](t, resp)
	if !list.Success || list.Count != 1 || len(list.Orders) != 1 {
		t.Fatalf("expected one order in history, got %+v", list)
	}
	if list.Orders[0].ID != placed.Order.ID {
		t.Fatalf("history order id mismatch: %s vs %s", list.Orders[0].ID, placed.Order.ID)
	}
}

func TestListOrders_EmptyIsNotError(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/user/order", "valid-token", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	list := decode[ListOrdersResponse](t, resp)
	if !list.Success || list.Count != 0 || len(list.Orders) != 0 {
		t.Fatalf("expected empty successful envelope, got %+v", list)
	}
}

func TestFavoritesEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/user/favorite", "valid-token",
			FavoriteRequest{ProductID: "pizza"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add favorite: expected 200, got %d", resp.StatusCode)
		}
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/user/favorite", "valid-token", nil)
	favs := decode[[]FavoriteViewDTO](t, resp)
	if len(favs) != 1 || favs[0].Product == nil || favs[0].Product.Name != "Margherita" {
		t.Fatalf("expected a single resolved favorite, got %+v", favs)
	}

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/user/favorite", "valid-token",
		FavoriteRequest{ProductID: "pizza"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove favorite: expected 200, got %d", resp.StatusCode)
	}
}
