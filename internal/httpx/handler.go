package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dheras/foodcourt/internal/cart"
	"github.com/dheras/foodcourt/internal/checkout"
	"github.com/dheras/foodcourt/internal/domain"
	"github.com/dheras/foodcourt/internal/favorites"
	"github.com/dheras/foodcourt/internal/httpx/middlewares"
	"github.com/dheras/foodcourt/internal/order"
)

const timeLayout = time.RFC3339

// Handler exposes the cart, favorites, and order operations over HTTP.
type Handler struct {
	cart      *cart.Service
	favorites *favorites.Service
	orders    *order.Service
	checkout  *checkout.Coordinator
}

func NewHandler(c *cart.Service, f *favorites.Service, o *order.Service, co *checkout.Coordinator) *Handler {
	return &Handler{cart: c, favorites: f, orders: o, checkout: co}
}

// AddCartItem merges a quantity into the user's cart line for a product.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	lines, err := h.cart.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CartResponse{
		Message: "Product added to cart successfully",
		Cart:    mapCartLines(lines),
	})
}

// RemoveCartItem subtracts a quantity from a cart line, or deletes the
// line when no positive quantity is given.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	lines, err := h.cart.RemoveItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CartResponse{
		Message: "Product quantity updated in cart",
		Cart:    mapCartLines(lines),
	})
}

// GetCart returns the cart denormalized with live catalog data.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	views, err := h.cart.GetCart(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCartView(views))
}

// AddFavorite records a product in the user's favorites (idempotent).
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.mutateFavorite(w, r, h.favorites.AddFavorite, "Product added to favorites successfully")
}

// RemoveFavorite drops a product from the user's favorites (idempotent).
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.mutateFavorite(w, r, h.favorites.RemoveFavorite, "Product removed from favorites successfully")
}

func (h *Handler) mutateFavorite(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, productID string) error, msg string) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if err := op(r.Context(), userID, req.ProductID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// ListFavorites returns the user's favorites denormalized with catalog
// data.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	views, err := h.favorites.ListFavorites(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapFavorites(views))
}

// PlaceOrder runs the checkout sequence and returns the persisted order,
// denormalized. A post-commit cart-clear failure is reported in the
// response without failing the checkout.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	lines := make([]domain.OrderLine, len(req.Products))
	for i, p := range req.Products {
		lines[i] = domain.OrderLine{ProductID: p.Product, Quantity: p.Quantity}
	}

	res, err := h.checkout.PlaceOrder(r.Context(), userID, lines, req.Address, req.TotalAmount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	view, err := h.orders.GetOrder(r.Context(), res.Order.ID)
	if err != nil {
		// The order is durable; losing the enrichment read should not
		// turn a successful checkout into an error.
		slog.ErrorContext(r.Context(), "order denormalization failed", "order_id", res.Order.ID, "error", err)
		view = rawOrderView(res.Order)
	}

	resp := PlaceOrderResponse{
		Message:     "Order placed successfully",
		Order:       mapOrderView(view),
		CartCleared: res.CartClearErr == nil,
	}
	if res.CartClearErr != nil {
		resp.Warning = "order was placed but the cart could not be cleared"
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListOrders returns the user's order history, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	views, err := h.orders.ListOrders(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orders := make([]OrderResponse, len(views))
	for i, v := range views {
		orders[i] = mapOrderView(v)
	}

	writeJSON(w, http.StatusOK, ListOrdersResponse{
		Orders:  orders,
		Count:   len(orders),
		Success: true,
	})
}

// Healthz is the liveness endpoint.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// rawOrderView builds a View from the domain order alone, with no catalog
// enrichment.
func rawOrderView(o domain.Order) order.View {
	lines := make([]order.LineView, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = order.LineView{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return order.View{
		ID:          o.ID,
		UserID:      o.UserID,
		Lines:       lines,
		Address:     o.Address,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case domain.KindInvalidArgument:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindUnavailable:
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, kind.String(), err.Error())
}
