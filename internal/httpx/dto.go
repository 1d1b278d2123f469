package httpx

import (
	"github.com/dheras/foodcourt/internal/catalog"
	"github.com/dheras/foodcourt/internal/cart"
	"github.com/dheras/foodcourt/internal/domain"
	"github.com/dheras/foodcourt/internal/favorites"
	"github.com/dheras/foodcourt/internal/order"
)

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type FavoriteRequest struct {
	ProductID string `json:"productId"`
}

type PlaceOrderRequest struct {
	Products    []OrderLineDTO `json:"products"`
	Address     string         `json:"address"`
	TotalAmount float64        `json:"totalAmount"`
}

type OrderLineDTO struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type ProductDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Img         string  `json:"img,omitempty"`
	Price       float64 `json:"price"`
}

// CartLineDTO is a raw cart line, returned by the mutation endpoints.
type CartLineDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartViewLineDTO is a denormalized cart line. Product is null when the
// catalog no longer resolves the reference.
type CartViewLineDTO struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Product   *ProductDTO `json:"product"`
}

type FavoriteViewDTO struct {
	ProductID string      `json:"productId"`
	Product   *ProductDTO `json:"product"`
}

type CartResponse struct {
	Message string        `json:"message"`
	Cart    []CartLineDTO `json:"cart"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type OrderResponse struct {
	ID          string            `json:"id"`
	Products    []CartViewLineDTO `json:"products"`
	Address     string            `json:"address"`
	TotalAmount float64           `json:"totalAmount"`
	Status      string            `json:"status"`
	CreatedAt   string            `json:"createdAt"`
}

type PlaceOrderResponse struct {
	Message     string        `json:"message"`
	Order       OrderResponse `json:"order"`
	CartCleared bool          `json:"cartCleared"`
	Warning     string        `json:"warning,omitempty"`
}

type ListOrdersResponse struct {
	Orders  []OrderResponse `json:"orders"`
	Count   int             `json:"count"`
	Success bool            `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapProduct(p *catalog.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Img:         p.Img,
		Price:       p.Price,
	}
}

func mapCartLines(lines []domain.CartLine) []CartLineDTO {
	out := make([]CartLineDTO, len(lines))
	for i, l := range lines {
		out[i] = CartLineDTO{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return out
}

func mapCartView(views []cart.LineView) []CartViewLineDTO {
	out := make([]CartViewLineDTO, len(views))
	for i, v := range views {
		out[i] = CartViewLineDTO{ProductID: v.ProductID, Quantity: v.Quantity, Product: mapProduct(v.Product)}
	}
	return out
}

func mapFavorites(views []favorites.ProductView) []FavoriteViewDTO {
	out := make([]FavoriteViewDTO, len(views))
	for i, v := range views {
		out[i] = FavoriteViewDTO{ProductID: v.ProductID, Product: mapProduct(v.Product)}
	}
	return out
}

func mapOrderView(v order.View) OrderResponse {
	products := make([]CartViewLineDTO, len(v.Lines))
	for i, l := range v.Lines {
		products[i] = CartViewLineDTO{ProductID: l.ProductID, Quantity: l.Quantity, Product: mapProduct(l.Product)}
	}
	return OrderResponse{
		ID:          v.ID,
		Products:    products,
		Address:     v.Address,
		TotalAmount: v.TotalAmount,
		Status:      string(v.Status),
		CreatedAt:   v.CreatedAt.UTC().Format(timeLayout),
	}
}
