package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dheras/foodcourt/internal/httpx/middlewares"
	"github.com/dheras/foodcourt/internal/identity"
)

// NewRouter builds the storefront route tree. Every /api/user route sits
// behind the identity middleware; the route shape matches the reference
// storefront clients already deployed.
func NewRouter(handler *Handler, provider identity.Provider) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)

	r.Route("/api/user", func(r chi.Router) {
		r.Use(middlewares.Authenticator(provider))

		r.Post("/cart", handler.AddCartItem)
		r.Get("/cart", handler.GetCart)
		r.Patch("/cart", handler.RemoveCartItem)

		r.Post("/favorite", handler.AddFavorite)
		r.Get("/favorite", handler.ListFavorites)
		r.Patch("/favorite", handler.RemoveFavorite)

		r.Post("/order", handler.PlaceOrder)
		r.Get("/order", handler.ListOrders)
	})

	return r
}
