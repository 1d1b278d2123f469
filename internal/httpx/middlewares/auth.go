// Package middlewares holds the HTTP middleware for the storefront
// router.
package middlewares

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dheras/foodcourt/internal/domain"
	"github.com/dheras/foodcourt/internal/identity"
)

// ctxKey is unexported so no other package can collide with our context
// values.
type ctxKey string

const userIDKey ctxKey = "user_id"

// UserID extracts the authenticated user id stashed by Authenticator.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Exported for
// handler tests that bypass the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Authenticator resolves the bearer token through the identity provider
// and attaches the user id to the request context. Requests without a
// valid token get 401.
func Authenticator(provider identity.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := provider.Resolve(r.Context(), token)
			if err != nil {
				if domain.IsNotFound(err) {
					unauthorized(w, "invalid or expired token")
					return
				}
				slog.ErrorContext(r.Context(), "identity resolution failed", "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "unavailable",
					"message": "identity provider unavailable",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": msg,
	})
}
