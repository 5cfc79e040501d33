package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/oms-labs/order-svc/internal/tokens"
)

// tokenParser verifies a bearer credential and extracts its claims.
type tokenParser interface {
	Parse(raw string) (tokens.Claims, error)
}

type userIDKey struct{}

// NewAuthMiddleware rejects requests without a valid bearer token and puts
// the caller's user id into the request context.
func NewAuthMiddleware(parser tokenParser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)

				return
			}

			claims, err := parser.Parse(raw)
			if err != nil {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)

				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated caller's user id, if any.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)

	return id, ok
}
