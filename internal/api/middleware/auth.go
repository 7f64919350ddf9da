// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/api/response"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/service"
)

type contextKey string

// userContextKey is the request context key the authenticated user is stored under.
const userContextKey contextKey = "authenticatedUser"

// Auth returns a middleware that requires a valid bearer token on every
// request. The authenticated user is placed in the request context; handlers
// retrieve it with UserFromContext. Missing or invalid tokens are rejected
// with 401 before the handler runs.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", "missing bearer token")
				return
			}

			user, err := authService.VerifyToken(r.Context(), token)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user stored by Auth.
// The second return value is false when the request was not authenticated.
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}

// ContextWithUser stores an authenticated user in a context. Exposed for
// handler tests that bypass the middleware.
func ContextWithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
