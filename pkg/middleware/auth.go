// Package middleware provides the HTTP middleware stack: authentication,
// role authorization, file upload buffering, CORS, logging, and recovery.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/rechargehub/pkg/auth"
	"github.com/shashiranjanraj/rechargehub/pkg/response"
)

// claimsKey is the unexported context key holding the authenticated identity.
type claimsKey struct{}

// ClaimsFromCtx returns the identity attached by Authenticate, or nil.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}

// WithClaims stores an identity in ctx. Exposed for handler tests.
func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// Authenticate verifies the bearer token and attaches the decoded identity
// to the request context. Requests without a valid token get a 401.
func Authenticate(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				response.Unauthorized(w, "Missing bearer token")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				response.Unauthorized(w, "Missing bearer token")
				return
			}

			claims, err := tm.Validate(token)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRoles rejects with 403 when the authenticated role is not in the
// allow-list. Must run after Authenticate.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromCtx(r.Context())
			if claims == nil {
				response.Unauthorized(w, "Missing bearer token")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				response.Forbidden(w, "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
