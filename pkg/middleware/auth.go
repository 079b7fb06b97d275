package middleware

import (
	"context"
	"net/http"

	jwtutil "github.com/ThinhDang464/Tomchat/pkg/jwt"
	"github.com/ThinhDang464/Tomchat/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthCookieName is the session cookie set at signup/login and cleared at
// logout.
const AuthCookieName = "jwt"

// AuthMiddleware resolves the jwt cookie to claims and stores them in the
// request context. Requests without a valid cookie are rejected with 401
// before any handler runs.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				logger.Log.Warn("Unauthorized request: no token provided")
				http.Error(w, "Unauthorized - no token provided", http.StatusUnauthorized)
				return
			}

			claims, err := jwtutil.ValidateToken(cookie.Value, secret)
			if err != nil {
				logger.Log.Warnf("Unauthorized request: %v", err)
				http.Error(w, "Unauthorized - invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the claims stored by AuthMiddleware, or nil if
// the request was not authenticated.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(userContextKey).(*jwtutil.Claims)
	return claims
}
