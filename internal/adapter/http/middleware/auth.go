package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/splitemate/ledger/internal/domain"
	"github.com/splitemate/ledger/internal/infrastructure/auth"
)

// AuthMiddleware verifies the bearer token and attaches the acting
// user to the request context. Every usecase reads the actor from
// there; nothing downstream touches the Authorization header again.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			user := &domain.User{
				ID:       claims.UserID,
				Email:    claims.Email,
				Name:     claims.Name,
				IsActive: true,
			}

			next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), user)))
		})
	}
}

// HeaderAuth trusts an X-User-ID header. Used when AUTH_ENABLED is
// off, behind a gateway that terminates authentication.
func HeaderAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			http.Error(w, "missing X-User-ID header", http.StatusUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			http.Error(w, "invalid X-User-ID header", http.StatusUnauthorized)
			return
		}

		user := &domain.User{ID: userID, IsActive: true}

		next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), user)))
	})
}
