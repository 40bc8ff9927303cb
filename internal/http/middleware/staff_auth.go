package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atelierbeauty/salon-platform/internal/identity"
)

// StaffClaims are the JWT claims carried by staff tokens.
type StaffClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// StaffJWT enforces a simple HMAC-signed JWT for staff endpoints and places
// the authenticated actor in the request context.
func StaffJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "staff auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := StaffClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			role := identity.Role(claims.Role)
			if role == "" {
				role = identity.RoleStaff
			}
			ctx := identity.WithActor(r.Context(), identity.Actor{
				Subject: claims.Subject,
				Role:    role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
