package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/betterhealth/bh-platform/internal/authctx"
)

// UserJWT enforces an HMAC-signed session token and threads the caller
// identity through the request context.
func UserJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := parseBearer(w, r, secret)
			if !ok {
				return
			}
			ctx := authctx.WithIdentity(r.Context(), authctx.Identity{
				UserID: claims.Subject,
				Phone:  claims.Phone,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminJWT enforces a session token carrying the admin role.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := parseBearer(w, r, secret)
			if !ok {
				return
			}
			if claims.Role != authctx.RoleAdmin {
				http.Error(w, "admin access required", http.StatusForbidden)
				return
			}
			ctx := authctx.WithIdentity(r.Context(), authctx.Identity{
				UserID: claims.Subject,
				Phone:  claims.Phone,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalUserJWT threads identity through when a valid token is present but
// lets anonymous requests pass. Coupon validation uses this: restricted
// coupons need the caller identity once known, unauthenticated pricing
// lookups still work.
func OptionalUserJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if secret == "" || !strings.HasPrefix(auth, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			claims := authctx.SessionClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, keyFunc(secret))
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}
			ctx := authctx.WithIdentity(r.Context(), authctx.Identity{
				UserID: claims.Subject,
				Phone:  claims.Phone,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseBearer(w http.ResponseWriter, r *http.Request, secret string) (authctx.SessionClaims, bool) {
	claims := authctx.SessionClaims{}
	if secret == "" {
		http.Error(w, "authentication disabled", http.StatusUnauthorized)
		return claims, false
	}
	auth := r.Header.Get("Authorization")
	if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
		http.Error(w, "missing authorization header", http.StatusUnauthorized)
		return claims, false
	}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, keyFunc(secret))
	if err != nil || !token.Valid {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return claims, false
	}
	return claims, true
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}
}
