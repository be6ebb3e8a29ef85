package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/betterhealth/bh-platform/internal/authctx"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, userID, role string, expiry time.Duration) string {
	t.Helper()
	claims := authctx.SessionClaims{
		Phone: "9876543210",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func identityEcho(t *testing.T, got *authctx.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := authctx.FromContext(r.Context()); ok {
			*got = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestUserJWT_ValidToken(t *testing.T) {
	var got authctx.Identity
	h := UserJWT(testSecret)(identityEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "user-1", authctx.RolePatient, time.Hour))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got.UserID != "user-1" || got.Role != authctx.RolePatient {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestUserJWT_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + mintToken(t, "other-secret", "user-1", authctx.RolePatient, time.Hour), http.StatusUnauthorized},
		{"expired token", "Bearer " + mintToken(t, testSecret, "user-1", authctx.RolePatient, -time.Hour), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got authctx.Identity
			h := UserJWT(testSecret)(identityEcho(t, &got))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestAdminJWT_RoleEnforced(t *testing.T) {
	var got authctx.Identity
	h := AdminJWT(testSecret)(identityEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "user-1", authctx.RolePatient, time.Hour))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "admin-1", authctx.RoleAdmin, time.Hour))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
	if got.UserID != "admin-1" {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestOptionalUserJWT(t *testing.T) {
	var got authctx.Identity
	h := OptionalUserJWT(testSecret)(identityEcho(t, &got))

	// Anonymous request passes through without identity.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous, got %d", w.Code)
	}
	if got.UserID != "" {
		t.Fatalf("expected no identity, got %+v", got)
	}

	// Valid token threads identity.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "user-2", authctx.RolePatient, time.Hour))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got.UserID != "user-2" {
		t.Fatalf("expected identity for valid token, got %+v", got)
	}
}
