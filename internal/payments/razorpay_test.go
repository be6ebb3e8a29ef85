package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterhealth/bh-platform/pkg/logging"
)

func TestRazorpayCreateOrder(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		raw, _ := json.Marshal(req)
		gotBody = string(raw)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_abc",
			"amount":   req["amount"],
			"currency": "INR",
		})
	}))
	defer srv.Close()

	g := NewRazorpayGateway("key_id", "key_secret", "INR", logging.New("error")).WithBaseURL(srv.URL)

	order, err := g.CreateOrder(context.Background(), 650, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(65000), order.AmountPaise)
	assert.Equal(t, "key_id", order.Key)
	assert.NotEmpty(t, gotAuth)
	assert.Contains(t, gotBody, `"amount":65000`)
	assert.Contains(t, gotBody, `"receipt":"session-1"`)
}

func TestRazorpayCreateOrderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"amount too small"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewRazorpayGateway("key_id", "key_secret", "INR", logging.New("error")).WithBaseURL(srv.URL)

	_, err := g.CreateOrder(context.Background(), 0, "session-1")
	assert.ErrorIs(t, err, ErrOrderFailed)
}

func TestRazorpayCreateOrderNoCredentials(t *testing.T) {
	g := NewRazorpayGateway("", "", "INR", logging.New("error"))
	_, err := g.CreateOrder(context.Background(), 650, "session-1")
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("key_secret"))
	mac.Write([]byte("order_abc|pay_xyz"))
	signature := hex.EncodeToString(mac.Sum(nil))

	g := NewRazorpayGateway("key_id", "key_secret", "INR", logging.New("error"))

	assert.NoError(t, g.VerifySignature("order_abc", "pay_xyz", signature))
	assert.ErrorIs(t, g.VerifySignature("order_abc", "pay_other", signature), ErrBadSignature)
	assert.ErrorIs(t, g.VerifySignature("order_abc", "pay_xyz", "deadbeef"), ErrBadSignature)
}

func TestFakeGatewayRoundTrip(t *testing.T) {
	g := NewFakeGateway("demo-secret", logging.New("error"))

	order, err := g.CreateOrder(context.Background(), 650, "session-1")
	require.NoError(t, err)
	assert.Equal(t, int64(65000), order.AmountPaise)

	sig := g.Sign(order.ID, "pay_demo")
	assert.NoError(t, g.VerifySignature(order.ID, "pay_demo", sig))
	assert.ErrorIs(t, g.VerifySignature(order.ID, "pay_other", sig), ErrBadSignature)
}
