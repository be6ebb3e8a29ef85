package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, h http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestSendOTPHandler_Validation(t *testing.T) {
	svc, _, _ := setupService(t)
	handler := NewHandler(svc, nil)

	tests := []struct {
		name  string
		phone string
	}{
		{"empty", ""},
		{"short", "12345"},
		{"long", "98765432101"},
		{"letters", "98765abc10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.SendOTP, "/api/v1/auth/otp/send", map[string]string{"phone": tt.phone})
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSendOTPHandler_SuccessAndCooldown(t *testing.T) {
	svc, _, _ := setupService(t)
	handler := NewHandler(svc, nil)

	w := postJSON(t, handler.SendOTP, "/api/v1/auth/otp/send", map[string]string{"phone": "9876543210"})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.EqualValues(t, 60, resp["resend_after_secs"])

	w = postJSON(t, handler.SendOTP, "/api/v1/auth/otp/send", map[string]string{"phone": "9876543210"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestVerifyOTPHandler_Flow(t *testing.T) {
	svc, _, sms := setupService(t)
	handler := NewHandler(svc, nil)

	w := postJSON(t, handler.SendOTP, "/api/v1/auth/otp/send", map[string]string{"phone": "9876543210"})
	require.Equal(t, http.StatusAccepted, w.Code)
	code := extractCode(t, sms.sent[0].body)

	// Wrong code is a 401 and leaves retry open.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	w = postJSON(t, handler.VerifyOTP, "/api/v1/auth/otp/verify", map[string]string{"phone": "9876543210", "code": wrong})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, handler.VerifyOTP, "/api/v1/auth/otp/verify", map[string]string{"phone": "9876543210", "code": code})
	require.Equal(t, http.StatusOK, w.Code)

	var resp verifyOTPResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
}

func TestVerifyOTPHandler_BadCodeLength(t *testing.T) {
	svc, _, _ := setupService(t)
	handler := NewHandler(svc, nil)

	w := postJSON(t, handler.VerifyOTP, "/api/v1/auth/otp/verify", map[string]string{"phone": "9876543210", "code": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
