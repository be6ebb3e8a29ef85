package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/betterhealth/bh-platform/internal/authctx"
	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler exposes the OTP login endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *logging.Logger
}

// NewHandler creates the auth handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required,len=10,numeric"`
}

type sendOTPResponse struct {
	Message         string `json:"message"`
	ResendAfterSecs int    `json:"resend_after_secs"`
}

// SendOTP handles POST /api/v1/auth/otp/send.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, ErrInvalidPhone.Error())
		return
	}

	cooldown, err := h.service.SendOTP(r.Context(), req.Phone)
	switch {
	case errors.Is(err, ErrInvalidPhone):
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrResendCooldown):
		httpapi.WriteJSON(w, http.StatusTooManyRequests, sendOTPResponse{
			Message:         err.Error(),
			ResendAfterSecs: int(cooldown.Seconds()),
		})
		return
	case err != nil:
		h.logger.Error("otp send failed", "error", err)
		httpapi.WriteError(w, http.StatusBadGateway, "could not send verification code")
		return
	}

	httpapi.WriteJSON(w, http.StatusAccepted, sendOTPResponse{
		Message:         "verification code sent",
		ResendAfterSecs: int(cooldown.Seconds()),
	})
}

type verifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,len=10,numeric"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type verifyOTPResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// VerifyOTP handles POST /api/v1/auth/otp/verify.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "phone must be 10 digits and code 6 digits")
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.Phone, req.Code)
	switch {
	case errors.Is(err, ErrInvalidPhone) || errors.Is(err, ErrInvalidCode):
		httpapi.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrCodeExpired) || errors.Is(err, ErrCodeMismatch):
		httpapi.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		h.logger.Error("otp verify failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "could not verify code")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, verifyOTPResponse{Token: result.Token, User: result.User})
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := authctx.FromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := h.service.CurrentUser(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error("current user lookup failed", "error", err, "user_id", id.UserID)
		httpapi.WriteError(w, http.StatusNotFound, "account not found")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}
