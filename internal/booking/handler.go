package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/betterhealth/bh-platform/internal/authctx"
	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/internal/pricing"
	"github.com/betterhealth/bh-platform/internal/providers"
	"github.com/betterhealth/bh-platform/internal/questionnaire"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler exposes the booking wizard over HTTP.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *logging.Logger
}

// NewHandler creates the booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

type startSessionRequest struct {
	ServiceType string `json:"service_type" validate:"required"`
}

// StartSession handles POST /api/v1/bookings/sessions.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Service type is required")
		return
	}

	session, err := h.service.StartSession(r.Context(), req.ServiceType)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidServiceType) {
			httpapi.WriteError(w, http.StatusBadRequest, "Unknown service type")
			return
		}
		h.logger.Error("start session failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not start booking")
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /api/v1/bookings/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, session)
}

// Back handles POST /api/v1/bookings/sessions/{sessionID}/back.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Back(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		if errors.Is(err, ErrAlreadyConfirmed) {
			httpapi.WriteError(w, http.StatusConflict, "This booking is already confirmed")
			return
		}
		h.writeSessionError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, session)
}

type selectPlanRequest struct {
	PlanID     string `json:"plan_id" validate:"required"`
	CouponCode string `json:"coupon_code"`
}

// SelectPlan handles PUT /api/v1/bookings/sessions/{sessionID}/plan.
func (h *Handler) SelectPlan(w http.ResponseWriter, r *http.Request) {
	var req selectPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Plan is required")
		return
	}

	session, err := h.service.SelectPlan(r.Context(), chi.URLParam(r, "sessionID"), req.PlanID, req.CouponCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Booking session not found")
		case errors.Is(err, pricing.ErrPlanNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Plan not found")
		case errors.Is(err, pricing.ErrCouponNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Invalid coupon code")
		case errors.Is(err, pricing.ErrCouponInactive), errors.Is(err, pricing.ErrCouponNewUsersOnly):
			httpapi.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrAlreadyConfirmed):
			httpapi.WriteError(w, http.StatusConflict, "This booking is already confirmed")
		case errors.Is(err, ErrOrderOpen):
			httpapi.WriteError(w, http.StatusConflict, "A payment is in progress. Go back before changing your plan")
		default:
			h.logger.Error("select plan failed", "error", err)
			httpapi.WriteError(w, http.StatusInternalServerError, "Could not save plan selection")
		}
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, session)
}

type selectProviderRequest struct {
	ProviderID string `json:"provider_id" validate:"required"`
	SlotID     string `json:"slot_id" validate:"required"`
}

// SelectProvider handles PUT /api/v1/bookings/sessions/{sessionID}/provider.
func (h *Handler) SelectProvider(w http.ResponseWriter, r *http.Request) {
	var req selectProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Provider and slot are required")
		return
	}

	session, err := h.service.SelectProvider(r.Context(), chi.URLParam(r, "sessionID"), req.ProviderID, req.SlotID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Booking session not found")
		case errors.Is(err, ErrStepNotReady):
			httpapi.WriteError(w, http.StatusConflict, "Choose a plan first")
		case errors.Is(err, providers.ErrProviderNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Provider not found")
		case errors.Is(err, providers.ErrSlotNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Slot not found")
		case errors.Is(err, ErrSlotMismatch), errors.Is(err, ErrSlotUnavailable):
			httpapi.WriteError(w, http.StatusUnprocessableEntity, "This slot is no longer available")
		case errors.Is(err, ErrAlreadyConfirmed):
			httpapi.WriteError(w, http.StatusConflict, "This booking is already confirmed")
		case errors.Is(err, ErrOrderOpen):
			httpapi.WriteError(w, http.StatusConflict, "A payment is in progress. Go back before changing your provider")
		default:
			h.logger.Error("select provider failed", "error", err)
			httpapi.WriteError(w, http.StatusInternalServerError, "Could not save provider selection")
		}
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, session)
}

type contactRequest struct {
	Phone   string                 `json:"phone" validate:"required,len=10,numeric"`
	Name    string                 `json:"name" validate:"omitempty,max=120"`
	Email   string                 `json:"email" validate:"omitempty,email"`
	Answers []questionnaire.Answer `json:"answers"`
}

// SubmitContact handles PUT /api/v1/bookings/sessions/{sessionID}/contact.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "A valid 10-digit phone number is required")
		return
	}

	session, fieldErrs, err := h.service.SubmitContact(r.Context(), chi.URLParam(r, "sessionID"), ContactDetails{
		Phone:   req.Phone,
		Name:    req.Name,
		Email:   req.Email,
		Answers: req.Answers,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Booking session not found")
		case errors.Is(err, ErrStepNotReady):
			httpapi.WriteError(w, http.StatusConflict, "Complete the earlier steps first")
		case errors.Is(err, ErrPhoneNotVerified):
			httpapi.WriteError(w, http.StatusForbidden, "Verify your phone number to continue")
		case errors.Is(err, pricing.ErrCouponNewUsersOnly), errors.Is(err, pricing.ErrCouponInactive):
			httpapi.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("submit contact failed", "error", err)
			httpapi.WriteError(w, http.StatusInternalServerError, "Could not save your details")
		}
		return
	}
	if len(fieldErrs) > 0 {
		httpapi.WriteValidationErrors(w, "Please review your answers", fieldErrs)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, session)
}

// GetSummary handles GET /api/v1/bookings/sessions/{sessionID}/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summarize(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, summary)
}

// ListMyBookings handles GET /api/v1/bookings for the logged-in patient.
func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	identity, ok := authctx.FromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, http.StatusUnauthorized, "Login required")
		return
	}

	list, err := h.service.ListUserBookings(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("list bookings failed", "error", err, "user_id", identity.UserID)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load bookings")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"bookings": list})
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrSessionNotFound) {
		httpapi.WriteError(w, http.StatusNotFound, "Booking session not found")
		return
	}
	h.logger.Error("session lookup failed", "error", err)
	httpapi.WriteError(w, http.StatusInternalServerError, "Could not load booking session")
}
