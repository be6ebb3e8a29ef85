package pricing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler serves plan listings and coupon validation over HTTP.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *logging.Logger
}

// NewHandler creates the pricing handler.
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

// ListPlans handles GET /api/v1/pricing/plans?service_type=...
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	serviceType := strings.TrimSpace(r.URL.Query().Get("service_type"))
	if serviceType == "" {
		serviceType = ServiceCosmetology
	}

	plans, err := h.service.ListPlans(r.Context(), serviceType)
	if err != nil {
		if errors.Is(err, ErrInvalidServiceType) {
			httpapi.WriteError(w, http.StatusBadRequest, "Unknown service type")
			return
		}
		h.logger.Error("list plans failed", "error", err, "service_type", serviceType)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load plans")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

type validateCouponRequest struct {
	Code        string `json:"code" validate:"required,min=3,max=32"`
	ServiceType string `json:"service_type" validate:"required"`
}

// ValidateCoupon handles POST /api/v1/pricing/coupons/validate.
// Identity is optional: anonymous callers can preview a discount, but
// new-user-only coupons are enforced once the caller is known.
func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Coupon code and service type are required")
		return
	}

	coupon, plans, err := h.service.ValidateCoupon(r.Context(), req.Code, req.ServiceType)
	if err != nil {
		switch {
		case errors.Is(err, ErrCouponNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Invalid coupon code")
		case errors.Is(err, ErrCouponInactive):
			httpapi.WriteError(w, http.StatusUnprocessableEntity, "This coupon is no longer valid")
		case errors.Is(err, ErrCouponNewUsersOnly):
			httpapi.WriteError(w, http.StatusUnprocessableEntity, "This coupon is valid for new users only")
		case errors.Is(err, ErrInvalidServiceType):
			httpapi.WriteError(w, http.StatusBadRequest, "Unknown service type")
		default:
			h.logger.Error("coupon validation failed", "error", err, "code", req.Code)
			httpapi.WriteError(w, http.StatusInternalServerError, "Could not validate coupon")
		}
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"coupon": coupon,
		"plans":  plans,
	})
}
