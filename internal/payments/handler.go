package payments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/betterhealth/bh-platform/internal/booking"
	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/internal/notify"
	"github.com/betterhealth/bh-platform/internal/observability/metrics"
	"github.com/betterhealth/bh-platform/internal/providers"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler runs the payment step of the booking wizard: opening gateway
// orders and turning verified payments into confirmed bookings.
type Handler struct {
	gateway  Gateway
	verifier Verifier
	bookings *booking.Service
	notifier *notify.Service
	metrics  *metrics.PlatformMetrics
	validate *validator.Validate
	logger   *logging.Logger
	now      func() time.Time
}

// NewHandler creates the payments handler.
func NewHandler(
	gateway Gateway,
	verifier Verifier,
	bookings *booking.Service,
	notifier *notify.Service,
	m *metrics.PlatformMetrics,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		gateway:  gateway,
		verifier: verifier,
		bookings: bookings,
		notifier: notifier,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

type createOrderRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

// CreateOrder handles POST /api/v1/payments/orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Booking session is required")
		return
	}

	session, err := h.bookings.GetSession(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, booking.ErrSessionNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, "Booking session not found")
			return
		}
		h.logger.Error("load session failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load booking session")
		return
	}
	if session.Step < booking.StepPayment || session.UserID == "" {
		httpapi.WriteError(w, http.StatusConflict, "Complete the earlier steps first")
		return
	}

	order, err := h.gateway.CreateOrder(r.Context(), session.FinalPriceRupees, session.ID)
	if err != nil {
		h.logger.Error("create order failed", "error", err, "session_id", session.ID)
		httpapi.WriteError(w, http.StatusBadGateway, "Could not start payment")
		return
	}

	if _, err := h.bookings.AttachPaymentOrder(r.Context(), session.ID, order.ID); err != nil {
		h.logger.Error("attach order failed", "error", err, "session_id", session.ID)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not start payment")
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, order)
}

type verifyPaymentRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// VerifyPayment handles POST /api/v1/payments/verify. On a valid
// signature the booking is persisted and the patient is notified.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	started := h.now()

	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Order, payment and signature are required")
		return
	}

	session, err := h.bookings.GetSession(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, booking.ErrSessionNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, "Booking session not found")
			return
		}
		h.logger.Error("load session failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load booking session")
		return
	}
	if session.PaymentOrderID == "" || session.PaymentOrderID != req.OrderID {
		h.metrics.ObservePaymentVerify("order_mismatch", h.now().Sub(started).Seconds())
		httpapi.WriteError(w, http.StatusUnprocessableEntity, "Payment does not match this booking")
		return
	}

	if err := h.verifier.VerifySignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		h.metrics.ObservePaymentVerify("bad_signature", h.now().Sub(started).Seconds())
		h.logger.Warn("payment signature rejected", "order_id", req.OrderID, "session_id", session.ID)
		httpapi.WriteError(w, http.StatusUnprocessableEntity, "Payment verification failed")
		return
	}

	confirmed, err := h.bookings.Confirm(r.Context(), session.ID, req.PaymentID)
	if err != nil {
		h.metrics.ObservePaymentVerify("confirm_failed", h.now().Sub(started).Seconds())
		if errors.Is(err, providers.ErrSlotTaken) {
			httpapi.WriteError(w, http.StatusConflict, "This slot was just taken, please pick another")
			return
		}
		h.logger.Error("confirm booking failed", "error", err, "session_id", session.ID)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not confirm booking")
		return
	}

	h.metrics.ObservePaymentVerify("ok", h.now().Sub(started).Seconds())
	h.sendConfirmation(r, session, confirmed)

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"booking": confirmed})
}

func (h *Handler) sendConfirmation(r *http.Request, session *booking.Session, b *booking.Booking) {
	if h.notifier == nil {
		return
	}

	date, timeOfDay, providerName := "", "", ""
	if summary, err := h.bookings.Summarize(r.Context(), session.ID); err == nil {
		if summary.Slot != nil {
			date = summary.Slot.StartsAt.Format("02 Jan 2006")
			timeOfDay = summary.Slot.StartsAt.Format("3:04 PM")
		}
		if summary.Provider != nil {
			providerName = summary.Provider.Name
		}
	}

	if err := h.notifier.NotifyBookingConfirmed(r.Context(), notify.BookingConfirmation{
		PatientName:  session.Name,
		PatientPhone: session.Phone,
		ServiceType:  session.ServiceType,
		ProviderName: providerName,
		Date:         date,
		Time:         timeOfDay,
		AmountPaise:  b.AmountRupees * 100,
		PaymentID:    b.PaymentID,
	}); err != nil {
		h.logger.Warn("booking confirmation notification failed", "error", err, "booking_id", b.ID)
	}
}
