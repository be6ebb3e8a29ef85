package meetings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/betterhealth/bh-platform/internal/authctx"
	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler exposes meeting scheduling over HTTP. All routes sit behind
// the user JWT middleware.
type Handler struct {
	service  *Service
	validate *validator.Validate
	logger   *logging.Logger
}

// NewHandler creates the meetings handler.
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

// LookupParticipant handles GET /api/v1/meetings/participants?email=...
func (h *Handler) LookupParticipant(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := h.service.LookupParticipant(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, "No account found for this email")
			return
		}
		h.logger.Error("participant lookup failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not look up participant")
		return
	}

	// Keep the response minimal: the caller only needs enough to confirm
	// they picked the right person.
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

type scheduleRequest struct {
	ParticipantEmail string    `json:"participant_email" validate:"required,email"`
	Title            string    `json:"title" validate:"required,max=200"`
	Agenda           string    `json:"agenda" validate:"omitempty,max=2000"`
	ScheduledAt      time.Time `json:"scheduled_at" validate:"required"`
	DurationMins     int       `json:"duration_mins" validate:"required"`
}

// Schedule handles POST /api/v1/meetings.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	identity, ok := authctx.FromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, http.StatusUnauthorized, "Login required")
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Participant, title, time and duration are required")
		return
	}

	meeting, fieldErrs, err := h.service.Schedule(r.Context(), ScheduleRequest{
		OrganizerID:      identity.UserID,
		ParticipantEmail: req.ParticipantEmail,
		Title:            req.Title,
		Agenda:           req.Agenda,
		ScheduledAt:      req.ScheduledAt,
		DurationMins:     req.DurationMins,
	})
	if err != nil {
		h.logger.Error("schedule meeting failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not schedule meeting")
		return
	}
	if len(fieldErrs) > 0 {
		httpapi.WriteValidationErrors(w, "Please review the meeting details", fieldErrs)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, meeting)
}

// ListMine handles GET /api/v1/meetings.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := authctx.FromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, http.StatusUnauthorized, "Login required")
		return
	}

	list, err := h.service.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("list meetings failed", "error", err, "user_id", identity.UserID)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load meetings")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"meetings": list})
}

// Cancel handles DELETE /api/v1/meetings/{meetingID}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := authctx.FromContext(r.Context())
	if !ok {
		httpapi.WriteError(w, http.StatusUnauthorized, "Login required")
		return
	}

	err := h.service.Cancel(r.Context(), chi.URLParam(r, "meetingID"), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMeetingNotFound):
			httpapi.WriteError(w, http.StatusNotFound, "Meeting not found")
		case errors.Is(err, ErrNotOrganizer):
			httpapi.WriteError(w, http.StatusForbidden, "Only the organizer can cancel this meeting")
		default:
			h.logger.Error("cancel meeting failed", "error", err)
			httpapi.WriteError(w, http.StatusInternalServerError, "Could not cancel meeting")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
