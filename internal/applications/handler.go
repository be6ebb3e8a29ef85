package applications

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler exposes application submission publicly and review actions to
// admins.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the applications handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Submit handles POST /api/v1/applications.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var app Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrs, err := h.service.Submit(r.Context(), &app)
	if err != nil {
		h.logger.Error("submit application failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not submit application")
		return
	}
	if len(fieldErrs) > 0 {
		httpapi.WriteValidationErrors(w, "Please review the highlighted fields", fieldErrs)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":     app.ID,
		"status": app.Status,
	})
}

// ListPending handles GET /admin/applications.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			httpapi.WriteError(w, http.StatusBadRequest, "Unknown status")
			return
		}
		h.logger.Error("list applications failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load applications")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"applications": list})
}

// Get handles GET /admin/applications/{applicationID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.service.Get(r.Context(), chi.URLParam(r, "applicationID"))
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, "Application not found")
			return
		}
		h.logger.Error("get application failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load application")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, app)
}

// Verify handles POST /admin/applications/{applicationID}/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	app, err := h.service.Verify(r.Context(), chi.URLParam(r, "applicationID"))
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, "Application not found")
			return
		}
		h.logger.Error("verify application failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not verify application")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, app)
}

// Reject handles POST /admin/applications/{applicationID}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	app, err := h.service.Reject(r.Context(), chi.URLParam(r, "applicationID"))
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, "Application not found")
			return
		}
		h.logger.Error("reject application failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not reject application")
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, app)
}
