package questionnaire

import (
	"net/http"
	"strings"

	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/internal/pricing"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler serves the intake question set over HTTP.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates the questionnaire handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListQuestions handles GET /api/v1/questionnaire?service_type=...
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	serviceType := strings.TrimSpace(r.URL.Query().Get("service_type"))
	if !pricing.ValidServiceType(serviceType) {
		httpapi.WriteError(w, http.StatusBadRequest, "Unknown service type")
		return
	}

	questions, err := h.repo.ListQuestions(r.Context(), serviceType)
	if err != nil {
		h.logger.Error("list questions failed", "error", err, "service_type", serviceType)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load questions")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"questions": questions})
}
