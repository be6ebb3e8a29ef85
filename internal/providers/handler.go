package providers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/internal/pricing"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler serves the provider directory over HTTP.
type Handler struct {
	repo   Repository
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates the providers handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger, now: time.Now}
}

// ListProviders handles GET /api/v1/providers?service_type=...
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	serviceType := strings.TrimSpace(r.URL.Query().Get("service_type"))
	if !pricing.ValidServiceType(serviceType) {
		httpapi.WriteError(w, http.StatusBadRequest, "Unknown service type")
		return
	}

	list, err := h.repo.ListProviders(r.Context(), serviceType)
	if err != nil {
		h.logger.Error("list providers failed", "error", err, "service_type", serviceType)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load providers")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"providers": list})
}

// GetProvider handles GET /api/v1/providers/{providerID}.
func (h *Handler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "providerID")

	provider, err := h.repo.GetProvider(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, "Provider not found")
			return
		}
		h.logger.Error("get provider failed", "error", err, "provider_id", id)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load provider")
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, provider)
}

// ListSlots handles GET /api/v1/providers/{providerID}/slots.
// Only open slots from now on are returned.
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "providerID")

	if _, err := h.repo.GetProvider(r.Context(), id); err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			httpapi.WriteError(w, http.StatusNotFound, "Provider not found")
			return
		}
		h.logger.Error("get provider failed", "error", err, "provider_id", id)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load provider")
		return
	}

	slots, err := h.repo.ListSlots(r.Context(), id, h.now())
	if err != nil {
		h.logger.Error("list slots failed", "error", err, "provider_id", id)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not load availability")
		return
	}

	// Optional ?date=YYYY-MM-DD narrows availability to one day for the
	// wizard's date picker.
	if day := strings.TrimSpace(r.URL.Query().Get("date")); day != "" {
		want, err := time.ParseInLocation("2006-01-02", day, time.Local)
		if err != nil {
			httpapi.WriteError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		filtered := slots[:0]
		for _, s := range slots {
			if y, m, d := s.StartsAt.Local().Date(); y == want.Year() && m == want.Month() && d == want.Day() {
				filtered = append(filtered, s)
			}
		}
		slots = filtered
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"slots": slots})
}
