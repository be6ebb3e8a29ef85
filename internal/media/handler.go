package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/internal/observability/metrics"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Handler accepts multipart document uploads, hosts them, and archives a
// compliance copy.
type Handler struct {
	uploader Uploader
	archiver *Archiver
	maxBytes int64
	timeout  time.Duration
	metrics  *metrics.PlatformMetrics
	logger   *logging.Logger
}

// NewHandler creates the media handler. maxBytes caps individual files;
// timeout bounds the host round trip.
func NewHandler(uploader Uploader, archiver *Archiver, maxBytes int64, timeout time.Duration, m *metrics.PlatformMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{
		uploader: uploader,
		archiver: archiver,
		maxBytes: maxBytes,
		timeout:  timeout,
		metrics:  m,
		logger:   logger,
	}
}

// Upload handles POST /api/v1/media/uploads. The form carries one file
// under "file" and an optional "folder" hint.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+4096)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.metrics.ObserveUpload("too_large")
		httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10MB limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes))
	if err != nil {
		h.logger.Error("read upload failed", "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "Could not read upload")
		return
	}

	contentType, err := CheckUpload(header.Size, h.maxBytes, data)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			h.metrics.ObserveUpload("too_large")
			httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10MB limit")
		case errors.Is(err, ErrUnsupportedType):
			h.metrics.ObserveUpload("bad_type")
			httpapi.WriteError(w, http.StatusUnsupportedMediaType, "Only JPEG, PNG, WebP and PDF files are accepted")
		default:
			h.logger.Error("upload check failed", "error", err)
			httpapi.WriteError(w, http.StatusInternalServerError, "Could not read upload")
		}
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "documents"
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.uploader.Upload(ctx, bytes.NewReader(data), header.Filename, folder)
	if err != nil {
		h.metrics.ObserveUpload("failed")
		h.logger.Error("upload failed", "error", err, "filename", header.Filename)
		httpapi.WriteError(w, http.StatusBadGateway, "Upload failed, please try again")
		return
	}

	if h.archiver.Enabled() {
		// Best effort: archival never blocks the response.
		go func(publicID, ct string, payload []byte) {
			ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
			defer cancel()
			if err := h.archiver.ArchiveDocument(ctx, publicID, ct, payload); err != nil {
				h.logger.Warn("document archive failed", "error", err, "public_id", publicID)
			}
		}(result.PublicID, contentType, data)
	}

	h.metrics.ObserveUpload("ok")
	httpapi.WriteJSON(w, http.StatusCreated, result)
}
