package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mcextract/mcextract/internal/model"
	"github.com/mcextract/mcextract/internal/service"
)

// ExtractHandler serves the object-collection extraction endpoints.
type ExtractHandler struct {
	extractor *service.Extractor
	logger    *slog.Logger
}

// NewExtractHandler creates an ExtractHandler.
func NewExtractHandler(extractor *service.Extractor, logger *slog.Logger) *ExtractHandler {
	return &ExtractHandler{
		extractor: extractor,
		logger:    logger.With("component", "handler.extract"),
	}
}

// Extract fetches one object collection and returns it as JSON.
// GET /api/extract/{type}?accessToken=&subdomain=
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	objectType := chi.URLParam(r, "type")

	q := r.URL.Query()
	token := model.Token{
		AccessToken: q.Get("accessToken"),
		Subdomain:   q.Get("subdomain"),
	}
	if token.AccessToken == "" || token.Subdomain == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields", "accessToken and subdomain query parameters are required")
		return
	}

	result, err := h.extractor.Extract(r.Context(), token, objectType)
	if err != nil {
		if errors.Is(err, service.ErrUnknownType) {
			writeError(w, http.StatusBadRequest, "Invalid data type", objectType)
			return
		}
		writeError(w, http.StatusInternalServerError, "Data extraction failed for "+objectType, errorDetails(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
