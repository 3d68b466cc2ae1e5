package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/brightfield-labs/vectordb/internal/apierr"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Nothing more to do: the status line and headers are already sent.
		_ = err
	}
}

// writeDetail writes the wire contract's uniform error body, {"detail": msg}.
func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

// writeError maps a service-layer error to a status code and writes it.
// *apierr.Error carries its own category; anything else is an unexpected
// internal failure.
func writeError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*apierr.Error)
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch apiErr.Category {
	case apierr.CategoryNotFound:
		writeDetail(w, http.StatusNotFound, apiErr.Message)
	case apierr.CategoryIndexNotReady:
		writeDetail(w, http.StatusConflict, apiErr.Message)
	case apierr.CategoryDimensionMismatch:
		writeDetail(w, http.StatusBadRequest, apiErr.Message)
	case apierr.CategoryConfigInvalid:
		writeDetail(w, http.StatusBadRequest, apiErr.Message)
	case apierr.CategoryValidation:
		writeDetail(w, http.StatusUnprocessableEntity, apiErr.Message)
	default:
		writeDetail(w, http.StatusInternalServerError, apiErr.Message)
	}
}
