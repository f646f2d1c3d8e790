package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"stock-analyst-agent/internal/domain"
	apperrors "stock-analyst-agent/pkg/errors"
)

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError maps service errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeError(w, appErr.StatusCode, appErr.Message)
		return
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidStockCode),
		errors.Is(err, domain.ErrProviderUnknown):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrReportNotFound),
		errors.Is(err, domain.ErrQuotesUnavailable),
		errors.Is(err, domain.ErrCompanyUnavailable):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrProviderKeyMissing):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrMarketDataDisabled),
		errors.Is(err, domain.ErrRendererUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
