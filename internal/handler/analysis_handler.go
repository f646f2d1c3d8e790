// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"

	"stock-analyst-agent/internal/domain"
)

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	analystService domain.AnalystService
	logger         domain.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analystService domain.AnalystService, logger domain.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analystService: analystService,
		logger:         logger,
	}
}

// AnalyzeStock handles running a full stock analysis
func (h *AnalysisHandler) AnalyzeStock(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TSCode == "" {
		writeError(w, http.StatusBadRequest, "ts_code is required")
		return
	}
	if !domain.ValidTSCode(req.TSCode) {
		writeError(w, http.StatusBadRequest, "ts_code must look like 600519.SH or 000001.SZ")
		return
	}

	result, err := h.analystService.AnalyzeStock(r.Context(), req)
	if err != nil {
		h.logger.Error("Stock analysis failed", err, "ts_code", req.TSCode)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
