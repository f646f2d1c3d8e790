package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"stock-analyst-agent/internal/domain"
	"stock-analyst-agent/internal/service"
)

// ReportHandler handles cached-report and PDF export HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	exportService domain.ExportService
	logger        domain.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, exportService domain.ExportService, logger domain.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
		logger:        logger,
	}
}

// ListReports handles listing cached reports, optionally filtered by ts_code
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	tsCode := r.URL.Query().Get("ts_code")

	reports, err := h.reportService.List(tsCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Ensure JSON is [] not null when there are no reports.
	if reports == nil {
		reports = make([]*domain.ReportFile, 0)
	}
	writeJSON(w, http.StatusOK, reports)
}

// GetReport handles loading one cached report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Report ID is required")
		return
	}

	report, err := h.reportService.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DeleteReport handles deleting one cached report
func (h *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Report ID is required")
		return
	}

	if err := h.reportService.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Report deleted successfully"})
}

// ClearReports handles deleting every cached report
func (h *ReportHandler) ClearReports(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.reportService.Clear()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// ExportReport handles rendering a cached report to PDF
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Report ID is required")
		return
	}

	result, err := h.exportService.ExportReport(r.Context(), id)
	if err != nil {
		h.logger.Error("PDF export failed", err, "report_id", id)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListExports handles listing generated PDF files
func (h *ReportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.exportService.ListExports()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if exports == nil {
		exports = make([]*domain.ExportedPDF, 0)
	}
	writeJSON(w, http.StatusOK, exports)
}
