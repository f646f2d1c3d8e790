package domain

import (
	"context"
	"time"
)

// ExportResult points at a generated PDF.
type ExportResult struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// ExportedPDF is one generated report PDF as listed from disk.
type ExportedPDF struct {
	Filename   string    `json:"filename"`
	TSCode     string    `json:"ts_code,omitempty"`
	Size       int64     `json:"file_size"`
	ModifiedAt time.Time `json:"modified_time"`
	PageCount  int       `json:"page_count,omitempty"`
}

// ExportService turns cached reports into PDF files.
type ExportService interface {
	// CheckRenderer verifies the wkhtmltopdf binary is reachable.
	CheckRenderer() error
	// EnsureFonts makes sure the CJK fonts are present, downloading
	// them on first use.
	EnsureFonts(ctx context.Context) error
	// ExportReport renders a cached report to PDF.
	ExportReport(ctx context.Context, reportID string) (*ExportResult, error)
	// ListExports lists generated PDFs newest first.
	ListExports() ([]*ExportedPDF, error)
}
