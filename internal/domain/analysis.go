package domain

import (
	"context"
	"regexp"
)

// tsCodePattern matches A-share codes like 000001.SZ or 600519.SH.
var tsCodePattern = regexp.MustCompile(`^\d{6}\.(SH|SZ)$`)

// ValidTSCode reports whether s is a well-formed A-share stock code.
func ValidTSCode(s string) bool {
	return tsCodePattern.MatchString(s)
}

// AnalysisRequest asks for an AI analysis of one stock.
type AnalysisRequest struct {
	TSCode   string `json:"ts_code"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// AnalysisResult is a finished analysis: the generated report plus where
// it was cached.
type AnalysisResult struct {
	TSCode   string          `json:"ts_code"`
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Content  string          `json:"content"`
	ReportID string          `json:"report_id"`
	Metadata *ReportMetadata `json:"metadata"`
}

// AnalystService coordinates data loading, LLM analysis and caching.
type AnalystService interface {
	AnalyzeStock(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}
