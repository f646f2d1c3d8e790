package domain

import "errors"

// Domain errors
var (
	ErrInvalidStockCode    = errors.New("invalid stock code")
	ErrQuotesUnavailable   = errors.New("daily quotes unavailable")
	ErrCompanyUnavailable  = errors.New("company info unavailable")
	ErrReportNotFound      = errors.New("report not found")
	ErrProviderUnknown     = errors.New("unknown llm provider")
	ErrProviderKeyMissing  = errors.New("llm provider api key not configured")
	ErrMarketDataDisabled  = errors.New("tushare token not configured")
	ErrRendererUnavailable = errors.New("wkhtmltopdf not found")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
