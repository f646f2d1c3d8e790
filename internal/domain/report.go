package domain

import "time"

// ReportMetadata describes a cached analysis report.
type ReportMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	TSCode    string    `json:"ts_code"`
	Provider  string    `json:"llm_provider"`
	Model     string    `json:"llm_model"`
	FileDate  string    `json:"file_date"`
	FileTime  string    `json:"file_time"`
}

// ReportFile is a cached report as listed from the store.
type ReportFile struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	TSCode       string    `json:"ts_code"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	ProviderInfo string    `json:"llm_info"`
	Size         int64     `json:"file_size"`
	ModifiedAt   time.Time `json:"modified_time"`
	DisplayName  string    `json:"display_name"`
}

// Report is a loaded report: markdown content plus its metadata.
type Report struct {
	ID       string          `json:"id"`
	Content  string          `json:"content"`
	Metadata *ReportMetadata `json:"metadata"`
}

// ReportStore persists analysis reports.
type ReportStore interface {
	// Save writes a new report and returns its metadata and ID.
	Save(tsCode, content, provider, model string) (*ReportMetadata, string, error)
	// List returns reports newest first. Empty tsCode lists everything.
	List(tsCode string) ([]*ReportFile, error)
	// Load reads a report by ID.
	Load(id string) (*Report, error)
	// Delete removes one report by ID.
	Delete(id string) error
	// DeleteAll removes every cached report and returns the count removed.
	DeleteAll() (int, error)
	// Latest returns the most recent report file, optionally for one stock.
	Latest(tsCode string) (*ReportFile, error)
}
