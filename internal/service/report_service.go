package service

import (
	"stock-analyst-agent/internal/domain"
)

// ReportService exposes the cached-report operations the handlers need.
type ReportService struct {
	store  domain.ReportStore
	logger domain.Logger
}

// NewReportService creates a new report service instance
func NewReportService(store domain.ReportStore, logger domain.Logger) *ReportService {
	return &ReportService{
		store:  store,
		logger: logger,
	}
}

// List returns cached reports newest first, optionally filtered by stock.
func (s *ReportService) List(tsCode string) ([]*domain.ReportFile, error) {
	if tsCode != "" && !domain.ValidTSCode(tsCode) {
		return nil, domain.ErrInvalidStockCode
	}
	return s.store.List(tsCode)
}

// Get loads one report by ID.
func (s *ReportService) Get(id string) (*domain.Report, error) {
	return s.store.Load(id)
}

// Delete removes one report by ID.
func (s *ReportService) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("Report deleted", "report_id", id)
	return nil
}

// Clear removes every cached report and returns how many were deleted.
func (s *ReportService) Clear() (int, error) {
	n, err := s.store.DeleteAll()
	if err != nil {
		return 0, err
	}
	s.logger.Info("Report cache cleared", "deleted", n)
	return n, nil
}
