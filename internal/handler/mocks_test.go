package handler

import (
	"context"
	"time"

	"stock-analyst-agent/internal/domain"
)

// MockAnalystService implements domain.AnalystService for handler tests.
type MockAnalystService struct {
	LastRequest domain.AnalysisRequest
	Result      *domain.AnalysisResult
	Err         error
}

func (m *MockAnalystService) AnalyzeStock(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	m.LastRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// MockRegistry implements domain.LLMRegistry for handler tests.
type MockRegistry struct {
	Catalog []domain.ProviderSpec
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		Catalog: []domain.ProviderSpec{
			{Name: "Gemini", Models: []string{"gemini-2.5-pro"}, DefaultModel: "gemini-2.5-pro"},
			{Name: "OpenAI", Models: []string{"gpt-4o"}, DefaultModel: "gpt-4o"},
		},
	}
}

func (m *MockRegistry) Providers() []domain.ProviderSpec {
	return m.Catalog
}

func (m *MockRegistry) DefaultProvider() domain.ProviderSpec {
	return m.Catalog[0]
}

func (m *MockRegistry) Client(provider string) (domain.LLMClient, error) {
	return nil, domain.ErrProviderUnknown
}

func (m *MockRegistry) Resolve(provider, model string) (string, string, error) {
	if provider == "" {
		return m.Catalog[0].Name, m.Catalog[0].DefaultModel, nil
	}
	for _, p := range m.Catalog {
		if p.Name == provider {
			if model == "" {
				model = p.DefaultModel
			}
			return p.Name, model, nil
		}
	}
	return "", "", domain.ErrProviderUnknown
}

// MockReportStore implements domain.ReportStore for handler tests.
type MockReportStore struct {
	Reports map[string]*domain.Report
	Deleted []string
}

func NewMockReportStore() *MockReportStore {
	return &MockReportStore{Reports: make(map[string]*domain.Report)}
}

func (m *MockReportStore) Save(tsCode, content, provider, model string) (*domain.ReportMetadata, string, error) {
	meta := &domain.ReportMetadata{
		Timestamp: time.Now(),
		TSCode:    tsCode,
		Provider:  provider,
		Model:     model,
	}
	id := tsCode + "_20250101_120000"
	m.Reports[id] = &domain.Report{ID: id, Content: content, Metadata: meta}
	return meta, id, nil
}

func (m *MockReportStore) List(tsCode string) ([]*domain.ReportFile, error) {
	var files []*domain.ReportFile
	for id, r := range m.Reports {
		if tsCode != "" && r.Metadata.TSCode != tsCode {
			continue
		}
		files = append(files, &domain.ReportFile{ID: id, TSCode: r.Metadata.TSCode})
	}
	return files, nil
}

func (m *MockReportStore) Load(id string) (*domain.Report, error) {
	r, ok := m.Reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return r, nil
}

func (m *MockReportStore) Delete(id string) error {
	if _, ok := m.Reports[id]; !ok {
		return domain.ErrReportNotFound
	}
	delete(m.Reports, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockReportStore) DeleteAll() (int, error) {
	n := len(m.Reports)
	m.Reports = make(map[string]*domain.Report)
	return n, nil
}

func (m *MockReportStore) Latest(tsCode string) (*domain.ReportFile, error) {
	files, _ := m.List(tsCode)
	if len(files) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return files[0], nil
}

// MockExportService implements domain.ExportService for handler tests.
type MockExportService struct {
	Result  *domain.ExportResult
	Exports []*domain.ExportedPDF
	Err     error
}

func (m *MockExportService) CheckRenderer() error                  { return m.Err }
func (m *MockExportService) EnsureFonts(ctx context.Context) error { return m.Err }

func (m *MockExportService) ExportReport(ctx context.Context, reportID string) (*domain.ExportResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockExportService) ListExports() ([]*domain.ExportedPDF, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Exports, nil
}
