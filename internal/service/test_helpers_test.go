package service

import (
	"context"
	"time"

	"stock-analyst-agent/internal/domain"
)

type noopLogger struct{}

func (l *noopLogger) Info(msg string, fields ...interface{})             {}
func (l *noopLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *noopLogger) Debug(msg string, fields ...interface{})            {}
func (l *noopLogger) Warn(msg string, fields ...interface{})             {}

// fakeMarketRepo returns canned datasets (or errors) per method.
type fakeMarketRepo struct {
	company *domain.Dataset
	quotes  *domain.Dataset
	basic   *domain.Dataset
	flows   *domain.Dataset
	income  *domain.Dataset
	weekly  *domain.Dataset
	factors *domain.Dataset

	companyErr error
	quotesErr  error
	flowsErr   error
	factorsErr error
}

func (r *fakeMarketRepo) CompanyInfo(ctx context.Context, tsCode string) (*domain.Dataset, error) {
	return r.company, r.companyErr
}

func (r *fakeMarketRepo) DailyQuotes(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.quotes, r.quotesErr
}

func (r *fakeMarketRepo) DailyBasic(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.basic, nil
}

func (r *fakeMarketRepo) Moneyflow(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.flows, r.flowsErr
}

func (r *fakeMarketRepo) IncomeStatements(ctx context.Context, tsCode string) (*domain.Dataset, error) {
	return r.income, nil
}

func (r *fakeMarketRepo) WeeklyBars(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.weekly, nil
}

func (r *fakeMarketRepo) FactorData(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.factors, r.factorsErr
}

// fakeLLMClient records the prompt it was asked to complete.
type fakeLLMClient struct {
	lastModel  string
	lastPrompt string
	response   string
	err        error
}

func (c *fakeLLMClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	c.lastModel = model
	c.lastPrompt = prompt
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

// fakeRegistry serves a single provider backed by fakeLLMClient.
type fakeRegistry struct {
	client *fakeLLMClient
}

func (r *fakeRegistry) Providers() []domain.ProviderSpec {
	return []domain.ProviderSpec{r.DefaultProvider()}
}

func (r *fakeRegistry) DefaultProvider() domain.ProviderSpec {
	return domain.ProviderSpec{Name: "Gemini", Models: []string{"gemini-2.5-pro"}, DefaultModel: "gemini-2.5-pro"}
}

func (r *fakeRegistry) Client(provider string) (domain.LLMClient, error) {
	if provider != "Gemini" {
		return nil, domain.ErrProviderUnknown
	}
	return r.client, nil
}

func (r *fakeRegistry) Resolve(provider, model string) (string, string, error) {
	if provider == "" {
		provider = "Gemini"
	}
	if provider != "Gemini" {
		return "", "", domain.ErrProviderUnknown
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}
	return provider, model, nil
}

// memoryReportStore implements domain.ReportStore in memory.
type memoryReportStore struct {
	saved map[string]*domain.Report
}

func newMemoryReportStore() *memoryReportStore {
	return &memoryReportStore{saved: make(map[string]*domain.Report)}
}

func (s *memoryReportStore) Save(tsCode, content, provider, model string) (*domain.ReportMetadata, string, error) {
	now := time.Now()
	meta := &domain.ReportMetadata{
		Timestamp: now,
		TSCode:    tsCode,
		Provider:  provider,
		Model:     model,
		FileDate:  now.Format("20060102"),
		FileTime:  now.Format("150405"),
	}
	id := tsCode + "_" + meta.FileDate + "_" + meta.FileTime
	s.saved[id] = &domain.Report{ID: id, Content: content, Metadata: meta}
	return meta, id, nil
}

func (s *memoryReportStore) List(tsCode string) ([]*domain.ReportFile, error) {
	var files []*domain.ReportFile
	for id, r := range s.saved {
		if tsCode != "" && r.Metadata.TSCode != tsCode {
			continue
		}
		files = append(files, &domain.ReportFile{ID: id, TSCode: r.Metadata.TSCode})
	}
	return files, nil
}

func (s *memoryReportStore) Load(id string) (*domain.Report, error) {
	r, ok := s.saved[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return r, nil
}

func (s *memoryReportStore) Delete(id string) error {
	if _, ok := s.saved[id]; !ok {
		return domain.ErrReportNotFound
	}
	delete(s.saved, id)
	return nil
}

func (s *memoryReportStore) DeleteAll() (int, error) {
	n := len(s.saved)
	s.saved = make(map[string]*domain.Report)
	return n, nil
}

func (s *memoryReportStore) Latest(tsCode string) (*domain.ReportFile, error) {
	files, _ := s.List(tsCode)
	if len(files) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return files[0], nil
}

// stubServiceConfig implements domain.Config for export tests.
type stubServiceConfig struct {
	pdfDir  string
	fontDir string
}

func (c *stubServiceConfig) GetServerPort() string       { return "8501" }
func (c *stubServiceConfig) GetLogLevel() string         { return "INFO" }
func (c *stubServiceConfig) GetTushareToken() string     { return "" }
func (c *stubServiceConfig) IsTushareEnabled() bool      { return false }
func (c *stubServiceConfig) GetTushareURL() string       { return "" }
func (c *stubServiceConfig) GetGoogleProjectID() string  { return "" }
func (c *stubServiceConfig) GetGoogleLocation() string   { return "" }
func (c *stubServiceConfig) GetDashScopeAPIKey() string  { return "" }
func (c *stubServiceConfig) GetOpenAIAPIKey() string     { return "" }
func (c *stubServiceConfig) GetDeepSeekAPIKey() string   { return "" }
func (c *stubServiceConfig) GetDeepSeekBaseURL() string  { return "" }
func (c *stubServiceConfig) GetOpenRouterAPIKey() string { return "" }
func (c *stubServiceConfig) GetCachePath() string        { return "" }
func (c *stubServiceConfig) GetPDFOutputPath() string    { return c.pdfDir }
func (c *stubServiceConfig) GetFontDir() string          { return c.fontDir }
func (c *stubServiceConfig) GetRedisAddr() string        { return "" }
func (c *stubServiceConfig) GetRedisPassword() string    { return "" }
func (c *stubServiceConfig) GetRedisDB() int             { return 0 }
func (c *stubServiceConfig) GetMarketCacheTTL() int      { return 900 }
func (c *stubServiceConfig) GetProvidersFile() string    { return "" }
func (c *stubServiceConfig) GetWkhtmltopdfPath() string  { return "" }
