package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"stock-analyst-agent/internal/domain"
)

const (
	quoteLookbackDays  = 90
	factorLookbackDays = 30
	weeklyLookbackYrs  = 5
	incomePeriods      = 8
)

// AnalystServiceImpl implements domain.AnalystService
type AnalystServiceImpl struct {
	marketRepo domain.MarketDataRepository
	registry   domain.LLMRegistry
	store      domain.ReportStore
	logger     domain.Logger
}

// NewAnalystService creates a new analyst service instance
func NewAnalystService(
	marketRepo domain.MarketDataRepository,
	registry domain.LLMRegistry,
	store domain.ReportStore,
	logger domain.Logger,
) *AnalystServiceImpl {
	return &AnalystServiceImpl{
		marketRepo: marketRepo,
		registry:   registry,
		store:      store,
		logger:     logger,
	}
}

// AnalyzeStock implements domain.AnalystService. It gathers every dataset
// the prompt needs, computes the indicator tables, asks the selected model
// for the report and persists the result.
func (s *AnalystServiceImpl) AnalyzeStock(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if !domain.ValidTSCode(req.TSCode) {
		return nil, domain.ErrInvalidStockCode
	}

	provider, model, err := s.registry.Resolve(req.Provider, req.Model)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Starting stock analysis", "ts_code", req.TSCode, "provider", provider, "model", model)

	data, err := s.collectStockData(ctx, req.TSCode)
	if err != nil {
		return nil, err
	}

	dataJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize stock data: %w", err)
	}

	client, err := s.registry.Client(provider)
	if err != nil {
		return nil, err
	}

	prompt := BuildAnalysisPrompt(req.TSCode, string(dataJSON))
	content, err := client.Generate(ctx, model, prompt)
	if err != nil {
		return nil, fmt.Errorf("analysis generation failed: %w", err)
	}

	meta, id, err := s.store.Save(req.TSCode, content, provider, model)
	if err != nil {
		// The analysis itself succeeded; losing the cache copy is not fatal.
		s.logger.Warn("Failed to persist analysis report", "ts_code", req.TSCode, "error", err)
	}

	s.logger.Info("Stock analysis completed", "ts_code", req.TSCode, "report_id", id)

	return &domain.AnalysisResult{
		TSCode:   req.TSCode,
		Provider: provider,
		Model:    model,
		Content:  content,
		ReportID: id,
		Metadata: meta,
	}, nil
}

// collectStockData fetches all seven datasets in parallel and assembles
// the prompt payload.
func (s *AnalystServiceImpl) collectStockData(ctx context.Context, tsCode string) (*domain.StockData, error) {
	now := time.Now()
	endDate := now.Format("20060102")
	startDate := now.AddDate(0, 0, -quoteLookbackDays).Format("20060102")
	weeklyStart := now.AddDate(-weeklyLookbackYrs, 0, 0).Format("20060102")
	factorStart := now.AddDate(0, 0, -factorLookbackDays).Format("20060102")

	var (
		company    *domain.Dataset
		quotes     *domain.Dataset
		dailyBasic *domain.Dataset
		moneyflow  *domain.Dataset
		income     *domain.Dataset
		weekly     *domain.Dataset
		factors    *domain.Dataset
	)

	// A failed fetch degrades to an empty dataset. Whether that aborts the
	// analysis is decided by the emptiness checks below, so a transient
	// factor or money flow outage still produces a report.
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(name string, dst **domain.Dataset, fn func(context.Context) (*domain.Dataset, error)) {
		g.Go(func() error {
			ds, err := fn(gctx)
			if err != nil {
				s.logger.Warn("Dataset fetch failed, continuing without it",
					"dataset", name, "ts_code", tsCode, "error", err)
				ds = &domain.Dataset{}
			}
			*dst = ds
			return nil
		})
	}
	fetch("stock_company", &company, func(ctx context.Context) (*domain.Dataset, error) {
		return s.marketRepo.CompanyInfo(ctx, tsCode)
	})
	fetch("daily", &quotes, func(ctx context.Context) (*domain.Dataset, error) {
		return s.marketRepo.DailyQuotes(ctx, tsCode, startDate, endDate)
	})
	fetch("daily_basic", &dailyBasic, func(ctx context.Context) (*domain.Dataset, error) {
		return s.marketRepo.DailyBasic(ctx, tsCode, startDate, endDate)
	})
	fetch("moneyflow", &moneyflow, func(ctx context.Context) (*domain.Dataset, error) {
		return s.marketRepo.Moneyflow(ctx, tsCode, startDate, endDate)
	})
	fetch("income", &income, func(ctx context.Context) (*domain.Dataset, error) {
		return s.marketRepo.IncomeStatements(ctx, tsCode)
	})
	fetch("stk_week_month_adj", &weekly, func(ctx context.Context) (*domain.Dataset, error) {
		return s.marketRepo.WeeklyBars(ctx, tsCode, weeklyStart, endDate)
	})
	fetch("stk_factor_pro", &factors, func(ctx context.Context) (*domain.Dataset, error) {
		return s.marketRepo.FactorData(ctx, tsCode, factorStart, endDate)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("market data fetch failed: %w", err)
	}

	// Without quotes or company info there is nothing to analyze.
	if quotes.Empty() {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuotesUnavailable, tsCode)
	}
	if company.Empty() {
		return nil, fmt.Errorf("%w: %s", domain.ErrCompanyUnavailable, tsCode)
	}

	weeklyKDJ := ComputeWeeklyKDJ(weekly)
	technical, err := ComputeTechnicalIndicators(quotes, moneyflow, weeklyKDJ)
	if err != nil {
		return nil, fmt.Errorf("indicator computation failed: %w", err)
	}

	data := &domain.StockData{
		TechnicalIndicators:  technical,
		ProfessionalAnalysis: AnalyzeFactorIndicators(factors),
	}
	if data.Basic, err = company.JSONRecords(); err != nil {
		return nil, err
	}
	if data.Quotes, err = quotes.JSONRecords(); err != nil {
		return nil, err
	}
	if data.Fundamentals, err = dailyBasic.JSONRecords(); err != nil {
		return nil, err
	}
	if data.Moneyflows, err = moneyflow.JSONRecords(); err != nil {
		return nil, err
	}
	if data.Income, err = income.Tail(incomePeriods).JSONRecords(); err != nil {
		return nil, err
	}
	return data, nil
}
