package repository

import (
	"context"

	"stock-analyst-agent/internal/domain"
)

const companyFields = "ts_code,exchange,chairman,manager,secretary,reg_capital," +
	"setup_date,province,city,introduction,website,email,office,employees," +
	"main_business,business_scope"

const incomeFields = "ts_code,ann_date,end_date,n_income_attr_p,total_revenue"

const weeklyFields = "ts_code,trade_date,end_date,freq,open,high,low,close,pre_close," +
	"open_qfq,high_qfq,low_qfq,close_qfq,vol,amount,change,pct_chg"

// TushareMarketRepository implements domain.MarketDataRepository against
// the tushare pro API.
type TushareMarketRepository struct {
	client  *TushareClient
	enabled bool
}

// NewTushareMarketRepository creates a new tushare-backed market data repository.
func NewTushareMarketRepository(client *TushareClient, enabled bool) *TushareMarketRepository {
	return &TushareMarketRepository{
		client:  client,
		enabled: enabled,
	}
}

func (r *TushareMarketRepository) ready() error {
	if !r.enabled || r.client.token == "" {
		return domain.ErrMarketDataDisabled
	}
	return nil
}

// CompanyInfo fetches listed-company basics.
func (r *TushareMarketRepository) CompanyInfo(ctx context.Context, tsCode string) (*domain.Dataset, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	return r.client.Query(ctx, "stock_company", map[string]string{"ts_code": tsCode}, companyFields)
}

// DailyQuotes fetches forward-adjusted daily bars, oldest first.
func (r *TushareMarketRepository) DailyQuotes(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ds, err := r.client.Query(ctx, "daily", map[string]string{
		"ts_code":    tsCode,
		"start_date": startDate,
		"end_date":   endDate,
		"adj":        "qfq",
	}, "")
	if err != nil {
		return nil, err
	}
	ds.SortBy("trade_date")
	return ds, nil
}

// DailyBasic fetches daily valuation fundamentals, oldest first.
func (r *TushareMarketRepository) DailyBasic(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ds, err := r.client.Query(ctx, "daily_basic", map[string]string{
		"ts_code":    tsCode,
		"start_date": startDate,
		"end_date":   endDate,
	}, "")
	if err != nil {
		return nil, err
	}
	ds.SortBy("trade_date")
	return ds, nil
}

// Moneyflow fetches daily money flow, oldest first.
func (r *TushareMarketRepository) Moneyflow(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ds, err := r.client.Query(ctx, "moneyflow", map[string]string{
		"ts_code":    tsCode,
		"start_date": startDate,
		"end_date":   endDate,
	}, "")
	if err != nil {
		return nil, err
	}
	ds.SortBy("trade_date")
	return ds, nil
}

// IncomeStatements fetches the full income statement history, oldest first.
func (r *TushareMarketRepository) IncomeStatements(ctx context.Context, tsCode string) (*domain.Dataset, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ds, err := r.client.Query(ctx, "income", map[string]string{"ts_code": tsCode}, incomeFields)
	if err != nil {
		return nil, err
	}
	ds.SortBy("ann_date")
	return ds, nil
}

// WeeklyBars fetches adjusted weekly bars, oldest first.
func (r *TushareMarketRepository) WeeklyBars(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ds, err := r.client.Query(ctx, "stk_week_month_adj", map[string]string{
		"ts_code":    tsCode,
		"freq":       "week",
		"start_date": startDate,
		"end_date":   endDate,
	}, weeklyFields)
	if err != nil {
		return nil, err
	}
	ds.SortBy("trade_date")
	return ds, nil
}

// FactorData fetches the professional factor table, oldest first.
func (r *TushareMarketRepository) FactorData(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ds, err := r.client.Query(ctx, "stk_factor_pro", map[string]string{
		"ts_code":    tsCode,
		"start_date": startDate,
		"end_date":   endDate,
	}, "")
	if err != nil {
		return nil, err
	}
	ds.SortBy("trade_date")
	return ds, nil
}
