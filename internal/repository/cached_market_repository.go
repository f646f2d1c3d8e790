package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"stock-analyst-agent/internal/cache"
	"stock-analyst-agent/internal/domain"
)

// CachedMarketRepository decorates a MarketDataRepository with a TTL cache
// so repeated analyses of the same stock do not hammer the upstream API.
type CachedMarketRepository struct {
	inner  domain.MarketDataRepository
	cache  cache.Client
	ttl    time.Duration
	logger domain.Logger
}

// NewCachedMarketRepository wraps repo with the given cache client.
func NewCachedMarketRepository(repo domain.MarketDataRepository, client cache.Client, ttl time.Duration, logger domain.Logger) *CachedMarketRepository {
	return &CachedMarketRepository{
		inner:  repo,
		cache:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedMarketRepository) through(ctx context.Context, key string, fetch func() (*domain.Dataset, error)) (*domain.Dataset, error) {
	if cached, err := r.cache.Get(ctx, key); err == nil {
		var ds domain.Dataset
		if err := json.Unmarshal(cached, &ds); err == nil {
			r.logger.Debug("market data cache hit", "key", key)
			return &ds, nil
		}
		// Corrupt entry: drop it and refetch.
		_ = r.cache.Delete(ctx, key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("market data cache read failed", "key", key, "error", err)
	}

	ds, err := fetch()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(ds); err == nil {
		if err := r.cache.Set(ctx, key, encoded, r.ttl); err != nil {
			r.logger.Warn("market data cache write failed", "key", key, "error", err)
		}
	}
	return ds, nil
}

// CompanyInfo implements domain.MarketDataRepository.
func (r *CachedMarketRepository) CompanyInfo(ctx context.Context, tsCode string) (*domain.Dataset, error) {
	return r.through(ctx, cache.MarketKey("company", tsCode), func() (*domain.Dataset, error) {
		return r.inner.CompanyInfo(ctx, tsCode)
	})
}

// DailyQuotes implements domain.MarketDataRepository.
func (r *CachedMarketRepository) DailyQuotes(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.through(ctx, cache.MarketKey("daily", tsCode, startDate, endDate), func() (*domain.Dataset, error) {
		return r.inner.DailyQuotes(ctx, tsCode, startDate, endDate)
	})
}

// DailyBasic implements domain.MarketDataRepository.
func (r *CachedMarketRepository) DailyBasic(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.through(ctx, cache.MarketKey("daily_basic", tsCode, startDate, endDate), func() (*domain.Dataset, error) {
		return r.inner.DailyBasic(ctx, tsCode, startDate, endDate)
	})
}

// Moneyflow implements domain.MarketDataRepository.
func (r *CachedMarketRepository) Moneyflow(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.through(ctx, cache.MarketKey("moneyflow", tsCode, startDate, endDate), func() (*domain.Dataset, error) {
		return r.inner.Moneyflow(ctx, tsCode, startDate, endDate)
	})
}

// IncomeStatements implements domain.MarketDataRepository.
func (r *CachedMarketRepository) IncomeStatements(ctx context.Context, tsCode string) (*domain.Dataset, error) {
	return r.through(ctx, cache.MarketKey("income", tsCode), func() (*domain.Dataset, error) {
		return r.inner.IncomeStatements(ctx, tsCode)
	})
}

// WeeklyBars implements domain.MarketDataRepository.
func (r *CachedMarketRepository) WeeklyBars(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.through(ctx, cache.MarketKey("weekly", tsCode, startDate, endDate), func() (*domain.Dataset, error) {
		return r.inner.WeeklyBars(ctx, tsCode, startDate, endDate)
	})
}

// FactorData implements domain.MarketDataRepository.
func (r *CachedMarketRepository) FactorData(ctx context.Context, tsCode, startDate, endDate string) (*domain.Dataset, error) {
	return r.through(ctx, cache.MarketKey("factors", tsCode, startDate, endDate), func() (*domain.Dataset, error) {
		return r.inner.FactorData(ctx, tsCode, startDate, endDate)
	})
}
