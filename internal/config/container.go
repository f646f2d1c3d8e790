package config

import (
	"time"

	"stock-analyst-agent/internal/cache"
	"stock-analyst-agent/internal/domain"
	"stock-analyst-agent/internal/llm"
	"stock-analyst-agent/internal/repository"
	"stock-analyst-agent/internal/service"
	"stock-analyst-agent/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	Cache          cache.Client
	MarketData     domain.MarketDataRepository
	ReportStore    domain.ReportStore
	Registry       domain.LLMRegistry
	AnalystService domain.AnalystService
	ReportService  *service.ReportService
	ExportService  domain.ExportService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel())

	// Market data cache: Redis when configured, in-memory otherwise.
	var cacheClient cache.Client
	if addr := cfg.GetRedisAddr(); addr != "" {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     addr,
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
			Prefix:   "saa:",
		})
		if err != nil {
			appLogger.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
		} else {
			cacheClient = redisClient
		}
	}
	if cacheClient == nil {
		cacheClient = cache.NewMemoryClient(0)
	}

	tushareClient := repository.NewTushareClient(cfg.GetTushareURL(), cfg.GetTushareToken(), appLogger)
	var marketRepo domain.MarketDataRepository = repository.NewTushareMarketRepository(tushareClient, cfg.IsTushareEnabled())
	marketRepo = repository.NewCachedMarketRepository(
		marketRepo,
		cacheClient,
		time.Duration(cfg.GetMarketCacheTTL())*time.Second,
		appLogger,
	)

	reportStore := repository.NewFileReportStore(cfg.GetCachePath(), appLogger)
	registry := llm.NewRegistry(cfg, appLogger)

	analystService := service.NewAnalystService(marketRepo, registry, reportStore, appLogger)
	reportService := service.NewReportService(reportStore, appLogger)
	exportService := service.NewExportService(reportStore, cfg, appLogger)

	return &Container{
		Config:         cfg,
		Logger:         appLogger,
		Cache:          cacheClient,
		MarketData:     marketRepo,
		ReportStore:    reportStore,
		Registry:       registry,
		AnalystService: analystService,
		ReportService:  reportService,
		ExportService:  exportService,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
