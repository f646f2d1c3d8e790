package config

import (
	"os"
	"strconv"

	"stock-analyst-agent/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort       string
	LogLevel         string
	TushareToken     string
	TushareEnabled   bool
	TushareURL       string
	GoogleProjectID  string
	GoogleLocation   string
	DashScopeAPIKey  string
	OpenAIAPIKey     string
	DeepSeekAPIKey   string
	DeepSeekBaseURL  string
	OpenRouterAPIKey string
	CachePath        string
	PDFOutputPath    string
	FontDir          string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	MarketCacheTTL   int
	ProvidersFile    string
	WkhtmltopdfPath  string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Container platforms provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility. 8501 is the
		// published port of the service.
		ServerPort:       getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8501")),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		TushareToken:     getEnvOrDefault("TUSHARE_TOKEN", ""),
		TushareEnabled:   getEnvBoolOrDefault("TUSHARE_ENABLED", true),
		TushareURL:       getEnvOrDefault("TUSHARE_URL", "http://api.tushare.pro"),
		GoogleProjectID:  getEnvOrDefault("GOOGLE_PROJECT_ID", ""),
		GoogleLocation:   getEnvOrDefault("GOOGLE_LOCATION", "us-central1"),
		DashScopeAPIKey:  getEnvOrDefault("DASHSCOPE_API_KEY", ""),
		OpenAIAPIKey:     getEnvOrDefault("OPENAI_API_KEY", ""),
		DeepSeekAPIKey:   getEnvOrDefault("DEEPSEEK_API_KEY", ""),
		DeepSeekBaseURL:  getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		OpenRouterAPIKey: getEnvOrDefault("OPENROUTER_API_KEY", ""),
		CachePath:        getEnvOrDefault("CACHE_PATH", "./cache"),
		PDFOutputPath:    getEnvOrDefault("PDF_OUTPUT_PATH", "./pdf_reports"),
		FontDir:          getEnvOrDefault("FONT_DIR", "./fonts"),
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:    getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:          getEnvIntOrDefault("REDIS_DB", 0),
		MarketCacheTTL:   getEnvIntOrDefault("MARKET_CACHE_TTL", 900), // seconds
		ProvidersFile:    getEnvOrDefault("PROVIDERS_FILE", ""),
		WkhtmltopdfPath:  getEnvOrDefault("WKHTMLTOPDF_PATH", ""),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string { return c.ServerPort }

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string { return c.LogLevel }

// GetTushareToken returns the tushare pro API token
func (c *AppConfig) GetTushareToken() string { return c.TushareToken }

// IsTushareEnabled reports whether the tushare data source is enabled
func (c *AppConfig) IsTushareEnabled() bool { return c.TushareEnabled }

// GetTushareURL returns the tushare pro API endpoint
func (c *AppConfig) GetTushareURL() string { return c.TushareURL }

// GetGoogleProjectID returns the Vertex AI project
func (c *AppConfig) GetGoogleProjectID() string { return c.GoogleProjectID }

// GetGoogleLocation returns the Vertex AI location
func (c *AppConfig) GetGoogleLocation() string { return c.GoogleLocation }

// GetDashScopeAPIKey returns the DashScope API key
func (c *AppConfig) GetDashScopeAPIKey() string { return c.DashScopeAPIKey }

// GetOpenAIAPIKey returns the OpenAI API key
func (c *AppConfig) GetOpenAIAPIKey() string { return c.OpenAIAPIKey }

// GetDeepSeekAPIKey returns the DeepSeek API key
func (c *AppConfig) GetDeepSeekAPIKey() string { return c.DeepSeekAPIKey }

// GetDeepSeekBaseURL returns the DeepSeek endpoint
func (c *AppConfig) GetDeepSeekBaseURL() string { return c.DeepSeekBaseURL }

// GetOpenRouterAPIKey returns the OpenRouter API key
func (c *AppConfig) GetOpenRouterAPIKey() string { return c.OpenRouterAPIKey }

// GetCachePath returns the report cache directory
func (c *AppConfig) GetCachePath() string { return c.CachePath }

// GetPDFOutputPath returns the generated PDF directory
func (c *AppConfig) GetPDFOutputPath() string { return c.PDFOutputPath }

// GetFontDir returns the font directory
func (c *AppConfig) GetFontDir() string { return c.FontDir }

// GetRedisAddr returns the Redis address (empty means in-memory cache)
func (c *AppConfig) GetRedisAddr() string { return c.RedisAddr }

// GetRedisPassword returns the Redis password
func (c *AppConfig) GetRedisPassword() string { return c.RedisPassword }

// GetRedisDB returns the Redis database index
func (c *AppConfig) GetRedisDB() int { return c.RedisDB }

// GetMarketCacheTTL returns the market data cache TTL in seconds
func (c *AppConfig) GetMarketCacheTTL() int { return c.MarketCacheTTL }

// GetProvidersFile returns the optional provider catalog override file
func (c *AppConfig) GetProvidersFile() string { return c.ProvidersFile }

// GetWkhtmltopdfPath returns an explicit wkhtmltopdf binary path, if set
func (c *AppConfig) GetWkhtmltopdfPath() string { return c.WkhtmltopdfPath }

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
