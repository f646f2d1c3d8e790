package domain

// Config defines the application configuration contract
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetTushareToken() string
	IsTushareEnabled() bool
	GetTushareURL() string
	GetGoogleProjectID() string
	GetGoogleLocation() string
	GetDashScopeAPIKey() string
	GetOpenAIAPIKey() string
	GetDeepSeekAPIKey() string
	GetDeepSeekBaseURL() string
	GetOpenRouterAPIKey() string
	GetCachePath() string
	GetPDFOutputPath() string
	GetFontDir() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetMarketCacheTTL() int
	GetProvidersFile() string
	GetWkhtmltopdfPath() string
}

// Logger defines the logging contract
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}
