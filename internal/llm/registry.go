package llm

import (
	"strings"
	"sync"

	"stock-analyst-agent/internal/domain"
)

// Registry implements domain.LLMRegistry. Clients are created lazily and
// reused across requests.
type Registry struct {
	cfg     domain.Config
	logger  domain.Logger
	catalog []domain.ProviderSpec

	mu      sync.Mutex
	clients map[string]domain.LLMClient
}

// NewRegistry builds the registry from the configured catalog.
func NewRegistry(cfg domain.Config, logger domain.Logger) *Registry {
	catalog, err := LoadCatalog(cfg.GetProvidersFile())
	if err != nil {
		logger.Warn("Failed to load provider catalog override, using defaults", "error", err)
		catalog = defaultCatalog()
	}
	return &Registry{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		clients: make(map[string]domain.LLMClient),
	}
}

// Providers implements domain.LLMRegistry.
func (r *Registry) Providers() []domain.ProviderSpec {
	return r.catalog
}

// DefaultProvider implements domain.LLMRegistry.
func (r *Registry) DefaultProvider() domain.ProviderSpec {
	return r.catalog[0]
}

func (r *Registry) spec(provider string) (domain.ProviderSpec, bool) {
	for _, p := range r.catalog {
		if p.Name == provider {
			return p, true
		}
	}
	return domain.ProviderSpec{}, false
}

// Resolve implements domain.LLMRegistry.
func (r *Registry) Resolve(provider, model string) (string, string, error) {
	if provider == "" {
		def := r.DefaultProvider()
		if model == "" {
			model = def.DefaultModel
		}
		provider = def.Name
	}
	p, ok := r.spec(provider)
	if !ok {
		return "", "", domain.ErrProviderUnknown
	}
	if model == "" {
		return p.Name, p.DefaultModel, nil
	}
	for _, m := range p.Models {
		if m == model {
			return p.Name, model, nil
		}
	}
	return "", "", &domain.ValidationError{Field: "model", Message: "model not offered by provider " + provider}
}

// Client implements domain.LLMRegistry.
func (r *Registry) Client(provider string) (domain.LLMClient, error) {
	p, ok := r.spec(provider)
	if !ok {
		return nil, domain.ErrProviderUnknown
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[p.Name]; ok {
		return c, nil
	}

	c, err := r.build(p.Name)
	if err != nil {
		return nil, err
	}
	r.clients[p.Name] = c
	return c, nil
}

func (r *Registry) build(provider string) (domain.LLMClient, error) {
	switch provider {
	case ProviderGemini:
		if r.cfg.GetGoogleProjectID() == "" {
			return nil, domain.ErrProviderKeyMissing
		}
		return NewGeminiClient(r.cfg.GetGoogleProjectID(), r.cfg.GetGoogleLocation(), r.logger)
	case ProviderDashScope:
		key := r.cfg.GetDashScopeAPIKey()
		if !keyConfigured(key) {
			return nil, domain.ErrProviderKeyMissing
		}
		return NewDashScopeClient(key, r.logger), nil
	case ProviderDeepSeek:
		key := r.cfg.GetDeepSeekAPIKey()
		if !keyConfigured(key) {
			return nil, domain.ErrProviderKeyMissing
		}
		return NewOpenAICompatClient(key, openAICompatBase(r.cfg.GetDeepSeekBaseURL())), nil
	case ProviderOpenAI:
		key := r.cfg.GetOpenAIAPIKey()
		if !keyConfigured(key) {
			return nil, domain.ErrProviderKeyMissing
		}
		return NewOpenAICompatClient(key, ""), nil
	case ProviderOpenRouter:
		key := r.cfg.GetOpenRouterAPIKey()
		if !keyConfigured(key) {
			return nil, domain.ErrProviderKeyMissing
		}
		return NewOpenAICompatClient(key, "https://openrouter.ai/api/v1"), nil
	}
	return nil, domain.ErrProviderUnknown
}

// keyConfigured rejects empty keys and untouched "your_..._here" placeholders
// copied from the sample env file.
func keyConfigured(key string) bool {
	return key != "" && !strings.Contains(key, "your_")
}

// openAICompatBase appends the /v1 path, tolerating configured base URLs
// that already carry it.
func openAICompatBase(base string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base
}
