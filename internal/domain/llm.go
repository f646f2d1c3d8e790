package domain

import "context"

// LLMClient generates text from a prompt with a named model.
type LLMClient interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ProviderSpec describes one LLM provider entry in the catalog.
type ProviderSpec struct {
	Name         string   `json:"name" yaml:"name"`
	Models       []string `json:"models" yaml:"models"`
	DefaultModel string   `json:"default_model" yaml:"default_model"`
}

// LLMRegistry resolves providers to clients.
type LLMRegistry interface {
	// Providers returns the catalog in a stable order.
	Providers() []ProviderSpec
	// Client returns a client for the named provider, or
	// ErrProviderUnknown / ErrProviderKeyMissing.
	Client(provider string) (LLMClient, error)
	// DefaultProvider returns the first catalog entry.
	DefaultProvider() ProviderSpec
	// Resolve fills in the default provider and model when blank and
	// validates that the model belongs to the provider.
	Resolve(provider, model string) (string, string, error)
}
