// Package llm hosts the model provider catalog and clients.
package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stock-analyst-agent/internal/domain"
)

// Provider names as they appear in the catalog and in API requests.
const (
	ProviderGemini     = "Gemini"
	ProviderDashScope  = "DashScope (Qwen)"
	ProviderDeepSeek   = "DeepSeek"
	ProviderOpenAI     = "OpenAI"
	ProviderOpenRouter = "OpenRouter"
)

func defaultCatalog() []domain.ProviderSpec {
	return []domain.ProviderSpec{
		{
			Name:         ProviderGemini,
			Models:       []string{"gemini-2.5-pro", "gemini-1.5-pro-latest", "gemini-1.5-flash-latest"},
			DefaultModel: "gemini-2.5-pro",
		},
		{
			Name:         ProviderDashScope,
			Models:       []string{"qwen-turbo", "qwen-plus-latest", "qwen-max", "qwen-max-longcontext", "qwen-plus"},
			DefaultModel: "qwen-plus-latest",
		},
		{
			Name:         ProviderDeepSeek,
			Models:       []string{"deepseek-chat", "deepseek-coder"},
			DefaultModel: "deepseek-chat",
		},
		{
			Name:         ProviderOpenAI,
			Models:       []string{"gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
			DefaultModel: "gpt-4o",
		},
		{
			Name: ProviderOpenRouter,
			Models: []string{
				"google/gemini-flash-1.5", "anthropic/claude-3-haiku",
				"mistralai/mistral-7b-instruct", "meta-llama/llama-3-8b-instruct",
			},
			DefaultModel: "google/gemini-flash-1.5",
		},
	}
}

type catalogFile struct {
	Providers []domain.ProviderSpec `yaml:"providers"`
}

// LoadCatalog returns the provider catalog, optionally replaced by a YAML
// file so deployments can trim or extend the model lists without a rebuild.
func LoadCatalog(path string) ([]domain.ProviderSpec, error) {
	if path == "" {
		return defaultCatalog(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file: %w", err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse providers file: %w", err)
	}
	if len(cf.Providers) == 0 {
		return nil, fmt.Errorf("providers file %s defines no providers", path)
	}

	for i := range cf.Providers {
		p := &cf.Providers[i]
		if p.Name == "" || len(p.Models) == 0 {
			return nil, fmt.Errorf("providers file entry %d is incomplete", i)
		}
		if p.DefaultModel == "" {
			p.DefaultModel = p.Models[0]
		}
	}

	return cf.Providers, nil
}
