package handler

import (
	"net/http"

	"stock-analyst-agent/internal/domain"
)

// ProviderHandler handles LLM provider catalog requests
type ProviderHandler struct {
	registry domain.LLMRegistry
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(registry domain.LLMRegistry) *ProviderHandler {
	return &ProviderHandler{registry: registry}
}

// GetProviders returns the provider catalog and the default selection
func (h *ProviderHandler) GetProviders(w http.ResponseWriter, r *http.Request) {
	def := h.registry.DefaultProvider()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"providers":        h.registry.Providers(),
		"default_provider": def.Name,
		"default_model":    def.DefaultModel,
	})
}
