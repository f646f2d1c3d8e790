package llm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := defaultCatalog()
	if len(catalog) != 5 {
		t.Fatalf("expected 5 providers, got %d", len(catalog))
	}
	if catalog[0].Name != ProviderGemini {
		t.Fatalf("expected Gemini first, got %s", catalog[0].Name)
	}

	for _, p := range catalog {
		if p.DefaultModel == "" {
			t.Fatalf("provider %s has no default model", p.Name)
		}
		found := false
		for _, m := range p.Models {
			if m == p.DefaultModel {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("provider %s default model %q not in model list", p.Name, p.DefaultModel)
		}
	}
}

func TestLoadCatalog_EmptyPathUsesDefaults(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(catalog) != 5 {
		t.Fatalf("expected default catalog, got %d providers", len(catalog))
	}
}

func TestLoadCatalog_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	content := `providers:
  - name: OpenAI
    models: [gpt-4o, gpt-4-turbo]
    default_model: gpt-4o
  - name: DeepSeek
    models: [deepseek-chat]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write providers file: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(catalog))
	}
	// Missing default falls back to the first model.
	if catalog[1].DefaultModel != "deepseek-chat" {
		t.Fatalf("unexpected default model: %s", catalog[1].DefaultModel)
	}
}

func TestLoadCatalog_Invalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("providers: []\n"), 0o644)
	if _, err := LoadCatalog(empty); err == nil {
		t.Fatal("expected error for empty provider list")
	}

	incomplete := filepath.Join(dir, "incomplete.yaml")
	os.WriteFile(incomplete, []byte("providers:\n  - name: NoModels\n"), 0o644)
	if _, err := LoadCatalog(incomplete); err == nil {
		t.Fatal("expected error for provider without models")
	}

	if _, err := LoadCatalog(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
