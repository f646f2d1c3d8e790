package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"stock-analyst-agent/internal/domain"
)

// Gemini wraps responses in ```markdown fences now and then; strip them.
var markdownFence = regexp.MustCompile("(?m)^```markdown\\s*|```$")

// GeminiClient generates text with Vertex AI Gemini models.
type GeminiClient struct {
	client *genai.Client
	logger domain.Logger
}

// NewGeminiClient creates a Vertex AI client for the given project.
func NewGeminiClient(projectID, location string, logger domain.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	return &GeminiClient{
		client: client,
		logger: logger,
	}, nil
}

// Generate implements domain.LLMClient.
func (c *GeminiClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	m := c.client.GenerativeModel(model)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	return markdownFence.ReplaceAllString(sb.String(), ""), nil
}
