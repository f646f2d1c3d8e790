package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatClient generates text with any OpenAI-compatible chat API
// (OpenAI itself, DeepSeek, OpenRouter).
type OpenAICompatClient struct {
	client *openai.Client
}

// NewOpenAICompatClient creates a client. An empty baseURL uses the
// official OpenAI endpoint.
func NewOpenAICompatClient(apiKey, baseURL string) *OpenAICompatClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompatClient{
		client: openai.NewClientWithConfig(cfg),
	}
}

// Generate implements domain.LLMClient.
func (c *OpenAICompatClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}
