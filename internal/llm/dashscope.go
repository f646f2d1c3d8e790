package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-analyst-agent/internal/domain"
)

const dashScopeEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// DashScopeClient generates text with Alibaba DashScope (Qwen) models.
type DashScopeClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     domain.Logger
}

// NewDashScopeClient creates a DashScope text-generation client.
func NewDashScopeClient(apiKey string, logger domain.Logger) *DashScopeClient {
	return &DashScopeClient{
		apiKey:     apiKey,
		endpoint:   dashScopeEndpoint,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

type dashScopeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type dashScopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []dashScopeMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		ResultFormat string  `json:"result_format"`
		Temperature  float64 `json:"temperature"`
		TopP         float64 `json:"top_p"`
	} `json:"parameters"`
}

type dashScopeResponse struct {
	Output struct {
		Choices []struct {
			Message dashScopeMessage `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Generate implements domain.LLMClient.
func (c *DashScopeClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	reqBody := dashScopeRequest{Model: model}
	reqBody.Input.Messages = []dashScopeMessage{{Role: "user", Content: prompt}}
	reqBody.Parameters.ResultFormat = "message"
	reqBody.Parameters.Temperature = 0.1
	reqBody.Parameters.TopP = 0.9

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var dsResp dashScopeResponse
	if err := json.NewDecoder(resp.Body).Decode(&dsResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dashscope api error: code=%s, message=%s", dsResp.Code, dsResp.Message)
	}
	if len(dsResp.Output.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return dsResp.Output.Choices[0].Message.Content, nil
}
