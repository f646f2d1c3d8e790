package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-analyst-agent/internal/domain"
)

const (
	// tushare rate-limits aggressively; every call gets a small
	// pre-flight pause and failed calls are retried with a delay.
	queryThrottle = 100 * time.Millisecond
	queryRetries  = 3
	queryDelay    = time.Second
)

// TushareClient talks to the tushare pro JSON API.
type TushareClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     domain.Logger
}

// NewTushareClient creates a new tushare API client.
func NewTushareClient(baseURL, token string, logger domain.Logger) *TushareClient {
	return &TushareClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type tushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields,omitempty"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Fields []string        `json:"fields"`
		Items  [][]interface{} `json:"items"`
	} `json:"data"`
}

// Query calls one tushare API and returns the result set. Failed calls
// are retried up to queryRetries times.
func (c *TushareClient) Query(ctx context.Context, apiName string, params map[string]string, fields string) (*domain.Dataset, error) {
	var lastErr error
	for attempt := 0; attempt < queryRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("tushare query failed, retrying",
				"api", apiName, "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(queryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		select {
		case <-time.After(queryThrottle):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		ds, err := c.queryOnce(ctx, apiName, params, fields)
		if err == nil {
			return ds, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("tushare %s failed after %d attempts: %w", apiName, queryRetries, lastErr)
}

func (c *TushareClient) queryOnce(ctx context.Context, apiName string, params map[string]string, fields string) (*domain.Dataset, error) {
	if params == nil {
		params = map[string]string{}
	}
	body, err := json.Marshal(tushareRequest{
		APIName: apiName,
		Token:   c.token,
		Params:  params,
		Fields:  fields,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tushare returned status %d", resp.StatusCode)
	}

	var tr tushareResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if tr.Code != 0 {
		return nil, fmt.Errorf("tushare error %d: %s", tr.Code, tr.Msg)
	}

	return &domain.Dataset{Fields: tr.Data.Fields, Rows: tr.Data.Items}, nil
}
