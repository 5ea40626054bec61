package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to a topicforge API server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	obs        *observer
}

// New creates a Client for the given base URL (scheme and host, no path).
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("sdk: base URL required")
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.apiKey,
		httpClient: hc,
		obs:        obs,
	}, nil
}

// ClusterTopics submits queries for clustering and returns ranked topics.
func (c *Client) ClusterTopics(ctx context.Context, req TopicsRequest) (resp *TopicsResponse, err error) {
	defer func(start time.Time) { c.obs.observe("cluster_topics", start, err) }(time.Now())

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("sdk: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/v1/topics", bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("sdk: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sdk: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, apiErrorFrom(httpResp.StatusCode, httpResp.Body)
	}

	var out TopicsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("sdk: decode response: %w", err)
	}
	return &out, nil
}

// Usage fetches the embedding usage report. An empty period means "day";
// valid values are "day", "month" and "total".
func (c *Client) Usage(ctx context.Context, period string) (report *UsageReport, err error) {
	defer func(start time.Time) { c.obs.observe("usage", start, err) }(time.Now())

	url := c.baseURL + "/v1/usage"
	if period != "" {
		url += "?period=" + period
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("sdk: build request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sdk: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, apiErrorFrom(httpResp.StatusCode, httpResp.Body)
	}

	var out UsageReport
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("sdk: decode response: %w", err)
	}
	return &out, nil
}

// Health fetches the aggregated health report. A degraded server still
// returns a report; only transport failures return an error.
func (c *Client) Health(ctx context.Context) (status HealthStatus, err error) {
	defer func(start time.Time) { c.obs.observe("health", start, err) }(time.Now())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("sdk: build request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("sdk: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	var out HealthStatus
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return HealthStatus{}, fmt.Errorf("sdk: decode response: %w", err)
	}
	return out, nil
}

// apiErrorFrom decodes an error body into an APIError. A body that is not
// the standard error shape still yields an APIError with the HTTP status.
func apiErrorFrom(statusCode int, body io.Reader) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Code == "" {
		return &APIError{
			StatusCode: statusCode,
			Code:       "unknown",
			Message:    http.StatusText(statusCode),
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Code:       payload.Code,
		Message:    payload.Message,
	}
}
