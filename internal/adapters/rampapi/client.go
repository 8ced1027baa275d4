// Package rampapi talks to the remote card-product services: settings,
// holytags, assets/prices, conversions, on-ramp lifecycle and audit intake.
package rampapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/cardramp/ramp_sdk/pkg/logger"
	"github.com/cardramp/ramp_sdk/pkg/metrics"
	"github.com/cardramp/ramp_sdk/pkg/retry"
)

// Config holds the remote service endpoints and credentials.
type Config struct {
	CoreBaseURL   string // settings, tags, on-ramp, audit
	AssetsBaseURL string // assets, prices, conversions
	APIKey        string
	Timeout       time.Duration
	MaxRetries    int
}

// Client is the single HTTP client for all card-product services. One
// circuit breaker guards both hosts; retries apply to idempotent reads only.
type Client struct {
	config     Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	retrier    *retry.Retrier
	logger     *logger.Logger
}

// NewClient creates a ramp API client.
func NewClient(config Config, log *logger.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}

	st := gobreaker.Settings{
		Name:        "RampAPI",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	policy := retry.DefaultPolicy()
	policy.MaxRetries = config.MaxRetries
	policy.RetryableFunc = isTransient

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    gobreaker.NewCircuitBreaker(st),
		retrier:    retry.NewRetrier(policy, log.Zap()),
		logger:     log,
	}
}

// doCore issues a request against the core host.
func (c *Client) doCore(ctx context.Context, method, endpoint string, body, response interface{}) error {
	return c.doRequest(ctx, method, c.config.CoreBaseURL, endpoint, body, response)
}

// doAssets issues a request against the assets host.
func (c *Client) doAssets(ctx context.Context, method, endpoint string, body, response interface{}) error {
	return c.doRequest(ctx, method, c.config.AssetsBaseURL, endpoint, body, response)
}

// getCoreWithRetry retries idempotent core reads with exponential backoff.
func (c *Client) getCoreWithRetry(ctx context.Context, endpoint string, response interface{}) error {
	return c.retrier.Do(ctx, func() error {
		return c.doCore(ctx, http.MethodGet, endpoint, nil, response)
	})
}

// getAssetsWithRetry retries idempotent assets reads with exponential backoff.
func (c *Client) getAssetsWithRetry(ctx context.Context, endpoint string, response interface{}) error {
	return c.retrier.Do(ctx, func() error {
		return c.doAssets(ctx, http.MethodGet, endpoint, nil, response)
	})
}

// doRequest performs one HTTP round trip through the circuit breaker,
// decoding the service error envelope on non-2xx responses.
func (c *Client) doRequest(ctx context.Context, method, baseURL, endpoint string, body, response interface{}) error {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if !strings.HasPrefix(endpoint, "/v1/") {
		endpoint = "/v1" + endpoint
	}
	fullURL := baseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	c.logger.Debug("Sending ramp API request", "method", method, "url", fullURL)

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return &rawResponse{status: resp.StatusCode, body: respBody}, nil
	})
	metrics.RemoteCallDuration.WithLabelValues(endpoint, outcomeLabel(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	raw := result.(*rawResponse)
	c.logger.Debug("Received ramp API response", "status_code", raw.status, "body_size", len(raw.body))

	if raw.status >= 400 {
		var errResp ErrorResponse
		if jsonErr := json.Unmarshal(raw.body, &errResp); jsonErr == nil && errResp.Message != "" {
			errResp.StatusCode = raw.status
			return &errResp
		}
		return fmt.Errorf("API error: status %d, body: %s", raw.status, string(raw.body))
	}

	if response != nil && len(raw.body) > 0 {
		if err := json.Unmarshal(raw.body, response); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

type rawResponse struct {
	status int
	body   []byte
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// isTransient reports whether a request failure is worth retrying: network
// errors, 5xx responses, and a tripped breaker are; 4xx envelopes are not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := err.(*ErrorResponse); ok {
		return apiErr.StatusCode >= 500
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "status 5")
}
