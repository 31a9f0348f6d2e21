// Package gateway wraps the single external text-completion call. It performs
// no retries and mutates no core entity: retry policy belongs to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stderrors "relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/common/metrics"
)

// Generator is the gateway contract consumed by the categorization engine.
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (string, error)
}

type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		// Timeout is applied per call via context, not on the http.Client,
		// so the caller's context still wins when it is shorter.
		client: &http.Client{},
		logger: log.WithFields(map[string]interface{}{"component": "genai-gateway"}),
	}
}

// Generate performs one completion call and returns the raw response text.
// Error mapping: transport failure -> UPSTREAM_UNAVAILABLE, HTTP 429 ->
// UPSTREAM_RATE_LIMITED, context deadline -> UPSTREAM_TIMEOUT, empty or
// oversized body -> UPSTREAM_MALFORMED.
func (c *Client) Generate(ctx context.Context, genReq *GenerateRequest) (string, error) {
	start := time.Now()

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(genReq)
	if err != nil {
		return "", stderrors.NewUpstreamUnavailableError(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", stderrors.NewUpstreamUnavailableError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.GatewayCallsTotal.WithLabelValues("transport_error").Inc()
		if ctx.Err() != nil {
			return "", stderrors.NewUpstreamTimeoutError()
		}
		return "", stderrors.NewUpstreamUnavailableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.GatewayCallsTotal.WithLabelValues("rate_limited").Inc()
		return "", stderrors.NewUpstreamRateLimitedError(fmt.Sprintf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		metrics.GatewayCallsTotal.WithLabelValues("upstream_error").Inc()
		return "", stderrors.NewUpstreamUnavailableError(fmt.Errorf("status %d", resp.StatusCode))
	}

	// Read one byte past the cap so an over-limit body is detectable.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes+1))
	if err != nil {
		metrics.GatewayCallsTotal.WithLabelValues("read_error").Inc()
		if ctx.Err() != nil {
			return "", stderrors.NewUpstreamTimeoutError()
		}
		return "", stderrors.NewUpstreamUnavailableError(err)
	}
	if int64(len(raw)) > c.config.MaxResponseBytes {
		metrics.GatewayCallsTotal.WithLabelValues("oversized").Inc()
		return "", stderrors.NewUpstreamMalformedError(fmt.Sprintf("response exceeds %d bytes", c.config.MaxResponseBytes))
	}

	var apiResponse generateResponse
	if err := json.Unmarshal(raw, &apiResponse); err != nil {
		metrics.GatewayCallsTotal.WithLabelValues("malformed").Inc()
		return "", stderrors.NewUpstreamMalformedError(fmt.Sprintf("decode error: %v", err))
	}

	if strings.TrimSpace(apiResponse.Text) == "" {
		metrics.GatewayCallsTotal.WithLabelValues("empty").Inc()
		return "", stderrors.NewUpstreamMalformedError("empty response text")
	}

	metrics.GatewayCallsTotal.WithLabelValues("ok").Inc()
	metrics.GatewayCallDuration.Observe(time.Since(start).Seconds())

	c.logger.Debug("completion generated", map[string]interface{}{
		"bytes":      len(raw),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return apiResponse.Text, nil
}
