// Package client implements an HTTP client for the dashboard API, used by
// the exporter CLI to pull reports from a running server.
package client

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"store-dashboard-go/internal/config"
	"store-dashboard-go/internal/report"
)

const dateLayout = "2006-01-02"

// ClientInterface defines the operations the exporter needs from the API.
type ClientInterface interface {
	GetStatus(ctx context.Context) error
	GetSummary(ctx context.Context, start, end time.Time) (*SummaryResponse, error)
	DownloadCSV(ctx context.Context, name string, start, end time.Time) ([]byte, error)
}

// SummaryResponse mirrors the /api/reports/summary payload.
type SummaryResponse struct {
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	Summary    report.Summary    `json:"summary"`
	Comparison report.Comparison `json:"comparison"`
}

// Client talks to the dashboard API over HTTP.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new dashboard API client.
func NewClient(cfg *config.Exporter, logger *zap.Logger) *Client {
	return &Client{
		client:  resty.New().SetBaseURL(cfg.BaseURL),
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
	}
}

// GetStatus checks that the server is reachable and healthy.
func (c *Client) GetStatus(ctx context.Context) error {
	req := c.client.R().SetContext(ctx)
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/status", req); err != nil {
		return fmt.Errorf("failed to get server status: %w", err)
	}
	return nil
}

// GetSummary fetches the totals and comparison for a date range.
func (c *Client) GetSummary(ctx context.Context, start, end time.Time) (*SummaryResponse, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("start", start.Format(dateLayout)).
		SetQueryParam("end", end.Format(dateLayout)).
		SetResult(&SummaryResponse{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/reports/summary", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return resp.Result().(*SummaryResponse), nil
}

// DownloadCSV fetches one of the CSV exports (sales, expenses or summary).
func (c *Client) DownloadCSV(ctx context.Context, name string, start, end time.Time) ([]byte, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("start", start.Format(dateLayout)).
		SetQueryParam("end", end.Format(dateLayout))

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/export/"+name+".csv", req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s export: %w", name, err)
	}
	return resp.Body(), nil
}

// doRequest executes a request with rate limiting and retry on transient
// failures (5xx, 429, network errors).
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	var lastStatus string
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && err == nil {
			statusCode := resp.StatusCode()
			lastStatus = resp.Status()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		} else {
			// Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
	}
	return nil, fmt.Errorf("request failed after %d attempts: last status %s", maxRetries, lastStatus)
}
