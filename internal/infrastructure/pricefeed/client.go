package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kazen/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	maxAttempts  = 3
	maxBodyBytes = 4 << 20
	pageSize     = 500
)

// Client pulls store prices from the remote partner feed
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	debug       bool
	backoff     func(attempt int) time.Duration
}

// NewClient creates a new price feed client limited to requestsPerSecond.
// A non-positive rate falls back to one request per second.
func NewClient(apiKey, baseURL string, requestsPerSecond float64, logger *slog.Logger) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 5),
		logger:      logger.With("component", "pricefeed"),
		backoff:     exponentialBackoff,
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(msg string, args ...any) {
	if c.debug {
		c.logger.Debug(msg, args...)
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// FetchPrices walks every page of the feed and returns the mapped rows
func (c *Client) FetchPrices(ctx context.Context) ([]domain.PriceSnapshot, error) {
	var rows []domain.PriceSnapshot

	for page := 1; ; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		rows = append(rows, mapPrices(resp.Prices)...)

		if resp.TotalPages <= page || len(resp.Prices) == 0 {
			break
		}
	}

	c.logger.Info("price feed fetched", "rows", len(rows))
	return rows, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*feedResponse, error) {
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	params.Add("page", strconv.Itoa(page))
	params.Add("pageSize", strconv.Itoa(pageSize))
	reqURL := fmt.Sprintf("%s/v1/prices?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		c.debugLog("requesting price feed", "page", page, "attempt", attempt)
		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			c.logger.Warn("price feed request failed", "attempt", attempt, "error", err)
			lastErr = err
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		body, err := readLimitedBody(resp.Body, maxBodyBytes)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %v", domain.ErrPriceFeedFailure, err)
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrPriceFeedFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				c.logger.Error("price feed rejected request", "status", resp.StatusCode, "body", string(body))
				return nil, lastErr
			}
			c.logger.Warn("price feed error", "attempt", attempt, "status", resp.StatusCode)
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		var out feedResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrPriceFeedFailure, err)
		}
		return &out, nil
	}

	c.logger.Error("price feed retries exhausted", "page", page)
	return nil, lastErr
}

// doRequest executes an HTTP GET request with the feed headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Kazen/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceFeedFailure, err)
	}
	return resp, nil
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	if attempt >= maxAttempts {
		return nil
	}
	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

var errBodyTooLarge = errors.New("response body too large")

// readLimitedBody reads at most limit bytes and fails if more are available
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", errBodyTooLarge, limit)
	}
	return body, nil
}
