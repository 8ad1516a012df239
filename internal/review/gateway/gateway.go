// Package gateway fetches review records from a running portal over HTTP.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/review/model"
	"github.com/konkursant/portal/pkg/retry"
)

// Header names understood by the portal API.
const (
	userIDHeader    = "X-User-ID"
	requestIDHeader = "X-Request-ID"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 32 << 20

// Config holds portal API client settings.
type Config struct {
	BaseURL string
	UserID  int64
	Timeout time.Duration
	Retry   retry.Config
}

// Validate checks that the client can be built from the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("portal base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid portal base URL %q", c.BaseURL)
	}
	if c.UserID <= 0 {
		return errors.New("user ID must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return errors.New("retry max attempts must be positive")
	}
	return nil
}

// APIError is a non-2xx response from the portal.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("portal API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("portal API returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client fetches review records from the portal API.
type Client struct {
	baseURL *url.URL
	userID  int64
	http    *http.Client
	retry   retry.Config
	logger  *zap.SugaredLogger
}

var _ model.Fetcher = (*Client)(nil)

// New creates a portal API client.
func New(cfg Config, httpClient *http.Client, logger *zap.SugaredLogger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	retryCfg := cfg.Retry
	retryCfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warnw("portal request failed, retrying", "attempt", attempt, "delay", delay, "error", err)
	}

	return &Client{
		baseURL: base,
		userID:  cfg.UserID,
		http:    &http.Client{Transport: httpClient.Transport, Timeout: cfg.Timeout},
		retry:   retryCfg,
		logger:  logger,
	}, nil
}

// FetchReviewsForProject returns the records of one project in submission order.
func (c *Client) FetchReviewsForProject(ctx context.Context, projectID int64) ([]model.ReviewRecord, error) {
	return c.fetch(ctx, "/reviews/"+strconv.FormatInt(projectID, 10))
}

// FetchAllVerifiedReviews returns a flat multi-project feed of every submitted record.
func (c *Client) FetchAllVerifiedReviews(ctx context.Context) ([]model.ReviewRecord, error) {
	return c.fetch(ctx, "/reviews/verified_projects")
}

func (c *Client) fetch(ctx context.Context, path string) ([]model.ReviewRecord, error) {
	endpoint := c.baseURL.JoinPath(path).String()
	c.logger.Debugw("fetching reviews", "url", endpoint)

	resp, err := retry.DoWithResult(ctx, c.retry, func() (*model.ReviewsResponse, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	if resp.Reviews == nil {
		resp.Reviews = []model.ReviewRecord{}
	}
	c.logger.Debugw("fetched reviews", "url", endpoint, "count", len(resp.Reviews))
	return resp.Reviews, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*model.ReviewsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(userIDHeader, strconv.FormatInt(c.userID, 10))
	req.Header.Set(requestIDHeader, uuid.NewString())

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		apiErr := decodeAPIError(res.StatusCode, body)
		if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
			return nil, apiErr
		}
		return nil, retry.Permanent(apiErr)
	}

	var out model.ReviewsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decode reviews: %w", err))
	}
	return &out, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
