// Package cms is a read-only client for the headless CMS that hosts the
// editorial copy of dictionary entries.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/provider"
)

const (
	apiKeyHeader   = "X-MICROCMS-API-KEY"
	serviceName    = "cms"
	defaultMaxBody = 10 << 20
)

// Client fetches raw documents from the CMS REST API.
type Client struct {
	baseURL    string
	apiKey     string
	endpoint   string
	retryDelay time.Duration
	maxBody    int64
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.CMSConfig, logger *slog.Logger) *Client {
	c := NewClientWithURL(cfg.BaseURL, cfg.APIKey, logger)
	if cfg.Endpoint != "" {
		c.endpoint = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		c.httpClient.Timeout = cfg.Timeout
	}
	c.retryDelay = cfg.RetryDelay
	if cfg.MaxBodyBytes > 0 {
		c.maxBody = cfg.MaxBodyBytes
	}
	return c
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		endpoint:   "words",
		retryDelay: 500 * time.Millisecond,
		maxBody:    defaultMaxBody,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", serviceName),
	}
}

// Fetch returns the raw body of a CMS resource relative to the base URL.
// Returns domain.ErrNotFound on 404 and *domain.UpstreamError on any other
// failure.
func (c *Client) Fetch(ctx context.Context, resourcePath string) ([]byte, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(resourcePath, "/")

	c.log.DebugContext(ctx, "cms request", slog.String("path", resourcePath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cms: create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req, resourcePath)
	if err != nil {
		c.log.ErrorContext(ctx, "cms request failed", slog.String("path", resourcePath), slog.String("error", err.Error()))
		return nil, &domain.UpstreamError{Service: serviceName, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("cms resource %s: %w", resourcePath, domain.ErrNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WarnContext(ctx, "cms unexpected status", slog.String("path", resourcePath), slog.Int("status", resp.StatusCode))
		return nil, &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Reason:  http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Status: resp.StatusCode, Reason: "read body: " + err.Error()}
	}
	if int64(len(body)) > c.maxBody {
		c.log.WarnContext(ctx, "cms response too large", slog.String("path", resourcePath), slog.Int64("limit", c.maxBody))
		return nil, &domain.UpstreamError{
			Service: serviceName,
			Status:  resp.StatusCode,
			Reason:  fmt.Sprintf("response body exceeds %d bytes", c.maxBody),
		}
	}

	c.log.DebugContext(ctx, "cms response",
		slog.String("path", resourcePath),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)

	return body, nil
}

// ListEntries returns one page of entries from the configured endpoint.
func (c *Client) ListEntries(ctx context.Context, offset, limit int) (*provider.Page, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.Fetch(ctx, c.endpoint+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var page provider.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Status: http.StatusOK, Reason: "decode list: " + err.Error()}
	}
	if page.Contents == nil {
		page.Contents = []json.RawMessage{}
	}
	return &page, nil
}

// GetEntry returns the raw document of a single entry.
func (c *Client) GetEntry(ctx context.Context, id string) ([]byte, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("id", "required")
	}
	return c.Fetch(ctx, c.endpoint+"/"+url.PathEscape(id))
}

// Ping checks that the CMS answers an authenticated request for the endpoint.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("limit", "1")
	q.Set("fields", "id")
	_, err := c.Fetch(ctx, c.endpoint+"?"+q.Encode())
	return err
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, path string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "cms retry", slog.String("path", path), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	return c.httpClient.Do(req)
}
