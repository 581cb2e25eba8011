package bunjang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/simbatda/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	suggestPath = "/api/1/search/suggests_keyword.json"
	searchPath  = "/api/1/find_v2.json"
	detailPath  = "/api/pms/v3/products-detail/"
)

// Browser-masquerade headers; the API rejects obviously non-browser traffic.
const (
	webOrigin = "https://m.bunjang.co.kr"
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"
)

// Client performs raw HTTP access against the Bunjang API. It owns endpoint
// templates, headers and parameter encoding, and never interprets response
// bodies beyond reading them.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      domain.TokenSource
	rateLimiter *rate.Limiter
}

// NewClient creates a new Bunjang API client. tokens may be nil, in which
// case authenticated endpoints are called with an empty token.
func NewClient(baseURL string, timeout time.Duration, tokens domain.TokenSource) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		tokens:      tokens,
		rateLimiter: rate.NewLimiter(rate.Limit(5), 10),
	}
}

// FetchAutocomplete retrieves raw keyword suggestions for a query.
func (c *Client) FetchAutocomplete(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Add("v", "2")
	params.Add("type", "product")
	params.Add("q", query)

	return c.get(ctx, "autocomplete", suggestPath, params, nil)
}

// SearchListings retrieves a raw listing page for a query.
func (c *Client) SearchListings(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("order", "score")
	params.Add("page", "0")
	params.Add("n", "100")
	params.Add("stat_device", "w")
	params.Add("stat_category_required", "1")
	params.Add("req_ref", "search")
	params.Add("version", "5")

	return c.get(ctx, "search", searchPath, params, nil)
}

// FetchItemDetail retrieves the raw detail payload for one product id. The
// auth token header is sent even when empty, matching browser behavior.
func (c *Client) FetchItemDetail(ctx context.Context, itemID string) (json.RawMessage, error) {
	token := ""
	if c.tokens != nil {
		var err error
		token, err = c.tokens.Token(ctx, domain.PlatformBunjang)
		if err != nil {
			log.Printf("[BUNJANG] token lookup failed, continuing anonymously: %v", err)
			token = ""
		}
	}

	params := url.Values{}
	params.Add("viewerUid", "-1")

	extra := map[string]string{"x-bun-auth-token": token}
	return c.get(ctx, "detail", detailPath+url.PathEscape(itemID), params, extra)
}

// get executes a GET with retries; any non-2xx status or transport failure
// becomes a ConnectorError for the given operation.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values, extraHeaders map[string]string) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, c.connectorError(operation, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, c.connectorError(operation, err)
		}
		req.Header.Set("accept", "application/json, text/plain, */*")
		req.Header.Set("accept-language", "ko,en;q=0.9")
		req.Header.Set("origin", webOrigin)
		req.Header.Set("referer", webOrigin+"/")
		req.Header.Set("user-agent", userAgent)
		for k, v := range extraHeaders {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[BUNJANG] %s request error (attempt %d): %v", operation, attempt, err)
			lastErr = err
			sleep(ctx, retryBackoff(attempt))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			sleep(ctx, retryBackoff(attempt))
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			log.Printf("[BUNJANG] %s status %d (attempt %d)", operation, resp.StatusCode, attempt)
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break // client-side rejection will not heal on retry
			}
			sleep(ctx, retryBackoff(attempt))
			continue
		}

		return json.RawMessage(body), nil
	}

	return nil, c.connectorError(operation, lastErr)
}

func (c *Client) connectorError(operation string, cause error) error {
	return &domain.ConnectorError{
		Platform:  domain.PlatformBunjang,
		Operation: operation,
		Err:       cause,
	}
}

// retryBackoff doubles the wait per attempt: 500ms, 1s, 2s.
func retryBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}

// sleep waits for d or until the request is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
