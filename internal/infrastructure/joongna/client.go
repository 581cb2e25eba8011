package joongna

import (
	"bytes"
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
	autocompletePath = "/v25/search/autocomplete/keyword"

	webOrigin = "https://web.joongna.com"
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"
)

// Client performs raw HTTP access against Joongna. Autocomplete goes to the
// search API; listing and detail data come from the Next.js page-data
// endpoints, addressed by a frontend build identifier. The client does
// transport only and never interprets response content.
type Client struct {
	httpClient    *http.Client
	searchBaseURL string
	webBaseURL    string
	buildID       string
	rateLimiter   *rate.Limiter
}

// NewClient creates a new Joongna client.
func NewClient(searchBaseURL, webBaseURL, buildID string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		searchBaseURL: searchBaseURL,
		webBaseURL:    webBaseURL,
		buildID:       buildID,
		rateLimiter:   rate.NewLimiter(rate.Limit(5), 10),
	}
}

// FetchAutocomplete retrieves raw keyword suggestions. Unlike every other
// upstream call this one is a POST with a JSON body.
func (c *Client) FetchAutocomplete(ctx context.Context, query string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"keyword":    query,
		"keywordCnt": 10,
	})
	if err != nil {
		return nil, c.connectorError("autocomplete", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.searchBaseURL+autocompletePath, bytes.NewReader(payload))
	if err != nil {
		return nil, c.connectorError("autocomplete", err)
	}
	req.Header.Set("accept", "application/json, text/plain, */*")
	req.Header.Set("accept-language", "ko,en;q=0.9")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("origin", webOrigin)
	req.Header.Set("os-type", "2")
	req.Header.Set("referer", webOrigin+"/")
	req.Header.Set("user-agent", userAgent)

	return c.do(req, "autocomplete")
}

// SearchListings retrieves the raw page-data envelope for a search page.
func (c *Client) SearchListings(ctx context.Context, query string) (json.RawMessage, error) {
	encoded := url.PathEscape(query)
	reqURL := fmt.Sprintf("%s/_next/data/%s/search/%s.json", c.webBaseURL, c.buildID, encoded)

	params := url.Values{}
	params.Add("keywordSource", "SUGGESTED_KEYWORD")
	params.Add("keyword", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, c.connectorError("search", err)
	}
	c.setPageDataHeaders(req)
	req.Header.Set("referer", fmt.Sprintf("%s/search/%s", c.webBaseURL, encoded))

	return c.do(req, "search")
}

// FetchItemDetail retrieves the raw page-data envelope for one product.
func (c *Client) FetchItemDetail(ctx context.Context, itemID string) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s/_next/data/%s/product/%s.json", c.webBaseURL, c.buildID, url.PathEscape(itemID))

	params := url.Values{}
	params.Add("productSeq", itemID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, c.connectorError("detail", err)
	}
	c.setPageDataHeaders(req)
	req.Header.Set("referer", c.webBaseURL+"/")

	return c.do(req, "detail")
}

func (c *Client) setPageDataHeaders(req *http.Request) {
	req.Header.Set("accept", "*/*")
	req.Header.Set("accept-language", "ko,en;q=0.9")
	req.Header.Set("user-agent", userAgent)
	req.Header.Set("x-nextjs-data", "1")
}

// do executes the request with retries; any non-2xx status or transport
// failure becomes a ConnectorError for the given operation.
func (c *Client) do(req *http.Request, operation string) (json.RawMessage, error) {
	ctx := req.Context()

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, c.connectorError(operation, err)
		}

		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, c.connectorError(operation, err)
			}
			attemptReq.Body = body
		}

		resp, err := c.httpClient.Do(attemptReq)
		if err != nil {
			log.Printf("[JOONGNA] %s request error (attempt %d): %v", operation, attempt, err)
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
			log.Printf("[JOONGNA] %s status %d (attempt %d)", operation, resp.StatusCode, attempt)
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				break // a stale build id shows up as 404 and retrying cannot fix it
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
		Platform:  domain.PlatformJoongna,
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
