package healthapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"peak/internal/store"
)

// DefaultPerPage is the page size requested from the samples endpoint
const DefaultPerPage = 500

// Client is a health API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	perPage     int
}

// NewClient creates a client for the API at baseURL. A nil tokenSource
// sends unauthenticated requests.
func NewClient(baseURL string, tokenSource oauth2.TokenSource) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if tokenSource != nil {
		httpClient = oauth2.NewClient(context.Background(), tokenSource)
		httpClient.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		rateLimiter: NewRateLimiter(),
		perPage:     DefaultPerPage,
	}
}

// FetchSamples returns every sample of kind whose interval intersects
// [start, end). Pages are followed until the API reports no next page.
func (c *Client) FetchSamples(ctx context.Context, kind store.SampleKind, start, end time.Time) ([]store.RawSample, error) {
	var samples []store.RawSample
	page := 1

	for page > 0 {
		result, err := c.getSamplePage(ctx, kind, start, end, page)
		if err != nil {
			return nil, fmt.Errorf("fetching %s page %d: %w", kind, page, err)
		}

		for _, s := range result.Samples {
			raw, ok := convertSample(s)
			if !ok || raw.Kind != kind {
				continue
			}
			samples = append(samples, raw)
		}

		if result.NextPage <= page {
			break // Last page
		}
		page = result.NextPage
	}

	return samples, nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (minuteRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) getSamplePage(ctx context.Context, kind store.SampleKind, start, end time.Time, page int) (*SamplePage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("type", typeName(kind))
	params.Set("start", start.UTC().Format(time.RFC3339Nano))
	params.Set("end", end.UTC().Format(time.RFC3339Nano))
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(c.perPage))

	resp, err := c.get(ctx, "/v1/samples", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result SamplePage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding samples: %w", err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Update rate limiter from response headers
	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return resp, nil
}

// APIError is a non-200 response from the health API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Unauthorized reports whether access was denied or revoked
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
