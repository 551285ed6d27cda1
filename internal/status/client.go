package status

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rileyhilliard/perimeter/internal/errors"
)

// maxBodyBytes caps how much of a response we read. Status payloads are tiny.
const maxBodyBytes = 1 << 20

// Fetcher retrieves one status snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Client fetches snapshots from a status endpoint over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient swaps the underlying http.Client (tests use httptest clients).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for endpoint. A zero timeout means requests are
// only bounded by the context passed to Fetch.
func NewClient(endpoint string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "perimeter",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL this client polls.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch performs one GET against the status endpoint.
//
// A non-2xx response whose body still decodes as a snapshot (the backend's
// {"status":"error"} shape) is returned without error so callers can treat it
// as a non-success tag. Anything else that goes wrong is an ErrFetch error.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Couldn't build a request for %s", c.endpoint),
			"Check the endpoint URL in your config.")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Status endpoint %s is unreachable", c.endpoint))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read status response")
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, errors.New(errors.ErrFetch,
				fmt.Sprintf("Status endpoint returned %s", resp.Status),
				"Check the server logs; the response wasn't a status payload.")
		}
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Status response isn't valid JSON",
			"Make sure the endpoint points at /api/status.")
	}

	return &snap, nil
}
