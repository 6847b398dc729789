// Package health implements ports.HealthChecker against the backend HTTP API.
package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/peplab/pkg/ports"
)

// DefaultTimeout bounds a single probe when no client is supplied.
const DefaultTimeout = 3 * time.Second

// HTTPChecker probes GET {baseURL}/health. Only a 200 answer counts as healthy.
type HTTPChecker struct {
	url    string
	client *http.Client
}

var _ ports.HealthChecker = (*HTTPChecker)(nil)

// Option configures an HTTPChecker.
type Option func(*HTTPChecker)

// WithTimeout sets the client timeout for each probe.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPChecker) {
		if d > 0 && c.client != nil {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client entirely. A nil client is ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPChecker) {
		if client != nil {
			c.client = client
		}
	}
}

// NewHTTPChecker creates a checker for the backend rooted at baseURL.
func NewHTTPChecker(baseURL string, opts ...Option) *HTTPChecker {
	c := &HTTPChecker{
		url:    strings.TrimRight(baseURL, "/") + "/health",
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the probed endpoint.
func (c *HTTPChecker) URL() string {
	return c.url
}

// Client returns the HTTP client used for probes.
func (c *HTTPChecker) Client() *http.Client {
	return c.client
}

// Check implements ports.HealthChecker.
func (c *HTTPChecker) Check(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
