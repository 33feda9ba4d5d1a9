package salaryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"salarymap/internal/salary"
)

// ErrUnexpectedStatusCode indicates a non-success HTTP response.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

const defaultTimeout = 30 * time.Second

// AuthContext is the opaque cookie/header bundle loaded from secret storage
// and attached to every request.
type AuthContext struct {
	Cookies map[string]string `json:"cookies"`
	Headers map[string]string `json:"headers"`
}

// Client performs salary lookups against the upstream service.
type Client struct {
	http *resty.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// WithHTTPClient swaps the underlying HTTP transport, keeping the base URL
// and the auth context already attached.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient == nil {
			return
		}
		replaced := resty.NewWithClient(httpClient).SetBaseURL(c.http.BaseURL)
		replaced.Header = c.http.Header.Clone()
		replaced.SetCookies(c.http.Cookies)
		c.http = replaced
	}
}

// NewClient creates a client for the given base URL, attaching the auth
// context to every request.
func NewClient(baseURL string, auth AuthContext, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")

	for name, value := range auth.Headers {
		httpClient.SetHeader(name, value)
	}
	for name, value := range auth.Cookies {
		httpClient.SetCookie(&http.Cookie{Name: name, Value: value})
	}

	client := &Client{http: httpClient}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// LookupSalary issues one lookup keyed by (job title, country, locale,
// location). It returns the decoded response along with the verbatim body,
// which the extractor persists on success.
func (c *Client) LookupSalary(ctx context.Context, job string, city salary.CityTarget) (*Response, []byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"country":  city.Country,
			"locale":   city.Locale,
			"location": city.Location,
		}).
		Get("salaries/" + url.PathEscape(job))
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode())
	}

	body := resp.Body()

	var decoded Response
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return nil, body, fmt.Errorf("failed to decode response: %w", err)
	}

	return &decoded, body, nil
}
