// Package vaultclient provides typed clients for the Vault Core API, the
// Workflows API and the ops dashboard GraphQL endpoint.
package vaultclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/Mindburn-Labs/vaultsdk/pkg/observability"
)

// AuthHeader carries the service account token.
const AuthHeader = "X-Auth-Token"

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vault api %d: %s", e.Status, e.Body)
}

// Client is a Core API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	telemetry  *observability.Provider
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit caps the request rate. Every request waits on the limiter.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTelemetry traces every request through p.
func WithTelemetry(p *observability.Provider) Option {
	return func(c *Client) { c.telemetry = p }
}

// New creates a client for baseURL authenticating with authToken.
func New(baseURL, authToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     slog.Default().With("component", "vaultclient"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the URL requests are made against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a JSON request and decodes the response into out when out is
// non-nil. List values in params are sent as repeated query keys.
func (c *Client) Do(ctx context.Context, method, endpoint string, params map[string]any, body, out any) error {
	ctx, finish := c.telemetry.TrackOperation(ctx, "vault.http",
		attribute.String("http.method", method),
		attribute.String("http.route", endpoint),
	)
	err := c.do(ctx, method, endpoint, params, body, out)
	finish(err)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, params map[string]any, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("vaultclient: encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), c.endpointURL(endpoint, params), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set(AuthHeader, c.authToken)
	}

	c.logger.DebugContext(ctx, "request", "method", req.Method, "url", req.URL.Path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("vaultclient: decode %s %s: %w", req.Method, endpoint, err)
		}
	}
	return nil
}

// endpointURL joins endpoint onto the base URL with exactly one slash.
func (c *Client) endpointURL(endpoint string, params map[string]any) string {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) == 0 {
		return u
	}
	return u + "?" + encodeParams(params)
}

func encodeParams(params map[string]any) string {
	q := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := params[k].(type) {
		case nil:
		case []string:
			for _, s := range v {
				q.Add(k, s)
			}
		case []any:
			for _, s := range v {
				q.Add(k, fmt.Sprint(s))
			}
		default:
			q.Add(k, fmt.Sprint(v))
		}
	}
	return q.Encode()
}
