package vaultclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Mindburn-Labs/vaultsdk/pkg/observability"
)

// GraphQLError is one entry of a GraphQL errors array.
type GraphQLError struct {
	Message string         `json:"message"`
	Path    []any          `json:"path,omitempty"`
	Extra   map[string]any `json:"extensions,omitempty"`
}

// GraphQLResponse is a decoded GraphQL response. A non-empty Errors is a
// failure even when the HTTP status is 200.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// Failed reports whether the response carries errors.
func (r *GraphQLResponse) Failed() bool {
	return len(r.Errors) > 0
}

// GraphQLClient posts queries to the ops dashboard GraphQL endpoint using
// cookie authentication.
type GraphQLClient struct {
	url        string
	xsrfToken  string
	cookie     string
	httpClient *http.Client
	telemetry  *observability.Provider
}

// NewGraphQLClient creates a client for {opsDashURL}/graphql.
func NewGraphQLClient(opsDashURL, xsrfToken, cookie string) *GraphQLClient {
	return &GraphQLClient{
		url:        strings.TrimRight(opsDashURL, "/") + "/graphql",
		xsrfToken:  xsrfToken,
		cookie:     cookie,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (g *GraphQLClient) WithHTTPClient(hc *http.Client) *GraphQLClient {
	g.httpClient = hc
	return g
}

// WithTelemetry traces every request through p.
func (g *GraphQLClient) WithTelemetry(p *observability.Provider) *GraphQLClient {
	g.telemetry = p
	return g
}

// Execute posts an operation. Transport failures and non-2xx statuses are
// returned as errors; GraphQL errors are left on the response.
func (g *GraphQLClient) Execute(ctx context.Context, operationName, query string, variables map[string]any) (*GraphQLResponse, error) {
	ctx, finish := g.telemetry.TrackOperation(ctx, "vault.graphql", attribute.String("graphql.operation", operationName))
	resp, err := g.execute(ctx, operationName, query, variables)
	finish(err)
	return resp, err
}

func (g *GraphQLClient) execute(ctx context.Context, operationName, query string, variables map[string]any) (*GraphQLResponse, error) {
	body, err := json.Marshal(map[string]any{
		"operationName": operationName,
		"query":         query,
		"variables":     variables,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-xsrftoken", g.xsrfToken)
	req.Header.Set("cookie", g.cookie)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	var out GraphQLResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("vaultclient: decode graphql %s: %w", operationName, err)
	}
	return &out, nil
}
