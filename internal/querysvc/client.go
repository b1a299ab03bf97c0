// Package querysvc talks to the external ledger-query service: an
// HTTP API serving indexed logs, transactions, and blocks by declarative
// filter. No retries happen here; transport failures surface to the caller.
package querysvc

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// ServiceError is a failed query-service exchange.
type ServiceError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *ServiceError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("query service %s: status %d: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("query service %s: %s", e.Endpoint, e.Body)
}

// Client is a query-service connection for one chain.
type Client struct {
	endpoint   string
	httpClient *resty.Client
}

// NewClient builds a client bound to the given endpoint. No connection
// is established until the first query.
func NewClient(endpoint string) *Client {
	httpClient := resty.New().SetBaseURL(endpoint)
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Execute posts a query and returns the selected rows plus the archive
// height.
func (c *Client) Execute(ctx context.Context, query Query) (*Response, error) {
	var result Response
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(query).
		SetResult(&result).
		Post("/query")
	if err != nil {
		return nil, &ServiceError{Endpoint: c.endpoint, Body: err.Error()}
	}
	if resp.IsError() {
		return nil, &ServiceError{Endpoint: c.endpoint, Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return &result, nil
}

// Height returns the service's latest indexed block number.
func (c *Client) Height(ctx context.Context) (uint64, error) {
	var result struct {
		Height uint64 `json:"height"`
	}
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/height")
	if err != nil {
		return 0, &ServiceError{Endpoint: c.endpoint, Body: err.Error()}
	}
	if resp.IsError() {
		return 0, &ServiceError{Endpoint: c.endpoint, Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	return result.Height, nil
}
