// Package dashboard is the gateway's own consumer: an API client plus
// tabular rendering of search results.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"
)

// Client wraps the gateway's HTTP API.
type Client struct {
	http *resty.Client
}

// errorBody is the gateway's JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// NewClient builds a dashboard client for the gateway at baseURL,
// authenticating every API call with the shared token.
func NewClient(baseURL, token string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", token).
		SetTimeout(30 * time.Second)
	return &Client{http: rc}
}

// Healthz probes the gateway. The endpoint answers with plain text, not
// JSON, so this only checks reachability and status.
func (c *Client) Healthz(ctx context.Context) error {
	res, err := c.http.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("health check failed with status %s", res.Status())
	}
	return nil
}

// Info describes the account the gateway serves.
type Info struct {
	Client     string `json:"client"`
	CustomerID string `json:"customer_id"`
	MCCID      string `json:"mcc_id"`
}

// Info fetches the gateway's account details.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var info Info
	var apiErr errorBody
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&info).
		SetError(&apiErr).
		Get("/api/info")
	if err != nil {
		return nil, fmt.Errorf("info request failed: %w", err)
	}
	if res.IsError() {
		return nil, apiErrf(res.Status(), apiErr)
	}
	return &info, nil
}

// SearchRequest is the payload for one reporting query.
type SearchRequest struct {
	CustomerID string   `json:"customer_id,omitempty"`
	Query      string   `json:"query"`
	Fields     []string `json:"fields"`
}

type searchResult struct {
	Result []map[string]any `json:"result"`
}

// Search runs one query through the gateway and returns the formatted
// rows.
func (c *Client) Search(ctx context.Context, req *SearchRequest) ([]map[string]any, error) {
	var out searchResult
	var apiErr errorBody
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/search")
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if res.IsError() {
		return nil, apiErrf(res.Status(), apiErr)
	}
	return out.Result, nil
}

// apiErrf prefers the gateway's error envelope over the bare status.
func apiErrf(status string, body errorBody) error {
	if body.Error != "" {
		return fmt.Errorf("gateway error: %s", body.Error)
	}
	return fmt.Errorf("gateway request failed with status %s", status)
}
