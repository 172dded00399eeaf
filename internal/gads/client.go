package gads

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"resty.dev/v3"

	"github.com/vk/adsgateway/internal/ctxlog"
)

const (
	defaultEndpoint = "https://googleads.googleapis.com"
	apiVersion      = "v21"
)

// Row is one result row as returned by the reporting API's REST surface:
// a JSON object keyed by lowerCamel resource names.
type Row = map[string]any

// SearchService is the slice of the platform client the gateway needs.
// The concrete transport stays behind this boundary; handlers and tests
// only ever see the interface.
type SearchService interface {
	Search(ctx context.Context, customerID, query string) ([]Row, error)
}

// Client talks to the reporting API over REST. It deliberately carries no
// retry, paging, or caching logic; callers bound result size with a LIMIT
// clause in the query itself.
type Client struct {
	http     *resty.Client
	endpoint string
	base     *http.Client
}

// Option adjusts client construction, mainly for tests.
type Option func(*Client)

// WithEndpoint points the client at a different API host.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient replaces the OAuth-wrapped transport entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.base = hc }
}

// NewClient builds a reporting client from credentials. Tokens are minted
// lazily from the refresh token on first use and refreshed as they
// expire; the token exchange itself belongs to the oauth2 transport, not
// to this package.
func NewClient(ctx context.Context, cfg *Config, opts ...Option) *Client {
	c := &Client{endpoint: defaultEndpoint}
	for _, opt := range opts {
		opt(c)
	}

	if c.base == nil {
		oc := oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
			Scopes:       []string{readOnlyScope},
		}
		ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		c.base = oauth2.NewClient(ctx, ts)
	}

	c.http = resty.NewWithClient(c.base).
		SetBaseURL(c.endpoint).
		SetHeader("developer-token", cfg.DeveloperToken)
	if cfg.LoginCustomerID != "" {
		c.http.SetHeader("login-customer-id", cfg.LoginCustomerID)
	}
	return c
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results       []Row  `json:"results"`
	FieldMask     string `json:"fieldMask"`
	NextPageToken string `json:"nextPageToken"`
}

// apiError is the platform's standard error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Search runs one reporting query against the given customer account and
// returns its rows.
func (c *Client) Search(ctx context.Context, customerID, query string) ([]Row, error) {
	logger := ctxlog.FromContext(ctx)

	var out searchResponse
	var apiErr apiError
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(searchRequest{Query: query}).
		SetResult(&out).
		SetError(&apiErr).
		Post(fmt.Sprintf("/%s/customers/%s/googleAds:search", apiVersion, customerID))
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if res.IsError() {
		if apiErr.Error.Message != "" {
			return nil, fmt.Errorf("search failed: %s (%s)", apiErr.Error.Message, apiErr.Error.Status)
		}
		return nil, fmt.Errorf("search failed with status %s", res.Status())
	}

	if out.NextPageToken != "" {
		// Paging is out of scope; the caller sees one page and the log
		// notes the truncation.
		logger.Warn("search result truncated to a single page", "customer_id", customerID)
	}
	logger.Debug("search completed", "customer_id", customerID, "rows", len(out.Results))
	return out.Results, nil
}
