package app

import (
	"errors"
	"time"

	"github.com/vk/adsgateway/internal/gads"
)

// Environment variables read by the gateway itself; the platform
// credentials live in the gads package.
const (
	EnvAPIToken   = "ADS_GATEWAY_API_TOKEN"
	EnvCustomerID = "GOOGLE_ADS_CUSTOMER_ID"
)

// Validation errors surfaced by NewConfig.
var (
	ErrMissingAPIToken   = errors.New("APIToken is required; set " + EnvAPIToken)
	ErrMissingCustomerID = errors.New("CustomerID is required; set " + EnvCustomerID)
	ErrMissingAdsConfig  = errors.New("platform credentials are required")
)

// Config holds everything one gateway instance needs to serve requests.
type Config struct {
	ListenAddr string
	APIToken   string // shared secret the dashboard presents as x-api-key
	CustomerID string // default account queried when a request names none

	LogFormat string
	LogLevel  string

	ShutdownTimeout time.Duration

	Ads *gads.Config
}

// NewConfig validates a Config and applies defaults. Configuration
// problems are startup problems: nothing here is silently defaulted to a
// guess.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.APIToken == "" {
		return nil, ErrMissingAPIToken
	}
	if cfg.CustomerID == "" {
		return nil, ErrMissingCustomerID
	}
	if cfg.Ads == nil {
		return nil, ErrMissingAdsConfig
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	return &cfg, nil
}
