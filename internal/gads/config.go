// Package gads holds the advertising-platform collaborators: OAuth
// credential configuration, the REST reporting client, and the packaged
// reporting-field metadata.
package gads

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables the credential loader reads.
const (
	EnvClientID        = "GOOGLE_ADS_CLIENT_ID"
	EnvClientSecret    = "GOOGLE_ADS_CLIENT_SECRET"
	EnvRefreshToken    = "GOOGLE_ADS_REFRESH_TOKEN"
	EnvDeveloperToken  = "GOOGLE_ADS_DEVELOPER_TOKEN"
	EnvLoginCustomerID = "GOOGLE_ADS_LOGIN_CUSTOMER_ID"
)

// readOnlyScope limits issued tokens to the reporting surface.
const readOnlyScope = "https://www.googleapis.com/auth/adwords"

// tokenURL is where refresh tokens are exchanged for access tokens.
const tokenURL = "https://oauth2.googleapis.com/token"

// Config carries the credentials the reporting client needs.
type Config struct {
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	DeveloperToken  string
	LoginCustomerID string // optional; manager account for API access
}

// ConfigFromEnv loads credentials from the environment. Missing values
// fail immediately and name every absent variable, so a misconfigured
// deployment dies at startup instead of limping along.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		ClientID:        os.Getenv(EnvClientID),
		ClientSecret:    os.Getenv(EnvClientSecret),
		RefreshToken:    os.Getenv(EnvRefreshToken),
		DeveloperToken:  os.Getenv(EnvDeveloperToken),
		LoginCustomerID: os.Getenv(EnvLoginCustomerID),
	}

	var missing []string
	for _, v := range []struct{ name, value string }{
		{EnvClientID, cfg.ClientID},
		{EnvClientSecret, cfg.ClientSecret},
		{EnvRefreshToken, cfg.RefreshToken},
		{EnvDeveloperToken, cfg.DeveloperToken},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing Google Ads credentials: set %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
