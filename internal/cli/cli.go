// Package cli parses gateway command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/adsgateway/internal/app"
	"github.com/vk/adsgateway/internal/gads"
)

// ExitError carries a specific process exit code alongside its message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments and the environment into a
// validated gateway configuration. The boolean result is true when the
// program should exit cleanly (help requested).
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("adsgateway", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
adsgateway - HTTP gateway for advertising reporting queries.

Credentials come from the environment: GOOGLE_ADS_CLIENT_ID,
GOOGLE_ADS_CLIENT_SECRET, GOOGLE_ADS_REFRESH_TOKEN,
GOOGLE_ADS_DEVELOPER_TOKEN, optionally GOOGLE_ADS_LOGIN_CUSTOMER_ID,
plus ADS_GATEWAY_API_TOKEN and GOOGLE_ADS_CUSTOMER_ID.

Usage:
  adsgateway [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	listenFlag := flagSet.String("listen", ":8080", "Address the HTTP API listens on.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	adsCfg, err := gads.ConfigFromEnv()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	config, err := app.NewConfig(app.Config{
		ListenAddr: *listenFlag,
		APIToken:   os.Getenv(app.EnvAPIToken),
		CustomerID: os.Getenv(app.EnvCustomerID),
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		Ads:        adsCfg,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}
