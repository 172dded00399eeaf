package gads

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setFullEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvClientID, "client-id")
	t.Setenv(EnvClientSecret, "client-secret")
	t.Setenv(EnvRefreshToken, "refresh-token")
	t.Setenv(EnvDeveloperToken, "dev-token")
	t.Setenv(EnvLoginCustomerID, "1234567890")
}

func TestConfigFromEnv_Complete(t *testing.T) {
	setFullEnv(t)

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, "client-id", cfg.ClientID)
	require.Equal(t, "refresh-token", cfg.RefreshToken)
	require.Equal(t, "1234567890", cfg.LoginCustomerID)
}

func TestConfigFromEnv_LoginCustomerIDIsOptional(t *testing.T) {
	setFullEnv(t)
	t.Setenv(EnvLoginCustomerID, "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Empty(t, cfg.LoginCustomerID)
}

func TestConfigFromEnv_NamesEveryMissingVariable(t *testing.T) {
	setFullEnv(t)
	t.Setenv(EnvClientSecret, "")
	t.Setenv(EnvDeveloperToken, "")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	require.Contains(t, err.Error(), EnvClientSecret)
	require.Contains(t, err.Error(), EnvDeveloperToken)
	require.NotContains(t, err.Error(), EnvClientID)
}
