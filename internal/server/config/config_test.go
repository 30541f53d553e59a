package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, ":8001", cfg.EndpointAddr)
	require.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	require.NotEmpty(t, cfg.DatabaseDSN)
	require.NotEmpty(t, cfg.SecretKey)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("TRAINHUB_ADDRESS", ":9999")
	t.Setenv("TRAINHUB_SECRET_KEY", "prod-secret")
	t.Setenv("TRAINHUB_TOKEN_MINUTES", "5")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, ":9999", cfg.EndpointAddr)
	require.Equal(t, "prod-secret", cfg.SecretKey)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
}

func TestParseEnv_BadTokenMinutesIgnored(t *testing.T) {
	t.Setenv("TRAINHUB_TOKEN_MINUTES", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
}
