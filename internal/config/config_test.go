package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	for _, key := range []string{"PORT", "SOLANA_RPC_ENDPOINT", "GRADUATED_INDEX_BASE_URL"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()
	require.Equal(t, defaultPort, cfg.Port)
	require.Equal(t, defaultRPCEndpoint, cfg.SolanaRPCEndpoint)
	require.Equal(t, defaultGraduatedURL, cfg.GraduatedIndexBaseURL)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "9999")
	cfg := Load()
	require.Equal(t, "9999", cfg.Port)
}

func TestLoad_ReadsProviderCredentials(t *testing.T) {
	t.Setenv("GRADUATED_INDEX_API_KEY", "primary-key")
	t.Setenv("GRADUATED_INDEX_API_KEY_2", "fallback-key")

	cfg := Load()
	require.Equal(t, "primary-key", cfg.GraduatedIndexCreds.Primary)
	require.Equal(t, "fallback-key", cfg.GraduatedIndexCreds.Fallback1)
}
