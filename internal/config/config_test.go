package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "https://api.etherscan.io/v2/api", cfg.Etherscan.BaseURL)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.Solana.RPCURL)
	assert.Equal(t, "https://blockchain.info", cfg.Bitcoin.BaseURL)
	assert.Equal(t, "https://api.trongrid.io", cfg.Tron.BaseURL)
	assert.Equal(t, int64(10000), cfg.CoinGecko.RequestTimeoutMillis)
	assert.Equal(t, 30, cfg.Alchemy.MaxTokenHoldings)
}

func TestLoadConfigFileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: ":9000"
etherscan:
  requestTimeoutMillis: 5000
solana:
  signatureLimit: 250
`), 0o644))

	t.Setenv("ETHERSCAN_API_KEY", "test-key")
	t.Setenv("SOLANA_RPC_URL", "https://rpc.example.org")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, int64(5000), cfg.Etherscan.RequestTimeoutMillis)
	assert.Equal(t, 250, cfg.Solana.SignatureLimit)
	assert.Equal(t, "test-key", cfg.Etherscan.APIKey)
	assert.Equal(t, "https://rpc.example.org", cfg.Solana.RPCURL)
	assert.Equal(t, "openai", cfg.Insights.Provider)
	assert.Equal(t, "oa-key", cfg.Insights.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Insights.Model)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
