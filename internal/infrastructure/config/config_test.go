package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAMLFile(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
mint:
  base_url: https://mint.example.com
  api_token: test-token
amazon:
  orders_path: /data/orders.csv
  returns_path: /data/returns.csv
  lookback_days: 30
storage:
  database_path: /tmp/test.db
observability:
  logging:
    level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://mint.example.com", cfg.Mint.BaseURL)
	assert.Equal(t, "test-token", cfg.Mint.APIToken)
	assert.Equal(t, "/data/orders.csv", cfg.Amazon.OrdersPath)
	assert.Equal(t, 30, cfg.Amazon.LookbackDays)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "mint:\n  api_token: ${TEST_MINT_TOKEN}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("TEST_MINT_TOKEN", "from-env")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Mint.APIToken)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadOrEnv_FallsBackToEnv(t *testing.T) {
	t.Setenv("MINT_API_TOKEN", "env-token")
	t.Setenv("AMAZON_LOOKBACK_DAYS", "45")

	cfg := LoadOrEnvWithPath("/nonexistent/config.yaml")

	assert.Equal(t, "env-token", cfg.Mint.APIToken)
	assert.Equal(t, 45, cfg.Amazon.LookbackDays)
	assert.Equal(t, "https://mint.intuit.com", cfg.Mint.BaseURL)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg := LoadFromEnv()

	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.NotEmpty(t, cfg.Storage.DatabasePath)
}
