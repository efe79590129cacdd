package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Creates a temporary YAML config file in a temporary directory.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err, "Failed to write temporary config file")

	return configPath
}

func TestLoad(t *testing.T) {
	validYAML := `
env: "test"
backend:
  base_url: "http://shop.test/api"
  timeout: 5s
  demo_user_id: 7
shipping:
  free_threshold: 40000
  flat_fee: 1999
payment_sim:
  success_rate: 0.5
  processing_delay: 10ms
  approval_delay: 5ms
  wallet_balance: 100000
redis:
  addr: "localhost:6379"
ops:
  addr: ":9191"
`

	t.Run("Success - Valid Config File", func(t *testing.T) {
		configPath := createTempConfigFile(t, validYAML)

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, "http://shop.test/api", cfg.Backend.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, int64(7), cfg.Backend.DemoUserID)
		assert.Equal(t, int64(40000), cfg.Shipping.FreeThreshold)
		assert.Equal(t, int64(1999), cfg.Shipping.FlatFee)
		assert.InDelta(t, 0.5, cfg.PaymentSim.SuccessRate, 1e-9)
		assert.Equal(t, 10*time.Millisecond, cfg.PaymentSim.ProcessingDelay)
		assert.Equal(t, int64(100000), cfg.PaymentSim.WalletBalance)
		assert.True(t, cfg.Redis.Enabled())
		assert.Equal(t, ":9191", cfg.Ops.Addr)
	})

	t.Run("Failure - Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, int64(1), cfg.Backend.DemoUserID)
	assert.Equal(t, int64(50000), cfg.Shipping.FreeThreshold)
	assert.Equal(t, int64(2999), cfg.Shipping.FlatFee)
	assert.InDelta(t, 0.95, cfg.PaymentSim.SuccessRate, 1e-9)
	assert.Equal(t, 3*time.Second, cfg.PaymentSim.ProcessingDelay)
	assert.Equal(t, 2*time.Second, cfg.PaymentSim.ApprovalDelay)
	assert.Equal(t, int64(150000), cfg.PaymentSim.WalletBalance)
	assert.False(t, cfg.Redis.Enabled())
}

func TestShippingAmounts(t *testing.T) {
	s := Shipping{FreeThreshold: 50000, FlatFee: 2999}

	assert.Equal(t, "50000", s.FreeThresholdAmount().String())
	assert.Equal(t, "2999", s.FlatFeeAmount().String())
}
