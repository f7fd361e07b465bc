package config

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, "signet.db", cfg.DatabaseFile)
	assert.Equal(t, "solana:localnet", cfg.NetworkID)
	assert.Equal(t, 8080, cfg.QueryServerPort)
}

func TestSaveAndLoad(t *testing.T) {
	home := t.TempDir()

	cfg, err := Default()
	require.NoError(t, err)
	cfg.AdminAddress = solana.NewWallet().PublicKey().String()
	cfg.InitialDeposit = 2500
	cfg.QueryServerPort = 9090

	require.NoError(t, Save(&cfg, home))

	loaded, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, cfg.AdminAddress, loaded.AdminAddress)
	assert.Equal(t, uint64(2500), loaded.InitialDeposit)
	assert.Equal(t, 9090, loaded.QueryServerPort)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	t.Run("defaults applied to an empty config", func(t *testing.T) {
		var cfg Config
		require.NoError(t, validateConfig(&cfg))
		assert.Equal(t, "console", cfg.LogFormat)
		assert.Equal(t, "signet.db", cfg.DatabaseFile)
		assert.Equal(t, "solana:localnet", cfg.NetworkID)
		assert.Equal(t, 8080, cfg.QueryServerPort)
		assert.Equal(t, 3600, cfg.EventCleanupIntervalSeconds)
		assert.Equal(t, 86400, cfg.EventRetentionPeriodSeconds)
	})

	t.Run("log level out of range", func(t *testing.T) {
		cfg := Config{LogLevel: 6}
		require.Error(t, validateConfig(&cfg))
	})

	t.Run("unknown log format", func(t *testing.T) {
		cfg := Config{LogFormat: "xml"}
		require.Error(t, validateConfig(&cfg))
	})

	t.Run("admin address must be base58", func(t *testing.T) {
		cfg := Config{AdminAddress: "not-base58-0OIl"}
		require.Error(t, validateConfig(&cfg))
	})

	t.Run("admin address must decode to 32 bytes", func(t *testing.T) {
		cfg := Config{AdminAddress: "abc"}
		require.Error(t, validateConfig(&cfg))
	})

	t.Run("valid admin address accepted", func(t *testing.T) {
		cfg := Config{AdminAddress: solana.NewWallet().PublicKey().String()}
		require.NoError(t, validateConfig(&cfg))
	})
}
