package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yolodolo42/solkeys/internal/chain"
	"github.com/yolodolo42/solkeys/internal/testutil"
	"github.com/yolodolo42/solkeys/internal/wallet"
	"go.uber.org/zap"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		resetViper(t)
		for _, k := range []string{"SOLKEYS_CLUSTER", "SOLKEYS_LOG_LEVEL", "SOLKEYS_MNEMONIC", "SOLKEYS_DERIVATION_PATH", "SOLKEYS_DATA_DIR"} {
			testutil.UnsetEnv(t, k)
		}
		bindEnv()

		cfg := LoadConfig()
		assert.Equal(t, chain.DefaultCluster, cfg.Cluster)
		assert.Equal(t, defaultLogLevel, cfg.LogLevel)
		assert.Equal(t, wallet.DefaultPathTemplate, cfg.DerivationPath)
		assert.Empty(t, cfg.Mnemonic)
		assert.NotEmpty(t, cfg.DataDir)
		require.NoError(t, cfg.Validate())
	})

	t.Run("environment overrides", func(t *testing.T) {
		resetViper(t)
		testutil.SetEnv(t, "SOLKEYS_CLUSTER", "devnet")
		testutil.SetEnv(t, "SOLKEYS_LOG_LEVEL", "debug")
		testutil.SetEnv(t, "SOLKEYS_MNEMONIC", testMnemonic)
		testutil.SetEnv(t, "SOLKEYS_PASSPHRASE", "extra")
		testutil.SetEnv(t, "SOLKEYS_DERIVATION_PATH", "m/44'/501'/0'/{slot}'")
		bindEnv()

		cfg := LoadConfig()
		assert.Equal(t, "devnet", cfg.Cluster)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, testMnemonic, cfg.Mnemonic)
		assert.Equal(t, "extra", cfg.Passphrase)
		assert.Equal(t, "m/44'/501'/0'/{slot}'", cfg.DerivationPath)
		require.NoError(t, cfg.Validate())

		wc := cfg.WalletConfig(zap.NewNop())
		assert.Equal(t, "extra", wc.Passphrase)
		assert.Equal(t, cfg.DerivationPath, wc.PathTemplate)
	})

	t.Run("config file", func(t *testing.T) {
		resetViper(t)
		dir := testutil.TempDir(t)
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cluster: testnet\nlog_level: info\n"), 0o600))

		viper.SetConfigFile(path)
		require.NoError(t, viper.ReadInConfig())

		cfg := LoadConfig()
		assert.Equal(t, "testnet", cfg.Cluster)
		assert.Equal(t, "info", cfg.LogLevel)
	})
}

func TestConfig_Validate(t *testing.T) {
	base := Config{Cluster: "devnet", LogLevel: "warn", DerivationPath: wallet.DefaultPathTemplate}
	require.NoError(t, base.Validate())

	bad := base
	bad.Cluster = "moonnet"
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogLevel = "loud"
	assert.Error(t, bad.Validate())

	bad = base
	bad.DerivationPath = "m/44'/501'/0'/0'"
	assert.ErrorIs(t, bad.Validate(), wallet.ErrInvalidPath)
}

func TestConfig_NewLogger(t *testing.T) {
	path := filepath.Join(testutil.TempDir(t), "shell.log")
	cfg := Config{LogLevel: "info"}

	logger, err := cfg.NewLogger(path)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "shown")
	assert.NotContains(t, string(b), "hidden")

	_, err = Config{LogLevel: "loud"}.NewLogger(path)
	assert.Error(t, err)
}
