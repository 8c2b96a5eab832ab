package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yolodolo42/solkeys/internal/chain"
	"github.com/yolodolo42/solkeys/internal/wallet"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	configDirName   = ".solkeys"
	envPrefix       = "SOLKEYS"
	defaultLogLevel = "warn"
)

// Config is the typed view of viper settings (flags, env, config.yaml).
// Mnemonic and Passphrase are only ever read from env or config file.
type Config struct {
	Cluster        string
	LogLevel       string
	Mnemonic       string
	Passphrase     string
	DerivationPath string
	DataDir        string
}

// LoadConfig reads the current viper state and applies defaults.
func LoadConfig() Config {
	cfg := Config{
		Cluster:        viper.GetString("cluster"),
		LogLevel:       viper.GetString("log_level"),
		Mnemonic:       viper.GetString("mnemonic"),
		Passphrase:     viper.GetString("passphrase"),
		DerivationPath: viper.GetString("derivation_path"),
		DataDir:        viper.GetString("data_dir"),
	}
	if cfg.Cluster == "" {
		cfg.Cluster = chain.DefaultCluster
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.DerivationPath == "" {
		cfg.DerivationPath = wallet.DefaultPathTemplate
	}
	if cfg.DataDir == "" {
		cfg.DataDir = getDataDir()
	}
	return cfg
}

// Validate checks settings that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if _, err := chain.Lookup(c.Cluster); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if _, err := wallet.PathForSlot(c.DerivationPath, 0); err != nil {
		return err
	}
	return nil
}

// ClusterConfig returns the configured cluster.
func (c Config) ClusterConfig() (*chain.ClusterConfig, error) {
	return chain.Lookup(c.Cluster)
}

// NewLogger builds a console logger at the configured level writing to
// outputPath ("stderr" for one-shot commands, a file for the shell).
func (c Config) NewLogger(outputPath string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{outputPath}
	zcfg.ErrorOutputPaths = []string{outputPath}
	return zcfg.Build()
}

// WalletConfig maps settings onto a keyring configuration.
func (c Config) WalletConfig(logger *zap.Logger) wallet.Config {
	return wallet.Config{
		Passphrase:   c.Passphrase,
		PathTemplate: c.DerivationPath,
		Logger:       logger,
	}
}

func bindEnv() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func getDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(home, configDirName)
}
