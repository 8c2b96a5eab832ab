package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yolodolo42/solkeys/internal/chain"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "solkeys",
		Short: "Terminal-first Solana keyring",
		Long: `solkeys is an in-memory Solana keyring for the terminal.

It derives accounts from a BIP-39 mnemonic, imports base58 secrets, and
signs pre-built transactions handed to it by swap and payment services.
Nothing is written to disk: keys live only for the lifetime of the process.

Run without arguments to start the interactive shell.`,
		SilenceUsage: true,
		RunE:         runShell,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.solkeys/config.yaml)")
	rootCmd.PersistentFlags().String("cluster", chain.DefaultCluster, "Solana cluster used for explorer links")
	rootCmd.PersistentFlags().String("log-level", defaultLogLevel, "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag("cluster", rootCmd.PersistentFlags().Lookup("cluster"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir := getDataDir()
		if err := os.MkdirAll(configDir, 0700); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config directory: %v\n", err)
		}

		viper.AddConfigPath(configDir)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv()

	// Silently ignore missing config file - it's optional
	_ = viper.ReadInConfig()
}
