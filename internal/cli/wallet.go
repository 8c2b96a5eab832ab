package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/yolodolo42/solkeys/internal/chain"
	"github.com/yolodolo42/solkeys/internal/wallet"
	"go.uber.org/zap"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect accounts derived from a mnemonic",
	Long: `Derive, list and export Solana accounts.

The mnemonic is read from SOLKEYS_MNEMONIC (or the config file) and
otherwise prompted for with echo disabled. It is never accepted as a flag.`,
}

var walletAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts derived from the mnemonic",
	Args:  cobra.NoArgs,
	RunE:  runWalletAccounts,
}

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Check a base58 private key and show its address",
	Args:  cobra.NoArgs,
	RunE:  runWalletImport,
}

var walletExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the base58 private key of a derived account",
	Args:  cobra.NoArgs,
	RunE:  runWalletExport,
}

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletAccountsCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletExportCmd)

	walletAccountsCmd.Flags().Int("count", 1, "Number of accounts to derive")
	walletImportCmd.Flags().String("secret-env", "", "Read the private key from this environment variable")
	walletExportCmd.Flags().Int("index", 0, "Account index to export")
}

// commandEnv loads config and a stderr logger for one-shot commands.
func commandEnv() (Config, *zap.Logger, error) {
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	logger, err := cfg.NewLogger("stderr")
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, logger, nil
}

// openKeyring builds a keyring holding the configured mnemonic and
// count derived accounts.
func openKeyring(cfg Config, logger *zap.Logger, count int) (*wallet.Keyring, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1")
	}

	phrase, err := resolveMnemonic(cfg)
	if err != nil {
		return nil, err
	}

	kr, err := wallet.NewKeyring(cfg.WalletConfig(logger))
	if err != nil {
		return nil, err
	}
	if _, err := kr.AddMnemonic(phrase); err != nil {
		return nil, err
	}
	for i := 1; i < count; i++ {
		if _, err := kr.DeriveAndAddPrivateKeyAt(0); err != nil {
			kr.Reset()
			return nil, err
		}
	}
	return kr, nil
}

func runWalletAccounts(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")

	cfg, logger, err := commandEnv()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cluster, err := cfg.ClusterConfig()
	if err != nil {
		return err
	}

	kr, err := openKeyring(cfg, logger, count)
	if err != nil {
		return err
	}
	defer kr.Reset()

	renderAccounts(cmd.OutOrStdout(), kr.PrivateKeyEntries(), -1, cluster)
	return nil
}

func runWalletImport(cmd *cobra.Command, args []string) error {
	envName, _ := cmd.Flags().GetString("secret-env")

	cfg, logger, err := commandEnv()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cluster, err := cfg.ClusterConfig()
	if err != nil {
		return err
	}

	secret, err := resolveSecret(envName)
	if err != nil {
		return err
	}

	kr, err := wallet.NewKeyring(cfg.WalletConfig(logger))
	if err != nil {
		return err
	}
	defer kr.Reset()

	entry, err := kr.AddPrivateKey(secret)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Address: %s\n", entry.Address)
	fmt.Fprintf(out, "Explorer: %s\n", cluster.AccountURL(entry.Address))
	return nil
}

func runWalletExport(cmd *cobra.Command, args []string) error {
	index, _ := cmd.Flags().GetInt("index")
	if index < 0 {
		return fmt.Errorf("%w: %d", wallet.ErrIndexOutOfRange, index)
	}

	cfg, logger, err := commandEnv()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	kr, err := openKeyring(cfg, logger, index+1)
	if err != nil {
		return err
	}
	defer kr.Reset()

	entry, err := kr.PrivateKeyEntryAt(index)
	if err != nil {
		return err
	}
	secret, err := kr.PrivateKeyBase58(entry.ID)
	if err != nil {
		return err
	}

	logger.Warn("private key exported", zap.String("address", entry.Address))
	fmt.Fprintln(cmd.OutOrStdout(), secret)
	return nil
}

// renderAccounts prints a table of keyring entries. current is marked
// with an asterisk; pass -1 to mark none.
func renderAccounts(w io.Writer, entries []wallet.PrivateKeyEntry, current int, cluster *chain.ClusterConfig) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No accounts.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Address", "Source", "Explorer"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for i, e := range entries {
		idx := strconv.Itoa(i)
		if i == current {
			idx += "*"
		}
		source := string(e.Source)
		if e.Derived() {
			source = e.DerivationPath
		}
		table.Append([]string{idx, e.Address, source, cluster.AccountURL(e.Address)})
	}
	table.Render()
}
