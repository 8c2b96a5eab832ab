package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yolodolo42/solkeys/internal/chain"
	"github.com/yolodolo42/solkeys/internal/ui"
	"github.com/yolodolo42/solkeys/internal/wallet"
	"go.uber.org/zap"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Sign and inspect serialized transactions",
	Long: `Sign and verify base64 wire transactions.

--tx takes the base64 payload itself, @path to read it from a file, or
- (the default) to read it from stdin.`,
}

var txSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a transaction with one account",
	Args:  cobra.NoArgs,
	RunE:  runTxSign,
}

var txVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Report the signature status of every required signer",
	Args:  cobra.NoArgs,
	RunE:  runTxVerify,
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txSignCmd)
	txCmd.AddCommand(txVerifyCmd)

	for _, c := range []*cobra.Command{txSignCmd, txVerifyCmd} {
		c.Flags().String("tx", "-", "Transaction: base64, @file or - for stdin")
	}
	txSignCmd.Flags().Int("index", 0, "Derived account index to sign with")
	txSignCmd.Flags().String("secret-env", "", "Sign with the base58 private key in this environment variable instead of the mnemonic")
	txVerifyCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func runTxSign(cmd *cobra.Command, args []string) error {
	index, _ := cmd.Flags().GetInt("index")
	envName, _ := cmd.Flags().GetString("secret-env")
	if index < 0 {
		return fmt.Errorf("%w: %d", wallet.ErrIndexOutOfRange, index)
	}

	txArg, _ := cmd.Flags().GetString("tx")
	payload, err := readPayload(txArg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, logger, err := commandEnv()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var signer wallet.Signer
	if envName != "" {
		secret, err := resolveSecret(envName)
		if err != nil {
			return err
		}
		ks, err := wallet.NewKeySigner(secret)
		if err != nil {
			return err
		}
		defer ks.Lock()
		signer = ks
	} else {
		kr, err := openKeyring(cfg, logger, index+1)
		if err != nil {
			return err
		}
		defer kr.Reset()
		if err := kr.SetCurrentWalletAtIndex(index); err != nil {
			return err
		}
		signer = kr
	}

	signed, err := signer.SignTransaction(payload)
	if err != nil {
		return err
	}
	pub, err := signer.PublicKey()
	if err != nil {
		return err
	}
	logger.Info("transaction signed", zap.String("signer", pub.String()))

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	return nil
}

func runTxVerify(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	txArg, _ := cmd.Flags().GetString("tx")
	payload, err := readPayload(txArg, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cluster, err := LoadConfig().ClusterConfig()
	if err != nil {
		return err
	}

	report, err := wallet.VerifyTransaction(payload)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		renderReport(out, report, cluster)
	}
	if !report.Complete() {
		return fmt.Errorf("transaction is not fully signed")
	}
	return nil
}

func renderReport(w io.Writer, report wallet.VerifyReport, cluster *chain.ClusterConfig) {
	for _, s := range report.Signers {
		status := "- missing"
		switch {
		case s.Valid:
			status = ui.SymbolCheck + " valid"
		case s.Signed:
			status = ui.SymbolCross + " INVALID"
		}
		fmt.Fprintf(w, "%d  %-44s  %s\n", s.Slot, s.Address, status)
	}
	if report.Complete() && len(report.Signers) > 0 {
		fmt.Fprintf(w, "\nFully signed. After broadcast: %s\n", cluster.TxURL(report.Signature))
	}
}
