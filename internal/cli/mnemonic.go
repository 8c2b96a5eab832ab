package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yolodolo42/solkeys/internal/wallet"
)

var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Generate and check BIP-39 mnemonics",
}

var mnemonicNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new 12-word mnemonic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase, err := wallet.GenerateMnemonic()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), phrase)
		fmt.Fprintln(cmd.ErrOrStderr(), "\nIMPORTANT: Write this phrase down. It is not stored anywhere.")
		return nil
	},
}

var mnemonicCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured or prompted mnemonic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase, err := resolveMnemonic(LoadConfig())
		if err != nil {
			return err
		}
		if err := wallet.ValidateMnemonic(phrase); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Mnemonic is valid.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mnemonicCmd)
	mnemonicCmd.AddCommand(mnemonicNewCmd)
	mnemonicCmd.AddCommand(mnemonicCheckCmd)
}
