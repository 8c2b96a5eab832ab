package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 12-word mnemonics.
const MnemonicEntropyBits = 128

// GenerateMnemonic creates a new 12-word BIP-39 mnemonic. It does not touch
// any keyring.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic lowercases the phrase and collapses whitespace.
func NormalizeMnemonic(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// ValidateMnemonic checks word list membership and checksum.
func ValidateMnemonic(phrase string) error {
	phrase = NormalizeMnemonic(phrase)
	if phrase == "" {
		return fmt.Errorf("%w: empty phrase", ErrInvalidMnemonic)
	}
	if !bip39.IsMnemonicValid(phrase) {
		return fmt.Errorf("%w: unknown word or bad checksum", ErrInvalidMnemonic)
	}
	return nil
}

func mnemonicSeed(phrase, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(phrase, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return seed, nil
}
