// Package wallet implements an in-memory Solana keyring: one BIP-39 mnemonic,
// any number of derived or imported Ed25519 keys, and transaction signing with
// the currently selected key.
package wallet

import (
	"time"

	"go.uber.org/zap"
)

// Source records how a private key entered the keyring.
type Source string

const (
	SourceDerived  Source = "derived"
	SourceImported Source = "imported"
)

// Config holds keyring settings.
type Config struct {
	Passphrase   string      // BIP-39 passphrase, empty by default
	PathTemplate string      // derivation path with a {slot} placeholder
	Logger       *zap.Logger // nil disables logging
}

// WithDefaults returns Config with default values applied.
func (c Config) WithDefaults() Config {
	if c.PathTemplate == "" {
		c.PathTemplate = DefaultPathTemplate
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Validate checks that the path template renders to a hardened path.
func (c Config) Validate() error {
	_, err := PathForSlot(c.PathTemplate, 0)
	return err
}

// MnemonicEntry is a read-only view of the keyring's mnemonic. The phrase is
// only available through Keyring.Mnemonic.
type MnemonicEntry struct {
	ID        string    `json:"id"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

// PrivateKeyEntry is a read-only view of one signing key. DerivationSlot and
// DerivationPath are only set for derived keys.
type PrivateKeyEntry struct {
	ID             string    `json:"id"`
	Address        string    `json:"address"`
	Source         Source    `json:"source"`
	MnemonicID     string    `json:"mnemonic_id,omitempty"`
	DerivationSlot uint32    `json:"derivation_slot,omitempty"`
	DerivationPath string    `json:"derivation_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Derived reports whether the key was derived from the keyring's mnemonic.
func (e PrivateKeyEntry) Derived() bool {
	return e.MnemonicID != ""
}
