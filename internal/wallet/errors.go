package wallet

import "errors"

// Sentinel errors - Mnemonics
var (
	ErrInvalidMnemonic       = errors.New("invalid mnemonic")
	ErrMnemonicAlreadyExists = errors.New("mnemonic already exists")
	ErrNoMnemonic            = errors.New("no mnemonic in keyring")
	ErrInvalidPath           = errors.New("invalid derivation path")
)

// Sentinel errors - Keys
var (
	ErrInvalidKeyEncoding = errors.New("invalid private key encoding")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrNotFound           = errors.New("entry not found")
	ErrNoCurrentWallet    = errors.New("no current wallet")
	ErrSignerLocked       = errors.New("signer is locked")
)

// Sentinel errors - Transactions
var (
	ErrSignerMismatch   = errors.New("key is not a required signer of the transaction")
	ErrMalformedPayload = errors.New("malformed transaction payload")
)
