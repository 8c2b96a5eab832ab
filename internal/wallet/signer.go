package wallet

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Signer is the interface for signing transactions and messages.
// Keyring signs with its current key; KeySigner with one explicit secret.
type Signer interface {
	// PublicKey returns the signing key's public key
	PublicKey() (solana.PublicKey, error)

	// SignTransaction signs a base64 wire transaction and returns it re-encoded
	SignTransaction(unsigned string) (string, error)

	// SignMessage signs an arbitrary message
	SignMessage(message []byte) (solana.Signature, error)
}

var (
	_ Signer = (*Keyring)(nil)
	_ Signer = (*KeySigner)(nil)
)

// KeySigner implements Signer for a single secret held outside any keyring.
type KeySigner struct {
	// mu protects key from concurrent access. Prevents signing operations from
	// racing with Lock() which zeros the key material.
	mu  sync.RWMutex
	key solana.PrivateKey // nil when locked
}

// NewKeySigner decodes a base58 64-byte secret into a signer.
func NewKeySigner(secret string) (*KeySigner, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return nil, err
	}
	return &KeySigner{key: key}, nil
}

// PublicKey returns the public key of the signer
func (s *KeySigner) PublicKey() (solana.PublicKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return solana.PublicKey{}, ErrSignerLocked
	}
	return s.key.PublicKey(), nil
}

// SignTransaction signs a base64 wire transaction
func (s *KeySigner) SignTransaction(unsigned string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return "", ErrSignerLocked
	}
	signed, _, err := signPayload(unsigned, s.key)
	return signed, err
}

// SignMessage signs an arbitrary message
func (s *KeySigner) SignMessage(message []byte) (solana.Signature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.key == nil {
		return solana.Signature{}, ErrSignerLocked
	}
	return s.key.Sign(message)
}

// Lock zeros private key material. Safe to call multiple times. After Lock(),
// all signing operations return ErrSignerLocked.
func (s *KeySigner) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		clear(s.key)
		s.key = nil
	}
}

// SignTransactionWithSecret signs with an explicit secret instead of a
// keyring's current key. It shares no state with any keyring.
func SignTransactionWithSecret(unsigned, secret string) (string, error) {
	s, err := NewKeySigner(secret)
	if err != nil {
		return "", err
	}
	defer s.Lock()
	return s.SignTransaction(unsigned)
}
