package wallet

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// DecodeSecret parses a base58 64-byte secret (32-byte seed || 32-byte public
// key), the format written by solana-keygen and wallet exports.
func DecodeSecret(secret string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		clear(raw)
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyEncoding, len(raw), ed25519.PrivateKeySize)
	}

	expected := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	defer clear(expected)
	if !bytes.Equal(expected[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
		clear(raw)
		return nil, fmt.Errorf("%w: public key half does not match seed", ErrInvalidKeyEncoding)
	}
	return solana.PrivateKey(raw), nil
}

// EncodeSecret is the inverse of DecodeSecret.
func EncodeSecret(key solana.PrivateKey) string {
	return base58.Encode(key)
}

// AddressOf returns the base58 public key of key.
func AddressOf(key solana.PrivateKey) string {
	return key.PublicKey().String()
}
