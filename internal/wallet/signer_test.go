package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySigner_SignTransaction(t *testing.T) {
	t.Run("signs transaction successfully", func(t *testing.T) {
		signer, err := NewKeySigner(importedSecret)
		require.NoError(t, err)

		pub, err := signer.PublicKey()
		require.NoError(t, err)

		signed, err := signer.SignTransaction(unsignedTransfer(t, pub, pub))
		require.NoError(t, err)

		report, err := VerifyTransaction(signed)
		require.NoError(t, err)
		assert.True(t, report.Complete())
	})

	t.Run("matches keyring signature for same key", func(t *testing.T) {
		signer, err := NewKeySigner(importedSecret)
		require.NoError(t, err)
		kr := newTestKeyring(t)
		_, err = kr.AddPrivateKey(importedSecret)
		require.NoError(t, err)

		pub, err := signer.PublicKey()
		require.NoError(t, err)
		unsigned := unsignedTransfer(t, pub, pub)

		a, err := signer.SignTransaction(unsigned)
		require.NoError(t, err)
		b, err := kr.SignTransaction(unsigned)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("returns error when locked", func(t *testing.T) {
		signer, err := NewKeySigner(importedSecret)
		require.NoError(t, err)
		pub, err := signer.PublicKey()
		require.NoError(t, err)

		signer.Lock()

		_, err = signer.SignTransaction(unsignedTransfer(t, pub, pub))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignerLocked)
	})
}

func TestKeySigner_SignMessage(t *testing.T) {
	t.Run("signature verifies", func(t *testing.T) {
		signer, err := NewKeySigner(importedSecret)
		require.NoError(t, err)

		message := []byte("Hello, Solana!")
		sig, err := signer.SignMessage(message)
		require.NoError(t, err)

		pub, err := signer.PublicKey()
		require.NoError(t, err)
		assert.True(t, sig.Verify(pub, message))
	})

	t.Run("signs empty message", func(t *testing.T) {
		signer, err := NewKeySigner(importedSecret)
		require.NoError(t, err)

		_, err = signer.SignMessage([]byte{})
		require.NoError(t, err)
	})

	t.Run("keyring signs with current key", func(t *testing.T) {
		kr := newTestKeyring(t)
		_, err := kr.AddMnemonic(fixtureMnemonic)
		require.NoError(t, err)
		_, err = kr.DeriveAndAddPrivateKeyAt(0)
		require.NoError(t, err)
		require.NoError(t, kr.SetCurrentWalletAtIndex(1))

		sig, err := kr.SignMessage([]byte("login"))
		require.NoError(t, err)
		assert.True(t, sig.Verify(publicKeyOf(t, fixtureSecret1), []byte("login")))
	})
}

func TestKeySigner_Lock(t *testing.T) {
	t.Run("zeroes out private key", func(t *testing.T) {
		signer, err := NewKeySigner(importedSecret)
		require.NoError(t, err)

		// Should be able to sign before lock
		_, err = signer.SignMessage([]byte("test"))
		require.NoError(t, err)

		signer.Lock()

		// Should not be able to sign after lock
		_, err = signer.SignMessage([]byte("test"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignerLocked)

		_, err = signer.PublicKey()
		assert.ErrorIs(t, err, ErrSignerLocked)
	})

	t.Run("can be called multiple times", func(t *testing.T) {
		signer, err := NewKeySigner(importedSecret)
		require.NoError(t, err)

		// Should not panic on multiple calls
		signer.Lock()
		signer.Lock()
		signer.Lock()
	})
}

func TestNewKeySigner(t *testing.T) {
	t.Run("returns correct public key", func(t *testing.T) {
		signer, err := NewKeySigner(importedSecret)
		require.NoError(t, err)

		pub, err := signer.PublicKey()
		require.NoError(t, err)
		assert.Equal(t, importedAddress, pub.String())
	})

	t.Run("rejects invalid secret", func(t *testing.T) {
		_, err := NewKeySigner("abc")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidKeyEncoding)
	})

	t.Run("free-standing signing rejects invalid secret", func(t *testing.T) {
		_, err := SignTransactionWithSecret("AAAA", "abc")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidKeyEncoding)
	})
}
