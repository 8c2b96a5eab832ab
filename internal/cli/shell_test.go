package cli

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yolodolo42/solkeys/internal/chain"
	"github.com/yolodolo42/solkeys/internal/ui"
	"github.com/yolodolo42/solkeys/internal/wallet"
	"go.uber.org/zap/zaptest"
)

const (
	testMnemonic   = "rival pledge marriage dove vicious okay ethics answer transfer link pave whip"
	firstAddress   = "9pMbqzoZJxSpaMtMJ9zaJqxY75K8esjL43WMTCnNCj1r"
	secondAddress  = "2Hgf4yX6Xgv9jYisdyKPLpbgLAf8MEE4cuByUv7bYkvX"
	importedSecret = "5JhEPjhLsS5zV9oacTrFWbmwogSeTq1L7Cn1KRSequcrWi971gLHd8bPb5ZTRzdBkcBc3EnhGTFYezb5HihcxbfD"
	importedAddr   = "EKoFjerWQxNpwbj2piTgp89miobEe8nBKDPQvgeYzhH1"
)

func newTestShell(t *testing.T, audit *auditLogger) *shell {
	t.Helper()
	logger := zaptest.NewLogger(t)
	kr, err := wallet.NewKeyring(wallet.Config{Logger: logger})
	require.NoError(t, err)

	cluster, err := chain.Lookup("devnet")
	require.NoError(t, err)
	return newShell(kr, cluster, audit, logger)
}

func unsignedTransferFrom(t *testing.T, payer string) string {
	t.Helper()
	return unsignedTransferPaidBy(t, payer, payer)
}

// unsignedTransferPaidBy moves lamports out of from with payer covering
// fees. Distinct accounts give the message two required signers.
func unsignedTransferPaidBy(t *testing.T, payer, from string) string {
	t.Helper()
	payerKey := solana.MustPublicKeyFromBase58(payer)
	fromKey := solana.MustPublicKeyFromBase58(from)
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(1, fromKey, solana.MustPublicKeyFromBase58("11111111111111111111111111111112")).Build(),
		},
		solana.Hash{7},
		solana.TransactionPayer(payerKey),
	)
	require.NoError(t, err)
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestShell_Session(t *testing.T) {
	sh := newTestShell(t, nil)

	res, err := sh.exec("/mnemonic " + testMnemonic)
	require.NoError(t, err)
	assert.Contains(t, res.Output, "12-word")
	assert.Contains(t, res.Output, firstAddress)
	assert.False(t, res.Secret)

	res, err = sh.exec("/derive")
	require.NoError(t, err)
	assert.Contains(t, res.Output, secondAddress)

	res, err = sh.exec("/import " + importedSecret)
	require.NoError(t, err)
	assert.Contains(t, res.Output, importedAddr)
	assert.Contains(t, res.Output, "cluster=devnet")

	res, err = sh.exec("/list")
	require.NoError(t, err)
	for _, addr := range []string{firstAddress, secondAddress, importedAddr} {
		assert.Contains(t, res.Output, addr)
	}

	res, err = sh.exec("/use 2")
	require.NoError(t, err)
	assert.Contains(t, res.Output, "Current account 2")
	assert.Contains(t, res.Output, importedAddr)

	res, err = sh.exec("/export")
	require.NoError(t, err)
	assert.True(t, res.Secret)
	assert.Contains(t, res.Output, importedSecret)

	res, err = sh.exec("/reset")
	require.NoError(t, err)
	assert.Equal(t, 0, sh.kr.Len())

	_, err = sh.exec("/current")
	assert.ErrorIs(t, err, wallet.ErrNoCurrentWallet)
}

func TestShell_Commands(t *testing.T) {
	t.Run("new marks output secret", func(t *testing.T) {
		sh := newTestShell(t, nil)
		res, err := sh.exec("/new")
		require.NoError(t, err)
		assert.True(t, res.Secret)
		assert.Equal(t, 1, sh.kr.Len())

		_, err = sh.exec("/new")
		assert.ErrorIs(t, err, wallet.ErrMnemonicAlreadyExists)
	})

	t.Run("secret commands without arguments ask for hidden input", func(t *testing.T) {
		sh := newTestShell(t, nil)
		for _, cmd := range []string{"/mnemonic", "/import"} {
			res, err := sh.exec(cmd)
			require.NoError(t, err)
			assert.Equal(t, cmd, res.NeedSecret)
		}

		res, err := sh.submitSecret("/import", importedSecret)
		require.NoError(t, err)
		assert.Contains(t, res.Output, importedAddr)

		_, err = sh.submitSecret("/derive", "0")
		assert.ErrorIs(t, err, errUnknownCommand)
	})

	t.Run("use without argument opens picker", func(t *testing.T) {
		sh := newTestShell(t, nil)
		_, err := sh.exec("/use")
		assert.ErrorIs(t, err, wallet.ErrNoCurrentWallet)

		_, err = sh.exec("/import " + importedSecret)
		require.NoError(t, err)
		res, err := sh.exec("/use")
		require.NoError(t, err)
		assert.True(t, res.Pick)

		items := sh.accountItems()
		require.Len(t, items, 1)
		assert.True(t, items[0].Current)
	})

	t.Run("bad selectors", func(t *testing.T) {
		sh := newTestShell(t, nil)
		_, err := sh.exec("/derive")
		assert.ErrorIs(t, err, wallet.ErrNoMnemonic)
		_, err = sh.exec("/derive x")
		assert.ErrorIs(t, err, wallet.ErrIndexOutOfRange)
		_, err = sh.exec("/use 5")
		assert.ErrorIs(t, err, wallet.ErrIndexOutOfRange)
		_, err = sh.exec("/export abc")
		assert.ErrorIs(t, err, wallet.ErrIndexOutOfRange)
	})

	t.Run("sign and verify", func(t *testing.T) {
		sh := newTestShell(t, nil)
		_, err := sh.exec("/import " + importedSecret)
		require.NoError(t, err)

		unsigned := unsignedTransferFrom(t, importedAddr)
		res, err := sh.exec("/verify " + unsigned)
		require.NoError(t, err)
		assert.Contains(t, res.Output, "missing")

		res, err = sh.exec("/sign " + unsigned)
		require.NoError(t, err)
		signed := res.Output

		res, err = sh.exec("/verify " + signed)
		require.NoError(t, err)
		assert.Contains(t, res.Output, ui.SymbolCheck+" valid")
		assert.Contains(t, res.Output, "Fully signed")

		_, err = sh.exec("/sign")
		assert.ErrorIs(t, err, wallet.ErrMalformedPayload)
		_, err = sh.exec("/sign " + unsignedTransferFrom(t, firstAddress))
		assert.ErrorIs(t, err, wallet.ErrSignerMismatch)
	})

	t.Run("control commands", func(t *testing.T) {
		sh := newTestShell(t, nil)

		res, err := sh.exec("/QUIT")
		require.NoError(t, err)
		assert.True(t, res.Quit)

		res, err = sh.exec("/clear")
		require.NoError(t, err)
		assert.True(t, res.Clear)

		res, err = sh.exec("/help")
		require.NoError(t, err)
		assert.Contains(t, res.Output, "/mnemonic")

		_, err = sh.exec("/bogus")
		assert.ErrorIs(t, err, errUnknownCommand)
	})
}

func TestShell_AuditLog(t *testing.T) {
	audit, err := newAuditLogger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(audit.Close)

	sh := newTestShell(t, audit)
	_, err = sh.exec("/mnemonic " + testMnemonic)
	require.NoError(t, err)
	_, err = sh.exec("/import not-base58-0OIl")
	require.Error(t, err)

	b, err := os.ReadFile(audit.Path())
	require.NoError(t, err)
	log := string(b)

	assert.Equal(t, 2, strings.Count(log, "\n"))
	assert.NotContains(t, log, "rival")
	assert.NotContains(t, log, "not-base58")
	assert.Contains(t, log, `"command":"/mnemonic ***REDACTED***"`)
	assert.Contains(t, log, `"account":"`+firstAddress+`"`)
	assert.Contains(t, log, `"error":`)
	assert.Equal(t, filepath.Join(filepath.Dir(audit.Path()), audit.sessionID+".jsonl"), audit.Path())
}
