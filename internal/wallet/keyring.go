package wallet

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mnemonicRecord struct {
	entry    MnemonicEntry
	phrase   string
	seed     []byte
	nextSlot uint32 // next unused account-path component
}

type keyRecord struct {
	entry  PrivateKeyEntry
	secret solana.PrivateKey
}

// Keyring holds one mnemonic and an append-only list of signing keys in
// memory. All methods are safe for concurrent use; every failing call leaves
// the keyring unchanged.
type Keyring struct {
	// mu serializes mutations and keeps readers from observing a partially
	// applied one. Signing holds the read lock so Reset cannot wipe a key
	// mid-signature.
	mu        sync.RWMutex
	cfg       Config
	log       *zap.Logger
	mnemonics []*mnemonicRecord
	keys      []*keyRecord
	current   int
}

// NewKeyring creates an empty keyring.
func NewKeyring(cfg Config) (*Keyring, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Keyring{
		cfg: cfg,
		log: cfg.Logger.Named("keyring"),
	}, nil
}

// Reset drops every mnemonic and key and zeroes the secret bytes held for them.
func (k *Keyring) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, m := range k.mnemonics {
		clear(m.seed)
	}
	for _, r := range k.keys {
		clear(r.secret)
	}
	k.mnemonics = nil
	k.keys = nil
	k.current = 0

	k.log.Info("wallet reset")
}

// AddMnemonic validates and stores phrase, then derives the key at slot 0.
// Only one mnemonic is held at a time; a second call fails with
// ErrMnemonicAlreadyExists until Reset is called.
func (k *Keyring) AddMnemonic(phrase string) (MnemonicEntry, error) {
	phrase = NormalizeMnemonic(phrase)
	if err := ValidateMnemonic(phrase); err != nil {
		return MnemonicEntry{}, err
	}
	seed, err := mnemonicSeed(phrase, k.cfg.Passphrase)
	if err != nil {
		return MnemonicEntry{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.mnemonics) > 0 {
		clear(seed)
		return MnemonicEntry{}, ErrMnemonicAlreadyExists
	}

	rec := &mnemonicRecord{
		entry: MnemonicEntry{
			ID:        uuid.NewString(),
			WordCount: len(strings.Fields(phrase)),
			CreatedAt: time.Now().UTC(),
		},
		phrase: phrase,
		seed:   seed,
	}

	key, err := k.deriveLocked(rec)
	if err != nil {
		clear(seed)
		return MnemonicEntry{}, err
	}

	k.mnemonics = append(k.mnemonics, rec)
	k.keys = append(k.keys, key)
	rec.nextSlot++

	k.log.Info("mnemonic added",
		zap.String("mnemonic_id", rec.entry.ID),
		zap.Int("words", rec.entry.WordCount),
		zap.String("address", key.entry.Address))
	return rec.entry, nil
}

// AddPrivateKey imports a base58 64-byte secret. The same secret may be
// imported more than once; each import gets its own entry.
func (k *Keyring) AddPrivateKey(secret string) (PrivateKeyEntry, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return PrivateKeyEntry{}, err
	}

	rec := &keyRecord{
		entry: PrivateKeyEntry{
			ID:        uuid.NewString(),
			Address:   AddressOf(key),
			Source:    SourceImported,
			CreatedAt: time.Now().UTC(),
		},
		secret: key,
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = append(k.keys, rec)

	k.log.Info("private key imported",
		zap.String("key_id", rec.entry.ID),
		zap.String("address", rec.entry.Address),
		zap.Int("index", len(k.keys)-1))
	return rec.entry, nil
}

// DeriveAndAddPrivateKeyAt derives the next key from the mnemonic at
// mnemonicIndex. The index selects which mnemonic to use; the derivation
// slot comes from that mnemonic's own counter, so repeated calls with the
// same index yield distinct keys.
func (k *Keyring) DeriveAndAddPrivateKeyAt(mnemonicIndex int) (PrivateKeyEntry, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.mnemonics) == 0 {
		return PrivateKeyEntry{}, ErrNoMnemonic
	}
	if mnemonicIndex < 0 || mnemonicIndex >= len(k.mnemonics) {
		return PrivateKeyEntry{}, fmt.Errorf("%w: mnemonic index %d (have %d)",
			ErrIndexOutOfRange, mnemonicIndex, len(k.mnemonics))
	}

	rec := k.mnemonics[mnemonicIndex]
	key, err := k.deriveLocked(rec)
	if err != nil {
		return PrivateKeyEntry{}, err
	}
	k.keys = append(k.keys, key)
	rec.nextSlot++

	k.log.Info("private key derived",
		zap.String("key_id", key.entry.ID),
		zap.String("address", key.entry.Address),
		zap.Uint32("slot", key.entry.DerivationSlot),
		zap.Int("index", len(k.keys)-1))
	return key.entry, nil
}

// deriveLocked builds the key for rec's next slot without mutating anything.
func (k *Keyring) deriveLocked(rec *mnemonicRecord) (*keyRecord, error) {
	path, err := PathForSlot(k.cfg.PathTemplate, rec.nextSlot)
	if err != nil {
		return nil, err
	}
	priv, err := DeriveKey(rec.seed, path)
	if err != nil {
		return nil, err
	}

	secret := solana.PrivateKey(priv)
	return &keyRecord{
		entry: PrivateKeyEntry{
			ID:             uuid.NewString(),
			Address:        AddressOf(secret),
			Source:         SourceDerived,
			MnemonicID:     rec.entry.ID,
			DerivationSlot: rec.nextSlot,
			DerivationPath: path,
			CreatedAt:      time.Now().UTC(),
		},
		secret: secret,
	}, nil
}

// MnemonicEntries returns the stored mnemonics in insertion order.
func (k *Keyring) MnemonicEntries() []MnemonicEntry {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]MnemonicEntry, 0, len(k.mnemonics))
	for _, m := range k.mnemonics {
		out = append(out, m.entry)
	}
	return out
}

// PrivateKeyEntries returns every key in insertion order.
func (k *Keyring) PrivateKeyEntries() []PrivateKeyEntry {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make([]PrivateKeyEntry, 0, len(k.keys))
	for _, r := range k.keys {
		out = append(out, r.entry)
	}
	return out
}

// Len returns the number of private keys.
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys)
}

// PrivateKeyEntryAt returns the i-th inserted key.
func (k *Keyring) PrivateKeyEntryAt(i int) (PrivateKeyEntry, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if err := k.checkIndexLocked(i); err != nil {
		return PrivateKeyEntry{}, err
	}
	return k.keys[i].entry, nil
}

// Mnemonic returns the phrase of the mnemonic with the given id. The result
// is secret material.
func (k *Keyring) Mnemonic(id string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	for _, m := range k.mnemonics {
		if m.entry.ID == id {
			return m.phrase, nil
		}
	}
	return "", fmt.Errorf("%w: mnemonic %q", ErrNotFound, id)
}

// PrivateKeyBase58 exports the secret of the key with the given id in the
// same format AddPrivateKey accepts.
func (k *Keyring) PrivateKeyBase58(id string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	for _, r := range k.keys {
		if r.entry.ID == id {
			return EncodeSecret(r.secret), nil
		}
	}
	return "", fmt.Errorf("%w: private key %q", ErrNotFound, id)
}

// SetCurrentWalletAtIndex selects the key used by the signing methods.
func (k *Keyring) SetCurrentWalletAtIndex(i int) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.checkIndexLocked(i); err != nil {
		return err
	}
	k.current = i

	k.log.Info("current wallet changed",
		zap.Int("index", i),
		zap.String("address", k.keys[i].entry.Address))
	return nil
}

// CurrentIndex returns the index of the selected key.
func (k *Keyring) CurrentIndex() (int, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if _, err := k.currentLocked(); err != nil {
		return 0, err
	}
	return k.current, nil
}

// CurrentAddress returns the address of the selected key.
func (k *Keyring) CurrentAddress() (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	r, err := k.currentLocked()
	if err != nil {
		return "", err
	}
	return r.entry.Address, nil
}

// CurrentPrivateKey exports the selected key's secret in base58.
func (k *Keyring) CurrentPrivateKey() (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	r, err := k.currentLocked()
	if err != nil {
		return "", err
	}
	return EncodeSecret(r.secret), nil
}

// PublicKey returns the selected key's public key.
func (k *Keyring) PublicKey() (solana.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	r, err := k.currentLocked()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return r.secret.PublicKey(), nil
}

// SignTransaction signs a base64 wire transaction with the selected key and
// returns it re-encoded. Signatures of other signers are left untouched.
func (k *Keyring) SignTransaction(unsigned string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	r, err := k.currentLocked()
	if err != nil {
		return "", err
	}

	signed, slot, err := signPayload(unsigned, r.secret)
	if err != nil {
		return "", err
	}

	k.log.Debug("transaction signed",
		zap.String("address", r.entry.Address),
		zap.Int("signer_slot", slot))
	return signed, nil
}

// SignMessage signs an arbitrary message with the selected key.
func (k *Keyring) SignMessage(message []byte) (solana.Signature, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	r, err := k.currentLocked()
	if err != nil {
		return solana.Signature{}, err
	}
	return r.secret.Sign(message)
}

func (k *Keyring) currentLocked() (*keyRecord, error) {
	if len(k.keys) == 0 {
		return nil, ErrNoCurrentWallet
	}
	return k.keys[k.current], nil
}

func (k *Keyring) checkIndexLocked(i int) error {
	if i < 0 || i >= len(k.keys) {
		return fmt.Errorf("%w: %d (have %d private keys)", ErrIndexOutOfRange, i, len(k.keys))
	}
	return nil
}
