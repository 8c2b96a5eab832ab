package wallet

import (
	"crypto/ed25519"
	"fmt"
	"strconv"
	"strings"

	"github.com/anyproto/go-slip10"
)

// DefaultPathTemplate is the per-account path used by Phantom, Solflare and
// solana-keygen's "prompt://?key=N/0" form.
const DefaultPathTemplate = "m/44'/501'/{slot}'/0'"

const (
	slotPlaceholder = "{slot}"
	hardenedOffset  = uint32(0x80000000)
)

// PathForSlot renders template with slot substituted for {slot}.
func PathForSlot(template string, slot uint32) (string, error) {
	if strings.Count(template, slotPlaceholder) != 1 {
		return "", fmt.Errorf("%w: %q must contain %s exactly once", ErrInvalidPath, template, slotPlaceholder)
	}
	path := strings.Replace(template, slotPlaceholder, strconv.FormatUint(uint64(slot), 10), 1)
	if _, err := ParsePath(path); err != nil {
		return "", err
	}
	return path, nil
}

// ParsePath parses a SLIP-10 path such as m/44'/501'/0'/0'. Ed25519 only
// supports hardened children, so every component must carry a ' suffix.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	indexes := make([]uint32, 0, len(parts)-1)
	for _, p := range parts[1:] {
		if !strings.HasSuffix(p, "'") {
			return nil, fmt.Errorf("%w: component %q is not hardened", ErrInvalidPath, p)
		}
		n, err := strconv.ParseUint(strings.TrimSuffix(p, "'"), 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: component %q: %v", ErrInvalidPath, p, err)
		}
		indexes = append(indexes, uint32(n)|hardenedOffset)
	}
	return indexes, nil
}

// DeriveKey walks path from the master key of seed (SLIP-10, ed25519 curve)
// and expands the resulting 32-byte child seed into an Ed25519 keypair.
func DeriveKey(seed []byte, path string) (ed25519.PrivateKey, error) {
	if _, err := ParsePath(path); err != nil {
		return nil, err
	}

	node, err := slip10.DeriveForPath(path, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, path, err)
	}

	childSeed := node.RawSeed()
	priv := ed25519.NewKeyFromSeed(childSeed)
	clear(childSeed)
	return priv, nil
}
