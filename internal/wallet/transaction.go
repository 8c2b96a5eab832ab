package wallet

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/hdevalence/ed25519consensus"
)

// SignerStatus describes one required-signer slot of a transaction.
type SignerStatus struct {
	Slot    int    `json:"slot"`
	Address string `json:"address"`
	Signed  bool   `json:"signed"`
	Valid   bool   `json:"valid"`
}

// VerifyReport lists every required signer of a transaction in header order.
// Signature is the fee payer's signature, which is also the transaction id.
type VerifyReport struct {
	Signature string         `json:"signature,omitempty"`
	Signers   []SignerStatus `json:"signers"`
}

// Complete reports whether every required signer has a valid signature.
func (r VerifyReport) Complete() bool {
	for _, s := range r.Signers {
		if !s.Valid {
			return false
		}
	}
	return len(r.Signers) > 0
}

// decodeTransaction parses a base64 wire transaction (legacy or v0). The
// signature vector is padded with empty signatures up to the number of
// required signers so that slots can be addressed by header position.
func decodeTransaction(payload string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrMalformedPayload, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	dec := bin.NewBinDecoder(raw)
	tx, err := solana.TransactionFromDecoder(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dec.Remaining() > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPayload, dec.Remaining())
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if required == 0 || required > len(tx.Message.AccountKeys) {
		return nil, fmt.Errorf("%w: header requires %d signers but lists %d accounts",
			ErrMalformedPayload, required, len(tx.Message.AccountKeys))
	}
	if len(tx.Signatures) > required {
		return nil, fmt.Errorf("%w: %d signatures for %d required signers",
			ErrMalformedPayload, len(tx.Signatures), required)
	}
	for len(tx.Signatures) < required {
		tx.Signatures = append(tx.Signatures, solana.Signature{})
	}
	return tx, nil
}

// signerSlot returns the header position of pub among the required signers.
func signerSlot(tx *solana.Transaction, pub solana.PublicKey) (int, error) {
	for i := 0; i < int(tx.Message.Header.NumRequiredSignatures); i++ {
		if tx.Message.AccountKeys[i].Equals(pub) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrSignerMismatch, pub)
}

// signPayload signs the message of a base64 wire transaction with key and
// writes the signature into key's slot only. It returns the re-encoded
// transaction and the slot that was written.
func signPayload(payload string, key solana.PrivateKey) (string, int, error) {
	tx, err := decodeTransaction(payload)
	if err != nil {
		return "", -1, err
	}

	slot, err := signerSlot(tx, key.PublicKey())
	if err != nil {
		return "", -1, err
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return "", -1, fmt.Errorf("%w: encode message: %v", ErrMalformedPayload, err)
	}

	sig, err := key.Sign(message)
	if err != nil {
		return "", -1, fmt.Errorf("sign message: %w", err)
	}
	tx.Signatures[slot] = sig

	out, err := tx.MarshalBinary()
	if err != nil {
		return "", -1, fmt.Errorf("encode transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out), slot, nil
}

// VerifyTransaction checks every required-signer slot of a base64 wire
// transaction. Empty slots are reported as unsigned rather than invalid input.
func VerifyTransaction(payload string) (VerifyReport, error) {
	tx, err := decodeTransaction(payload)
	if err != nil {
		return VerifyReport{}, err
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return VerifyReport{}, fmt.Errorf("%w: encode message: %v", ErrMalformedPayload, err)
	}

	report := VerifyReport{Signers: make([]SignerStatus, 0, len(tx.Signatures))}
	for i, sig := range tx.Signatures {
		pub := tx.Message.AccountKeys[i]
		status := SignerStatus{Slot: i, Address: pub.String()}
		if sig != (solana.Signature{}) {
			status.Signed = true
			status.Valid = ed25519consensus.Verify(ed25519.PublicKey(pub[:]), message, sig[:])
		}
		report.Signers = append(report.Signers, status)
	}
	if report.Signers[0].Signed {
		report.Signature = tx.Signatures[0].String()
	}
	return report, nil
}
