package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yolodolo42/solkeys/internal/wallet"
	"golang.org/x/term"
)

// maxPayloadBytes bounds transactions read from a file or stdin. Wire
// transactions are at most 1232 bytes, so base64 stays well below this.
const maxPayloadBytes = 64 << 10

var errNoMnemonicSource = errors.New("no mnemonic: set SOLKEYS_MNEMONIC or run interactively")

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// resolveMnemonic returns the phrase from config/env, or prompts for it
// with echo disabled when attached to a terminal.
func resolveMnemonic(cfg Config) (string, error) {
	if phrase := strings.TrimSpace(cfg.Mnemonic); phrase != "" {
		return phrase, nil
	}
	if !isInteractive() {
		return "", errNoMnemonicSource
	}
	phrase, err := readPassword("Enter mnemonic: ")
	if err != nil {
		return "", fmt.Errorf("failed to read mnemonic: %w", err)
	}
	if strings.TrimSpace(phrase) == "" {
		return "", errNoMnemonicSource
	}
	return phrase, nil
}

// resolveSecret reads a base58 secret from the named env var, or prompts.
func resolveSecret(envName string) (string, error) {
	if envName != "" {
		secret := strings.TrimSpace(os.Getenv(envName))
		if secret == "" {
			return "", fmt.Errorf("environment variable %s is empty", envName)
		}
		return secret, nil
	}
	if !isInteractive() {
		return "", fmt.Errorf("no secret: pass --secret-env or run interactively")
	}
	secret, err := readPassword("Enter private key (base58): ")
	if err != nil {
		return "", fmt.Errorf("failed to read private key: %w", err)
	}
	return strings.TrimSpace(secret), nil
}

// readPayload resolves a transaction argument: "-" reads stdin, "@path"
// reads a file, anything else is the base64 payload itself.
func readPayload(arg string, stdin io.Reader) (string, error) {
	var src io.Reader
	switch {
	case arg == "-":
		src = stdin
	case strings.HasPrefix(arg, "@"):
		f, err := os.Open(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return "", fmt.Errorf("failed to open transaction file: %w", err)
		}
		defer f.Close()
		src = f
	default:
		payload := strings.TrimSpace(arg)
		if payload == "" {
			return "", fmt.Errorf("%w: empty payload", wallet.ErrMalformedPayload)
		}
		return payload, nil
	}

	b, err := io.ReadAll(io.LimitReader(src, maxPayloadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read transaction: %w", err)
	}
	if len(b) > maxPayloadBytes {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", wallet.ErrMalformedPayload, maxPayloadBytes)
	}
	payload := strings.TrimSpace(string(b))
	if payload == "" {
		return "", fmt.Errorf("%w: empty payload", wallet.ErrMalformedPayload)
	}
	return payload, nil
}
