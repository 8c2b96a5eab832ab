package cli

import (
	"strings"
)

const redacted = "***REDACTED***"

// secretCommands take secret material as their arguments.
var secretCommands = map[string]struct{}{
	"/mnemonic": {},
	"/import":   {},
}

// redactLine hides the arguments of shell commands that carry a mnemonic
// or private key. Anything else is returned unchanged.
func redactLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return trimmed
	}

	cmd, rest, hasArgs := strings.Cut(trimmed, " ")
	if _, ok := secretCommands[strings.ToLower(cmd)]; !ok {
		return trimmed
	}
	if !hasArgs || strings.TrimSpace(rest) == "" {
		return cmd
	}
	return cmd + " " + redacted
}
