package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// auditLogger appends one JSON record per shell command to
// <dataDir>/sessions/<session>.jsonl. Secret arguments are redacted
// before they reach the record.
type auditLogger struct {
	mu        sync.Mutex
	sessionID string
	path      string
	f         *os.File
}

func newAuditLogger(dataDir string) (*auditLogger, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data dir not configured")
	}
	dir := filepath.Join(dataDir, "sessions")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	path := filepath.Join(dir, sessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &auditLogger{sessionID: sessionID, path: path, f: f}, nil
}

func (l *auditLogger) Path() string {
	return l.path
}

func (l *auditLogger) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
}

// logCommand records a command and its outcome. A nil logger is a no-op.
func (l *auditLogger) logCommand(line, account string, cmdErr error) {
	if l == nil {
		return
	}
	rec := auditRecord{
		TS:      nowTS(),
		Session: l.sessionID,
		Command: redactLine(line),
		Account: account,
	}
	if cmdErr != nil {
		rec.Error = cmdErr.Error()
	}
	l.write(rec)
}

func (l *auditLogger) write(v any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	b = append(b, '\n')
	_, _ = l.f.Write(b)
}

type auditRecord struct {
	TS      string `json:"ts"`
	Session string `json:"session"`
	Command string `json:"command"`
	Account string `json:"account,omitempty"`
	Error   string `json:"error,omitempty"`
}

func nowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
