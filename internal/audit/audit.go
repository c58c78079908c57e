// Package audit keeps an append-only JSONL trail of search invocations:
// which provider ran, where the credential came from, whether the cache
// served it, and how each rejection or failure ended. Secrets are
// redacted before anything touches disk.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/basket/searchgate/internal/shared"
)

// Entry is one recorded invocation.
type Entry struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
	Provider  string `json:"provider"`
	Query     string `json:"query"`
	Outcome   string `json:"outcome"` // "ok", "cached", "rejected", "error"
	Code      string `json:"code,omitempty"`
	TookMs    int64  `json:"took_ms,omitempty"`
	Results   int    `json:"results,omitempty"`
}

// Outcome values.
const (
	OutcomeOK       = "ok"
	OutcomeCached   = "cached"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	mu            sync.Mutex
	file          *os.File
	rejectedCount atomic.Int64
)

// Init opens (creating if needed) logs/audit.jsonl under homeDir.
// Idempotent; Record is a no-op until Init succeeds.
func Init(homeDir string) error {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		return nil
	}
	logDir := filepath.Join(homeDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(logDir, "audit.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	file = f
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// RejectedCount returns the total pre-flight rejections since startup.
func RejectedCount() int64 {
	return rejectedCount.Load()
}

// Record appends one invocation entry. Best effort: marshal or write
// failures are swallowed so auditing never fails a search.
func Record(e Entry) {
	if e.Outcome == OutcomeRejected {
		rejectedCount.Add(1)
	}

	e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	e.Query = shared.Redact(e.Query)
	e.Code = shared.Redact(e.Code)

	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return
	}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	_, _ = file.Write(append(b, '\n'))
}
