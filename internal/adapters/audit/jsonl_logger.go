package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/renato0307/agentplans/internal/domain"
	"github.com/renato0307/agentplans/internal/ports"
)

// Filename is the audit trail kept in each plan directory
const Filename = ".audit.jsonl"

// JSONLLogger appends audit entries as JSON lines
type JSONLLogger struct {
	mu  sync.Mutex
	now func() time.Time
}

// Verify interface compliance at compile time
var _ ports.AuditLogger = (*JSONLLogger)(nil)

// NewJSONLLogger creates a JSONLLogger
func NewJSONLLogger() *JSONLLogger {
	return &JSONLLogger{now: time.Now}
}

// Log appends entry to the audit trail of directory
func (l *JSONLLogger) Log(ctx context.Context, entry domain.AuditEntry, directory string) error {
	if directory == "" {
		return fmt.Errorf("audit directory is empty")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(directory, Filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
