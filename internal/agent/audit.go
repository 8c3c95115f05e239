package agent

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// AuditLog is the append-only record of every agent step. Writes are
// best-effort: an unwritable log must never interrupt a running loop, so
// failures are logged and swallowed.
type AuditLog struct {
	path string
}

// NewAuditLog creates an audit log writing to path. An empty path disables
// recording.
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// RecordStep appends one step entry: reasoning, action, arguments, and the
// (already truncated) observation.
func (a *AuditLog) RecordStep(step int, thought, action string, args map[string]interface{}, observation string) {
	a.append(fmt.Sprintf("\n[Step %d] Action: %s\nThought: %s\nArgs: %v\nResult: %s\n",
		step, action, thought, args, observation))
}

// RecordFinish appends a terminal entry
func (a *AuditLog) RecordFinish(step int) {
	a.append(fmt.Sprintf("\n[Step %d] FINISHED\n", step))
}

// RecordError appends an error-recovery entry
func (a *AuditLog) RecordError(step int, note string) {
	a.append(fmt.Sprintf("\n[Step %d] Error: %s\n", step, note))
}

func (a *AuditLog) append(entry string) {
	if a.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		log.Printf("audit: cannot create log directory: %v", err)
		return
	}
	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("audit: cannot open log: %v", err)
		return
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(entry); err != nil {
		log.Printf("audit: write failed: %v", err)
	}
}
