package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction names a change recorded in a session's activity history.
type AuditAction string

const (
	ActionLoad         AuditAction = "load"
	ActionEdit         AuditAction = "edit"
	ActionCellEdit     AuditAction = "cell_edit"
	ActionRowAdd       AuditAction = "row_add"
	ActionRowDelete    AuditAction = "row_delete"
	ActionColumnAdd    AuditAction = "column_add"
	ActionColumnDelete AuditAction = "column_delete"
	ActionAppend       AuditAction = "append"
	ActionFilter       AuditAction = "filter"
	ActionSort         AuditAction = "sort"
	ActionCommit       AuditAction = "commit_preview"
	ActionUndo         AuditAction = "undo"
	ActionSave         AuditAction = "save"
)

// AuditSeverity ranks how destructive an action is.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry is one item of a session's history.
type AuditEntry struct {
	ID         string        `json:"id"`
	Action     AuditAction   `json:"action"`
	Severity   AuditSeverity `json:"severity"`
	Slot       int           `json:"slot"`
	Detail     string        `json:"detail,omitempty"`
	RowsBefore int           `json:"rowsBefore"`
	RowsAfter  int           `json:"rowsAfter"`
	Columns    []string      `json:"columns,omitempty"`
	IPAddress  string        `json:"ipAddress,omitempty"`
	UserAgent  string        `json:"userAgent,omitempty"`
	UndoDepth  int           `json:"undoDepth"`
	CreatedAt  time.Time     `json:"createdAt"`
}

func auditSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionRowDelete, ActionColumnDelete, ActionAppend, ActionFilter, ActionCommit:
		return SeverityHigh
	case ActionLoad, ActionSave:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// AuditLog keeps the most recent entries of one session in memory.
// It is a bounded history, not a transaction log: entries are never replayed.
type AuditLog struct {
	mu      sync.Mutex
	limit   int
	entries []AuditEntry
	now     func() time.Time
}

// DefaultHistoryLimit bounds an AuditLog created with a non-positive limit.
const DefaultHistoryLimit = 200

// NewAuditLog returns a log that keeps at most limit entries.
func NewAuditLog(limit int) *AuditLog {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &AuditLog{limit: limit, now: time.Now}
}

// Record appends an entry, filling id, severity, time and the client details
// carried by ctx.
func (a *AuditLog) Record(ctx context.Context, e AuditEntry) AuditEntry {
	e.ID = uuid.NewString()
	e.Severity = auditSeverity(e.Action)
	e.IPAddress = IPAddressFromContext(ctx)
	e.UserAgent = UserAgentFromContext(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	e.CreatedAt = a.now()
	a.entries = append(a.entries, e)
	if len(a.entries) > a.limit {
		a.entries = append([]AuditEntry(nil), a.entries[len(a.entries)-a.limit:]...)
	}
	return e
}

// Entries returns up to limit entries, newest first. limit <= 0 returns all.
func (a *AuditLog) Entries(limit int) []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]AuditEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, a.entries[i])
	}
	return out
}
