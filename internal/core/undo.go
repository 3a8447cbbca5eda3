package core

// Ledger is a LIFO stack of table snapshots, one per applied mutation.
// Snapshots are deep copies; nothing outside the ledger can alter them.
//
// A positive limit caps the depth by discarding the oldest snapshot.
// The zero Ledger is unlimited and ready to use. Ledger is not safe for
// concurrent use; Session serializes access.
type Ledger struct {
	limit     int
	snapshots []Table
}

// NewLedger returns a ledger holding at most limit snapshots (0 = unlimited).
func NewLedger(limit int) *Ledger {
	if limit < 0 {
		limit = 0
	}
	return &Ledger{limit: limit}
}

// Push records a snapshot of t.
func (l *Ledger) Push(t Table) {
	l.snapshots = append(l.snapshots, t.Clone())
	if l.limit > 0 && len(l.snapshots) > l.limit {
		drop := len(l.snapshots) - l.limit
		copy(l.snapshots, l.snapshots[drop:])
		for i := len(l.snapshots) - drop; i < len(l.snapshots); i++ {
			l.snapshots[i] = Table{}
		}
		l.snapshots = l.snapshots[:l.limit]
	}
}

// Pop removes and returns the most recent snapshot.
func (l *Ledger) Pop() (Table, error) {
	n := len(l.snapshots)
	if n == 0 {
		return Table{}, ErrNothingToUndo
	}
	t := l.snapshots[n-1]
	l.snapshots[n-1] = Table{}
	l.snapshots = l.snapshots[:n-1]
	return t, nil
}

// Len returns the number of snapshots held.
func (l *Ledger) Len() int { return len(l.snapshots) }

// Limit returns the configured depth cap; 0 means unlimited.
func (l *Ledger) Limit() int { return l.limit }
