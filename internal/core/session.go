package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Storage persists table files by name. Read reports a missing file with an
// error matching fs.ErrNotExist. Write must replace the file atomically.
type Storage interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// DefaultColumns are the columns of a slot that has no stored file.
var DefaultColumns = []string{"Column1", "Column2", "Column3"}

// SessionOptions configures a Session. Zero values select the defaults.
type SessionOptions struct {
	Format         Format
	DefaultColumns []string
	UndoDepth      int
	HistoryLimit   int
	Logger         *slog.Logger
}

// Session is the editing state of one table slot: the current table, the
// preferred persisted column order, the undo ledger and the save timestamp.
//
// Every change goes through mutate, which applies a pure table operation,
// snapshots the previous table and swaps in the result. A failed operation
// leaves the session exactly as it was.
type Session struct {
	mu sync.Mutex

	slot     int
	storage  Storage
	format   Format
	defaults []string
	logger   *slog.Logger
	now      func() time.Time

	loaded      bool
	current     Table
	columnOrder []string
	ledger      *Ledger
	history     *AuditLog
	lastSavedAt time.Time
	dirty       bool
}

// errNoop marks an operation that would not change the table.
var errNoop = errors.New("no-op")

// NewSession returns an unloaded session for slot. Storage is not touched
// until the first operation or an explicit Load.
func NewSession(slot int, storage Storage, opts SessionOptions) *Session {
	if opts.Format == 0 {
		opts.Format = FormatCSV
	}
	if len(opts.DefaultColumns) == 0 {
		opts.DefaultColumns = DefaultColumns
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		slot:     slot,
		storage:  storage,
		format:   opts.Format,
		defaults: append([]string(nil), opts.DefaultColumns...),
		logger:   logger.With("slot", slot),
		now:      time.Now,
		ledger:   NewLedger(opts.UndoDepth),
		history:  NewAuditLog(opts.HistoryLimit),
	}
}

// Slot returns the session's 1-based slot number.
func (s *Session) Slot() int { return s.slot }

// FileName is the stored file backing this slot, e.g. "table2.csv".
func (s *Session) FileName() string {
	return fmt.Sprintf("table%d%s", s.slot, s.format.Extension())
}

// ExportName is the download name for an export in format, e.g.
// "table2_data.csv".
func (s *Session) ExportName(format Format) string {
	return fmt.Sprintf("table%d_data%s", s.slot, format.Extension())
}

// Load reads the slot's file from storage, replacing any state. A missing or
// unreadable file yields an empty table with the default columns.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Session) loadLocked(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := s.readStored(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no stored table, starting empty", "file", s.FileName())
		} else {
			s.logger.Warn("stored table unreadable, starting empty", "file", s.FileName(), "error", err)
		}
		t, _ = NewTable(s.defaults...)
	}

	s.current = t
	s.columnOrder = t.Columns()
	s.ledger = NewLedger(s.ledger.Limit())
	s.lastSavedAt = time.Time{}
	s.dirty = false
	s.loaded = true

	s.history.Record(ctx, AuditEntry{
		Action:    ActionLoad,
		Slot:      s.slot,
		Detail:    s.FileName(),
		RowsAfter: t.Len(),
		Columns:   t.Columns(),
	})
	s.logger.Info("table loaded", "rows", t.Len(), "columns", t.Width())
	return nil
}

func (s *Session) readStored(ctx context.Context) (Table, error) {
	data, err := s.storage.Read(ctx, s.FileName())
	if err != nil {
		return Table{}, err
	}
	if len(data) == 0 {
		return Table{}, fs.ErrNotExist
	}
	t, err := Decode(data, s.format)
	if err != nil {
		return Table{}, err
	}
	if t.Width() == 0 {
		return Table{}, fmt.Errorf("%w: no columns", ErrParse)
	}
	return t, nil
}

func (s *Session) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// Table returns the current table.
func (s *Session) Table(ctx context.Context) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return Table{}, err
	}
	return s.current, nil
}

// SessionView is a consistent snapshot of a session for rendering.
type SessionView struct {
	Slot        int        `json:"slot"`
	FileName    string     `json:"fileName"`
	Table       Table      `json:"-"`
	ColumnOrder []string   `json:"columnOrder"`
	LastSavedAt *time.Time `json:"lastSavedAt,omitempty"`
	UndoDepth   int        `json:"undoDepth"`
	Unsaved     bool       `json:"unsaved"`
}

// View returns the session state under a single lock acquisition.
func (s *Session) View(ctx context.Context) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return SessionView{}, err
	}
	v := SessionView{
		Slot:        s.slot,
		FileName:    s.FileName(),
		Table:       s.current,
		ColumnOrder: append([]string(nil), s.columnOrder...),
		UndoDepth:   s.ledger.Len(),
		Unsaved:     s.dirty,
	}
	if !s.lastSavedAt.IsZero() {
		saved := s.lastSavedAt
		v.LastSavedAt = &saved
	}
	return v, nil
}

// UndoDepth returns the number of changes that can be undone.
func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// History returns up to limit activity entries, newest first.
func (s *Session) History(limit int) []AuditEntry {
	return s.history.Entries(limit)
}

// mutate applies op to the current table. On success the previous table is
// pushed onto the ledger and an activity entry is recorded. op returning
// errNoop leaves everything untouched and reports success.
func (s *Session) mutate(ctx context.Context, action AuditAction, detail string, op func(Table) (Table, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	next, err := op(s.current)
	if errors.Is(err, errNoop) {
		return nil
	}
	if err != nil {
		return err
	}

	before := s.current.Len()
	s.ledger.Push(s.current)
	s.current = next
	s.dirty = true

	s.history.Record(ctx, AuditEntry{
		Action:     action,
		Slot:       s.slot,
		Detail:     detail,
		RowsBefore: before,
		RowsAfter:  next.Len(),
		Columns:    next.Columns(),
		UndoDepth:  s.ledger.Len(),
	})
	s.logger.Debug("table changed", "action", action, "rows", next.Len(), "undo_depth", s.ledger.Len())
	return nil
}

// CommitEdit replaces the current table with an edited copy, as produced by
// the editor grid. If the edited column order differs from the current one
// it becomes the preferred persisted order. An unchanged table is a no-op.
func (s *Session) CommitEdit(ctx context.Context, edited Table) error {
	return s.mutate(ctx, ActionEdit, "", func(cur Table) (Table, error) {
		if edited.Width() == 0 {
			return cur, ErrNoColumnsRemaining
		}
		if edited.Equal(cur) {
			return cur, errNoop
		}
		if !sameColumns(edited.columns, cur.columns) {
			s.columnOrder = edited.Columns()
		}
		return edited, nil
	})
}

// SetCell edits a single cell.
func (s *Session) SetCell(ctx context.Context, row int, column string, v Value) error {
	detail := fmt.Sprintf("row %d, column %q", row, column)
	return s.mutate(ctx, ActionCellEdit, detail, func(cur Table) (Table, error) {
		old, err := cur.Value(row, column)
		if err != nil {
			return cur, err
		}
		if old.Equal(v) {
			return cur, errNoop
		}
		return cur.SetCell(row, column, v)
	})
}

// AppendRow adds one row at the end of the table.
func (s *Session) AppendRow(ctx context.Context, values map[string]Value) error {
	return s.mutate(ctx, ActionRowAdd, "", func(cur Table) (Table, error) {
		return cur.AppendRow(values)
	})
}

// AddColumn appends a column filled with def.
func (s *Session) AddColumn(ctx context.Context, name string, def Value) error {
	return s.mutate(ctx, ActionColumnAdd, name, func(cur Table) (Table, error) {
		return cur.AddColumn(name, def)
	})
}

// DeleteColumns removes columns. An empty list is a no-op.
func (s *Session) DeleteColumns(ctx context.Context, names ...string) error {
	return s.mutate(ctx, ActionColumnDelete, strings.Join(names, ", "), func(cur Table) (Table, error) {
		if len(names) == 0 {
			return cur, errNoop
		}
		return cur.DropColumns(names...)
	})
}

// DeleteRows removes rows by 0-based position. Positions outside the table
// are ignored; if none remain the call is a no-op.
func (s *Session) DeleteRows(ctx context.Context, indices ...int) error {
	return s.mutate(ctx, ActionRowDelete, fmt.Sprintf("%d position(s)", len(indices)), func(cur Table) (Table, error) {
		next := cur.DropRows(indices...)
		if next.Len() == cur.Len() {
			return cur, errNoop
		}
		return next, nil
	})
}

// DeleteRowIDs removes rows by stable id. Unknown ids are ignored.
func (s *Session) DeleteRowIDs(ctx context.Context, ids ...string) error {
	return s.mutate(ctx, ActionRowDelete, fmt.Sprintf("%d id(s)", len(ids)), func(cur Table) (Table, error) {
		next := cur.DropRowIDs(ids...)
		if next.Len() == cur.Len() {
			return cur, errNoop
		}
		return next, nil
	})
}

// Append merges incoming into the current table under policy. See Reconcile.
func (s *Session) Append(ctx context.Context, incoming Table, policy Policy) error {
	return s.mutate(ctx, ActionAppend, "policy "+policy.String(), func(cur Table) (Table, error) {
		next, err := Reconcile(cur, incoming, policy)
		if err != nil {
			return cur, err
		}
		if policy == PolicyAlign && !cur.IsEmpty() {
			var dropped []string
			for _, c := range incoming.columns {
				if !cur.HasColumn(c) {
					dropped = append(dropped, c)
				}
			}
			if len(dropped) > 0 {
				s.logger.Warn("align dropped incoming columns", "columns", dropped)
			}
		}
		return next, nil
	})
}

// Import decodes an uploaded file and appends it. The returned preview
// describes the comparison either way, so a caller receiving
// ErrReconciliationRequired can present the choice. A file that cannot be
// decoded leaves the session untouched.
func (s *Session) Import(ctx context.Context, fileName string, data []byte, policy Policy) (ImportPreview, error) {
	incoming, err := decodeUpload(fileName, data)
	if err != nil {
		return ImportPreview{}, err
	}

	cur, err := s.Table(ctx)
	if err != nil {
		return ImportPreview{}, err
	}
	preview := PreviewImport(cur, incoming)

	if err := s.Append(ctx, incoming, policy); err != nil {
		return preview, err
	}
	s.logger.Info("file imported", "file", fileName, "rows", incoming.Len(), "policy", policy.String())
	return preview, nil
}

// PreviewImport decodes an uploaded file and reports how it compares with the
// current table without changing anything.
func (s *Session) PreviewImport(ctx context.Context, fileName string, data []byte) (ImportPreview, error) {
	incoming, err := decodeUpload(fileName, data)
	if err != nil {
		return ImportPreview{}, err
	}
	cur, err := s.Table(ctx)
	if err != nil {
		return ImportPreview{}, err
	}
	return PreviewImport(cur, incoming), nil
}

func decodeUpload(fileName string, data []byte) (Table, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return Table{}, err
	}
	return Decode(data, format)
}

// PreviewFilter returns the filtered current table without committing it.
func (s *Session) PreviewFilter(ctx context.Context, predicates map[string]Predicate) (Table, error) {
	cur, err := s.Table(ctx)
	if err != nil {
		return Table{}, err
	}
	return Filter(cur, predicates)
}

// PreviewSort returns the sorted current table without committing it.
func (s *Session) PreviewSort(ctx context.Context, column string, ascending bool) (Table, error) {
	cur, err := s.Table(ctx)
	if err != nil {
		return Table{}, err
	}
	return Sort(cur, column, ascending)
}

// CommitPreview makes a previously previewed table current.
func (s *Session) CommitPreview(ctx context.Context, derived Table) error {
	return s.mutate(ctx, ActionCommit, "", func(cur Table) (Table, error) {
		if derived.Width() == 0 {
			return cur, ErrNoColumnsRemaining
		}
		if derived.Equal(cur) {
			return cur, errNoop
		}
		return derived, nil
	})
}

// ApplyFilter filters the current table and commits the result.
func (s *Session) ApplyFilter(ctx context.Context, predicates map[string]Predicate) error {
	return s.mutate(ctx, ActionFilter, describePredicates(predicates), func(cur Table) (Table, error) {
		return unlessUnchanged(cur)(Filter(cur, predicates))
	})
}

// ApplySort sorts the current table and commits the result.
func (s *Session) ApplySort(ctx context.Context, column string, ascending bool) error {
	dir := "ascending"
	if !ascending {
		dir = "descending"
	}
	return s.mutate(ctx, ActionSort, column+" "+dir, func(cur Table) (Table, error) {
		return unlessUnchanged(cur)(Sort(cur, column, ascending))
	})
}

// unlessUnchanged turns a derived table equal to cur into errNoop so that
// the mutation records no undo snapshot.
func unlessUnchanged(cur Table) func(Table, error) (Table, error) {
	return func(next Table, err error) (Table, error) {
		if err == nil && next.Equal(cur) {
			return cur, errNoop
		}
		return next, err
	}
}

func describePredicates(predicates map[string]Predicate) string {
	parts := make([]string, 0, len(predicates))
	for c, p := range predicates {
		parts = append(parts, c+" "+p.String())
	}
	return strings.Join(parts, "; ")
}

// Undo restores the table as it was before the last change.
func (s *Session) Undo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	prev, err := s.ledger.Pop()
	if err != nil {
		return err
	}
	before := s.current.Len()
	s.current = prev
	s.dirty = true

	s.history.Record(ctx, AuditEntry{
		Action:     ActionUndo,
		Slot:       s.slot,
		RowsBefore: before,
		RowsAfter:  prev.Len(),
		Columns:    prev.Columns(),
		UndoDepth:  s.ledger.Len(),
	})
	s.logger.Info("change undone", "undo_depth", s.ledger.Len())
	return nil
}

// Save writes the current table to storage with its columns in the
// preferred order. A failed save wraps ErrIO and changes nothing.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	order := ReconcileColumnOrder(s.columnOrder, s.current.columns)
	out, err := s.current.Reorder(order)
	if err != nil {
		return err
	}
	data, err := Encode(out, s.format)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrIO, s.FileName(), err)
	}
	if err := s.storage.Write(ctx, s.FileName(), data); err != nil {
		s.logger.Error("save failed", "file", s.FileName(), "error", err)
		return fmt.Errorf("%w: write %s: %v", ErrIO, s.FileName(), err)
	}

	s.columnOrder = order
	s.lastSavedAt = s.now()
	s.dirty = false

	s.history.Record(ctx, AuditEntry{
		Action:     ActionSave,
		Slot:       s.slot,
		Detail:     s.FileName(),
		RowsBefore: s.current.Len(),
		RowsAfter:  s.current.Len(),
		Columns:    order,
		UndoDepth:  s.ledger.Len(),
	})
	s.logger.Info("table saved", "file", s.FileName(), "rows", s.current.Len(), "bytes", len(data))
	return nil
}

// Export encodes the current table, live column order, for download.
func (s *Session) Export(ctx context.Context, format Format) (string, []byte, error) {
	cur, err := s.Table(ctx)
	if err != nil {
		return "", nil, err
	}
	data, err := Encode(cur, format)
	if err != nil {
		return "", nil, err
	}
	return s.ExportName(format), data, nil
}

// Unsaved reports whether the table changed since it was loaded or saved.
func (s *Session) Unsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// LastSaved returns the time of the last successful save, or zero.
func (s *Session) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSavedAt
}
