// Package core is the table state engine of the editor.
//
// It holds no I/O of its own beyond the Storage interface and can be driven
// by the web shell, the CLI or tests alike.
//
// # Values and tables
//
// A [Table] is an immutable value: ordered, uniquely named columns and rows
// that hold a [Value] for every column. Every operation ([Table.AddColumn],
// [Table.DropColumns], [Filter], [Sort], [Reconcile], ...) returns a new
// Table and leaves its input alone. Rows carry a stable id that survives
// sorting, filtering and undo.
//
// # Sessions
//
// A [Session] is one table slot. It owns the current table, the preferred
// persisted column order and an undo [Ledger]. All mutations go through a
// single path that snapshots the previous table, so [Session.Undo] restores
// exactly what was there before. [Store] owns one session per slot and
// creates them lazily:
//
//	store := core.NewStore(storage, core.Options{Slots: 3})
//	s, err := store.Session(ctx, 1)
//	if err != nil {
//	    return err
//	}
//	if err := s.AddColumn(ctx, "Notes", core.Null()); err != nil {
//	    return err
//	}
//	return s.Save(ctx)
//
// # Files
//
// [Decode] and [Encode] handle CSV, TSV and XLSX. Column types are inferred:
// booleans, then numbers, then text. Empty cells are null.
//
// # Errors
//
// Operations return the sentinels in errors.go, possibly wrapped. [MapError]
// turns any of them into a message with a support code.
package core
