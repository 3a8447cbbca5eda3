package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// DefaultSlots is the number of table slots when Options.Slots is unset.
const DefaultSlots = 3

// Options configures a Store and the sessions it creates.
type Options struct {
	Slots   int
	Session SessionOptions
	Logger  *slog.Logger
}

// Store owns the sessions of every table slot. Sessions are created and
// loaded on first access and live as long as the Store.
type Store struct {
	storage Storage
	opts    Options
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[int]*Session
}

// NewStore returns a store backed by storage.
func NewStore(storage Storage, opts Options) *Store {
	if opts.Slots <= 0 {
		opts.Slots = DefaultSlots
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Session.Logger == nil {
		opts.Session.Logger = logger
	}
	return &Store{
		storage:  storage,
		opts:     opts,
		logger:   logger,
		sessions: make(map[int]*Session),
	}
}

// Slots returns the valid slot numbers, 1 through N.
func (st *Store) Slots() []int {
	out := make([]int, st.opts.Slots)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Session returns the session for slot, creating and loading it on first use.
func (st *Store) Session(ctx context.Context, slot int) (*Session, error) {
	if slot < 1 || slot > st.opts.Slots {
		return nil, fmt.Errorf("%w: %d (have 1-%d)", ErrUnknownTable, slot, st.opts.Slots)
	}

	st.mu.Lock()
	s, ok := st.sessions[slot]
	if !ok {
		s = NewSession(slot, st.storage, st.opts.Session)
		st.sessions[slot] = s
	}
	st.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Loaded returns the sessions created so far, ordered by slot.
func (st *Store) Loaded() []*Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].slot < out[j].slot })
	return out
}

// SaveAll saves every loaded session. It attempts all of them and returns the
// joined errors of those that failed.
func (st *Store) SaveAll(ctx context.Context) error {
	var errs []error
	saved := 0
	for _, s := range st.Loaded() {
		if err := s.Save(ctx); err != nil {
			errs = append(errs, fmt.Errorf("table %d: %w", s.slot, err))
			continue
		}
		saved++
	}
	st.logger.Info("save all", "saved", saved, "failed", len(errs))
	return errors.Join(errs...)
}

// UndoAll undoes the last change of every loaded session that has one and
// returns the slots that were undone.
func (st *Store) UndoAll(ctx context.Context) ([]int, error) {
	var undone []int
	for _, s := range st.Loaded() {
		err := s.Undo(ctx)
		switch {
		case err == nil:
			undone = append(undone, s.slot)
		case errors.Is(err, ErrNothingToUndo):
		default:
			return undone, fmt.Errorf("table %d: %w", s.slot, err)
		}
	}
	if len(undone) == 0 {
		return nil, ErrNothingToUndo
	}
	return undone, nil
}
