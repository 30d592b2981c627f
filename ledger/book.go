/*
book.go - The in-memory ledger and its persistence discipline

PURPOSE:
  Book exclusively owns the four collections. Entry Recorder, Annulment
  Manager, Invoice Lifecycle Tracker and the Daily Reconciliation Engine
  are all methods on Book; nothing else mutates the collections.

CONCURRENCY:
  Single logical writer per process. A mutex serializes operations so
  that, within one process, they are strictly ordered by call sequence.
  Across processes there is NO mutual exclusion - the document-replace
  model means the last successful persist wins (see snapshot.go).

PERSISTENCE DISCIPLINE:
  Every mutation is applied to the in-memory snapshot first, then the
  whole snapshot is persisted. A persist failure is NOT an operation
  failure: the mutation stands, the book is flagged pending-sync, and
  Sync retries later (manually or via the jobs runner). Validation,
  state and authorization checks all run before the mutation, so a
  rejected operation touches nothing.
*/
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Book struct {
	mu    sync.Mutex
	store Store
	snap  Snapshot
	log   zerolog.Logger

	// pending is set when the last persist failed; the in-memory
	// snapshot is then authoritative but unsynchronized.
	pending bool

	// now is swappable for tests.
	now func() time.Time
}

func NewBook(store Store, log zerolog.Logger) *Book {
	return &Book{
		store: store,
		snap:  EmptySnapshot(),
		log:   log.With().Str("component", "book").Logger(),
		now:   time.Now,
	}
}

// WithClock overrides the book's wall clock. Tests and callers that
// need a fixed business day use this.
func (b *Book) WithClock(now func() time.Time) *Book {
	b.now = now
	return b
}

// Load pulls the remote document. On connectivity failure the store
// hands back its best-known fallback (last good, journaled, or empty)
// per the Store contract; the book adopts it and reports the error, so
// the caller proceeds with best-known local state.
func (b *Book) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap, err := b.store.Load(ctx)
	if err != nil {
		if IsConnectivity(err) {
			b.snap = snap
			b.log.Warn().Err(err).Int64("revision", snap.Revision).
				Msg("remote unreachable, resuming from fallback snapshot")
			return err
		}
		b.log.Warn().Err(err).Msg("load failed, keeping local snapshot")
		return err
	}
	b.snap = snap
	b.pending = false
	b.log.Info().
		Int("movements", len(snap.Movements)).
		Int("expenses", len(snap.Expenses)).
		Int("invoices", len(snap.Invoices)).
		Int("closures", len(snap.Closures)).
		Msg("snapshot loaded")
	return nil
}

// Snapshot returns a deep copy for read-side consumers (rollups, list
// projections, export). Callers never hold references into the live
// collections longer than one operation cycle.
func (b *Book) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap.Clone()
}

// PendingSync reports whether the last persist failed and a retry is due.
func (b *Book) PendingSync() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Sync re-persists the current snapshot. Used by the retry job and the
// manual force-sync endpoint.
func (b *Book) Sync(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.pending {
		return nil
	}
	if err := b.store.Persist(ctx, b.snap); err != nil {
		return err
	}
	b.pending = false
	b.log.Info().Int64("revision", b.snap.Revision).Msg("pending snapshot synced")
	return nil
}

// persist pushes the whole snapshot. Called with b.mu held, after the
// mutation has been applied. Connectivity failures are absorbed here:
// the operation already succeeded locally.
func (b *Book) persist(ctx context.Context) {
	b.snap.Revision++
	if err := b.store.Persist(ctx, b.snap); err != nil {
		b.pending = true
		b.log.Warn().Err(err).Int64("revision", b.snap.Revision).
			Msg("persist failed, snapshot pending sync")
		return
	}
	b.pending = false
}

// clock returns the wall-clock time formatted for record ClockTime fields.
func (b *Book) clock() string {
	return b.now().Format("15:04")
}

// today returns the current day from the book's clock.
func (b *Book) today() Day {
	n := b.now()
	return NewDay(n.Year(), n.Month(), n.Day())
}
