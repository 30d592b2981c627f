/*
snapshot.go - The four-collection document and the Store contract

PURPOSE:
  The remote boundary is one JSON document holding four collections:
  movements, expenses, pending invoices, closures. There is no partial
  update: every mutation persists the ENTIRE snapshot as one document
  replace.

THE CENTRAL RISK:
  Two concurrent writers each load, mutate and persist the whole
  document; the second persist silently discards the first writer's
  changes (lost update). The engine keeps the original last-write-wins
  behavior on purpose - Snapshot.Revision is the hook for a store that
  wants to reject stale writes with ErrRevisionConflict instead. See
  store/remote for the parity implementation and its lost-update test.

CONNECTIVITY:
  Load and Persist apply a bounded timeout and fail with a
  ConnectivityError. Neither failure is fatal: Load falls back to the
  last successfully loaded (or empty) snapshot, and a failed Persist
  leaves the in-memory snapshot correct but "pending sync".

SEE ALSO:
  - store/remote: HTTP document store
  - store/sqlite: local durable journal
  - ledger/store: in-memory store for tests
*/
package ledger

import "context"

// =============================================================================
// SNAPSHOT - Everything the business owns, in one document
// =============================================================================

type Snapshot struct {
	Movements []Movement       `json:"movements"`
	Expenses  []Expense        `json:"expenses"`
	Invoices  []PendingInvoice `json:"pending_invoices"`
	Closures  []Closure        `json:"closures"`

	// Revision is a monotonic persist counter. The bundled stores carry
	// it through without enforcement; an optimistic store compares it at
	// persist time and fails with ErrRevisionConflict on mismatch.
	Revision int64 `json:"revision,omitempty"`
}

// EmptySnapshot returns a snapshot with all four collections initialized.
// Absent or null fields in the remote document default to this.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Movements: []Movement{},
		Expenses:  []Expense{},
		Invoices:  []PendingInvoice{},
		Closures:  []Closure{},
	}
}

// Clone returns a deep copy. Handed to read-side consumers (rollups,
// export) so they never hold references into the live collections.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Movements: make([]Movement, len(s.Movements)),
		Expenses:  make([]Expense, len(s.Expenses)),
		Invoices:  make([]PendingInvoice, len(s.Invoices)),
		Closures:  make([]Closure, len(s.Closures)),
		Revision:  s.Revision,
	}
	copy(out.Movements, s.Movements)
	copy(out.Expenses, s.Expenses)
	copy(out.Invoices, s.Invoices)
	copy(out.Closures, s.Closures)
	return out
}

// ClosureFor returns the day's Closure, or nil when the day is open.
// Value receiver: pure read, callable on any snapshot expression.
func (s Snapshot) ClosureFor(day Day) *Closure {
	for i := range s.Closures {
		if s.Closures[i].Day.Equal(day) {
			return &s.Closures[i]
		}
	}
	return nil
}

// IsClosed reports whether a Closure exists for the day.
func (s Snapshot) IsClosed(day Day) bool {
	return s.ClosureFor(day) != nil
}

// =============================================================================
// STORE - load/replace-all persistence contract
// =============================================================================

// Store persists the whole snapshot as one document.
//
// CONTRACT:
//   - Load never halts the caller: on timeout/unreachable it returns a
//     ConnectivityError alongside the best fallback the implementation
//     has (last-known-good or EmptySnapshot).
//   - Persist is best-effort: a ConnectivityError means "saved locally,
//     not yet synced", never "lost".
//   - No partial update exists. Last successful Persist wins.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Persist(ctx context.Context, snap Snapshot) error
}
