/*
annul.go - Annulment Manager: soft-invalidation with a mandatory audit trail

PURPOSE:
  An annulled entry stays in history forever - struck through in the
  presentation layer, excluded from every sum. Nothing is ever deleted
  (the one exception is reopening a closure, see reconcile.go).

AUTHORIZATION:
  Annulling an entry on a day whose Closure already exists rewrites a
  reconciled day, so it requires administrator privilege. Open days can
  be corrected by any operator.
*/
package ledger

import "context"

// Annul soft-invalidates the entry with the given ID, searching
// movements, expenses and pending invoices. The reason is mandatory.
func (b *Book) Annul(ctx context.Context, id EntryID, reason string, sess Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if reason == "" {
		return validationf("reason", "annulment reason is required")
	}

	day, apply := b.findEntry(id)
	if apply == nil {
		return ErrEntryNotFound
	}

	// A closed day has been reconciled against a physical count;
	// rewriting it is an administrator action.
	if !day.IsZero() && b.snap.IsClosed(day) && !sess.IsAdmin() {
		return &AuthorizationError{Operator: sess.Operator, Action: "annul entry on closed day"}
	}

	apply(reason, sess.Operator)
	b.persist(ctx)

	b.log.Info().Str("entry", string(id)).Str("reason", reason).
		Str("operator", sess.Operator).Msg("entry annulled")
	return nil
}

// findEntry locates an entry across the three annullable collections.
// It returns the entry's day (zero for invoices, which are not bound to
// a till day) and a closure that applies the annulment in place.
func (b *Book) findEntry(id EntryID) (Day, func(reason, by string)) {
	if id == "" {
		return Day{}, nil
	}
	for i := range b.snap.Movements {
		if b.snap.Movements[i].ID == id {
			m := &b.snap.Movements[i]
			return m.Day, func(reason, by string) {
				m.Annulled = true
				m.AnnulReason = reason
				m.AnnulledBy = by
			}
		}
	}
	for i := range b.snap.Expenses {
		if b.snap.Expenses[i].ID == id {
			e := &b.snap.Expenses[i]
			return e.Day, func(reason, by string) {
				e.Annulled = true
				e.AnnulReason = reason
				e.AnnulledBy = by
			}
		}
	}
	for i := range b.snap.Invoices {
		if b.snap.Invoices[i].ID == id {
			inv := &b.snap.Invoices[i]
			return Day{}, func(reason, by string) {
				inv.Annulled = true
				inv.AnnulReason = reason
				inv.AnnulledBy = by
			}
		}
	}
	return Day{}, nil
}
