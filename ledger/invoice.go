/*
invoice.go - Invoice Lifecycle Tracker

PURPOSE:
  Pending supplier invoices move through a small state machine:

    NO_DATE ──assign due date──▶ SCHEDULED ──mark paid──▶ PAID (terminal)

  SCHEDULED additionally derives an urgency from the days remaining
  until the due date. Urgency is a pure function of (today, due date),
  recomputed on every read, never persisted.

URGENCY THRESHOLDS:
  OVERDUE    days_remaining < 0
  DUE_TODAY  days_remaining = 0
  DUE_SOON   days_remaining in 1..3
  ON_TRACK   days_remaining > 3
*/
package ledger

import "context"

// =============================================================================
// URGENCY - derived display state for the alert board
// =============================================================================

type InvoiceLifecycle string

const (
	LifecycleNoDate    InvoiceLifecycle = "NO_DATE"
	LifecycleScheduled InvoiceLifecycle = "SCHEDULED"
	LifecyclePaid      InvoiceLifecycle = "PAID"
)

type Urgency string

const (
	UrgencyOverdue  Urgency = "OVERDUE"
	UrgencyDueToday Urgency = "DUE_TODAY"
	UrgencyDueSoon  Urgency = "DUE_SOON"
	UrgencyOnTrack  Urgency = "ON_TRACK"
	UrgencyNone     Urgency = "" // no due date assigned, or already paid
)

// Lifecycle returns the invoice's state-machine position.
func (inv PendingInvoice) Lifecycle() InvoiceLifecycle {
	switch {
	case inv.Status == StatusPaid:
		return LifecyclePaid
	case inv.DueDay.IsZero():
		return LifecycleNoDate
	default:
		return LifecycleScheduled
	}
}

// UrgencyOn derives the display urgency as of the given day.
// Only SCHEDULED invoices have one.
func (inv PendingInvoice) UrgencyOn(today Day) (Urgency, int) {
	if inv.Lifecycle() != LifecycleScheduled {
		return UrgencyNone, 0
	}
	remaining := today.DaysUntil(inv.DueDay)
	switch {
	case remaining < 0:
		return UrgencyOverdue, remaining
	case remaining == 0:
		return UrgencyDueToday, remaining
	case remaining <= 3:
		return UrgencyDueSoon, remaining
	default:
		return UrgencyOnTrack, remaining
	}
}

// =============================================================================
// LIFECYCLE OPERATIONS
// =============================================================================

// AssignDueDate sets or overwrites the due date of a PENDING invoice.
// The date arrives as text from the form layer; both ISO and the legacy
// DD/MM/YYYY form are accepted.
func (b *Book) AssignDueDate(ctx context.Context, id EntryID, due string, sess Session) (PendingInvoice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	day, err := ParseDay(due)
	if err != nil {
		return PendingInvoice{}, validationf("due", "%v", err)
	}

	inv := b.findInvoice(id)
	if inv == nil {
		return PendingInvoice{}, ErrEntryNotFound
	}
	if inv.Status == StatusPaid {
		return PendingInvoice{}, &StateError{Day: day, Message: "invoice already paid, due date is frozen"}
	}

	inv.DueDay = day
	b.persist(ctx)

	b.log.Info().Str("invoice", string(id)).Str("due", day.String()).
		Str("operator", sess.Operator).Msg("due date assigned")
	return *inv, nil
}

// MarkPaid transitions the invoice to PAID. Idempotent: marking an
// already-paid invoice again is a no-op, not an error.
func (b *Book) MarkPaid(ctx context.Context, id EntryID, sess Session) (PendingInvoice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	inv := b.findInvoice(id)
	if inv == nil {
		return PendingInvoice{}, ErrEntryNotFound
	}
	if inv.Status == StatusPaid {
		return *inv, nil
	}

	inv.Status = StatusPaid
	b.persist(ctx)

	b.log.Info().Str("invoice", string(id)).Str("operator", sess.Operator).
		Msg("invoice marked paid")
	return *inv, nil
}

func (b *Book) findInvoice(id EntryID) *PendingInvoice {
	if id == "" {
		return nil
	}
	for i := range b.snap.Invoices {
		if b.snap.Invoices[i].ID == id {
			return &b.snap.Invoices[i]
		}
	}
	return nil
}

// =============================================================================
// ALERT BOARD - read-side projection of open obligations
// =============================================================================

// InvoiceAlert is one row of the due-date board.
type InvoiceAlert struct {
	Invoice       PendingInvoice
	Lifecycle     InvoiceLifecycle
	Urgency       Urgency
	DaysRemaining int
}

// InvoiceBoard projects all non-annulled, unpaid invoices with their
// urgency as of the given day. Annulled invoices never appear,
// regardless of status.
func (b *Book) InvoiceBoard(today Day) []InvoiceAlert {
	b.mu.Lock()
	defer b.mu.Unlock()

	var board []InvoiceAlert
	for _, inv := range b.snap.Invoices {
		if inv.Annulled || inv.Status == StatusPaid {
			continue
		}
		urgency, remaining := inv.UrgencyOn(today)
		board = append(board, InvoiceAlert{
			Invoice:       inv,
			Lifecycle:     inv.Lifecycle(),
			Urgency:       urgency,
			DaysRemaining: remaining,
		})
	}
	return board
}
