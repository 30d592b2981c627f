/*
recorder.go - Entry Recorder: validated appends to the ledger

PURPOSE:
  The only way entries enter the four collections. Every operation:
  1. Validates input (amount, required fields)
  2. Checks the closed-day guard (except invoices - future obligations
     are independent of today's till)
  3. Appends the record
  4. Persists the full snapshot

  Side effect of any append: the day's reconciliation figures become
  stale until recomputed. Recomputation is pull-based - the caller asks
  the reconciliation engine again, nothing is pushed.

SEE ALSO:
  - reconcile.go: consumes the day's entries at closing time
  - annul.go: the only way entries become invalid afterwards
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// RecordIncome appends an INCOME movement for the day.
// Fails with ValidationError on a non-positive amount and with
// StateError when the day is already closed.
func (b *Book) RecordIncome(ctx context.Context, day Day, amount decimal.Decimal, medium Medium, description string, sess Session) (Movement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validateOpenDay(day, amount); err != nil {
		return Movement{}, err
	}

	m := Movement{
		ID:          NewEntryID(),
		Day:         day,
		ClockTime:   b.clock(),
		Operator:    sess.Operator,
		Shift:       sess.Shift,
		Description: description,
		Amount:      round2(amount),
		Kind:        KindIncome,
		Medium:      medium,
	}
	b.snap.Movements = append(b.snap.Movements, m)
	b.persist(ctx)

	b.log.Info().Str("day", day.String()).Str("medium", string(medium)).
		Str("amount", m.Amount.String()).Str("operator", sess.Operator).
		Msg("income recorded")
	return m, nil
}

// RecordWithdrawal appends a WITHDRAWAL movement. The caller passes a
// positive amount; the movement is stored negated so that the invariant
// "WITHDRAWAL implies amount <= 0" holds over the whole collection.
func (b *Book) RecordWithdrawal(ctx context.Context, day Day, amount decimal.Decimal, medium Medium, reason string, sess Session) (Movement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validateOpenDay(day, amount); err != nil {
		return Movement{}, err
	}

	m := Movement{
		ID:          NewEntryID(),
		Day:         day,
		ClockTime:   b.clock(),
		Operator:    sess.Operator,
		Shift:       sess.Shift,
		Description: reason,
		Amount:      round2(amount).Neg(),
		Kind:        KindWithdrawal,
		Medium:      medium,
	}
	b.snap.Movements = append(b.snap.Movements, m)
	b.persist(ctx)

	b.log.Info().Str("day", day.String()).Str("amount", m.Amount.String()).
		Str("operator", sess.Operator).Msg("withdrawal recorded")
	return m, nil
}

// RecordExpense appends a paid-now expense for the day.
func (b *Book) RecordExpense(ctx context.Context, day Day, amount decimal.Decimal, category ExpenseCategory, medium ExpenseMedium, detail string, sess Session) (Expense, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.validateOpenDay(day, amount); err != nil {
		return Expense{}, err
	}
	if detail == "" {
		return Expense{}, validationf("detail", "supplier/detail is required")
	}

	e := Expense{
		ID:        NewEntryID(),
		Day:       day,
		ClockTime: b.clock(),
		Operator:  sess.Operator,
		Shift:     sess.Shift,
		Category:  category,
		Detail:    detail,
		Amount:    round2(amount),
		Medium:    medium,
	}
	b.snap.Expenses = append(b.snap.Expenses, e)
	b.persist(ctx)

	b.log.Info().Str("day", day.String()).Str("category", string(category)).
		Str("amount", e.Amount.String()).Msg("expense recorded")
	return e, nil
}

// RecordInvoice appends a PENDING supplier invoice with no due date.
// Invoices are future obligations, independent of today's till, so the
// closed-day guard does not apply.
func (b *Book) RecordInvoice(ctx context.Context, amount decimal.Decimal, kind DocKind, category ExpenseCategory, concept string, sess Session) (PendingInvoice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !amount.IsPositive() {
		return PendingInvoice{}, validationf("amount", "must be a positive number, got %s", amount)
	}

	inv := PendingInvoice{
		ID:       NewEntryID(),
		Created:  b.today(),
		Kind:     kind,
		Category: category,
		Concept:  concept,
		Amount:   round2(amount),
		Status:   StatusPending,
		Operator: sess.Operator,
	}
	b.snap.Invoices = append(b.snap.Invoices, inv)
	b.persist(ctx)

	b.log.Info().Str("kind", string(kind)).Str("amount", inv.Amount.String()).
		Msg("pending invoice recorded")
	return inv, nil
}

// validateOpenDay is the shared guard for till-affecting appends:
// positive amount, day not closed. Runs before any mutation.
func (b *Book) validateOpenDay(day Day, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationf("amount", "must be a positive number, got %s", amount)
	}
	if b.snap.IsClosed(day) {
		return &StateError{Day: day, Message: "ledger is closed for this day", Err: ErrDayClosed}
	}
	return nil
}
