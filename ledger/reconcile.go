/*
reconcile.go - Daily Reconciliation Engine ("arqueo")

PURPOSE:
  The algorithmic core. At shift close the operator counts the physical
  cash in the drawer; the engine computes what SHOULD be there from the
  day's recorded entries, records the variance, and locks the day.

STATE MACHINE PER DAY:

    OPEN ──close(counted)──▶ CLOSED ──reopen (admin)──▶ OPEN
    (no Closure exists)      (Closure exists)

  Reopen DELETES the day's Closure - the only deletion in the system.
  A closed day rejects every entry-recording operation until reopened.

EXPECTED CASH:
  Over the day's non-annulled entries:
    expected_cash = cash income - |cash withdrawals| - drawer expenses
  The symmetric digital figure is informational only: no physical count
  of digital funds exists, so nothing is reconciled against it.

IDEMPOTENCE:
  reopen followed by close with the same counted amount reproduces the
  original expected cash and variance, provided no entries changed.
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// ComputeExpected derives the day's reconciliation figures from the
// current snapshot. Pure read; recomputed on demand (figures go stale
// whenever an entry is appended or annulled).
func (b *Book) ComputeExpected(day Day) DayTotals {
	b.mu.Lock()
	defer b.mu.Unlock()
	return DailyTotals(b.snap, day)
}

// Close reconciles and locks the day.
// Fails with StateError if a Closure already exists, and with
// ValidationError if countedCash is negative.
func (b *Book) Close(ctx context.Context, day Day, countedCash decimal.Decimal, sess Session) (Closure, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.snap.IsClosed(day) {
		return Closure{}, &StateError{Day: day, Message: "day already closed", Err: ErrDayClosed}
	}
	if countedCash.IsNegative() {
		return Closure{}, validationf("counted_cash", "must be a non-negative number, got %s", countedCash)
	}

	figures := DailyTotals(b.snap, day)
	counted := round2(countedCash)

	c := Closure{
		ID:              NewEntryID(),
		Day:             day,
		ClockTime:       b.clock(),
		ClosedBy:        sess.Operator,
		ExpectedCash:    figures.ExpectedCash,
		CountedCash:     counted,
		Variance:        counted.Sub(figures.ExpectedCash),
		ExpectedDigital: figures.ExpectedDigital,
		TotalIncome:     figures.TotalIncome,
		TotalExpense:    figures.TotalExpense,
		NetProfit:       figures.NetProfit,
	}
	b.snap.Closures = append(b.snap.Closures, c)
	b.persist(ctx)

	b.log.Info().Str("day", day.String()).
		Str("expected", c.ExpectedCash.String()).
		Str("counted", c.CountedCash.String()).
		Str("variance", c.Variance.String()).
		Str("operator", sess.Operator).
		Msg("day closed")
	return c, nil
}

// Reopen deletes the day's Closure and returns the day to OPEN.
// Administrator only.
func (b *Book) Reopen(ctx context.Context, day Day, sess Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !sess.IsAdmin() {
		return &AuthorizationError{Operator: sess.Operator, Action: "reopen day"}
	}

	idx := -1
	for i := range b.snap.Closures {
		if b.snap.Closures[i].Day.Equal(day) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &StateError{Day: day, Message: "day was never closed", Err: ErrDayNotClosed}
	}

	b.snap.Closures = append(b.snap.Closures[:idx], b.snap.Closures[idx+1:]...)
	b.persist(ctx)

	b.log.Warn().Str("day", day.String()).Str("operator", sess.Operator).
		Msg("day reopened, closure deleted")
	return nil
}
