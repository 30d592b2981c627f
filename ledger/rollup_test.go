package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hafid/cashbook-engine/ledger"
)

func mov(day ledger.Day, amount string, kind ledger.MovementKind, medium string) ledger.Movement {
	return ledger.Movement{
		ID:     ledger.NewEntryID(),
		Day:    day,
		Amount: amt(amount),
		Kind:   kind,
		Medium: ledger.Medium(medium),
	}
}

func exp(day ledger.Day, amount string, medium string) ledger.Expense {
	return ledger.Expense{
		ID:     ledger.NewEntryID(),
		Day:    day,
		Amount: amt(amount),
		Medium: ledger.ExpenseMedium(medium),
	}
}

// =============================================================================
// WEEKLY - Monday..Saturday grid, seven-day totals window
// =============================================================================

func TestRollup_WeeklyTotals_WindowAndBreakdown(t *testing.T) {
	// GIVEN: entries on Monday, Saturday, Sunday and the next Monday
	monday := ledger.NewDay(2025, time.March, 10) // a Monday
	snap := ledger.EmptySnapshot()
	snap.Movements = []ledger.Movement{
		mov(monday, "100", ledger.KindIncome, "CASH"),
		mov(monday.AddDays(5), "200", ledger.KindIncome, "CARD_OR_DIGITAL"), // Saturday
		mov(monday.AddDays(6), "50", ledger.KindIncome, "CASH"),             // Sunday
		mov(monday.AddDays(7), "999", ledger.KindIncome, "CASH"),            // next week
	}
	snap.Expenses = []ledger.Expense{
		exp(monday.AddDays(6), "30", "CASH_FROM_DRAWER"), // Sunday expense
	}

	week := ledger.WeeklyTotals(snap, monday)

	// Totals cover the inclusive seven-day window.
	assert.True(t, week.TotalIncome.Equal(amt("350")), "total_income=%s", week.TotalIncome)
	assert.True(t, week.TotalExpense.Equal(amt("30")))

	// The per-day breakdown is the six business days only.
	assert.Len(t, week.Days, 6)
	assert.Equal(t, time.Monday, week.Days[0].Day.Weekday())
	assert.Equal(t, time.Saturday, week.Days[5].Day.Weekday())
	assert.True(t, week.Days[0].CashIncome.Equal(amt("100")))
	assert.True(t, week.Days[5].DigitalIncome.Equal(amt("200")))
}

func TestRollup_WeekStart_SnapsToMonday(t *testing.T) {
	thursday := ledger.NewDay(2025, time.March, 13)
	assert.Equal(t, "2025-03-10", thursday.WeekStart().String())

	sunday := ledger.NewDay(2025, time.March, 16)
	assert.Equal(t, "2025-03-10", sunday.WeekStart().String())
}

// =============================================================================
// MONTHLY AND GROWTH
// =============================================================================

func TestRollup_MonthlyTotals_CalendarMonth(t *testing.T) {
	snap := ledger.EmptySnapshot()
	snap.Movements = []ledger.Movement{
		mov(ledger.NewDay(2025, time.March, 1), "100", ledger.KindIncome, "CASH"),
		mov(ledger.NewDay(2025, time.March, 31), "200", ledger.KindIncome, "CASH"),
		mov(ledger.NewDay(2025, time.April, 1), "999", ledger.KindIncome, "CASH"),
		mov(ledger.NewDay(2025, time.February, 28), "999", ledger.KindIncome, "CASH"),
	}

	m := ledger.MonthlyTotals(snap, ledger.NewDay(2025, time.March, 15))
	assert.True(t, m.TotalIncome.Equal(amt("300")), "total_income=%s", m.TotalIncome)
}

func TestRollup_Growth(t *testing.T) {
	// growth(1200, 1000) = +20%
	g := ledger.ComputeGrowth(amt("1200"), amt("1000"))
	assert.True(t, g.Available)
	assert.Equal(t, "20.00", g.Percent.StringFixed(2))

	// growth(1000, 0) is "not available", not a division by zero
	g = ledger.ComputeGrowth(amt("1000"), amt("0"))
	assert.False(t, g.Available)

	// decline reports negative
	g = ledger.ComputeGrowth(amt("800"), amt("1000"))
	assert.Equal(t, "-20.00", g.Percent.StringFixed(2))
}

// =============================================================================
// LEGACY LABELS - normalized on read, unknown goes to OTHER
// =============================================================================

func TestRollup_LegacySpanishLabels_Normalized(t *testing.T) {
	// Historical records carry the original labels; they must land in
	// the right buckets, not error out.
	snap := ledger.EmptySnapshot()
	snap.Movements = []ledger.Movement{
		mov(march10, "100", ledger.KindIncome, "EFECTIVO"),
		mov(march10, "200", ledger.KindIncome, "TARJETA / VIRTUAL"),
	}
	snap.Expenses = []ledger.Expense{
		exp(march10, "50", "EFECTIVO"),
	}

	d := ledger.DailyTotals(snap, march10)
	assert.True(t, d.CashIncome.Equal(amt("100")))
	assert.True(t, d.DigitalIncome.Equal(amt("200")))
	assert.True(t, d.CashExpenses.Equal(amt("50")))
	assert.True(t, d.ExpectedCash.Equal(amt("50")))
}

func TestRollup_UnrecognizedLabels_FallIntoOtherBucket(t *testing.T) {
	snap := ledger.EmptySnapshot()
	snap.Movements = []ledger.Movement{
		mov(march10, "100", ledger.KindIncome, "CRYPTO"),
		mov(march10, "-25", ledger.KindWithdrawal, "CRYPTO"),
	}
	snap.Expenses = []ledger.Expense{
		exp(march10, "40", "TRUEQUE"),
	}

	d := ledger.DailyTotals(snap, march10)
	assert.True(t, d.OtherIncome.Equal(amt("100")))
	assert.True(t, d.OtherWithdrawals.Equal(amt("25")))
	assert.True(t, d.OtherExpense.Equal(amt("40")))

	// Unknown money still counts toward the grand totals, never toward
	// the reconciled drawer.
	assert.True(t, d.TotalIncome.Equal(amt("100")))
	assert.True(t, d.TotalExpense.Equal(amt("40")))
	assert.True(t, d.ExpectedCash.IsZero())
	assert.True(t, d.CashWithdrawals.IsZero())
}
