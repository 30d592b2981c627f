/*
rollup.go - Rollup Calculator: pure read-side projections

PURPOSE:
  Derives per-day, per-week and per-month aggregates from the raw
  collections. No stored state: every figure is recomputed from the
  snapshot on demand. Annulled entries never contribute.

LEGACY LABELS:
  Historical records may carry old medium/category labels. Sums
  normalize on read; anything unrecognized lands in the OTHER bucket
  and still counts toward the grand totals - unknown money is money.

WEEK DEFINITION:
  The business week runs Monday..Saturday. The per-day income breakdown
  covers those six days; the weekly totals cover the full
  [weekStart, weekStart+6] window, Sunday included.
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DAY TOTALS - the arqueo figures, shared with the reconciliation engine
// =============================================================================

// DayTotals are one day's reconciliation figures.
type DayTotals struct {
	Day Day

	CashIncome      decimal.Decimal
	CashWithdrawals decimal.Decimal // absolute value
	CashExpenses    decimal.Decimal
	ExpectedCash    decimal.Decimal

	DigitalIncome      decimal.Decimal
	DigitalWithdrawals decimal.Decimal
	DigitalExpenses    decimal.Decimal
	ExpectedDigital    decimal.Decimal

	OtherIncome      decimal.Decimal // unrecognized legacy mediums
	OtherWithdrawals decimal.Decimal
	OtherExpense     decimal.Decimal

	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetProfit    decimal.Decimal
}

// DailyTotals aggregates the day's non-annulled movements and expenses
// by payment medium.
func DailyTotals(s Snapshot, day Day) DayTotals {
	return rangeTotals(s, day, day)
}

// rangeTotals sums non-annulled entries with day in [from, to].
func rangeTotals(s Snapshot, from, to Day) DayTotals {
	t := DayTotals{Day: from}
	zero := decimal.Zero
	t.CashIncome, t.CashWithdrawals, t.CashExpenses = zero, zero, zero
	t.DigitalIncome, t.DigitalWithdrawals, t.DigitalExpenses = zero, zero, zero
	t.OtherIncome, t.OtherWithdrawals, t.OtherExpense = zero, zero, zero

	for _, m := range s.Movements {
		if m.Annulled || m.Day.Before(from) || m.Day.After(to) {
			continue
		}
		medium := NormalizeMedium(string(m.Medium))
		switch m.Kind {
		case KindWithdrawal:
			abs := m.Amount.Abs()
			switch medium {
			case MediumCash:
				t.CashWithdrawals = t.CashWithdrawals.Add(abs)
			case MediumDigital:
				t.DigitalWithdrawals = t.DigitalWithdrawals.Add(abs)
			default:
				t.OtherWithdrawals = t.OtherWithdrawals.Add(abs)
			}
		default: // INCOME, including legacy records with no kind label
			switch medium {
			case MediumCash:
				t.CashIncome = t.CashIncome.Add(m.Amount)
			case MediumDigital:
				t.DigitalIncome = t.DigitalIncome.Add(m.Amount)
			default:
				t.OtherIncome = t.OtherIncome.Add(m.Amount)
			}
		}
	}

	for _, e := range s.Expenses {
		if e.Annulled || e.Day.Before(from) || e.Day.After(to) {
			continue
		}
		switch NormalizeExpenseMedium(string(e.Medium)) {
		case ExpenseCashFromDrawer:
			t.CashExpenses = t.CashExpenses.Add(e.Amount)
		case ExpenseBankTransfer:
			t.DigitalExpenses = t.DigitalExpenses.Add(e.Amount)
		default:
			t.OtherExpense = t.OtherExpense.Add(e.Amount)
		}
	}

	t.ExpectedCash = t.CashIncome.Sub(t.CashWithdrawals).Sub(t.CashExpenses)
	t.ExpectedDigital = t.DigitalIncome.Sub(t.DigitalWithdrawals).Sub(t.DigitalExpenses)
	t.TotalIncome = t.CashIncome.Add(t.DigitalIncome).Add(t.OtherIncome)
	t.TotalExpense = t.CashExpenses.Add(t.DigitalExpenses).Add(t.OtherExpense)
	t.NetProfit = t.TotalIncome.Sub(t.TotalExpense)
	return t
}

// =============================================================================
// WEEKLY TOTALS - the Monday..Saturday spreadsheet
// =============================================================================

// WeekDayRow is one line of the weekly income grid.
type WeekDayRow struct {
	Day           Day
	CashIncome    decimal.Decimal
	DigitalIncome decimal.Decimal
	TotalIncome   decimal.Decimal
}

type WeekTotals struct {
	WeekStart Day
	Days      []WeekDayRow // Monday..Saturday
	DayTotals             // aggregates over [WeekStart, WeekStart+6]
}

// WeeklyTotals sums the week starting at weekStart (a Monday). Totals
// cover the inclusive seven-day window; the per-day breakdown covers
// the six business days.
func WeeklyTotals(s Snapshot, weekStart Day) WeekTotals {
	w := WeekTotals{
		WeekStart: weekStart,
		DayTotals: rangeTotals(s, weekStart, weekStart.AddDays(6)),
	}
	for i := 0; i < 6; i++ {
		day := weekStart.AddDays(i)
		dt := DailyTotals(s, day)
		w.Days = append(w.Days, WeekDayRow{
			Day:           day,
			CashIncome:    dt.CashIncome,
			DigitalIncome: dt.DigitalIncome,
			TotalIncome:   dt.TotalIncome,
		})
	}
	return w
}

// =============================================================================
// MONTHLY TOTALS AND GROWTH
// =============================================================================

// MonthlyTotals sums [monthStart, end of calendar month].
func MonthlyTotals(s Snapshot, monthStart Day) DayTotals {
	return rangeTotals(s, monthStart.MonthStart(), monthStart.MonthEnd())
}

// Growth is the month-over-month income evolution. Available is false
// when the previous month had zero income - a defined output state, not
// an error (no division by zero).
type Growth struct {
	Percent   decimal.Decimal
	Available bool
}

var hundred = decimal.NewFromInt(100)

func ComputeGrowth(currentIncome, previousIncome decimal.Decimal) Growth {
	if previousIncome.IsZero() {
		return Growth{Available: false}
	}
	pct := currentIncome.Sub(previousIncome).Div(previousIncome).Mul(hundred)
	return Growth{Percent: round2(pct), Available: true}
}
