package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafid/cashbook-engine/ledger"
)

// seedReferenceDay loads the reference scenario:
//   Movements: INCOME 1000 CASH, INCOME 500 CARD_OR_DIGITAL, WITHDRAWAL -200 CASH
//   Expenses:  150 CASH_FROM_DRAWER
func seedReferenceDay(t *testing.T, book *ledger.Book) {
	t.Helper()
	ctx := context.Background()

	_, err := book.RecordIncome(ctx, march10, amt("1000"), ledger.MediumCash, "ventas", operator)
	require.NoError(t, err)
	_, err = book.RecordIncome(ctx, march10, amt("500"), ledger.MediumDigital, "posnet", operator)
	require.NoError(t, err)
	_, err = book.RecordWithdrawal(ctx, march10, amt("200"), ledger.MediumCash, "retiro", operator)
	require.NoError(t, err)
	_, err = book.RecordExpense(ctx, march10, amt("150"), ledger.CategorySupplier,
		ledger.ExpenseCashFromDrawer, "fletes", operator)
	require.NoError(t, err)
}

// =============================================================================
// EXPECTED CASH
// =============================================================================

func TestReconcile_ComputeExpected_ReferenceScenario(t *testing.T) {
	// GIVEN: the reference day
	// THEN: cash_income=1000, cash_withdrawals=200, cash_expenses=150,
	//       expected_cash=650, digital_income=500,
	//       total_income=1500, total_expense=150, net_profit=1350

	book, _ := newTestBook(t)
	seedReferenceDay(t, book)

	f := book.ComputeExpected(march10)
	assert.True(t, f.CashIncome.Equal(amt("1000")), "cash_income=%s", f.CashIncome)
	assert.True(t, f.CashWithdrawals.Equal(amt("200")), "cash_withdrawals=%s", f.CashWithdrawals)
	assert.True(t, f.CashExpenses.Equal(amt("150")), "cash_expenses=%s", f.CashExpenses)
	assert.True(t, f.ExpectedCash.Equal(amt("650")), "expected_cash=%s", f.ExpectedCash)
	assert.True(t, f.DigitalIncome.Equal(amt("500")), "digital_income=%s", f.DigitalIncome)
	assert.True(t, f.TotalIncome.Equal(amt("1500")), "total_income=%s", f.TotalIncome)
	assert.True(t, f.TotalExpense.Equal(amt("150")), "total_expense=%s", f.TotalExpense)
	assert.True(t, f.NetProfit.Equal(amt("1350")), "net_profit=%s", f.NetProfit)
}

// =============================================================================
// CLOSE
// =============================================================================

func TestReconcile_Close_ExactCount_ZeroVariance(t *testing.T) {
	book, _ := newTestBook(t)
	seedReferenceDay(t, book)

	c, err := book.Close(context.Background(), march10, amt("650"), operator)
	require.NoError(t, err)
	assert.True(t, c.ExpectedCash.Equal(amt("650")))
	assert.True(t, c.CountedCash.Equal(amt("650")))
	assert.True(t, c.Variance.IsZero())
	assert.Equal(t, "Julián", c.ClosedBy)
}

func TestReconcile_Close_ShortDrawer_NegativeVariance_AndLock(t *testing.T) {
	// GIVEN: the reference day, physically counted 600
	// WHEN: closing
	// THEN: variance=-50, and recording for that day fails with StateError
	//       until reopened

	book, _ := newTestBook(t)
	seedReferenceDay(t, book)
	ctx := context.Background()

	c, err := book.Close(ctx, march10, amt("600"), operator)
	require.NoError(t, err)
	assert.True(t, c.Variance.Equal(amt("-50")), "variance=%s", c.Variance)

	_, err = book.RecordIncome(ctx, march10, amt("10"), ledger.MediumCash, "", operator)
	assert.True(t, ledger.IsState(err))

	require.NoError(t, book.Reopen(ctx, march10, admin))
	_, err = book.RecordIncome(ctx, march10, amt("10"), ledger.MediumCash, "", operator)
	assert.NoError(t, err)
}

func TestReconcile_DoubleClose_Rejected(t *testing.T) {
	book, _ := newTestBook(t)
	seedReferenceDay(t, book)
	ctx := context.Background()

	_, err := book.Close(ctx, march10, amt("650"), operator)
	require.NoError(t, err)

	_, err = book.Close(ctx, march10, amt("650"), operator)
	assert.True(t, ledger.IsState(err))
	assert.ErrorIs(t, err, ledger.ErrDayClosed)
	assert.Len(t, book.Snapshot().Closures, 1, "at most one closure per day")
}

func TestReconcile_Close_NegativeCount_Rejected(t *testing.T) {
	book, _ := newTestBook(t)

	_, err := book.Close(context.Background(), march10, amt("-1"), operator)
	assert.True(t, ledger.IsValidation(err))
	assert.False(t, book.Snapshot().IsClosed(march10))
}

// =============================================================================
// REOPEN
// =============================================================================

func TestReconcile_Reopen_AdministratorOnly(t *testing.T) {
	book, _ := newTestBook(t)
	ctx := context.Background()

	_, err := book.Close(ctx, march10, amt("0"), operator)
	require.NoError(t, err)

	err = book.Reopen(ctx, march10, operator)
	assert.True(t, ledger.IsAuthorization(err))
	assert.True(t, book.Snapshot().IsClosed(march10))

	require.NoError(t, book.Reopen(ctx, march10, admin))
	assert.False(t, book.Snapshot().IsClosed(march10))
}

func TestReconcile_Reopen_NeverClosedDay_Rejected(t *testing.T) {
	book, _ := newTestBook(t)

	err := book.Reopen(context.Background(), march10, admin)
	assert.True(t, ledger.IsState(err))
	assert.ErrorIs(t, err, ledger.ErrDayNotClosed)
}

func TestReconcile_ReopenClose_Idempotent_WhenNothingChanged(t *testing.T) {
	// GIVEN: a closed day
	// WHEN: reopen then close again with the same counted amount,
	//       with no entries changed in between
	// THEN: expected_cash and variance reproduce exactly

	book, _ := newTestBook(t)
	seedReferenceDay(t, book)
	ctx := context.Background()

	first, err := book.Close(ctx, march10, amt("600"), operator)
	require.NoError(t, err)

	require.NoError(t, book.Reopen(ctx, march10, admin))

	second, err := book.Close(ctx, march10, amt("600"), operator)
	require.NoError(t, err)

	assert.True(t, first.ExpectedCash.Equal(second.ExpectedCash))
	assert.True(t, first.Variance.Equal(second.Variance))
}
