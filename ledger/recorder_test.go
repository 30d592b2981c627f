package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafid/cashbook-engine/ledger"
	"github.com/hafid/cashbook-engine/ledger/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var (
	operator = ledger.Session{Operator: "Julián", Shift: "Mañana", Role: ledger.RoleOperator}
	admin    = ledger.Session{Operator: "Sergio", Shift: "Tarde", Role: ledger.RoleAdministrator}

	march10 = ledger.NewDay(2025, time.March, 10)
)

func newTestBook(t *testing.T) (*ledger.Book, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	book := ledger.NewBook(mem, zerolog.Nop()).WithClock(func() time.Time {
		return time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	})
	require.NoError(t, book.Load(context.Background()))
	return book, mem
}

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// SIGN INVARIANT
// =============================================================================

func TestRecorder_IncomePositive_WithdrawalNegative(t *testing.T) {
	// GIVEN: an open day
	// WHEN: recording an income and a withdrawal
	// THEN: INCOME carries amount >= 0 and WITHDRAWAL carries amount <= 0

	book, _ := newTestBook(t)
	ctx := context.Background()

	income, err := book.RecordIncome(ctx, march10, amt("1000"), ledger.MediumCash, "ventas mostrador", operator)
	require.NoError(t, err)
	assert.Equal(t, ledger.KindIncome, income.Kind)
	assert.False(t, income.Amount.IsNegative())

	withdrawal, err := book.RecordWithdrawal(ctx, march10, amt("200"), ledger.MediumCash, "retiro a banco", operator)
	require.NoError(t, err)
	assert.Equal(t, ledger.KindWithdrawal, withdrawal.Kind)
	assert.True(t, withdrawal.Amount.LessThanOrEqual(decimal.Zero))
	assert.Equal(t, "-200", withdrawal.Amount.String())
}

func TestRecorder_NonPositiveAmount_Rejected(t *testing.T) {
	// GIVEN: an open day
	// WHEN: recording with amount zero or negative
	// THEN: ValidationError, nothing appended

	book, mem := newTestBook(t)
	ctx := context.Background()

	_, err := book.RecordIncome(ctx, march10, amt("0"), ledger.MediumCash, "", operator)
	assert.True(t, ledger.IsValidation(err))

	_, err = book.RecordWithdrawal(ctx, march10, amt("-50"), ledger.MediumCash, "", operator)
	assert.True(t, ledger.IsValidation(err))

	_, err = book.RecordExpense(ctx, march10, amt("-1"), ledger.CategorySupplier, ledger.ExpenseCashFromDrawer, "x", operator)
	assert.True(t, ledger.IsValidation(err))

	assert.Empty(t, book.Snapshot().Movements)
	assert.Empty(t, book.Snapshot().Expenses)
	assert.Equal(t, 0, mem.Persists())
}

func TestRecorder_ExpenseRequiresDetail(t *testing.T) {
	book, _ := newTestBook(t)

	_, err := book.RecordExpense(context.Background(), march10, amt("150"),
		ledger.CategorySupplier, ledger.ExpenseCashFromDrawer, "", operator)
	assert.True(t, ledger.IsValidation(err))
}

// =============================================================================
// CLOSED-DAY GUARD
// =============================================================================

func TestRecorder_ClosedDay_RejectsEntries(t *testing.T) {
	// GIVEN: a closed day
	// WHEN: recording income, withdrawal or expense for that day
	// THEN: StateError wrapping ErrDayClosed; other days stay open

	book, _ := newTestBook(t)
	ctx := context.Background()

	_, err := book.Close(ctx, march10, amt("0"), operator)
	require.NoError(t, err)

	_, err = book.RecordIncome(ctx, march10, amt("100"), ledger.MediumCash, "", operator)
	assert.True(t, ledger.IsState(err))
	assert.ErrorIs(t, err, ledger.ErrDayClosed)

	_, err = book.RecordWithdrawal(ctx, march10, amt("100"), ledger.MediumCash, "", operator)
	assert.True(t, ledger.IsState(err))

	_, err = book.RecordExpense(ctx, march10, amt("100"), ledger.CategoryMisc, ledger.ExpenseBankTransfer, "luz", operator)
	assert.True(t, ledger.IsState(err))

	// The next day is unaffected.
	_, err = book.RecordIncome(ctx, march10.AddDays(1), amt("100"), ledger.MediumCash, "", operator)
	assert.NoError(t, err)
}

func TestRecorder_Invoice_NotSubjectToClosedDayGuard(t *testing.T) {
	// GIVEN: today is closed
	// WHEN: recording a pending invoice
	// THEN: it succeeds - invoices are future obligations, independent of the till

	book, _ := newTestBook(t)
	ctx := context.Background()

	_, err := book.Close(ctx, march10, amt("0"), operator)
	require.NoError(t, err)

	inv, err := book.RecordInvoice(ctx, amt("8000"), ledger.DocCheck, ledger.CategorySupplier, "Cheque Banco Macro", operator)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, inv.Status)
	assert.True(t, inv.DueDay.IsZero())
}

// =============================================================================
// PERSISTENCE DISCIPLINE
// =============================================================================

func TestRecorder_EveryMutationPersistsWholeSnapshot(t *testing.T) {
	book, mem := newTestBook(t)
	ctx := context.Background()

	_, err := book.RecordIncome(ctx, march10, amt("10"), ledger.MediumCash, "", operator)
	require.NoError(t, err)
	_, err = book.RecordExpense(ctx, march10, amt("5"), ledger.CategoryMisc, ledger.ExpenseCashFromDrawer, "bolsas", operator)
	require.NoError(t, err)

	assert.Equal(t, 2, mem.Persists())

	stored, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored.Movements, 1)
	assert.Len(t, stored.Expenses, 1)
	assert.Equal(t, int64(2), stored.Revision)
}

func TestRecorder_PersistFailure_IsNotOperationFailure(t *testing.T) {
	// GIVEN: the remote store is unreachable
	// WHEN: recording an income
	// THEN: the operation succeeds, in-memory state is mutated, and the
	//       book is flagged pending-sync until Sync gets through

	book, mem := newTestBook(t)
	ctx := context.Background()

	mem.FailNext = true
	m, err := book.RecordIncome(ctx, march10, amt("300"), ledger.MediumCash, "", operator)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Len(t, book.Snapshot().Movements, 1)
	assert.True(t, book.PendingSync())

	// Retry succeeds and clears the flag.
	require.NoError(t, book.Sync(ctx))
	assert.False(t, book.PendingSync())

	stored, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored.Movements, 1)
}

func TestRecorder_AmountsRoundedToTwoFractionDigits(t *testing.T) {
	book, _ := newTestBook(t)

	m, err := book.RecordIncome(context.Background(), march10, amt("99.999"), ledger.MediumCash, "", operator)
	require.NoError(t, err)
	assert.Equal(t, "100.00", m.Amount.StringFixed(2))
}
