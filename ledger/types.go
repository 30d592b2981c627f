/*
Package ledger provides the daily cash ledger and reconciliation engine.

PURPOSE:
  This package contains the data model and the rules for a small-business
  daily cash book: sales and expense movements, pending supplier invoices,
  and the daily closing ("arqueo") that reconciles physical cash against
  the recorded entries.

KEY CONCEPTS IN THIS FILE (types.go):
  - Movement: a cash-affecting income or withdrawal event
  - Expense: a paid-now outgoing cost
  - PendingInvoice: a supplier obligation awaiting payment
  - Closure: the immutable record of a day's reconciliation
  - Medium/Category enumerations with legacy-label normalization

DESIGN PRINCIPLES:
  1. Soft deletes only: entries are annulled with an audit reason, never removed
  2. Precision: uses decimal.Decimal for money, two-fraction rounding at the edges
  3. Closed days are immutable until an administrator reopens them
  4. Legacy tolerance: historical documents carry old labels; readers
     normalize them instead of erroring

SEE ALSO:
  - snapshot.go: the four-collection document and the Store contract
  - recorder.go: validated entry appends
  - reconcile.go: the daily closing protocol
*/
package ledger

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EntryID identifies any record in the four collections. Historical
// documents written before IDs existed have empty IDs; those entries can
// be listed but not annulled or edited.
type EntryID string

func NewEntryID() EntryID {
	return EntryID(uuid.NewString())
}

// =============================================================================
// ENUMERATIONS - canonical closed sets, with legacy-label normalization
// =============================================================================

type MovementKind string

const (
	KindIncome     MovementKind = "INCOME"
	KindWithdrawal MovementKind = "WITHDRAWAL"
)

// Medium is the payment channel of a movement.
type Medium string

const (
	MediumCash    Medium = "CASH"
	MediumDigital Medium = "CARD_OR_DIGITAL"
	MediumOther   Medium = "OTHER" // catch-all for unrecognized legacy labels
)

// NormalizeMedium maps a stored label onto the canonical set. Historical
// records carry the original Spanish labels.
func NormalizeMedium(label string) Medium {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "CASH", "EFECTIVO":
		return MediumCash
	case "CARD_OR_DIGITAL", "TARJETA / VIRTUAL", "TARJETA", "VIRTUAL":
		return MediumDigital
	default:
		return MediumOther
	}
}

// ExpenseMedium is the payment channel of an expense. Cash-from-drawer
// expenses reduce the expected drawer balance; bank transfers do not.
type ExpenseMedium string

const (
	ExpenseCashFromDrawer ExpenseMedium = "CASH_FROM_DRAWER"
	ExpenseBankTransfer   ExpenseMedium = "BANK_TRANSFER"
	ExpenseMediumOther    ExpenseMedium = "OTHER"
)

func NormalizeExpenseMedium(label string) ExpenseMedium {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "CASH_FROM_DRAWER", "EFECTIVO", "CAJA":
		return ExpenseCashFromDrawer
	case "BANK_TRANSFER", "TRANSFERENCIA", "BANCO":
		return ExpenseBankTransfer
	default:
		return ExpenseMediumOther
	}
}

type ExpenseCategory string

const (
	CategorySupplier ExpenseCategory = "SUPPLIER"
	CategoryRent     ExpenseCategory = "RENT"
	CategoryPayroll  ExpenseCategory = "PAYROLL"
	CategoryServices ExpenseCategory = "SERVICES"
	CategoryMisc     ExpenseCategory = "MISC"
	CategoryOther    ExpenseCategory = "OTHER"
)

func NormalizeCategory(label string) ExpenseCategory {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "SUPPLIER", "PROVEEDOR":
		return CategorySupplier
	case "RENT", "ALQUILER":
		return CategoryRent
	case "PAYROLL", "SUELDOS":
		return CategoryPayroll
	case "SERVICES", "SERVICIOS":
		return CategoryServices
	case "MISC", "VARIOS":
		return CategoryMisc
	default:
		return CategoryOther
	}
}

// DocKind distinguishes the two supplier-obligation documents the
// business tracks: invoices and post-dated checks.
type DocKind string

const (
	DocInvoice DocKind = "INVOICE"
	DocCheck   DocKind = "CHECK"
)

func NormalizeDocKind(label string) DocKind {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "CHECK", "CHEQUE":
		return DocCheck
	default:
		return DocInvoice
	}
}

type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "PENDING"
	StatusPaid    InvoiceStatus = "PAID"
)

// =============================================================================
// MOVEMENT - cash-affecting income or withdrawal event
// =============================================================================

// Movement records an income or a cash withdrawal for a specific day.
//
// INVARIANT: Kind=WITHDRAWAL always carries Amount <= 0;
//            Kind=INCOME always carries Amount >= 0.
// The recorder enforces this (withdrawals are stored negated).
type Movement struct {
	ID          EntryID         `json:"id"`
	Day         Day             `json:"fecha"`
	ClockTime   string          `json:"hora"`
	Operator    string          `json:"usuario"`
	Shift       string          `json:"turno"`
	Description string          `json:"descripcion"`
	Amount      decimal.Decimal `json:"monto"`
	Kind        MovementKind    `json:"tipo"`
	Medium      Medium          `json:"medio"`

	Annulled    bool   `json:"anulado,omitempty"`
	AnnulReason string `json:"motivo_anulacion,omitempty"`
	AnnulledBy  string `json:"anulado_por,omitempty"`
}

// =============================================================================
// EXPENSE - paid-now outgoing cost
// =============================================================================

type Expense struct {
	ID        EntryID         `json:"id"`
	Day       Day             `json:"fecha"`
	ClockTime string          `json:"hora"`
	Operator  string          `json:"usuario"`
	Shift     string          `json:"turno"`
	Category  ExpenseCategory `json:"categoria"`
	Detail    string          `json:"detalle"`
	Amount    decimal.Decimal `json:"monto"`
	Medium    ExpenseMedium   `json:"medio"`

	Annulled    bool   `json:"anulado,omitempty"`
	AnnulReason string `json:"motivo_anulacion,omitempty"`
	AnnulledBy  string `json:"anulado_por,omitempty"`
}

// =============================================================================
// PENDING INVOICE - supplier obligation awaiting payment
// =============================================================================

// PendingInvoice lifecycle: created PENDING with no due date; the due date
// may be set and edited any number of times while PENDING; PAID is
// terminal. Urgency (see invoice.go) is derived on read, never stored.
type PendingInvoice struct {
	ID       EntryID         `json:"id"`
	Created  Day             `json:"fecha"`
	Kind     DocKind         `json:"tipo"`
	Category ExpenseCategory `json:"categoria"`
	Concept  string          `json:"concepto"`
	Amount   decimal.Decimal `json:"monto"`
	DueDay   Day             `json:"vencimiento,omitempty"`
	Status   InvoiceStatus   `json:"estado"`
	Operator string          `json:"cargado_por"`

	Annulled    bool   `json:"anulado,omitempty"`
	AnnulReason string `json:"motivo_anulacion,omitempty"`
	AnnulledBy  string `json:"anulado_por,omitempty"`
}

// =============================================================================
// CLOSURE - immutable record of a day's reconciliation
// =============================================================================

// Closure is appended when a day is closed. Its existence makes the day
// read-only. At most one Closure exists per day; reopening deletes it
// (the only deletion in the system).
type Closure struct {
	ID        EntryID `json:"id"`
	Day       Day     `json:"fecha"`
	ClockTime string  `json:"hora"`
	ClosedBy  string  `json:"cerrado_por"`

	ExpectedCash decimal.Decimal `json:"efectivo_esperado"`
	CountedCash  decimal.Decimal `json:"efectivo_contado"`
	Variance     decimal.Decimal `json:"diferencia"`

	// Informational figures frozen at close time. Digital funds have no
	// physical count, so they are reported but not reconciled.
	ExpectedDigital decimal.Decimal `json:"virtual_esperado"`
	TotalIncome     decimal.Decimal `json:"ingreso_total"`
	TotalExpense    decimal.Decimal `json:"gasto_total"`
	NetProfit       decimal.Decimal `json:"ganancia_neta"`
}

// round2 rounds money to two fractional digits. Applied once at entry
// boundaries; internal sums stay exact.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
