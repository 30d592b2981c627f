/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract. Amounts travel as strings: they arrive
  from form fields and a malformed amount must be a ValidationError,
  not a JSON decode failure.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *DTO: response types returned to clients

SEE ALSO:
  - handlers.go: wiring and validation
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/hafid/cashbook-engine/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

type SessionRequest struct {
	PIN      string `json:"pin"`
	Operator string `json:"operator"`
	Shift    string `json:"shift"`
}

type RecordIncomeRequest struct {
	Day         string `json:"day"`
	Amount      string `json:"amount"`
	Medium      string `json:"medium"`
	Description string `json:"description"`
}

type RecordWithdrawalRequest struct {
	Day    string `json:"day"`
	Amount string `json:"amount"`
	Medium string `json:"medium"`
	Reason string `json:"reason"`
}

type RecordExpenseRequest struct {
	Day      string `json:"day"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Medium   string `json:"medium"`
	Detail   string `json:"detail"`
}

type RecordInvoiceRequest struct {
	Amount   string `json:"amount"`
	Kind     string `json:"kind"` // INVOICE or CHECK
	Category string `json:"category"`
	Concept  string `json:"concept"`
}

type AnnulRequest struct {
	Reason string `json:"reason"`
}

type DueDateRequest struct {
	Due string `json:"due"`
}

type CloseRequest struct {
	Day         string `json:"day"`
	CountedCash string `json:"counted_cash"`
}

type ReopenRequest struct {
	Day string `json:"day"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type SessionDTO struct {
	Operator string `json:"operator"`
	Shift    string `json:"shift"`
	Role     string `json:"role"`
}

type RowDTO struct {
	ID            string `json:"id"`
	Day           string `json:"day"`
	Time          string `json:"time"`
	Label         string `json:"label"`
	Amount        string `json:"amount"`
	Medium        string `json:"medium"`
	Operator      string `json:"operator"`
	Annulled      bool   `json:"annulled"`
	AnnulReason   string `json:"annul_reason,omitempty"`
	StrikeThrough bool   `json:"strike_through"`
}

type DayTotalsDTO struct {
	Day             string `json:"day"`
	CashIncome      string `json:"cash_income"`
	CashWithdrawals string `json:"cash_withdrawals"`
	CashExpenses    string `json:"cash_expenses"`
	ExpectedCash    string `json:"expected_cash"`
	DigitalIncome   string `json:"digital_income"`
	ExpectedDigital string `json:"expected_digital"`
	TotalIncome     string `json:"total_income"`
	TotalExpense    string `json:"total_expense"`
	NetProfit       string `json:"net_profit"`
	Closed          bool   `json:"closed"`
}

type ClosureDTO struct {
	Day          string `json:"day"`
	Time         string `json:"time"`
	ClosedBy     string `json:"closed_by"`
	ExpectedCash string `json:"expected_cash"`
	CountedCash  string `json:"counted_cash"`
	Variance     string `json:"variance"`
}

type InvoiceAlertDTO struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Category      string `json:"category"`
	Concept       string `json:"concept"`
	Amount        string `json:"amount"`
	Due           string `json:"due,omitempty"`
	Lifecycle     string `json:"lifecycle"`
	Urgency       string `json:"urgency,omitempty"`
	DaysRemaining int    `json:"days_remaining"`
}

type WeekDayRowDTO struct {
	Day           string `json:"day"`
	Weekday       string `json:"weekday"`
	CashIncome    string `json:"cash_income"`
	DigitalIncome string `json:"digital_income"`
	TotalIncome   string `json:"total_income"`
}

type WeekTotalsDTO struct {
	WeekStart string          `json:"week_start"`
	Days      []WeekDayRowDTO `json:"days"`
	Totals    DayTotalsDTO    `json:"totals"`
}

type GrowthDTO struct {
	Available bool   `json:"available"`
	Percent   string `json:"percent,omitempty"`
}

// =============================================================================
// MAPPERS
// =============================================================================

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toRowDTO(r ledger.Row) RowDTO {
	return RowDTO{
		ID:            string(r.ID),
		Day:           r.Day.String(),
		Time:          r.ClockTime,
		Label:         r.Label,
		Amount:        money(r.Amount),
		Medium:        r.Medium,
		Operator:      r.Operator,
		Annulled:      r.Annulled,
		AnnulReason:   r.AnnulReason,
		StrikeThrough: r.StrikeThrough,
	}
}

func toDayTotalsDTO(t ledger.DayTotals, closed bool) DayTotalsDTO {
	return DayTotalsDTO{
		Day:             t.Day.String(),
		CashIncome:      money(t.CashIncome),
		CashWithdrawals: money(t.CashWithdrawals),
		CashExpenses:    money(t.CashExpenses),
		ExpectedCash:    money(t.ExpectedCash),
		DigitalIncome:   money(t.DigitalIncome),
		ExpectedDigital: money(t.ExpectedDigital),
		TotalIncome:     money(t.TotalIncome),
		TotalExpense:    money(t.TotalExpense),
		NetProfit:       money(t.NetProfit),
		Closed:          closed,
	}
}

func toClosureDTO(c ledger.Closure) ClosureDTO {
	return ClosureDTO{
		Day:          c.Day.String(),
		Time:         c.ClockTime,
		ClosedBy:     c.ClosedBy,
		ExpectedCash: money(c.ExpectedCash),
		CountedCash:  money(c.CountedCash),
		Variance:     money(c.Variance),
	}
}

func toInvoiceAlertDTO(a ledger.InvoiceAlert) InvoiceAlertDTO {
	return InvoiceAlertDTO{
		ID:            string(a.Invoice.ID),
		Kind:          string(a.Invoice.Kind),
		Category:      string(a.Invoice.Category),
		Concept:       a.Invoice.Concept,
		Amount:        money(a.Invoice.Amount),
		Due:           a.Invoice.DueDay.String(),
		Lifecycle:     string(a.Lifecycle),
		Urgency:       string(a.Urgency),
		DaysRemaining: a.DaysRemaining,
	}
}
