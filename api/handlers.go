/*
handlers.go - HTTP handlers for the cash ledger engine

PURPOSE:
  Exposes the ledger engine via REST. Handlers own no business state:
  they parse, validate at the edges (amounts and days arrive as text),
  delegate to the Book, and serialize plain data back.

ERROR HANDLING:
  Engine errors map onto HTTP status by taxonomy:
  - ValidationError     400
  - EntryNotFound       404
  - AuthorizationError  403
  - StateError          409
  - ConnectivityError   503 (only the sync endpoint surfaces one)

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: routing
  - auth.go: session middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hafid/cashbook-engine/ledger"
)

// =============================================================================
// HANDLER
// =============================================================================

type Handler struct {
	Book *ledger.Book
	Auth Auth

	// Now returns "today" for urgency boards; swappable in tests.
	Now func() ledger.Day
}

func NewHandler(book *ledger.Book, auth Auth) *Handler {
	return &Handler{Book: book, Auth: auth, Now: ledger.Today}
}

// =============================================================================
// SESSION
// =============================================================================

// OpenSession validates a PIN and tells the client which role it holds.
// Subsequent requests carry the PIN headers; nothing is stored here.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	role, ok := h.Auth.Resolve(req.PIN)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid PIN"})
		return
	}
	writeJSON(w, http.StatusOK, SessionDTO{Operator: req.Operator, Shift: req.Shift, Role: string(role)})
}

// =============================================================================
// LEDGER - record and annul
// =============================================================================

func (h *Handler) ListDay(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, err)
		return
	}
	rows := h.Book.DayRows(day)
	out := make([]RowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRowDTO(row))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) RecordIncome(w http.ResponseWriter, r *http.Request) {
	var req RecordIncomeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	day, amount, err := parseDayAmount(req.Day, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.Book.RecordIncome(r.Context(), day, amount,
		ledger.NormalizeMedium(req.Medium), req.Description, sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(m.ID), "amount": money(m.Amount)})
}

func (h *Handler) RecordWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req RecordWithdrawalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	day, amount, err := parseDayAmount(req.Day, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := h.Book.RecordWithdrawal(r.Context(), day, amount,
		ledger.NormalizeMedium(req.Medium), req.Reason, sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(m.ID), "amount": money(m.Amount)})
}

func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req RecordExpenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	day, amount, err := parseDayAmount(req.Day, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := h.Book.RecordExpense(r.Context(), day, amount,
		ledger.NormalizeCategory(req.Category), ledger.NormalizeExpenseMedium(req.Medium),
		req.Detail, sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(e.ID), "amount": money(e.Amount)})
}

func (h *Handler) Annul(w http.ResponseWriter, r *http.Request) {
	var req AnnulRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := ledger.EntryID(chi.URLParam(r, "id"))
	if err := h.Book.Annul(r.Context(), id, req.Reason, sessionFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": string(id), "annulled": "true"})
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func (h *Handler) PreviewDay(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, err)
		return
	}
	totals := h.Book.ComputeExpected(day)
	closed := h.Book.Snapshot().IsClosed(day)
	writeJSON(w, http.StatusOK, toDayTotalsDTO(totals, closed))
}

func (h *Handler) CloseDay(w http.ResponseWriter, r *http.Request) {
	var req CloseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	day, counted, err := parseDayAmount(req.Day, req.CountedCash)
	if err != nil {
		writeError(w, err)
		return
	}
	closure, err := h.Book.Close(r.Context(), day, counted, sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClosureDTO(closure))
}

func (h *Handler) ReopenDay(w http.ResponseWriter, r *http.Request) {
	var req ReopenRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	day, err := parseDay(req.Day)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Book.Reopen(r.Context(), day, sessionFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"day": day.String(), "state": "OPEN"})
}

// =============================================================================
// INVOICES
// =============================================================================

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	board := h.Book.InvoiceBoard(h.Now())
	out := make([]InvoiceAlertDTO, 0, len(board))
	for _, a := range board {
		out = append(out, toInvoiceAlertDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) RecordInvoice(w http.ResponseWriter, r *http.Request) {
	var req RecordInvoiceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	inv, err := h.Book.RecordInvoice(r.Context(), amount,
		ledger.NormalizeDocKind(req.Kind), ledger.NormalizeCategory(req.Category),
		req.Concept, sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(inv.ID)})
}

func (h *Handler) AssignDueDate(w http.ResponseWriter, r *http.Request) {
	var req DueDateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := ledger.EntryID(chi.URLParam(r, "id"))
	inv, err := h.Book.AssignDueDate(r.Context(), id, req.Due, sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": string(inv.ID), "due": inv.DueDay.String()})
}

func (h *Handler) MarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	id := ledger.EntryID(chi.URLParam(r, "id"))
	inv, err := h.Book.MarkPaid(r.Context(), id, sessionFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": string(inv.ID), "status": string(inv.Status)})
}

// =============================================================================
// ROLLUPS
// =============================================================================

func (h *Handler) DailyRollup(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, err)
		return
	}
	snap := h.Book.Snapshot()
	writeJSON(w, http.StatusOK, toDayTotalsDTO(ledger.DailyTotals(snap, day), snap.IsClosed(day)))
}

func (h *Handler) WeeklyRollup(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(chi.URLParam(r, "weekStart"))
	if err != nil {
		writeError(w, err)
		return
	}
	snap := h.Book.Snapshot()
	week := ledger.WeeklyTotals(snap, day.WeekStart())

	dto := WeekTotalsDTO{
		WeekStart: week.WeekStart.String(),
		Totals:    toDayTotalsDTO(week.DayTotals, false),
	}
	for _, d := range week.Days {
		dto.Days = append(dto.Days, WeekDayRowDTO{
			Day:           d.Day.String(),
			Weekday:       d.Day.Weekday().String(),
			CashIncome:    money(d.CashIncome),
			DigitalIncome: money(d.DigitalIncome),
			TotalIncome:   money(d.TotalIncome),
		})
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) MonthlyRollup(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(chi.URLParam(r, "monthStart"))
	if err != nil {
		writeError(w, err)
		return
	}
	snap := h.Book.Snapshot()
	writeJSON(w, http.StatusOK, toDayTotalsDTO(ledger.MonthlyTotals(snap, day), false))
}

// GrowthRollup compares this month's income against the previous
// month's. "Not available" is a defined output, not an error.
func (h *Handler) GrowthRollup(w http.ResponseWriter, r *http.Request) {
	day := h.Now()
	if q := r.URL.Query().Get("month"); q != "" {
		parsed, err := parseDay(q)
		if err != nil {
			writeError(w, err)
			return
		}
		day = parsed
	}

	snap := h.Book.Snapshot()
	current := ledger.MonthlyTotals(snap, day).TotalIncome
	previous := ledger.MonthlyTotals(snap, day.MonthStart().AddDays(-1)).TotalIncome

	g := ledger.ComputeGrowth(current, previous)
	dto := GrowthDTO{Available: g.Available}
	if g.Available {
		dto.Percent = g.Percent.StringFixed(2)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// EXPORT AND SYNC
// =============================================================================

// Export hands a read-only copy of the four collections to the export
// collaborator. No file I/O happens here.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Book.Snapshot())
}

// ForceSync retries a pending persist on demand.
func (h *Handler) ForceSync(w http.ResponseWriter, r *http.Request) {
	if err := h.Book.Sync(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"pending": h.Book.PendingSync()})
}

// =============================================================================
// HELPERS
// =============================================================================

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ledger.ValidationError{Field: "body", Message: "malformed request body"}
	}
	return nil
}

func parseDay(s string) (ledger.Day, error) {
	day, err := ledger.ParseDay(s)
	if err != nil {
		return ledger.Day{}, &ledger.ValidationError{Field: "day", Message: err.Error()}
	}
	return day, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &ledger.ValidationError{Field: "amount", Message: "not a number"}
	}
	return amount, nil
}

func parseDayAmount(dayStr, amountStr string) (ledger.Day, decimal.Decimal, error) {
	day, err := parseDay(dayStr)
	if err != nil {
		return ledger.Day{}, decimal.Zero, err
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		return ledger.Day{}, decimal.Zero, err
	}
	return day, amount, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case ledger.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrEntryNotFound):
		status = http.StatusNotFound
	case ledger.IsAuthorization(err):
		status = http.StatusForbidden
	case ledger.IsState(err):
		status = http.StatusConflict
	case ledger.IsConnectivity(err):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
