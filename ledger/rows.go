package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// ROW PROJECTIONS - plain data handed to list views
// =============================================================================

// Row is one line of a ledger list view. Annulled entries stay visible,
// flagged for struck-through rendering with the reason attached.
type Row struct {
	ID            EntryID
	Day           Day
	ClockTime     string
	Label         string
	Amount        decimal.Decimal
	Medium        string
	Operator      string
	Annulled      bool
	AnnulReason   string
	StrikeThrough bool // rendering hint, always equals Annulled
}

// DayRows projects the day's movements and expenses for a list view,
// movements first, in record order.
func (b *Book) DayRows(day Day) []Row {
	b.mu.Lock()
	defer b.mu.Unlock()

	var rows []Row
	for _, m := range b.snap.Movements {
		if !m.Day.Equal(day) {
			continue
		}
		label := m.Description
		if label == "" {
			label = string(m.Kind)
		}
		rows = append(rows, Row{
			ID:            m.ID,
			Day:           m.Day,
			ClockTime:     m.ClockTime,
			Label:         label,
			Amount:        m.Amount,
			Medium:        string(m.Medium),
			Operator:      m.Operator,
			Annulled:      m.Annulled,
			AnnulReason:   m.AnnulReason,
			StrikeThrough: m.Annulled,
		})
	}
	for _, e := range b.snap.Expenses {
		if !e.Day.Equal(day) {
			continue
		}
		rows = append(rows, Row{
			ID:            e.ID,
			Day:           e.Day,
			ClockTime:     e.ClockTime,
			Label:         e.Detail,
			Amount:        e.Amount.Neg(),
			Medium:        string(e.Medium),
			Operator:      e.Operator,
			Annulled:      e.Annulled,
			AnnulReason:   e.AnnulReason,
			StrikeThrough: e.Annulled,
		})
	}
	return rows
}
