package ledger

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DAY - Calendar-day value (local wall-clock, no time zone semantics)
// =============================================================================

// Day is a calendar date. The ledger keys everything by day: movements and
// expenses belong to a day, closures lock a day, rollups aggregate days.
// The zero Day means "unset" (e.g. an invoice with no due date yet).
type Day struct {
	t time.Time
}

const dayFormat = "2006-01-02"

// legacyDayFormat is the DD/MM/YYYY format historical records carry for
// invoice due dates. Parsed on input, never written on output.
const legacyDayFormat = "02/01/2006"

func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day from the local wall clock.
func Today() Day {
	now := time.Now()
	return NewDay(now.Year(), now.Month(), now.Day())
}

// ParseDay parses an ISO calendar date, falling back to the legacy
// DD/MM/YYYY form found in historical documents.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dayFormat, s); err == nil {
		return Day{t: t}, nil
	}
	if t, err := time.Parse(legacyDayFormat, s); err == nil {
		return Day{t: t}, nil
	}
	return Day{}, fmt.Errorf("not a calendar date: %q", s)
}

// Comparison
func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return d.Before(other) || d.Equal(other) }
func (d Day) AfterOrEqual(other Day) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Day) AddDays(n int) Day   { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Day) Year() int             { return d.t.Year() }
func (d Day) Month() time.Month     { return d.t.Month() }
func (d Day) DayOfMonth() int       { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }
func (d Day) IsZero() bool          { return d.t.IsZero() }

// DaysUntil returns the signed number of whole days from d to other.
// Negative when other is in the past relative to d.
func (d Day) DaysUntil(other Day) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// WeekStart returns the Monday of d's week.
func (d Day) WeekStart() Day {
	wd := int(d.t.Weekday())
	if wd == 0 { // Sunday
		wd = 7
	}
	return d.AddDays(-(wd - 1))
}

// MonthStart returns the first day of d's calendar month.
func (d Day) MonthStart() Day {
	return NewDay(d.Year(), d.Month(), 1)
}

// MonthEnd returns the last day of d's calendar month.
func (d Day) MonthEnd() Day {
	return Day{t: time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dayFormat)
}

// =============================================================================
// JSON - days travel as "YYYY-MM-DD" strings in the remote document
// =============================================================================

func (d Day) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
