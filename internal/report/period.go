package report

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/statement-ledger/internal/apperror"
	"fjacquet/statement-ledger/internal/dateutils"
)

// FilterMode selects how the report period is chosen.
type FilterMode string

const (
	ModeAll         FilterMode = "all"
	ModeMonthSelect FilterMode = "month"
	ModeCustomRange FilterMode = "range"
)

// Filter is the operator's period selection.
type Filter struct {
	Mode  FilterMode
	Year  int
	Month time.Month
	Start time.Time
	End   time.Time
}

// All selects every stored record.
func All() Filter {
	return Filter{Mode: ModeAll}
}

// MonthSelect selects one calendar month.
func MonthSelect(year int, month time.Month) Filter {
	return Filter{Mode: ModeMonthSelect, Year: year, Month: month}
}

// CustomRange selects an inclusive date range.
func CustomRange(start, end time.Time) Filter {
	return Filter{Mode: ModeCustomRange, Start: start, End: end}
}

// ParseFilter builds a filter from operator input. month is "MM/YYYY" or
// "YYYY-MM"; from and to are dates in any format dateutils understands.
// Empty input selects all records.
func ParseFilter(month, from, to string) (Filter, error) {
	month = strings.TrimSpace(month)
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	switch {
	case month != "" && (from != "" || to != ""):
		return Filter{}, &apperror.ValidationError{Field: "period", Reason: "month and date range are mutually exclusive"}
	case month != "":
		for _, layout := range []string{dateutils.DateLayoutMonth, "2006-01"} {
			if t, err := time.Parse(layout, month); err == nil {
				return MonthSelect(t.Year(), t.Month()), nil
			}
		}
		return Filter{}, &apperror.ValidationError{Field: "month", Reason: fmt.Sprintf("'%s' is not MM/YYYY", month)}
	case from != "" || to != "":
		if from == "" || to == "" {
			return Filter{}, &apperror.ValidationError{Field: "period", Reason: "a custom range needs both start and end dates"}
		}
		start, _, err := dateutils.ParseDate(from)
		if err != nil {
			return Filter{}, &apperror.ValidationError{Field: "from", Reason: err.Error()}
		}
		end, _, err := dateutils.ParseDate(to)
		if err != nil {
			return Filter{}, &apperror.ValidationError{Field: "to", Reason: err.Error()}
		}
		return CustomRange(start, end), nil
	default:
		return All(), nil
	}
}

// Validate rejects selections that cannot describe a period.
func (f Filter) Validate() error {
	switch f.Mode {
	case ModeAll, "":
		return nil
	case ModeMonthSelect:
		if f.Month < time.January || f.Month > time.December {
			return &apperror.ValidationError{Field: "month", Reason: fmt.Sprintf("month %d out of range", f.Month)}
		}
		if f.Year < 1 {
			return &apperror.ValidationError{Field: "year", Reason: fmt.Sprintf("year %d out of range", f.Year)}
		}
		return nil
	case ModeCustomRange:
		if f.Start.IsZero() || f.End.IsZero() {
			return &apperror.ValidationError{Field: "period", Reason: "a custom range needs both start and end dates"}
		}
		if dateutils.Day(f.Start).After(dateutils.Day(f.End)) {
			return &apperror.ValidationError{
				Field: "period",
				Reason: fmt.Sprintf("start %s is after end %s",
					f.Start.Format(dateutils.DateLayoutBrazilian), f.End.Format(dateutils.DateLayoutBrazilian)),
			}
		}
		return nil
	default:
		return &apperror.ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown filter mode '%s'", f.Mode)}
	}
}

// Period resolves a valid filter into the date interval it selects.
func (f Filter) Period() (Period, error) {
	if err := f.Validate(); err != nil {
		return Period{}, err
	}
	switch f.Mode {
	case ModeMonthSelect:
		start, end := dateutils.MonthBounds(f.Year, f.Month)
		return Period{Start: start, End: end, Label: start.Format(dateutils.DateLayoutMonth)}, nil
	case ModeCustomRange:
		start, end := dateutils.Day(f.Start), dateutils.Day(f.End)
		return Period{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s to %s", start.Format(dateutils.DateLayoutBrazilian), end.Format(dateutils.DateLayoutBrazilian)),
		}, nil
	default:
		return Period{Label: "All period"}, nil
	}
}

// Period is an inclusive date interval. A zero bound is open.
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether d falls inside the period, bounds included.
func (p Period) Contains(d time.Time) bool {
	d = dateutils.Day(d)
	if !p.Start.IsZero() && d.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && d.After(p.End) {
		return false
	}
	return true
}

// Inverted reports whether the start lies after the end.
func (p Period) Inverted() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && p.Start.After(p.End)
}

func (p Period) String() string {
	return p.Label
}
