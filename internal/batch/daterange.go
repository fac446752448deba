// Package batch imports every statement export found in a directory.
package batch

import (
	"fmt"
	"time"

	"fjacquet/statement-ledger/internal/dateutils"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the range covers no dates.
func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() || dr.End.IsZero()
}

// String returns the date range as "DD/MM/YYYY to DD/MM/YYYY"
func (dr DateRange) String() string {
	if dr.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s to %s",
		dr.Start.Format(dateutils.DateLayoutBrazilian),
		dr.End.Format(dateutils.DateLayoutBrazilian))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}
