package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/statement-ledger/internal/apperror"
)

func TestFilterPeriod(t *testing.T) {
	tests := []struct {
		name  string
		f     Filter
		start time.Time
		end   time.Time
		label string
	}{
		{name: "all", f: All(), label: "All period"},
		{name: "zero filter means all", f: Filter{}, label: "All period"},
		{name: "month", f: MonthSelect(2024, time.February), start: day(2024, 2, 1), end: day(2024, 2, 29), label: "02/2024"},
		{
			name:  "custom range drops time of day",
			f:     CustomRange(time.Date(2024, 1, 5, 13, 0, 0, 0, time.UTC), day(2024, 1, 20)),
			start: day(2024, 1, 5),
			end:   day(2024, 1, 20),
			label: "05/01/2024 to 20/01/2024",
		},
		{name: "single day range", f: CustomRange(day(2024, 1, 5), day(2024, 1, 5)), start: day(2024, 1, 5), end: day(2024, 1, 5), label: "05/01/2024 to 05/01/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.f.Period()
			require.NoError(t, err)
			assert.Equal(t, tt.start, p.Start)
			assert.Equal(t, tt.end, p.End)
			assert.Equal(t, tt.label, p.String())
		})
	}
}

func TestFilterValidate_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		f     Filter
		field string
	}{
		{name: "inverted range", f: CustomRange(day(2024, 3, 1), day(2024, 1, 1)), field: "period"},
		{name: "open range", f: CustomRange(day(2024, 3, 1), time.Time{}), field: "period"},
		{name: "month out of range", f: MonthSelect(2024, 13), field: "month"},
		{name: "year out of range", f: MonthSelect(0, time.January), field: "year"},
		{name: "unknown mode", f: Filter{Mode: "weekly"}, field: "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.f.Period()
			var validation *apperror.ValidationError
			require.True(t, errors.As(err, &validation), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name     string
		month    string
		from     string
		to       string
		expected Filter
		wantErr  bool
	}{
		{name: "nothing selects all", expected: All()},
		{name: "month MM/YYYY", month: "01/2024", expected: MonthSelect(2024, time.January)},
		{name: "month YYYY-MM", month: "2024-03", expected: MonthSelect(2024, time.March)},
		{name: "range", from: "05/01/2024", to: "2024-01-20", expected: CustomRange(day(2024, 1, 5), day(2024, 1, 20))},
		{name: "bad month", month: "janeiro", wantErr: true},
		{name: "half range", from: "05/01/2024", wantErr: true},
		{name: "bad date", from: "05/01/2024", to: "tomorrow", wantErr: true},
		{name: "month and range", month: "01/2024", from: "05/01/2024", to: "06/01/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(tt.month, tt.from, tt.to)
			if tt.wantErr {
				var validation *apperror.ValidationError
				assert.True(t, errors.As(err, &validation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	assert.True(t, p.Contains(day(2024, 1, 1)))
	assert.True(t, p.Contains(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(day(2023, 12, 31)))
	assert.False(t, p.Contains(day(2024, 2, 1)))
	assert.True(t, Period{}.Contains(day(1999, 1, 1)))
}
