package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		format   string
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateLayoutISO},
		{" 15/01/2024 ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateLayoutBrazilian},
		{"20240115", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateLayoutOFX},
		{"2024-01-15 13:45:00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateLayoutFull},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, format, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.format, format)
		})
	}

	_, _, err := ParseDate("31/02/2024")
	assert.Error(t, err)
	_, _, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2024, time.February)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)

	_, end = MonthBounds(2023, time.December)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestDayAndISO(t *testing.T) {
	d := Day(time.Date(2024, 5, 6, 7, 8, 9, 10, time.UTC))
	assert.Equal(t, "2024-05-06", ToISODate(d))
	assert.Equal(t, 0, d.Hour())
}
