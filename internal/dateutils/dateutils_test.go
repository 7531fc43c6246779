package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImportDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "full DD/MM/YYYY",
			input: "15/01/2024",
			want:  Date(2024, time.January, 15),
		},
		{
			name:  "single digit day and month",
			input: "5/3/2024",
			want:  Date(2024, time.March, 5),
		},
		{
			name:  "leap day accepted",
			input: "29/02/2024",
			want:  Date(2024, time.February, 29),
		},
		{
			name:    "nonexistent calendar date rejected",
			input:   "31/02/2024",
			wantErr: true,
		},
		{
			name:    "leap day on non-leap year rejected",
			input:   "29/02/2023",
			wantErr: true,
		},
		{
			name:    "ISO format rejected",
			input:   "2024-01-15",
			wantErr: true,
		},
		{
			name:    "two digit year rejected",
			input:   "15/01/24",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "trailing garbage rejected",
			input:   "15/01/2024x",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseImportDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestDayNormalizesToMidnightUTC(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	late := time.Date(2024, time.June, 10, 23, 45, 12, 999, loc)
	day := Day(late)

	assert.Equal(t, time.UTC, day.Location())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, 10, day.Day())
}

func TestSpanishRoundTrip(t *testing.T) {
	d := Date(2024, time.December, 31)
	assert.Equal(t, "31/12/2024", ToSpanish(d))

	parsed, err := ParseImportDate(ToSpanish(d))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(d))
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, time.February)
	assert.Equal(t, Date(2024, time.February, 1), start)
	assert.Equal(t, Date(2024, time.February, 29), end)

	start, end = MonthRange(2023, time.February)
	assert.Equal(t, Date(2023, time.February, 28), end)
	assert.Equal(t, Date(2023, time.February, 1), start)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.January))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
}

func TestParseISO(t *testing.T) {
	d, err := ParseISO("2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.June, 15), d)

	_, err = ParseISO("15/06/2024")
	assert.Error(t, err)
}
