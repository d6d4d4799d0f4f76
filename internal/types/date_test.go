package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"plain date", "2026-10-15", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), false},
		{"padded", "  2026-10-15 ", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 keeps the written day", "2026-10-15T23:30:00+05:30", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), false},
		{"local timestamp", "2026-02-28T08:00:00", time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), false},
		{"space separated", "2024-02-29 10:11:12", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"not a date", "yesterday", time.Time{}, true},
		{"impossible day", "2026-02-30", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsInvalidDate(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := " "
	got, err = ParseOptionalDate(&blank)
	require.NoError(t, err)
	assert.Nil(t, got)

	value := "2026-09-01"
	got, err = ParseOptionalDate(&value)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-09-01", FormatDate(*got))

	bad := "09/01/2026"
	_, err = ParseOptionalDate(&bad)
	assert.True(t, ierr.IsInvalidDate(err))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2026-11-05", FormatDate(time.Date(2026, 11, 5, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, DatePlaceholder, FormatDate(time.Time{}))
	assert.Equal(t, DatePlaceholder, FormatOptionalDate(nil))
}

func TestCompareDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	a := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 3, 1, 0, 1, 0, 0, ist)

	assert.Equal(t, 0, CompareDate(a, b))
	assert.True(t, SameDay(a, b))
	assert.Equal(t, -1, CompareDate(a, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, CompareDate(a, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestLastDayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2000, time.February, 29},
		{1900, time.February, 28},
		{2026, time.April, 30},
		{2026, time.December, 31},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LastDayOfMonth(tt.year, tt.month, time.UTC).Day(), "%d-%02d", tt.year, tt.month)
	}
}

func TestAddClampedMonths(t *testing.T) {
	tests := []struct {
		name   string
		from   time.Time
		months int
		want   time.Time
	}{
		{"clamps into february", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"clamps into leap february", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"crosses year", time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC), 3, time.Date(2027, 2, 5, 0, 0, 0, 0, time.UTC)},
		{"backwards", time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), -1, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"keeps time of day", time.Date(2026, 5, 15, 9, 30, 0, 0, time.UTC), 12, time.Date(2027, 5, 15, 9, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, AddClampedMonths(tt.from, tt.months).Equal(tt.want))
		})
	}
}

func TestMonthIndex(t *testing.T) {
	jan := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, MonthIndex(jan)-MonthIndex(dec))
	assert.True(t, FirstOfMonthIndex(MonthIndex(jan), time.UTC).Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, FirstOfMonthIndex(MonthIndex(jan)-13, time.UTC).Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 1, FloorDiv(4, 3))
	assert.Equal(t, 0, FloorDiv(0, 3))
	assert.Equal(t, -1, FloorDiv(-1, 3))
	assert.Equal(t, -1, FloorDiv(-3, 3))
	assert.Equal(t, -2, FloorDiv(-4, 3))
}
