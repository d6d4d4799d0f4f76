package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

var recurringCycles = []types.BillingCycle{
	types.BillingCycleMonthly,
	types.BillingCycleQuarterly,
	types.BillingCycleBiannually,
	types.BillingCycleYearly,
}

func TestGetBillingPeriodDates(t *testing.T) {
	tests := []struct {
		name        string
		enrollment  time.Time
		courseStart *time.Time
		cycle       types.BillingCycle
		wantStart   time.Time
		wantEnd     time.Time
	}{
		{
			name:        "quarterly anchored on course start",
			enrollment:  date(2026, time.October, 15),
			courseStart: datePtr(2026, time.September, 1),
			cycle:       types.BillingCycleQuarterly,
			wantStart:   date(2026, time.September, 1),
			wantEnd:     date(2026, time.November, 30),
		},
		{
			name:       "monthly leap february",
			enrollment: date(2024, time.February, 15),
			cycle:      types.BillingCycleMonthly,
			wantStart:  date(2024, time.February, 1),
			wantEnd:    date(2024, time.February, 29),
		},
		{
			name:       "monthly non leap february",
			enrollment: date(2023, time.February, 10),
			cycle:      types.BillingCycleMonthly,
			wantStart:  date(2023, time.February, 1),
			wantEnd:    date(2023, time.February, 28),
		},
		{
			name:       "quarterly anchored on january",
			enrollment: date(2026, time.May, 20),
			cycle:      types.BillingCycleQuarterly,
			wantStart:  date(2026, time.April, 1),
			wantEnd:    date(2026, time.June, 30),
		},
		{
			name:       "biannually second half",
			enrollment: date(2026, time.December, 31),
			cycle:      types.BillingCycleBiannually,
			wantStart:  date(2026, time.July, 1),
			wantEnd:    date(2026, time.December, 31),
		},
		{
			name:        "yearly spanning two calendar years",
			enrollment:  date(2026, time.March, 10),
			courseStart: datePtr(2025, time.September, 15),
			cycle:       types.BillingCycleYearly,
			wantStart:   date(2025, time.September, 1),
			wantEnd:     date(2026, time.August, 31),
		},
		{
			name:        "enrollment before course start",
			enrollment:  date(2026, time.August, 20),
			courseStart: datePtr(2026, time.September, 1),
			cycle:       types.BillingCycleQuarterly,
			wantStart:   date(2026, time.June, 1),
			wantEnd:     date(2026, time.August, 31),
		},
		{
			name:       "enrollment on period start",
			enrollment: date(2026, time.March, 1),
			cycle:      types.BillingCycleMonthly,
			wantStart:  date(2026, time.March, 1),
			wantEnd:    date(2026, time.March, 31),
		},
		{
			name:        "one time uses the calendar month",
			enrollment:  date(2026, time.October, 15),
			courseStart: datePtr(2026, time.September, 1),
			cycle:       types.BillingCycleOneTime,
			wantStart:   date(2026, time.October, 1),
			wantEnd:     date(2026, time.October, 31),
		},
		{
			name:       "time of day is dropped",
			enrollment: time.Date(2026, time.July, 9, 18, 45, 0, 0, time.UTC),
			cycle:      types.BillingCycleMonthly,
			wantStart:  date(2026, time.July, 1),
			wantEnd:    date(2026, time.July, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetBillingPeriodDates(tt.enrollment, tt.courseStart, tt.cycle)
			require.NoError(t, err)
			assert.True(t, got.Start.Equal(tt.wantStart), "start: got %v, want %v", got.Start, tt.wantStart)
			assert.True(t, got.End.Equal(tt.wantEnd), "end: got %v, want %v", got.End, tt.wantEnd)
		})
	}
}

func TestGetBillingPeriodDates_UnsupportedCycle(t *testing.T) {
	_, err := GetBillingPeriodDates(date(2026, time.January, 10), nil, types.BillingCycle("weekly"))
	require.Error(t, err)
	assert.True(t, ierr.IsUnsupportedBillingCycle(err))
}

func TestGetBillingPeriodDates_ContainsEnrollment(t *testing.T) {
	courseStarts := []*time.Time{nil, datePtr(2025, time.September, 1), datePtr(2026, time.February, 17)}
	cycles := append([]types.BillingCycle{types.BillingCycleOneTime}, recurringCycles...)

	for _, cycle := range cycles {
		for _, courseStart := range courseStarts {
			for d := date(2025, time.January, 1); d.Before(date(2027, time.January, 1)); d = d.AddDate(0, 0, 3) {
				period, err := GetBillingPeriodDates(d, courseStart, cycle)
				require.NoError(t, err)
				assert.True(t, period.Contains(d), "%s %v: %v not in [%v, %v]", cycle, courseStart, d, period.Start, period.End)
				assert.False(t, period.End.Before(period.Start))
				assert.Equal(t, 1, period.Start.Day())
				assert.Equal(t, 1, period.End.AddDate(0, 0, 1).Day(), "end must be the last day of a month")
			}
		}
	}
}

func TestGetBillingPeriodDates_PeriodsTile(t *testing.T) {
	for _, cycle := range recurringCycles {
		t.Run(string(cycle), func(t *testing.T) {
			courseStart := datePtr(2026, time.September, 1)
			period, err := GetBillingPeriodDates(date(2026, time.September, 10), courseStart, cycle)
			require.NoError(t, err)

			for i := 0; i < 12; i++ {
				nextDay := period.End.AddDate(0, 0, 1)
				next, err := GetBillingPeriodDates(nextDay, courseStart, cycle)
				require.NoError(t, err)

				assert.True(t, next.Start.Equal(nextDay), "gap or overlap after %v: next starts %v", period.End, next.Start)
				assert.Equal(t, cycle.Months(), types.MonthIndex(next.End)-types.MonthIndex(next.Start)+1)
				period = next
			}
		})
	}
}

func TestGetTotalDaysInBillingPeriod(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"quarter september to november", date(2026, time.September, 1), date(2026, time.November, 30), 91},
		{"leap february", date(2024, time.February, 1), date(2024, time.February, 29), 29},
		{"full year", date(2026, time.January, 1), date(2026, time.December, 31), 365},
		{"single day", date(2026, time.March, 3), date(2026, time.March, 3), 1},
		{"times of day ignored", time.Date(2026, time.March, 1, 23, 0, 0, 0, time.UTC), time.Date(2026, time.March, 31, 1, 0, 0, 0, time.UTC), 31},
		{"mixed locations", time.Date(2026, time.March, 1, 0, 0, 0, 0, ist), date(2026, time.March, 31), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetTotalDaysInBillingPeriod(tt.start, tt.end))
		})
	}
}

func TestGetDaysRemainingInBillingPeriod(t *testing.T) {
	assert.Equal(t, 47, GetDaysRemainingInBillingPeriod(date(2026, time.October, 15), date(2026, time.November, 30)))
	assert.Equal(t, 1, GetDaysRemainingInBillingPeriod(date(2026, time.November, 30), date(2026, time.November, 30)))
	assert.Equal(t, 17, GetDaysRemainingInBillingPeriod(time.Date(2026, time.March, 15, 16, 30, 0, 0, time.UTC), date(2026, time.March, 31)))
}

func TestEnrollmentAnchor_Period(t *testing.T) {
	anchor := EnrollmentAnchor{
		EnrollmentDate:  date(2026, time.October, 15),
		CourseStartDate: datePtr(2026, time.September, 1),
		BillingCycle:    types.BillingCycleQuarterly,
	}

	period, err := anchor.Period()
	require.NoError(t, err)
	assert.Equal(t, 91, period.TotalDays())
}
