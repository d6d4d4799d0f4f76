package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

func TestGetUpcomingBillingCycles(t *testing.T) {
	tests := []struct {
		name      string
		cycle     types.BillingCycle
		count     int
		startDate *time.Time
		endDate   *time.Time
		today     time.Time
		want      []time.Time
	}{
		{
			name:      "monthly within course",
			cycle:     types.BillingCycleMonthly,
			count:     3,
			startDate: datePtr(2026, time.January, 1),
			endDate:   datePtr(2026, time.March, 31),
			today:     date(2025, time.December, 20),
			want:      []time.Time{date(2026, time.January, 5), date(2026, time.February, 5), date(2026, time.March, 5)},
		},
		{
			name:      "stops at course end",
			cycle:     types.BillingCycleMonthly,
			count:     5,
			startDate: datePtr(2026, time.January, 1),
			endDate:   datePtr(2026, time.February, 10),
			today:     date(2025, time.December, 20),
			want:      []time.Time{date(2026, time.January, 5), date(2026, time.February, 5)},
		},
		{
			name:  "quarterly from today",
			cycle: types.BillingCycleQuarterly,
			count: 4,
			today: date(2026, time.October, 18),
			want: []time.Time{
				date(2027, time.January, 5),
				date(2027, time.April, 5),
				date(2027, time.July, 5),
				date(2027, time.October, 5),
			},
		},
		{
			name:  "today on the fifth is not upcoming",
			cycle: types.BillingCycleMonthly,
			count: 2,
			today: date(2026, time.October, 5),
			want:  []time.Time{date(2026, time.November, 5), date(2026, time.December, 5)},
		},
		{
			name:      "start long in the past",
			cycle:     types.BillingCycleYearly,
			count:     2,
			startDate: datePtr(2020, time.March, 1),
			today:     date(2026, time.October, 18),
			want:      []time.Time{date(2027, time.March, 5), date(2028, time.March, 5)},
		},
		{
			name:      "biannual keeps the course rhythm",
			cycle:     types.BillingCycleBiannually,
			count:     2,
			startDate: datePtr(2026, time.September, 1),
			today:     date(2026, time.October, 18),
			want:      []time.Time{date(2027, time.March, 5), date(2027, time.September, 5)},
		},
		{
			name:  "one time yields a single date",
			cycle: types.BillingCycleOneTime,
			count: 3,
			today: date(2026, time.October, 18),
			want:  []time.Time{date(2026, time.November, 5)},
		},
		{
			name:    "course already ended",
			cycle:   types.BillingCycleMonthly,
			count:   3,
			endDate: datePtr(2026, time.October, 31),
			today:   date(2026, time.October, 18),
			want:    []time.Time{},
		},
		{
			name:  "zero count",
			cycle: types.BillingCycleMonthly,
			count: 0,
			today: date(2026, time.October, 18),
			want:  []time.Time{},
		},
		{
			name:  "negative count",
			cycle: types.BillingCycleMonthly,
			count: -2,
			today: date(2026, time.October, 18),
			want:  []time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetUpcomingBillingCycles(tt.cycle, tt.count, tt.startDate, tt.endDate, tt.today)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.True(t, got[i].Equal(tt.want[i]), "date %d: got %v, want %v", i, got[i], tt.want[i])
			}
		})
	}
}

func TestGetUpcomingBillingCycles_UnsupportedCycle(t *testing.T) {
	_, err := GetUpcomingBillingCycles(types.BillingCycle("weekly"), 3, nil, nil, date(2026, time.October, 18))
	require.Error(t, err)
	assert.True(t, ierr.IsUnsupportedBillingCycle(err))
}

func TestGetUpcomingBillingCycles_Ordering(t *testing.T) {
	starts := []*time.Time{nil, datePtr(2024, time.November, 20), datePtr(2027, time.February, 1)}

	for _, cycle := range recurringCycles {
		for _, start := range starts {
			for today := date(2025, time.January, 1); today.Before(date(2027, time.January, 1)); today = today.AddDate(0, 0, 11) {
				got, err := GetUpcomingBillingCycles(cycle, 6, start, nil, today)
				require.NoError(t, err)
				require.Len(t, got, 6)

				for i, d := range got {
					assert.Equal(t, BillingAnchorDay, d.Day())
					assert.True(t, d.After(today), "%s: %v not after %v", cycle, d, today)
					if i > 0 {
						assert.True(t, d.After(got[i-1]))
						assert.Equal(t, cycle.Months(), types.MonthIndex(d)-types.MonthIndex(got[i-1]))
					}
				}
			}
		}
	}
}
