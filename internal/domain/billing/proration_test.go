package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

func TestShouldProrateCharge(t *testing.T) {
	tests := []struct {
		name        string
		enrollment  time.Time
		courseStart *time.Time
		cycle       types.BillingCycle
		want        bool
	}{
		{"mid quarter enrollment", date(2026, time.October, 15), datePtr(2026, time.September, 1), types.BillingCycleQuarterly, true},
		{"one time never prorates", date(2026, time.October, 15), datePtr(2026, time.September, 1), types.BillingCycleOneTime, false},
		{"enrollment on course start", date(2026, time.September, 1), datePtr(2026, time.September, 1), types.BillingCycleQuarterly, false},
		{"enrollment before course start", date(2026, time.August, 20), datePtr(2026, time.September, 1), types.BillingCycleMonthly, false},
		{"enrollment on period start", date(2026, time.December, 1), datePtr(2026, time.September, 1), types.BillingCycleQuarterly, false},
		{"no course start mid month", date(2026, time.March, 15), nil, types.BillingCycleMonthly, true},
		{"no course start first of month", date(2026, time.March, 1), nil, types.BillingCycleMonthly, false},
		{"course start mid month same day", date(2026, time.September, 15), datePtr(2026, time.September, 15), types.BillingCycleMonthly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShouldProrateCharge(tt.enrollment, tt.courseStart, tt.cycle)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateProratedFee(t *testing.T) {
	tests := []struct {
		name        string
		fee         string
		enrollment  time.Time
		courseStart *time.Time
		cycle       types.BillingCycle
		want        string
	}{
		{
			// 47 of 91 days
			name:        "mid quarter",
			fee:         "300",
			enrollment:  date(2026, time.October, 15),
			courseStart: datePtr(2026, time.September, 1),
			cycle:       types.BillingCycleQuarterly,
			want:        "154.95",
		},
		{
			// 17 of 31 days
			name:       "mid month",
			fee:        "100",
			enrollment: date(2026, time.March, 15),
			cycle:      types.BillingCycleMonthly,
			want:       "54.84",
		},
		{
			// 0.075 exactly
			name:       "half cent rounds up",
			fee:        "0.15",
			enrollment: date(2026, time.April, 16),
			cycle:      types.BillingCycleMonthly,
			want:       "0.08",
		},
		{
			name:       "last day of leap february",
			fee:        "290",
			enrollment: date(2024, time.February, 29),
			cycle:      types.BillingCycleMonthly,
			want:       "10",
		},
		{
			name:        "not prorated returns full fee",
			fee:         "120.50",
			enrollment:  date(2026, time.September, 1),
			courseStart: datePtr(2026, time.September, 1),
			cycle:       types.BillingCycleQuarterly,
			want:        "120.50",
		},
		{
			name:       "one time returns full fee",
			fee:        "999.99",
			enrollment: date(2026, time.June, 17),
			cycle:      types.BillingCycleOneTime,
			want:       "999.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateProratedFee(decimal.RequireFromString(tt.fee), tt.enrollment, tt.courseStart, tt.cycle)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCalculateProratedFee_UnsupportedCycle(t *testing.T) {
	_, err := CalculateProratedFee(decimal.NewFromInt(100), date(2026, time.March, 15), nil, types.BillingCycle("fortnightly"))
	require.Error(t, err)
	assert.True(t, ierr.IsUnsupportedBillingCycle(err))
}

func TestCalculateProratedFee_Bounds(t *testing.T) {
	fee := decimal.NewFromInt(250)
	courseStart := datePtr(2025, time.November, 1)

	for _, cycle := range recurringCycles {
		for d := date(2025, time.November, 1); d.Before(date(2027, time.March, 1)); d = d.AddDate(0, 0, 5) {
			prorate, err := ShouldProrateCharge(d, courseStart, cycle)
			require.NoError(t, err)

			got, err := CalculateProratedFee(fee, d, courseStart, cycle)
			require.NoError(t, err)

			again, err := CalculateProratedFee(fee, d, courseStart, cycle)
			require.NoError(t, err)
			assert.True(t, got.Equal(again))

			if prorate {
				assert.True(t, got.IsPositive(), "%s %v: %s", cycle, d, got)
				assert.True(t, got.LessThanOrEqual(fee), "%s %v: %s", cycle, d, got)
			} else {
				assert.True(t, got.Equal(fee), "%s %v: %s", cycle, d, got)
			}
		}
	}
}

func TestGetProratingInfo(t *testing.T) {
	t.Run("prorated", func(t *testing.T) {
		info, err := GetProratingInfo(decimal.NewFromInt(300), date(2026, time.October, 15), datePtr(2026, time.September, 1), types.BillingCycleQuarterly)
		require.NoError(t, err)

		assert.True(t, info.IsProrated)
		assert.Equal(t, "154.95", info.ProratedFee.StringFixed(2))
		assert.Equal(t, "145.05", info.SavingsAmount.StringFixed(2))
		assert.Equal(t, 47, info.DaysRemaining)
		assert.Equal(t, 91, info.TotalDays)
		assert.Equal(t, "Quarterly", info.CycleLabel)
		assert.True(t, info.PeriodStart.Equal(date(2026, time.September, 1)))
		assert.True(t, info.PeriodEnd.Equal(date(2026, time.November, 30)))
	})

	t.Run("not prorated", func(t *testing.T) {
		info, err := GetProratingInfo(decimal.NewFromInt(80), date(2026, time.May, 1), nil, types.BillingCycleMonthly)
		require.NoError(t, err)

		assert.False(t, info.IsProrated)
		assert.True(t, info.ProratedFee.Equal(decimal.NewFromInt(80)))
		assert.True(t, info.SavingsAmount.IsZero())
		assert.Equal(t, 31, info.TotalDays)
	})
}
