package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// CurrencyPlaces is the precision fees are rounded to
const CurrencyPlaces = 2

// RoundCurrency rounds half away from zero to two places, which is round half up
// for the non-negative amounts billing deals with.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// ShouldProrateCharge decides whether the first charge of an enrollment covers only
// part of its billing period.
//
// No proration happens for one_time courses, for enrollments on or before the course
// start (the first bill is the course's own first period), or when the enrollment
// lands exactly on a period start.
func ShouldProrateCharge(enrollmentDate time.Time, courseStartDate *time.Time, cycle types.BillingCycle) (bool, error) {
	if err := cycle.Validate(); err != nil {
		return false, err
	}
	if !cycle.IsRecurring() {
		return false, nil
	}
	if courseStartDate != nil && types.CompareDate(enrollmentDate, *courseStartDate) <= 0 {
		return false, nil
	}

	period, err := GetBillingPeriodDates(enrollmentDate, courseStartDate, cycle)
	if err != nil {
		return false, err
	}

	return !types.SameDay(enrollmentDate, period.Start), nil
}

// CalculateProratedFee weights fullFee by the share of the period left at enrollment:
// round2(fullFee * daysRemaining / totalDays). When no proration applies the full fee
// is returned unchanged.
func CalculateProratedFee(fullFee decimal.Decimal, enrollmentDate time.Time, courseStartDate *time.Time, cycle types.BillingCycle) (decimal.Decimal, error) {
	prorate, err := ShouldProrateCharge(enrollmentDate, courseStartDate, cycle)
	if err != nil {
		return decimal.Zero, err
	}
	if !prorate {
		return fullFee, nil
	}

	period, err := GetBillingPeriodDates(enrollmentDate, courseStartDate, cycle)
	if err != nil {
		return decimal.Zero, err
	}

	return prorateFee(fullFee, enrollmentDate, period), nil
}

// totalDays is at least one for any period, so the division is always defined.
// The multiplication happens first to keep the intermediate value exact.
func prorateFee(fullFee decimal.Decimal, enrollmentDate time.Time, period Period) decimal.Decimal {
	totalDays := decimal.NewFromInt(int64(period.TotalDays()))
	remaining := decimal.NewFromInt(int64(GetDaysRemainingInBillingPeriod(enrollmentDate, period.End)))
	return RoundCurrency(fullFee.Mul(remaining).Div(totalDays))
}

// ProratingInfo bundles the proration figures of a first charge for display
type ProratingInfo struct {
	IsProrated    bool               `json:"is_prorated"`
	ProratedFee   decimal.Decimal    `json:"prorated_fee"`
	FullFee       decimal.Decimal    `json:"full_fee"`
	DaysRemaining int                `json:"days_remaining"`
	TotalDays     int                `json:"total_days"`
	SavingsAmount decimal.Decimal    `json:"savings_amount"`
	BillingCycle  types.BillingCycle `json:"billing_cycle"`
	CycleLabel    string             `json:"cycle_label"`
	PeriodStart   time.Time          `json:"period_start"`
	PeriodEnd     time.Time          `json:"period_end"`
}

// GetProratingInfo composes the period calculator and the proration functions
func GetProratingInfo(fullFee decimal.Decimal, enrollmentDate time.Time, courseStartDate *time.Time, cycle types.BillingCycle) (*ProratingInfo, error) {
	period, err := GetBillingPeriodDates(enrollmentDate, courseStartDate, cycle)
	if err != nil {
		return nil, err
	}

	prorate, err := ShouldProrateCharge(enrollmentDate, courseStartDate, cycle)
	if err != nil {
		return nil, err
	}

	proratedFee, err := CalculateProratedFee(fullFee, enrollmentDate, courseStartDate, cycle)
	if err != nil {
		return nil, err
	}

	savings := decimal.Zero
	if prorate {
		savings = RoundCurrency(fullFee.Sub(proratedFee))
	}

	return &ProratingInfo{
		IsProrated:    prorate,
		ProratedFee:   proratedFee,
		FullFee:       fullFee,
		DaysRemaining: GetDaysRemainingInBillingPeriod(enrollmentDate, period.End),
		TotalDays:     period.TotalDays(),
		SavingsAmount: savings,
		BillingCycle:  cycle,
		CycleLabel:    cycle.Label(),
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
	}, nil
}
