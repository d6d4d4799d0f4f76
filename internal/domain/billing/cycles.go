package billing

import (
	"time"

	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// GetUpcomingBillingCycles lists up to count future billing dates.
//
// The first candidate is startDate (today when nil) moved to the anchor day and
// advanced one cycle at a time until it is after today. From there dates are one
// cycle apart and the list stops early at the first date after endDate. one_time
// cycles produce at most the first future date.
//
// Leaving out cycles that are already paid is up to the caller.
func GetUpcomingBillingCycles(cycle types.BillingCycle, count int, startDate, endDate *time.Time, today time.Time) ([]time.Time, error) {
	if err := cycle.Validate(); err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, max(count, 0))
	if count <= 0 {
		return dates, nil
	}

	base := today
	if startDate != nil {
		base = *startDate
	}

	step := cycle.Months()
	if step == 0 {
		step = 1
	}

	candidate := time.Date(base.Year(), base.Month(), BillingAnchorDay, 0, 0, 0, 0, base.Location())
	for types.CompareDate(candidate, today) <= 0 {
		candidate = types.AddClampedMonths(candidate, step)
	}

	for len(dates) < count {
		if endDate != nil && types.CompareDate(candidate, *endDate) > 0 {
			break
		}
		dates = append(dates, candidate)
		if !cycle.IsRecurring() {
			break
		}
		candidate = types.AddClampedMonths(candidate, step)
	}

	return dates, nil
}
