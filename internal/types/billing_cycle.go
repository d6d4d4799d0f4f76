package types

import (
	"github.com/samber/lo"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
)

// BillingCycle is the recurrence unit of a course fee.
// It decides how many whole months one billing period spans.
type BillingCycle string

const (
	BillingCycleMonthly    BillingCycle = "monthly"
	BillingCycleQuarterly  BillingCycle = "quarterly"
	BillingCycleBiannually BillingCycle = "biannually"
	BillingCycleYearly     BillingCycle = "yearly"
	BillingCycleOneTime    BillingCycle = "one_time"
)

var BillingCycleValues = []BillingCycle{
	BillingCycleMonthly,
	BillingCycleQuarterly,
	BillingCycleBiannually,
	BillingCycleYearly,
	BillingCycleOneTime,
}

var billingCycleMonths = map[BillingCycle]int{
	BillingCycleMonthly:    1,
	BillingCycleQuarterly:  3,
	BillingCycleBiannually: 6,
	BillingCycleYearly:     12,
	BillingCycleOneTime:    0,
}

var billingCycleLabels = map[BillingCycle]string{
	BillingCycleMonthly:    "Monthly",
	BillingCycleQuarterly:  "Quarterly",
	BillingCycleBiannually: "Bi-annually",
	BillingCycleYearly:     "Yearly",
	BillingCycleOneTime:    "One-time",
}

func (c BillingCycle) String() string {
	return string(c)
}

func (c BillingCycle) Validate() error {
	if !lo.Contains(BillingCycleValues, c) {
		return ierr.NewError("unsupported billing cycle").
			WithHint("Billing cycle must be monthly, quarterly, biannually, yearly or one_time").
			WithReportableDetails(map[string]any{
				"allowed_values": BillingCycleValues,
				"provided_value": c,
			}).
			Mark(ierr.ErrUnsupportedBillingCycle)
	}
	return nil
}

// Months returns the period length in whole months. 0 means the cycle is not periodic.
// Unknown cycles also return 0; call Validate first when the value is untrusted.
func (c BillingCycle) Months() int {
	return billingCycleMonths[c]
}

// IsRecurring is false for one_time and unknown cycles
func (c BillingCycle) IsRecurring() bool {
	return c.Months() > 0
}

// Label is the display name of the cycle
func (c BillingCycle) Label() string {
	if label, ok := billingCycleLabels[c]; ok {
		return label
	}
	return string(c)
}
