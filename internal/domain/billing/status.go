package billing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

const (
	// BillingAnchorDay is the day of month every recurring bill falls on
	BillingAnchorDay = 5

	// DefaultOverdueAfterDays is how long an outstanding charge may stay unpaid
	// before it counts as long overdue
	DefaultOverdueAfterDays = 30
)

// PaymentStatusResult is derived from the current charges on every call
type PaymentStatusResult struct {
	Status          types.PaymentStatus `json:"status"`
	NextBillingDate *time.Time          `json:"next_billing_date"`
}

// StatusClassifier derives the payment status of an enrollment from its charges.
//
// Charges outstanding for longer than OverdueAfterDays are reported as outstanding,
// same as recent ones, unless EscalateOverdue is set, in which case they are
// reported as overdue.
type StatusClassifier struct {
	OverdueAfterDays int
	EscalateOverdue  bool
}

// DefaultStatusClassifier keeps the long overdue branch reporting outstanding
var DefaultStatusClassifier = StatusClassifier{
	OverdueAfterDays: DefaultOverdueAfterDays,
}

// CalculatePaymentStatus classifies charges with DefaultStatusClassifier
func CalculatePaymentStatus(charges []*charge.Charge, today time.Time) PaymentStatusResult {
	return DefaultStatusClassifier.Classify(charges, today)
}

// Classify applies the rules in order, the first match wins:
//
//  1. no charges: scheduled
//  2. an outstanding charge more than OverdueAfterDays past due: outstanding (overdue when escalating)
//  3. an outstanding charge due within the last OverdueAfterDays days: outstanding
//  4. every charge clear: scheduled
//  5. anything else: outstanding, without a next billing date
//
// A fully paid course is never detected here, see IsFullyPaid.
func (s StatusClassifier) Classify(charges []*charge.Charge, today time.Time) PaymentStatusResult {
	charges = nonNil(charges)
	next := GetNextBillingDate(today)

	if len(charges) == 0 {
		return PaymentStatusResult{Status: types.PaymentStatusScheduled, NextBillingDate: &next}
	}

	for _, c := range charges {
		if c.ChargeStatus == types.ChargeStatusOutstanding && DaysBetween(c.DueDate, today) > s.OverdueAfterDays {
			status := types.PaymentStatusOutstanding
			if s.EscalateOverdue {
				status = types.PaymentStatusOverdue
			}
			return PaymentStatusResult{Status: status, NextBillingDate: &next}
		}
	}

	for _, c := range charges {
		if c.ChargeStatus != types.ChargeStatusOutstanding {
			continue
		}
		if days := DaysBetween(c.DueDate, today); days >= 0 && days <= s.OverdueAfterDays {
			return PaymentStatusResult{Status: types.PaymentStatusOutstanding, NextBillingDate: &next}
		}
	}

	allClear := true
	for _, c := range charges {
		if !c.IsClear() {
			allClear = false
			break
		}
	}
	if allClear {
		return PaymentStatusResult{Status: types.PaymentStatusScheduled, NextBillingDate: &next}
	}

	return PaymentStatusResult{Status: types.PaymentStatusOutstanding}
}

// GetNextBillingDate returns the 5th of this month while today is before the 5th,
// otherwise the 5th of next month. The result is midnight in today's location.
func GetNextBillingDate(today time.Time) time.Time {
	year, month, day := today.Date()
	if day < BillingAnchorDay {
		return time.Date(year, month, BillingAnchorDay, 0, 0, 0, 0, today.Location())
	}
	if month == time.December {
		return time.Date(year+1, time.January, BillingAnchorDay, 0, 0, 0, 0, today.Location())
	}
	return time.Date(year, month+1, BillingAnchorDay, 0, 0, 0, 0, today.Location())
}

// DaysBetween is ceil((b - a) / 24h). It is negative when b is before a. Both times
// are read off their own wall clocks, so a DST shift in between leaves the count
// unchanged.
func DaysBetween(a, b time.Time) int {
	return int(math.Ceil(float64(wallClock(b).Sub(wallClock(a))) / float64(types.Day)))
}

func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// IsFullyPaid reports whether a course no longer owes anything. It holds when the
// collected amount covers a positive total fee, or when the course has already ended
// and the collected amount covers the fee.
func IsFullyPaid(totalFee, totalCollected decimal.Decimal, courseEndDate *time.Time, today time.Time) bool {
	covered := totalCollected.GreaterThanOrEqual(totalFee)
	if covered && totalFee.IsPositive() {
		return true
	}
	return covered && courseEndDate != nil && types.CompareDate(*courseEndDate, today) < 0
}

func nonNil(charges []*charge.Charge) []*charge.Charge {
	out := make([]*charge.Charge, 0, len(charges))
	for _, c := range charges {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
