package billing

import (
	"math"
	"time"

	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// Period is a month aligned billing window. Start and End are midnight and both
// inclusive; End is always the last day of the period's final month.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether day falls inside the period
func (p Period) Contains(day time.Time) bool {
	return types.CompareDate(day, p.Start) >= 0 && types.CompareDate(day, p.End) <= 0
}

// TotalDays is the inclusive length of the period in days
func (p Period) TotalDays() int {
	return GetTotalDaysInBillingPeriod(p.Start, p.End)
}

// EnrollmentAnchor is the minimal input the period calculator needs
type EnrollmentAnchor struct {
	EnrollmentDate  time.Time
	CourseStartDate *time.Time
	BillingCycle    types.BillingCycle
}

// Period returns the billing period containing the enrollment date
func (a EnrollmentAnchor) Period() (Period, error) {
	return GetBillingPeriodDates(a.EnrollmentDate, a.CourseStartDate, a.BillingCycle)
}

// GetBillingPeriodDates returns the billing period that contains enrollmentDate.
//
// Periods are laid out every cycle.Months() months starting from the month of
// courseStartDate, or from January of the enrollment year when the course start is
// unknown. one_time cycles have no recurrence, so their period is the calendar month
// of the enrollment.
func GetBillingPeriodDates(enrollmentDate time.Time, courseStartDate *time.Time, cycle types.BillingCycle) (Period, error) {
	if err := cycle.Validate(); err != nil {
		return Period{}, err
	}

	enrollment := types.StartOfDay(enrollmentDate)
	loc := enrollment.Location()

	months := cycle.Months()
	if months == 0 {
		start := time.Date(enrollment.Year(), enrollment.Month(), 1, 0, 0, 0, 0, loc)
		return Period{
			Start: start,
			End:   types.LastDayOfMonth(start.Year(), start.Month(), loc),
		}, nil
	}

	anchor := time.Date(enrollment.Year(), time.January, 1, 0, 0, 0, 0, loc)
	if courseStartDate != nil {
		anchor = *courseStartDate
	}

	anchorIdx := types.MonthIndex(anchor)
	periodIndex := types.FloorDiv(types.MonthIndex(enrollment)-anchorIdx, months)

	start := types.FirstOfMonthIndex(anchorIdx+periodIndex*months, loc)
	end := types.LastDayOfMonth(start.Year(), start.Month()+time.Month(months-1), loc)

	return Period{Start: start, End: end}, nil
}

// GetTotalDaysInBillingPeriod counts the days from start to end, both included
func GetTotalDaysInBillingPeriod(start, end time.Time) int {
	return inclusiveDays(start, end)
}

// GetDaysRemainingInBillingPeriod counts the days from the enrollment to the period
// end, both included
func GetDaysRemainingInBillingPeriod(enrollmentDate, periodEnd time.Time) int {
	return inclusiveDays(enrollmentDate, periodEnd)
}

// inclusiveDays rounds the midnight-to-midnight distance so that a DST shift inside
// the range cannot drop or add a day.
func inclusiveDays(from, to time.Time) int {
	a := calendarMidnight(from)
	b := calendarMidnight(to)
	return int(math.Round(float64(b.Sub(a))/float64(types.Day))) + 1
}

// calendarMidnight moves the calendar date of t to midnight UTC so two dates carrying
// different locations still subtract to whole days.
func calendarMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
