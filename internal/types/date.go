package types

import (
	"strings"
	"time"

	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
)

const (
	// DateLayout is the wire format of calendar dates
	DateLayout = "2006-01-02"

	// DatePlaceholder is rendered in place of a missing or zero date
	DatePlaceholder = "—"

	Day = 24 * time.Hour
)

// Accepted input layouts, tried in order
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a calendar date. The date part is taken as written and returned at
// midnight UTC, no timezone conversion is applied to the day.
func ParseDate(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, ierr.NewError("date is empty").
			WithHint("A date is required").
			Mark(ierr.ErrInvalidDate)
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, ierr.NewErrorf("cannot parse date %q", value).
		WithHintf("Invalid date %q, expected YYYY-MM-DD", value).
		WithReportableDetails(map[string]any{
			"provided_value":  value,
			"expected_format": DateLayout,
		}).
		Mark(ierr.ErrInvalidDate)
}

// ParseOptionalDate is ParseDate for optional fields. nil or blank input yields nil.
func ParseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders t as YYYY-MM-DD, or the placeholder when t is zero
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return DatePlaceholder
	}
	return t.Format(DateLayout)
}

func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return DatePlaceholder
	}
	return FormatDate(*t)
}

// StartOfDay drops the time of day, keeping the location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CalendarDate keeps the date of t as seen in t's location and moves it to
// midnight UTC, matching what ParseDate returns
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay compares calendar dates only
func SameDay(a, b time.Time) bool {
	return CompareDate(a, b) == 0
}

// CompareDate orders two calendar dates, ignoring time of day and location.
// It returns -1, 0 or 1.
func CompareDate(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return cmpInt(ay, by)
	case am != bm:
		return cmpInt(int(am), int(bm))
	default:
		return cmpInt(ad, bd)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// MonthIndex is year*12 + zero based month, so consecutive months differ by one
func MonthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// FirstOfMonthIndex returns the first day of the month identified by MonthIndex
func FirstOfMonthIndex(idx int, loc *time.Location) time.Time {
	return time.Date(floorDiv(idx, 12), time.Month(floorMod(idx, 12)+1), 1, 0, 0, 0, 0, loc)
}

// LastDayOfMonth uses day 0 of the following month, which time.Date normalizes to
// the last day of the requested one (leap years included).
func LastDayOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

// AddClampedMonths moves t by a number of months, clamping the day to the last valid
// day of the target month instead of overflowing into the next one.
func AddClampedMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := LastDayOfMonth(target.Year(), target.Month(), t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(target.Year(), target.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// FloorDiv is integer division rounding toward negative infinity
func FloorDiv(a, b int) int {
	return floorDiv(a, b)
}
