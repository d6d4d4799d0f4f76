package enrollment

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// Enrollment is a student's registration to a course together with the billing
// terms the course is sold on.
type Enrollment struct {
	ID        string `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"student_id"`
	CourseID  string `db:"course_id" json:"course_id"`

	EnrollmentDate  time.Time  `db:"enrollment_date" json:"enrollment_date"`
	CourseStartDate *time.Time `db:"course_start_date" json:"course_start_date,omitempty"`
	CourseEndDate   *time.Time `db:"course_end_date" json:"course_end_date,omitempty"`

	BillingCycle types.BillingCycle `db:"billing_cycle" json:"billing_cycle"`
	// Fee for one full billing cycle, or the whole course for one_time
	CourseFee decimal.Decimal `db:"course_fee" json:"course_fee"`
	// Total expected over the life of the course. Zero means open ended.
	TotalFee decimal.Decimal `db:"total_fee" json:"total_fee"`

	types.BaseModel
}

func (e *Enrollment) Validate() error {
	if e.StudentID == "" || e.CourseID == "" {
		return ierr.NewError("student_id and course_id are required").
			WithHint("Enrollment needs a student and a course").
			Mark(ierr.ErrValidation)
	}
	if e.EnrollmentDate.IsZero() {
		return ierr.NewError("enrollment_date is required").
			WithHint("Enrollment date is required").
			Mark(ierr.ErrInvalidDate)
	}
	if err := e.BillingCycle.Validate(); err != nil {
		return err
	}
	if e.CourseFee.IsNegative() || e.TotalFee.IsNegative() {
		return ierr.NewError("negative fee").
			WithHint("Course fees cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if e.CourseStartDate != nil && e.CourseEndDate != nil && e.CourseEndDate.Before(*e.CourseStartDate) {
		return ierr.NewError("course ends before it starts").
			WithHint("Course end date cannot be before the start date").
			WithReportableDetails(map[string]any{
				"course_start_date": types.FormatOptionalDate(e.CourseStartDate),
				"course_end_date":   types.FormatOptionalDate(e.CourseEndDate),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Matches reports whether the enrollment passes every criterion set on filter.
// Pagination is not applied here.
func (e *Enrollment) Matches(filter *types.EnrollmentFilter) bool {
	if filter == nil {
		return true
	}
	if len(filter.EnrollmentIDs) > 0 && !lo.Contains(filter.EnrollmentIDs, e.ID) {
		return false
	}
	if filter.StudentID != "" && e.StudentID != filter.StudentID {
		return false
	}
	if filter.CourseID != "" && e.CourseID != filter.CourseID {
		return false
	}
	if filter.BillingCycle != "" && e.BillingCycle != filter.BillingCycle {
		return false
	}
	if filter.Status != "" && e.Status != filter.Status {
		return false
	}
	return true
}
