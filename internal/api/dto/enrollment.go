package dto

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
	"github.com/tdtai09423/moe-ui-sub001/internal/validator"
)

type CreateEnrollmentRequest struct {
	StudentID string `json:"student_id" binding:"required" validate:"required"`
	CourseID  string `json:"course_id" binding:"required" validate:"required"`
	// enrollment_date is the day the student enrolled, YYYY-MM-DD
	EnrollmentDate  string  `json:"enrollment_date" binding:"required" validate:"required"`
	CourseStartDate *string `json:"course_start_date,omitempty"`
	CourseEndDate   *string `json:"course_end_date,omitempty"`
	// billing_cycle is one of monthly, quarterly, biannually, yearly, one_time
	BillingCycle types.BillingCycle `json:"billing_cycle" binding:"required" validate:"required"`
	// course_fee is the fee of one full billing cycle, or of the whole course for one_time
	CourseFee decimal.Decimal `json:"course_fee" swaggertype:"string"`
	// total_fee is what the whole course costs. Defaults to course_fee for one_time
	// courses and stays open ended otherwise.
	TotalFee *decimal.Decimal `json:"total_fee,omitempty" swaggertype:"string"`
}

func (r *CreateEnrollmentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.BillingCycle.Validate(); err != nil {
		return err
	}
	if r.CourseFee.IsNegative() || (r.TotalFee != nil && r.TotalFee.IsNegative()) {
		return ierr.NewError("negative fee").
			WithHint("Course fees cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToEnrollment parses the request into a new enrollment
func (r *CreateEnrollmentRequest) ToEnrollment(ctx context.Context) (*enrollment.Enrollment, error) {
	enrollmentDate, err := types.ParseDate(r.EnrollmentDate)
	if err != nil {
		return nil, err
	}
	courseStartDate, err := types.ParseOptionalDate(r.CourseStartDate)
	if err != nil {
		return nil, err
	}
	courseEndDate, err := types.ParseOptionalDate(r.CourseEndDate)
	if err != nil {
		return nil, err
	}

	totalFee := decimal.Zero
	switch {
	case r.TotalFee != nil:
		totalFee = *r.TotalFee
	case r.BillingCycle == types.BillingCycleOneTime:
		totalFee = r.CourseFee
	}

	return &enrollment.Enrollment{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ENROLLMENT),
		StudentID:       r.StudentID,
		CourseID:        r.CourseID,
		EnrollmentDate:  enrollmentDate,
		CourseStartDate: courseStartDate,
		CourseEndDate:   courseEndDate,
		BillingCycle:    r.BillingCycle,
		CourseFee:       r.CourseFee,
		TotalFee:        totalFee,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}, nil
}

type EnrollmentResponse struct {
	*enrollment.Enrollment
	CycleLabel string `json:"cycle_label"`
	// initial_charge is set on creation only
	InitialCharge *ChargeResponse `json:"initial_charge,omitempty"`
}

func NewEnrollmentResponse(e *enrollment.Enrollment) *EnrollmentResponse {
	return &EnrollmentResponse{
		Enrollment: e,
		CycleLabel: e.BillingCycle.Label(),
	}
}

// ListEnrollmentsResponse represents the response for listing enrollments
type ListEnrollmentsResponse = types.ListResponse[*EnrollmentResponse]

// UpcomingCyclesQuery is the query string of the enrollment upcoming cycles endpoint
type UpcomingCyclesQuery struct {
	Count   int    `form:"count" validate:"omitempty,min=1,max=60"`
	EndDate string `form:"end_date" validate:"omitempty,date"`
}

func (q *UpcomingCyclesQuery) Validate() error {
	return validator.ValidateRequest(q)
}

// EnrollmentSummaryResponse is everything the enrollment detail view shows
type EnrollmentSummaryResponse struct {
	Enrollment     *EnrollmentResponse       `json:"enrollment"`
	PaymentStatus  *PaymentStatusResponse    `json:"payment_status"`
	Proration      *ProrationPreviewResponse `json:"proration"`
	UpcomingCycles *UpcomingCyclesResponse   `json:"upcoming_cycles"`
	Charges        []*ChargeResponse         `json:"charges"`
	TotalCollected decimal.Decimal           `json:"total_collected" swaggertype:"string"`
	AmountDue      decimal.Decimal           `json:"amount_due" swaggertype:"string"`
	AsOf           string                    `json:"as_of"`
}
