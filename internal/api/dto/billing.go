package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/billing"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
	"github.com/tdtai09423/moe-ui-sub001/internal/validator"
)

// BillingPeriodRequest locates the billing period an enrollment date falls into
type BillingPeriodRequest struct {
	// enrollment_date is the day the student enrolled, YYYY-MM-DD
	EnrollmentDate string `json:"enrollment_date" binding:"required" validate:"required"`
	// course_start_date anchors the period grid, January of the enrollment year when omitted
	CourseStartDate *string `json:"course_start_date,omitempty"`
	// billing_cycle is one of monthly, quarterly, biannually, yearly, one_time
	BillingCycle types.BillingCycle `json:"billing_cycle" binding:"required" validate:"required"`
}

func (r *BillingPeriodRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.BillingCycle.Validate(); err != nil {
		return err
	}
	_, err := r.ToAnchor()
	return err
}

// ToAnchor parses the request dates
func (r *BillingPeriodRequest) ToAnchor() (billing.EnrollmentAnchor, error) {
	enrollmentDate, err := types.ParseDate(r.EnrollmentDate)
	if err != nil {
		return billing.EnrollmentAnchor{}, err
	}

	courseStartDate, err := types.ParseOptionalDate(r.CourseStartDate)
	if err != nil {
		return billing.EnrollmentAnchor{}, err
	}

	return billing.EnrollmentAnchor{
		EnrollmentDate:  enrollmentDate,
		CourseStartDate: courseStartDate,
		BillingCycle:    r.BillingCycle,
	}, nil
}

// BillingPeriodResponse is the billing period with its day counts
type BillingPeriodResponse struct {
	PeriodStart   string             `json:"period_start"`
	PeriodEnd     string             `json:"period_end"`
	TotalDays     int                `json:"total_days"`
	DaysRemaining int                `json:"days_remaining"`
	BillingCycle  types.BillingCycle `json:"billing_cycle"`
	CycleLabel    string             `json:"cycle_label"`
}

func NewBillingPeriodResponse(anchor billing.EnrollmentAnchor, period billing.Period) *BillingPeriodResponse {
	return &BillingPeriodResponse{
		PeriodStart:   types.FormatDate(period.Start),
		PeriodEnd:     types.FormatDate(period.End),
		TotalDays:     period.TotalDays(),
		DaysRemaining: billing.GetDaysRemainingInBillingPeriod(anchor.EnrollmentDate, period.End),
		BillingCycle:  anchor.BillingCycle,
		CycleLabel:    anchor.BillingCycle.Label(),
	}
}

// ProrationPreviewRequest asks what the first charge of an enrollment would be
type ProrationPreviewRequest struct {
	BillingPeriodRequest
	// course_fee is the fee of one full billing cycle
	CourseFee decimal.Decimal `json:"course_fee" swaggertype:"string"`
}

func (r *ProrationPreviewRequest) Validate() error {
	if err := r.BillingPeriodRequest.Validate(); err != nil {
		return err
	}
	if r.CourseFee.IsNegative() {
		return ierr.NewError("course_fee cannot be negative").
			WithHint("Course fee cannot be negative").
			WithReportableDetails(map[string]any{
				"course_fee": r.CourseFee.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ProrationPreviewResponse mirrors billing.ProratingInfo with display dates
type ProrationPreviewResponse struct {
	IsProrated    bool               `json:"is_prorated"`
	ProratedFee   decimal.Decimal    `json:"prorated_fee" swaggertype:"string"`
	FullFee       decimal.Decimal    `json:"full_fee" swaggertype:"string"`
	SavingsAmount decimal.Decimal    `json:"savings_amount" swaggertype:"string"`
	DaysRemaining int                `json:"days_remaining"`
	TotalDays     int                `json:"total_days"`
	BillingCycle  types.BillingCycle `json:"billing_cycle"`
	CycleLabel    string             `json:"cycle_label"`
	PeriodStart   string             `json:"period_start"`
	PeriodEnd     string             `json:"period_end"`
}

func NewProrationPreviewResponse(info *billing.ProratingInfo) *ProrationPreviewResponse {
	return &ProrationPreviewResponse{
		IsProrated:    info.IsProrated,
		ProratedFee:   info.ProratedFee,
		FullFee:       info.FullFee,
		SavingsAmount: info.SavingsAmount,
		DaysRemaining: info.DaysRemaining,
		TotalDays:     info.TotalDays,
		BillingCycle:  info.BillingCycle,
		CycleLabel:    info.CycleLabel,
		PeriodStart:   types.FormatDate(info.PeriodStart),
		PeriodEnd:     types.FormatDate(info.PeriodEnd),
	}
}

// ChargeSnapshot is the part of a charge the status classifier looks at
type ChargeSnapshot struct {
	ChargeStatus types.ChargeStatus `json:"charge_status" validate:"required"`
	DueDate      string             `json:"due_date" validate:"required,date"`
}

// PaymentStatusRequest classifies a set of charges without touching storage.
// When total_fee is given the fully paid check is applied as well.
type PaymentStatusRequest struct {
	Charges []ChargeSnapshot `json:"charges" validate:"dive"`
	// as_of overrides today, YYYY-MM-DD
	AsOf           *string          `json:"as_of,omitempty"`
	TotalFee       *decimal.Decimal `json:"total_fee,omitempty" swaggertype:"string"`
	TotalCollected *decimal.Decimal `json:"total_collected,omitempty" swaggertype:"string"`
	CourseEndDate  *string          `json:"course_end_date,omitempty"`
}

func (r *PaymentStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, c := range r.Charges {
		if err := c.ChargeStatus.Validate(); err != nil {
			return err
		}
	}
	if _, err := types.ParseOptionalDate(r.AsOf); err != nil {
		return err
	}
	if _, err := types.ParseOptionalDate(r.CourseEndDate); err != nil {
		return err
	}
	return nil
}

// ToCharges builds the charge snapshots the classifier consumes
func (r *PaymentStatusRequest) ToCharges() ([]*charge.Charge, error) {
	charges := make([]*charge.Charge, 0, len(r.Charges))
	for _, c := range r.Charges {
		dueDate, err := types.ParseDate(c.DueDate)
		if err != nil {
			return nil, err
		}
		charges = append(charges, &charge.Charge{
			ChargeStatus: c.ChargeStatus,
			DueDate:      dueDate,
		})
	}
	return charges, nil
}

// PaymentStatusResponse is the derived status of an enrollment
type PaymentStatusResponse struct {
	EnrollmentID    string              `json:"enrollment_id,omitempty"`
	Status          types.PaymentStatus `json:"status"`
	NextBillingDate *string             `json:"next_billing_date"`
	IsFullyPaid     bool                `json:"is_fully_paid"`
	TotalCollected  *decimal.Decimal    `json:"total_collected,omitempty" swaggertype:"string"`
	AsOf            string              `json:"as_of"`
}

func NewPaymentStatusResponse(result billing.PaymentStatusResult, fullyPaid bool, asOf time.Time) *PaymentStatusResponse {
	resp := &PaymentStatusResponse{
		Status:      result.Status,
		IsFullyPaid: fullyPaid,
		AsOf:        types.FormatDate(asOf),
	}
	if result.NextBillingDate != nil {
		resp.NextBillingDate = lo.ToPtr(types.FormatDate(*result.NextBillingDate))
	}
	return resp
}

// UpcomingCyclesRequest enumerates billing dates without touching storage
type UpcomingCyclesRequest struct {
	BillingCycle types.BillingCycle `json:"billing_cycle" binding:"required" validate:"required"`
	// count is the number of dates wanted, the configured default when zero
	Count     int     `json:"count" validate:"min=0,max=60"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	AsOf      *string `json:"as_of,omitempty"`
}

func (r *UpcomingCyclesRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.BillingCycle.Validate(); err != nil {
		return err
	}
	for _, d := range []*string{r.StartDate, r.EndDate, r.AsOf} {
		if _, err := types.ParseOptionalDate(d); err != nil {
			return err
		}
	}
	return nil
}

// UpcomingCyclesResponse lists billing dates in ascending order
type UpcomingCyclesResponse struct {
	EnrollmentID string             `json:"enrollment_id,omitempty"`
	BillingCycle types.BillingCycle `json:"billing_cycle"`
	Dates        []string           `json:"dates"`
}

func NewUpcomingCyclesResponse(cycle types.BillingCycle, dates []time.Time) *UpcomingCyclesResponse {
	return &UpcomingCyclesResponse{
		BillingCycle: cycle,
		Dates:        lo.Map(dates, func(d time.Time, _ int) string { return types.FormatDate(d) }),
	}
}
