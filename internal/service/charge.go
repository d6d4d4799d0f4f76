package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	"github.com/tdtai09423/moe-ui-sub001/internal/cache"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/billing"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// ChargeService creates charges for enrollments and records payments against them
type ChargeService interface {
	// CreateInitialCharge bills the period the enrollment date falls into,
	// prorated when the enrollment starts mid period. Enrollments made on or
	// before the course start are billed the course's first period in full.
	CreateInitialCharge(ctx context.Context, e *enrollment.Enrollment) (*charge.Charge, error)
	// CreatePeriodCharge bills the full fee of the period containing billingDate
	CreatePeriodCharge(ctx context.Context, e *enrollment.Enrollment, billingDate time.Time) (*charge.Charge, error)
	GetCharge(ctx context.Context, id string) (*dto.ChargeResponse, error)
	ListCharges(ctx context.Context, filter *types.ChargeFilter) (*dto.ListChargesResponse, error)
	RecordPayment(ctx context.Context, chargeID string, req dto.RecordPaymentRequest) (*dto.ChargeResponse, error)
}

type chargeService struct {
	ServiceParams
}

func NewChargeService(params ServiceParams) ChargeService {
	return &chargeService{
		ServiceParams: params,
	}
}

func (s *chargeService) CreateInitialCharge(ctx context.Context, e *enrollment.Enrollment) (*charge.Charge, error) {
	info, err := billing.GetProratingInfo(e.CourseFee, e.EnrollmentDate, e.CourseStartDate, e.BillingCycle)
	if err != nil {
		return nil, err
	}

	period := billing.Period{Start: info.PeriodStart, End: info.PeriodEnd}

	// enrolling ahead of the course buys the course's first period, not the one
	// the enrollment date happens to fall into
	if e.CourseStartDate != nil && types.CompareDate(e.EnrollmentDate, *e.CourseStartDate) <= 0 {
		if period, err = billing.GetBillingPeriodDates(*e.CourseStartDate, e.CourseStartDate, e.BillingCycle); err != nil {
			return nil, err
		}
	}

	c := s.newCharge(ctx, e, e.EnrollmentDate, period, info.ProratedFee)
	c.IsProrated = info.IsProrated

	if err := s.create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created initial charge",
		"enrollment_id", e.ID,
		"charge_id", c.ID,
		"amount", c.Amount.String(),
		"is_prorated", c.IsProrated,
		"days_remaining", info.DaysRemaining,
		"total_days", info.TotalDays,
	)
	return c, nil
}

func (s *chargeService) CreatePeriodCharge(ctx context.Context, e *enrollment.Enrollment, billingDate time.Time) (*charge.Charge, error) {
	if !e.BillingCycle.IsRecurring() {
		return nil, ierr.NewError("enrollment is not billed periodically").
			WithHintf("%s enrollments are billed once", e.BillingCycle.Label()).
			WithReportableDetails(map[string]any{
				"enrollment_id": e.ID,
				"billing_cycle": e.BillingCycle,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	period, err := billing.GetBillingPeriodDates(billingDate, e.CourseStartDate, e.BillingCycle)
	if err != nil {
		return nil, err
	}

	c := s.newCharge(ctx, e, billingDate, period, e.CourseFee)
	if err := s.create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created period charge",
		"enrollment_id", e.ID,
		"charge_id", c.ID,
		"amount", c.Amount.String(),
		"period_start", types.FormatDate(period.Start),
		"period_end", types.FormatDate(period.End),
	)
	return c, nil
}

func (s *chargeService) GetCharge(ctx context.Context, id string) (*dto.ChargeResponse, error) {
	if id == "" {
		return nil, ierr.NewError("charge_id is required").
			WithHint("Charge ID is required").
			Mark(ierr.ErrValidation)
	}

	c, err := s.ChargeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewChargeResponse(c), nil
}

func (s *chargeService) ListCharges(ctx context.Context, filter *types.ChargeFilter) (*dto.ListChargesResponse, error) {
	if filter == nil {
		filter = &types.ChargeFilter{}
	}

	if filter.EnrollmentID != "" {
		if _, err := s.EnrollmentRepo.Get(ctx, filter.EnrollmentID); err != nil {
			return nil, err
		}
	}

	charges, err := s.ChargeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(charges, func(c *charge.Charge, _ int) *dto.ChargeResponse {
		return dto.NewChargeResponse(c)
	})

	resp := types.NewListResponse(items, len(items), len(items), 0)
	return &resp, nil
}

// RecordPayment adds a payment to a charge. The charge becomes clear once the
// amount is covered, partially_paid before that. Payments on cleared charges and
// payments above the amount due are rejected.
func (s *chargeService) RecordPayment(ctx context.Context, chargeID string, req dto.RecordPaymentRequest) (*dto.ChargeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ChargeRepo.Get(ctx, chargeID)
	if err != nil {
		return nil, err
	}

	if c.IsClear() {
		return nil, ierr.NewError("charge is already clear").
			WithHint("This charge has already been paid").
			WithReportableDetails(map[string]any{
				"charge_id": c.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	due := c.AmountDue()
	if req.Amount.GreaterThan(due) {
		return nil, ierr.NewError("payment exceeds amount due").
			WithHintf("At most %s can be paid against this charge", due.StringFixed(2)).
			WithReportableDetails(map[string]any{
				"charge_id":  c.ID,
				"amount":     req.Amount.String(),
				"amount_due": due.String(),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	paidAt := s.today()
	if req.PaidAt != "" {
		if paidAt, err = types.ParseDate(req.PaidAt); err != nil {
			return nil, err
		}
	}

	c.AmountPaid = c.AmountPaid.Add(req.Amount)
	if c.AmountPaid.GreaterThanOrEqual(c.Amount) {
		c.ChargeStatus = types.ChargeStatusClear
		c.PaidAt = &paidAt
	} else {
		c.ChargeStatus = types.ChargeStatusPartiallyPaid
	}
	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)

	if err := s.ChargeRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	invalidateSummary(ctx, s.Cache, c.EnrollmentID)

	s.Logger.Infow("recorded payment",
		"charge_id", c.ID,
		"enrollment_id", c.EnrollmentID,
		"amount", req.Amount.String(),
		"charge_status", c.ChargeStatus,
	)
	return dto.NewChargeResponse(c), nil
}

func (s *chargeService) newCharge(ctx context.Context, e *enrollment.Enrollment, dueDate time.Time, period billing.Period, amount decimal.Decimal) *charge.Charge {
	c := &charge.Charge{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		EnrollmentID: e.ID,
		ChargeStatus: types.ChargeStatusOutstanding,
		DueDate:      types.StartOfDay(dueDate),
		PeriodStart:  period.Start,
		PeriodEnd:    period.End,
		Amount:       amount,
		AmountPaid:   decimal.Zero,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}

	// nothing to collect on free periods
	if amount.IsZero() {
		c.ChargeStatus = types.ChargeStatusClear
		c.PaidAt = lo.ToPtr(c.DueDate)
	}
	return c
}

func (s *chargeService) create(ctx context.Context, c *charge.Charge) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.ChargeRepo.Create(ctx, c); err != nil {
		return err
	}
	invalidateSummary(ctx, s.Cache, c.EnrollmentID)
	return nil
}

func summaryCacheKey(enrollmentID string, day time.Time) string {
	return cache.GenerateKey(cache.PrefixEnrollmentSummary, enrollmentID, types.FormatDate(day))
}

func invalidateSummary(ctx context.Context, c cache.Cache, enrollmentID string) {
	if c == nil {
		return
	}
	c.DeleteByPrefix(ctx, cache.GenerateKey(cache.PrefixEnrollmentSummary, enrollmentID)+":")
}
