package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/billing"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// BillingService exposes the billing engine, both on request data and on stored
// enrollments
type BillingService interface {
	GetBillingPeriod(ctx context.Context, req dto.BillingPeriodRequest) (*dto.BillingPeriodResponse, error)
	PreviewProration(ctx context.Context, req dto.ProrationPreviewRequest) (*dto.ProrationPreviewResponse, error)
	ClassifyCharges(ctx context.Context, req dto.PaymentStatusRequest) (*dto.PaymentStatusResponse, error)
	EnumerateCycles(ctx context.Context, req dto.UpcomingCyclesRequest) (*dto.UpcomingCyclesResponse, error)

	GetPaymentStatus(ctx context.Context, enrollmentID string) (*dto.PaymentStatusResponse, error)
	GetUpcomingCycles(ctx context.Context, enrollmentID string, query dto.UpcomingCyclesQuery) (*dto.UpcomingCyclesResponse, error)
	GetEnrollmentSummary(ctx context.Context, enrollmentID string) (*dto.EnrollmentSummaryResponse, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
	}
}

func (s *billingService) GetBillingPeriod(ctx context.Context, req dto.BillingPeriodRequest) (*dto.BillingPeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	anchor, err := req.ToAnchor()
	if err != nil {
		return nil, err
	}

	period, err := anchor.Period()
	if err != nil {
		return nil, err
	}

	return dto.NewBillingPeriodResponse(anchor, period), nil
}

func (s *billingService) PreviewProration(ctx context.Context, req dto.ProrationPreviewRequest) (*dto.ProrationPreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	anchor, err := req.ToAnchor()
	if err != nil {
		return nil, err
	}

	info, err := billing.GetProratingInfo(req.CourseFee, anchor.EnrollmentDate, anchor.CourseStartDate, anchor.BillingCycle)
	if err != nil {
		return nil, err
	}

	return dto.NewProrationPreviewResponse(info), nil
}

func (s *billingService) ClassifyCharges(ctx context.Context, req dto.PaymentStatusRequest) (*dto.PaymentStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	today, err := s.asOf(req.AsOf)
	if err != nil {
		return nil, err
	}

	charges, err := req.ToCharges()
	if err != nil {
		return nil, err
	}

	result := s.classifier().Classify(charges, today)

	fullyPaid := false
	if req.TotalFee != nil {
		collected := lo.FromPtrOr(req.TotalCollected, decimal.Zero)
		courseEndDate, err := types.ParseOptionalDate(req.CourseEndDate)
		if err != nil {
			return nil, err
		}
		fullyPaid = billing.IsFullyPaid(*req.TotalFee, collected, courseEndDate, today)
	}

	return dto.NewPaymentStatusResponse(applyFullyPaid(result, fullyPaid), fullyPaid, today), nil
}

func (s *billingService) EnumerateCycles(ctx context.Context, req dto.UpcomingCyclesRequest) (*dto.UpcomingCyclesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	today, err := s.asOf(req.AsOf)
	if err != nil {
		return nil, err
	}
	startDate, err := types.ParseOptionalDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := types.ParseOptionalDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	dates, err := billing.GetUpcomingBillingCycles(req.BillingCycle, s.cycleCount(req.Count), startDate, endDate, today)
	if err != nil {
		return nil, err
	}

	return dto.NewUpcomingCyclesResponse(req.BillingCycle, dates), nil
}

// GetPaymentStatus classifies the stored charges of an enrollment. A course whose
// fee is covered reports fully_paid regardless of the classifier outcome.
func (s *billingService) GetPaymentStatus(ctx context.Context, enrollmentID string) (*dto.PaymentStatusResponse, error) {
	e, charges, err := s.loadEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	return s.paymentStatus(e, charges, today), nil
}

// GetUpcomingCycles enumerates the next billing dates of an enrollment, bounded by
// the course dates. Months already settled by a clear charge are left out.
func (s *billingService) GetUpcomingCycles(ctx context.Context, enrollmentID string, query dto.UpcomingCyclesQuery) (*dto.UpcomingCyclesResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	e, charges, err := s.loadEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	endDate := e.CourseEndDate
	if query.EndDate != "" {
		d, err := types.ParseDate(query.EndDate)
		if err != nil {
			return nil, err
		}
		endDate = &d
	}

	return s.upcomingCycles(e, charges, query.Count, endDate, s.today())
}

func (s *billingService) GetEnrollmentSummary(ctx context.Context, enrollmentID string) (*dto.EnrollmentSummaryResponse, error) {
	today := s.today()
	key := summaryCacheKey(enrollmentID, today)

	if s.Cache != nil {
		if value, found := s.Cache.Get(ctx, key); found {
			if summary, ok := value.(*dto.EnrollmentSummaryResponse); ok {
				return summary, nil
			}
		}
	}

	e, charges, err := s.loadEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	info, err := billing.GetProratingInfo(e.CourseFee, e.EnrollmentDate, e.CourseStartDate, e.BillingCycle)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.upcomingCycles(e, charges, 0, e.CourseEndDate, today)
	if err != nil {
		return nil, err
	}

	amountDue := decimal.Zero
	for _, c := range charges {
		amountDue = amountDue.Add(c.AmountDue())
	}

	summary := &dto.EnrollmentSummaryResponse{
		Enrollment:     dto.NewEnrollmentResponse(e),
		PaymentStatus:  s.paymentStatus(e, charges, today),
		Proration:      dto.NewProrationPreviewResponse(info),
		UpcomingCycles: upcoming,
		Charges: lo.Map(charges, func(c *charge.Charge, _ int) *dto.ChargeResponse {
			return dto.NewChargeResponse(c)
		}),
		TotalCollected: totalCollected(charges),
		AmountDue:      amountDue,
		AsOf:           types.FormatDate(today),
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, summary, 0)
	}

	s.Logger.Debugw("built enrollment summary",
		"enrollment_id", e.ID,
		"status", summary.PaymentStatus.Status,
		"charges", len(charges),
	)
	return summary, nil
}

func (s *billingService) loadEnrollment(ctx context.Context, enrollmentID string) (*enrollment.Enrollment, []*charge.Charge, error) {
	e, err := s.EnrollmentRepo.Get(ctx, enrollmentID)
	if err != nil {
		return nil, nil, err
	}

	charges, err := s.ChargeRepo.List(ctx, &types.ChargeFilter{EnrollmentID: e.ID})
	if err != nil {
		return nil, nil, err
	}
	return e, charges, nil
}

func (s *billingService) paymentStatus(e *enrollment.Enrollment, charges []*charge.Charge, today time.Time) *dto.PaymentStatusResponse {
	result := s.classifier().Classify(charges, today)
	collected := totalCollected(charges)
	fullyPaid := isEnrollmentFullyPaid(e, charges, collected, today)

	resp := dto.NewPaymentStatusResponse(applyFullyPaid(result, fullyPaid), fullyPaid, today)
	resp.EnrollmentID = e.ID
	resp.TotalCollected = &collected
	return resp
}

func (s *billingService) upcomingCycles(e *enrollment.Enrollment, charges []*charge.Charge, count int, endDate *time.Time, today time.Time) (*dto.UpcomingCyclesResponse, error) {
	// without a course start the grid is anchored where the enrollment's own period starts
	startDate := e.CourseStartDate
	if startDate == nil {
		period, err := billing.GetBillingPeriodDates(e.EnrollmentDate, nil, e.BillingCycle)
		if err != nil {
			return nil, err
		}
		startDate = &period.Start
	}

	dates, err := billing.GetUpcomingBillingCycles(e.BillingCycle, s.cycleCount(count), startDate, endDate, today)
	if err != nil {
		return nil, err
	}

	paidMonths := make(map[int]struct{})
	for _, c := range charges {
		if c.IsClear() && c.PaidAt != nil {
			paidMonths[types.MonthIndex(*c.PaidAt)] = struct{}{}
		}
	}

	dates = lo.Filter(dates, func(d time.Time, _ int) bool {
		_, paid := paidMonths[types.MonthIndex(d)]
		return !paid
	})

	resp := dto.NewUpcomingCyclesResponse(e.BillingCycle, dates)
	resp.EnrollmentID = e.ID
	return resp, nil
}

func (s *billingService) classifier() billing.StatusClassifier {
	classifier := billing.DefaultStatusClassifier
	if s.Config == nil {
		return classifier
	}
	if s.Config.Billing.OverdueAfterDays > 0 {
		classifier.OverdueAfterDays = s.Config.Billing.OverdueAfterDays
	}
	classifier.EscalateOverdue = s.Config.Billing.EscalateOverdue
	return classifier
}

func (s *billingService) cycleCount(requested int) int {
	if requested > 0 {
		return requested
	}
	if s.Config != nil && s.Config.Billing.UpcomingCyclesDefault > 0 {
		return s.Config.Billing.UpcomingCyclesDefault
	}
	return 3
}

func (s *billingService) asOf(value *string) (time.Time, error) {
	day, err := types.ParseOptionalDate(value)
	if err != nil {
		return time.Time{}, err
	}
	if day == nil {
		return s.today(), nil
	}
	return *day, nil
}

// applyFullyPaid overrides the classifier result for settled courses, which have
// no further billing date
func applyFullyPaid(result billing.PaymentStatusResult, fullyPaid bool) billing.PaymentStatusResult {
	if !fullyPaid {
		return result
	}
	return billing.PaymentStatusResult{Status: types.PaymentStatusFullyPaid}
}

// isEnrollmentFullyPaid checks the collected amount against the course total. Open
// ended enrollments have no total, they are settled once the course is over and
// everything billed has been collected.
func isEnrollmentFullyPaid(e *enrollment.Enrollment, charges []*charge.Charge, collected decimal.Decimal, today time.Time) bool {
	if e.TotalFee.IsPositive() {
		return billing.IsFullyPaid(e.TotalFee, collected, e.CourseEndDate, today)
	}

	ended := e.CourseEndDate != nil && types.CompareDate(*e.CourseEndDate, today) < 0
	if !ended {
		return false
	}

	billed := decimal.Zero
	for _, c := range charges {
		billed = billed.Add(c.Amount)
	}
	return billing.IsFullyPaid(billed, collected, e.CourseEndDate, today)
}

func totalCollected(charges []*charge.Charge) decimal.Decimal {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.AmountPaid)
	}
	return total
}
