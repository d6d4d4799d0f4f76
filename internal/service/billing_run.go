package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/billing"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	"github.com/tdtai09423/moe-ui-sub001/internal/sentry"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
	"golang.org/x/time/rate"
)

// BillingRunService generates the recurring charges of periodic enrollments
type BillingRunService interface {
	// Run bills every active periodic enrollment whose current period has no charge
	// yet. Runs on any day other than the billing anchor day do nothing.
	Run(ctx context.Context, req dto.BillingRunRequest) (*dto.BillingRunResponse, error)
}

type billingRunService struct {
	ServiceParams
	chargeService ChargeService
}

func NewBillingRunService(params ServiceParams) BillingRunService {
	return &billingRunService{
		ServiceParams: params,
		chargeService: NewChargeService(params),
	}
}

func (s *billingRunService) Run(ctx context.Context, req dto.BillingRunRequest) (_ *dto.BillingRunResponse, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runDate := s.today()
	if req.RunDate != nil {
		if runDate, err = types.ParseDate(*req.RunDate); err != nil {
			return nil, err
		}
	}

	span, ctx := s.Sentry.StartTransaction(ctx, "billing.run")
	defer func() {
		sentry.FinishSpan(span, err)
	}()

	resp := &dto.BillingRunResponse{
		RunDate:      types.FormatDate(runDate),
		IsBillingDay: runDate.Day() == billing.BillingAnchorDay,
		ChargeIDs:    []string{},
	}

	if !resp.IsBillingDay {
		s.Logger.Infow("not a billing day, skipping billing run", "run_date", resp.RunDate)
		return resp, nil
	}

	enrollments, err := s.EnrollmentRepo.List(ctx, types.NewNoLimitEnrollmentFilter())
	if err != nil {
		return nil, err
	}

	periodic := lo.Filter(enrollments, func(e *enrollment.Enrollment, _ int) bool {
		return e.BillingCycle.IsRecurring()
	})
	resp.Enrollments = len(periodic)

	s.Logger.Infow("starting billing run",
		"run_date", resp.RunDate,
		"enrollments", len(periodic),
		"concurrency", s.concurrency(),
	)

	limiter := s.writeLimiter()

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(s.concurrency())
	for _, e := range periodic {
		e := e
		p.Go(func() {
			c, billErr := s.billEnrollment(ctx, e, runDate, limiter)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case billErr != nil:
				resp.Failed++
				s.Logger.Errorw("failed to bill enrollment",
					"enrollment_id", e.ID,
					"run_date", resp.RunDate,
					"error", billErr,
				)
				s.Sentry.CaptureException(billErr)
			case c == nil:
				resp.Skipped++
			default:
				resp.Created++
				resp.ChargeIDs = append(resp.ChargeIDs, c.ID)
			}
		})
	}
	p.Wait()

	sort.Strings(resp.ChargeIDs)

	s.Logger.Infow("completed billing run",
		"run_date", resp.RunDate,
		"created", resp.Created,
		"skipped", resp.Skipped,
		"failed", resp.Failed,
	)
	return resp, nil
}

// billEnrollment returns nil without error when the enrollment owes nothing for
// the period containing runDate
func (s *billingRunService) billEnrollment(ctx context.Context, e *enrollment.Enrollment, runDate time.Time, limiter *rate.Limiter) (*charge.Charge, error) {
	if types.CompareDate(e.EnrollmentDate, runDate) > 0 {
		return nil, nil
	}
	if e.CourseStartDate != nil && types.CompareDate(*e.CourseStartDate, runDate) > 0 {
		return nil, nil
	}
	if e.CourseEndDate != nil && types.CompareDate(*e.CourseEndDate, runDate) < 0 {
		return nil, nil
	}

	charges, err := s.ChargeRepo.List(ctx, &types.ChargeFilter{EnrollmentID: e.ID})
	if err != nil {
		return nil, err
	}

	if lo.ContainsBy(charges, func(c *charge.Charge) bool { return c.Covers(runDate) }) {
		return nil, nil
	}

	if e.TotalFee.IsPositive() {
		billed := lo.Reduce(charges, func(sum decimal.Decimal, c *charge.Charge, _ int) decimal.Decimal {
			return sum.Add(c.Amount)
		}, decimal.Zero)
		if billed.GreaterThanOrEqual(e.TotalFee) {
			return nil, nil
		}
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.chargeService.CreatePeriodCharge(ctx, e, runDate)
}

// writeLimiter paces charge creation, hosted backends throttle bursts of inserts
func (s *billingRunService) writeLimiter() *rate.Limiter {
	if s.Config == nil || s.Config.Billing.BillingRunRateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(s.Config.Billing.BillingRunRateLimit), 1)
}

func (s *billingRunService) concurrency() int {
	if s.Config != nil && s.Config.Billing.BillingRunConcurrency > 0 {
		return s.Config.Billing.BillingRunConcurrency
	}
	return 1
}
