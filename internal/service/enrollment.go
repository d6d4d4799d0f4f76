package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

type EnrollmentService interface {
	// CreateEnrollment stores the enrollment together with its first charge
	CreateEnrollment(ctx context.Context, req dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error)
	GetEnrollment(ctx context.Context, id string) (*dto.EnrollmentResponse, error)
	ListEnrollments(ctx context.Context, filter *types.EnrollmentFilter) (*dto.ListEnrollmentsResponse, error)
}

type enrollmentService struct {
	ServiceParams
	chargeService ChargeService
}

func NewEnrollmentService(params ServiceParams) EnrollmentService {
	return &enrollmentService{
		ServiceParams: params,
		chargeService: NewChargeService(params),
	}
}

func (s *enrollmentService) CreateEnrollment(ctx context.Context, req dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e, err := req.ToEnrollment(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	var (
		initial *charge.Charge
		created bool
	)
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.EnrollmentRepo.Create(ctx, e); err != nil {
			return err
		}
		created = true

		initial, err = s.chargeService.CreateInitialCharge(ctx, e)
		return err
	})
	if err != nil {
		if created {
			s.discardEnrollment(ctx, e.ID)
		}
		s.Logger.Errorw("failed to create enrollment",
			"student_id", req.StudentID,
			"course_id", req.CourseID,
			"error", err,
		)
		return nil, err
	}

	s.Logger.Infow("created enrollment",
		"enrollment_id", e.ID,
		"student_id", e.StudentID,
		"course_id", e.CourseID,
		"billing_cycle", e.BillingCycle,
	)

	resp := dto.NewEnrollmentResponse(e)
	resp.InitialCharge = dto.NewChargeResponse(initial)
	return resp, nil
}

// discardEnrollment removes an enrollment left without its initial charge. Backends
// without transactions keep the row after a failed charge insert; on postgres the
// rollback already removed it.
func (s *enrollmentService) discardEnrollment(ctx context.Context, id string) {
	err := s.EnrollmentRepo.Delete(ctx, id)
	if err == nil || ierr.IsNotFound(err) {
		return
	}
	s.Logger.Errorw("failed to discard enrollment without initial charge",
		"enrollment_id", id,
		"error", err,
	)
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, id string) (*dto.EnrollmentResponse, error) {
	if id == "" {
		return nil, ierr.NewError("enrollment_id is required").
			WithHint("Enrollment ID is required").
			Mark(ierr.ErrValidation)
	}

	e, err := s.EnrollmentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewEnrollmentResponse(e), nil
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, filter *types.EnrollmentFilter) (*dto.ListEnrollmentsResponse, error) {
	if filter == nil {
		filter = &types.EnrollmentFilter{}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = &types.QueryFilter{}
	}

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(enrollments, func(e *enrollment.Enrollment, _ int) *dto.EnrollmentResponse {
		return dto.NewEnrollmentResponse(e)
	})

	resp := types.NewListResponse(items, len(items), filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}
