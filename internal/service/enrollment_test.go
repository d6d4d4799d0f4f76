package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/postgres"
	"github.com/tdtai09423/moe-ui-sub001/internal/testutil"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

type EnrollmentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service EnrollmentService
}

func TestEnrollmentService(t *testing.T) {
	suite.Run(t, new(EnrollmentServiceSuite))
}

func (s *EnrollmentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewEnrollmentService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetRepositories(),
		s.GetCache(),
		nil,
		s.GetClock(),
	)
}

func (s *EnrollmentServiceSuite) createRequest() dto.CreateEnrollmentRequest {
	return dto.CreateEnrollmentRequest{
		StudentID:       "student_1",
		CourseID:        "course_math",
		EnrollmentDate:  "2025-10-15",
		CourseStartDate: lo.ToPtr("2025-09-01"),
		BillingCycle:    types.BillingCycleQuarterly,
		CourseFee:       decimal.NewFromInt(300),
	}
}

func (s *EnrollmentServiceSuite) TestCreateEnrollment_ProratedFirstCharge() {
	resp, err := s.service.CreateEnrollment(s.GetContext(), s.createRequest())
	s.Require().NoError(err)
	s.Require().NotNil(resp.InitialCharge)

	s.Contains(resp.ID, types.UUID_PREFIX_ENROLLMENT+"_")
	s.Equal("Quarterly", resp.CycleLabel)
	s.Equal(1, s.GetDB().TxCount())

	c := resp.InitialCharge
	s.True(c.IsProrated)
	s.True(decimal.RequireFromString("154.95").Equal(c.Amount), "got %s", c.Amount)
	s.Equal(types.ChargeStatusOutstanding, c.ChargeStatus)
	s.Equal(testutil.Date(2025, time.September, 1), c.PeriodStart)
	s.Equal(testutil.Date(2025, time.November, 30), c.PeriodEnd)
	s.Equal(testutil.Date(2025, time.October, 15), c.DueDate)
	s.True(c.AmountDue.Equal(c.Amount))

	stored, err := s.GetStores().EnrollmentRepo.Get(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	s.Equal("student_1", stored.StudentID)
	s.True(stored.TotalFee.IsZero())

	charges, err := s.GetStores().ChargeRepo.List(s.GetContext(), &types.ChargeFilter{EnrollmentID: resp.ID})
	s.Require().NoError(err)
	s.Len(charges, 1)
}

func (s *EnrollmentServiceSuite) TestCreateEnrollment_FirstDayIsNotProrated() {
	req := s.createRequest()
	req.EnrollmentDate = "2025-09-01"

	resp, err := s.service.CreateEnrollment(s.GetContext(), req)
	s.Require().NoError(err)
	s.False(resp.InitialCharge.IsProrated)
	s.True(decimal.NewFromInt(300).Equal(resp.InitialCharge.Amount))
}

func (s *EnrollmentServiceSuite) TestCreateEnrollment_OneTime() {
	req := s.createRequest()
	req.BillingCycle = types.BillingCycleOneTime
	req.CourseFee = decimal.NewFromInt(1200)

	resp, err := s.service.CreateEnrollment(s.GetContext(), req)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(1200).Equal(resp.TotalFee))
	s.False(resp.InitialCharge.IsProrated)
	s.True(decimal.NewFromInt(1200).Equal(resp.InitialCharge.Amount))
	s.Equal("One-time", resp.CycleLabel)
}

func (s *EnrollmentServiceSuite) TestCreateEnrollment_FreeCourseIsClear() {
	req := s.createRequest()
	req.CourseFee = decimal.Zero

	resp, err := s.service.CreateEnrollment(s.GetContext(), req)
	s.Require().NoError(err)
	s.Equal(types.ChargeStatusClear, resp.InitialCharge.ChargeStatus)
	s.Require().NotNil(resp.InitialCharge.PaidAt)
	s.True(resp.InitialCharge.AmountDue.IsZero())
}

func (s *EnrollmentServiceSuite) TestCreateEnrollment_Invalid() {
	tests := []struct {
		name   string
		mutate func(r *dto.CreateEnrollmentRequest)
		check  func(error) bool
	}{
		{
			name:   "missing student",
			mutate: func(r *dto.CreateEnrollmentRequest) { r.StudentID = "" },
			check:  ierr.IsValidation,
		},
		{
			name:   "unsupported cycle",
			mutate: func(r *dto.CreateEnrollmentRequest) { r.BillingCycle = "weekly" },
			check:  ierr.IsUnsupportedBillingCycle,
		},
		{
			name:   "impossible date",
			mutate: func(r *dto.CreateEnrollmentRequest) { r.EnrollmentDate = "2025-02-30" },
			check:  ierr.IsInvalidDate,
		},
		{
			name:   "bad course start",
			mutate: func(r *dto.CreateEnrollmentRequest) { r.CourseStartDate = lo.ToPtr("next week") },
			check:  ierr.IsInvalidDate,
		},
		{
			name:   "negative fee",
			mutate: func(r *dto.CreateEnrollmentRequest) { r.CourseFee = decimal.NewFromInt(-1) },
			check:  ierr.IsValidation,
		},
		{
			name: "course ends before it starts",
			mutate: func(r *dto.CreateEnrollmentRequest) {
				r.CourseEndDate = lo.ToPtr("2025-08-31")
			},
			check: ierr.IsValidation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.createRequest()
			tt.mutate(&req)

			resp, err := s.service.CreateEnrollment(s.GetContext(), req)
			s.Error(err)
			s.Nil(resp)
			s.True(tt.check(err), "unexpected error: %v", err)
		})
	}

	all, err := s.GetStores().EnrollmentRepo.List(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *EnrollmentServiceSuite) TestGetEnrollment() {
	created, err := s.service.CreateEnrollment(s.GetContext(), s.createRequest())
	s.Require().NoError(err)

	got, err := s.service.GetEnrollment(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Nil(got.InitialCharge)

	_, err = s.service.GetEnrollment(s.GetContext(), "enr_missing")
	s.True(ierr.IsNotFound(err))

	_, err = s.service.GetEnrollment(s.GetContext(), "")
	s.True(ierr.IsValidation(err))
}

func (s *EnrollmentServiceSuite) TestListEnrollments() {
	for _, student := range []string{"student_a", "student_a", "student_b"} {
		req := s.createRequest()
		req.StudentID = student
		_, err := s.service.CreateEnrollment(s.GetContext(), req)
		s.Require().NoError(err)
	}
	req := s.createRequest()
	req.StudentID = "student_b"
	req.BillingCycle = types.BillingCycleMonthly
	_, err := s.service.CreateEnrollment(s.GetContext(), req)
	s.Require().NoError(err)

	tests := []struct {
		name   string
		filter *types.EnrollmentFilter
		want   int
	}{
		{name: "no filter", filter: nil, want: 4},
		{name: "by student", filter: &types.EnrollmentFilter{StudentID: "student_a"}, want: 2},
		{name: "by cycle", filter: &types.EnrollmentFilter{BillingCycle: types.BillingCycleMonthly}, want: 1},
		{
			name:   "paginated",
			filter: &types.EnrollmentFilter{QueryFilter: &types.QueryFilter{Limit: lo.ToPtr(3), Offset: lo.ToPtr(2)}},
			want:   2,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.ListEnrollments(s.GetContext(), tt.filter)
			s.Require().NoError(err)
			s.Len(resp.Items, tt.want)
		})
	}

	_, err = s.service.ListEnrollments(s.GetContext(), &types.EnrollmentFilter{BillingCycle: "weekly"})
	s.True(ierr.IsUnsupportedBillingCycle(err))
}

// rejectingChargeRepo fails every insert
type rejectingChargeRepo struct {
	charge.Repository
}

func (rejectingChargeRepo) Create(context.Context, *charge.Charge) error {
	return ierr.NewError("insert rejected").Mark(ierr.ErrDatabase)
}

func (s *EnrollmentServiceSuite) TestCreateEnrollment_ChargeFailureLeavesNoEnrollment() {
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	params.DB = postgres.NewNoopClient()
	params.ChargeRepo = rejectingChargeRepo{Repository: params.ChargeRepo}
	svc := NewEnrollmentService(params)

	_, err := svc.CreateEnrollment(s.GetContext(), s.createRequest())
	s.True(ierr.Is(err, ierr.ErrDatabase), "unexpected error: %v", err)

	enrollments, err := s.GetStores().EnrollmentRepo.List(s.GetContext(), &types.EnrollmentFilter{StudentID: "student_1"})
	s.Require().NoError(err)
	s.Empty(enrollments)

	charges, err := s.GetStores().ChargeRepo.List(s.GetContext(), nil)
	s.Require().NoError(err)
	s.Empty(charges)
}
