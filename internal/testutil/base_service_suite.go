package testutil

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tdtai09423/moe-ui-sub001/internal/cache"
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/repository"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
	"github.com/tdtai09423/moe-ui-sub001/internal/validator"
)

// DefaultNow is the instant the suite clock starts at
var DefaultNow = time.Date(2026, time.February, 10, 9, 30, 0, 0, time.UTC)

// Stores holds all the repository interfaces for testing
type Stores struct {
	EnrollmentRepo enrollment.Repository
	ChargeRepo     charge.Repository
	PageStateRepo  pagestate.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	repos  *repository.Repositories
	db     *MockPostgresClient
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	clock  *MockClock
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.cache = cache.NewInMemoryCache(s.config)
	s.db = NewMockPostgresClient(s.logger)
	s.clock = NewMockClock(DefaultNow)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.repos = repository.NewMemoryRepositories()
	s.stores = Stores{
		EnrollmentRepo: s.repos.Enrollment,
		ChargeRepo:     s.repos.Charge,
		PageStateRepo:  s.repos.PageState,
	}
}

// ClearStores drops every stored record and cached value
func (s *BaseServiceTestSuite) ClearStores() {
	s.setupStores()
	if s.cache != nil {
		s.cache.Flush(s.ctx)
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the configuration services are built with. Tests may change
// it before building their services.
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetRepositories returns the repositories bundled the way production wires them
func (s *BaseServiceTestSuite) GetRepositories() *repository.Repositories {
	repos := *s.repos
	repos.DB = s.db
	return &repos
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetClock returns the suite clock, services built from it follow SetNow
func (s *BaseServiceTestSuite) GetClock() *MockClock {
	return s.clock
}

// GetNow returns the current suite time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.clock.Now()
}

// SetNow moves the suite clock
func (s *BaseServiceTestSuite) SetNow(t time.Time) {
	s.clock.Set(t)
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

// Date is a UTC calendar date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestEnrollment stores an enrollment directly, bypassing the service
func (s *BaseServiceTestSuite) CreateTestEnrollment(cycle types.BillingCycle, enrollmentDate time.Time, courseStartDate, courseEndDate *time.Time, fee decimal.Decimal) *enrollment.Enrollment {
	e := &enrollment.Enrollment{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ENROLLMENT),
		StudentID:       "student_" + types.GenerateUUID(),
		CourseID:        "course_" + types.GenerateUUID(),
		EnrollmentDate:  enrollmentDate,
		CourseStartDate: courseStartDate,
		CourseEndDate:   courseEndDate,
		BillingCycle:    cycle,
		CourseFee:       fee,
		BaseModel:       types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.EnrollmentRepo.Create(s.ctx, e))
	return e
}

// CreateTestCharge stores a charge directly, bypassing the service
func (s *BaseServiceTestSuite) CreateTestCharge(enrollmentID string, status types.ChargeStatus, dueDate time.Time, amount decimal.Decimal) *charge.Charge {
	c := &charge.Charge{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CHARGE),
		EnrollmentID: enrollmentID,
		ChargeStatus: status,
		DueDate:      dueDate,
		PeriodStart:  time.Date(dueDate.Year(), dueDate.Month(), 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    types.LastDayOfMonth(dueDate.Year(), dueDate.Month(), time.UTC),
		Amount:       amount,
		AmountPaid:   decimal.Zero,
		BaseModel:    types.GetDefaultBaseModel(s.ctx),
	}
	if status == types.ChargeStatusClear {
		c.AmountPaid = amount
		paidAt := dueDate
		c.PaidAt = &paidAt
	}
	s.Require().NoError(s.stores.ChargeRepo.Create(s.ctx, c))
	return c
}
