package service

import (
	"time"

	"github.com/tdtai09423/moe-ui-sub001/internal/cache"
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/postgres"
	"github.com/tdtai09423/moe-ui-sub001/internal/repository"
	"github.com/tdtai09423/moe-ui-sub001/internal/sentry"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache
	Sentry *sentry.Service
	// Clock supplies today; services read it once per call
	Clock types.Clock

	// Repositories
	EnrollmentRepo enrollment.Repository
	ChargeRepo     charge.Repository
	PageStateRepo  pagestate.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	repos *repository.Repositories,
	cache cache.Cache,
	sentryService *sentry.Service,
	clock types.Clock,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             repos.DB,
		Cache:          cache,
		Sentry:         sentryService,
		Clock:          clock,
		EnrollmentRepo: repos.Enrollment,
		ChargeRepo:     repos.Charge,
		PageStateRepo:  repos.PageState,
	}
}

// today is the calendar date of the injected clock at midnight UTC, the same
// representation ParseDate produces
func (p ServiceParams) today() time.Time {
	return types.CalendarDate(p.Clock.Now())
}
