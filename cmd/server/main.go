package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tdtai09423/moe-ui-sub001/internal/api"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/cron"
	v1 "github.com/tdtai09423/moe-ui-sub001/internal/api/v1"
	"github.com/tdtai09423/moe-ui-sub001/internal/cache"
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/repository"
	"github.com/tdtai09423/moe-ui-sub001/internal/scheduler"
	"github.com/tdtai09423/moe-ui-sub001/internal/sentry"
	"github.com/tdtai09423/moe-ui-sub001/internal/service"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
	"github.com/tdtai09423/moe-ui-sub001/internal/validator"
	"go.uber.org/fx"
)

// @title Tuition Billing API
// @version 1.0
// @description Billing periods, pro-rated charges and payment status of course enrollments
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Storage
			provideRepositories,

			// Clock
			types.NewSystemClock,
		),
		sentry.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewEnrollmentService,
			service.NewChargeService,
			service.NewBillingService,
			service.NewBillingRunService,
			service.NewPageStateService,
		),
	)

	// API and scheduler
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
			scheduler.NewScheduler,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideRepositories(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger, c cache.Cache) (*repository.Repositories, error) {
	repos, err := repository.NewRepositories(cfg, log, c)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			repos.Close()
			return nil
		},
	})
	return repos, nil
}

func provideHandlers(
	logger *logger.Logger,
	enrollmentService service.EnrollmentService,
	chargeService service.ChargeService,
	billingService service.BillingService,
	billingRunService service.BillingRunService,
	pageStateService service.PageStateService,
) api.Handlers {
	return api.Handlers{
		Health:     v1.NewHealthHandler(logger),
		Billing:    v1.NewBillingHandler(billingService, logger),
		Enrollment: v1.NewEnrollmentHandler(enrollmentService, billingService, chargeService, logger),
		Charge:     v1.NewChargeHandler(chargeService, logger),
		PageState:  v1.NewPageStateHandler(pageStateService, logger),
		BillingRun: cron.NewBillingRunHandler(billingRunService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	s *scheduler.Scheduler,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		scheduler.RegisterHooks(lc, s)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeScheduler:
		scheduler.RegisterHooks(lc, s)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
