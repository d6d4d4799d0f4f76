package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/service"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
	"go.uber.org/fx"
)

// billingRunTimeout bounds a single scheduled run
const billingRunTimeout = 30 * time.Minute

// Scheduler triggers the billing run on the configured cron schedule. Every
// schedule is evaluated in UTC.
type Scheduler struct {
	cron       *cron.Cron
	billingRun service.BillingRunService
	cfg        *config.Configuration
	logger     *logger.Logger
}

func NewScheduler(cfg *config.Configuration, billingRun service.BillingRunService, log *logger.Logger) *Scheduler {
	cronLog := cronLogger{log}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	return &Scheduler{
		cron:       c,
		billingRun: billingRun,
		cfg:        cfg,
		logger:     log,
	}
}

// Start registers the billing run job and starts the cron scheduler. It is a
// no-op when the scheduler is disabled.
func (s *Scheduler) Start() error {
	if !s.cfg.Scheduler.Enabled {
		s.logger.Infow("scheduler disabled, billing runs must be triggered through the cron endpoint")
		return nil
	}

	schedule := s.cfg.Scheduler.BillingRunCron
	if _, err := s.cron.AddFunc(schedule, s.RunBilling); err != nil {
		return ierr.WithError(err).
			WithHintf("Invalid billing run schedule %q", schedule).
			Mark(ierr.ErrValidation)
	}

	s.logger.Infow("scheduled billing run", "schedule", schedule)
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunBilling runs billing for today
func (s *Scheduler) RunBilling() {
	ctx, cancel := context.WithTimeout(context.Background(), billingRunTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())

	resp, err := s.billingRun.Run(ctx, dto.BillingRunRequest{})
	if err != nil {
		s.logger.Errorw("scheduled billing run failed", "error", err)
		return
	}

	s.logger.Infow("scheduled billing run finished",
		"run_date", resp.RunDate,
		"is_billing_day", resp.IsBillingDay,
		"created", resp.Created,
		"failed", resp.Failed,
	)
}

// RegisterHooks ties the scheduler to the fx lifecycle
func RegisterHooks(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			s.logger.Info("stopping scheduler...")
			return s.Stop(ctx)
		},
	})
}

// cronLogger routes cron's own logging through zap
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
