package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdtai09423/moe-ui-sub001/internal/api/dto"
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

type fakeBillingRun struct {
	mu    sync.Mutex
	calls []dto.BillingRunRequest
	err   error
}

func (f *fakeBillingRun) Run(ctx context.Context, req dto.BillingRunRequest) (*dto.BillingRunResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if types.GetUserID(ctx) == "" {
		return nil, ierr.NewError("missing user").Mark(ierr.ErrSystem)
	}
	return &dto.BillingRunResponse{RunDate: "2026-03-05", IsBillingDay: true, Created: 2}, nil
}

func newTestScheduler(mutate func(cfg *config.Configuration)) (*Scheduler, *fakeBillingRun) {
	cfg := config.GetDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	run := &fakeBillingRun{}
	return NewScheduler(cfg, run, logger.NewNopLogger()), run
}

func TestScheduler_Start(t *testing.T) {
	s, _ := newTestScheduler(nil)

	require.NoError(t, s.Start())
	entries := s.cron.Entries()
	require.Len(t, entries, 1)

	// the default schedule fires at 01:00 UTC on the 5th
	next := entries[0].Schedule.Next(time.Date(2026, time.February, 10, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.March, 5, 1, 0, 0, 0, time.UTC), next)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestScheduler_Disabled(t *testing.T) {
	s, _ := newTestScheduler(func(cfg *config.Configuration) {
		cfg.Scheduler.Enabled = false
	})

	require.NoError(t, s.Start())
	assert.Empty(t, s.cron.Entries())
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s, _ := newTestScheduler(func(cfg *config.Configuration) {
		cfg.Scheduler.BillingRunCron = "every fifth"
	})

	err := s.Start()
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestScheduler_RunBilling(t *testing.T) {
	s, run := newTestScheduler(nil)

	s.RunBilling()
	require.Len(t, run.calls, 1)
	assert.Nil(t, run.calls[0].RunDate)

	run.err = ierr.NewError("db down").Mark(ierr.ErrDatabase)
	assert.NotPanics(t, s.RunBilling)
	assert.Len(t, run.calls, 2)
}
