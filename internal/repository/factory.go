package repository

import (
	"github.com/tdtai09423/moe-ui-sub001/internal/cache"
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/pagestate"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/postgres"
	"github.com/tdtai09423/moe-ui-sub001/internal/repository/memory"
	postgresRepo "github.com/tdtai09423/moe-ui-sub001/internal/repository/postgres"
	supabaseRepo "github.com/tdtai09423/moe-ui-sub001/internal/repository/supabase"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// Repositories is the storage backend selected by storage.provider
type Repositories struct {
	Enrollment enrollment.Repository
	Charge     charge.Repository
	PageState  pagestate.Repository
	// DB runs multi-repository writes atomically where the backend supports it
	DB postgres.IClient

	closeFn func()
}

// NewRepositories wires the repositories of the configured provider
func NewRepositories(cfg *config.Configuration, log *logger.Logger, c cache.Cache) (*Repositories, error) {
	log.Infow("initializing storage", "provider", cfg.Storage.Provider)

	switch cfg.Storage.Provider {
	case types.StorageProviderMemory:
		return NewMemoryRepositories(), nil

	case types.StorageProviderPostgres:
		db, err := postgres.NewDB(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Enrollment: postgresRepo.NewEnrollmentRepository(db, log, c),
			Charge:     postgresRepo.NewChargeRepository(db, log),
			PageState:  postgresRepo.NewPageStateRepository(db, log),
			DB:         db,
			closeFn:    db.Close,
		}, nil

	case types.StorageProviderSupabase:
		client, err := supabaseRepo.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Enrollment: supabaseRepo.NewEnrollmentRepository(client, log),
			Charge:     supabaseRepo.NewChargeRepository(client, log),
			PageState:  supabaseRepo.NewPageStateRepository(client, log),
			DB:         postgres.NewNoopClient(),
		}, nil
	}

	return nil, ierr.NewErrorf("unknown storage provider %q", cfg.Storage.Provider).
		WithHint("storage.provider must be memory, supabase or postgres").
		Mark(ierr.ErrValidation)
}

// NewMemoryRepositories keeps everything in process, used for local runs and tests
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Enrollment: memory.NewEnrollmentStore(),
		Charge:     memory.NewChargeStore(),
		PageState:  memory.NewPageStateStore(),
		DB:         postgres.NewNoopClient(),
	}
}

// Close releases the backend connection, if any
func (r *Repositories) Close() {
	if r.closeFn != nil {
		r.closeFn()
	}
}
