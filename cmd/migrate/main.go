package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/postgres"
)

// schema is applied in order, every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS enrollments (
		id                 VARCHAR(50) PRIMARY KEY,
		student_id         VARCHAR(50) NOT NULL,
		course_id          VARCHAR(50) NOT NULL,
		enrollment_date    DATE NOT NULL,
		course_start_date  DATE,
		course_end_date    DATE,
		billing_cycle      VARCHAR(20) NOT NULL,
		course_fee         NUMERIC(20, 2) NOT NULL DEFAULT 0,
		total_fee          NUMERIC(20, 2) NOT NULL DEFAULT 0,
		status             VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by         VARCHAR(50),
		updated_by         VARCHAR(50)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_student ON enrollments (student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollments (course_id)`,
	`CREATE TABLE IF NOT EXISTS charges (
		id             VARCHAR(50) PRIMARY KEY,
		enrollment_id  VARCHAR(50) NOT NULL REFERENCES enrollments (id),
		charge_status  VARCHAR(20) NOT NULL,
		due_date       DATE NOT NULL,
		period_start   DATE NOT NULL,
		period_end     DATE NOT NULL,
		amount         NUMERIC(20, 2) NOT NULL,
		amount_paid    NUMERIC(20, 2) NOT NULL DEFAULT 0,
		paid_at        DATE,
		is_prorated    BOOLEAN NOT NULL DEFAULT FALSE,
		status         VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by     VARCHAR(50),
		updated_by     VARCHAR(50)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_charges_enrollment_due ON charges (enrollment_id, due_date)`,
	`CREATE TABLE IF NOT EXISTS page_states (
		id          VARCHAR(50) PRIMARY KEY,
		page        VARCHAR(100) NOT NULL,
		session_id  VARCHAR(100) NOT NULL,
		data        JSONB NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (page, session_id)
	)`,
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	if *dryRun {
		for _, stmt := range schema {
			fmt.Printf("%s;\n\n", stmt)
		}
		return
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	err = db.WithTx(ctx, func(ctx context.Context) error {
		for _, stmt := range schema {
			if _, err := db.GetQuerier(ctx).ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Fatalw("Failed to create schema resources", "error", err)
	}

	logger.Info("Migration completed successfully")
}
