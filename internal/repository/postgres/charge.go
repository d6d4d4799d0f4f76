package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/postgres"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

const chargeColumns = `id, enrollment_id, charge_status, due_date, period_start, period_end,
	amount, amount_paid, paid_at, is_prorated, status, created_at, updated_at, created_by, updated_by`

type chargeRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewChargeRepository(db *postgres.DB, logger *logger.Logger) charge.Repository {
	return &chargeRepository{db: db, logger: logger}
}

func (r *chargeRepository) Create(ctx context.Context, c *charge.Charge) (err error) {
	span := StartRepositorySpan(ctx, "charge", "create", map[string]interface{}{
		"charge_id":     c.ID,
		"enrollment_id": c.EnrollmentID,
	})
	defer func() { FinishSpan(span, err) }()

	r.logger.Debugw("creating charge",
		"charge_id", c.ID,
		"enrollment_id", c.EnrollmentID,
		"amount", c.Amount.String(),
		"due_date", types.FormatDate(c.DueDate),
	)

	query := `
		INSERT INTO charges (` + chargeColumns + `)
		VALUES (
			:id, :enrollment_id, :charge_status, :due_date, :period_start, :period_end,
			:amount, :amount_paid, :paid_at, :is_prorated, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err = r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ierr.WithError(err).
				WithHint("A charge already exists for this billing period").
				WithReportableDetails(map[string]any{
					"enrollment_id": c.EnrollmentID,
					"period_start":  types.FormatDate(c.PeriodStart),
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create charge").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *chargeRepository) Get(ctx context.Context, id string) (_ *charge.Charge, err error) {
	span := StartRepositorySpan(ctx, "charge", "get", map[string]interface{}{
		"charge_id": id,
	})
	defer func() { FinishSpan(span, err) }()

	var c charge.Charge
	query := `SELECT ` + chargeColumns + ` FROM charges WHERE id = $1`
	if err = r.db.GetQuerier(ctx).GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Charge %s was not found", id).
				WithReportableDetails(map[string]any{"charge_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get charge").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *chargeRepository) Update(ctx context.Context, c *charge.Charge) (err error) {
	span := StartRepositorySpan(ctx, "charge", "update", map[string]interface{}{
		"charge_id": c.ID,
	})
	defer func() { FinishSpan(span, err) }()

	query := `
		UPDATE charges SET
			charge_status = :charge_status,
			amount_paid = :amount_paid,
			paid_at = :paid_at,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update charge").
			Mark(ierr.ErrDatabase)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ierr.NewErrorf("charge %s not found", c.ID).
			WithHintf("Charge %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *chargeRepository) List(ctx context.Context, filter *types.ChargeFilter) (_ []*charge.Charge, err error) {
	span := StartRepositorySpan(ctx, "charge", "list", nil)
	defer func() { FinishSpan(span, err) }()

	query := `SELECT ` + chargeColumns + ` FROM charges WHERE 1 = 1`
	var args []interface{}
	if filter != nil && filter.EnrollmentID != "" {
		args = append(args, filter.EnrollmentID)
		query += " AND enrollment_id = $" + strconv.Itoa(len(args))
	}
	if filter != nil && len(filter.Statuses) > 0 {
		args = append(args, pq.Array(lo.Map(filter.Statuses, func(s types.ChargeStatus, _ int) string {
			return string(s)
		})))
		query += " AND charge_status = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	query += " ORDER BY due_date, id"

	charges := make([]*charge.Charge, 0)
	if err = r.db.GetQuerier(ctx).SelectContext(ctx, &charges, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list charges").
			Mark(ierr.ErrDatabase)
	}
	return charges, nil
}
