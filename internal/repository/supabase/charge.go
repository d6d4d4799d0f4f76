package supabase

import (
	"context"
	"sort"

	supa "github.com/nedpals/supabase-go"
	"github.com/samber/lo"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

type chargeRepository struct {
	client *supa.Client
	logger *logger.Logger
}

func NewChargeRepository(client *supa.Client, logger *logger.Logger) charge.Repository {
	return &chargeRepository{client: client, logger: logger}
}

func (r *chargeRepository) Create(ctx context.Context, c *charge.Charge) error {
	r.logger.Debugw("creating charge",
		"charge_id", c.ID,
		"enrollment_id", c.EnrollmentID,
		"amount", c.Amount.String(),
	)

	var inserted []chargeRecord
	if err := r.client.DB.From(tableCharges).Insert(toChargeRecord(c)).Execute(&inserted); err != nil {
		return dbError(err, "Failed to create charge")
	}
	return nil
}

func (r *chargeRepository) Get(ctx context.Context, id string) (*charge.Charge, error) {
	var rows []chargeRecord
	if err := r.client.DB.From(tableCharges).Select("*").Eq("id", id).Execute(&rows); err != nil {
		return nil, dbError(err, "Failed to get charge")
	}
	if len(rows) == 0 {
		return nil, ierr.NewErrorf("charge %s not found", id).
			WithHintf("Charge %s was not found", id).
			WithReportableDetails(map[string]any{"charge_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return rows[0].toDomain()
}

func (r *chargeRepository) Update(ctx context.Context, c *charge.Charge) error {
	var updated []chargeRecord
	if err := r.client.DB.From(tableCharges).Update(toChargeRecord(c)).Eq("id", c.ID).Execute(&updated); err != nil {
		return dbError(err, "Failed to update charge")
	}
	if len(updated) == 0 {
		return ierr.NewErrorf("charge %s not found", c.ID).
			WithHintf("Charge %s was not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// List returns charges ordered by due date
func (r *chargeRepository) List(ctx context.Context, filter *types.ChargeFilter) ([]*charge.Charge, error) {
	var (
		rows []chargeRecord
		err  error
	)
	if filter != nil && filter.EnrollmentID != "" {
		err = r.client.DB.From(tableCharges).Select("*").Eq("enrollment_id", filter.EnrollmentID).Execute(&rows)
	} else {
		err = r.client.DB.From(tableCharges).Select("*").Execute(&rows)
	}
	if err != nil {
		return nil, dbError(err, "Failed to list charges")
	}

	if filter != nil && len(filter.Statuses) > 0 {
		rows = lo.Filter(rows, func(row chargeRecord, _ int) bool {
			return lo.Contains(filter.Statuses, row.ChargeStatus)
		})
	}

	charges := make([]*charge.Charge, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}

	sort.SliceStable(charges, func(i, j int) bool {
		if charges[i].DueDate.Equal(charges[j].DueDate) {
			return charges[i].ID < charges[j].ID
		}
		return charges[i].DueDate.Before(charges[j].DueDate)
	})
	return charges, nil
}
