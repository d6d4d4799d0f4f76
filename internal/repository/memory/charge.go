package memory

import (
	"context"

	"github.com/samber/lo"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/charge"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// ChargeStore implements charge.Repository
type ChargeStore struct {
	*InMemoryStore[*charge.Charge]
}

func NewChargeStore() *ChargeStore {
	return &ChargeStore{
		InMemoryStore: NewInMemoryStore[*charge.Charge](),
	}
}

func (s *ChargeStore) Create(ctx context.Context, c *charge.Charge) error {
	if c == nil || c.ID == "" {
		return ierr.NewError("charge ID cannot be empty").
			WithHint("Charge ID cannot be empty").
			Mark(ierr.ErrValidation)
	}
	copied := *c
	return s.InMemoryStore.Create(ctx, c.ID, &copied)
}

func (s *ChargeStore) Get(ctx context.Context, id string) (*charge.Charge, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	copied := *c
	return &copied, nil
}

func (s *ChargeStore) Update(ctx context.Context, c *charge.Charge) error {
	copied := *c
	return s.InMemoryStore.Update(ctx, c.ID, &copied)
}

// List returns charges ordered by due date
func (s *ChargeStore) List(ctx context.Context, filter *types.ChargeFilter) ([]*charge.Charge, error) {
	items := s.InMemoryStore.List(ctx, func(_ context.Context, c *charge.Charge) bool {
		if filter == nil {
			return true
		}
		if filter.EnrollmentID != "" && c.EnrollmentID != filter.EnrollmentID {
			return false
		}
		if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, c.ChargeStatus) {
			return false
		}
		return true
	}, func(a, b *charge.Charge) bool {
		if a.DueDate.Equal(b.DueDate) {
			return a.ID < b.ID
		}
		return a.DueDate.Before(b.DueDate)
	})

	return lo.Map(items, func(c *charge.Charge, _ int) *charge.Charge {
		copied := *c
		return &copied
	}), nil
}
