package memory

import (
	"context"

	"github.com/samber/lo"
	"github.com/tdtai09423/moe-ui-sub001/internal/domain/enrollment"
	ierr "github.com/tdtai09423/moe-ui-sub001/internal/errors"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// EnrollmentStore implements enrollment.Repository
type EnrollmentStore struct {
	*InMemoryStore[*enrollment.Enrollment]
}

func NewEnrollmentStore() *EnrollmentStore {
	return &EnrollmentStore{
		InMemoryStore: NewInMemoryStore[*enrollment.Enrollment](),
	}
}

func (s *EnrollmentStore) Create(ctx context.Context, e *enrollment.Enrollment) error {
	if e == nil || e.ID == "" {
		return ierr.NewError("enrollment ID cannot be empty").
			WithHint("Enrollment ID cannot be empty").
			Mark(ierr.ErrValidation)
	}
	copied := *e
	return s.InMemoryStore.Create(ctx, e.ID, &copied)
}

func (s *EnrollmentStore) Get(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	e, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	copied := *e
	return &copied, nil
}

func (s *EnrollmentStore) Update(ctx context.Context, e *enrollment.Enrollment) error {
	copied := *e
	return s.InMemoryStore.Update(ctx, e.ID, &copied)
}

func (s *EnrollmentStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func (s *EnrollmentStore) List(ctx context.Context, filter *types.EnrollmentFilter) ([]*enrollment.Enrollment, error) {
	items := s.InMemoryStore.List(ctx, func(_ context.Context, e *enrollment.Enrollment) bool {
		return e.Matches(filter)
	}, func(a, b *enrollment.Enrollment) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	if filter != nil && filter.QueryFilter != nil {
		items = paginate(items, filter.GetOffset(), filter.GetLimit())
	}

	return lo.Map(items, func(e *enrollment.Enrollment, _ int) *enrollment.Enrollment {
		copied := *e
		return &copied
	}), nil
}
