package enrollment

import (
	"context"

	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// Repository defines the interface for enrollment persistence
type Repository interface {
	Create(ctx context.Context, e *Enrollment) error
	Get(ctx context.Context, id string) (*Enrollment, error)
	Update(ctx context.Context, e *Enrollment) error
	List(ctx context.Context, filter *types.EnrollmentFilter) ([]*Enrollment, error)
	Delete(ctx context.Context, id string) error
}
