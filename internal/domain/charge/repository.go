package charge

import (
	"context"

	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

// Repository defines the interface for charge persistence
type Repository interface {
	Create(ctx context.Context, c *Charge) error
	Get(ctx context.Context, id string) (*Charge, error)
	Update(ctx context.Context, c *Charge) error
	List(ctx context.Context, filter *types.ChargeFilter) ([]*Charge, error)
}
