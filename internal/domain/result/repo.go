package result

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for results.
type Repository interface {
	Upsert(ctx context.Context, r *Result) error
	GetByID(ctx context.Context, id uuid.UUID) (*Result, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Result, error)
	Update(ctx context.Context, r *Result) error
	ListAbnormal(ctx context.Context, limit, offset int) ([]*Result, int, error)
}
