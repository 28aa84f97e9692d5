package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openlims/lims/internal/workflow"
)

// SearchFilter narrows an order search.
type SearchFilter struct {
	PatientID uuid.UUID
	Status    workflow.OrderStatus
	Priority  workflow.Priority
	SampleID  string
	Limit     int
	Offset    int
}

// Repository is the persistence boundary for orders. Create surfaces
// workflow.ErrConcurrencyConflict when the allocated sample ID was taken by
// a concurrent writer.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Update(ctx context.Context, o *Order) error
	Search(ctx context.Context, f SearchFilter) ([]*Order, int, error)
	CountCreatedOn(ctx context.Context, day time.Time) (int, error)
	AddStatusChange(ctx context.Context, h *StatusChange) error
	ListStatusChanges(ctx context.Context, orderID uuid.UUID) ([]*StatusChange, error)
}
