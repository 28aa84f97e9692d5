package patient

import (
	"context"

	"github.com/google/uuid"
)

// SearchFilter narrows a patient search.
type SearchFilter struct {
	MRN    string
	Name   string
	Phone  string
	Limit  int
	Offset int
}

// Repository is the persistence boundary for patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Search(ctx context.Context, f SearchFilter) ([]*Patient, int, error)
	NextMRNSequence(ctx context.Context) (int, error)
}
