package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence boundary for the test menu.
type Repository interface {
	UpsertGroup(ctx context.Context, g *TestGroup) error
	UpsertAnalyte(ctx context.Context, a *Analyte) error
	GetGroupByName(ctx context.Context, name string) (*TestGroup, error)
	ListGroups(ctx context.Context) ([]*TestGroup, error)
	ListAnalytes(ctx context.Context, groupID uuid.UUID) ([]*Analyte, error)
	ListAnalytesByGroupName(ctx context.Context, groupName string) ([]*Analyte, error)
}
