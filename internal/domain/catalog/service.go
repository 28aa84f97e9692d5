package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service answers test-menu queries and owns seeding.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureSeeded installs the default menu. Safe to run on every boot: groups
// and analytes already present are left untouched.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	for _, sg := range defaultMenu {
		g := &TestGroup{ID: uuid.New(), Name: sg.name, Price: sg.price}
		if err := s.repo.UpsertGroup(ctx, g); err != nil {
			return err
		}
		stored, err := s.repo.GetGroupByName(ctx, sg.name)
		if err != nil {
			return err
		}
		if stored == nil {
			return fmt.Errorf("seed: test group %q missing after upsert", sg.name)
		}
		for i, sa := range sg.analytes {
			a := &Analyte{
				ID:             uuid.New(),
				TestGroupID:    stored.ID,
				Name:           sa.name,
				Unit:           sa.unit,
				ReferenceRange: sa.refRange,
				SortOrder:      i,
			}
			if err := s.repo.UpsertAnalyte(ctx, a); err != nil {
				return err
			}
		}
	}
	log.Ctx(ctx).Info().Int("groups", len(defaultMenu)).Msg("test menu seeded")
	return nil
}

func (s *Service) ListGroups(ctx context.Context) ([]*TestGroup, error) {
	return s.repo.ListGroups(ctx)
}

func (s *Service) GroupByName(ctx context.Context, name string) (*TestGroup, error) {
	return s.repo.GetGroupByName(ctx, name)
}

func (s *Service) AnalytesForGroup(ctx context.Context, groupName string) ([]*Analyte, error) {
	return s.repo.ListAnalytesByGroupName(ctx, groupName)
}

// AddAnalyte registers a new analyte under an existing group.
func (s *Service) AddAnalyte(ctx context.Context, groupName string, a Analyte) (*Analyte, error) {
	if strings.TrimSpace(a.Name) == "" {
		return nil, fmt.Errorf("analyte name is required")
	}
	g, err := s.repo.GetGroupByName(ctx, groupName)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}
	a.ID = uuid.New()
	a.TestGroupID = g.ID
	if err := s.repo.UpsertAnalyte(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReferenceRangeFor looks up the stored range text for an analyte within a
// group. Missing entries come back empty, which the flag engine treats as
// unclassifiable.
func (s *Service) ReferenceRangeFor(ctx context.Context, groupName, analyteName string) (string, error) {
	analytes, err := s.repo.ListAnalytesByGroupName(ctx, groupName)
	if err != nil {
		return "", err
	}
	for _, a := range analytes {
		if strings.EqualFold(a.Name, analyteName) {
			return a.ReferenceRange, nil
		}
	}
	return "", nil
}
