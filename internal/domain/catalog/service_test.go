package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	groups   map[string]*TestGroup
	analytes map[uuid.UUID][]*Analyte
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		groups:   make(map[string]*TestGroup),
		analytes: make(map[uuid.UUID][]*Analyte),
	}
}

func (m *mockRepo) UpsertGroup(_ context.Context, g *TestGroup) error {
	if _, ok := m.groups[g.Name]; ok {
		return nil
	}
	m.groups[g.Name] = g
	return nil
}

func (m *mockRepo) UpsertAnalyte(_ context.Context, a *Analyte) error {
	for _, existing := range m.analytes[a.TestGroupID] {
		if existing.Name == a.Name {
			return nil
		}
	}
	m.analytes[a.TestGroupID] = append(m.analytes[a.TestGroupID], a)
	return nil
}

func (m *mockRepo) GetGroupByName(_ context.Context, name string) (*TestGroup, error) {
	return m.groups[name], nil
}

func (m *mockRepo) ListGroups(_ context.Context) ([]*TestGroup, error) {
	var out []*TestGroup
	for _, g := range m.groups {
		out = append(out, g)
	}
	return out, nil
}

func (m *mockRepo) ListAnalytes(_ context.Context, groupID uuid.UUID) ([]*Analyte, error) {
	return m.analytes[groupID], nil
}

func (m *mockRepo) ListAnalytesByGroupName(_ context.Context, name string) ([]*Analyte, error) {
	g := m.groups[name]
	if g == nil {
		return nil, nil
	}
	return m.analytes[g.ID], nil
}

func TestEnsureSeeded_InstallsMenu(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	if err := svc.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.groups) != len(defaultMenu) {
		t.Errorf("expected %d groups, got %d", len(defaultMenu), len(repo.groups))
	}
	analytes, err := svc.AnalytesForGroup(context.Background(), "Complete Blood Count")
	if err != nil {
		t.Fatalf("list analytes: %v", err)
	}
	if len(analytes) != 6 {
		t.Errorf("expected 6 CBC analytes, got %d", len(analytes))
	}
}

func TestEnsureSeeded_Idempotent(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	if err := svc.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	firstID := repo.groups["Lipid Profile"].ID
	if err := svc.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if repo.groups["Lipid Profile"].ID != firstID {
		t.Error("reseed replaced an existing group")
	}
	analytes, _ := svc.AnalytesForGroup(context.Background(), "Lipid Profile")
	if len(analytes) != 4 {
		t.Errorf("expected 4 analytes after reseed, got %d", len(analytes))
	}
}

func TestReferenceRangeFor(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rr, err := svc.ReferenceRangeFor(context.Background(), "Lipid Profile", "HDL Cholesterol")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rr != "M: >40, F: >50" {
		t.Errorf("unexpected range %q", rr)
	}
	rr, err = svc.ReferenceRangeFor(context.Background(), "Lipid Profile", "Nonexistent")
	if err != nil || rr != "" {
		t.Errorf("expected empty range for unknown analyte, got %q err %v", rr, err)
	}
}

func TestAddAnalyte(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.EnsureSeeded(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	a, err := svc.AddAnalyte(context.Background(), "Thyroid Profile", Analyte{Name: "Free T4", Unit: "ng/dL", ReferenceRange: "0.8-1.8"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a == nil || a.TestGroupID == uuid.Nil {
		t.Fatal("expected analyte bound to group")
	}
	if got, _ := svc.AddAnalyte(context.Background(), "No Such Group", Analyte{Name: "X"}); got != nil {
		t.Error("expected nil for unknown group")
	}
	if _, err := svc.AddAnalyte(context.Background(), "Thyroid Profile", Analyte{}); err == nil {
		t.Error("expected error for empty name")
	}
}
