package patient

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
	seq      int
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient), seq: 999}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	return m.patients[id], nil
}

func (m *mockRepo) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	for _, p := range m.patients {
		if p.MRN == mrn {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return errors.New("not found")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Search(_ context.Context, f SearchFilter) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		if f.MRN != "" && p.MRN != f.MRN {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(p.FirstName+" "+p.LastName), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockRepo) NextMRNSequence(_ context.Context) (int, error) {
	m.seq++
	return m.seq, nil
}

func TestRegister_GeneratesMRN(t *testing.T) {
	svc := NewService(newMockRepo())
	p, err := svc.Register(context.Background(), CreateInput{FirstName: "Asha", LastName: "Rao", Sex: "F"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.MRN != "MRN-001000" {
		t.Errorf("expected generated MRN-001000, got %q", p.MRN)
	}
	if p.Sex == nil || *p.Sex != "F" {
		t.Errorf("expected sex F, got %v", p.Sex)
	}
}

func TestRegister_RejectsDuplicateMRN(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Register(context.Background(), CreateInput{MRN: "MRN-42", FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), CreateInput{MRN: "MRN-42", FirstName: "C", LastName: "D"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "mrn" {
		t.Fatalf("expected mrn validation error, got %v", err)
	}
}

func TestRegister_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Register(context.Background(), CreateInput{LastName: "Rao"}); err == nil {
		t.Error("expected error for missing first name")
	}
	if _, err := svc.Register(context.Background(), CreateInput{FirstName: "Asha"}); err == nil {
		t.Error("expected error for missing last name")
	}
}

func TestRegister_NormalizesSex(t *testing.T) {
	svc := NewService(newMockRepo())
	p, err := svc.Register(context.Background(), CreateInput{FirstName: "A", LastName: "B", Sex: "male"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.Sex == nil || *p.Sex != "M" {
		t.Errorf("expected M, got %v", p.Sex)
	}
	if _, err := svc.Register(context.Background(), CreateInput{FirstName: "A", LastName: "B", Sex: "x"}); err == nil {
		t.Error("expected error for invalid sex")
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc := NewService(newMockRepo())
	p, err := svc.Register(context.Background(), CreateInput{FirstName: "Asha", LastName: "Rao", Phone: "555-0101"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	phone := "555-0202"
	got, err := svc.Update(context.Background(), p.ID, UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Phone == nil || *got.Phone != "555-0202" {
		t.Errorf("expected phone updated, got %v", got.Phone)
	}
	if got.FirstName != "Asha" {
		t.Errorf("expected first name unchanged, got %q", got.FirstName)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	got, err := svc.Update(context.Background(), uuid.New(), UpdateInput{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown patient")
	}
}

func TestSexOf_DefaultsEmpty(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p, err := svc.Register(context.Background(), CreateInput{FirstName: "A", LastName: "B"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	sex, err := svc.SexOf(context.Background(), p.ID)
	if err != nil || sex != "" {
		t.Errorf("expected empty sex for unrecorded, got %q err %v", sex, err)
	}
	sex, err = svc.SexOf(context.Background(), uuid.New())
	if err != nil || sex != "" {
		t.Errorf("expected empty sex for unknown patient, got %q err %v", sex, err)
	}
}
