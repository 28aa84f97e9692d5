package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CreateInput carries a registration request.
type CreateInput struct {
	MRN       string     `json:"mrn"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Sex       string     `json:"sex"`
	BirthDate *time.Time `json:"birth_date"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
}

// UpdateInput carries a demographics update. Nil fields are left unchanged.
type UpdateInput struct {
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Sex       *string    `json:"sex"`
	BirthDate *time.Time `json:"birth_date"`
	Phone     *string    `json:"phone"`
	Email     *string    `json:"email"`
	Address   *string    `json:"address"`
}

// ValidationError reports a rejected registration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Service implements patient registration and lookup.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func normalizeSex(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "M", "MALE":
		return "M", nil
	case "F", "FEMALE":
		return "F", nil
	}
	return "", &ValidationError{Field: "sex", Message: "must be M or F"}
}

// Register creates a patient. When no MRN is supplied one is generated from
// the registry sequence.
func (s *Service) Register(ctx context.Context, in CreateInput) (*Patient, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, &ValidationError{Field: "first_name", Message: "is required"}
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, &ValidationError{Field: "last_name", Message: "is required"}
	}
	sex, err := normalizeSex(in.Sex)
	if err != nil {
		return nil, err
	}

	mrn := strings.TrimSpace(in.MRN)
	if mrn == "" {
		seq, err := s.repo.NextMRNSequence(ctx)
		if err != nil {
			return nil, fmt.Errorf("allocate mrn: %w", err)
		}
		mrn = fmt.Sprintf("MRN-%06d", seq)
	} else if existing, err := s.repo.GetByMRN(ctx, mrn); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &ValidationError{Field: "mrn", Message: "already registered"}
	}

	p := &Patient{
		ID:        uuid.New(),
		MRN:       mrn,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		BirthDate: in.BirthDate,
	}
	if sex != "" {
		p.Sex = &sex
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		p.Phone = &v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		p.Email = &v
	}
	if v := strings.TrimSpace(in.Address); v != "" {
		p.Address = &v
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("patient_id", p.ID.String()).Str("mrn", p.MRN).Msg("patient registered")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.repo.GetByMRN(ctx, mrn)
}

// Update applies a partial demographics update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return nil, &ValidationError{Field: "first_name", Message: "is required"}
		}
		p.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		if strings.TrimSpace(*in.LastName) == "" {
			return nil, &ValidationError{Field: "last_name", Message: "is required"}
		}
		p.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Sex != nil {
		sex, err := normalizeSex(*in.Sex)
		if err != nil {
			return nil, err
		}
		if sex == "" {
			p.Sex = nil
		} else {
			p.Sex = &sex
		}
	}
	if in.BirthDate != nil {
		p.BirthDate = in.BirthDate
	}
	if in.Phone != nil {
		p.Phone = in.Phone
	}
	if in.Email != nil {
		p.Email = in.Email
	}
	if in.Address != nil {
		p.Address = in.Address
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Search(ctx context.Context, f SearchFilter) ([]*Patient, int, error) {
	return s.repo.Search(ctx, f)
}

// Exists reports whether a patient is registered.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// SexOf returns the recorded sex for flag classification. Unknown patients
// and unrecorded sex both come back empty, which downgrades sex-specific
// reference ranges to their default segment.
func (s *Service) SexOf(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if p == nil || p.Sex == nil {
		return "", nil
	}
	return *p.Sex, nil
}
