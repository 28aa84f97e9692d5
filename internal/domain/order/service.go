package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openlims/lims/internal/sampleid"
	"github.com/openlims/lims/internal/workflow"
)

// PriceList is how the order intake prices its test groups. Implemented by
// the billing service.
type PriceList interface {
	Price(ctx context.Context, testGroup string) (float64, error)
}

// PatientDirectory answers whether a patient exists. Implemented by the
// patient service.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ValidationError reports a rejected intake field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CreateInput carries an order intake request.
type CreateInput struct {
	PatientID       uuid.UUID `json:"patient_id"`
	Tests           []string  `json:"tests"`
	Priority        string    `json:"priority"`
	ReferringDoctor string    `json:"referring_doctor"`
}

// Service implements order intake and the order state controller.
type Service struct {
	repo     Repository
	prices   PriceList
	patients PatientDirectory
	now      func() time.Time
}

func NewService(repo Repository, prices PriceList, patients PatientDirectory) *Service {
	return &Service{repo: repo, prices: prices, patients: patients, now: time.Now}
}

// Create registers a new order: validates the test list, prices it, stamps
// sample identity from today's sequence and persists with status
// "Order Created".
//
// The sequence read (count of today's orders) and the insert are not atomic;
// two concurrent intakes can allocate the same sequence. The collision lands
// on the sample_id unique index and comes back as
// workflow.ErrConcurrencyConflict, which callers retry.
func (s *Service) Create(ctx context.Context, in CreateInput, actor string) (*Order, error) {
	if in.PatientID == uuid.Nil {
		return nil, &ValidationError{Field: "patient_id", Message: "is required"}
	}
	if len(in.Tests) == 0 {
		return nil, &ValidationError{Field: "tests", Message: "at least one test is required"}
	}
	seen := make(map[string]bool, len(in.Tests))
	tests := make([]string, 0, len(in.Tests))
	for _, t := range in.Tests {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, &ValidationError{Field: "tests", Message: "test names must be non-empty"}
		}
		if seen[t] {
			return nil, &ValidationError{Field: "tests", Message: fmt.Sprintf("duplicate test %q", t)}
		}
		seen[t] = true
		tests = append(tests, t)
	}

	priority := workflow.Priority(in.Priority)
	if priority == "" {
		priority = workflow.PriorityNormal
	}
	if !workflow.ValidPriority(priority) {
		return nil, &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", in.Priority)}
	}

	ok, err := s.patients.Exists(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ValidationError{Field: "patient_id", Message: "patient not found"}
	}

	var total float64
	for _, t := range tests {
		price, err := s.prices.Price(ctx, t)
		if err != nil {
			return nil, &ValidationError{Field: "tests", Message: err.Error()}
		}
		total += price
	}

	now := s.now()
	count, err := s.repo.CountCreatedOn(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("count daily orders: %w", err)
	}
	identity := sampleid.Assign(now, count+1)

	o := &Order{
		ID:          uuid.New(),
		PatientID:   in.PatientID,
		SampleID:    identity.SampleID,
		ColorCode:   identity.ColorCode,
		ColorName:   identity.ColorName,
		Status:      workflow.OrderCreated,
		Priority:    priority,
		Tests:       tests,
		TotalAmount: total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if v := strings.TrimSpace(in.ReferringDoctor); v != "" {
		o.ReferringDoctor = &v
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	if err := s.repo.AddStatusChange(ctx, &StatusChange{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ToStatus:  string(workflow.OrderCreated),
		ChangedBy: actor,
		ChangedAt: now,
	}); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("order_id", o.ID.String()).
		Str("sample_id", o.SampleID).
		Str("priority", string(priority)).
		Int("tests", len(tests)).
		Msg("order created")
	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f SearchFilter) ([]*Order, int, error) {
	return s.repo.Search(ctx, f)
}

func (s *Service) StatusHistory(ctx context.Context, orderID uuid.UUID) ([]*StatusChange, error) {
	return s.repo.ListStatusChanges(ctx, orderID)
}

// RequestTransition applies a manual status change. The machine is forward
// biased: five guards protect the dangerous jumps (skipping collection,
// skipping approval, delivering the incomplete) and every other target is
// allowed as a correction escape hatch, logged with the actor.
//
// Requesting the order's current status is a no-op success.
func (s *Service) RequestTransition(ctx context.Context, orderID uuid.UUID, target workflow.OrderStatus, actor, reason string) (*Order, error) {
	if !workflow.ValidOrderStatus(target) {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", target)}
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}
	if o.Status == target {
		return o, nil
	}

	now := s.now()
	switch target {
	case workflow.SampleCollection:
		o.CollectedAt = &now
		collectedBy := actor
		o.CollectedBy = &collectedBy
	case workflow.InProgress:
		if o.CollectedAt == nil {
			return nil, &workflow.PreconditionError{Reason: "Sample must be collected before starting laboratory processing"}
		}
	case workflow.PendingApproval:
		if o.CollectedAt == nil {
			return nil, &workflow.PreconditionError{Reason: "Sample must be collected before results can await approval"}
		}
		if o.Status != workflow.InProgress {
			return nil, &workflow.PreconditionError{Reason: "Order must be in progress before moving to pending approval"}
		}
	case workflow.Completed:
		if o.CollectedAt == nil {
			return nil, &workflow.PreconditionError{Reason: "Sample must be collected before completing the order"}
		}
	case workflow.Delivered:
		if o.Status != workflow.Completed {
			return nil, &workflow.PreconditionError{Reason: "Order must be completed before delivery"}
		}
	default:
		// Correction escape hatch: a backwards jump is permitted but audited.
		log.Ctx(ctx).Warn().
			Str("order_id", o.ID.String()).
			Str("from", string(o.Status)).
			Str("to", string(target)).
			Str("actor", actor).
			Msg("unguarded status transition")
	}

	return s.applyStatus(ctx, o, target, actor, reason, now)
}

// ApplyReconciled persists an automatic advance computed by the reconciler.
// The audit trail records the reconciler as the actor.
func (s *Service) ApplyReconciled(ctx context.Context, o *Order, target workflow.OrderStatus) (*Order, error) {
	return s.applyStatus(ctx, o, target, "system:reconciler", "all results progressed", s.now())
}

func (s *Service) applyStatus(ctx context.Context, o *Order, target workflow.OrderStatus, actor, reason string, now time.Time) (*Order, error) {
	from := o.Status
	o.Status = target
	changedBy := actor
	o.StatusChangedBy = &changedBy
	o.StatusChangedAt = &now
	o.UpdatedAt = now

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	h := &StatusChange{
		ID:         uuid.New(),
		OrderID:    o.ID,
		FromStatus: string(from),
		ToStatus:   string(target),
		ChangedBy:  actor,
		ChangedAt:  now,
	}
	if reason != "" {
		h.Reason = &reason
	}
	if err := s.repo.AddStatusChange(ctx, h); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("order_id", o.ID.String()).
		Str("from", string(from)).
		Str("to", string(target)).
		Str("actor", actor).
		Msg("order status changed")
	return o, nil
}
