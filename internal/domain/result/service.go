package result

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/openlims/lims/internal/domain/order"
	"github.com/openlims/lims/internal/labflag"
	"github.com/openlims/lims/internal/platform/reporting"
	"github.com/openlims/lims/internal/workflow"
)

// OrderWorkflow is the slice of the order service the result workflow needs:
// reading the owning order and persisting a reconciled advance.
type OrderWorkflow interface {
	Get(ctx context.Context, id uuid.UUID) (*order.Order, error)
	ApplyReconciled(ctx context.Context, o *order.Order, target workflow.OrderStatus) (*order.Order, error)
}

// SexLookup answers the recorded sex for a patient, feeding sex-segmented
// reference ranges. Implemented by the patient service.
type SexLookup interface {
	SexOf(ctx context.Context, id uuid.UUID) (string, error)
}

// RangeSource answers the catalog reference range for an analyte within a
// test group. Implemented by the catalog service.
type RangeSource interface {
	ReferenceRangeFor(ctx context.Context, groupName, analyteName string) (string, error)
}

// TxRunner runs fn atomically. Production wires db.InTx; tests pass through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// ValidationError reports a rejected submission field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValueInput is one entered measurement.
type ValueInput struct {
	Analyte        string `json:"analyte"`
	Value          string `json:"value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"reference_range"`
}

// SubmitInput carries a result entry for one test of an order.
type SubmitInput struct {
	TestName string       `json:"test_name"`
	Values   []ValueInput `json:"values"`
}

// Service implements the result state controller and the reconciliation
// orchestration that follows every result mutation.
type Service struct {
	repo     Repository
	orders   OrderWorkflow
	sexes    SexLookup
	ranges   RangeSource
	reporter reporting.Reporter
	inTx     TxRunner
	now      func() time.Time
}

func NewService(repo Repository, orders OrderWorkflow, sexes SexLookup, ranges RangeSource, reporter reporting.Reporter, inTx TxRunner) *Service {
	return &Service{
		repo:     repo,
		orders:   orders,
		sexes:    sexes,
		ranges:   ranges,
		reporter: reporter,
		inTx:     inTx,
		now:      time.Now,
	}
}

// Submit creates or refreshes the result for one test of an order, placing it
// Under Review. Every value is classified against its reference range and the
// patient's recorded sex. Resubmission replaces the previous value list.
//
// The upsert and any order advance the reconciler derives commit in one
// transaction: apply-or-no-op, never a half-applied pair.
func (s *Service) Submit(ctx context.Context, orderID uuid.UUID, in SubmitInput, actor string) (*Result, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}

	testName := strings.TrimSpace(in.TestName)
	if !contains(o.Tests, testName) {
		return nil, &ValidationError{Field: "test_name", Message: fmt.Sprintf("test %q is not on this order", testName)}
	}
	if len(in.Values) == 0 {
		return nil, &ValidationError{Field: "values", Message: "at least one value is required"}
	}

	sex, err := s.sexes.SexOf(ctx, o.PatientID)
	if err != nil {
		return nil, err
	}

	values := make([]Value, 0, len(in.Values))
	for _, v := range in.Values {
		if strings.TrimSpace(v.Analyte) == "" {
			return nil, &ValidationError{Field: "values", Message: "analyte name is required"}
		}
		refRange := v.ReferenceRange
		if refRange == "" {
			refRange, err = s.ranges.ReferenceRangeFor(ctx, testName, v.Analyte)
			if err != nil {
				return nil, err
			}
		}
		values = append(values, Value{
			Analyte:        v.Analyte,
			Value:          v.Value,
			Unit:           v.Unit,
			ReferenceRange: refRange,
			Flag:           labflag.Classify(v.Value, refRange, sex),
		})
	}

	res := &Result{
		ID:        uuid.New(),
		OrderID:   o.ID,
		TestName:  testName,
		Status:    workflow.UnderReview,
		EnteredBy: actor,
		EnteredAt: s.now(),
		Values:    values,
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Upsert(ctx, res); err != nil {
			return err
		}
		return s.reconcile(ctx, o.ID)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("order_id", o.ID.String()).
		Str("test", testName).
		Int("values", len(values)).
		Bool("abnormal", res.HasAbnormal()).
		Msg("result submitted")
	return res, nil
}

// Approve moves a result Under Review to Approved, stamping the reviewer.
// Approving an already approved result is a no-op success.
func (s *Service) Approve(ctx context.Context, resultID uuid.UUID, actor string) (*Result, error) {
	return s.review(ctx, resultID, actor, workflow.Approved, workflow.UnderReview)
}

// Reject moves a result Under Review back to Entered. The entered values are
// kept so the technician can amend rather than retype.
func (s *Service) Reject(ctx context.Context, resultID uuid.UUID, actor string) (*Result, error) {
	return s.review(ctx, resultID, actor, workflow.Entered, workflow.UnderReview)
}

func (s *Service) review(ctx context.Context, resultID uuid.UUID, actor string, target, from workflow.ResultStatus) (*Result, error) {
	res, err := s.repo.GetByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	if res.Status == target {
		return res, nil
	}
	if res.Status != from {
		return nil, &workflow.InvalidTransitionError{From: string(res.Status), To: string(target)}
	}

	now := s.now()
	reviewer := actor
	res.Status = target
	res.ReviewedBy = &reviewer
	res.ReviewedAt = &now
	res.UpdatedAt = now

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, res); err != nil {
			return err
		}
		return s.reconcile(ctx, res.OrderID)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("result_id", res.ID.String()).
		Str("status", string(target)).
		Str("actor", actor).
		Msg("result reviewed")
	return res, nil
}

// MarkReported moves an Approved result to Reported and asks the reporting
// collaborator to create the report record. Already reported is a no-op.
func (s *Service) MarkReported(ctx context.Context, resultID uuid.UUID, actor string) (*Result, error) {
	res, err := s.repo.GetByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	if res.Status == workflow.Reported {
		return res, nil
	}
	if res.Status != workflow.Approved {
		return nil, &workflow.InvalidTransitionError{From: string(res.Status), To: string(workflow.Reported)}
	}

	o, err := s.orders.Get(ctx, res.OrderID)
	if err != nil {
		return nil, err
	}
	doctor := ""
	if o != nil && o.ReferringDoctor != nil {
		doctor = *o.ReferringDoctor
	}

	res.Status = workflow.Reported
	res.UpdatedAt = s.now()

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, res); err != nil {
			return err
		}
		if err := s.reporter.CreateReport(ctx, res.OrderID, res.ID, doctor); err != nil {
			return err
		}
		return s.reconcile(ctx, res.OrderID)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("result_id", res.ID.String()).
		Str("actor", actor).
		Msg("result reported")
	return res, nil
}

// RevertToUnderReview reopens a Reported result for correction. The report
// record is rolled back; submitted values are untouched. Reconciliation runs
// like after every other mutation, but it never regresses, so un-completing
// the order stays an explicit manual decision.
func (s *Service) RevertToUnderReview(ctx context.Context, resultID uuid.UUID, actor string) (*Result, error) {
	res, err := s.repo.GetByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	if res.Status == workflow.UnderReview {
		return res, nil
	}
	if res.Status != workflow.Reported {
		return nil, &workflow.InvalidTransitionError{From: string(res.Status), To: string(workflow.UnderReview)}
	}

	res.Status = workflow.UnderReview
	res.ReviewedBy = nil
	res.ReviewedAt = nil
	res.UpdatedAt = s.now()

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, res); err != nil {
			return err
		}
		if err := s.reporter.SetReportStatus(ctx, res.ID, reporting.StatusReverted); err != nil {
			return err
		}
		return s.reconcile(ctx, res.OrderID)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("result_id", res.ID.String()).
		Str("actor", actor).
		Msg("result reverted for correction")
	return res, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Result, error) {
	return s.repo.ListByOrder(ctx, orderID)
}

func (s *Service) ListAbnormal(ctx context.Context, limit, offset int) ([]*Result, int, error) {
	return s.repo.ListAbnormal(ctx, limit, offset)
}

// reconcile re-derives the order status from committed result state. It runs
// inside the mutation's transaction, so it observes the triggering write and
// commits atomically with it.
func (s *Service) reconcile(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return nil
	}
	results, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	states := make([]workflow.ResultState, len(results))
	for i, r := range results {
		states[i] = workflow.ResultState{Status: r.Status, HasValues: r.HasValues()}
	}
	next, advance := workflow.Reconcile(o.Status, len(o.Tests), states)
	if !advance {
		return nil
	}
	_, err = s.orders.ApplyReconciled(ctx, o, next)
	return err
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
