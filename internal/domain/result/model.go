package result

import (
	"time"

	"github.com/google/uuid"

	"github.com/openlims/lims/internal/labflag"
	"github.com/openlims/lims/internal/workflow"
)

// Value is one measured analyte within a result. The list is stored as JSONB
// on the result row; flags are computed at submission time and persisted with
// the value.
type Value struct {
	Analyte        string       `json:"analyte"`
	Value          string       `json:"value"`
	Unit           string       `json:"unit,omitempty"`
	ReferenceRange string       `json:"reference_range,omitempty"`
	Flag           labflag.Flag `json:"flag,omitempty"`
}

// Result maps to the lab_results table. One result per (order, test name);
// resubmission replaces the value list, it never accumulates.
type Result struct {
	ID         uuid.UUID             `db:"id" json:"id"`
	OrderID    uuid.UUID             `db:"order_id" json:"order_id"`
	TestName   string                `db:"test_name" json:"test_name"`
	Status     workflow.ResultStatus `db:"status" json:"status"`
	EnteredBy  string                `db:"entered_by" json:"entered_by"`
	EnteredAt  time.Time             `db:"entered_at" json:"entered_at"`
	ReviewedBy *string               `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time            `db:"reviewed_at" json:"reviewed_at,omitempty"`
	Values     []Value               `db:"values" json:"values"`
	CreatedAt  time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time             `db:"updated_at" json:"updated_at"`
}

// HasValues reports whether the technician has submitted at least one value.
func (r *Result) HasValues() bool {
	return len(r.Values) > 0
}

// HasAbnormal reports whether any value carries an abnormal flag.
func (r *Result) HasAbnormal() bool {
	for _, v := range r.Values {
		if v.Flag.Abnormal() {
			return true
		}
	}
	return false
}
