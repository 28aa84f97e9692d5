package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/openlims/lims/internal/workflow"
)

// Order maps to the lab_orders table. Sample identity (sample ID, color) is
// stamped once at creation and never changes.
type Order struct {
	ID              uuid.UUID             `db:"id" json:"id"`
	PatientID       uuid.UUID             `db:"patient_id" json:"patient_id"`
	SampleID        string                `db:"sample_id" json:"sample_id"`
	ColorCode       string                `db:"color_code" json:"color_code"`
	ColorName       string                `db:"color_name" json:"color_name"`
	Status          workflow.OrderStatus  `db:"status" json:"status"`
	Priority        workflow.Priority     `db:"priority" json:"priority"`
	Tests           []string              `db:"tests" json:"tests"`
	TotalAmount     float64               `db:"total_amount" json:"total_amount"`
	ReferringDoctor *string               `db:"referring_doctor" json:"referring_doctor,omitempty"`
	CollectedAt     *time.Time            `db:"collected_at" json:"collected_at,omitempty"`
	CollectedBy     *string               `db:"collected_by" json:"collected_by,omitempty"`
	StatusChangedBy *string               `db:"status_changed_by" json:"status_changed_by,omitempty"`
	StatusChangedAt *time.Time            `db:"status_changed_at" json:"status_changed_at,omitempty"`
	CreatedAt       time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time             `db:"updated_at" json:"updated_at"`
}

// StatusChange is one audit record in order_status_history.
type StatusChange struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	FromStatus string    `db:"from_status" json:"from_status"`
	ToStatus   string    `db:"to_status" json:"to_status"`
	ChangedBy  string    `db:"changed_by" json:"changed_by"`
	ChangedAt  time.Time `db:"changed_at" json:"changed_at"`
	Reason     *string   `db:"reason" json:"reason,omitempty"`
}
