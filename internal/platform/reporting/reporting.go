// Package reporting is the report-record collaborator. The result workflow
// notifies it when a result reaches Reported, and asks it to roll a record
// back when a reported result is reopened for correction. Document rendering
// (PDF layout, delivery) lives in a separate service that consumes these
// records.
package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openlims/lims/internal/platform/db"
)

// Report statuses.
const (
	StatusGenerated = "Generated"
	StatusReverted  = "Reverted"
)

// Report is one report record per reported result.
type Report struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	ResultID  uuid.UUID `db:"result_id" json:"result_id"`
	Doctor    *string   `db:"doctor" json:"doctor,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Reporter is the interface the result workflow depends on.
type Reporter interface {
	CreateReport(ctx context.Context, orderID, resultID uuid.UUID, doctor string) error
	SetReportStatus(ctx context.Context, resultID uuid.UUID, status string) error
}

// PGReporter stores report records in Postgres.
type PGReporter struct {
	pool *pgxpool.Pool
}

func NewPGReporter(pool *pgxpool.Pool) *PGReporter {
	return &PGReporter{pool: pool}
}

func (r *PGReporter) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// CreateReport records a report for the result. Re-reporting a corrected
// result reactivates the existing record rather than duplicating it.
func (r *PGReporter) CreateReport(ctx context.Context, orderID, resultID uuid.UUID, doctor string) error {
	var doc *string
	if doctor != "" {
		doc = &doctor
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_reports (id, order_id, result_id, doctor, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (result_id)
		DO UPDATE SET status = EXCLUDED.status, doctor = EXCLUDED.doctor, updated_at = NOW()`,
		uuid.New(), orderID, resultID, doc, StatusGenerated)
	return err
}

// SetReportStatus updates the record for the given result.
func (r *PGReporter) SetReportStatus(ctx context.Context, resultID uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_reports SET status = $2, updated_at = NOW() WHERE result_id = $1`,
		resultID, status)
	return err
}

// List returns report records, newest first.
func (r *PGReporter) List(ctx context.Context, limit, offset int) ([]*Report, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_reports`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, order_id, result_id, doctor, status, created_at, updated_at
		FROM lab_reports ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.OrderID, &rep.ResultID, &rep.Doctor, &rep.Status, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &rep)
	}
	return items, total, nil
}
