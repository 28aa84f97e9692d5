package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openlims/lims/internal/platform/db"
	"github.com/openlims/lims/internal/workflow"
)

// PostgresRepository implements Repository backed by pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const orderColumns = `id, patient_id, sample_id, color_code, color_name, status, priority, tests,
	total_amount, referring_doctor, collected_at, collected_by,
	status_changed_by, status_changed_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.PatientID, &o.SampleID, &o.ColorCode, &o.ColorName,
		&o.Status, &o.Priority, &o.Tests, &o.TotalAmount, &o.ReferringDoctor,
		&o.CollectedAt, &o.CollectedBy, &o.StatusChangedBy, &o.StatusChangedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts the order. Two writers allocating the same daily sequence
// collide on the sample_id unique index; that surfaces here as
// workflow.ErrConcurrencyConflict so the caller can retry.
func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_orders (id, patient_id, sample_id, color_code, color_name,
			status, priority, tests, total_amount, referring_doctor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.PatientID, o.SampleID, o.ColorCode, o.ColorName,
		o.Status, o.Priority, o.Tests, o.TotalAmount, o.ReferringDoctor)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "lab_orders_sample_id_key" {
			return workflow.ErrConcurrencyConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.conn(ctx).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM lab_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

func (r *PostgresRepository) Update(ctx context.Context, o *Order) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_orders
		SET status = $2, collected_at = $3, collected_by = $4,
		    status_changed_by = $5, status_changed_at = $6, updated_at = NOW()
		WHERE id = $1`,
		o.ID, o.Status, o.CollectedAt, o.CollectedBy, o.StatusChangedBy, o.StatusChangedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) Search(ctx context.Context, f SearchFilter) ([]*Order, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.PatientID != uuid.Nil {
		n++
		where += fmt.Sprintf(` AND patient_id = $%d`, n)
		args = append(args, f.PatientID)
	}
	if f.Status != "" {
		n++
		where += fmt.Sprintf(` AND status = $%d`, n)
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		n++
		where += fmt.Sprintf(` AND priority = $%d`, n)
		args = append(args, f.Priority)
	}
	if f.SampleID != "" {
		n++
		where += fmt.Sprintf(` AND sample_id = $%d`, n)
		args = append(args, f.SampleID)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM lab_orders` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, rows.Err()
}

// CountCreatedOn counts orders created on the given calendar day, feeding the
// daily sample sequence.
func (r *PostgresRepository) CountCreatedOn(ctx context.Context, day time.Time) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_orders WHERE DATE(created_at) = DATE($1)`, day).Scan(&count)
	return count, err
}

func (r *PostgresRepository) AddStatusChange(ctx context.Context, h *StatusChange) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO order_status_history (id, order_id, from_status, to_status, changed_by, changed_at, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.OrderID, h.FromStatus, h.ToStatus, h.ChangedBy, h.ChangedAt, h.Reason)
	if err != nil {
		return fmt.Errorf("insert status change: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListStatusChanges(ctx context.Context, orderID uuid.UUID) ([]*StatusChange, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, order_id, from_status, to_status, changed_by, changed_at, reason
		FROM order_status_history WHERE order_id = $1 ORDER BY changed_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*StatusChange
	for rows.Next() {
		var h StatusChange
		if err := rows.Scan(&h.ID, &h.OrderID, &h.FromStatus, &h.ToStatus, &h.ChangedBy, &h.ChangedAt, &h.Reason); err != nil {
			return nil, err
		}
		items = append(items, &h)
	}
	return items, rows.Err()
}
