package result

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openlims/lims/internal/platform/db"
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

const resultColumns = `id, order_id, test_name, status, entered_by, entered_at,
	reviewed_by, reviewed_at, "values", created_at, updated_at`

func scanResult(row pgx.Row) (*Result, error) {
	var res Result
	err := row.Scan(&res.ID, &res.OrderID, &res.TestName, &res.Status,
		&res.EnteredBy, &res.EnteredAt, &res.ReviewedBy, &res.ReviewedAt,
		&res.Values, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Upsert inserts or refreshes the result keyed by (order_id, test_name).
// Resubmission replaces the value list and resets the review stamps.
func (r *PostgresRepository) Upsert(ctx context.Context, res *Result) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO lab_results (id, order_id, test_name, status, entered_by, entered_at, "values")
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id, test_name)
		DO UPDATE SET status = EXCLUDED.status, entered_by = EXCLUDED.entered_by,
			entered_at = EXCLUDED.entered_at, "values" = EXCLUDED."values",
			reviewed_by = NULL, reviewed_at = NULL, updated_at = NOW()
		RETURNING id`,
		res.ID, res.OrderID, res.TestName, res.Status, res.EnteredBy, res.EnteredAt, res.Values).
		Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Result, error) {
	res, err := scanResult(r.conn(ctx).QueryRow(ctx,
		`SELECT `+resultColumns+` FROM lab_results WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return res, err
}

func (r *PostgresRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*Result, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+resultColumns+` FROM lab_results WHERE order_id = $1 ORDER BY test_name`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, res)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, res *Result) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_results
		SET status = $2, reviewed_by = $3, reviewed_at = $4, "values" = $5, updated_at = NOW()
		WHERE id = $1`,
		res.ID, res.Status, res.ReviewedBy, res.ReviewedAt, res.Values)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListAbnormal returns results where at least one value carries an abnormal
// flag, newest first.
func (r *PostgresRepository) ListAbnormal(ctx context.Context, limit, offset int) ([]*Result, int, error) {
	const abnormal = `EXISTS (
		SELECT 1 FROM jsonb_array_elements(lab_results."values") v
		WHERE v->>'flag' IN ('H', 'L', 'C'))`

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM lab_results WHERE `+abnormal).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+resultColumns+` FROM lab_results WHERE `+abnormal+
			` ORDER BY updated_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, res)
	}
	return items, total, rows.Err()
}
