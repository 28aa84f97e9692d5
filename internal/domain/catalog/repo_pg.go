package catalog

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

// UpsertGroup inserts the group if its name is unseen. Existing groups keep
// their price so local edits survive a reseed.
func (r *PostgresRepository) UpsertGroup(ctx context.Context, g *TestGroup) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO test_groups (id, name, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING`,
		g.ID, g.Name, g.Price)
	if err != nil {
		return fmt.Errorf("upsert test group: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpsertAnalyte(ctx context.Context, a *Analyte) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO analytes (id, test_group_id, name, unit, reference_range, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (test_group_id, name) DO NOTHING`,
		a.ID, a.TestGroupID, a.Name, a.Unit, a.ReferenceRange, a.SortOrder)
	if err != nil {
		return fmt.Errorf("upsert analyte: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetGroupByName(ctx context.Context, name string) (*TestGroup, error) {
	var g TestGroup
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, price FROM test_groups WHERE name = $1`, name).
		Scan(&g.ID, &g.Name, &g.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PostgresRepository) ListGroups(ctx context.Context) ([]*TestGroup, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, name, price FROM test_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*TestGroup
	for rows.Next() {
		var g TestGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Price); err != nil {
			return nil, err
		}
		items = append(items, &g)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListAnalytes(ctx context.Context, groupID uuid.UUID) ([]*Analyte, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, test_group_id, name, unit, reference_range, sort_order
		FROM analytes WHERE test_group_id = $1 ORDER BY sort_order, name`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnalytes(rows)
}

func (r *PostgresRepository) ListAnalytesByGroupName(ctx context.Context, groupName string) ([]*Analyte, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.id, a.test_group_id, a.name, a.unit, a.reference_range, a.sort_order
		FROM analytes a
		JOIN test_groups g ON g.id = a.test_group_id
		WHERE g.name = $1 ORDER BY a.sort_order, a.name`, groupName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAnalytes(rows)
}

func scanAnalytes(rows pgx.Rows) ([]*Analyte, error) {
	var items []*Analyte
	for rows.Next() {
		var a Analyte
		if err := rows.Scan(&a.ID, &a.TestGroupID, &a.Name, &a.Unit, &a.ReferenceRange, &a.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}
