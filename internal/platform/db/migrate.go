package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the LIMS tables in dependency order. Statements are
// idempotent so migrate can run on every deploy.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id UUID PRIMARY KEY,
		mrn VARCHAR(32) NOT NULL UNIQUE,
		first_name VARCHAR(128) NOT NULL,
		last_name VARCHAR(128) NOT NULL,
		sex VARCHAR(1),
		birth_date DATE,
		phone VARCHAR(32),
		email VARCHAR(255),
		address TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE SEQUENCE IF NOT EXISTS patients_mrn_seq START 1000`,
	`CREATE TABLE IF NOT EXISTS test_groups (
		id UUID PRIMARY KEY,
		name VARCHAR(128) NOT NULL UNIQUE,
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS analytes (
		id UUID PRIMARY KEY,
		test_group_id UUID NOT NULL REFERENCES test_groups(id),
		name VARCHAR(128) NOT NULL,
		unit VARCHAR(32),
		reference_range VARCHAR(128),
		sort_order INT NOT NULL DEFAULT 0,
		UNIQUE (test_group_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS lab_orders (
		id UUID PRIMARY KEY,
		patient_id UUID NOT NULL REFERENCES patients(id),
		sample_id VARCHAR(32) NOT NULL UNIQUE,
		color_code VARCHAR(8) NOT NULL,
		color_name VARCHAR(16) NOT NULL,
		status VARCHAR(32) NOT NULL,
		priority VARCHAR(8) NOT NULL,
		tests TEXT[] NOT NULL,
		total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
		referring_doctor VARCHAR(128),
		collected_at TIMESTAMPTZ,
		collected_by VARCHAR(128),
		status_changed_by VARCHAR(128),
		status_changed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lab_orders_patient ON lab_orders(patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_lab_orders_status ON lab_orders(status)`,
	`CREATE INDEX IF NOT EXISTS idx_lab_orders_created ON lab_orders(created_at)`,
	`CREATE TABLE IF NOT EXISTS order_status_history (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES lab_orders(id),
		from_status VARCHAR(32) NOT NULL,
		to_status VARCHAR(32) NOT NULL,
		changed_by VARCHAR(128) NOT NULL,
		changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		reason TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS lab_results (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES lab_orders(id),
		test_name VARCHAR(128) NOT NULL,
		status VARCHAR(16) NOT NULL,
		entered_by VARCHAR(128) NOT NULL,
		entered_at TIMESTAMPTZ NOT NULL,
		reviewed_by VARCHAR(128),
		reviewed_at TIMESTAMPTZ,
		"values" JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (order_id, test_name)
	)`,
	`CREATE TABLE IF NOT EXISTS lab_reports (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES lab_orders(id),
		result_id UUID NOT NULL UNIQUE,
		doctor VARCHAR(128),
		status VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
