// Package billing prices orders and summarizes revenue. Prices live on test
// groups in the catalog; an order's total is the sum of its groups' prices at
// creation time and is frozen on the order row afterwards.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openlims/lims/internal/platform/db"
)

// PriceEntry is one line of the published price list.
type PriceEntry struct {
	TestGroup string  `json:"test_group"`
	Price     float64 `json:"price"`
}

// RevenueDay is total billed amount for one calendar day.
type RevenueDay struct {
	Day    time.Time `json:"day"`
	Orders int       `json:"orders"`
	Amount float64   `json:"amount"`
}

// Service answers pricing lookups and revenue queries.
type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

func (s *Service) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return s.pool
}

// Price returns the current price for a test group. Unknown groups are an
// error so an order can never be created with unpriced tests.
func (s *Service) Price(ctx context.Context, testGroup string) (float64, error) {
	var price float64
	err := s.conn(ctx).QueryRow(ctx,
		`SELECT price FROM test_groups WHERE name = $1`, testGroup).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("no price for test group %q", testGroup)
	}
	return price, err
}

// PriceList returns every published price, alphabetical by group.
func (s *Service) PriceList(ctx context.Context) ([]*PriceEntry, error) {
	rows, err := s.conn(ctx).Query(ctx, `SELECT name, price FROM test_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PriceEntry
	for rows.Next() {
		var e PriceEntry
		if err := rows.Scan(&e.TestGroup, &e.Price); err != nil {
			return nil, err
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}

// RevenueByDay sums order totals per calendar day over [from, to].
func (s *Service) RevenueByDay(ctx context.Context, from, to time.Time) ([]*RevenueDay, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		SELECT DATE(created_at) AS day, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM lab_orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY DATE(created_at)
		ORDER BY day`, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RevenueDay
	for rows.Next() {
		var d RevenueDay
		if err := rows.Scan(&d.Day, &d.Orders, &d.Amount); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}
