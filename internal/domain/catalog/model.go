// Package catalog holds the orderable test menu: test groups (panels) with
// their prices, and the analytes each group measures together with units and
// reference ranges. Reference ranges are stored as free text and interpreted
// by the labflag package at result entry.
package catalog

import (
	"github.com/google/uuid"
)

// TestGroup is an orderable panel, e.g. "Complete Blood Count".
type TestGroup struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Price float64   `db:"price" json:"price"`
}

// Analyte is one measured quantity within a test group.
type Analyte struct {
	ID             uuid.UUID `db:"id" json:"id"`
	TestGroupID    uuid.UUID `db:"test_group_id" json:"test_group_id"`
	Name           string    `db:"name" json:"name"`
	Unit           string    `db:"unit" json:"unit"`
	ReferenceRange string    `db:"reference_range" json:"reference_range"`
	SortOrder      int       `db:"sort_order" json:"sort_order"`
}
