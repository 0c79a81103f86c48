// Package domain defines the catalog types of the products service
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one catalog row
type Product struct {
	ID          int64               `json:"id"`
	BranchID    int64               `json:"branch_id"`
	Code        string              `json:"code"`
	Reference   string              `json:"reference,omitempty"`
	Description string              `json:"description"`
	Barcode1    string              `json:"barcode1,omitempty"`
	Barcode2    string              `json:"barcode2,omitempty"`
	Brand       string              `json:"brand,omitempty"`
	Section     string              `json:"section,omitempty"`
	Balance     int                 `json:"balance"`
	Price       decimal.NullDecimal `json:"price"`
	AverageCost decimal.NullDecimal `json:"average_cost"`
	Deleted     bool                `json:"deleted"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ProductUpsert is one row of a catalog import keyed by (BranchID, Code)
type ProductUpsert struct {
	BranchID    int64
	Code        string
	Reference   string
	Description string
	Barcode1    string
	Barcode2    string
	Brand       string
	Section     string
	Balance     int
	Price       decimal.NullDecimal
	AverageCost decimal.NullDecimal
	Deleted     bool
}

// ImportResult reports how an import went
type ImportResult struct {
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}
