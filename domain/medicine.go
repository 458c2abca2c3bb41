package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxQuantity bounds every quantity the service accepts: a sale line, a
// stock level and a CSV cell. Stock is kept within ±MaxQuantity, far from
// where SQLite would overflow the integer column into REAL.
const MaxQuantity = 1_000_000_000

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrQuantityRange = fmt.Errorf("quantity must be between %d and %d", -MaxQuantity, MaxQuantity)
)

func init() {
	// The browser UI treats prices and totals as plain numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Medicine struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name" validate:"required"`
	Form         string          `db:"form" json:"form"`
	Dosage       string          `db:"dosage" json:"dosage"`
	Manufacturer string          `db:"manufacturer" json:"manufacturer"`
	ExpiryDate   string          `db:"expiry_date" json:"expiryDate"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	Price        decimal.Decimal `db:"price" json:"price"`
}

// Check enforces the medicine rules struct tags do not cover.
func (m Medicine) Check() error {
	if m.Price.IsNegative() {
		return ErrNegativePrice
	}
	if m.Quantity < -MaxQuantity || m.Quantity > MaxQuantity {
		return ErrQuantityRange
	}
	return nil
}
