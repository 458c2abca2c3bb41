package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID          int64           `db:"id" json:"id"`
	SaleDate    string          `db:"sale_date" json:"saleDate"`
	Medicines   MedicineIDs     `db:"medicines" json:"medicines"`
	Quantities  Quantities      `db:"quantities" json:"quantities"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
}

// SaleItem is one medicine line of a sale.
type SaleItem struct {
	MedicineID int64
	Quantity   int64
}

// Items returns the sale lines in the order the medicines were recorded.
// Medicines without a positive quantity are skipped.
func (s Sale) Items() []SaleItem {
	items := make([]SaleItem, 0, len(s.Medicines))
	for _, id := range s.Medicines {
		qty := s.Quantities[id]
		if qty <= 0 {
			continue
		}
		items = append(items, SaleItem{MedicineID: id, Quantity: qty})
	}
	return items
}

// MedicineIDs is stored as a JSON array in a TEXT column.
type MedicineIDs []int64

func (ids MedicineIDs) Value() (driver.Value, error) {
	if ids == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]int64(ids))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (ids *MedicineIDs) Scan(src any) error {
	raw, err := textColumn(src)
	if err != nil {
		return fmt.Errorf("scan medicines: %w", err)
	}
	out := MedicineIDs{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("scan medicines: %w", err)
		}
	}
	*ids = out
	return nil
}

// Quantities maps a medicine id to the number of units sold. It is stored as
// a JSON object keyed by the decimal id, the same shape the API accepts.
type Quantities map[int64]int64

func (q Quantities) Value() (driver.Value, error) {
	if q == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[int64]int64(q))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (q *Quantities) Scan(src any) error {
	raw, err := textColumn(src)
	if err != nil {
		return fmt.Errorf("scan quantities: %w", err)
	}
	out := Quantities{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("scan quantities: %w", err)
		}
	}
	*q = out
	return nil
}

func textColumn(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", src)
	}
}
