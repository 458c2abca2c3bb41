package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
)

// Medicines is the medicine ledger. It exclusively owns quantity-on-hand.
type Medicines struct {
	db DBTX
}

func NewMedicines(db DBTX) *Medicines {
	return &Medicines{db: db}
}

// WithTx returns a ledger bound to tx.
func (s *Medicines) WithTx(tx *sqlx.Tx) *Medicines {
	return &Medicines{db: tx}
}

const medicineColumns = `id, name, form, dosage, manufacturer, expiry_date, quantity, price`

func (s *Medicines) Get(ctx context.Context, id int64) (domain.Medicine, error) {
	var m domain.Medicine
	err := s.db.GetContext(ctx, &m, `SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id)
	if err != nil {
		return domain.Medicine{}, notFound(err)
	}
	return m, nil
}

// List returns medicines ordered by id whose name contains query.
func (s *Medicines) List(ctx context.Context, query string) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	if err := s.db.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines ORDER BY id`); err != nil {
		return nil, err
	}
	return filter(medicines, func(m domain.Medicine) bool {
		return matchFold(query, m.Name)
	}), nil
}

func (s *Medicines) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM medicines`)
	return n, err
}

func (s *Medicines) Create(ctx context.Context, m domain.Medicine) (domain.Medicine, error) {
	id, err := insertedID(s.db.NamedExecContext(ctx, `
		INSERT INTO medicines (name, form, dosage, manufacturer, expiry_date, quantity, price)
		VALUES (:name, :form, :dosage, :manufacturer, :expiry_date, :quantity, :price)`, m))
	if err != nil {
		return domain.Medicine{}, err
	}
	m.ID = id
	return m, nil
}

// Update overwrites every editable field, including quantity-on-hand.
func (s *Medicines) Update(ctx context.Context, id int64, m domain.Medicine) (domain.Medicine, error) {
	m.ID = id
	err := affectedOne(s.db.NamedExecContext(ctx, `
		UPDATE medicines
		SET name = :name, form = :form, dosage = :dosage, manufacturer = :manufacturer,
		    expiry_date = :expiry_date, quantity = :quantity, price = :price
		WHERE id = :id`, m))
	if err != nil {
		return domain.Medicine{}, err
	}
	return m, nil
}

func (s *Medicines) Delete(ctx context.Context, id int64) error {
	return affectedOne(s.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, id))
}

// AdjustQuantity adds delta (which may be negative) to quantity-on-hand.
// The update is relative so it never overwrites a concurrent adjustment.
// Stock is not floored at zero, but an adjustment that would leave
// ±domain.MaxQuantity is refused with ErrQuantityRange.
func (s *Medicines) AdjustQuantity(ctx context.Context, id int64, delta int64) error {
	err := affectedOne(s.db.ExecContext(ctx, `
		UPDATE medicines SET quantity = quantity + ?
		WHERE id = ? AND quantity + ? BETWEEN ? AND ?`,
		delta, id, delta, -domain.MaxQuantity, domain.MaxQuantity))
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM medicines WHERE id = ?)`, id); err != nil {
		return err
	}
	if exists {
		return ErrQuantityRange
	}
	return ErrNotFound
}

// Prices returns the unit price of every id that exists. Ids that do not
// resolve are absent from the result.
func (s *Medicines) Prices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}
	query, args, err := sqlx.In(`SELECT id, price FROM medicines WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build price query: %w", err)
	}
	var rows []struct {
		ID    int64           `db:"id"`
		Price decimal.Decimal `db:"price"`
	}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		prices[row.ID] = row.Price
	}
	return prices, nil
}
