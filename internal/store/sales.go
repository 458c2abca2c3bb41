package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"pharmacy/m/domain"
)

// Sales is the sale record store. It persists rows only; stock bookkeeping
// belongs to the sales engine.
type Sales struct {
	db DBTX
}

func NewSales(db DBTX) *Sales {
	return &Sales{db: db}
}

func (s *Sales) WithTx(tx *sqlx.Tx) *Sales {
	return &Sales{db: tx}
}

const saleColumns = `id, sale_date, medicines, quantities, total_amount`

func (s *Sales) Get(ctx context.Context, id int64) (domain.Sale, error) {
	var sale domain.Sale
	err := s.db.GetContext(ctx, &sale, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	if err != nil {
		return domain.Sale{}, notFound(err)
	}
	return sale, nil
}

// List returns sales ordered by id whose id contains query.
func (s *Sales) List(ctx context.Context, query string) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	if err := s.db.SelectContext(ctx, &sales, `SELECT `+saleColumns+` FROM sales ORDER BY id`); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	return filter(sales, func(sale domain.Sale) bool {
		return strings.Contains(strconv.FormatInt(sale.ID, 10), query)
	}), nil
}

func (s *Sales) Create(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	id, err := insertedID(s.db.NamedExecContext(ctx, `
		INSERT INTO sales (sale_date, medicines, quantities, total_amount)
		VALUES (:sale_date, :medicines, :quantities, :total_amount)`, sale))
	if err != nil {
		return domain.Sale{}, err
	}
	sale.ID = id
	return sale, nil
}

func (s *Sales) Update(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	err := affectedOne(s.db.NamedExecContext(ctx, `
		UPDATE sales
		SET sale_date = :sale_date, medicines = :medicines, quantities = :quantities, total_amount = :total_amount
		WHERE id = :id`, sale))
	if err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

func (s *Sales) Delete(ctx context.Context, id int64) error {
	return affectedOne(s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id))
}
