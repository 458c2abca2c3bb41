package store

import (
	"context"

	"pharmacy/m/domain"
)

// Supplies records incoming deliveries. They are bookkeeping only and do not
// touch medicine stock.
type Supplies struct {
	db DBTX
}

func NewSupplies(db DBTX) *Supplies {
	return &Supplies{db: db}
}

const supplyColumns = `id, supply_number, supply_date, medicine_list, quantity, supplier`

func (s *Supplies) Get(ctx context.Context, id int64) (domain.Supply, error) {
	var sup domain.Supply
	if err := s.db.GetContext(ctx, &sup, `SELECT `+supplyColumns+` FROM supplies WHERE id = ?`, id); err != nil {
		return domain.Supply{}, notFound(err)
	}
	return sup, nil
}

func (s *Supplies) List(ctx context.Context, query string) ([]domain.Supply, error) {
	supplies := []domain.Supply{}
	if err := s.db.SelectContext(ctx, &supplies, `SELECT `+supplyColumns+` FROM supplies ORDER BY id`); err != nil {
		return nil, err
	}
	return filter(supplies, func(sup domain.Supply) bool {
		return matchFold(query, sup.SupplyNumber)
	}), nil
}

func (s *Supplies) Create(ctx context.Context, sup domain.Supply) (domain.Supply, error) {
	id, err := insertedID(s.db.NamedExecContext(ctx, `
		INSERT INTO supplies (supply_number, supply_date, medicine_list, quantity, supplier)
		VALUES (:supply_number, :supply_date, :medicine_list, :quantity, :supplier)`, sup))
	if err != nil {
		return domain.Supply{}, err
	}
	sup.ID = id
	return sup, nil
}

func (s *Supplies) Update(ctx context.Context, id int64, sup domain.Supply) (domain.Supply, error) {
	sup.ID = id
	err := affectedOne(s.db.NamedExecContext(ctx, `
		UPDATE supplies
		SET supply_number = :supply_number, supply_date = :supply_date, medicine_list = :medicine_list,
		    quantity = :quantity, supplier = :supplier
		WHERE id = :id`, sup))
	if err != nil {
		return domain.Supply{}, err
	}
	return sup, nil
}

func (s *Supplies) Delete(ctx context.Context, id int64) error {
	return affectedOne(s.db.ExecContext(ctx, `DELETE FROM supplies WHERE id = ?`, id))
}
