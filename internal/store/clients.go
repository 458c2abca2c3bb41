package store

import (
	"context"

	"pharmacy/m/domain"
)

type Clients struct {
	db DBTX
}

func NewClients(db DBTX) *Clients {
	return &Clients{db: db}
}

const clientColumns = `id, full_name, birth_date, phone_number, address, purchase_history`

func (s *Clients) Get(ctx context.Context, id int64) (domain.Client, error) {
	var c domain.Client
	if err := s.db.GetContext(ctx, &c, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id); err != nil {
		return domain.Client{}, notFound(err)
	}
	return c, nil
}

// List filters on the client's full name.
func (s *Clients) List(ctx context.Context, query string) ([]domain.Client, error) {
	clients := []domain.Client{}
	if err := s.db.SelectContext(ctx, &clients, `SELECT `+clientColumns+` FROM clients ORDER BY id`); err != nil {
		return nil, err
	}
	return filter(clients, func(c domain.Client) bool {
		return matchFold(query, c.FullName)
	}), nil
}

func (s *Clients) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	id, err := insertedID(s.db.NamedExecContext(ctx, `
		INSERT INTO clients (full_name, birth_date, phone_number, address, purchase_history)
		VALUES (:full_name, :birth_date, :phone_number, :address, :purchase_history)`, c))
	if err != nil {
		return domain.Client{}, err
	}
	c.ID = id
	return c, nil
}

func (s *Clients) Update(ctx context.Context, id int64, c domain.Client) (domain.Client, error) {
	c.ID = id
	err := affectedOne(s.db.NamedExecContext(ctx, `
		UPDATE clients
		SET full_name = :full_name, birth_date = :birth_date, phone_number = :phone_number,
		    address = :address, purchase_history = :purchase_history
		WHERE id = :id`, c))
	if err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (s *Clients) Delete(ctx context.Context, id int64) error {
	return affectedOne(s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id))
}
