package store

import (
	"context"

	"pharmacy/m/domain"
)

type Recipes struct {
	db DBTX
}

func NewRecipes(db DBTX) *Recipes {
	return &Recipes{db: db}
}

const recipeColumns = `id, recipe_number, issue_date, patient_name, prescribed_medicines, expiry_date`

func (s *Recipes) Get(ctx context.Context, id int64) (domain.Recipe, error) {
	var r domain.Recipe
	if err := s.db.GetContext(ctx, &r, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id); err != nil {
		return domain.Recipe{}, notFound(err)
	}
	return r, nil
}

// List filters on recipe number or patient name.
func (s *Recipes) List(ctx context.Context, query string) ([]domain.Recipe, error) {
	recipes := []domain.Recipe{}
	if err := s.db.SelectContext(ctx, &recipes, `SELECT `+recipeColumns+` FROM recipes ORDER BY id`); err != nil {
		return nil, err
	}
	return filter(recipes, func(r domain.Recipe) bool {
		return matchFold(query, r.RecipeNumber, r.PatientName)
	}), nil
}

func (s *Recipes) Create(ctx context.Context, r domain.Recipe) (domain.Recipe, error) {
	id, err := insertedID(s.db.NamedExecContext(ctx, `
		INSERT INTO recipes (recipe_number, issue_date, patient_name, prescribed_medicines, expiry_date)
		VALUES (:recipe_number, :issue_date, :patient_name, :prescribed_medicines, :expiry_date)`, r))
	if err != nil {
		return domain.Recipe{}, err
	}
	r.ID = id
	return r, nil
}

func (s *Recipes) Update(ctx context.Context, id int64, r domain.Recipe) (domain.Recipe, error) {
	r.ID = id
	err := affectedOne(s.db.NamedExecContext(ctx, `
		UPDATE recipes
		SET recipe_number = :recipe_number, issue_date = :issue_date, patient_name = :patient_name,
		    prescribed_medicines = :prescribed_medicines, expiry_date = :expiry_date
		WHERE id = :id`, r))
	if err != nil {
		return domain.Recipe{}, err
	}
	return r, nil
}

func (s *Recipes) Delete(ctx context.Context, id int64) error {
	return affectedOne(s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id))
}
